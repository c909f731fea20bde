// Package oem decodes CCSDS Orbit Ephemeris Messages in their XML (NDM) form.
//
// Only the parts of the message served by the tracker are modelled:
//
//	ndm
//	└── oem
//	    ├── header            (returned verbatim as a mapping)
//	    └── body
//	        └── segment
//	            ├── metadata  (returned verbatim as a mapping)
//	            └── data
//	                ├── COMMENT*
//	                └── stateVector*  (EPOCH, X, Y, Z, X_DOT, Y_DOT, Z_DOT)
//
// A document that does not have this shape is rejected with ErrParse instead of
// yielding partial results.
package oem

import (
	"encoding/xml"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/athyk213/ISS-Tracker/internal/models"
)

// ErrParse is returned when the feed cannot be decoded into an ephemeris.
var ErrParse = errors.New("malformed ephemeris document")

// Document is a decoded OEM message.
type Document struct {
	XMLName xml.Name `xml:"ndm"`
	OEM     *message `xml:"oem"`
}

type message struct {
	ID      string `xml:"id,attr"`
	Version string `xml:"version,attr"`
	Header  *node  `xml:"header"`
	Body    *body  `xml:"body"`
}

type body struct {
	Segments []segment `xml:"segment"`
}

type segment struct {
	Metadata *node `xml:"metadata"`
	Data     *data `xml:"data"`
}

type data struct {
	Comments     []string      `xml:"COMMENT"`
	StateVectors []stateVector `xml:"stateVector"`
}

type stateVector struct {
	Epoch string `xml:"EPOCH"`
	X     *value `xml:"X"`
	Y     *value `xml:"Y"`
	Z     *value `xml:"Z"`
	XDot  *value `xml:"X_DOT"`
	YDot  *value `xml:"Y_DOT"`
	ZDot  *value `xml:"Z_DOT"`
}

// value is a numeric element with an optional units attribute, e.g. <X units="km">1.0</X>.
type value struct {
	Units string `xml:"units,attr"`
	Text  string `xml:",chardata"`
}

// Decode parses raw feed bytes into a Document and checks that the
// oem/body/segment/data path is present.
func Decode(raw []byte) (*Document, error) {
	var doc Document
	if err := xml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	if doc.OEM == nil {
		return nil, fmt.Errorf("%w: missing oem element", ErrParse)
	}
	if _, err := doc.segment(); err != nil {
		return nil, err
	}

	return &doc, nil
}

// ParseStateVectors is a shorthand for Decode followed by StateVectors.
func ParseStateVectors(raw []byte) ([]models.StateVector, error) {
	doc, err := Decode(raw)
	if err != nil {
		return nil, err
	}

	return doc.StateVectors()
}

// segment returns the first segment of the body. The ISS feed publishes a single one.
func (d *Document) segment() (*segment, error) {
	if d.OEM.Body == nil || len(d.OEM.Body.Segments) == 0 {
		return nil, fmt.Errorf("%w: missing body/segment", ErrParse)
	}
	seg := &d.OEM.Body.Segments[0]
	if seg.Data == nil {
		return nil, fmt.Errorf("%w: missing segment data", ErrParse)
	}

	return seg, nil
}

// StateVectors converts every stateVector entry in feed order. A single
// malformed entry fails the whole call.
func (d *Document) StateVectors() ([]models.StateVector, error) {
	seg, err := d.segment()
	if err != nil {
		return nil, err
	}

	vectors := make([]models.StateVector, 0, len(seg.Data.StateVectors))
	for idx, raw := range seg.Data.StateVectors {
		vec, err := raw.toModel()
		if err != nil {
			return nil, fmt.Errorf("%w: stateVector %d: %w", ErrParse, idx, err)
		}
		vectors = append(vectors, vec)
	}

	return vectors, nil
}

// Comments returns the free-text comments of the data block. When several
// comments are present empty ones are skipped; a lone comment is always kept.
func (d *Document) Comments() []string {
	seg, err := d.segment()
	if err != nil {
		return []string{}
	}

	if len(seg.Data.Comments) == 1 {
		return []string{strings.TrimSpace(seg.Data.Comments[0])}
	}

	comments := make([]string, 0, len(seg.Data.Comments))
	for _, comment := range seg.Data.Comments {
		if comment = strings.TrimSpace(comment); comment != "" {
			comments = append(comments, comment)
		}
	}

	return comments
}

// Header returns the OEM header as a generic mapping.
func (d *Document) Header() (map[string]any, error) {
	if d.OEM.Header == nil {
		return nil, fmt.Errorf("%w: missing header", ErrParse)
	}

	return d.OEM.Header.mapping(), nil
}

// Metadata returns the segment metadata as a generic mapping.
func (d *Document) Metadata() (map[string]any, error) {
	seg, err := d.segment()
	if err != nil {
		return nil, err
	}
	if seg.Metadata == nil {
		return nil, fmt.Errorf("%w: missing metadata", ErrParse)
	}

	return seg.Metadata.mapping(), nil
}

func (sv stateVector) toModel() (models.StateVector, error) {
	vec := models.StateVector{Epoch: strings.TrimSpace(sv.Epoch)}
	if vec.Epoch == "" {
		return models.StateVector{}, errors.New("missing EPOCH")
	}

	var err error
	if vec.X, err = sv.X.float("X"); err != nil {
		return models.StateVector{}, err
	}
	if vec.Y, err = sv.Y.float("Y"); err != nil {
		return models.StateVector{}, err
	}
	if vec.Z, err = sv.Z.float("Z"); err != nil {
		return models.StateVector{}, err
	}
	if vec.XDot, err = sv.XDot.float("X_DOT"); err != nil {
		return models.StateVector{}, err
	}
	if vec.YDot, err = sv.YDot.float("Y_DOT"); err != nil {
		return models.StateVector{}, err
	}
	if vec.ZDot, err = sv.ZDot.float("Z_DOT"); err != nil {
		return models.StateVector{}, err
	}

	return vec, nil
}

func (v *value) float(name string) (float64, error) {
	if v == nil {
		return 0, fmt.Errorf("missing %s", name)
	}
	num, err := strconv.ParseFloat(strings.TrimSpace(v.Text), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, v.Text, err)
	}
	if math.IsNaN(num) || math.IsInf(num, 0) {
		return 0, fmt.Errorf("invalid %s %q: not a finite number", name, v.Text)
	}

	return num, nil
}
