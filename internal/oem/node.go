package oem

import (
	"encoding/xml"
	"strings"
)

// node captures an arbitrary XML element so header and metadata blocks can be
// returned without a fixed schema.
type node struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Content  string     `xml:",chardata"`
	Children []node     `xml:",any"`
}

// mapping converts the element into key/value form. Attributes become "@name"
// keys, repeated children become slices and text next to attributes or
// children is kept under "#text".
func (n *node) mapping() map[string]any {
	out := make(map[string]any, len(n.Attrs)+len(n.Children))
	for _, attr := range n.Attrs {
		out["@"+attr.Name.Local] = attr.Value
	}

	for idx := range n.Children {
		child := &n.Children[idx]
		key := child.XMLName.Local
		val := child.value()

		existing, seen := out[key]
		switch {
		case !seen:
			out[key] = val
		default:
			if list, ok := existing.([]any); ok {
				out[key] = append(list, val)
			} else {
				out[key] = []any{existing, val}
			}
		}
	}

	if text := strings.TrimSpace(n.Content); text != "" {
		out["#text"] = text
	}

	return out
}

// value returns the text of a leaf element, nil for an empty one, or a mapping otherwise.
func (n *node) value() any {
	if len(n.Attrs) == 0 && len(n.Children) == 0 {
		text := strings.TrimSpace(n.Content)
		if text == "" {
			return nil
		}
		return text
	}

	return n.mapping()
}
