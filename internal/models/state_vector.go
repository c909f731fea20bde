package models

// StateVector is a single ephemeris sample: the spacecraft position (km) and
// velocity (km/s) in the GCRS frame at EPOCH.
//
// JSON field names follow the element names of the CCSDS OEM feed.
type StateVector struct {
	Epoch string  `json:"EPOCH"` // Epoch in day-of-year form, e.g. 2024-045T12:04:00.000Z.
	X     float64 `json:"X"`
	Y     float64 `json:"Y"`
	Z     float64 `json:"Z"`
	XDot  float64 `json:"X_DOT"`
	YDot  float64 `json:"Y_DOT"`
	ZDot  float64 `json:"Z_DOT"`
}
