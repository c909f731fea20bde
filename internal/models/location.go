package models

// AddressNotFound is reported as the geoposition when reverse geocoding yields no place.
const AddressNotFound = "Address not found"

// Location is the geodetic position of a state vector together with the
// reverse-geocoded place name beneath it.
type Location struct {
	Latitude    float64 `json:"latitude"`    // Geodetic latitude, degrees.
	Longitude   float64 `json:"longitude"`   // Longitude, degrees east.
	Altitude    float64 `json:"altitude"`    // Height above the WGS84 ellipsoid, km. May be negative.
	Geoposition string  `json:"geoposition"` // Address or AddressNotFound.
}

// Speed is the instantaneous speed of a state vector in km/s.
type Speed struct {
	Speed float64 `json:"speed"`
}

// Current describes the state vector closest to the time of the request.
type Current struct {
	ClosestEpoch string  `json:"closest_epoch"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	Altitude     float64 `json:"altitude"`
	Geoposition  string  `json:"geoposition"`
	Speed        float64 `json:"speed"`
}
