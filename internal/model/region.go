package model

// zoom used for every region built from a device fix
const (
	LatitudeDelta  = 0.0922
	LongitudeDelta = 0.0421
)

// Coordinate is a plain latitude/longitude pair in degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Region is the map viewport, centered on the last known device location.
type Region struct {
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	LatitudeDelta  float64 `json:"latitudeDelta"`
	LongitudeDelta float64 `json:"longitudeDelta"`
}

// NewRegion centers a region on the given position with the fixed zoom deltas.
func NewRegion(latitude, longitude float64) Region {
	return Region{
		Latitude:       latitude,
		Longitude:      longitude,
		LatitudeDelta:  LatitudeDelta,
		LongitudeDelta: LongitudeDelta,
	}
}

func (r Region) Center() Coordinate {
	return Coordinate{Latitude: r.Latitude, Longitude: r.Longitude}
}

type PermissionStatus string

const (
	PermissionGranted PermissionStatus = "granted"
	PermissionDenied  PermissionStatus = "denied"
)
