package model

const (
	MetersPerMile = 1609.34

	CircleStrokeColor = "rgba(0, 122, 255, 0.5)"
	CircleFillColor   = "rgba(0, 122, 255, 0.1)"

	YouAreHereTitle = "You are here"
	WebNotice       = "Map is not supported on Web"
)

// MilesToMeters converts a search radius to the circle overlay radius.
func MilesToMeters(miles float64) float64 {
	return miles * MetersPerMile
}

type Marker struct {
	Kind        Kind       `json:"kind,omitempty"`
	Position    Coordinate `json:"position"`
	Icon        string     `json:"icon,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
}

type Circle struct {
	Center       Coordinate `json:"center"`
	RadiusMeters float64    `json:"radiusMeters"`
	StrokeColor  string     `json:"strokeColor"`
	FillColor    string     `json:"fillColor"`
}

// Frame is everything the map renderer draws for one state of the screen.
// Loading and error frames carry only Status and Message.
type Frame struct {
	Status      Status   `json:"status"`
	Message     string   `json:"message,omitempty"`
	Notice      string   `json:"notice,omitempty"`
	Region      *Region  `json:"region,omitempty"`
	RadiusMiles float64  `json:"radiusMiles,omitempty"`
	Layers      *Layers  `json:"layers,omitempty"`
	Circle      *Circle  `json:"circle,omitempty"`
	You         *Marker  `json:"you,omitempty"`
	Markers     []Marker `json:"markers,omitempty"`
	Alerts      []Alert  `json:"alerts"`
}
