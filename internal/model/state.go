package model

import "math"

const (
	DefaultRadiusMiles = 10.0
	RadiusStepMiles    = 5.0
	MinRadiusMiles     = 1.0
	MaxRadiusMiles     = 500.0

	PermissionDeniedMessage = "Permission to access location was denied"
	LoadingMessage          = "Loading..."
)

type Status string

const (
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusError   Status = "error"
)

type ErrorKind string

const (
	ErrorPermissionDenied    ErrorKind = "permission_denied"
	ErrorLocationUnavailable ErrorKind = "location_unavailable"
	ErrorFetchFailed         ErrorKind = "fetch_failed"
)

// Layers holds the per-kind visibility switches.
type Layers struct {
	ShowMasjids     bool `json:"showMasjids"`
	ShowRestaurants bool `json:"showRestaurants"`
}

func (l Layers) Visible(k Kind) bool {
	switch k {
	case KindMasjid:
		return l.ShowMasjids
	case KindRestaurant:
		return l.ShowRestaurants
	}
	return false
}

// Toggle flips the switch for k and returns its new value.
func (l *Layers) Toggle(k Kind) bool {
	switch k {
	case KindMasjid:
		l.ShowMasjids = !l.ShowMasjids
		return l.ShowMasjids
	case KindRestaurant:
		l.ShowRestaurants = !l.ShowRestaurants
		return l.ShowRestaurants
	}
	return false
}

// VisibleKinds returns the switched-on kinds in render order.
func (l Layers) VisibleKinds() []Kind {
	out := make([]Kind, 0, 2)
	for _, k := range Kinds() {
		if l.Visible(k) {
			out = append(out, k)
		}
	}
	return out
}

// Alert is a dismissible fetch failure notice.
type Alert struct {
	ID      int       `json:"id"`
	Kind    Kind      `json:"kind"`
	Error   ErrorKind `json:"error"`
	Message string    `json:"message"`
}

// State is the whole screen state. Mutate it only through its methods; hand out
// copies made with Clone.
type State struct {
	Status      Status                     `json:"status"`
	ErrorKind   ErrorKind                  `json:"errorKind,omitempty"`
	Message     string                     `json:"message,omitempty"`
	Region      *Region                    `json:"region,omitempty"`
	RadiusMiles float64                    `json:"radiusMiles"`
	Layers      Layers                     `json:"layers"`
	Places      map[Kind][]PointOfInterest `json:"places"`
	Alerts      []Alert                    `json:"alerts"`

	locateGen uint64
	fetchSeq  map[Kind]uint64
	alertSeq  int
}

func NewState() State {
	return State{
		Status:      StatusLoading,
		RadiusMiles: DefaultRadiusMiles,
		Layers:      Layers{ShowMasjids: true, ShowRestaurants: true},
		Places:      make(map[Kind][]PointOfInterest),
		Alerts:      []Alert{},
		fetchSeq:    make(map[Kind]uint64),
	}
}

// BeginLoading enters Loading and returns the generation of this load sequence.
// Only the newest generation may settle the status.
func (s *State) BeginLoading() uint64 {
	s.locateGen++
	s.Status = StatusLoading
	s.ErrorKind = ""
	s.Message = ""
	return s.locateGen
}

func (s *State) CurrentLoad(gen uint64) bool {
	return gen == s.locateGen
}

// Fail ends the load sequence gen with an error. Stale generations are ignored.
func (s *State) Fail(gen uint64, kind ErrorKind, message string) bool {
	if !s.CurrentLoad(gen) {
		return false
	}
	s.Status = StatusError
	s.ErrorKind = kind
	s.Message = message
	return true
}

// Locate sets the region found by load sequence gen. A superseded sequence
// leaves the region alone and gets false. The region is never rolled back.
func (s *State) Locate(gen uint64, r Region) bool {
	if !s.CurrentLoad(gen) {
		return false
	}
	s.Region = &r
	return true
}

func (s *State) MarkReady(gen uint64) bool {
	if !s.CurrentLoad(gen) {
		return false
	}
	s.Status = StatusReady
	s.ErrorKind = ""
	s.Message = ""
	return true
}

// AdjustRadius adds delta, clamping to [MinRadiusMiles, MaxRadiusMiles], and
// reports whether the radius changed.
func (s *State) AdjustRadius(delta float64) bool {
	next := math.Min(MaxRadiusMiles, math.Max(MinRadiusMiles, s.RadiusMiles+delta))
	if next == s.RadiusMiles {
		return false
	}
	s.RadiusMiles = next
	return true
}

// NextFetch tags a new request for k.
func (s *State) NextFetch(k Kind) uint64 {
	if s.fetchSeq == nil {
		s.fetchSeq = make(map[Kind]uint64)
	}
	s.fetchSeq[k]++
	return s.fetchSeq[k]
}

// LatestFetch reports whether seq is the most recently issued request for k.
func (s *State) LatestFetch(k Kind, seq uint64) bool {
	return s.fetchSeq[k] == seq
}

func (s *State) ReplacePlaces(k Kind, places []PointOfInterest) {
	if s.Places == nil {
		s.Places = make(map[Kind][]PointOfInterest)
	}
	if places == nil {
		places = []PointOfInterest{}
	}
	s.Places[k] = places
}

func (s *State) AddAlert(k Kind, message string) Alert {
	s.alertSeq++
	a := Alert{ID: s.alertSeq, Kind: k, Error: ErrorFetchFailed, Message: message}
	s.Alerts = append(s.Alerts, a)
	return a
}

func (s *State) DismissAlert(id int) bool {
	for i, a := range s.Alerts {
		if a.ID == id {
			s.Alerts = append(s.Alerts[:i], s.Alerts[i+1:]...)
			return true
		}
	}
	return false
}

// Clone returns a deep copy safe to hand outside the owner's lock.
func (s State) Clone() State {
	out := s
	if s.Region != nil {
		r := *s.Region
		out.Region = &r
	}
	out.Places = make(map[Kind][]PointOfInterest, len(s.Places))
	for k, v := range s.Places {
		out.Places[k] = append([]PointOfInterest(nil), v...)
	}
	out.Alerts = append([]Alert{}, s.Alerts...)
	out.fetchSeq = make(map[Kind]uint64, len(s.fetchSeq))
	for k, v := range s.fetchSeq {
		out.fetchSeq[k] = v
	}
	return out
}
