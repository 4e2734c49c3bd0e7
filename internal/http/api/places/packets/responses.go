package packets

import "github.com/Nixie-Tech-LLC/nearby/internal/model"

// PlaceResponse is one element of the JSON array the places endpoints return.
type PlaceResponse struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   *string `json:"address,omitempty"`
	City      *string `json:"city,omitempty"`
	State     *string `json:"state,omitempty"`
}

func NewPlaceResponse(p model.PointOfInterest) PlaceResponse {
	return PlaceResponse{
		Name:      p.Name,
		Latitude:  p.Latitude,
		Longitude: p.Longitude,
		Address:   p.Address,
		City:      p.City,
		State:     p.State,
	}
}
