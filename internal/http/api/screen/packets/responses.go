package packets

import "github.com/Nixie-Tech-LLC/nearby/internal/model"

type ToggleResponse struct {
	Kind    model.Kind  `json:"kind"`
	Visible bool        `json:"visible"`
	Frame   model.Frame `json:"frame"`
}

type HealthResponse struct {
	Status string       `json:"status"`
	Screen model.Status `json:"screen"`
}
