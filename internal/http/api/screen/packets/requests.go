package packets

// RadiusRequest changes the search radius by Delta miles; negative shrinks it.
type RadiusRequest struct {
	Delta *float64 `json:"delta" binding:"required"`
}
