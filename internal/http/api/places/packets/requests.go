package packets

// NearbyQuery is the query string of GET /api/masjids and /api/restaurants.
// The radius ceiling is model.MaxRadiusMiles.
type NearbyQuery struct {
	Latitude      *float64 `form:"latitude"      binding:"required,min=-90,max=90"`
	Longitude     *float64 `form:"longitude"     binding:"required,min=-180,max=180"`
	RadiusInMiles *float64 `form:"radiusInMiles" binding:"required,gt=0,lte=500"`
}
