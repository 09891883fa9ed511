package request

type GeocodeRequest struct {
	Address string `validate:"required,min=2,max=255"`
}

type ReverseGeocodeRequest struct {
	Lat float64 `validate:"min=-90,max=90"`
	Lng float64 `validate:"min=-180,max=180"`
}
