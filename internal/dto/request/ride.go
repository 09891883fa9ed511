package request

type CreateRideRequest struct {
	FromCity          string  `json:"from_city" validate:"required,max=120"`
	FromAddress       *string `json:"from_address,omitempty" validate:"omitempty,max=255"`
	ToCity            string  `json:"to_city" validate:"required,max=120"`
	ToAddress         *string `json:"to_address,omitempty" validate:"omitempty,max=255"`
	DepartureDate     string  `json:"departure_date" validate:"required,datetime=2006-01-02"`
	DepartureTime     string  `json:"departure_time" validate:"required,datetime=15:04"`
	EstimatedDuration *int    `json:"estimated_duration,omitempty" validate:"omitempty,min=1"`
	Price             float64 `json:"price" validate:"min=0"`
	SeatsTotal        int     `json:"seats_total" validate:"required,min=1,max=8"`
	AllowSmoking      bool    `json:"allow_smoking"`
	AllowPets         bool    `json:"allow_pets"`
	AllowMusic        bool    `json:"allow_music"`
	Notes             *string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

// UpdateRideRequest carries only the fields to change.
type UpdateRideRequest struct {
	FromCity          *string  `json:"from_city,omitempty" validate:"omitempty,min=1,max=120"`
	FromAddress       *string  `json:"from_address,omitempty" validate:"omitempty,max=255"`
	ToCity            *string  `json:"to_city,omitempty" validate:"omitempty,min=1,max=120"`
	ToAddress         *string  `json:"to_address,omitempty" validate:"omitempty,max=255"`
	DepartureDate     *string  `json:"departure_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	DepartureTime     *string  `json:"departure_time,omitempty" validate:"omitempty,datetime=15:04"`
	EstimatedDuration *int     `json:"estimated_duration,omitempty" validate:"omitempty,min=1"`
	Price             *float64 `json:"price,omitempty" validate:"omitempty,min=0"`
	SeatsTotal        *int     `json:"seats_total,omitempty"`
	Status            *string  `json:"status,omitempty" validate:"omitempty,oneof=active cancelled completed"`
	AllowSmoking      *bool    `json:"allow_smoking,omitempty"`
	AllowPets         *bool    `json:"allow_pets,omitempty"`
	AllowMusic        *bool    `json:"allow_music,omitempty"`
	Notes             *string  `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

type SearchRidesRequest struct {
	PaginatedRequest
	From         string
	To           string
	Date         string `validate:"omitempty,datetime=2006-01-02"`
	DateFrom     string `validate:"omitempty,datetime=2006-01-02"`
	DateTo       string `validate:"omitempty,datetime=2006-01-02"`
	Passengers   int    `validate:"min=0,max=8"`
	MinPrice     *float64
	MaxPrice     *float64
	AllowSmoking *bool
	AllowPets    *bool
	AllowMusic   *bool
	SortBy       string `validate:"omitempty,oneof=departure price_asc price_desc recent"`
}

type MyRidesRequest struct {
	PaginatedRequest
	Status string `validate:"omitempty,oneof=active cancelled completed"`
}

type NearbyRidesRequest struct {
	Lat    float64 `validate:"min=-90,max=90"`
	Lng    float64 `validate:"min=-180,max=180"`
	Radius float64 `validate:"min=0,max=1000"`
}

// CoordinatesRequest sets either or both ends of a ride. Each end needs both lat and lng.
type CoordinatesRequest struct {
	FromLat *float64 `json:"from_lat,omitempty" validate:"omitempty,min=-90,max=90"`
	FromLng *float64 `json:"from_lng,omitempty" validate:"omitempty,min=-180,max=180"`
	ToLat   *float64 `json:"to_lat,omitempty" validate:"omitempty,min=-90,max=90"`
	ToLng   *float64 `json:"to_lng,omitempty" validate:"omitempty,min=-180,max=180"`
}
