package adaptor

import (
	"net/http"

	"ride-booking/internal/dto/request"
	"ride-booking/internal/usecase"
	"ride-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// GeoHandler serves proximity search, ride coordinates and geocoding.
type GeoHandler struct {
	proximity   usecase.ProximityService
	coordinates usecase.CoordinateService
	log         *zap.Logger
}

func NewGeoHandler(proximity usecase.ProximityService, coordinates usecase.CoordinateService, log *zap.Logger) *GeoHandler {
	return &GeoHandler{
		proximity:   proximity,
		coordinates: coordinates,
		log:         log.With(zap.String("handler", "geo")),
	}
}

// Nearby handles GET /api/rides/nearby?lat&lng&radius (public)
func (h *GeoHandler) Nearby(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	errs := queryErrors{}

	req := request.NearbyRidesRequest{
		Lat: errs.requiredFloat(query, "lat"),
		Lng: errs.requiredFloat(query, "lng"),
	}
	if radius := errs.floatPtr(query, "radius"); radius != nil {
		req.Radius = *radius
	}
	if errs.respond(w) || !validated(w, req) {
		return
	}

	rides, err := h.proximity.Nearby(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "search nearby rides")
		return
	}

	utils.ResponseSuccess(w, "success", rides)
}

// SetCoordinates handles PUT /api/rides/{id}/coordinates (owner)
func (h *GeoHandler) SetCoordinates(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	rideID := chi.URLParam(r, "id")

	var req request.CoordinatesRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	coords, err := h.coordinates.SetCoordinates(r.Context(), caller, rideID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "set ride coordinates", zap.String("ride_id", rideID))
		return
	}

	utils.ResponseSuccess(w, "Coordinates updated", coords)
}

// Geocode handles GET /api/geocoding/geocode?address= (protected)
func (h *GeoHandler) Geocode(w http.ResponseWriter, r *http.Request) {
	req := request.GeocodeRequest{Address: r.URL.Query().Get("address")}
	if !validated(w, req) {
		return
	}

	result, err := h.coordinates.Geocode(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "geocode address")
		return
	}

	utils.ResponseSuccess(w, "success", result)
}

// Reverse handles GET /api/geocoding/reverse?lat&lng (protected)
func (h *GeoHandler) Reverse(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	errs := queryErrors{}

	req := request.ReverseGeocodeRequest{
		Lat: errs.requiredFloat(query, "lat"),
		Lng: errs.requiredFloat(query, "lng"),
	}
	if errs.respond(w) || !validated(w, req) {
		return
	}

	result, err := h.coordinates.Reverse(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "reverse geocode")
		return
	}

	utils.ResponseSuccess(w, "success", result)
}
