package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ride-booking/internal/access"
	"ride-booking/internal/data/entity"
	"ride-booking/internal/data/repository"
	"ride-booking/internal/dto/request"
	"ride-booking/internal/dto/response"
	"ride-booking/internal/geo"
	"ride-booking/internal/geocoding"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	dateLayout      = "2006-01-02"
	timeLayout      = "15:04"
	maxSeatsPerRide = 8
)

type RideService interface {
	CreateRide(ctx context.Context, caller access.Caller, req *request.CreateRideRequest) (*response.RideResponse, error)
	GetRide(ctx context.Context, rideID string) (*response.RideResponse, error)
	SearchRides(ctx context.Context, req *request.SearchRidesRequest) (*response.PaginatedResponse[response.RideResponse], error)
	MyRides(ctx context.Context, caller access.Caller, req *request.MyRidesRequest) (*response.PaginatedResponse[response.RideResponse], error)
	UpdateRide(ctx context.Context, caller access.Caller, rideID string, req *request.UpdateRideRequest) (*response.RideResponse, error)
	DeleteRide(ctx context.Context, caller access.Caller, rideID string) (*response.DeleteRideResponse, error)
}

type rideService struct {
	repo       *repository.Repository
	tx         repository.Transactor
	geocoder   geocoding.Resolver
	signal     OutboxSignal
	log        *zap.Logger
	background func(func())
}

func NewRideService(repo *repository.Repository, tx repository.Transactor, geocoder geocoding.Resolver, signal OutboxSignal, tasks *Background, log *zap.Logger) RideService {
	return &rideService{
		repo:       repo,
		tx:         tx,
		geocoder:   geocoder,
		signal:     signal,
		log:        log.With(zap.String("service", "ride")),
		background: tasks.Go,
	}
}

func (s *rideService) CreateRide(ctx context.Context, caller access.Caller, req *request.CreateRideRequest) (*response.RideResponse, error) {
	if !caller.Authenticated() {
		return nil, entity.ErrUnauthenticated
	}

	departure, err := parseDeparture(req.DepartureDate, req.DepartureTime)
	if err != nil {
		return nil, err
	}
	if req.SeatsTotal < 1 || req.SeatsTotal > maxSeatsPerRide {
		return nil, entity.ErrInvalidSeatCount
	}
	if req.Price < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", entity.ErrInvalidInput)
	}

	now := time.Now()
	ride := &entity.Ride{
		Base:              entity.NewBase(now),
		DriverID:          caller.UserID,
		FromCity:          strings.TrimSpace(req.FromCity),
		FromAddress:       req.FromAddress,
		ToCity:            strings.TrimSpace(req.ToCity),
		ToAddress:         req.ToAddress,
		DepartureAt:       departure,
		EstimatedDuration: req.EstimatedDuration,
		Price:             req.Price,
		SeatsTotal:        req.SeatsTotal,
		SeatsAvailable:    req.SeatsTotal,
		Status:            entity.RideStatusActive,
		AllowSmoking:      req.AllowSmoking,
		AllowPets:         req.AllowPets,
		AllowMusic:        req.AllowMusic,
		Notes:             req.Notes,
	}

	if err := s.repo.Ride.Create(ctx, ride); err != nil {
		s.log.Error("Failed to create ride",
			zap.Error(err),
			zap.String("driver_id", caller.UserID.String()),
		)
		return nil, err
	}

	s.log.Info("Ride created",
		zap.String("ride_id", ride.ID.String()),
		zap.String("driver_id", caller.UserID.String()),
		zap.String("from", ride.FromCity),
		zap.String("to", ride.ToCity),
		zap.Int("seats", ride.SeatsTotal),
	)

	if s.geocoder != nil {
		bg := context.WithoutCancel(ctx)
		s.background(func() { s.locateRide(bg, ride) })
	}

	resp := response.RideToResponse(ride)
	return &resp, nil
}

// locateRide resolves the ride's addresses into coordinates. A ride that
// cannot be located just stays out of proximity search.
func (s *rideService) locateRide(ctx context.Context, ride *entity.Ride) {
	coords := &entity.RideCoordinates{RideID: ride.ID}

	if p, ok := s.resolve(ctx, ride.ID, joinAddress(ride.FromAddress, ride.FromCity)); ok {
		coords.FromLat, coords.FromLng = &p.Lat, &p.Lng
		hash := p.Geohash()
		coords.FromGeohash = &hash
	}
	if p, ok := s.resolve(ctx, ride.ID, joinAddress(ride.ToAddress, ride.ToCity)); ok {
		coords.ToLat, coords.ToLng = &p.Lat, &p.Lng
	}

	if coords.FromLat == nil && coords.ToLat == nil {
		return
	}
	if err := s.repo.Coordinates.Upsert(ctx, coords); err != nil {
		s.log.Warn("Failed to store ride coordinates", zap.Error(err), zap.String("ride_id", ride.ID.String()))
	}
}

func (s *rideService) resolve(ctx context.Context, rideID uuid.UUID, address string) (geo.Point, bool) {
	p, err := s.geocoder.Geocode(ctx, address)
	if err != nil {
		s.log.Warn("Geocoding failed",
			zap.Error(err),
			zap.String("ride_id", rideID.String()),
			zap.String("address", address),
		)
		return geo.Point{}, false
	}
	return p, true
}

func joinAddress(address *string, city string) string {
	if address == nil || strings.TrimSpace(*address) == "" {
		return city
	}
	return strings.TrimSpace(*address) + ", " + city
}

func (s *rideService) GetRide(ctx context.Context, rideID string) (*response.RideResponse, error) {
	id, err := parseID("ride", rideID)
	if err != nil {
		return nil, err
	}

	ride, err := s.repo.Ride.FindWithDriver(ctx, id)
	if err != nil {
		return nil, err
	}
	if ride == nil {
		return nil, entity.ErrRideNotFound
	}

	resp := response.RideWithDriverToResponse(ride)
	return &resp, nil
}

func (s *rideService) SearchRides(ctx context.Context, req *request.SearchRidesRequest) (*response.PaginatedResponse[response.RideResponse], error) {
	filter := entity.RideSearchFilter{
		From:         strings.TrimSpace(req.From),
		To:           strings.TrimSpace(req.To),
		Passengers:   req.Passengers,
		MinPrice:     req.MinPrice,
		MaxPrice:     req.MaxPrice,
		AllowSmoking: req.AllowSmoking,
		AllowPets:    req.AllowPets,
		AllowMusic:   req.AllowMusic,
		SortBy:       req.SortBy,
		Limit:        req.Limit(),
		Offset:       req.Offset(),
	}

	// date is a whole day; date_from and date_to are inclusive days
	if req.Date != "" {
		day, err := parseDay(req.Date)
		if err != nil {
			return nil, err
		}
		next := day.AddDate(0, 0, 1)
		filter.DateFrom, filter.DateTo = &day, &next
	} else {
		if req.DateFrom != "" {
			day, err := parseDay(req.DateFrom)
			if err != nil {
				return nil, err
			}
			filter.DateFrom = &day
		}
		if req.DateTo != "" {
			day, err := parseDay(req.DateTo)
			if err != nil {
				return nil, err
			}
			next := day.AddDate(0, 0, 1)
			filter.DateTo = &next
		}
	}

	rides, total, err := s.repo.Ride.Search(ctx, filter)
	if err != nil {
		return nil, err
	}

	data := make([]response.RideResponse, 0, len(rides))
	for _, ride := range rides {
		data = append(data, response.RideWithDriverToResponse(ride))
	}

	return response.NewPaginatedResponse(data, req.PageNumber(), req.Limit(), total), nil
}

func (s *rideService) MyRides(ctx context.Context, caller access.Caller, req *request.MyRidesRequest) (*response.PaginatedResponse[response.RideResponse], error) {
	if !caller.Authenticated() {
		return nil, entity.ErrUnauthenticated
	}

	var status *entity.RideStatus
	if req.Status != "" {
		st := entity.RideStatus(req.Status)
		if !st.Valid() {
			return nil, entity.ErrInvalidStatus
		}
		status = &st
	}

	rides, total, err := s.repo.Ride.FindByDriver(ctx, caller.UserID, status, req.Limit(), req.Offset())
	if err != nil {
		return nil, err
	}

	data := make([]response.RideResponse, 0, len(rides))
	for _, ride := range rides {
		data = append(data, response.RideToResponse(ride))
	}

	return response.NewPaginatedResponse(data, req.PageNumber(), req.Limit(), total), nil
}

// UpdateRide edits an active ride. A new seats_total resizes the inventory and
// a new status cancels or completes the ride together with its bookings.
func (s *rideService) UpdateRide(ctx context.Context, caller access.Caller, rideID string, req *request.UpdateRideRequest) (*response.RideResponse, error) {
	if !caller.Authenticated() {
		return nil, entity.ErrUnauthenticated
	}

	id, err := parseID("ride", rideID)
	if err != nil {
		return nil, err
	}

	var targetStatus *entity.RideStatus
	if req.Status != nil {
		st := entity.RideStatus(*req.Status)
		if !st.Valid() {
			return nil, entity.ErrInvalidStatus
		}
		targetStatus = &st
	}

	err = s.tx.WithinTx(ctx, func(repo *repository.Repository) error {
		ride, err := repo.Ride.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if ride == nil {
			return entity.ErrRideNotFound
		}
		if err := access.RequireOwner(caller, ride); err != nil {
			return err
		}
		if ride.Status != entity.RideStatusActive {
			return entity.ErrRideClosed
		}

		changed, err := applyRideChanges(ride, req)
		if err != nil {
			return err
		}
		if changed {
			ride.Touch(time.Now())
			if err := repo.Ride.Update(ctx, ride); err != nil {
				return err
			}
		}

		if req.SeatsTotal != nil && *req.SeatsTotal != ride.SeatsTotal {
			n := *req.SeatsTotal
			if n < 1 || n > maxSeatsPerRide || n < ride.SeatsBooked() {
				return entity.ErrInvalidSeatCount
			}
			total, available, err := repo.Inventory.Resize(ctx, ride.ID, n)
			if err != nil {
				return err
			}
			ride.SeatsTotal, ride.SeatsAvailable = total, available
		}

		if targetStatus == nil || *targetStatus == entity.RideStatusActive {
			return nil
		}

		var events []*entity.OutboxEvent
		switch *targetStatus {
		case entity.RideStatusCancelled:
			_, events, err = cancelRide(ctx, repo, ride)
		case entity.RideStatusCompleted:
			events, err = completeRide(ctx, repo, ride)
		}
		if err != nil {
			return err
		}
		return repo.Outbox.Add(ctx, events...)
	})
	if err != nil {
		s.logFailure("Update ride failed", err, caller, id)
		return nil, err
	}

	s.signal.Signal()
	s.log.Info("Ride updated",
		zap.String("ride_id", id.String()),
		zap.String("driver_id", caller.UserID.String()),
	)

	return s.GetRide(ctx, id.String())
}

// applyRideChanges copies the descriptive fields of req onto ride.
func applyRideChanges(ride *entity.Ride, req *request.UpdateRideRequest) (bool, error) {
	changed := false
	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
			changed = true
		}
	}

	setString(&ride.FromCity, req.FromCity)
	setString(&ride.ToCity, req.ToCity)
	if req.FromAddress != nil {
		ride.FromAddress = req.FromAddress
		changed = true
	}
	if req.ToAddress != nil {
		ride.ToAddress = req.ToAddress
		changed = true
	}
	if req.EstimatedDuration != nil {
		ride.EstimatedDuration = req.EstimatedDuration
		changed = true
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return false, fmt.Errorf("%w: price must not be negative", entity.ErrInvalidInput)
		}
		ride.Price = *req.Price
		changed = true
	}
	if req.AllowSmoking != nil {
		ride.AllowSmoking = *req.AllowSmoking
		changed = true
	}
	if req.AllowPets != nil {
		ride.AllowPets = *req.AllowPets
		changed = true
	}
	if req.AllowMusic != nil {
		ride.AllowMusic = *req.AllowMusic
		changed = true
	}
	if req.Notes != nil {
		ride.Notes = req.Notes
		changed = true
	}

	if req.DepartureDate != nil || req.DepartureTime != nil {
		current := ride.DepartureAt.UTC()
		date, clock := current.Format(dateLayout), current.Format(timeLayout)
		if req.DepartureDate != nil {
			date = *req.DepartureDate
		}
		if req.DepartureTime != nil {
			clock = *req.DepartureTime
		}
		departure, err := parseDeparture(date, clock)
		if err != nil {
			return false, err
		}
		ride.DepartureAt = departure
		changed = true
	}

	if ride.FromCity == "" || ride.ToCity == "" {
		return false, fmt.Errorf("%w: city must not be empty", entity.ErrInvalidInput)
	}

	return changed, nil
}

// DeleteRide removes a ride outright, or cancels it when bookings still hold seats.
func (s *rideService) DeleteRide(ctx context.Context, caller access.Caller, rideID string) (*response.DeleteRideResponse, error) {
	if !caller.Authenticated() {
		return nil, entity.ErrUnauthenticated
	}

	id, err := parseID("ride", rideID)
	if err != nil {
		return nil, err
	}

	result := &response.DeleteRideResponse{RideID: id.String()}
	err = s.tx.WithinTx(ctx, func(repo *repository.Repository) error {
		ride, err := repo.Ride.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if ride == nil {
			return entity.ErrRideNotFound
		}
		if err := access.RequireOwner(caller, ride); err != nil {
			return err
		}

		active, err := repo.Booking.FindActiveByRide(ctx, id)
		if err != nil {
			return err
		}
		if len(active) == 0 {
			result.Outcome = response.RideDeleted
			return repo.Ride.Delete(ctx, id)
		}

		count, events, err := cancelRide(ctx, repo, ride)
		if err != nil {
			return err
		}
		result.Outcome = response.RideCancelled
		result.CancelledBookings = count
		return repo.Outbox.Add(ctx, events...)
	})
	if err != nil {
		s.logFailure("Delete ride failed", err, caller, id)
		return nil, err
	}

	if result.Outcome == response.RideCancelled {
		s.signal.Signal()
	}
	s.log.Info("Ride removed",
		zap.String("ride_id", id.String()),
		zap.String("outcome", string(result.Outcome)),
		zap.Int("cancelled_bookings", result.CancelledBookings),
	)

	return result, nil
}

func (s *rideService) logFailure(msg string, err error, caller access.Caller, rideID uuid.UUID) {
	fields := []zap.Field{
		zap.Error(err),
		zap.String("ride_id", rideID.String()),
		zap.String("caller_id", caller.UserID.String()),
	}
	if isDomainError(err) {
		s.log.Warn(msg, fields...)
		return
	}
	s.log.Error(msg, fields...)
}

func parseDeparture(date, clock string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout+" "+timeLayout, date+" "+clock, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: departure must be YYYY-MM-DD and HH:MM", entity.ErrInvalidInput)
	}
	return t, nil
}

func parseDay(date string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, date, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must be YYYY-MM-DD", entity.ErrInvalidInput)
	}
	return t, nil
}
