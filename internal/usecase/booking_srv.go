package usecase

import (
	"context"
	"time"

	"ride-booking/internal/access"
	"ride-booking/internal/data/entity"
	"ride-booking/internal/data/repository"
	"ride-booking/internal/dto/request"
	"ride-booking/internal/dto/response"
	"ride-booking/pkg/metrics"

	"go.uber.org/zap"
)

type BookingService interface {
	CreateBooking(ctx context.Context, caller access.Caller, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	UpdateBooking(ctx context.Context, caller access.Caller, bookingID string, req *request.UpdateBookingRequest) (*response.BookingResponse, error)
	GetBooking(ctx context.Context, caller access.Caller, bookingID string) (*response.BookingResponse, error)
	ListMyBookings(ctx context.Context, caller access.Caller, req *request.BookingListRequest) (*response.PaginatedResponse[response.BookingWithRideResponse], error)
	ListRideBookings(ctx context.Context, caller access.Caller, rideID string) ([]response.RideBookingResponse, error)
}

type bookingService struct {
	repo   *repository.Repository
	tx     repository.Transactor
	signal OutboxSignal
	log    *zap.Logger
}

func NewBookingService(repo *repository.Repository, tx repository.Transactor, signal OutboxSignal, log *zap.Logger) BookingService {
	return &bookingService{
		repo:   repo,
		tx:     tx,
		signal: signal,
		log:    log.With(zap.String("service", "booking")),
	}
}

// CreateBooking reserves seats and records a pending booking in one transaction.
func (s *bookingService) CreateBooking(ctx context.Context, caller access.Caller, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	if !caller.Authenticated() {
		return nil, entity.ErrUnauthenticated
	}

	rideID, err := parseID("ride", req.RideID)
	if err != nil {
		return nil, err
	}

	var booking *entity.Booking
	err = s.tx.WithinTx(ctx, func(repo *repository.Repository) error {
		ride, err := repo.Ride.FindByID(ctx, rideID)
		if err != nil {
			return err
		}
		if ride == nil {
			return entity.ErrRideNotFound
		}
		if ride.Status != entity.RideStatusActive {
			return entity.ErrRideNotBookable
		}
		if ride.DriverID == caller.UserID {
			return entity.ErrSelfBooking
		}
		if req.SeatsBooked < 1 || req.SeatsBooked > ride.SeatsTotal {
			return entity.ErrInvalidSeatCount
		}

		exists, err := repo.Booking.HasActiveBooking(ctx, ride.ID, caller.UserID)
		if err != nil {
			return err
		}
		if exists {
			return entity.ErrDuplicateBooking
		}

		if _, err := repo.Inventory.Reserve(ctx, ride.ID, req.SeatsBooked); err != nil {
			return err
		}

		now := time.Now()
		booking = &entity.Booking{
			Base:          entity.NewBase(now),
			RideID:        ride.ID,
			PassengerID:   caller.UserID,
			SeatsBooked:   req.SeatsBooked,
			TotalPrice:    float64(req.SeatsBooked) * ride.Price,
			Status:        entity.BookingStatusPending,
			PaymentStatus: entity.PaymentStatusPending,
		}
		if err := repo.Booking.Create(ctx, booking); err != nil {
			return err
		}

		event, err := bookingEvent(booking, ride, caller.UserID)
		if err != nil {
			return err
		}
		return repo.Outbox.Add(ctx, event)
	})
	if err != nil {
		metrics.BookingRejected.WithLabelValues(rejectionReason(err)).Inc()
		s.logFailure("Create booking failed", err, caller,
			zap.String("ride_id", rideID.String()),
			zap.Int("seats", req.SeatsBooked),
		)
		return nil, err
	}

	s.signal.Signal()
	metrics.BookingsCreated.Inc()
	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("ride_id", rideID.String()),
		zap.String("passenger_id", caller.UserID.String()),
		zap.Int("seats", booking.SeatsBooked),
	)

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

// UpdateBooking applies a user-requested status change and optional payment flag.
func (s *bookingService) UpdateBooking(ctx context.Context, caller access.Caller, bookingID string, req *request.UpdateBookingRequest) (*response.BookingResponse, error) {
	if !caller.Authenticated() {
		return nil, entity.ErrUnauthenticated
	}

	id, err := parseID("booking", bookingID)
	if err != nil {
		return nil, err
	}

	to := entity.BookingStatus(req.Status)
	if !to.Valid() {
		return nil, entity.ErrInvalidStatus
	}

	var payment *entity.PaymentStatus
	if req.PaymentStatus != nil {
		p := entity.PaymentStatus(*req.PaymentStatus)
		if !p.Valid() {
			return nil, entity.ErrInvalidStatus
		}
		payment = &p
	}

	var booking *entity.Booking
	err = s.tx.WithinTx(ctx, func(repo *repository.Repository) error {
		found, err := repo.Booking.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if found == nil {
			return entity.ErrBookingNotFound
		}
		booking = found

		ride, err := repo.Ride.FindByIDForUpdate(ctx, booking.RideID)
		if err != nil {
			return err
		}
		if ride == nil {
			return entity.ErrRideNotFound
		}

		role := caller.BookingRole(ride, booking)
		if role == access.RoleNone {
			return entity.ErrForbidden
		}
		// payment bookkeeping belongs to the driver
		if payment != nil && role != access.RoleDriver {
			return entity.ErrForbidden
		}
		if booking.Status.Terminal() {
			return entity.ErrInvalidTransition
		}

		if to == booking.Status {
			if payment == nil {
				return entity.ErrInvalidTransition
			}
			return s.updatePayment(ctx, repo, booking, *payment)
		}

		if !booking.Status.CanTransitionTo(to) {
			return entity.ErrInvalidTransition
		}
		if !access.PermittedTarget(role, to) {
			return entity.ErrForbidden
		}

		if err := transition(ctx, repo, booking, to); err != nil {
			return err
		}
		if payment != nil {
			if err := s.updatePayment(ctx, repo, booking, *payment); err != nil {
				return err
			}
		}

		event, err := bookingEvent(booking, ride, caller.UserID)
		if err != nil {
			return err
		}
		return repo.Outbox.Add(ctx, event)
	})
	if err != nil {
		s.logFailure("Update booking failed", err, caller,
			zap.String("booking_id", id.String()),
			zap.String("target_status", req.Status),
		)
		return nil, err
	}

	s.signal.Signal()
	s.log.Info("Booking updated",
		zap.String("booking_id", booking.ID.String()),
		zap.String("status", string(booking.Status)),
		zap.String("payment_status", string(booking.PaymentStatus)),
		zap.String("caller_id", caller.UserID.String()),
	)

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) updatePayment(ctx context.Context, repo *repository.Repository, b *entity.Booking, p entity.PaymentStatus) error {
	if err := repo.Booking.UpdatePaymentStatus(ctx, b.ID, p); err != nil {
		return err
	}
	b.PaymentStatus = p
	b.Touch(time.Now())
	return nil
}

func (s *bookingService) GetBooking(ctx context.Context, caller access.Caller, bookingID string) (*response.BookingResponse, error) {
	if !caller.Authenticated() {
		return nil, entity.ErrUnauthenticated
	}

	id, err := parseID("booking", bookingID)
	if err != nil {
		return nil, err
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, entity.ErrBookingNotFound
	}

	if !caller.IsAdmin {
		ride, err := s.repo.Ride.FindByID(ctx, booking.RideID)
		if err != nil {
			return nil, err
		}
		if caller.BookingRole(ride, booking) == access.RoleNone {
			return nil, entity.ErrForbidden
		}
	}

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

// ListMyBookings lists the caller's bookings as a passenger.
func (s *bookingService) ListMyBookings(ctx context.Context, caller access.Caller, req *request.BookingListRequest) (*response.PaginatedResponse[response.BookingWithRideResponse], error) {
	if !caller.Authenticated() {
		return nil, entity.ErrUnauthenticated
	}

	filter, err := bookingFilter(req)
	if err != nil {
		return nil, err
	}
	passengerID := caller.UserID
	filter.PassengerID = &passengerID

	return listBookings(ctx, s.repo, filter, req.PaginatedRequest)
}

// ListRideBookings is open to the driver, riders holding an active booking and admins.
func (s *bookingService) ListRideBookings(ctx context.Context, caller access.Caller, rideID string) ([]response.RideBookingResponse, error) {
	if !caller.Authenticated() {
		return nil, entity.ErrUnauthenticated
	}

	id, err := parseID("ride", rideID)
	if err != nil {
		return nil, err
	}

	ride, err := s.repo.Ride.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ride == nil {
		return nil, entity.ErrRideNotFound
	}

	rows, err := s.repo.Booking.ListByRide(ctx, id)
	if err != nil {
		return nil, err
	}

	active := make([]*entity.Booking, 0, len(rows))
	for _, row := range rows {
		b := row.Booking
		active = append(active, &b)
	}
	if err := access.CanListRideBookings(caller, ride, active); err != nil {
		s.log.Warn("Ride bookings listing denied",
			zap.String("ride_id", id.String()),
			zap.String("caller_id", caller.UserID.String()),
		)
		return nil, err
	}

	result := make([]response.RideBookingResponse, 0, len(rows))
	for _, row := range rows {
		result = append(result, response.RideBookingToResponse(row))
	}
	return result, nil
}

func (s *bookingService) logFailure(msg string, err error, caller access.Caller, fields ...zap.Field) {
	fields = append(fields, zap.String("caller_id", caller.UserID.String()), zap.Error(err))
	if isDomainError(err) {
		s.log.Warn(msg, fields...)
		return
	}
	s.log.Error(msg, fields...)
}

func bookingFilter(req *request.BookingListRequest) (entity.BookingFilter, error) {
	filter := entity.BookingFilter{
		Limit:  req.Limit(),
		Offset: req.Offset(),
	}

	if req.RideID != "" {
		id, err := parseID("ride", req.RideID)
		if err != nil {
			return filter, err
		}
		filter.RideID = &id
	}
	if req.PassengerID != "" {
		id, err := parseID("passenger", req.PassengerID)
		if err != nil {
			return filter, err
		}
		filter.PassengerID = &id
	}
	if req.Status != "" {
		status := entity.BookingStatus(req.Status)
		if !status.Valid() {
			return filter, entity.ErrInvalidStatus
		}
		filter.Status = &status
	}

	return filter, nil
}

func listBookings(ctx context.Context, repo *repository.Repository, filter entity.BookingFilter, page request.PaginatedRequest) (*response.PaginatedResponse[response.BookingWithRideResponse], error) {
	rows, total, err := repo.Booking.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	data := make([]response.BookingWithRideResponse, 0, len(rows))
	for _, row := range rows {
		data = append(data, response.BookingWithRideToResponse(row))
	}

	return response.NewPaginatedResponse(data, page.PageNumber(), page.Limit(), total), nil
}
