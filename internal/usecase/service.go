package usecase

import (
	"ride-booking/internal/data/repository"
	"ride-booking/internal/geocoding"
	"ride-booking/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Identity     IdentityService
	Ride         RideService
	Booking      BookingService
	Proximity    ProximityService
	Coordinates  CoordinateService
	Admin        AdminService
	Notification NotificationService

	// Background tracks geocoding started by CreateRide.
	Background *Background
}

// NewService builds every usecase. geocoder may be nil, in which case rides
// are only located through explicit coordinates.
func NewService(
	repo *repository.Repository,
	tx repository.Transactor,
	geocoder geocoding.Resolver,
	signal OutboxSignal,
	config *utils.Config,
	log *zap.Logger,
) *Service {
	if signal == nil {
		signal = noSignal{}
	}

	tasks := &Background{}

	return &Service{
		Identity:     NewIdentityService(repo.Profile, config, log),
		Ride:         NewRideService(repo, tx, geocoder, signal, tasks, log),
		Booking:      NewBookingService(repo, tx, signal, log),
		Proximity:    NewProximityService(repo.Ride, config, log),
		Coordinates:  NewCoordinateService(repo, geocoder, log),
		Admin:        NewAdminService(repo, log),
		Notification: NewNotificationService(repo.Notification, log),
		Background:   tasks,
	}
}
