package usecase

import (
	"context"
	"testing"
	"time"

	"ride-booking/internal/access"
	"ride-booking/internal/data/entity"
	"ride-booking/internal/dto/request"
	"ride-booking/internal/dto/response"
	"ride-booking/internal/geo"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubGeocoder struct {
	points map[string]geo.Point
}

func (g stubGeocoder) Geocode(ctx context.Context, address string) (geo.Point, error) {
	p, ok := g.points[address]
	if !ok {
		return geo.Point{}, entity.ErrCoordinatesNotFound
	}
	return p, nil
}

func (g stubGeocoder) Reverse(ctx context.Context, point geo.Point) (string, error) {
	for address, p := range g.points {
		if p == point {
			return address, nil
		}
	}
	return "", entity.ErrCoordinatesNotFound
}

func newRideFixture(geocoder *stubGeocoder) (*memStore, *rideService, BookingService) {
	store := newMemStore()
	repo := store.repository(nil)

	svc := NewRideService(repo, store, nil, noSignal{}, &Background{}, zap.NewNop()).(*rideService)
	if geocoder != nil {
		svc.geocoder = *geocoder
	}
	svc.background = func(fn func()) { fn() }

	return store, svc, NewBookingService(repo, store, noSignal{}, zap.NewNop())
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func floatPtr(v float64) *float64 { return &v }

func TestCreateRide(t *testing.T) {
	geocoder := &stubGeocoder{points: map[string]geo.Point{
		"Tverskaya 1, Moscow": {Lat: 55.7575, Lng: 37.6136},
		"Tver":                {Lat: 56.8587, Lng: 35.9176},
	}}
	store, svc, _ := newRideFixture(geocoder)
	driver := access.Caller{UserID: uuid.New()}

	resp, err := svc.CreateRide(context.Background(), driver, &request.CreateRideRequest{
		FromCity:      "Moscow",
		FromAddress:   strPtr("Tverskaya 1"),
		ToCity:        "Tver",
		DepartureDate: "2026-11-02",
		DepartureTime: "08:30",
		Price:         750,
		SeatsTotal:    3,
		AllowMusic:    true,
	})
	require.NoError(t, err)

	assert.Equal(t, 3, resp.SeatsAvailable)
	assert.Equal(t, entity.RideStatusActive, resp.Status)
	assert.Equal(t, "2026-11-02", resp.DepartureDate)
	assert.Equal(t, "08:30", resp.DepartureTime)
	assert.Equal(t, time.Date(2026, 11, 2, 8, 30, 0, 0, time.UTC), resp.DepartureAt)
	assert.Equal(t, driver.UserID.String(), resp.DriverID)

	coords := store.coords[uuid.MustParse(resp.ID)]
	require.NotNil(t, coords)
	assert.Equal(t, 55.7575, *coords.FromLat)
	assert.Equal(t, 35.9176, *coords.ToLng)
	require.NotNil(t, coords.FromGeohash)
	assert.Equal(t, geo.Point{Lat: 55.7575, Lng: 37.6136}.Geohash(), *coords.FromGeohash)
}

func TestCreateRideUnresolvedAddressLeavesNoCoordinates(t *testing.T) {
	store, svc, _ := newRideFixture(&stubGeocoder{})

	resp, err := svc.CreateRide(context.Background(), access.Caller{UserID: uuid.New()}, &request.CreateRideRequest{
		FromCity:      "Nowhere",
		ToCity:        "Elsewhere",
		DepartureDate: "2026-11-02",
		DepartureTime: "08:30",
		SeatsTotal:    2,
	})
	require.NoError(t, err)
	assert.NotContains(t, store.coords, uuid.MustParse(resp.ID))
}

func TestCreateRideRejectsBadInput(t *testing.T) {
	_, svc, _ := newRideFixture(nil)
	driver := access.Caller{UserID: uuid.New()}

	base := request.CreateRideRequest{
		FromCity:      "Moscow",
		ToCity:        "Tver",
		DepartureDate: "2026-11-02",
		DepartureTime: "08:30",
		SeatsTotal:    3,
	}

	badTime := base
	badTime.DepartureTime = "25:99"
	_, err := svc.CreateRide(context.Background(), driver, &badTime)
	assert.ErrorIs(t, err, entity.ErrInvalidInput)

	tooMany := base
	tooMany.SeatsTotal = 9
	_, err = svc.CreateRide(context.Background(), driver, &tooMany)
	assert.ErrorIs(t, err, entity.ErrInvalidSeatCount)

	_, err = svc.CreateRide(context.Background(), access.Caller{}, &base)
	assert.ErrorIs(t, err, entity.ErrUnauthenticated)
}

func TestDeleteRideWithoutBookings(t *testing.T) {
	store, svc, _ := newRideFixture(nil)
	driver := access.Caller{UserID: uuid.New()}
	ride := store.addRide(driver.UserID, 3)

	resp, err := svc.DeleteRide(context.Background(), driver, ride.ID.String())
	require.NoError(t, err)
	assert.Equal(t, response.RideDeleted, resp.Outcome)
	assert.Nil(t, store.ride(ride.ID))
}

func TestDeleteRideWithPendingBookingCancels(t *testing.T) {
	store, svc, bookings := newRideFixture(nil)
	driver := access.Caller{UserID: uuid.New()}
	rider := passenger()
	ride := store.addRide(driver.UserID, 3)
	id := book(t, bookings, rider, ride.ID, 2)

	resp, err := svc.DeleteRide(context.Background(), driver, ride.ID.String())
	require.NoError(t, err)
	assert.Equal(t, response.RideCancelled, resp.Outcome)
	assert.Equal(t, 1, resp.CancelledBookings)

	stored := store.ride(ride.ID)
	require.NotNil(t, stored)
	assert.Equal(t, entity.RideStatusCancelled, stored.Status)
	assert.Equal(t, entity.BookingStatusCancelled, store.booking(id).Status)
	assertLedger(t, store, ride.ID)

	events := store.events()
	last := events[len(events)-1]
	assert.Equal(t, entity.EventRideCancelled, last.EventType)
	assert.Equal(t, rider.UserID, last.RecipientID)
}

func TestDeleteRideRequiresOwner(t *testing.T) {
	store, svc, _ := newRideFixture(nil)
	ride := store.addRide(uuid.New(), 3)

	_, err := svc.DeleteRide(context.Background(), passenger(), ride.ID.String())
	assert.ErrorIs(t, err, entity.ErrForbidden)

	_, err = svc.DeleteRide(context.Background(), passenger(), uuid.NewString())
	assert.ErrorIs(t, err, entity.ErrRideNotFound)
	assert.NotNil(t, store.ride(ride.ID))
}

func TestUpdateRideResize(t *testing.T) {
	store, svc, bookings := newRideFixture(nil)
	driver := access.Caller{UserID: uuid.New()}
	ride := store.addRide(driver.UserID, 4)
	book(t, bookings, passenger(), ride.ID, 2)

	resize := func(n int) error {
		_, err := svc.UpdateRide(context.Background(), driver, ride.ID.String(), &request.UpdateRideRequest{SeatsTotal: intPtr(n)})
		return err
	}

	require.NoError(t, resize(6))
	assert.Equal(t, 6, store.ride(ride.ID).SeatsTotal)
	assert.Equal(t, 4, store.ride(ride.ID).SeatsAvailable)

	require.NoError(t, resize(2))
	assert.Equal(t, 0, store.ride(ride.ID).SeatsAvailable)

	assert.ErrorIs(t, resize(1), entity.ErrInvalidSeatCount)
	assert.ErrorIs(t, resize(0), entity.ErrInvalidSeatCount)
	assert.Equal(t, 2, store.ride(ride.ID).SeatsTotal)
	assertLedger(t, store, ride.ID)
}

func TestUpdateRideFields(t *testing.T) {
	store, svc, _ := newRideFixture(nil)
	driver := access.Caller{UserID: uuid.New()}
	ride := store.addRide(driver.UserID, 3)

	resp, err := svc.UpdateRide(context.Background(), driver, ride.ID.String(), &request.UpdateRideRequest{
		ToCity:        strPtr("Klin"),
		DepartureTime: strPtr("19:45"),
		Price:         floatPtr(320),
	})
	require.NoError(t, err)
	assert.Equal(t, "Klin", resp.ToCity)
	assert.Equal(t, "19:45", resp.DepartureTime)
	assert.Equal(t, ride.DepartureAt.Format("2006-01-02"), resp.DepartureDate)
	assert.Equal(t, 320.0, resp.Price)
	assert.Equal(t, 3, resp.SeatsAvailable)
	require.NotNil(t, resp.Driver)

	_, err = svc.UpdateRide(context.Background(), passenger(), ride.ID.String(), &request.UpdateRideRequest{Price: floatPtr(1)})
	assert.ErrorIs(t, err, entity.ErrForbidden)
}

func TestUpdateRideComplete(t *testing.T) {
	store, svc, bookings := newRideFixture(nil)
	driver := access.Caller{UserID: uuid.New()}
	ride := store.addRide(driver.UserID, 4)

	confirmed := book(t, bookings, passenger(), ride.ID, 1)
	pending := book(t, bookings, passenger(), ride.ID, 2)
	require.NoError(t, setStatus(bookings, driver, confirmed, entity.BookingStatusConfirmed))

	_, err := svc.UpdateRide(context.Background(), driver, ride.ID.String(), &request.UpdateRideRequest{
		Status: strPtr(string(entity.RideStatusCompleted)),
	})
	require.NoError(t, err)

	assert.Equal(t, entity.RideStatusCompleted, store.ride(ride.ID).Status)
	assert.Equal(t, entity.BookingStatusCompleted, store.booking(confirmed).Status)
	assert.Equal(t, entity.BookingStatusCancelled, store.booking(pending).Status)
	// completion keeps the finished passengers' seats; only the dropped pending booking is returned
	assert.Equal(t, 3, store.ride(ride.ID).SeatsAvailable)

	_, err = svc.UpdateRide(context.Background(), driver, ride.ID.String(), &request.UpdateRideRequest{Price: floatPtr(1)})
	assert.ErrorIs(t, err, entity.ErrRideClosed)
	assert.ErrorIs(t, err, entity.ErrConflict)
}

func TestUpdateRideCancelCascades(t *testing.T) {
	store, svc, bookings := newRideFixture(nil)
	driver := access.Caller{UserID: uuid.New()}
	ride := store.addRide(driver.UserID, 4)
	a := book(t, bookings, passenger(), ride.ID, 1)
	b := book(t, bookings, passenger(), ride.ID, 3)
	require.NoError(t, setStatus(bookings, driver, a, entity.BookingStatusConfirmed))

	_, err := svc.UpdateRide(context.Background(), driver, ride.ID.String(), &request.UpdateRideRequest{
		Status: strPtr(string(entity.RideStatusCancelled)),
	})
	require.NoError(t, err)

	assert.Equal(t, entity.RideStatusCancelled, store.ride(ride.ID).Status)
	assert.Equal(t, entity.BookingStatusCancelled, store.booking(a).Status)
	assert.Equal(t, entity.BookingStatusCancelled, store.booking(b).Status)
	assert.Equal(t, 4, store.ride(ride.ID).SeatsAvailable)

	_, err = bookings.CreateBooking(context.Background(), passenger(), &request.CreateBookingRequest{
		RideID:      ride.ID.String(),
		SeatsBooked: 1,
	})
	assert.ErrorIs(t, err, entity.ErrRideNotBookable)
}

func TestSearchAndMyRides(t *testing.T) {
	store, svc, _ := newRideFixture(nil)
	driver := access.Caller{UserID: uuid.New()}
	day := time.Date(2026, 11, 2, 9, 0, 0, 0, time.UTC)

	store.addRide(driver.UserID, 3, func(r *entity.Ride) { r.DepartureAt = day })
	store.addRide(driver.UserID, 1, func(r *entity.Ride) {
		r.DepartureAt = day.Add(2 * time.Hour)
		r.ToCity = "Kazan"
	})
	store.addRide(uuid.New(), 3, func(r *entity.Ride) { r.DepartureAt = day.AddDate(0, 0, 1) })
	store.addRide(driver.UserID, 3, func(r *entity.Ride) { r.Status = entity.RideStatusCancelled })

	ctx := context.Background()

	found, err := svc.SearchRides(ctx, &request.SearchRidesRequest{Date: "2026-11-02"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, found.Pagination.Total)

	found, err = svc.SearchRides(ctx, &request.SearchRidesRequest{To: "kaz"})
	require.NoError(t, err)
	require.Len(t, found.Data, 1)
	assert.Equal(t, "Kazan", found.Data[0].ToCity)

	found, err = svc.SearchRides(ctx, &request.SearchRidesRequest{Passengers: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 2, found.Pagination.Total)

	_, err = svc.SearchRides(ctx, &request.SearchRidesRequest{Date: "02.11.2026"})
	assert.ErrorIs(t, err, entity.ErrInvalidInput)

	mine, err := svc.MyRides(ctx, driver, &request.MyRidesRequest{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, mine.Pagination.Total)

	mine, err = svc.MyRides(ctx, driver, &request.MyRidesRequest{Status: "cancelled"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, mine.Pagination.Total)
}
