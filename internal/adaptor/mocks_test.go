package adaptor

import (
	"context"

	"ride-booking/internal/access"
	"ride-booking/internal/dto/request"
	"ride-booking/internal/dto/response"

	"github.com/stretchr/testify/mock"
)

type mockRideService struct {
	mock.Mock
}

func (m *mockRideService) CreateRide(ctx context.Context, caller access.Caller, req *request.CreateRideRequest) (*response.RideResponse, error) {
	args := m.Called(ctx, caller, req)
	ride, _ := args.Get(0).(*response.RideResponse)
	return ride, args.Error(1)
}

func (m *mockRideService) GetRide(ctx context.Context, rideID string) (*response.RideResponse, error) {
	args := m.Called(ctx, rideID)
	ride, _ := args.Get(0).(*response.RideResponse)
	return ride, args.Error(1)
}

func (m *mockRideService) SearchRides(ctx context.Context, req *request.SearchRidesRequest) (*response.PaginatedResponse[response.RideResponse], error) {
	args := m.Called(ctx, req)
	page, _ := args.Get(0).(*response.PaginatedResponse[response.RideResponse])
	return page, args.Error(1)
}

func (m *mockRideService) MyRides(ctx context.Context, caller access.Caller, req *request.MyRidesRequest) (*response.PaginatedResponse[response.RideResponse], error) {
	args := m.Called(ctx, caller, req)
	page, _ := args.Get(0).(*response.PaginatedResponse[response.RideResponse])
	return page, args.Error(1)
}

func (m *mockRideService) UpdateRide(ctx context.Context, caller access.Caller, rideID string, req *request.UpdateRideRequest) (*response.RideResponse, error) {
	args := m.Called(ctx, caller, rideID, req)
	ride, _ := args.Get(0).(*response.RideResponse)
	return ride, args.Error(1)
}

func (m *mockRideService) DeleteRide(ctx context.Context, caller access.Caller, rideID string) (*response.DeleteRideResponse, error) {
	args := m.Called(ctx, caller, rideID)
	result, _ := args.Get(0).(*response.DeleteRideResponse)
	return result, args.Error(1)
}

type mockBookingService struct {
	mock.Mock
}

func (m *mockBookingService) CreateBooking(ctx context.Context, caller access.Caller, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	args := m.Called(ctx, caller, req)
	b, _ := args.Get(0).(*response.BookingResponse)
	return b, args.Error(1)
}

func (m *mockBookingService) UpdateBooking(ctx context.Context, caller access.Caller, bookingID string, req *request.UpdateBookingRequest) (*response.BookingResponse, error) {
	args := m.Called(ctx, caller, bookingID, req)
	b, _ := args.Get(0).(*response.BookingResponse)
	return b, args.Error(1)
}

func (m *mockBookingService) GetBooking(ctx context.Context, caller access.Caller, bookingID string) (*response.BookingResponse, error) {
	args := m.Called(ctx, caller, bookingID)
	b, _ := args.Get(0).(*response.BookingResponse)
	return b, args.Error(1)
}

func (m *mockBookingService) ListMyBookings(ctx context.Context, caller access.Caller, req *request.BookingListRequest) (*response.PaginatedResponse[response.BookingWithRideResponse], error) {
	args := m.Called(ctx, caller, req)
	page, _ := args.Get(0).(*response.PaginatedResponse[response.BookingWithRideResponse])
	return page, args.Error(1)
}

func (m *mockBookingService) ListRideBookings(ctx context.Context, caller access.Caller, rideID string) ([]response.RideBookingResponse, error) {
	args := m.Called(ctx, caller, rideID)
	list, _ := args.Get(0).([]response.RideBookingResponse)
	return list, args.Error(1)
}

type mockProximityService struct {
	mock.Mock
}

func (m *mockProximityService) Nearby(ctx context.Context, req *request.NearbyRidesRequest) (*response.NearbyRidesResponse, error) {
	args := m.Called(ctx, req)
	result, _ := args.Get(0).(*response.NearbyRidesResponse)
	return result, args.Error(1)
}

type mockCoordinateService struct {
	mock.Mock
}

func (m *mockCoordinateService) SetCoordinates(ctx context.Context, caller access.Caller, rideID string, req *request.CoordinatesRequest) (*response.CoordinatesResponse, error) {
	args := m.Called(ctx, caller, rideID, req)
	result, _ := args.Get(0).(*response.CoordinatesResponse)
	return result, args.Error(1)
}

func (m *mockCoordinateService) Geocode(ctx context.Context, req *request.GeocodeRequest) (*response.GeocodeResponse, error) {
	args := m.Called(ctx, req)
	result, _ := args.Get(0).(*response.GeocodeResponse)
	return result, args.Error(1)
}

func (m *mockCoordinateService) Reverse(ctx context.Context, req *request.ReverseGeocodeRequest) (*response.GeocodeResponse, error) {
	args := m.Called(ctx, req)
	result, _ := args.Get(0).(*response.GeocodeResponse)
	return result, args.Error(1)
}

type mockPinger struct {
	mock.Mock
}

func (m *mockPinger) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
