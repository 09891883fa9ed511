package usecase

import (
	"context"

	"ride-booking/internal/access"
	"ride-booking/internal/data/entity"
	"ride-booking/internal/data/repository"
	"ride-booking/internal/dto/request"
	"ride-booking/internal/dto/response"

	"go.uber.org/zap"
)

type AdminService interface {
	ListUsers(ctx context.Context, caller access.Caller, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ProfileResponse], error)
	SetBanned(ctx context.Context, caller access.Caller, userID string, req *request.BanUserRequest) (*response.ProfileResponse, error)
	ListBookings(ctx context.Context, caller access.Caller, req *request.BookingListRequest) (*response.PaginatedResponse[response.BookingWithRideResponse], error)
}

type adminService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewAdminService(repo *repository.Repository, log *zap.Logger) AdminService {
	return &adminService{
		repo: repo,
		log:  log.With(zap.String("service", "admin")),
	}
}

func (s *adminService) ListUsers(ctx context.Context, caller access.Caller, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ProfileResponse], error) {
	if err := access.RequireAdmin(caller); err != nil {
		return nil, err
	}

	profiles, err := s.repo.Profile.FindAll(ctx, req.Limit(), req.Offset())
	if err != nil {
		return nil, err
	}
	total, err := s.repo.Profile.CountAll(ctx)
	if err != nil {
		return nil, err
	}

	data := make([]response.ProfileResponse, 0, len(profiles))
	for _, p := range profiles {
		data = append(data, response.ProfileToResponse(p))
	}

	return response.NewPaginatedResponse(data, req.PageNumber(), req.Limit(), total), nil
}

func (s *adminService) SetBanned(ctx context.Context, caller access.Caller, userID string, req *request.BanUserRequest) (*response.ProfileResponse, error) {
	if err := access.RequireAdmin(caller); err != nil {
		return nil, err
	}

	id, err := parseID("user", userID)
	if err != nil {
		return nil, err
	}
	if req.IsBanned == nil {
		return nil, entity.ErrInvalidInput
	}

	if err := s.repo.Profile.SetBanned(ctx, id, *req.IsBanned); err != nil {
		return nil, err
	}

	profile, err := s.repo.Profile.FindByUserID(ctx, id)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, entity.ErrProfileNotFound
	}

	s.log.Info("User ban flag changed",
		zap.String("user_id", id.String()),
		zap.Bool("is_banned", *req.IsBanned),
		zap.String("admin_id", caller.UserID.String()),
	)

	resp := response.ProfileToResponse(profile)
	return &resp, nil
}

// ListBookings lists bookings across users, optionally narrowed to one passenger or ride.
func (s *adminService) ListBookings(ctx context.Context, caller access.Caller, req *request.BookingListRequest) (*response.PaginatedResponse[response.BookingWithRideResponse], error) {
	if err := access.RequireAdmin(caller); err != nil {
		return nil, err
	}

	filter, err := bookingFilter(req)
	if err != nil {
		return nil, err
	}

	return listBookings(ctx, s.repo, filter, req.PaginatedRequest)
}
