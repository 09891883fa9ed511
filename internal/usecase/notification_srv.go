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

type NotificationService interface {
	List(ctx context.Context, caller access.Caller, req *request.PaginatedRequest) (*response.PaginatedResponse[response.NotificationResponse], error)
	MarkRead(ctx context.Context, caller access.Caller, notificationID string) error
}

type notificationService struct {
	notifications repository.NotificationRepository
	log           *zap.Logger
}

func NewNotificationService(notifications repository.NotificationRepository, log *zap.Logger) NotificationService {
	return &notificationService{
		notifications: notifications,
		log:           log.With(zap.String("service", "notification")),
	}
}

func (s *notificationService) List(ctx context.Context, caller access.Caller, req *request.PaginatedRequest) (*response.PaginatedResponse[response.NotificationResponse], error) {
	if !caller.Authenticated() {
		return nil, entity.ErrUnauthenticated
	}

	items, err := s.notifications.FindByUserID(ctx, caller.UserID, req.Limit(), req.Offset())
	if err != nil {
		return nil, err
	}
	total, err := s.notifications.CountByUserID(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}

	data := make([]response.NotificationResponse, 0, len(items))
	for _, n := range items {
		data = append(data, response.NotificationToResponse(n))
	}

	return response.NewPaginatedResponse(data, req.PageNumber(), req.Limit(), total), nil
}

func (s *notificationService) MarkRead(ctx context.Context, caller access.Caller, notificationID string) error {
	if !caller.Authenticated() {
		return entity.ErrUnauthenticated
	}

	id, err := parseID("notification", notificationID)
	if err != nil {
		return err
	}

	return s.notifications.MarkRead(ctx, id, caller.UserID)
}
