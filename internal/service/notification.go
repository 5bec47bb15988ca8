package service

import (
	"context"

	"swapcircle-backend/internal/domain"
	"swapcircle-backend/internal/repository"
)

type notificationService struct {
	store repository.Store
}

func NewNotificationService(store repository.Store) NotificationService {
	return &notificationService{store: store}
}

func (s *notificationService) ListNotifications(ctx context.Context, userID string, page, pageSize int32) ([]domain.Notification, int32, error) {
	limit, offset := repository.PageWindow(page, pageSize)
	return s.store.Repositories().Notifications.List(ctx, userID, limit, offset)
}

func (s *notificationService) MarkNotificationRead(ctx context.Context, userID, notificationID string) error {
	return s.store.Repositories().Notifications.MarkRead(ctx, notificationID, userID)
}
