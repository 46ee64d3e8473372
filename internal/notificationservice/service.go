// Package notificationservice manages business logic layer of notifications.
package notificationservice

import (
	"context"

	"github.com/go-teller/branch-bank/internal/domain"
)

// defaultListLimit caps how many recent notifications a single fetch returns.
const defaultListLimit = 50

// Repo provides data access layer interface needed by notification service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package notificationservice
type Repo interface {
	Create(ctx context.Context, arg domain.CreateNotificationParams) (domain.Notification, error)
	List(ctx context.Context, customerID int64, limit int32) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id int64) (domain.Notification, error)
	CountUnread(ctx context.Context, customerID int64) (int64, error)
}

// Service facilitates notification service layer logic.
type Service struct {
	repo Repo
}

// New returns notification service struct to manage notification bussines logic.
func New(nr Repo) *Service {
	return &Service{repo: nr}
}

// Emit appends a new unread notification for the customer.
func (s *Service) Emit(ctx context.Context, arg domain.CreateNotificationParams) (domain.Notification, error) {
	return s.repo.Create(ctx, arg)
}

// List returns the customer's most recent notifications.
func (s *Service) List(ctx context.Context, customerID int64, limit int32) ([]domain.Notification, error) {
	if limit <= 0 || limit > defaultListLimit {
		limit = defaultListLimit
	}

	return s.repo.List(ctx, customerID, limit)
}

// MarkRead acknowledges the notification. Re-marking is a no-op.
func (s *Service) MarkRead(ctx context.Context, id int64) (domain.Notification, error) {
	return s.repo.MarkRead(ctx, id)
}

// CountUnread returns the number of unread notifications for the customer.
func (s *Service) CountUnread(ctx context.Context, customerID int64) (int64, error) {
	return s.repo.CountUnread(ctx, customerID)
}
