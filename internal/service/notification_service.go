package service

import (
	"context"
	"errors"
	"time"

	"github.com/paulojunior1308/adega-flow-digital-sub003/internal/dto"
	"github.com/paulojunior1308/adega-flow-digital-sub003/internal/model"
	"github.com/paulojunior1308/adega-flow-digital-sub003/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrNotificationNotFound = errors.New("notificacao nao encontrada")

// NotificationService reads and acknowledges the per-user notification feed.
// Creation happens inside the order lifecycle transactions, not here.
type NotificationService interface {
	ListMine(ctx context.Context, userID uuid.UUID, limit int) (*dto.NotificationListResponse, error)
	MarkRead(ctx context.Context, id, userID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
}

type notificationService struct {
	notifications repository.NotificationRepository
}

func NewNotificationService(notifications repository.NotificationRepository) NotificationService {
	return &notificationService{notifications: notifications}
}

func (s *notificationService) ListMine(ctx context.Context, userID uuid.UUID, limit int) (*dto.NotificationListResponse, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}
	items, err := s.notifications.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	unread, err := s.notifications.CountUnread(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := &dto.NotificationListResponse{
		Data:   make([]dto.NotificationResponse, 0, len(items)),
		Unread: unread,
	}
	for i := range items {
		resp.Data = append(resp.Data, *notificationToResponse(&items[i]))
	}
	return resp, nil
}

func (s *notificationService) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	err := s.notifications.MarkRead(ctx, id, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotificationNotFound
	}
	return err
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	return s.notifications.MarkAllRead(ctx, userID)
}

func notificationToResponse(n *model.Notification) *dto.NotificationResponse {
	var orderID *string
	if n.OrderID != nil {
		id := n.OrderID.String()
		orderID = &id
	}
	return &dto.NotificationResponse{
		ID:        n.ID.String(),
		OrderID:   orderID,
		Message:   n.Message,
		Read:      n.Read,
		CreatedAt: n.CreatedAt.Format(time.RFC3339),
	}
}
