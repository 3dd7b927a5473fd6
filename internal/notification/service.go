package notification

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/frahmantamala/workforce-management/internal"
	"github.com/frahmantamala/workforce-management/internal/core/common/validation"
	notificationDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/notification"
	"github.com/frahmantamala/workforce-management/internal/core/port"
)

// Deliverer queues persisted notifications for transport.
type Deliverer interface {
	Enqueue(job Job) error
}

type Service struct {
	store          port.Store
	deliverer      Deliverer
	defaultChannel notificationDatamodel.Channel
	logger         *slog.Logger
}

// NewService builds the notification service. A nil deliverer keeps
// notifications in-app only.
func NewService(store port.Store, deliverer Deliverer, defaultChannel string, logger *slog.Logger) *Service {
	ch, ok := notificationDatamodel.ParseChannel(defaultChannel)
	if !ok {
		ch = notificationDatamodel.ChannelInApp
	}
	return &Service{
		store:          store,
		deliverer:      deliverer,
		defaultChannel: ch,
		logger:         logger,
	}
}

// Send persists a notification for recipientID and hands it to the
// transport. Transport failures are logged and do not fail the call.
func (s *Service) Send(ctx context.Context, recipientID int64, message, channel string, entityType *string, entityID *int64) (*notificationDatamodel.Notification, error) {
	ch := s.defaultChannel
	if channel != "" {
		parsed, ok := notificationDatamodel.ParseChannel(strings.ToLower(channel))
		if !ok {
			return nil, internal.NewInvalidValue("channel", channel)
		}
		ch = parsed
	}

	v := validation.NewValidator()
	v.Field("recipient_id", recipientID).Required()
	v.Field("message", message).Required().MaxLength(2000)
	if err := v.Validate(); err != nil {
		return nil, err
	}

	n := &notificationDatamodel.Notification{
		RecipientID: recipientID,
		Message:     strings.TrimSpace(message),
		Channel:     ch,
		EntityType:  entityType,
		EntityID:    entityID,
	}
	job := Job{Notification: n}
	err := s.store.Transaction(ctx, func(tx port.Tx) error {
		u, err := tx.Users().GetByID(ctx, recipientID)
		if err != nil {
			return err
		}
		if u == nil {
			return internal.NewNotFound("user", recipientID, internal.ErrCodeUserNotFound)
		}
		job.Email, job.Name = u.Email, u.Name
		if err := tx.Notifications().Create(ctx, n); err != nil {
			return fmt.Errorf("create notification: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.deliverer != nil && n.Channel != notificationDatamodel.ChannelInApp {
		if err := s.deliverer.Enqueue(job); err != nil {
			s.logger.Warn("notification not queued for delivery",
				"notification_id", n.ID,
				"channel", n.Channel,
				"error", err)
		}
	}

	s.logger.Info("notification sent", "notification_id", n.ID, "recipient_id", recipientID, "channel", n.Channel)
	return n, nil
}

func (s *Service) ListForRecipient(ctx context.Context, recipientID int64, unreadOnly bool) ([]*notificationDatamodel.Notification, error) {
	var items []*notificationDatamodel.Notification
	err := s.store.Transaction(ctx, func(tx port.Tx) error {
		var err error
		items, err = tx.Notifications().ListByRecipient(ctx, recipientID, unreadOnly)
		return err
	})
	return items, err
}

// MarkRead flags one of the recipient's notifications as read.
func (s *Service) MarkRead(ctx context.Context, notificationID, recipientID int64) error {
	return s.store.Transaction(ctx, func(tx port.Tx) error {
		ok, err := tx.Notifications().MarkRead(ctx, notificationID, recipientID)
		if err != nil {
			return fmt.Errorf("mark notification read: %w", err)
		}
		if !ok {
			return internal.NewNotFound("notification", notificationID, internal.ErrCodeNotificationNotFound)
		}
		return nil
	})
}
