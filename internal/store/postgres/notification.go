package postgres

import (
	"context"

	notificationDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/notification"
	"gorm.io/gorm"
)

type NotificationRepository struct {
	db *gorm.DB
}

func (r *NotificationRepository) Create(ctx context.Context, n *notificationDatamodel.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *NotificationRepository) ListByRecipient(ctx context.Context, recipientID int64, unreadOnly bool) ([]*notificationDatamodel.Notification, error) {
	var items []*notificationDatamodel.Notification
	q := r.db.WithContext(ctx).Where("recipient_id = ?", recipientID)
	if unreadOnly {
		q = q.Where("read = ?", false)
	}
	err := q.Order("created_at DESC").Order("id DESC").Find(&items).Error
	return items, err
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id, recipientID int64) (bool, error) {
	res := r.db.WithContext(ctx).Model(&notificationDatamodel.Notification{}).
		Where("id = ? AND recipient_id = ?", id, recipientID).
		Update("read", true)
	return res.RowsAffected > 0, res.Error
}
