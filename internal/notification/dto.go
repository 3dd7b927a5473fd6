package notification

import (
	notificationDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/notification"
)

type SendNotificationDTO struct {
	RecipientID int64   `json:"recipient_id"`
	Message     string  `json:"message"`
	Channel     string  `json:"channel"`
	EntityType  *string `json:"entity_type,omitempty"`
	EntityID    *int64  `json:"entity_id,omitempty"`
}

type NotificationsResponse struct {
	Notifications []*notificationDatamodel.Notification `json:"notifications"`
}
