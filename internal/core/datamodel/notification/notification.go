package notification

import "time"

type Channel string

const (
	ChannelInApp Channel = "inapp"
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
	ChannelPush  Channel = "push"
)

func ParseChannel(s string) (Channel, bool) {
	switch c := Channel(s); c {
	case ChannelInApp, ChannelEmail, ChannelSMS, ChannelPush:
		return c, true
	}
	return "", false
}

type Notification struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	RecipientID int64     `gorm:"column:recipient_id;not null;index" json:"recipient_id"`
	Message     string    `gorm:"column:message;not null" json:"message"`
	Channel     Channel   `gorm:"column:channel;type:varchar(20);not null;default:inapp" json:"channel"`
	EntityType  *string   `gorm:"column:entity_type" json:"entity_type,omitempty"`
	EntityID    *int64    `gorm:"column:entity_id" json:"entity_id,omitempty"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	Read        bool      `gorm:"column:read;not null;default:false" json:"read"`
}

func (Notification) TableName() string {
	return "notifications"
}
