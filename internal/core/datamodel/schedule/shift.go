package schedule

import "time"

type ShiftStatus string

const (
	ShiftScheduled ShiftStatus = "scheduled"
	ShiftCompleted ShiftStatus = "completed"
	ShiftMissed    ShiftStatus = "missed"
)

type Shift struct {
	ID        int64       `gorm:"primaryKey" json:"id"`
	UserID    int64       `gorm:"column:user_id;not null;index" json:"user_id"`
	WorkDate  time.Time   `gorm:"column:work_date;type:date;not null" json:"work_date"`
	StartTime time.Time   `gorm:"column:start_time;not null;index" json:"start_time"`
	EndTime   time.Time   `gorm:"column:end_time;not null" json:"end_time"`
	Status    ShiftStatus `gorm:"column:status;type:varchar(20);not null;default:scheduled" json:"status"`
	CreatedAt time.Time   `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time   `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Shift) TableName() string {
	return "shifts"
}

type ExceptionKind string

const (
	ExceptionLate     ExceptionKind = "late"
	ExceptionEarly    ExceptionKind = "early"
	ExceptionNoShow   ExceptionKind = "no_show"
	ExceptionOvertime ExceptionKind = "overtime"
)

// ExceptionFlag is informational and insert-only.
type ExceptionFlag struct {
	ID         int64         `gorm:"primaryKey" json:"id"`
	ShiftID    int64         `gorm:"column:shift_id;not null;index" json:"shift_id"`
	UserID     int64         `gorm:"column:user_id;not null" json:"user_id"`
	Kind       ExceptionKind `gorm:"column:kind;type:varchar(20);not null" json:"kind"`
	Reason     string        `gorm:"column:reason" json:"reason"`
	DetectedAt time.Time     `gorm:"column:detected_at;not null" json:"detected_at"`
}

func (ExceptionFlag) TableName() string {
	return "exception_flags"
}
