package attendance

import "time"

type Source string

const (
	SourceApp   Source = "app"
	SourceKiosk Source = "kiosk"
)

// TimeLog is open while ClockOut is nil.
type TimeLog struct {
	ID        int64      `gorm:"primaryKey" json:"id"`
	ShiftID   int64      `gorm:"column:shift_id;not null;index" json:"shift_id"`
	UserID    int64      `gorm:"column:user_id;not null;index" json:"user_id"`
	ClockIn   time.Time  `gorm:"column:clock_in;not null;index" json:"clock_in"`
	ClockOut  *time.Time `gorm:"column:clock_out" json:"clock_out,omitempty"`
	Source    Source     `gorm:"column:source;type:varchar(20);not null;default:app" json:"source"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (TimeLog) TableName() string {
	return "timelogs"
}

func (t *TimeLog) IsOpen() bool {
	return t.ClockOut == nil
}

type BreakLog struct {
	ID         int64      `gorm:"primaryKey" json:"id"`
	TimeLogID  int64      `gorm:"column:timelog_id;not null;index" json:"timelog_id"`
	BreakStart time.Time  `gorm:"column:break_start;not null" json:"break_start"`
	BreakEnd   *time.Time `gorm:"column:break_end" json:"break_end,omitempty"`
}

func (BreakLog) TableName() string {
	return "breaklogs"
}

func (b *BreakLog) IsOpen() bool {
	return b.BreakEnd == nil
}
