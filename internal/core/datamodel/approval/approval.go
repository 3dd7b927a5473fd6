package approval

import "time"

type RequestStatus string

const (
	StatusPending   RequestStatus = "pending"
	StatusApproved  RequestStatus = "approved"
	StatusRejected  RequestStatus = "rejected"
	StatusCancelled RequestStatus = "cancelled"
)

func (s RequestStatus) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected || s == StatusCancelled
}

type LeaveType string

const (
	LeaveAnnual LeaveType = "annual"
	LeaveSick   LeaveType = "sick"
	LeaveOther  LeaveType = "other"
)

func ParseLeaveType(s string) (LeaveType, bool) {
	switch t := LeaveType(s); t {
	case LeaveAnnual, LeaveSick, LeaveOther:
		return t, true
	}
	return "", false
}

type LeaveRequest struct {
	ID          int64         `gorm:"primaryKey" json:"id"`
	RequesterID int64         `gorm:"column:requester_id;not null;index" json:"requester_id"`
	ApproverID  *int64        `gorm:"column:approver_id" json:"approver_id,omitempty"`
	StartDate   time.Time     `gorm:"column:start_date;type:date;not null" json:"start_date"`
	EndDate     time.Time     `gorm:"column:end_date;type:date;not null" json:"end_date"`
	Type        LeaveType     `gorm:"column:type;type:varchar(20);not null" json:"type"`
	Status      RequestStatus `gorm:"column:status;type:varchar(20);not null;default:pending" json:"status"`
	Reason      string        `gorm:"column:reason" json:"reason"`
	CreatedAt   time.Time     `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time     `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}

type SwapRequest struct {
	ID         int64         `gorm:"primaryKey" json:"id"`
	ShiftID    int64         `gorm:"column:shift_id;not null;index" json:"shift_id"`
	FromUserID int64         `gorm:"column:from_user_id;not null" json:"from_user_id"`
	ToUserID   int64         `gorm:"column:to_user_id;not null" json:"to_user_id"`
	Status     RequestStatus `gorm:"column:status;type:varchar(20);not null;default:pending" json:"status"`
	Note       string        `gorm:"column:note" json:"note"`
	CreatedAt  time.Time     `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time     `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (SwapRequest) TableName() string {
	return "swap_requests"
}
