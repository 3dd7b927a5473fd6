package approval

import (
	"time"

	"github.com/frahmantamala/workforce-management/internal"
	"github.com/frahmantamala/workforce-management/internal/core/common/validation"
	approvalDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/approval"
)

type CreateLeaveDTO struct {
	RequesterID int64
	StartDate   time.Time
	EndDate     time.Time
	Type        string
	Reason      string
}

// Validate checks the shape of a leave request and returns its parsed type.
func (d CreateLeaveDTO) Validate() (approvalDatamodel.LeaveType, error) {
	v := validation.NewValidator()
	v.Field("requester_id", d.RequesterID).Required()
	v.Field("start_date", d.StartDate).Required()
	v.Field("end_date", d.EndDate).Required()
	v.Field("reason", d.Reason).MaxLength(1000)
	if err := v.Validate(); err != nil {
		return "", err
	}
	if err := validation.ValidateRange("end_date", d.StartDate, d.EndDate, false); err != nil {
		return "", err
	}
	leaveType, ok := approvalDatamodel.ParseLeaveType(d.Type)
	if !ok {
		return "", internal.NewInvalidValue("type", d.Type)
	}
	return leaveType, nil
}

type RequestSwapDTO struct {
	FromUserID int64
	ShiftID    int64
	ToUserID   int64
	Note       string
}

func (d RequestSwapDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("from_user_id", d.FromUserID).Required()
	v.Field("shift_id", d.ShiftID).Required()
	v.Field("to_user_id", d.ToUserID).Required()
	if err := v.Validate(); err != nil {
		return err
	}
	if err := validation.ValidateNote("note", d.Note); err != nil {
		return err
	}
	if d.FromUserID == d.ToUserID {
		return internal.NewInvalidValue("to_user_id", d.ToUserID)
	}
	return nil
}

type createLeaveRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Type      string `json:"type"`
	Reason    string `json:"reason"`
}

type requestSwapRequest struct {
	ShiftID  int64  `json:"shift_id"`
	ToUserID int64  `json:"to_user_id"`
	Note     string `json:"note"`
}

type decisionRequest struct {
	Decision string `json:"decision"`
}

type LeavesResponse struct {
	Leaves []*approvalDatamodel.LeaveRequest `json:"leaves"`
}

type SwapsResponse struct {
	Swaps []*approvalDatamodel.SwapRequest `json:"swaps"`
}
