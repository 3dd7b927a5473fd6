package schedule

import (
	"time"

	"github.com/frahmantamala/workforce-management/internal/core/common/validation"
)

type AssignShiftDTO struct {
	UserID int64     `json:"user_id"`
	Start  time.Time `json:"start_time"`
	End    time.Time `json:"end_time"`
}

func (d AssignShiftDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("user_id", d.UserID).Required()
	v.Field("start_time", d.Start).Required()
	v.Field("end_time", d.End).Required()
	if err := v.Validate(); err != nil {
		return err
	}
	if err := validation.ValidateRange("end_time", d.Start, d.End, true); err != nil {
		return err
	}
	return nil
}

type RosterResponse struct {
	Shifts []RosterEntry `json:"shifts"`
}
