package attendance

import (
	"time"

	attendanceDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/attendance"
	scheduleDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/schedule"
)

type ClockInDTO struct {
	ShiftID int64  `json:"shift_id"`
	Source  string `json:"source,omitempty"`
}

type TimeLogResponse struct {
	ID            int64                              `json:"id"`
	ShiftID       int64                              `json:"shift_id"`
	UserID        int64                              `json:"user_id"`
	ClockIn       time.Time                          `json:"clock_in"`
	ClockOut      *time.Time                         `json:"clock_out,omitempty"`
	Source        attendanceDatamodel.Source         `json:"source"`
	WorkedMinutes int                                `json:"worked_minutes"`
	Breaks        []*attendanceDatamodel.BreakLog    `json:"breaks,omitempty"`
	Flags         []*scheduleDatamodel.ExceptionFlag `json:"flags,omitempty"`
}

type FlagsResponse struct {
	Flags []*scheduleDatamodel.ExceptionFlag `json:"flags"`
}

// Result is a time log together with what was recorded alongside it.
type Result struct {
	TimeLog *attendanceDatamodel.TimeLog
	Breaks  []*attendanceDatamodel.BreakLog
	Flags   []*scheduleDatamodel.ExceptionFlag
}

func (r *Result) ToResponse() TimeLogResponse {
	return TimeLogResponse{
		ID:            r.TimeLog.ID,
		ShiftID:       r.TimeLog.ShiftID,
		UserID:        r.TimeLog.UserID,
		ClockIn:       r.TimeLog.ClockIn,
		ClockOut:      r.TimeLog.ClockOut,
		Source:        r.TimeLog.Source,
		WorkedMinutes: WorkedMinutes(r.TimeLog, r.Breaks),
		Breaks:        r.Breaks,
		Flags:         r.Flags,
	}
}
