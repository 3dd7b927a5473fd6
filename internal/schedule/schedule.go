package schedule

import (
	"time"

	scheduleDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/schedule"
	userDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/user"
)

// RosterEntry is a shift joined with its current owner for display.
type RosterEntry struct {
	ID        int64                         `json:"id"`
	UserID    int64                         `json:"user_id"`
	UserEmail string                        `json:"user_email"`
	UserName  string                        `json:"user_name"`
	WorkDate  string                        `json:"work_date"`
	StartTime time.Time                     `json:"start_time"`
	EndTime   time.Time                     `json:"end_time"`
	Status    scheduleDatamodel.ShiftStatus `json:"status"`
}

func NewRosterEntry(s *scheduleDatamodel.Shift, owner *userDatamodel.User) RosterEntry {
	e := RosterEntry{
		ID:        s.ID,
		UserID:    s.UserID,
		WorkDate:  s.WorkDate.Format("2006-01-02"),
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
		Status:    s.Status,
	}
	if owner != nil {
		e.UserEmail = owner.Email
		e.UserName = owner.Name
	}
	return e
}

// WorkDateOf returns the calendar date of t in its own location, as
// midnight UTC.
func WorkDateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
