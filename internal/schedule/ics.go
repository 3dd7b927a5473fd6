package schedule

import (
	"fmt"
	"io"
	"time"

	ics "github.com/arran4/golang-ical"
)

const icsProductID = "-//workforce-management//roster//EN"

// WriteICS renders roster entries as an iCalendar feed, one VEVENT per shift.
func WriteICS(w io.Writer, entries []RosterEntry, stamp time.Time) error {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(icsProductID)
	cal.SetName("Roster")

	for _, e := range entries {
		event := cal.AddEvent(fmt.Sprintf("shift-%d@workforce-management", e.ID))
		event.SetDtStampTime(stamp.UTC())
		event.SetStartAt(e.StartTime.UTC())
		event.SetEndAt(e.EndTime.UTC())
		event.SetSummary(fmt.Sprintf("Shift #%d %s", e.ID, e.UserName))
		event.SetDescription(fmt.Sprintf("%s [%s]", e.UserEmail, e.Status))
		if e.UserEmail != "" {
			event.AddAttendee("mailto:" + e.UserEmail)
		}
	}

	_, err := io.WriteString(w, cal.Serialize())
	return err
}
