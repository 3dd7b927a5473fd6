package attendance

import (
	"time"

	attendanceDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/attendance"
)

// WorkedMinutes returns the net whole minutes of a closed time log. Closed
// breaks are subtracted; open breaks count as worked time. The result never
// goes below zero.
func WorkedMinutes(log *attendanceDatamodel.TimeLog, breaks []*attendanceDatamodel.BreakLog) int {
	if log == nil || log.ClockOut == nil {
		return 0
	}

	net := log.ClockOut.Sub(log.ClockIn)
	for _, b := range breaks {
		if b == nil || b.BreakEnd == nil || b.TimeLogID != log.ID {
			continue
		}
		net -= b.BreakEnd.Sub(b.BreakStart)
	}
	if net <= 0 {
		return 0
	}
	return int(net / time.Minute)
}

// GroupBreaks indexes breaks by their time log.
func GroupBreaks(breaks []*attendanceDatamodel.BreakLog) map[int64][]*attendanceDatamodel.BreakLog {
	grouped := make(map[int64][]*attendanceDatamodel.BreakLog)
	for _, b := range breaks {
		grouped[b.TimeLogID] = append(grouped[b.TimeLogID], b)
	}
	return grouped
}
