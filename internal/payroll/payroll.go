package payroll

import (
	"time"

	payrollDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/payroll"
	"github.com/shopspring/decimal"
)

const DateLayout = "2006-01-02"

var sixty = decimal.NewFromInt(60)

// RunWithLines is a payroll run together with its generated lines, ordered
// by user id.
type RunWithLines struct {
	Run   *payrollDatamodel.PayrollRun
	Lines []*payrollDatamodel.PayrollLine
}

// Total sums the gross pay of every line.
func (r *RunWithLines) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range r.Lines {
		total = total.Add(l.GrossPay)
	}
	return total
}

// UserIDs lists the users paid in this run.
func (r *RunWithLines) UserIDs() []int64 {
	ids := make([]int64, 0, len(r.Lines))
	for _, l := range r.Lines {
		ids = append(ids, l.UserID)
	}
	return ids
}

// GrossPay is minutes × hourly rate / 60, rounded half-up to cents.
func GrossPay(minutes int, hourlyRate decimal.Decimal) decimal.Decimal {
	if minutes <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(minutes)).Mul(hourlyRate).DivRound(sixty, 2)
}

// Window returns the instants bounding an inclusive date period: midnight of
// the first day through the last microsecond of the last day.
func Window(periodStart, periodEnd time.Time) (time.Time, time.Time) {
	from := dateOf(periodStart)
	to := dateOf(periodEnd).Add(24*time.Hour - time.Microsecond)
	return from, to
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
