package rate

import (
	"time"

	"github.com/frahmantamala/workforce-management/internal"
	payrollDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/payroll"
)

// ErrRateNotFound is returned when no rate covers the requested instant.
// Match it with errors.Is.
var ErrRateNotFound = internal.NewNotFoundError("no pay rate covers the requested instant", internal.ErrCodePayRateNotFound)

// Select picks the rate in force at the given instant. Overlapping intervals
// are tolerated: the latest effective_from wins, then the highest id.
func Select(candidates []*payrollDatamodel.PayRate, at time.Time) *payrollDatamodel.PayRate {
	var best *payrollDatamodel.PayRate
	for _, r := range candidates {
		if r == nil || !r.Covers(at) {
			continue
		}
		if best == nil ||
			r.EffectiveFrom.After(best.EffectiveFrom) ||
			(r.EffectiveFrom.Equal(best.EffectiveFrom) && r.ID > best.ID) {
			best = r
		}
	}
	return best
}

// Overlaps reports whether two inclusive intervals intersect. A nil end is
// open-ended.
func Overlaps(aFrom time.Time, aTo *time.Time, bFrom time.Time, bTo *time.Time) bool {
	aStartsBeforeBEnds := bTo == nil || !aFrom.After(*bTo)
	bStartsBeforeAEnds := aTo == nil || !bFrom.After(*aTo)
	return aStartsBeforeBEnds && bStartsBeforeAEnds
}
