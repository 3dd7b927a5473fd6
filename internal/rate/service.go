package rate

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/workforce-management/internal"
	payrollDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/payroll"
	"github.com/frahmantamala/workforce-management/internal/core/port"
)

// Resolver looks up hourly pay rates over time.
type Resolver struct {
	store  port.Store
	logger *slog.Logger
}

func NewResolver(store port.Store, logger *slog.Logger) *Resolver {
	return &Resolver{
		store:  store,
		logger: logger,
	}
}

func (s *Resolver) ResolveRate(ctx context.Context, userID int64, at time.Time) (*payrollDatamodel.PayRate, error) {
	var resolved *payrollDatamodel.PayRate
	err := s.store.Transaction(ctx, func(tx port.Tx) error {
		var err error
		resolved, err = s.ResolveIn(ctx, tx, userID, at)
		return err
	})
	return resolved, err
}

// ResolveIn resolves within an existing unit of work. It returns
// ErrRateNotFound when no interval covers at.
func (s *Resolver) ResolveIn(ctx context.Context, tx port.Tx, userID int64, at time.Time) (*payrollDatamodel.PayRate, error) {
	candidates, err := tx.PayRates().ListCovering(ctx, userID, at)
	if err != nil {
		return nil, internal.NewInternalError("failed to load pay rates", err)
	}
	if len(candidates) > 1 {
		s.logger.Warn("overlapping pay rates", "user_id", userID, "at", at, "count", len(candidates))
	}

	selected := Select(candidates, at)
	if selected == nil {
		return nil, ErrRateNotFound.WithDetails(map[string]interface{}{"user_id": userID, "at": at})
	}
	return selected, nil
}

// SetRate stores a new rate interval for a user. Intervals of one user may
// not overlap.
func (s *Resolver) SetRate(ctx context.Context, dto SetRateDTO) (*payrollDatamodel.PayRate, error) {
	amount, err := dto.Validate()
	if err != nil {
		return nil, err
	}

	row := &payrollDatamodel.PayRate{
		UserID:        dto.UserID,
		HourlyRate:    amount,
		EffectiveFrom: dto.EffectiveFrom.UTC(),
	}
	if dto.EffectiveTo != nil {
		to := dto.EffectiveTo.UTC()
		row.EffectiveTo = &to
	}

	err = s.store.Transaction(ctx, func(tx port.Tx) error {
		u, err := tx.Users().GetByID(ctx, dto.UserID)
		if err != nil {
			return err
		}
		if u == nil {
			return internal.NewNotFound("user", dto.UserID, internal.ErrCodeUserNotFound)
		}

		existing, err := tx.PayRates().ListByUser(ctx, dto.UserID)
		if err != nil {
			return err
		}
		for _, r := range existing {
			if Overlaps(row.EffectiveFrom, row.EffectiveTo, r.EffectiveFrom, r.EffectiveTo) {
				return internal.NewInvalidRange("effective_from").WithDetails(map[string]interface{}{
					"field":       "effective_from",
					"overlaps_id": r.ID,
				})
			}
		}
		return tx.PayRates().Create(ctx, row)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("pay rate set", "user_id", row.UserID, "rate_id", row.ID, "hourly_rate", row.HourlyRate.StringFixed(2))
	return row, nil
}

func (s *Resolver) ListRates(ctx context.Context, userID int64) ([]*payrollDatamodel.PayRate, error) {
	var rates []*payrollDatamodel.PayRate
	err := s.store.Transaction(ctx, func(tx port.Tx) error {
		var err error
		rates, err = tx.PayRates().ListByUser(ctx, userID)
		return err
	})
	return rates, err
}
