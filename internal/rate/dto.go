package rate

import (
	"time"

	"github.com/frahmantamala/workforce-management/internal"
	"github.com/frahmantamala/workforce-management/internal/core/common/validation"
	payrollDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/payroll"
	"github.com/shopspring/decimal"
)

type SetRateDTO struct {
	UserID        int64      `json:"user_id"`
	HourlyRate    string     `json:"hourly_rate"`
	EffectiveFrom time.Time  `json:"effective_from"`
	EffectiveTo   *time.Time `json:"effective_to,omitempty"`
}

func (d SetRateDTO) Validate() (decimal.Decimal, error) {
	v := validation.NewValidator()
	v.Field("user_id", d.UserID).Required()
	v.Field("hourly_rate", d.HourlyRate).Required()
	v.Field("effective_from", d.EffectiveFrom).Required()
	if err := v.Validate(); err != nil {
		return decimal.Zero, err
	}

	amount, err := decimal.NewFromString(d.HourlyRate)
	if err != nil {
		return decimal.Zero, internal.NewInvalidValue("hourly_rate", d.HourlyRate)
	}
	if err := validation.ValidateHourlyRate(amount); err != nil {
		return decimal.Zero, err
	}
	if d.EffectiveTo != nil {
		if err := validation.ValidateRange("effective_to", d.EffectiveFrom, *d.EffectiveTo, false); err != nil {
			return decimal.Zero, err
		}
	}
	return amount.Round(2), nil
}

type RateResponse struct {
	ID            int64      `json:"id"`
	UserID        int64      `json:"user_id"`
	HourlyRate    string     `json:"hourly_rate"`
	EffectiveFrom time.Time  `json:"effective_from"`
	EffectiveTo   *time.Time `json:"effective_to,omitempty"`
}

type RatesResponse struct {
	Rates []RateResponse `json:"rates"`
}

func ToResponse(r *payrollDatamodel.PayRate) RateResponse {
	return RateResponse{
		ID:            r.ID,
		UserID:        r.UserID,
		HourlyRate:    r.HourlyRate.StringFixed(2),
		EffectiveFrom: r.EffectiveFrom,
		EffectiveTo:   r.EffectiveTo,
	}
}
