package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayRate applies from EffectiveFrom through EffectiveTo inclusive; a nil
// EffectiveTo is open-ended.
type PayRate struct {
	ID            int64           `gorm:"primaryKey" json:"id"`
	UserID        int64           `gorm:"column:user_id;not null;index" json:"user_id"`
	HourlyRate    decimal.Decimal `gorm:"column:hourly_rate;type:numeric(12,2);not null" json:"hourly_rate"`
	EffectiveFrom time.Time       `gorm:"column:effective_from;not null" json:"effective_from"`
	EffectiveTo   *time.Time      `gorm:"column:effective_to" json:"effective_to,omitempty"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (PayRate) TableName() string {
	return "pay_rates"
}

// Covers reports whether the rate is in force at the given instant.
func (r *PayRate) Covers(at time.Time) bool {
	if r.EffectiveFrom.After(at) {
		return false
	}
	return r.EffectiveTo == nil || !r.EffectiveTo.Before(at)
}

type RunStatus string

const (
	RunDraft    RunStatus = "draft"
	RunApproved RunStatus = "approved"
)

type PayrollRun struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	PeriodStart time.Time `gorm:"column:period_start;type:date;not null" json:"period_start"`
	PeriodEnd   time.Time `gorm:"column:period_end;type:date;not null" json:"period_end"`
	GeneratedBy int64     `gorm:"column:generated_by;not null" json:"generated_by"`
	Status      RunStatus `gorm:"column:status;type:varchar(20);not null;default:draft" json:"status"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (PayrollRun) TableName() string {
	return "payroll_runs"
}

type PayrollLine struct {
	ID           int64           `gorm:"primaryKey" json:"id"`
	PayrollRunID int64           `gorm:"column:payroll_run_id;not null;uniqueIndex:idx_payroll_line_run_user" json:"payroll_run_id"`
	UserID       int64           `gorm:"column:user_id;not null;uniqueIndex:idx_payroll_line_run_user" json:"user_id"`
	TotalMinutes int             `gorm:"column:total_minutes;not null" json:"total_minutes"`
	GrossPay     decimal.Decimal `gorm:"column:gross_pay;type:numeric(12,2);not null" json:"gross_pay"`
}

func (PayrollLine) TableName() string {
	return "payroll_lines"
}
