package postgres

import (
	"context"
	"time"

	payrollDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/payroll"
	"gorm.io/gorm"
)

type PayRateRepository struct {
	db *gorm.DB
}

func (r *PayRateRepository) Create(ctx context.Context, rate *payrollDatamodel.PayRate) error {
	return r.db.WithContext(ctx).Create(rate).Error
}

func (r *PayRateRepository) ListCovering(ctx context.Context, userID int64, at time.Time) ([]*payrollDatamodel.PayRate, error) {
	var rates []*payrollDatamodel.PayRate
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("effective_from <= ?", at).
		Where("effective_to IS NULL OR effective_to >= ?", at).
		Order("effective_from DESC").
		Order("id DESC").
		Find(&rates).Error
	return rates, err
}

func (r *PayRateRepository) ListByUser(ctx context.Context, userID int64) ([]*payrollDatamodel.PayRate, error) {
	var rates []*payrollDatamodel.PayRate
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("effective_from ASC").
		Order("id ASC").
		Find(&rates).Error
	return rates, err
}

type PayrollRunRepository struct {
	db *gorm.DB
}

func (r *PayrollRunRepository) Create(ctx context.Context, run *payrollDatamodel.PayrollRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

func (r *PayrollRunRepository) GetByID(ctx context.Context, id int64) (*payrollDatamodel.PayrollRun, error) {
	var run payrollDatamodel.PayrollRun
	ok, err := first(r.db.WithContext(ctx), &run, "id = ?", id)
	if !ok {
		return nil, err
	}
	return &run, nil
}

func (r *PayrollRunRepository) LockByID(ctx context.Context, id int64) (*payrollDatamodel.PayrollRun, error) {
	var run payrollDatamodel.PayrollRun
	ok, err := first(forUpdate(r.db.WithContext(ctx)), &run, "id = ?", id)
	if !ok {
		return nil, err
	}
	return &run, nil
}

func (r *PayrollRunRepository) UpdateStatus(ctx context.Context, id int64, status payrollDatamodel.RunStatus) error {
	return r.db.WithContext(ctx).Model(&payrollDatamodel.PayrollRun{}).
		Where("id = ?", id).
		Update("status", status).Error
}

type PayrollLineRepository struct {
	db *gorm.DB
}

func (r *PayrollLineRepository) DeleteByRun(ctx context.Context, runID int64) error {
	return r.db.WithContext(ctx).Where("payroll_run_id = ?", runID).Delete(&payrollDatamodel.PayrollLine{}).Error
}

func (r *PayrollLineRepository) CreateBatch(ctx context.Context, lines []*payrollDatamodel.PayrollLine) error {
	if len(lines) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&lines).Error
}

func (r *PayrollLineRepository) ListByRun(ctx context.Context, runID int64) ([]*payrollDatamodel.PayrollLine, error) {
	var lines []*payrollDatamodel.PayrollLine
	err := r.db.WithContext(ctx).Where("payroll_run_id = ?", runID).Order("user_id ASC").Find(&lines).Error
	return lines, err
}
