package postgres

import (
	"context"

	scheduleDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/schedule"
	"gorm.io/gorm"
)

type ShiftRepository struct {
	db *gorm.DB
}

func (r *ShiftRepository) Create(ctx context.Context, s *scheduleDatamodel.Shift) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *ShiftRepository) GetByID(ctx context.Context, id int64) (*scheduleDatamodel.Shift, error) {
	var s scheduleDatamodel.Shift
	ok, err := first(r.db.WithContext(ctx), &s, "id = ?", id)
	if !ok {
		return nil, err
	}
	return &s, nil
}

func (r *ShiftRepository) LockByID(ctx context.Context, id int64) (*scheduleDatamodel.Shift, error) {
	var s scheduleDatamodel.Shift
	ok, err := first(forUpdate(r.db.WithContext(ctx)), &s, "id = ?", id)
	if !ok {
		return nil, err
	}
	return &s, nil
}

func (r *ShiftRepository) UpdateOwner(ctx context.Context, id, userID int64) error {
	return r.db.WithContext(ctx).Model(&scheduleDatamodel.Shift{}).
		Where("id = ?", id).
		Update("user_id", userID).Error
}

func (r *ShiftRepository) UpdateStatus(ctx context.Context, id int64, status scheduleDatamodel.ShiftStatus) error {
	return r.db.WithContext(ctx).Model(&scheduleDatamodel.Shift{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *ShiftRepository) ListOrdered(ctx context.Context, userID int64) ([]*scheduleDatamodel.Shift, error) {
	var shifts []*scheduleDatamodel.Shift
	q := r.db.WithContext(ctx).Order("start_time ASC").Order("id ASC")
	if userID != 0 {
		q = q.Where("user_id = ?", userID)
	}
	err := q.Find(&shifts).Error
	return shifts, err
}

type ExceptionFlagRepository struct {
	db *gorm.DB
}

func (r *ExceptionFlagRepository) Create(ctx context.Context, f *scheduleDatamodel.ExceptionFlag) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *ExceptionFlagRepository) ListByShift(ctx context.Context, shiftID int64) ([]*scheduleDatamodel.ExceptionFlag, error) {
	var flags []*scheduleDatamodel.ExceptionFlag
	err := r.db.WithContext(ctx).Where("shift_id = ?", shiftID).Order("id ASC").Find(&flags).Error
	return flags, err
}
