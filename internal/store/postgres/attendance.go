package postgres

import (
	"context"
	"time"

	attendanceDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/attendance"
	"gorm.io/gorm"
)

type TimeLogRepository struct {
	db *gorm.DB
}

func (r *TimeLogRepository) Create(ctx context.Context, t *attendanceDatamodel.TimeLog) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TimeLogRepository) GetByID(ctx context.Context, id int64) (*attendanceDatamodel.TimeLog, error) {
	var t attendanceDatamodel.TimeLog
	ok, err := first(r.db.WithContext(ctx), &t, "id = ?", id)
	if !ok {
		return nil, err
	}
	return &t, nil
}

func (r *TimeLogRepository) LockByID(ctx context.Context, id int64) (*attendanceDatamodel.TimeLog, error) {
	var t attendanceDatamodel.TimeLog
	ok, err := first(forUpdate(r.db.WithContext(ctx)), &t, "id = ?", id)
	if !ok {
		return nil, err
	}
	return &t, nil
}

func (r *TimeLogRepository) Close(ctx context.Context, id int64, clockOut time.Time) error {
	return r.db.WithContext(ctx).Model(&attendanceDatamodel.TimeLog{}).
		Where("id = ?", id).
		Update("clock_out", clockOut).Error
}

func (r *TimeLogRepository) ListByShift(ctx context.Context, shiftID int64) ([]*attendanceDatamodel.TimeLog, error) {
	var logs []*attendanceDatamodel.TimeLog
	err := r.db.WithContext(ctx).Where("shift_id = ?", shiftID).Order("id ASC").Find(&logs).Error
	return logs, err
}

func (r *TimeLogRepository) ListClosedBetween(ctx context.Context, from, to time.Time) ([]*attendanceDatamodel.TimeLog, error) {
	var logs []*attendanceDatamodel.TimeLog
	err := r.db.WithContext(ctx).
		Where("clock_out IS NOT NULL").
		Where("clock_in >= ?", from).
		Where("clock_out <= ?", to).
		Order("id ASC").
		Find(&logs).Error
	return logs, err
}

type BreakLogRepository struct {
	db *gorm.DB
}

func (r *BreakLogRepository) Create(ctx context.Context, b *attendanceDatamodel.BreakLog) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *BreakLogRepository) GetByID(ctx context.Context, id int64) (*attendanceDatamodel.BreakLog, error) {
	var b attendanceDatamodel.BreakLog
	ok, err := first(r.db.WithContext(ctx), &b, "id = ?", id)
	if !ok {
		return nil, err
	}
	return &b, nil
}

func (r *BreakLogRepository) Close(ctx context.Context, id int64, breakEnd time.Time) error {
	return r.db.WithContext(ctx).Model(&attendanceDatamodel.BreakLog{}).
		Where("id = ?", id).
		Update("break_end", breakEnd).Error
}

func (r *BreakLogRepository) ListByTimeLog(ctx context.Context, timeLogID int64) ([]*attendanceDatamodel.BreakLog, error) {
	var breaks []*attendanceDatamodel.BreakLog
	err := r.db.WithContext(ctx).Where("timelog_id = ?", timeLogID).Order("id ASC").Find(&breaks).Error
	return breaks, err
}

func (r *BreakLogRepository) ListByTimeLogs(ctx context.Context, timeLogIDs []int64) ([]*attendanceDatamodel.BreakLog, error) {
	var breaks []*attendanceDatamodel.BreakLog
	if len(timeLogIDs) == 0 {
		return breaks, nil
	}
	err := r.db.WithContext(ctx).Where("timelog_id IN ?", timeLogIDs).Order("id ASC").Find(&breaks).Error
	return breaks, err
}
