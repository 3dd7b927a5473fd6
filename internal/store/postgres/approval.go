package postgres

import (
	"context"

	approvalDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/approval"
	"gorm.io/gorm"
)

type LeaveRepository struct {
	db *gorm.DB
}

func (r *LeaveRepository) Create(ctx context.Context, l *approvalDatamodel.LeaveRequest) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *LeaveRepository) GetByID(ctx context.Context, id int64) (*approvalDatamodel.LeaveRequest, error) {
	var l approvalDatamodel.LeaveRequest
	ok, err := first(r.db.WithContext(ctx), &l, "id = ?", id)
	if !ok {
		return nil, err
	}
	return &l, nil
}

func (r *LeaveRepository) LockByID(ctx context.Context, id int64) (*approvalDatamodel.LeaveRequest, error) {
	var l approvalDatamodel.LeaveRequest
	ok, err := first(forUpdate(r.db.WithContext(ctx)), &l, "id = ?", id)
	if !ok {
		return nil, err
	}
	return &l, nil
}

func (r *LeaveRepository) Decide(ctx context.Context, id, approverID int64, status approvalDatamodel.RequestStatus) error {
	return r.db.WithContext(ctx).Model(&approvalDatamodel.LeaveRequest{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"approver_id": approverID,
			"status":      status,
		}).Error
}

func (r *LeaveRepository) ListByRequester(ctx context.Context, requesterID int64) ([]*approvalDatamodel.LeaveRequest, error) {
	var leaves []*approvalDatamodel.LeaveRequest
	err := r.db.WithContext(ctx).Where("requester_id = ?", requesterID).Order("id ASC").Find(&leaves).Error
	return leaves, err
}

type SwapRepository struct {
	db *gorm.DB
}

func (r *SwapRepository) Create(ctx context.Context, s *approvalDatamodel.SwapRequest) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *SwapRepository) GetByID(ctx context.Context, id int64) (*approvalDatamodel.SwapRequest, error) {
	var s approvalDatamodel.SwapRequest
	ok, err := first(r.db.WithContext(ctx), &s, "id = ?", id)
	if !ok {
		return nil, err
	}
	return &s, nil
}

func (r *SwapRepository) LockByID(ctx context.Context, id int64) (*approvalDatamodel.SwapRequest, error) {
	var s approvalDatamodel.SwapRequest
	ok, err := first(forUpdate(r.db.WithContext(ctx)), &s, "id = ?", id)
	if !ok {
		return nil, err
	}
	return &s, nil
}

func (r *SwapRepository) UpdateStatus(ctx context.Context, id int64, status approvalDatamodel.RequestStatus) error {
	return r.db.WithContext(ctx).Model(&approvalDatamodel.SwapRequest{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *SwapRepository) ListByStatus(ctx context.Context, status approvalDatamodel.RequestStatus) ([]*approvalDatamodel.SwapRequest, error) {
	var swaps []*approvalDatamodel.SwapRequest
	err := r.db.WithContext(ctx).Where("status = ?", status).Order("id ASC").Find(&swaps).Error
	return swaps, err
}
