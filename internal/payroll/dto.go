package payroll

import (
	"time"

	"github.com/frahmantamala/workforce-management/internal/core/common/validation"
	payrollDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/payroll"
)

type CreateRunDTO struct {
	PeriodStart time.Time
	PeriodEnd   time.Time
	GeneratedBy int64
}

func (d CreateRunDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("period_start", d.PeriodStart).Required()
	v.Field("period_end", d.PeriodEnd).Required()
	v.Field("generated_by", d.GeneratedBy).Required()
	if err := v.Validate(); err != nil {
		return err
	}
	if err := validation.ValidateRange("period_end", dateOf(d.PeriodStart), dateOf(d.PeriodEnd), false); err != nil {
		return err
	}
	return nil
}

type createRunRequest struct {
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
}

type LineResponse struct {
	UserID       int64  `json:"user_id"`
	TotalMinutes int    `json:"total_minutes"`
	GrossPay     string `json:"gross_pay"`
}

type RunResponse struct {
	ID          int64                      `json:"id"`
	PeriodStart string                     `json:"period_start"`
	PeriodEnd   string                     `json:"period_end"`
	GeneratedBy int64                      `json:"generated_by"`
	Status      payrollDatamodel.RunStatus `json:"status"`
	Total       string                     `json:"total"`
	Lines       []LineResponse             `json:"lines"`
}

func (r *RunWithLines) ToResponse() RunResponse {
	resp := RunResponse{
		ID:          r.Run.ID,
		PeriodStart: r.Run.PeriodStart.Format(DateLayout),
		PeriodEnd:   r.Run.PeriodEnd.Format(DateLayout),
		GeneratedBy: r.Run.GeneratedBy,
		Status:      r.Run.Status,
		Total:       r.Total().StringFixed(2),
		Lines:       make([]LineResponse, 0, len(r.Lines)),
	}
	for _, l := range r.Lines {
		resp.Lines = append(resp.Lines, LineResponse{
			UserID:       l.UserID,
			TotalMinutes: l.TotalMinutes,
			GrossPay:     l.GrossPay.StringFixed(2),
		})
	}
	return resp
}
