package payroll

import (
	"bytes"
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/frahmantamala/workforce-management/internal/core/common/validation"
	payrollDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/payroll"
	"github.com/frahmantamala/workforce-management/internal/core/events"
	"github.com/frahmantamala/workforce-management/internal/transport"
)

type ServiceAPI interface {
	CreateRun(ctx context.Context, periodStart, periodEnd time.Time, generatedBy int64) (*payrollDatamodel.PayrollRun, error)
	GenerateLines(ctx context.Context, runID int64) (*RunWithLines, error)
	GetRun(ctx context.Context, runID int64) (*RunWithLines, error)
	ExportRun(ctx context.Context, runID int64) (*bytes.Buffer, string, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
	Events  events.Publisher
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI, publisher events.Publisher) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
		Events:      publisher,
	}
}

// CreateRun handles POST /payroll/runs
func (h *Handler) CreateRun(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}
	var req createRunRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}
	start, verr := validation.ParseDate("period_start", req.PeriodStart)
	if verr != nil {
		h.WriteAppError(w, verr)
		return
	}
	end, verr := validation.ParseDate("period_end", req.PeriodEnd)
	if verr != nil {
		h.WriteAppError(w, verr)
		return
	}

	run, err := h.Service.CreateRun(r.Context(), start, end, p.UserID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, (&RunWithLines{Run: run}).ToResponse())
}

// GenerateLines handles POST /payroll/runs/{id}/generate
func (h *Handler) GenerateLines(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	result, err := h.Service.GenerateLines(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	if h.Events != nil {
		event := events.NewPayrollGeneratedEvent(result.Run.ID, result.Run.GeneratedBy,
			result.Run.PeriodStart.Format(DateLayout), result.Run.PeriodEnd.Format(DateLayout), result.UserIDs())
		if err := h.Events.Publish(r.Context(), event); err != nil {
			h.Logger.Warn("failed to publish payroll event", "run_id", result.Run.ID, "error", err)
		}
	}
	h.WriteJSON(w, http.StatusOK, result.ToResponse())
}

// GetRun handles GET /payroll/runs/{id}
func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}
	result, err := h.Service.GetRun(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, result.ToResponse())
}

// ExportRun handles GET /payroll/runs/{id}/export
func (h *Handler) ExportRun(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}
	buf, filename, err := h.Service.ExportRun(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	if _, err := buf.WriteTo(w); err != nil {
		h.Logger.Error("failed to write payroll export", "run_id", id, "error", err)
	}
}
