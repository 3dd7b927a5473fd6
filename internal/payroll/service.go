package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/frahmantamala/workforce-management/internal"
	"github.com/frahmantamala/workforce-management/internal/attendance"
	payrollDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/payroll"
	"github.com/frahmantamala/workforce-management/internal/core/port"
	"github.com/frahmantamala/workforce-management/internal/rate"
	"github.com/shopspring/decimal"
)

// RateSource resolves hourly rates inside a caller's unit of work.
type RateSource interface {
	ResolveIn(ctx context.Context, tx port.Tx, userID int64, at time.Time) (*payrollDatamodel.PayRate, error)
}

type Service struct {
	store  port.Store
	rates  RateSource
	logger *slog.Logger
}

func NewService(store port.Store, rates RateSource, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		rates:  rates,
		logger: logger,
	}
}

// CreateRun opens a draft run over an inclusive date period.
func (s *Service) CreateRun(ctx context.Context, periodStart, periodEnd time.Time, generatedBy int64) (*payrollDatamodel.PayrollRun, error) {
	dto := CreateRunDTO{PeriodStart: periodStart, PeriodEnd: periodEnd, GeneratedBy: generatedBy}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	run := &payrollDatamodel.PayrollRun{
		PeriodStart: dateOf(periodStart),
		PeriodEnd:   dateOf(periodEnd),
		GeneratedBy: generatedBy,
		Status:      payrollDatamodel.RunDraft,
	}
	err := s.store.Transaction(ctx, func(tx port.Tx) error {
		u, err := tx.Users().GetByID(ctx, generatedBy)
		if err != nil {
			return err
		}
		if u == nil {
			return internal.NewNotFound("user", generatedBy, internal.ErrCodeUserNotFound)
		}
		if err := tx.PayrollRuns().Create(ctx, run); err != nil {
			return fmt.Errorf("create payroll run: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("payroll run created",
		"run_id", run.ID,
		"period_start", run.PeriodStart.Format(DateLayout),
		"period_end", run.PeriodEnd.Format(DateLayout),
		"generated_by", generatedBy)
	return run, nil
}

// GenerateLines recomputes every line of a run from the closed time logs in
// its period and marks the run approved. The run row stays locked for the
// whole computation; existing lines are replaced, so repeated calls with
// unchanged input produce the same lines.
func (s *Service) GenerateLines(ctx context.Context, runID int64) (*RunWithLines, error) {
	var result *RunWithLines
	err := s.store.Transaction(ctx, func(tx port.Tx) error {
		run, err := tx.PayrollRuns().LockByID(ctx, runID)
		if err != nil {
			return fmt.Errorf("lock payroll run: %w", err)
		}
		if run == nil {
			return internal.NewNotFound("payroll_run", runID, internal.ErrCodePayrollRunNotFound)
		}
		if run.Status == payrollDatamodel.RunApproved {
			s.logger.Warn("regenerating an approved payroll run", "run_id", run.ID)
		}

		if err := tx.PayrollLines().DeleteByRun(ctx, run.ID); err != nil {
			return fmt.Errorf("clear payroll lines: %w", err)
		}

		minutes, err := s.workedMinutesByUser(ctx, tx, run)
		if err != nil {
			return err
		}

		userIDs := make([]int64, 0, len(minutes))
		for id := range minutes {
			userIDs = append(userIDs, id)
		}
		sort.Slice(userIDs, func(i, j int) bool { return userIDs[i] < userIDs[j] })

		_, rateAt := Window(run.PeriodStart, run.PeriodEnd)
		lines := make([]*payrollDatamodel.PayrollLine, 0, len(userIDs))
		for _, userID := range userIDs {
			hourly, err := s.hourlyRate(ctx, tx, run.ID, userID, rateAt)
			if err != nil {
				return err
			}
			lines = append(lines, &payrollDatamodel.PayrollLine{
				PayrollRunID: run.ID,
				UserID:       userID,
				TotalMinutes: minutes[userID],
				GrossPay:     GrossPay(minutes[userID], hourly),
			})
		}

		if err := tx.PayrollLines().CreateBatch(ctx, lines); err != nil {
			return fmt.Errorf("insert payroll lines: %w", err)
		}
		if err := tx.PayrollRuns().UpdateStatus(ctx, run.ID, payrollDatamodel.RunApproved); err != nil {
			return fmt.Errorf("approve payroll run: %w", err)
		}
		run.Status = payrollDatamodel.RunApproved

		result = &RunWithLines{Run: run, Lines: lines}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("payroll lines generated",
		"run_id", result.Run.ID,
		"lines", len(result.Lines),
		"total", result.Total().StringFixed(2))
	return result, nil
}

func (s *Service) workedMinutesByUser(ctx context.Context, tx port.Tx, run *payrollDatamodel.PayrollRun) (map[int64]int, error) {
	from, to := Window(run.PeriodStart, run.PeriodEnd)
	logs, err := tx.TimeLogs().ListClosedBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("load time logs: %w", err)
	}

	ids := make([]int64, 0, len(logs))
	for _, l := range logs {
		ids = append(ids, l.ID)
	}
	breaks, err := tx.BreakLogs().ListByTimeLogs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load breaks: %w", err)
	}
	byLog := attendance.GroupBreaks(breaks)

	minutes := make(map[int64]int)
	for _, l := range logs {
		m := attendance.WorkedMinutes(l, byLog[l.ID])
		if m <= 0 {
			continue
		}
		minutes[l.UserID] += m
	}
	return minutes, nil
}

// hourlyRate treats a missing rate as zero so the user still gets a line.
func (s *Service) hourlyRate(ctx context.Context, tx port.Tx, runID, userID int64, at time.Time) (decimal.Decimal, error) {
	r, err := s.rates.ResolveIn(ctx, tx, userID, at)
	if errors.Is(err, rate.ErrRateNotFound) {
		s.logger.Warn("no pay rate at period end, paying zero", "run_id", runID, "user_id", userID, "at", at)
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, err
	}
	return r.HourlyRate, nil
}

func (s *Service) GetRun(ctx context.Context, runID int64) (*RunWithLines, error) {
	var result *RunWithLines
	err := s.store.Transaction(ctx, func(tx port.Tx) error {
		var err error
		result, err = s.loadRun(ctx, tx, runID)
		return err
	})
	return result, err
}

func (s *Service) loadRun(ctx context.Context, tx port.Tx, runID int64) (*RunWithLines, error) {
	run, err := tx.PayrollRuns().GetByID(ctx, runID)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, internal.NewNotFound("payroll_run", runID, internal.ErrCodePayrollRunNotFound)
	}
	lines, err := tx.PayrollLines().ListByRun(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("load payroll lines: %w", err)
	}
	return &RunWithLines{Run: run, Lines: lines}, nil
}
