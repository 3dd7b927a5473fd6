package rest

import (
	"log/slog"

	"github.com/frahmantamala/workforce-management/internal/approval"
	"github.com/frahmantamala/workforce-management/internal/attendance"
	"github.com/frahmantamala/workforce-management/internal/auth"
	"github.com/frahmantamala/workforce-management/internal/notification"
	"github.com/frahmantamala/workforce-management/internal/payroll"
	"github.com/frahmantamala/workforce-management/internal/rate"
	"github.com/frahmantamala/workforce-management/internal/schedule"
	"github.com/frahmantamala/workforce-management/internal/transport/middleware"
	"github.com/frahmantamala/workforce-management/internal/transport/swagger"
	"github.com/frahmantamala/workforce-management/internal/user"
	"github.com/go-chi/chi"
)

// Handlers groups the HTTP handlers mounted under /api/v1. Nil entries are
// skipped.
type Handlers struct {
	Health       *HealthHandler
	Auth         *auth.Handler
	User         *user.Handler
	Schedule     *schedule.Handler
	Attendance   *attendance.Handler
	Rate         *rate.Handler
	Payroll      *payroll.Handler
	Approval     *approval.Handler
	Notification *notification.Handler
}

type RouterConfig struct {
	Origins     []string
	OpenAPIPath string
}

func RegisterAllRoutes(router *chi.Mux, cfg RouterConfig, h Handlers, logger *slog.Logger) {
	router.Use(middleware.RequestID)
	router.Use(middleware.CORS(cfg.Origins))
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	if cfg.OpenAPIPath != "" {
		router.Get(swagger.SpecRoute, swagger.SpecHandler(cfg.OpenAPIPath))
		router.Handle("/swagger/*", swagger.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		if h.Health != nil {
			r.Get("/health", h.Health.Health)
			r.Get("/ping", h.Health.Ping)
		}

		if h.Auth == nil {
			return
		}
		r.Route("/auth", func(ar chi.Router) {
			ar.Post("/login", h.Auth.Login)
			ar.Post("/refresh", h.Auth.RefreshToken)
		})

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)
			can := h.Auth.Require

			if h.User != nil {
				pr.Get("/users/me", h.User.GetCurrentUser)
				pr.With(can(auth.ActionListUsers)).Get("/users", h.User.ListUsers)
				pr.With(can(auth.ActionCreateUser)).Post("/users", h.User.CreateUser)
			}

			if h.Schedule != nil {
				pr.With(can(auth.ActionViewRoster)).Get("/roster", h.Schedule.ViewRoster)
				pr.With(can(auth.ActionViewRoster)).Get("/roster.ics", h.Schedule.ExportRoster)
				pr.With(can(auth.ActionViewRoster)).Get("/shifts/{id}", h.Schedule.GetShift)
				pr.With(can(auth.ActionAssignShift)).Post("/shifts", h.Schedule.AssignShift)
			}

			if h.Attendance != nil {
				pr.Group(func(cr chi.Router) {
					cr.Use(can(auth.ActionClock))
					cr.Post("/timelogs", h.Attendance.ClockIn)
					cr.Get("/timelogs/{id}", h.Attendance.GetTimeLog)
					cr.Post("/timelogs/{id}/clock-out", h.Attendance.ClockOut)
					cr.Post("/timelogs/{id}/breaks", h.Attendance.StartBreak)
					cr.Post("/breaks/{id}/end", h.Attendance.EndBreak)
				})
				pr.With(can(auth.ActionViewFlags)).Get("/shifts/{id}/flags", h.Attendance.ListFlags)
			}

			if h.Rate != nil {
				pr.Group(func(rr chi.Router) {
					rr.Use(can(auth.ActionManageRates))
					rr.Get("/rates/resolve", h.Rate.ResolveRate)
					rr.Post("/rates", h.Rate.SetRate)
					rr.Get("/users/{id}/rates", h.Rate.ListRates)
				})
			}

			if h.Payroll != nil {
				pr.Route("/payroll/runs", func(pr chi.Router) {
					pr.Use(can(auth.ActionRunPayroll))
					pr.Post("/", h.Payroll.CreateRun)
					pr.Get("/{id}", h.Payroll.GetRun)
					pr.Post("/{id}/generate", h.Payroll.GenerateLines)
					pr.Get("/{id}/export", h.Payroll.ExportRun)
				})
			}

			if h.Approval != nil {
				pr.With(can(auth.ActionCreateLeave)).Post("/leaves", h.Approval.CreateLeave)
				pr.With(can(auth.ActionCreateLeave)).Get("/leaves", h.Approval.ListLeaves)
				pr.With(can(auth.ActionDecideLeave)).Post("/leaves/{id}/decision", h.Approval.DecideLeave)
				pr.With(can(auth.ActionRequestSwap)).Post("/swaps", h.Approval.RequestSwap)
				pr.With(can(auth.ActionDecideSwap)).Get("/swaps", h.Approval.ListSwaps)
				pr.With(can(auth.ActionDecideSwap)).Post("/swaps/{id}/decision", h.Approval.DecideSwap)
			}

			if h.Notification != nil {
				pr.With(can(auth.ActionReadNotification)).Get("/notifications", h.Notification.List)
				pr.With(can(auth.ActionReadNotification)).Post("/notifications/{id}/read", h.Notification.MarkRead)
				pr.With(can(auth.ActionSendNotification)).Post("/notifications", h.Notification.Send)
			}
		})
	})
}
