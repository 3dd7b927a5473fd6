package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/workforce-management/internal/approval"
	"github.com/frahmantamala/workforce-management/internal/attendance"
	"github.com/frahmantamala/workforce-management/internal/auth"
	"github.com/frahmantamala/workforce-management/internal/notification"
	"github.com/frahmantamala/workforce-management/internal/payroll"
	"github.com/frahmantamala/workforce-management/internal/rate"
	"github.com/frahmantamala/workforce-management/internal/schedule"
	"github.com/frahmantamala/workforce-management/internal/transport"
	"github.com/frahmantamala/workforce-management/internal/transport/rest"
	"github.com/frahmantamala/workforce-management/internal/transport/swagger"
	"github.com/frahmantamala/workforce-management/internal/user"

	"github.com/go-chi/chi"
	"github.com/spf13/cobra"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

func startHTTPServer() {
	cfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	app, err := newApplication(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}
	lg := app.logger

	openAPIPath := cfg.Server.OpenAPIPath
	if openAPIPath != "" {
		if _, err := swagger.LoadSpec(context.Background(), openAPIPath); err != nil {
			lg.Warn("openapi document not served", "path", openAPIPath, "error", err)
			openAPIPath = ""
		}
	}

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, rest.RouterConfig{
		Origins:     cfg.Server.Origins(),
		OpenAPIPath: openAPIPath,
	}, newHandlers(app), lg)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	lg.Info("Starting HTTP server", "address", addr, "driver", cfg.Database.Driver)

	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		lg.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			lg.Error("Server shutdown error", "error", err)
		}
		app.Close(ctx)
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			lg.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	lg.Info("Server stopped")
}

func newHandlers(app *application) rest.Handlers {
	base := transport.NewBaseHandler(app.logger)
	return rest.Handlers{
		Health:       rest.NewHealthHandler(app.db, app.cfg.Database.Driver),
		Auth:         auth.NewHandler(base, app.auth, app.policy),
		User:         user.NewHandler(base, app.users),
		Schedule:     schedule.NewHandler(base, app.schedule),
		Attendance:   attendance.NewHandler(base, app.attendance),
		Rate:         rate.NewHandler(base, app.rates),
		Payroll:      payroll.NewHandler(base, app.payroll, app.bus),
		Approval:     approval.NewHandler(base, app.approval, app.bus),
		Notification: notification.NewHandler(base, app.notifications),
	}
}
