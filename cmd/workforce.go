package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/frahmantamala/workforce-management/internal/attendance"
	"github.com/frahmantamala/workforce-management/internal/auth"
	"github.com/frahmantamala/workforce-management/internal/core/common/validation"
	userDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/user"
	"github.com/frahmantamala/workforce-management/internal/core/events"
	"github.com/frahmantamala/workforce-management/internal/payroll"
	"github.com/frahmantamala/workforce-management/internal/schedule"
	"github.com/frahmantamala/workforce-management/internal/user"
	"github.com/spf13/cobra"
)

// runWithApp opens the application for one command and drains background
// work before the process exits.
func runWithApp(fn func(ctx context.Context, app *application, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		app, err := newApplication(cfg)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			app.Close(shutdownCtx)
		}()
		return fn(ctx, app, args)
	}
}

func parseID(name, raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", name, raw)
	}
	return id, nil
}

func (a *application) userByEmail(ctx context.Context, email string) (*user.User, error) {
	return a.users.GetByEmail(ctx, email)
}

func (a *application) publish(ctx context.Context, event events.Event) {
	if err := a.bus.Publish(ctx, event); err != nil {
		a.logger.Warn("failed to publish event", "event_type", event.EventType(), "error", err)
	}
}

// ----------------- USER -----------------

var userCLI = &cobra.Command{Use: "user", Short: "User/staff admin"}

var createStaffCmd = &cobra.Command{
	Use:   "create-staff <name> <email>",
	Short: "Create a staff member with the default password",
	Args:  cobra.ExactArgs(2),
	RunE: runWithApp(func(ctx context.Context, app *application, args []string) error {
		if _, err := app.authorize(ctx, actingAs, auth.ActionCreateUser); err != nil {
			return err
		}
		u, err := app.users.CreateUser(ctx, user.CreateUserDTO{
			Name:     args[0],
			Email:    args[1],
			Role:     string(userDatamodel.RoleStaff),
			Password: seedPassword,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Created staff: %s\n", u.Email)
		return nil
	}),
}

// ----------------- ROSTER -----------------

var rosterCLI = &cobra.Command{Use: "roster", Short: "Roster & attendance"}

var assignCmd = &cobra.Command{
	Use:   "assign <email> <start_iso> <end_iso>",
	Short: "Assign a shift",
	Args:  cobra.ExactArgs(3),
	RunE: runWithApp(func(ctx context.Context, app *application, args []string) error {
		if _, err := app.authorize(ctx, actingAs, auth.ActionAssignShift); err != nil {
			return err
		}
		owner, err := app.userByEmail(ctx, args[0])
		if err != nil {
			return err
		}
		start, verr := validation.ParseInstant("start_time", args[1])
		if verr != nil {
			return verr
		}
		end, verr := validation.ParseInstant("end_time", args[2])
		if verr != nil {
			return verr
		}
		shift, err := app.schedule.AssignShift(ctx, owner.ID, start, end)
		if err != nil {
			return err
		}
		fmt.Printf("Shift #%d for %s %s→%s\n", shift.ID, owner.Email, args[1], args[2])
		return nil
	}),
}

var viewRosterCmd = &cobra.Command{
	Use:   "view",
	Short: "List every shift ordered by start time",
	Args:  cobra.NoArgs,
	RunE: runWithApp(func(ctx context.Context, app *application, _ []string) error {
		entries, err := app.schedule.Roster(ctx, 0)
		if err != nil {
			return err
		}
		for _, e := range entries {
			fmt.Printf("#%d %s %s → %s [%s]\n", e.ID, e.UserEmail,
				e.StartTime.Format(time.RFC3339), e.EndTime.Format(time.RFC3339), e.Status)
		}
		return nil
	}),
}

var rosterOut string

var exportRosterCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the roster as an iCalendar file",
	Args:  cobra.NoArgs,
	RunE: runWithApp(func(ctx context.Context, app *application, _ []string) error {
		if _, err := app.authorize(ctx, actingAs, auth.ActionViewRoster); err != nil {
			return err
		}
		entries, err := app.schedule.Roster(ctx, 0)
		if err != nil {
			return err
		}
		f, err := os.Create(rosterOut)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := schedule.WriteICS(f, entries, time.Now().UTC()); err != nil {
			return err
		}
		fmt.Printf("Wrote %d shifts to %s\n", len(entries), rosterOut)
		return nil
	}),
}

var clockInCmd = &cobra.Command{
	Use:   "clock-in <email> <shift_id>",
	Short: "Clock in against a shift",
	Args:  cobra.ExactArgs(2),
	RunE: runWithApp(func(ctx context.Context, app *application, args []string) error {
		if _, err := app.authorize(ctx, actingAs, auth.ActionClock); err != nil {
			return err
		}
		staff, err := app.userByEmail(ctx, args[0])
		if err != nil {
			return err
		}
		shiftID, err := parseID("shift_id", args[1])
		if err != nil {
			return err
		}
		res, err := app.attendance.ClockIn(ctx, staff.ID, shiftID)
		if err != nil {
			return err
		}
		fmt.Printf("Clock-in #%d at %s\n", res.TimeLog.ID, res.TimeLog.ClockIn.Format(time.RFC3339))
		for _, f := range res.Flags {
			fmt.Printf("  flagged %s: %s\n", f.Kind, f.Reason)
		}
		return nil
	}),
}

var clockOutCmd = &cobra.Command{
	Use:   "clock-out <email> <timelog_id>",
	Short: "Close an open time log",
	Args:  cobra.ExactArgs(2),
	RunE: runWithApp(func(ctx context.Context, app *application, args []string) error {
		if _, err := app.authorize(ctx, actingAs, auth.ActionClock); err != nil {
			return err
		}
		staff, err := app.userByEmail(ctx, args[0])
		if err != nil {
			return err
		}
		logID, err := parseID("timelog_id", args[1])
		if err != nil {
			return err
		}
		res, err := app.attendance.ClockOut(ctx, staff.ID, logID)
		if err != nil {
			return err
		}
		fmt.Printf("Clock-out #%d at %s (%d minutes)\n", res.TimeLog.ID,
			res.TimeLog.ClockOut.Format(time.RFC3339), attendance.WorkedMinutes(res.TimeLog, res.Breaks))
		for _, f := range res.Flags {
			fmt.Printf("  flagged %s: %s\n", f.Kind, f.Reason)
		}
		return nil
	}),
}

// ----------------- LEAVE -----------------

var leaveCLI = &cobra.Command{Use: "leave", Short: "Leave requests"}

var leaveReason string

var leaveCreateCmd = &cobra.Command{
	Use:   "create <requester_email> <start_date> <end_date> <leave_type>",
	Short: "Request leave",
	Args:  cobra.ExactArgs(4),
	RunE: runWithApp(func(ctx context.Context, app *application, args []string) error {
		if _, err := app.authorize(ctx, actingAs, auth.ActionCreateLeave); err != nil {
			return err
		}
		requester, err := app.userByEmail(ctx, args[0])
		if err != nil {
			return err
		}
		start, verr := validation.ParseDate("start_date", args[1])
		if verr != nil {
			return verr
		}
		end, verr := validation.ParseDate("end_date", args[2])
		if verr != nil {
			return verr
		}
		lr, err := app.approval.CreateLeave(ctx, requester.ID, start, end, args[3], leaveReason)
		if err != nil {
			return err
		}
		fmt.Printf("Leave #%d [%s] %s→%s\n", lr.ID, lr.Status, args[1], args[2])
		return nil
	}),
}

var leaveDecideCmd = &cobra.Command{
	Use:   "decide <leave_id> <approver_email> <decision>",
	Short: "Approve, reject or cancel a leave request",
	Args:  cobra.ExactArgs(3),
	RunE: runWithApp(func(ctx context.Context, app *application, args []string) error {
		if _, err := app.authorize(ctx, actingAs, auth.ActionDecideLeave); err != nil {
			return err
		}
		leaveID, err := parseID("leave_id", args[0])
		if err != nil {
			return err
		}
		approver, err := app.userByEmail(ctx, args[1])
		if err != nil {
			return err
		}
		lr, err := app.approval.DecideLeave(ctx, leaveID, approver.ID, args[2])
		if err != nil {
			return err
		}
		app.publish(ctx, events.NewLeaveDecidedEvent(lr.ID, lr.RequesterID, approver.ID, string(lr.Status)))
		fmt.Printf("Leave #%d now %s\n", lr.ID, lr.Status)
		return nil
	}),
}

// ----------------- SWAP -----------------

var swapCLI = &cobra.Command{Use: "swap", Short: "Shift swaps"}

var swapNote string

var swapRequestCmd = &cobra.Command{
	Use:   "request <from_email> <shift_id> <to_email>",
	Short: "Ask another staff member to take a shift",
	Args:  cobra.ExactArgs(3),
	RunE: runWithApp(func(ctx context.Context, app *application, args []string) error {
		if _, err := app.authorize(ctx, actingAs, auth.ActionRequestSwap); err != nil {
			return err
		}
		from, err := app.userByEmail(ctx, args[0])
		if err != nil {
			return err
		}
		shiftID, err := parseID("shift_id", args[1])
		if err != nil {
			return err
		}
		to, err := app.userByEmail(ctx, args[2])
		if err != nil {
			return err
		}
		sr, err := app.approval.RequestSwap(ctx, from.ID, shiftID, to.ID, swapNote)
		if err != nil {
			return err
		}
		app.publish(ctx, events.NewSwapRequestedEvent(sr.ID, sr.ShiftID, sr.FromUserID, sr.ToUserID))
		fmt.Printf("Swap #%d from %s -> %s for shift #%d\n", sr.ID, from.Email, to.Email, shiftID)
		return nil
	}),
}

var swapDecideCmd = &cobra.Command{
	Use:   "decide <swap_id> <approver_email> <decision>",
	Short: "Approve, reject or cancel a swap request",
	Args:  cobra.ExactArgs(3),
	RunE: runWithApp(func(ctx context.Context, app *application, args []string) error {
		if _, err := app.authorize(ctx, actingAs, auth.ActionDecideSwap); err != nil {
			return err
		}
		swapID, err := parseID("swap_id", args[0])
		if err != nil {
			return err
		}
		approver, err := app.userByEmail(ctx, args[1])
		if err != nil {
			return err
		}
		sr, err := app.approval.DecideSwap(ctx, swapID, approver.ID, args[2])
		if err != nil {
			return err
		}
		app.publish(ctx, events.NewSwapDecidedEvent(sr.ID, sr.ShiftID, sr.FromUserID, sr.ToUserID, approver.ID, string(sr.Status)))
		fmt.Printf("Swap #%d now %s\n", sr.ID, sr.Status)
		return nil
	}),
}

// ----------------- NOTIFY -----------------

var notifyCLI = &cobra.Command{Use: "notify", Short: "Notifications"}

var (
	notifyChannel    string
	notifyEntityType string
	notifyEntityID   int64
)

var notifySendCmd = &cobra.Command{
	Use:   "send <recipient_email> <message>",
	Short: "Send a notification",
	Args:  cobra.ExactArgs(2),
	RunE: runWithApp(func(ctx context.Context, app *application, args []string) error {
		if _, err := app.authorize(ctx, actingAs, auth.ActionSendNotification); err != nil {
			return err
		}
		recipient, err := app.userByEmail(ctx, args[0])
		if err != nil {
			return err
		}
		var entityType *string
		var entityID *int64
		if notifyEntityType != "" {
			entityType = &notifyEntityType
		}
		if notifyEntityID > 0 {
			entityID = &notifyEntityID
		}
		n, err := app.notifications.Send(ctx, recipient.ID, args[1], notifyChannel, entityType, entityID)
		if err != nil {
			return err
		}
		fmt.Printf("Notification #%d to %s [%s]\n", n.ID, recipient.Email, n.Channel)
		return nil
	}),
}

// ----------------- PAYROLL -----------------

var payrollCLI = &cobra.Command{Use: "payroll", Short: "Payroll"}

var payrollRunCmd = &cobra.Command{
	Use:   "run <period_start> <period_end> <admin_email>",
	Short: "Create a payroll run and generate its lines",
	Args:  cobra.ExactArgs(3),
	RunE: runWithApp(func(ctx context.Context, app *application, args []string) error {
		if _, err := app.authorize(ctx, actingAs, auth.ActionRunPayroll); err != nil {
			return err
		}
		start, verr := validation.ParseDate("period_start", args[0])
		if verr != nil {
			return verr
		}
		end, verr := validation.ParseDate("period_end", args[1])
		if verr != nil {
			return verr
		}
		generator, err := app.userByEmail(ctx, args[2])
		if err != nil {
			return err
		}
		run, err := app.payroll.CreateRun(ctx, start, end, generator.ID)
		if err != nil {
			return err
		}
		result, err := app.payroll.GenerateLines(ctx, run.ID)
		if err != nil {
			return err
		}
		app.publish(ctx, events.NewPayrollGeneratedEvent(result.Run.ID, generator.ID,
			args[0], args[1], result.UserIDs()))

		fmt.Printf("Payroll #%d %s→%s status=%s\n", result.Run.ID,
			result.Run.PeriodStart.Format(payroll.DateLayout), result.Run.PeriodEnd.Format(payroll.DateLayout), result.Run.Status)
		for _, line := range result.Lines {
			email := strconv.FormatInt(line.UserID, 10)
			if u, err := app.users.GetByID(ctx, line.UserID); err == nil {
				email = u.Email
			}
			fmt.Printf("  %s: minutes=%d gross=$%s\n", email, line.TotalMinutes, line.GrossPay.StringFixed(2))
		}
		return nil
	}),
}

var payrollOut string

var payrollExportCmd = &cobra.Command{
	Use:   "export <run_id>",
	Short: "Write a payroll run to an xlsx workbook",
	Args:  cobra.ExactArgs(1),
	RunE: runWithApp(func(ctx context.Context, app *application, args []string) error {
		if _, err := app.authorize(ctx, actingAs, auth.ActionRunPayroll); err != nil {
			return err
		}
		runID, err := parseID("run_id", args[0])
		if err != nil {
			return err
		}
		buf, filename, err := app.payroll.ExportRun(ctx, runID)
		if err != nil {
			return err
		}
		out := payrollOut
		if out == "" {
			out = filename
		}
		if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
			return err
		}
		fmt.Println("Wrote", out)
		return nil
	}),
}

func init() {
	for _, c := range []*cobra.Command{userCLI, rosterCLI, leaveCLI, swapCLI, notifyCLI, payrollCLI} {
		c.PersistentFlags().StringVar(&actingAs, "as", "", "email of the acting user")
		rootCmd.AddCommand(c)
	}

	userCLI.AddCommand(createStaffCmd)

	exportRosterCmd.Flags().StringVarP(&rosterOut, "out", "o", "roster.ics", "output file")
	rosterCLI.AddCommand(assignCmd, viewRosterCmd, exportRosterCmd, clockInCmd, clockOutCmd)

	leaveCreateCmd.Flags().StringVar(&leaveReason, "reason", "", "reason for the leave")
	leaveCLI.AddCommand(leaveCreateCmd, leaveDecideCmd)

	swapRequestCmd.Flags().StringVar(&swapNote, "note", "", "note for the approver")
	swapCLI.AddCommand(swapRequestCmd, swapDecideCmd)

	notifySendCmd.Flags().StringVar(&notifyChannel, "channel", "inapp", "inapp, email, sms or push")
	notifySendCmd.Flags().StringVar(&notifyEntityType, "etype", "", "related entity type")
	notifySendCmd.Flags().Int64Var(&notifyEntityID, "eid", 0, "related entity id")
	notifyCLI.AddCommand(notifySendCmd)

	payrollExportCmd.Flags().StringVarP(&payrollOut, "out", "o", "", "output file (defaults to the generated name)")
	payrollCLI.AddCommand(payrollRunCmd, payrollExportCmd)
}
