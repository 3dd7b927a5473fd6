package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/frahmantamala/workforce-management/internal/core/events"
	"github.com/spf13/cobra"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Event management commands",
	Long:  `Publish workflow events by hand to check the notification handlers.`,
}

var publishEventCmd = &cobra.Command{
	Use:   "publish [event-type]",
	Short: "Publish a workflow event",
	Long: `Publish one of the workflow events on the in-process bus. The notification
handler reacts exactly as it does for events raised by the API.

Supported types: ` + strings.Join(eventTypes, ", "),
	Args: cobra.ExactArgs(1),
	RunE: runWithApp(func(ctx context.Context, app *application, args []string) error {
		event, err := buildEvent(args[0])
		if err != nil {
			return err
		}
		if err := app.bus.PublishSync(ctx, event); err != nil {
			return err
		}
		fmt.Println("event published:", event.EventID())
		return nil
	}),
}

var eventTypes = []string{
	events.EventTypeLeaveDecided,
	events.EventTypeSwapRequested,
	events.EventTypeSwapDecided,
	events.EventTypePayrollGenerated,
}

var (
	eventEntityID int64
	eventFromUser int64
	eventToUser   int64
	eventActor    int64
	eventShiftID  int64
	eventStatus   string
	eventPeriod   []string
)

func buildEvent(eventType string) (events.Event, error) {
	switch eventType {
	case events.EventTypeLeaveDecided:
		return events.NewLeaveDecidedEvent(eventEntityID, eventFromUser, eventActor, eventStatus), nil
	case events.EventTypeSwapRequested:
		return events.NewSwapRequestedEvent(eventEntityID, eventShiftID, eventFromUser, eventToUser), nil
	case events.EventTypeSwapDecided:
		return events.NewSwapDecidedEvent(eventEntityID, eventShiftID, eventFromUser, eventToUser, eventActor, eventStatus), nil
	case events.EventTypePayrollGenerated:
		if len(eventPeriod) != 2 {
			return nil, fmt.Errorf("--period needs start and end dates")
		}
		var users []int64
		if eventToUser > 0 {
			users = append(users, eventToUser)
		}
		return events.NewPayrollGeneratedEvent(eventEntityID, eventActor, eventPeriod[0], eventPeriod[1], users), nil
	}
	return nil, fmt.Errorf("unknown event type %q", eventType)
}

func init() {
	f := publishEventCmd.Flags()
	f.Int64Var(&eventEntityID, "id", 1, "leave, swap or payroll run id")
	f.Int64Var(&eventFromUser, "from", 0, "requester or current shift owner")
	f.Int64Var(&eventToUser, "to", 0, "swap target or paid user")
	f.Int64Var(&eventActor, "actor", 0, "approver or payroll generator")
	f.Int64Var(&eventShiftID, "shift", 0, "shift id for swap events")
	f.StringVar(&eventStatus, "status", "approved", "decision status")
	f.StringSliceVar(&eventPeriod, "period", nil, "payroll period as start,end")

	eventCmd.AddCommand(publishEventCmd)

	rootCmd.AddCommand(eventCmd)
}
