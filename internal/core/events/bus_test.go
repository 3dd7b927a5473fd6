package events_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/frahmantamala/workforce-management/internal/core/events"
	"github.com/frahmantamala/workforce-management/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestEvents(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Event Bus Suite")
}

var _ = Describe("EventBus", func() {
	var bus *events.EventBus

	BeforeEach(func() {
		bus = events.NewEventBus(logger.Discard())
	})

	It("should deliver to every subscriber and drain", func() {
		var calls int32
		for i := 0; i < 3; i++ {
			bus.Subscribe(events.EventTypeLeaveDecided, func(ctx context.Context, e events.Event) error {
				atomic.AddInt32(&calls, 1)
				return nil
			})
		}

		Expect(bus.Publish(context.Background(), events.NewLeaveDecidedEvent(1, 2, 3, "approved"))).To(Succeed())

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		Expect(bus.Drain(ctx)).To(Succeed())
		Expect(atomic.LoadInt32(&calls)).To(Equal(int32(3)))
	})

	It("should keep handlers running after the publisher context ends", func() {
		var sawCancel atomic.Bool
		bus.Subscribe(events.EventTypeSwapDecided, func(ctx context.Context, e events.Event) error {
			sawCancel.Store(ctx.Err() != nil)
			return nil
		})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		Expect(bus.Publish(ctx, events.NewSwapDecidedEvent(1, 2, 3, 4, 5, "approved"))).To(Succeed())
		Expect(bus.Drain(context.Background())).To(Succeed())
		Expect(sawCancel.Load()).To(BeFalse())
	})

	It("should stop synchronous delivery at the first failure", func() {
		var second bool
		bus.Subscribe(events.EventTypePayrollGenerated, func(ctx context.Context, e events.Event) error {
			return errors.New("boom")
		})
		bus.Subscribe(events.EventTypePayrollGenerated, func(ctx context.Context, e events.Event) error {
			second = true
			return nil
		})

		err := bus.PublishSync(context.Background(), events.NewPayrollGeneratedEvent(1, 1, "2025-01-01", "2025-01-31", []int64{2}))
		Expect(err).To(MatchError(ContainSubstring("boom")))
		Expect(second).To(BeFalse())
	})

	It("should carry ids in the payload", func() {
		e := events.NewSwapRequestedEvent(7, 8, 9, 10)
		Expect(e.EventType()).To(Equal(events.EventTypeSwapRequested))
		Expect(e.EventID()).NotTo(BeEmpty())
		Expect(e.Payload()).To(HaveKeyWithValue("shift_id", int64(8)))
	})
})
