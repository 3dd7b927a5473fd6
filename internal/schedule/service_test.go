package schedule_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/frahmantamala/workforce-management/internal"
	scheduleDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/schedule"
	userDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/user"
	"github.com/frahmantamala/workforce-management/internal/core/port"
	"github.com/frahmantamala/workforce-management/internal/schedule"
	"github.com/frahmantamala/workforce-management/internal/store/storetest"
	"github.com/frahmantamala/workforce-management/internal/transport"
	"github.com/frahmantamala/workforce-management/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestSchedule(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Schedule Suite")
}

var _ = Describe("Schedule Service", func() {
	var (
		service *schedule.Service
		ctx     context.Context
		staff   *userDatamodel.User
	)

	BeforeEach(func() {
		store, err := storetest.NewMemoryStore()
		Expect(err).NotTo(HaveOccurred())
		service = schedule.NewService(store, logger.Discard())
		ctx = context.Background()

		staff = &userDatamodel.User{Name: "Staff 1", Email: "staff1@example.com", Role: userDatamodel.RoleStaff}
		Expect(store.Transaction(ctx, func(tx port.Tx) error {
			return tx.Users().Create(ctx, staff)
		})).To(Succeed())
	})

	Describe("AssignShift", func() {
		It("should create a scheduled shift dated by its start", func() {
			start := time.Date(2025, 1, 3, 22, 0, 0, 0, time.UTC)
			shift, err := service.AssignShift(ctx, staff.ID, start, start.Add(8*time.Hour))
			Expect(err).NotTo(HaveOccurred())
			Expect(shift.Status).To(Equal(scheduleDatamodel.ShiftScheduled))
			Expect(shift.WorkDate.Format("2006-01-02")).To(Equal("2025-01-03"))
		})

		It("should date the shift by the start's own offset", func() {
			start := time.Date(2025, 1, 2, 8, 0, 0, 0, time.FixedZone("AEST", 10*60*60))
			shift, err := service.AssignShift(ctx, staff.ID, start, start.Add(8*time.Hour))
			Expect(err).NotTo(HaveOccurred())
			Expect(shift.WorkDate.Format("2006-01-02")).To(Equal("2025-01-02"))
			Expect(shift.StartTime.Format(time.RFC3339)).To(Equal("2025-01-01T22:00:00Z"))
		})

		It("should return NotFound for an unknown user", func() {
			start := time.Date(2025, 1, 3, 9, 0, 0, 0, time.UTC)
			_, err := service.AssignShift(ctx, 999, start, start.Add(time.Hour))
			Expect(internal.KindOf(err)).To(Equal(internal.ErrorTypeNotFound))
		})

		It("should reject an end that does not follow the start", func() {
			start := time.Date(2025, 1, 3, 9, 0, 0, 0, time.UTC)
			_, err := service.AssignShift(ctx, staff.ID, start, start)
			Expect(internal.KindOf(err)).To(Equal(internal.ErrorTypeInvalidRange))
		})

		It("should allow overlapping shifts for the same user", func() {
			start := time.Date(2025, 1, 3, 9, 0, 0, 0, time.UTC)
			_, err := service.AssignShift(ctx, staff.ID, start, start.Add(8*time.Hour))
			Expect(err).NotTo(HaveOccurred())
			_, err = service.AssignShift(ctx, staff.ID, start.Add(time.Hour), start.Add(4*time.Hour))
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("ViewRoster", func() {
		It("should order shifts by start time", func() {
			day2 := time.Date(2025, 1, 4, 9, 0, 0, 0, time.UTC)
			day1 := time.Date(2025, 1, 3, 9, 0, 0, 0, time.UTC)
			_, err := service.AssignShift(ctx, staff.ID, day2, day2.Add(8*time.Hour))
			Expect(err).NotTo(HaveOccurred())
			_, err = service.AssignShift(ctx, staff.ID, day1, day1.Add(8*time.Hour))
			Expect(err).NotTo(HaveOccurred())

			shifts, err := service.ViewRoster(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(shifts).To(HaveLen(2))
			Expect(shifts[0].StartTime.Equal(day1)).To(BeTrue())

			entries, err := service.Roster(ctx, staff.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries[1].UserEmail).To(Equal("staff1@example.com"))
		})
	})

	Describe("WriteICS", func() {
		It("should emit one event per shift", func() {
			start := time.Date(2025, 1, 3, 9, 0, 0, 0, time.UTC)
			_, err := service.AssignShift(ctx, staff.ID, start, start.Add(8*time.Hour))
			Expect(err).NotTo(HaveOccurred())
			entries, err := service.Roster(ctx, 0)
			Expect(err).NotTo(HaveOccurred())

			var buf bytes.Buffer
			Expect(schedule.WriteICS(&buf, entries, start)).To(Succeed())

			cal, err := ics.ParseCalendar(strings.NewReader(buf.String()))
			Expect(err).NotTo(HaveOccurred())
			Expect(cal.Events()).To(HaveLen(1))
			Expect(cal.Events()[0].GetProperty(ics.ComponentPropertySummary).Value).To(ContainSubstring("Staff 1"))
		})
	})

	Describe("Handler", func() {
		It("should reject a malformed start time", func() {
			handler := schedule.NewHandler(transport.NewBaseHandler(logger.Discard()), service)
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/shifts",
				strings.NewReader(`{"user_id":1,"start_time":"tomorrow","end_time":"2025-01-03T17:00:00"}`))
			handler.AssignShift(rec, req)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})

		It("should serve the roster as calendar data", func() {
			start := time.Date(2025, 1, 3, 9, 0, 0, 0, time.UTC)
			_, err := service.AssignShift(ctx, staff.ID, start, start.Add(8*time.Hour))
			Expect(err).NotTo(HaveOccurred())

			handler := schedule.NewHandler(transport.NewBaseHandler(logger.Discard()), service)
			rec := httptest.NewRecorder()
			handler.ExportRoster(rec, httptest.NewRequest(http.MethodGet, "/api/v1/roster.ics", nil))
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Header().Get("Content-Type")).To(HavePrefix("text/calendar"))
			Expect(rec.Body.String()).To(ContainSubstring("BEGIN:VEVENT"))
		})
	})
})
