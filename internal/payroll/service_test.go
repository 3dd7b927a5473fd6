package payroll_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/frahmantamala/workforce-management/internal"
	attendanceDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/attendance"
	payrollDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/payroll"
	scheduleDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/schedule"
	userDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/user"
	"github.com/frahmantamala/workforce-management/internal/core/port"
	"github.com/frahmantamala/workforce-management/internal/payroll"
	"github.com/frahmantamala/workforce-management/internal/rate"
	"github.com/frahmantamala/workforce-management/internal/store/postgres"
	"github.com/frahmantamala/workforce-management/internal/store/storetest"
	"github.com/frahmantamala/workforce-management/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

func TestPayroll(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Payroll Engine Suite")
}

func day(d, hour, minute int) time.Time {
	return time.Date(2025, 1, d, hour, minute, 0, 0, time.UTC)
}

func ptr(t time.Time) *time.Time { return &t }

// failingStore wraps a real store and makes run status updates fail, so
// GenerateLines errors after its lines are already written.
type failingStore struct {
	inner port.Store
}

func (s failingStore) Transaction(ctx context.Context, fn func(tx port.Tx) error) error {
	return s.inner.Transaction(ctx, func(tx port.Tx) error {
		return fn(failingTx{Tx: tx})
	})
}

type failingTx struct {
	port.Tx
}

func (t failingTx) PayrollRuns() port.PayrollRunRepository {
	return failingRuns{PayrollRunRepository: t.Tx.PayrollRuns()}
}

type failingRuns struct {
	port.PayrollRunRepository
}

func (failingRuns) UpdateStatus(ctx context.Context, id int64, status payrollDatamodel.RunStatus) error {
	return errors.New("disk full")
}

var _ = Describe("GrossPay", func() {
	It("should compute 450 minutes at 20.00 as 150.00", func() {
		Expect(payroll.GrossPay(450, decimal.RequireFromString("20.00")).StringFixed(2)).To(Equal("150.00"))
	})

	It("should round half up to cents", func() {
		// 1 minute at 0.30/h is 0.005
		Expect(payroll.GrossPay(1, decimal.RequireFromString("0.30")).StringFixed(2)).To(Equal("0.01"))
		Expect(payroll.GrossPay(7, decimal.RequireFromString("13.33")).StringFixed(2)).To(Equal("1.56"))
	})

	It("should be zero for no minutes", func() {
		Expect(payroll.GrossPay(0, decimal.RequireFromString("20.00")).IsZero()).To(BeTrue())
	})
})

var _ = Describe("Window", func() {
	It("should span whole days inclusively", func() {
		from, to := payroll.Window(day(1, 15, 0), day(31, 8, 0))
		Expect(from).To(Equal(day(1, 0, 0)))
		Expect(to).To(Equal(time.Date(2025, 1, 31, 23, 59, 59, 999999000, time.UTC)))
	})
})

var _ = Describe("Payroll Service", func() {
	var (
		store   *postgres.Store
		service *payroll.Service
		ctx     context.Context
		hr      *userDatamodel.User
		staff1  *userDatamodel.User
		staff2  *userDatamodel.User
	)

	seedLog := func(user *userDatamodel.User, in, out time.Time, breaks ...[2]time.Time) {
		Expect(store.Transaction(ctx, func(tx port.Tx) error {
			shift := &scheduleDatamodel.Shift{UserID: user.ID, WorkDate: day(in.Day(), 0, 0), StartTime: in, EndTime: out, Status: scheduleDatamodel.ShiftCompleted}
			if err := tx.Shifts().Create(ctx, shift); err != nil {
				return err
			}
			log := &attendanceDatamodel.TimeLog{ShiftID: shift.ID, UserID: user.ID, ClockIn: in, ClockOut: ptr(out), Source: attendanceDatamodel.SourceApp}
			if err := tx.TimeLogs().Create(ctx, log); err != nil {
				return err
			}
			for _, b := range breaks {
				if err := tx.BreakLogs().Create(ctx, &attendanceDatamodel.BreakLog{TimeLogID: log.ID, BreakStart: b[0], BreakEnd: ptr(b[1])}); err != nil {
					return err
				}
			}
			return nil
		})).To(Succeed())
	}

	seedRate := func(user *userDatamodel.User, amount string, from time.Time, to *time.Time) {
		Expect(store.Transaction(ctx, func(tx port.Tx) error {
			return tx.PayRates().Create(ctx, &payrollDatamodel.PayRate{
				UserID:        user.ID,
				HourlyRate:    decimal.RequireFromString(amount),
				EffectiveFrom: from,
				EffectiveTo:   to,
			})
		})).To(Succeed())
	}

	BeforeEach(func() {
		var err error
		store, err = storetest.NewMemoryStore()
		Expect(err).NotTo(HaveOccurred())
		ctx = context.Background()
		service = payroll.NewService(store, rate.NewResolver(store, logger.Discard()), logger.Discard())

		hr = &userDatamodel.User{Name: "HR Clerk", Email: "hr@example.com", Role: userDatamodel.RoleHR}
		staff1 = &userDatamodel.User{Name: "Staff 1", Email: "staff1@example.com", Role: userDatamodel.RoleStaff}
		staff2 = &userDatamodel.User{Name: "Staff 2", Email: "staff2@example.com", Role: userDatamodel.RoleStaff}
		Expect(store.Transaction(ctx, func(tx port.Tx) error {
			for _, u := range []*userDatamodel.User{hr, staff1, staff2} {
				if err := tx.Users().Create(ctx, u); err != nil {
					return err
				}
			}
			return nil
		})).To(Succeed())
	})

	Describe("CreateRun", func() {
		It("should create a draft run", func() {
			run, err := service.CreateRun(ctx, day(1, 0, 0), day(31, 0, 0), hr.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(run.Status).To(Equal(payrollDatamodel.RunDraft))
		})

		It("should accept a single-day period", func() {
			_, err := service.CreateRun(ctx, day(3, 0, 0), day(3, 0, 0), hr.ID)
			Expect(err).NotTo(HaveOccurred())
		})

		It("should reject an end before the start", func() {
			_, err := service.CreateRun(ctx, day(31, 0, 0), day(1, 0, 0), hr.ID)
			Expect(internal.KindOf(err)).To(Equal(internal.ErrorTypeInvalidRange))
		})

		It("should return NotFound for an unknown generator", func() {
			_, err := service.CreateRun(ctx, day(1, 0, 0), day(31, 0, 0), 404)
			Expect(internal.KindOf(err)).To(Equal(internal.ErrorTypeNotFound))
		})
	})

	Describe("GenerateLines", func() {
		var run *payrollDatamodel.PayrollRun

		BeforeEach(func() {
			var err error
			run, err = service.CreateRun(ctx, day(1, 0, 0), day(31, 0, 0), hr.ID)
			Expect(err).NotTo(HaveOccurred())
		})

		It("should pay 450 worked minutes at 20.00 as 150.00", func() {
			seedRate(staff1, "20.00", day(1, 0, 0), nil)
			seedLog(staff1, day(3, 9, 0), day(3, 17, 0), [2]time.Time{day(3, 12, 0), day(3, 12, 30)})

			result, err := service.GenerateLines(ctx, run.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Run.Status).To(Equal(payrollDatamodel.RunApproved))
			Expect(result.Lines).To(HaveLen(1))
			Expect(result.Lines[0].UserID).To(Equal(staff1.ID))
			Expect(result.Lines[0].TotalMinutes).To(Equal(450))
			Expect(result.Lines[0].GrossPay.StringFixed(2)).To(Equal("150.00"))
		})

		It("should produce identical lines when run again", func() {
			seedRate(staff1, "20.00", day(1, 0, 0), nil)
			seedLog(staff1, day(3, 9, 0), day(3, 17, 0), [2]time.Time{day(3, 12, 0), day(3, 12, 30)})

			first, err := service.GenerateLines(ctx, run.ID)
			Expect(err).NotTo(HaveOccurred())
			second, err := service.GenerateLines(ctx, run.ID)
			Expect(err).NotTo(HaveOccurred())

			stored, err := service.GetRun(ctx, run.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Lines).To(HaveLen(1))
			Expect(second.Lines[0].TotalMinutes).To(Equal(first.Lines[0].TotalMinutes))
			Expect(stored.Lines[0].GrossPay.StringFixed(2)).To(Equal(first.Lines[0].GrossPay.StringFixed(2)))
		})

		It("should replace lines rather than merge them when logs change", func() {
			seedRate(staff1, "20.00", day(1, 0, 0), nil)
			seedLog(staff1, day(3, 9, 0), day(3, 17, 0))

			first, err := service.GenerateLines(ctx, run.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(first.Lines[0].TotalMinutes).To(Equal(480))

			Expect(store.DB().Model(&attendanceDatamodel.TimeLog{}).
				Where("user_id = ?", staff1.ID).
				Update("clock_out", day(3, 10, 0)).Error).To(Succeed())

			second, err := service.GenerateLines(ctx, run.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(second.Lines).To(HaveLen(1))
			Expect(second.Lines[0].TotalMinutes).To(Equal(60))
			Expect(second.Lines[0].GrossPay.StringFixed(2)).To(Equal("20.00"))

			stored, err := service.GetRun(ctx, run.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Lines).To(HaveLen(1))
			Expect(stored.Lines[0].TotalMinutes).To(Equal(60))
			Expect(stored.Lines[0].GrossPay.StringFixed(2)).To(Equal("20.00"))
		})

		It("should keep the earlier lines when regeneration fails", func() {
			seedRate(staff1, "20.00", day(1, 0, 0), nil)
			seedLog(staff1, day(3, 9, 0), day(3, 17, 0))

			_, err := service.GenerateLines(ctx, run.ID)
			Expect(err).NotTo(HaveOccurred())

			Expect(store.DB().Model(&attendanceDatamodel.TimeLog{}).
				Where("user_id = ?", staff1.ID).
				Update("clock_out", day(3, 10, 0)).Error).To(Succeed())

			broken := payroll.NewService(failingStore{inner: store}, rate.NewResolver(store, logger.Discard()), logger.Discard())
			_, err = broken.GenerateLines(ctx, run.ID)
			Expect(err).To(MatchError(ContainSubstring("disk full")))

			stored, err := service.GetRun(ctx, run.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Run.Status).To(Equal(payrollDatamodel.RunApproved))
			Expect(stored.Lines).To(HaveLen(1))
			Expect(stored.Lines[0].TotalMinutes).To(Equal(480))
			Expect(stored.Lines[0].GrossPay.StringFixed(2)).To(Equal("160.00"))

			again, err := service.GenerateLines(ctx, run.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(again.Lines).To(HaveLen(1))
			Expect(again.Lines[0].TotalMinutes).To(Equal(60))
			Expect(again.Lines[0].GrossPay.StringFixed(2)).To(Equal("20.00"))
		})

		It("should leave a draft run untouched when generation fails", func() {
			seedRate(staff1, "20.00", day(1, 0, 0), nil)
			seedLog(staff1, day(3, 9, 0), day(3, 10, 0))

			broken := payroll.NewService(failingStore{inner: store}, rate.NewResolver(store, logger.Discard()), logger.Discard())
			_, err := broken.GenerateLines(ctx, run.ID)
			Expect(err).To(HaveOccurred())

			stored, err := service.GetRun(ctx, run.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Run.Status).To(Equal(payrollDatamodel.RunDraft))
			Expect(stored.Lines).To(BeEmpty())
		})

		It("should sum logs per user and order lines by user", func() {
			seedRate(staff1, "20.00", day(1, 0, 0), nil)
			seedRate(staff2, "30.00", day(1, 0, 0), nil)
			seedLog(staff2, day(4, 9, 0), day(4, 10, 0))
			seedLog(staff1, day(3, 9, 0), day(3, 10, 0))
			seedLog(staff1, day(5, 9, 0), day(5, 9, 30))

			result, err := service.GenerateLines(ctx, run.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Lines).To(HaveLen(2))
			Expect(result.Lines[0].UserID).To(Equal(staff1.ID))
			Expect(result.Lines[0].TotalMinutes).To(Equal(90))
			Expect(result.Lines[0].GrossPay.StringFixed(2)).To(Equal("30.00"))
			Expect(result.Lines[1].GrossPay.StringFixed(2)).To(Equal("30.00"))
			Expect(result.Total().StringFixed(2)).To(Equal("60.00"))
		})

		It("should ignore logs outside the period", func() {
			seedRate(staff1, "20.00", day(1, 0, 0), nil)
			seedLog(staff1, time.Date(2024, 12, 31, 22, 0, 0, 0, time.UTC), day(1, 2, 0))
			seedLog(staff1, time.Date(2025, 1, 31, 22, 0, 0, 0, time.UTC), time.Date(2025, 2, 1, 2, 0, 0, 0, time.UTC))

			result, err := service.GenerateLines(ctx, run.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Lines).To(BeEmpty())
		})

		It("should apply the rate in force at the period end", func() {
			seedRate(staff1, "20.00", day(1, 0, 0), ptr(day(14, 23, 59)))
			seedRate(staff1, "24.00", day(15, 0, 0), nil)
			seedLog(staff1, day(3, 9, 0), day(3, 10, 0))

			result, err := service.GenerateLines(ctx, run.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Lines[0].GrossPay.StringFixed(2)).To(Equal("24.00"))
		})

		It("should pay zero when no rate covers the period end", func() {
			seedLog(staff2, day(3, 9, 0), day(3, 10, 0))

			result, err := service.GenerateLines(ctx, run.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Lines).To(HaveLen(1))
			Expect(result.Lines[0].TotalMinutes).To(Equal(60))
			Expect(result.Lines[0].GrossPay.IsZero()).To(BeTrue())
		})

		It("should skip logs that net to zero minutes", func() {
			seedRate(staff1, "20.00", day(1, 0, 0), nil)
			seedLog(staff1, day(3, 9, 0), day(3, 9, 0).Add(45*time.Second))

			result, err := service.GenerateLines(ctx, run.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Lines).To(BeEmpty())
		})

		It("should return NotFound for an unknown run", func() {
			_, err := service.GenerateLines(ctx, 9999)
			Expect(internal.KindOf(err)).To(Equal(internal.ErrorTypeNotFound))
		})
	})

	Describe("ExportRun", func() {
		It("should write one row per line plus a total", func() {
			seedRate(staff1, "20.00", day(1, 0, 0), nil)
			seedLog(staff1, day(3, 9, 0), day(3, 17, 0), [2]time.Time{day(3, 12, 0), day(3, 12, 30)})
			run, err := service.CreateRun(ctx, day(1, 0, 0), day(31, 0, 0), hr.ID)
			Expect(err).NotTo(HaveOccurred())
			_, err = service.GenerateLines(ctx, run.ID)
			Expect(err).NotTo(HaveOccurred())

			buf, filename, err := service.ExportRun(ctx, run.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(filename).To(HaveSuffix(".xlsx"))

			f, err := excelize.OpenReader(buf)
			Expect(err).NotTo(HaveOccurred())
			defer f.Close()
			email, err := f.GetCellValue("Payroll", "C3")
			Expect(err).NotTo(HaveOccurred())
			Expect(email).To(Equal("staff1@example.com"))
			gross, err := f.GetCellValue("Payroll", "E3")
			Expect(err).NotTo(HaveOccurred())
			Expect(gross).To(Equal("150.00"))
			total, err := f.GetCellValue("Payroll", "E4")
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal("150.00"))
		})
	})
})
