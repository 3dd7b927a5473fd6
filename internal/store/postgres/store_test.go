package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	approvalDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/approval"
	attendanceDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/attendance"
	notificationDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/notification"
	payrollDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/payroll"
	scheduleDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/schedule"
	userDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/user"
	"github.com/frahmantamala/workforce-management/internal/core/port"
	"github.com/frahmantamala/workforce-management/internal/store/postgres"
	"github.com/frahmantamala/workforce-management/internal/store/storetest"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
)

func TestStorePostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Store Postgres Suite")
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var _ = Describe("Store", func() {
	var (
		store *postgres.Store
		ctx   context.Context
	)

	BeforeEach(func() {
		var err error
		store, err = storetest.NewMemoryStore()
		Expect(err).NotTo(HaveOccurred())
		ctx = context.Background()
	})

	createUser := func(email string) *userDatamodel.User {
		u := &userDatamodel.User{Name: email, Email: email, Role: userDatamodel.RoleStaff}
		Expect(store.Transaction(ctx, func(tx port.Tx) error {
			return tx.Users().Create(ctx, u)
		})).To(Succeed())
		return u
	}

	Describe("Transaction", func() {
		It("should roll back every write when fn fails", func() {
			boom := errors.New("boom")
			err := store.Transaction(ctx, func(tx port.Tx) error {
				if err := tx.Users().Create(ctx, &userDatamodel.User{Name: "a", Email: "a@x.io", Role: userDatamodel.RoleStaff}); err != nil {
					return err
				}
				return boom
			})
			Expect(err).To(MatchError(boom))

			Expect(store.Transaction(ctx, func(tx port.Tx) error {
				u, err := tx.Users().GetByEmail(ctx, "a@x.io")
				Expect(u).To(BeNil())
				return err
			})).To(Succeed())
		})

		It("should reject a duplicate email", func() {
			createUser("dup@x.io")
			err := store.Transaction(ctx, func(tx port.Tx) error {
				return tx.Users().Create(ctx, &userDatamodel.User{Name: "b", Email: "dup@x.io", Role: userDatamodel.RoleStaff})
			})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("ShiftRepository", func() {
		It("should list shifts by start time and filter by user", func() {
			u1 := createUser("u1@x.io")
			u2 := createUser("u2@x.io")
			late := time.Date(2025, 1, 2, 9, 0, 0, 0, time.UTC)
			early := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)

			Expect(store.Transaction(ctx, func(tx port.Tx) error {
				for _, s := range []*scheduleDatamodel.Shift{
					{UserID: u1.ID, WorkDate: day(2025, 1, 2), StartTime: late, EndTime: late.Add(8 * time.Hour), Status: scheduleDatamodel.ShiftScheduled},
					{UserID: u2.ID, WorkDate: day(2025, 1, 1), StartTime: early, EndTime: early.Add(8 * time.Hour), Status: scheduleDatamodel.ShiftScheduled},
				} {
					if err := tx.Shifts().Create(ctx, s); err != nil {
						return err
					}
				}
				return nil
			})).To(Succeed())

			Expect(store.Transaction(ctx, func(tx port.Tx) error {
				all, err := tx.Shifts().ListOrdered(ctx, 0)
				Expect(err).NotTo(HaveOccurred())
				Expect(all).To(HaveLen(2))
				Expect(all[0].UserID).To(Equal(u2.ID))

				mine, err := tx.Shifts().ListOrdered(ctx, u1.ID)
				Expect(err).NotTo(HaveOccurred())
				Expect(mine).To(HaveLen(1))
				Expect(mine[0].StartTime.Equal(late)).To(BeTrue())
				return nil
			})).To(Succeed())
		})
	})

	Describe("TimeLogRepository", func() {
		It("should return only closed logs inside the window", func() {
			u := createUser("t@x.io")
			in := time.Date(2025, 1, 3, 9, 0, 0, 0, time.UTC)
			out := in.Add(8 * time.Hour)
			outside := time.Date(2025, 1, 8, 9, 0, 0, 0, time.UTC)
			outsideOut := outside.Add(time.Hour)

			Expect(store.Transaction(ctx, func(tx port.Tx) error {
				for _, l := range []*attendanceDatamodel.TimeLog{
					{ShiftID: 1, UserID: u.ID, ClockIn: in, ClockOut: &out, Source: attendanceDatamodel.SourceApp},
					{ShiftID: 2, UserID: u.ID, ClockIn: in, Source: attendanceDatamodel.SourceApp},
					{ShiftID: 3, UserID: u.ID, ClockIn: outside, ClockOut: &outsideOut, Source: attendanceDatamodel.SourceApp},
				} {
					if err := tx.TimeLogs().Create(ctx, l); err != nil {
						return err
					}
				}
				return nil
			})).To(Succeed())

			end := day(2025, 1, 7).Add(24*time.Hour - time.Microsecond)
			Expect(store.Transaction(ctx, func(tx port.Tx) error {
				logs, err := tx.TimeLogs().ListClosedBetween(ctx, day(2025, 1, 1), end)
				Expect(err).NotTo(HaveOccurred())
				Expect(logs).To(HaveLen(1))
				Expect(logs[0].ShiftID).To(Equal(int64(1)))
				return nil
			})).To(Succeed())
		})
	})

	Describe("PayRateRepository", func() {
		It("should list covering rates newest first", func() {
			u := createUser("r@x.io")
			jan31 := day(2025, 1, 31)
			Expect(store.Transaction(ctx, func(tx port.Tx) error {
				for _, r := range []*payrollDatamodel.PayRate{
					{UserID: u.ID, HourlyRate: decimal.RequireFromString("20.00"), EffectiveFrom: day(2025, 1, 1), EffectiveTo: &jan31},
					{UserID: u.ID, HourlyRate: decimal.RequireFromString("25.00"), EffectiveFrom: day(2025, 2, 1)},
				} {
					if err := tx.PayRates().Create(ctx, r); err != nil {
						return err
					}
				}
				return nil
			})).To(Succeed())

			Expect(store.Transaction(ctx, func(tx port.Tx) error {
				rates, err := tx.PayRates().ListCovering(ctx, u.ID, day(2025, 1, 15))
				Expect(err).NotTo(HaveOccurred())
				Expect(rates).To(HaveLen(1))
				Expect(rates[0].HourlyRate.StringFixed(2)).To(Equal("20.00"))

				rates, err = tx.PayRates().ListCovering(ctx, u.ID, day(2024, 12, 31))
				Expect(err).NotTo(HaveOccurred())
				Expect(rates).To(BeEmpty())
				return nil
			})).To(Succeed())
		})
	})

	Describe("PayrollLineRepository", func() {
		It("should replace lines of a run", func() {
			u := createUser("p@x.io")
			run := &payrollDatamodel.PayrollRun{PeriodStart: day(2025, 1, 1), PeriodEnd: day(2025, 1, 7), GeneratedBy: u.ID, Status: payrollDatamodel.RunDraft}
			Expect(store.Transaction(ctx, func(tx port.Tx) error {
				if err := tx.PayrollRuns().Create(ctx, run); err != nil {
					return err
				}
				return tx.PayrollLines().CreateBatch(ctx, []*payrollDatamodel.PayrollLine{
					{PayrollRunID: run.ID, UserID: u.ID, TotalMinutes: 60, GrossPay: decimal.RequireFromString("20.00")},
				})
			})).To(Succeed())

			Expect(store.Transaction(ctx, func(tx port.Tx) error {
				if err := tx.PayrollLines().DeleteByRun(ctx, run.ID); err != nil {
					return err
				}
				return tx.PayrollLines().CreateBatch(ctx, []*payrollDatamodel.PayrollLine{
					{PayrollRunID: run.ID, UserID: u.ID, TotalMinutes: 90, GrossPay: decimal.RequireFromString("30.00")},
				})
			})).To(Succeed())

			Expect(store.Transaction(ctx, func(tx port.Tx) error {
				lines, err := tx.PayrollLines().ListByRun(ctx, run.ID)
				Expect(err).NotTo(HaveOccurred())
				Expect(lines).To(HaveLen(1))
				Expect(lines[0].TotalMinutes).To(Equal(90))
				Expect(lines[0].GrossPay.StringFixed(2)).To(Equal("30.00"))
				return nil
			})).To(Succeed())
		})
	})

	Describe("LeaveRepository", func() {
		It("should set approver and status together", func() {
			requester := createUser("l@x.io")
			approver := createUser("hr@x.io")
			leave := &approvalDatamodel.LeaveRequest{
				RequesterID: requester.ID, StartDate: day(2025, 3, 1), EndDate: day(2025, 3, 2),
				Type: approvalDatamodel.LeaveAnnual, Status: approvalDatamodel.StatusPending,
			}
			Expect(store.Transaction(ctx, func(tx port.Tx) error {
				if err := tx.Leaves().Create(ctx, leave); err != nil {
					return err
				}
				return tx.Leaves().Decide(ctx, leave.ID, approver.ID, approvalDatamodel.StatusApproved)
			})).To(Succeed())

			Expect(store.Transaction(ctx, func(tx port.Tx) error {
				got, err := tx.Leaves().LockByID(ctx, leave.ID)
				Expect(err).NotTo(HaveOccurred())
				Expect(got.Status).To(Equal(approvalDatamodel.StatusApproved))
				Expect(got.ApproverID).NotTo(BeNil())
				Expect(*got.ApproverID).To(Equal(approver.ID))
				return nil
			})).To(Succeed())
		})
	})

	Describe("NotificationRepository", func() {
		It("should mark only the recipient's notification as read", func() {
			u := createUser("n@x.io")
			n := &notificationDatamodel.Notification{RecipientID: u.ID, Message: "hi", Channel: notificationDatamodel.ChannelInApp}
			Expect(store.Transaction(ctx, func(tx port.Tx) error {
				return tx.Notifications().Create(ctx, n)
			})).To(Succeed())

			Expect(store.Transaction(ctx, func(tx port.Tx) error {
				ok, err := tx.Notifications().MarkRead(ctx, n.ID, u.ID+100)
				Expect(err).NotTo(HaveOccurred())
				Expect(ok).To(BeFalse())

				ok, err = tx.Notifications().MarkRead(ctx, n.ID, u.ID)
				Expect(err).NotTo(HaveOccurred())
				Expect(ok).To(BeTrue())

				unread, err := tx.Notifications().ListByRecipient(ctx, u.ID, true)
				Expect(err).NotTo(HaveOccurred())
				Expect(unread).To(BeEmpty())
				return nil
			})).To(Succeed())
		})
	})
})
