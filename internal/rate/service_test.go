package rate_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/frahmantamala/workforce-management/internal"
	payrollDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/payroll"
	userDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/user"
	"github.com/frahmantamala/workforce-management/internal/core/port"
	"github.com/frahmantamala/workforce-management/internal/rate"
	"github.com/frahmantamala/workforce-management/internal/store/postgres"
	"github.com/frahmantamala/workforce-management/internal/store/storetest"
	"github.com/frahmantamala/workforce-management/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
)

func TestRate(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Rate Resolver Suite")
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ptr(t time.Time) *time.Time { return &t }

var _ = Describe("Select", func() {
	It("should prefer the latest effective_from and then the highest id", func() {
		candidates := []*payrollDatamodel.PayRate{
			{ID: 1, EffectiveFrom: day(2025, 1, 1), HourlyRate: decimal.NewFromInt(10)},
			{ID: 3, EffectiveFrom: day(2025, 2, 1), HourlyRate: decimal.NewFromInt(30)},
			{ID: 2, EffectiveFrom: day(2025, 2, 1), HourlyRate: decimal.NewFromInt(20)},
		}
		Expect(rate.Select(candidates, day(2025, 3, 1)).ID).To(Equal(int64(3)))
	})

	It("should ignore rates that do not cover the instant", func() {
		candidates := []*payrollDatamodel.PayRate{
			{ID: 1, EffectiveFrom: day(2025, 1, 1), EffectiveTo: ptr(day(2025, 1, 31))},
		}
		Expect(rate.Select(candidates, day(2025, 2, 1))).To(BeNil())
		Expect(rate.Select(candidates, day(2025, 1, 31))).NotTo(BeNil())
	})
})

var _ = DescribeTable("Overlaps",
	func(aFrom time.Time, aTo *time.Time, bFrom time.Time, bTo *time.Time, expected bool) {
		Expect(rate.Overlaps(aFrom, aTo, bFrom, bTo)).To(Equal(expected))
		Expect(rate.Overlaps(bFrom, bTo, aFrom, aTo)).To(Equal(expected))
	},
	Entry("disjoint closed intervals", day(2025, 1, 1), ptr(day(2025, 1, 31)), day(2025, 2, 1), ptr(day(2025, 2, 28)), false),
	Entry("touching inclusive ends", day(2025, 1, 1), ptr(day(2025, 2, 1)), day(2025, 2, 1), nil, true),
	Entry("two open-ended intervals", day(2025, 1, 1), nil, day(2026, 1, 1), nil, true),
	Entry("closed before open-ended", day(2024, 1, 1), ptr(day(2024, 12, 31)), day(2025, 1, 1), nil, false),
)

var _ = Describe("Resolver", func() {
	var (
		store    *postgres.Store
		resolver *rate.Resolver
		ctx      context.Context
		staff    *userDatamodel.User
	)

	BeforeEach(func() {
		var err error
		store, err = storetest.NewMemoryStore()
		Expect(err).NotTo(HaveOccurred())
		resolver = rate.NewResolver(store, logger.Discard())
		ctx = context.Background()

		staff = &userDatamodel.User{Name: "Staff 1", Email: "staff1@example.com", Role: userDatamodel.RoleStaff}
		Expect(store.Transaction(ctx, func(tx port.Tx) error {
			return tx.Users().Create(ctx, staff)
		})).To(Succeed())
	})

	Describe("ResolveRate", func() {
		It("should return the later rate at its effective_from", func() {
			r2From := day(2025, 2, 1)
			_, err := resolver.SetRate(ctx, rate.SetRateDTO{
				UserID: staff.ID, HourlyRate: "20.00",
				EffectiveFrom: day(2025, 1, 1), EffectiveTo: ptr(r2From.Add(-time.Microsecond)),
			})
			Expect(err).NotTo(HaveOccurred())
			r2, err := resolver.SetRate(ctx, rate.SetRateDTO{UserID: staff.ID, HourlyRate: "25.00", EffectiveFrom: r2From})
			Expect(err).NotTo(HaveOccurred())

			got, err := resolver.ResolveRate(ctx, staff.ID, r2From)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.ID).To(Equal(r2.ID))
			Expect(got.HourlyRate.StringFixed(2)).To(Equal("25.00"))

			got, err = resolver.ResolveRate(ctx, staff.ID, day(2025, 1, 15))
			Expect(err).NotTo(HaveOccurred())
			Expect(got.HourlyRate.StringFixed(2)).To(Equal("20.00"))
		})

		It("should return ErrRateNotFound when nothing covers the instant", func() {
			_, err := resolver.ResolveRate(ctx, staff.ID, day(2025, 1, 1))
			Expect(errors.Is(err, rate.ErrRateNotFound)).To(BeTrue())
			Expect(internal.KindOf(err)).To(Equal(internal.ErrorTypeNotFound))
		})

		It("should pick deterministically among overlapping rows", func() {
			Expect(store.Transaction(ctx, func(tx port.Tx) error {
				for _, r := range []*payrollDatamodel.PayRate{
					{UserID: staff.ID, HourlyRate: decimal.RequireFromString("20.00"), EffectiveFrom: day(2025, 1, 1)},
					{UserID: staff.ID, HourlyRate: decimal.RequireFromString("22.00"), EffectiveFrom: day(2025, 1, 10)},
					{UserID: staff.ID, HourlyRate: decimal.RequireFromString("24.00"), EffectiveFrom: day(2025, 1, 10)},
				} {
					if err := tx.PayRates().Create(ctx, r); err != nil {
						return err
					}
				}
				return nil
			})).To(Succeed())

			got, err := resolver.ResolveRate(ctx, staff.ID, day(2025, 1, 20))
			Expect(err).NotTo(HaveOccurred())
			Expect(got.HourlyRate.StringFixed(2)).To(Equal("24.00"))
		})
	})

	Describe("SetRate", func() {
		It("should reject an interval overlapping an existing one", func() {
			_, err := resolver.SetRate(ctx, rate.SetRateDTO{UserID: staff.ID, HourlyRate: "20.00", EffectiveFrom: day(2025, 1, 1)})
			Expect(err).NotTo(HaveOccurred())

			_, err = resolver.SetRate(ctx, rate.SetRateDTO{UserID: staff.ID, HourlyRate: "21.00", EffectiveFrom: day(2025, 6, 1)})
			Expect(internal.KindOf(err)).To(Equal(internal.ErrorTypeInvalidRange))
		})

		It("should reject an end before the start", func() {
			_, err := resolver.SetRate(ctx, rate.SetRateDTO{
				UserID: staff.ID, HourlyRate: "20.00",
				EffectiveFrom: day(2025, 2, 1), EffectiveTo: ptr(day(2025, 1, 1)),
			})
			Expect(internal.KindOf(err)).To(Equal(internal.ErrorTypeInvalidRange))
		})

		It("should reject a negative or malformed amount", func() {
			_, err := resolver.SetRate(ctx, rate.SetRateDTO{UserID: staff.ID, HourlyRate: "-1", EffectiveFrom: day(2025, 1, 1)})
			Expect(err).To(HaveOccurred())

			_, err = resolver.SetRate(ctx, rate.SetRateDTO{UserID: staff.ID, HourlyRate: "twenty", EffectiveFrom: day(2025, 1, 1)})
			Expect(internal.KindOf(err)).To(Equal(internal.ErrorTypeInvalidValue))
		})

		It("should return NotFound for an unknown user", func() {
			_, err := resolver.SetRate(ctx, rate.SetRateDTO{UserID: 999, HourlyRate: "20.00", EffectiveFrom: day(2025, 1, 1)})
			Expect(internal.KindOf(err)).To(Equal(internal.ErrorTypeNotFound))
		})

		It("should list rates in effective order", func() {
			_, err := resolver.SetRate(ctx, rate.SetRateDTO{UserID: staff.ID, HourlyRate: "25.00", EffectiveFrom: day(2025, 2, 1)})
			Expect(err).NotTo(HaveOccurred())
			_, err = resolver.SetRate(ctx, rate.SetRateDTO{UserID: staff.ID, HourlyRate: "20.00", EffectiveFrom: day(2025, 1, 1), EffectiveTo: ptr(day(2025, 1, 31))})
			Expect(err).NotTo(HaveOccurred())

			rates, err := resolver.ListRates(ctx, staff.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(rates).To(HaveLen(2))
			Expect(rates[0].HourlyRate.StringFixed(2)).To(Equal("20.00"))
		})
	})
})
