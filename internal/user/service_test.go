package user_test

import (
	"context"
	"testing"

	"github.com/frahmantamala/workforce-management/internal"
	userDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/user"
	"github.com/frahmantamala/workforce-management/internal/store/storetest"
	"github.com/frahmantamala/workforce-management/internal/user"
	"github.com/frahmantamala/workforce-management/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

func TestUserService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "User Service Suite")
}

var _ = Describe("User Service", func() {
	var (
		service *user.Service
		ctx     context.Context
	)

	BeforeEach(func() {
		store, err := storetest.NewMemoryStore()
		Expect(err).NotTo(HaveOccurred())
		service = user.NewService(store, bcrypt.MinCost, logger.Discard())
		ctx = context.Background()
	})

	Describe("CreateUser", func() {
		It("should create a user with a hashed password", func() {
			u, err := service.CreateUser(ctx, user.CreateUserDTO{
				Name: "Staff One", Email: " Staff1@Example.com ", Role: "staff", Password: "pass",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(u.ID).To(BeNumerically(">", 0))
			Expect(u.Email).To(Equal("staff1@example.com"))
			Expect(u.Role).To(Equal(userDatamodel.RoleStaff))
			Expect(bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("pass"))).To(Succeed())
		})

		It("should reject a duplicate email with a conflict", func() {
			_, err := service.CreateUser(ctx, user.CreateUserDTO{Name: "A", Email: "a@example.com", Role: "staff"})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.CreateUser(ctx, user.CreateUserDTO{Name: "B", Email: "a@example.com", Role: "hr"})
			Expect(err).To(MatchError(internal.ErrEmailTaken))
		})

		It("should reject an unknown role", func() {
			_, err := service.CreateUser(ctx, user.CreateUserDTO{Name: "A", Email: "a@example.com", Role: "owner"})
			Expect(internal.KindOf(err)).To(Equal(internal.ErrorTypeInvalidValue))
		})

		It("should reject a malformed email", func() {
			_, err := service.CreateUser(ctx, user.CreateUserDTO{Name: "A", Email: "not-an-email", Role: "staff"})
			Expect(internal.KindOf(err)).To(Equal(internal.ErrorTypeValidation))
		})
	})

	Describe("GetByID", func() {
		It("should return NotFound for a missing user", func() {
			_, err := service.GetByID(ctx, 999)
			Expect(internal.KindOf(err)).To(Equal(internal.ErrorTypeNotFound))
		})

		It("should find a created user by id and email", func() {
			created, err := service.CreateUser(ctx, user.CreateUserDTO{Name: "HR", Email: "hr@example.com", Role: "hr"})
			Expect(err).NotTo(HaveOccurred())

			byID, err := service.GetByID(ctx, created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(byID.CanApprove()).To(BeTrue())

			byEmail, err := service.GetByEmail(ctx, "hr@example.com")
			Expect(err).NotTo(HaveOccurred())
			Expect(byEmail.ID).To(Equal(created.ID))
		})
	})
})
