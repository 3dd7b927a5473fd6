package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/frahmantamala/workforce-management/internal"
	"github.com/frahmantamala/workforce-management/internal/auth"
	"github.com/frahmantamala/workforce-management/internal/store/storetest"
	"github.com/frahmantamala/workforce-management/internal/transport"
	"github.com/frahmantamala/workforce-management/internal/user"
	"github.com/frahmantamala/workforce-management/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

func TestAuth(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Auth Module Suite")
}

const secret = "a-test-secret-that-is-at-least-32-bytes"

var _ = Describe("Auth Service", func() {
	var (
		service *auth.Service
		tokens  *auth.JWTTokenGenerator
		ctx     context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		store, err := storetest.NewMemoryStore()
		Expect(err).NotTo(HaveOccurred())

		users := user.NewService(store, bcrypt.MinCost, logger.Discard())
		_, err = users.CreateUser(ctx, user.CreateUserDTO{Name: "Staff", Email: "staff1@example.com", Role: "staff", Password: "pass"})
		Expect(err).NotTo(HaveOccurred())

		tokens = auth.NewJWTTokenGenerator(secret, time.Hour)
		service = auth.NewService(store, tokens, logger.Discard())
	})

	Describe("Authenticate", func() {
		It("should issue tokens carrying the user's role", func() {
			result, err := service.Authenticate(ctx, auth.LoginDTO{Email: "Staff1@example.com", Password: "pass"})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.AccessToken).NotTo(BeEmpty())
			Expect(result.ExpiresIn).To(Equal(int64(3600)))

			claims, err := service.ValidateAccessToken(result.AccessToken)
			Expect(err).NotTo(HaveOccurred())
			Expect(claims.Email).To(Equal("staff1@example.com"))
			Expect(claims.Role).To(Equal("staff"))
		})

		It("should reject a wrong password", func() {
			_, err := service.Authenticate(ctx, auth.LoginDTO{Email: "staff1@example.com", Password: "nope"})
			Expect(err).To(MatchError(internal.ErrInvalidCredentials))
		})

		It("should reject an unknown user", func() {
			_, err := service.Authenticate(ctx, auth.LoginDTO{Email: "ghost@example.com", Password: "pass"})
			Expect(err).To(MatchError(internal.ErrInvalidCredentials))
		})

		It("should require both fields", func() {
			_, err := service.Authenticate(ctx, auth.LoginDTO{Email: "staff1@example.com"})
			Expect(internal.KindOf(err)).To(Equal(internal.ErrorTypeValidation))
		})
	})

	Describe("tokens", func() {
		It("should not accept a refresh token as an access token", func() {
			result, err := service.Authenticate(ctx, auth.LoginDTO{Email: "staff1@example.com", Password: "pass"})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.ValidateAccessToken(result.RefreshToken)
			Expect(err).To(MatchError(internal.ErrInvalidToken))

			refreshed, err := service.RefreshTokens(ctx, result.RefreshToken)
			Expect(err).NotTo(HaveOccurred())
			Expect(refreshed.AccessToken).NotTo(BeEmpty())
		})

		It("should report expired tokens", func() {
			issuedAt := time.Now().Add(-2 * time.Hour)
			old := auth.NewJWTTokenGenerator(secret, time.Hour).WithClock(func() time.Time { return issuedAt })
			token, err := old.GenerateAccessToken(1, "staff1@example.com", "staff")
			Expect(err).NotTo(HaveOccurred())

			_, err = tokens.ValidateToken(token, auth.TokenTypeAccess)
			Expect(err).To(MatchError(internal.ErrTokenExpired))
		})

		It("should reject tokens signed with another secret", func() {
			other := auth.NewJWTTokenGenerator("another-secret-that-is-also-32-bytes-long", time.Hour)
			token, err := other.GenerateAccessToken(1, "staff1@example.com", "staff")
			Expect(err).NotTo(HaveOccurred())

			_, err = service.ValidateAccessToken(token)
			Expect(err).To(MatchError(internal.ErrInvalidToken))
		})
	})

	Describe("PrincipalFor", func() {
		It("should resolve a known email", func() {
			p, err := service.PrincipalFor(ctx, "staff1@example.com")
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Role).To(Equal("staff"))
		})

		It("should return NotFound for an unknown email", func() {
			_, err := service.PrincipalFor(ctx, "ghost@example.com")
			Expect(internal.KindOf(err)).To(Equal(internal.ErrorTypeNotFound))
		})
	})

	Describe("Handler middleware", func() {
		var handler *auth.Handler

		BeforeEach(func() {
			handler = auth.NewHandler(transport.NewBaseHandler(logger.Discard()), service, auth.DefaultPolicy())
		})

		It("should reject requests without a bearer token", func() {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/v1/roster", nil)
			handler.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})).ServeHTTP(rec, req)
			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		})

		It("should enforce the role policy after authentication", func() {
			result, err := service.Authenticate(ctx, auth.LoginDTO{Email: "staff1@example.com", Password: "pass"})
			Expect(err).NotTo(HaveOccurred())

			ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			})

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/payroll/runs", nil)
			req.Header.Set("Authorization", "Bearer "+result.AccessToken)
			handler.AuthMiddleware(handler.Require(auth.ActionRunPayroll)(ok)).ServeHTTP(rec, req)
			Expect(rec.Code).To(Equal(http.StatusForbidden))

			rec = httptest.NewRecorder()
			req = httptest.NewRequest(http.MethodGet, "/api/v1/roster", nil)
			req.Header.Set("Authorization", "Bearer "+result.AccessToken)
			handler.AuthMiddleware(handler.Require(auth.ActionViewRoster)(ok)).ServeHTTP(rec, req)
			Expect(rec.Code).To(Equal(http.StatusNoContent))
		})
	})
})

var _ = Describe("Policy", func() {
	policy := auth.DefaultPolicy()

	DescribeTable("Allows",
		func(role string, action auth.Action, expected bool) {
			Expect(policy.Allows(role, action)).To(Equal(expected))
		},
		Entry("admin assigns shifts", "admin", auth.ActionAssignShift, true),
		Entry("staff cannot assign shifts", "staff", auth.ActionAssignShift, false),
		Entry("hr runs payroll", "hr", auth.ActionRunPayroll, true),
		Entry("supervisor cannot run payroll", "supervisor", auth.ActionRunPayroll, false),
		Entry("staff clocks in", "staff", auth.ActionClock, true),
		Entry("anyone views the roster", "hr", auth.ActionViewRoster, true),
		Entry("unknown actions are denied", "admin", auth.Action("nope"), false),
	)

	It("should return a forbidden error carrying the action", func() {
		err := policy.Authorize(&internal.Principal{UserID: 1, Role: "staff"}, auth.ActionDecideSwap)
		Expect(err).To(MatchError(internal.ErrForbiddenRole))
		Expect(internal.KindOf(err)).To(Equal(internal.ErrorTypeForbidden))
	})
})
