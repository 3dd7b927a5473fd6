package middleware_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/frahmantamala/workforce-management/internal/transport/middleware"
	chiMiddleware "github.com/go-chi/chi/middleware"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestMiddleware(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Middleware Suite")
}

var _ = Describe("RequestID", func() {
	It("should mint an id and expose it to chi", func() {
		var seen string
		h := middleware.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = chiMiddleware.GetReqID(r.Context())
		}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		Expect(seen).NotTo(BeEmpty())
		Expect(rec.Header().Get(middleware.RequestIDHeader)).To(Equal(seen))
	})

	It("should keep the caller's id", func() {
		h := middleware.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(middleware.RequestIDHeader, "abc-123")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		Expect(rec.Header().Get(middleware.RequestIDHeader)).To(Equal("abc-123"))
	})
})

var _ = Describe("RecoveryMiddleware", func() {
	It("should answer 500 without leaking the panic", func() {
		var logs bytes.Buffer
		lg := slog.New(slog.NewTextHandler(&logs, nil))
		h := middleware.RecoveryMiddleware(lg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("secret detail")
		}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		Expect(rec.Code).To(Equal(http.StatusInternalServerError))
		Expect(rec.Body.String()).NotTo(ContainSubstring("secret detail"))
		Expect(logs.String()).To(ContainSubstring("panic recovered"))
	})
})

var _ = Describe("LoggingMiddleware", func() {
	It("should mask passwords in logged bodies", func() {
		var logs bytes.Buffer
		lg := slog.New(slog.NewJSONHandler(&logs, nil))
		h := middleware.LoggingMiddleware(lg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var body map[string]string
			Expect(json.NewDecoder(r.Body).Decode(&body)).To(Succeed())
			Expect(body["password"]).To(Equal("pass"))
			w.WriteHeader(http.StatusNoContent)
		}))

		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"a@example.com","password":"pass"}`))
		h.ServeHTTP(httptest.NewRecorder(), req)

		Expect(logs.String()).To(ContainSubstring("[FILTERED]"))
		Expect(logs.String()).NotTo(ContainSubstring(`\"password\":\"pass\"`))
		Expect(logs.String()).To(ContainSubstring(`"status_code":204`))
	})

	serve := func(h http.HandlerFunc, req *http.Request) string {
		var logs bytes.Buffer
		lg := slog.New(slog.NewJSONHandler(&logs, nil))
		middleware.LoggingMiddleware(lg)(h).ServeHTTP(httptest.NewRecorder(), req)
		return logs.String()
	}

	It("should mask credential headers", func() {
		req := httptest.NewRequest(http.MethodGet, "/roster", nil)
		req.Header.Set("Authorization", "Bearer abc.def.ghi")
		req.Header.Set("X-Api-Key", "k-123")
		req.Header.Set("Accept", "application/json")

		logs := serve(func(w http.ResponseWriter, r *http.Request) {}, req)
		Expect(logs).NotTo(ContainSubstring("abc.def.ghi"))
		Expect(logs).NotTo(ContainSubstring("k-123"))
		Expect(logs).To(ContainSubstring(`"Accept":"application/json"`))
	})

	It("should drop plain bodies that mention a secret", func() {
		req := httptest.NewRequest(http.MethodPost, "/notes", strings.NewReader("my pass is hunter2"))
		logs := serve(func(w http.ResponseWriter, r *http.Request) {}, req)
		Expect(logs).NotTo(ContainSubstring("hunter2"))
		Expect(logs).To(ContainSubstring("Contains sensitive data"))
	})

	It("should cap logged response bodies but report the full size", func() {
		payload := strings.Repeat("x", 5000)
		logs := serve(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/plain")
			_, _ = w.Write([]byte(payload[:3000]))
			_, _ = w.Write([]byte(payload[3000:]))
		}, httptest.NewRequest(http.MethodGet, "/big", nil))

		Expect(logs).To(ContainSubstring(strings.Repeat("x", 4096)))
		Expect(logs).NotTo(ContainSubstring(strings.Repeat("x", 4097)))
		Expect(logs).To(ContainSubstring(`"response_size":5000`))
		Expect(logs).To(ContainSubstring(`"status_code":200`))
	})

	It("should not keep calendar or spreadsheet bodies", func() {
		logs := serve(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/calendar")
			_, _ = w.Write([]byte("BEGIN:VCALENDAR"))
		}, httptest.NewRequest(http.MethodGet, "/roster.ics", nil))

		Expect(logs).NotTo(ContainSubstring("BEGIN:VCALENDAR"))
		Expect(logs).To(ContainSubstring(`"response_size":15`))
	})

	It("should log server errors at error level", func() {
		logs := serve(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}, httptest.NewRequest(http.MethodGet, "/", nil))

		Expect(logs).To(ContainSubstring(`"level":"ERROR"`))
		Expect(logs).To(ContainSubstring(`"status_code":502`))
	})
})
