package middleware

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/ITCS333/course-project-itcs333-group-10-project-sec-2/internal/auth"
	"github.com/ITCS333/course-project-itcs333-group-10-project-sec-2/internal/config"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
})

func TestRecovery_WritesEnvelope(t *testing.T) {
	var logs bytes.Buffer
	h := Recovery(zerolog.New(&logs))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/students", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"success":false,"error":"internal server error"}` {
		t.Errorf("body = %s", got)
	}
	if !strings.Contains(logs.String(), "Panic recovered") {
		t.Errorf("panic not logged: %s", logs.String())
	}
}

func TestTimeout(t *testing.T) {
	slow := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	rec := httptest.NewRecorder()
	Timeout(10*time.Millisecond)(slow).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusGatewayTimeout {
		t.Errorf("status = %d, want 504", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"success":false`) {
		t.Errorf("body = %s", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	Timeout(time.Second)(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Errorf("fast handler: status = %d body = %q", rec.Code, rec.Body.String())
	}
}

func TestRequestLogger(t *testing.T) {
	var logs bytes.Buffer
	var fromCtx zerolog.Logger
	h := RequestLogger(zerolog.New(&logs))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fromCtx = GetLoggerFromContext(r.Context())
		w.WriteHeader(http.StatusCreated)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/v1/topics?x=1", nil))

	out := logs.String()
	for _, want := range []string{`"method":"POST"`, `"path":"/api/v1/topics"`, `"status":201`, `"query":"x=1"`} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %s: %s", want, out)
		}
	}
	if fromCtx.GetLevel() == zerolog.Disabled {
		t.Error("request logger not stored in context")
	}

	if GetLoggerFromContext(context.Background()).GetLevel() != zerolog.Disabled {
		t.Error("background context should give a no-op logger")
	}
}

func TestOptionsAndCORS(t *testing.T) {
	cfg := config.CORSConfig{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}

	r := chi.NewRouter()
	r.Use(NewCORS(cfg))
	r.Use(Options)
	r.Get("/api/v1/weeks", okHandler)

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/weeks", nil)
		req.Header.Set("Origin", "http://example.com")
		req.Header.Set("Access-Control-Request-Method", "POST")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
		if rec.Header().Get("Access-Control-Allow-Origin") == "" {
			t.Error("missing Access-Control-Allow-Origin")
		}
		if rec.Body.Len() != 0 {
			t.Errorf("preflight body = %q, want empty", rec.Body.String())
		}
	})

	t.Run("plain options on unknown path", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/anything", nil))
		if rec.Code != http.StatusOK || rec.Body.Len() != 0 {
			t.Errorf("status = %d body = %q", rec.Code, rec.Body.String())
		}
	})

	t.Run("simple request gets origin header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/weeks", nil)
		req.Header.Set("Origin", "http://example.com")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
			t.Errorf("Access-Control-Allow-Origin = %q", rec.Header().Get("Access-Control-Allow-Origin"))
		}
	})
}

func TestRequireRole(t *testing.T) {
	tokens, err := auth.NewJWTManager("0123456789abcdef0123456789abcdef", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	adminToken, _, _ := tokens.GenerateToken("admin", auth.RoleAdmin)
	studentToken, _, _ := tokens.GenerateToken("s1", auth.RoleStudent)

	var seen *auth.Claims
	h := RequireAdmin(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = auth.ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantError  string
	}{
		{"no header", "", http.StatusUnauthorized, "authentication required"},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, "authentication required"},
		{"garbage token", "Bearer abc", http.StatusUnauthorized, "invalid or expired token"},
		{"student token", "Bearer " + studentToken, http.StatusUnauthorized, "admin access required"},
		{"admin token", "Bearer " + adminToken, http.StatusOK, ""},
		{"lowercase scheme", "bearer " + adminToken, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/students", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantError != "" && !strings.Contains(rec.Body.String(), `"error":"`+tt.wantError+`"`) {
				t.Errorf("body = %s, want error %q", rec.Body.String(), tt.wantError)
			}
		})
	}

	if seen == nil || seen.Subject != "admin" {
		t.Errorf("claims in context = %+v", seen)
	}
}

func TestRequireRole_DisabledWithoutValidator(t *testing.T) {
	rec := httptest.NewRecorder()
	RequireAdmin(nil)(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestRequireRole_LogsRejectedToken(t *testing.T) {
	tokens, err := auth.NewJWTManager("0123456789abcdef0123456789abcdef", time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	var logs bytes.Buffer
	h := RequestLogger(zerolog.New(&logs))(RequireAdmin(tokens)(okHandler))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/students", nil)
	req.Header.Set("Authorization", "Bearer abc")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if !strings.Contains(logs.String(), "Token rejected") {
		t.Errorf("rejection not logged: %s", logs.String())
	}
}

func TestRateLimitByIP(t *testing.T) {
	h := RateLimitByIP(1, time.Minute)(okHandler)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("first request status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil))
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("second request status = %d, want 429", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"success":false`) {
		t.Errorf("body = %s", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	RateLimitByIP(0, time.Minute)(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("disabled limiter status = %d", rec.Code)
	}
}

func TestMetrics_LabelsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Metrics)
	r.Get("/api/v1/metrics-test", okHandler)

	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/metrics-test", "200"))

	for _, q := range []string{"?id=1", "?id=2"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/metrics-test"+q, nil))
	}

	after := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/metrics-test", "200"))
	if after-before != 2 {
		t.Errorf("counter delta = %v, want 2", after-before)
	}
}
