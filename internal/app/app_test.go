package app

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ITCS333/course-project-itcs333-group-10-project-sec-2/internal/config"
	"github.com/ITCS333/course-project-itcs333-group-10-project-sec-2/internal/delivery/httpd"
)

func testRouter() http.Handler {
	cfg := &config.Config{
		Server: config.ServerConfig{Address: ":0", RequestTimeout: time.Second},
		CORS: config.CORSConfig{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type", "Authorization"},
		},
	}
	handler := httpd.NewHandler(httpd.Services{}, httpd.Options{}, zerolog.Nop())
	return NewRouter(cfg, handler, zerolog.Nop())
}

func TestNewRouter_OptionsIsBare200(t *testing.T) {
	router := testRouter()

	for _, target := range []string{"/api/v1/students", "/api/v1/topics?resource=replies", "/anything"} {
		req := httptest.NewRequest(http.MethodOptions, target, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("OPTIONS %s: status = %d, want 200", target, rec.Code)
		}
		if rec.Body.Len() != 0 {
			t.Errorf("OPTIONS %s: body = %q, want empty", target, rec.Body.String())
		}
	}
}

func TestNewRouter_Preflight(t *testing.T) {
	router := testRouter()

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/weeks", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
}

func TestNewRouter_MethodNotAllowedEnvelope(t *testing.T) {
	router := testRouter()

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/weeks", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
	if want := `{"success":false,"error":"method not allowed"}`; strings.TrimSpace(rec.Body.String()) != want {
		t.Errorf("body = %s, want %s", rec.Body.String(), want)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestNewRouter_Metrics(t *testing.T) {
	router := testRouter()

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/students", nil)
	router.ServeHTTP(httptest.NewRecorder(), req)

	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "course_portal_http_requests_total") {
		t.Error("metrics output missing course_portal_http_requests_total")
	}
}
