package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/playperu/crocodile/internal/handler/health"
)

type mockChecker struct{ err error }

func (m mockChecker) Check(_ context.Context) error { return m.err }

func TestHandler(t *testing.T) {
	tests := []struct {
		name       string
		checks     map[string]health.Checker
		wantStatus int
		wantBody   map[string]string
	}{
		{
			name: "all healthy",
			checks: map[string]health.Checker{
				"store":   mockChecker{},
				"catalog": mockChecker{},
			},
			wantStatus: http.StatusOK,
			wantBody:   map[string]string{"store": "ok", "catalog": "ok"},
		},
		{
			name: "store down",
			checks: map[string]health.Checker{
				"store":   mockChecker{err: errors.New("read-only file system")},
				"catalog": mockChecker{},
			},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   map[string]string{"store": "error", "catalog": "ok"},
		},
		{
			name: "catalog empty",
			checks: map[string]health.Checker{
				"store": mockChecker{},
				"catalog": health.CheckFunc(func(context.Context) error {
					return errors.New("no languages")
				}),
			},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   map[string]string{"store": "ok", "catalog": "error"},
		},
		{
			name: "both down",
			checks: map[string]health.Checker{
				"store":   mockChecker{err: errors.New("db")},
				"catalog": mockChecker{err: errors.New("words")},
			},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   map[string]string{"store": "error", "catalog": "error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := health.NewHandler(slog.Default(), tt.checks)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			h.Routes().ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			var body map[string]struct{ Status string }
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decoding response: %v", err)
			}

			for name, want := range tt.wantBody {
				if got := body[name].Status; got != want {
					t.Errorf("%s status = %q, want %q", name, got, want)
				}
			}
		})
	}
}
