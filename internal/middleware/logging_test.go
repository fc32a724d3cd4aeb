package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

// TestLogging_PasswordNeverLogged ensures submitted form bodies never reach the log.
func TestLogging_PasswordNeverLogged(t *testing.T) {
	t.Parallel()

	const password = "hunter2-very-secret"

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	handler := Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		w.WriteHeader(http.StatusOK)
	}))

	form := url.Values{"name": {"Ann"}, "email": {"ann@x.io"}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/submit", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	handler.ServeHTTP(httptest.NewRecorder(), req)

	logOutput := buf.String()
	if strings.Contains(logOutput, password) {
		t.Errorf("log output contains the submitted password: %s", logOutput)
	}
	if strings.Contains(logOutput, "ann@x.io") {
		t.Errorf("log output contains the submitted email: %s", logOutput)
	}
}

// TestLogging_NoCookieHeaderLogged ensures request headers are not dumped.
func TestLogging_NoCookieHeaderLogged(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	handler := Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req.Header.Set("Cookie", "session=super_secret_token_12345")

	handler.ServeHTTP(httptest.NewRecorder(), req)

	if strings.Contains(buf.String(), "super_secret_token_12345") {
		t.Error("log output contains the Cookie header value")
	}
}

func TestLogging_Fields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger(logger))
	r.Get("/users", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "[]")
	})

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req.Header.Set("User-Agent", "TestAgent/1.0")
	req.Header.Set(RequestIDHeader, "req-42")

	r.ServeHTTP(httptest.NewRecorder(), req)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%s)", err, buf.String())
	}

	want := map[string]any{
		"msg":         "http_request",
		"request_id":  "req-42",
		"method":      "GET",
		"path":        "/users",
		"route":       "/users",
		"status_code": float64(200),
		"bytes":       float64(2),
		"user_agent":  "TestAgent/1.0",
	}
	for k, v := range want {
		if entry[k] != v {
			t.Errorf("expected %s=%v, got %v", k, v, entry[k])
		}
	}
}

func TestLogging_LevelByStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status    int
		wantLevel string
	}{
		{status: http.StatusOK, wantLevel: "INFO"},
		{status: http.StatusUnprocessableEntity, wantLevel: "WARN"},
		{status: http.StatusInternalServerError, wantLevel: "ERROR"},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&buf, nil))

			handler := Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))

			handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/submit", nil))

			if !strings.Contains(buf.String(), `"level":"`+tt.wantLevel+`"`) {
				t.Errorf("expected level %s, got: %s", tt.wantLevel, buf.String())
			}
		})
	}
}

func TestStatusRecorder_FirstHeaderWins(t *testing.T) {
	t.Parallel()

	rec := newStatusRecorder(httptest.NewRecorder())
	rec.WriteHeader(http.StatusCreated)
	rec.WriteHeader(http.StatusInternalServerError)

	if rec.status != http.StatusCreated {
		t.Errorf("expected status 201, got %d", rec.status)
	}
}
