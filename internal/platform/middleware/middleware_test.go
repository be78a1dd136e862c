package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func okHandler(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// -- RequestID --

func TestRequestID_GeneratesNew(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := RequestID()(okHandler)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Error("expected a generated request ID in the response header")
	}
	if rid, _ := c.Get("request_id").(string); rid == "" {
		t.Error("expected request_id in context")
	}
}

func TestRequestID_PreservesExisting(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "my-custom-id")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := RequestID()(okHandler)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := rec.Header().Get(RequestIDHeader); got != "my-custom-id" {
		t.Errorf("expected preserved request ID, got %q", got)
	}
}

// -- Recovery --

func TestRecovery_CatchesPanic(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	panicking := func(echo.Context) error { panic("boom") }
	err := Recovery(zerolog.Nop())(panicking)(c)

	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %T", err)
	}
	if httpErr.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", httpErr.Code)
	}
}

// -- RateLimit --

func TestRateLimit_AllowsWithinBurst(t *testing.T) {
	e := echo.New()
	mw := RateLimit(RateLimitConfig{RequestsPerSecond: 1, BurstSize: 2})

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if err := mw(okHandler)(c); err != nil {
			t.Fatalf("request %d: unexpected error: %v", i, err)
		}
	}
}

func TestRateLimit_RejectsOverBurst(t *testing.T) {
	e := echo.New()
	mw := RateLimit(RateLimitConfig{RequestsPerSecond: 0.001, BurstSize: 1})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	if err := mw(okHandler)(e.NewContext(req, rec)); err != nil {
		t.Fatalf("first request should pass: %v", err)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	rec = httptest.NewRecorder()
	err := mw(okHandler)(e.NewContext(req, rec))
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %v", err)
	}
}

// -- BodyLimit --

func TestBodyLimit_RejectsOversizedJSON(t *testing.T) {
	e := echo.New()
	mw := BodyLimit("10", "1K")

	body := strings.Repeat("x", 64)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/parse", strings.NewReader(body))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := mw(okHandler)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413, got %d", rec.Code)
	}
}

func TestBodyLimit_UploadPathGetsLargerLimit(t *testing.T) {
	e := echo.New()
	mw := BodyLimit("10", "1K")

	body := strings.Repeat("x", 64)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/parse/document", strings.NewReader(body))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := mw(okHandler)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 for upload under the upload limit, got %d", rec.Code)
	}
}

func TestParseLimit(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"1M", 1 << 20},
		{"512K", 512 << 10},
		{"2G", 2 << 30},
		{"1024", 1024},
		{"", 1 << 20},
		{"garbage", 1 << 20},
	}
	for _, tc := range cases {
		if got := parseLimit(tc.in); got != tc.want {
			t.Errorf("parseLimit(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

// -- RequestTimeout --

func TestRequestTimeout_Expires(t *testing.T) {
	e := echo.New()
	mw := RequestTimeout(20 * time.Millisecond)

	slow := func(c echo.Context) error {
		select {
		case <-c.Request().Context().Done():
			return c.Request().Context().Err()
		case <-time.After(500 * time.Millisecond):
			return c.String(http.StatusOK, "late")
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	err := mw(slow)(e.NewContext(req, rec))

	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusGatewayTimeout {
		t.Errorf("expected 504, got %v", err)
	}
}

func TestRequestTimeout_PassesFastRequests(t *testing.T) {
	e := echo.New()
	mw := RequestTimeout(time.Second)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	if err := mw(okHandler)(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

// -- Audit --

func TestAudit_RecordsReferralAccess(t *testing.T) {
	e := echo.New()
	var recorded []AuditEntry
	recorder := AuditRecorderFunc(func(entry AuditEntry) error {
		recorded = append(recorded, entry)
		return nil
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/referrals/42", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("42")

	if err := AuditWithRecorder(zerolog.Nop(), recorder)(okHandler)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recorded) != 1 {
		t.Fatalf("expected 1 audit entry, got %d", len(recorded))
	}
	if recorded[0].Action != "read" {
		t.Errorf("expected action read, got %s", recorded[0].Action)
	}
	if recorded[0].ReferralID != "42" {
		t.Errorf("expected referral id 42, got %s", recorded[0].ReferralID)
	}
}

func TestAudit_SkipsNonAPIPaths(t *testing.T) {
	e := echo.New()
	var recorded []AuditEntry
	recorder := AuditRecorderFunc(func(entry AuditEntry) error {
		recorded = append(recorded, entry)
		return nil
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := AuditWithRecorder(zerolog.Nop(), recorder)(okHandler)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recorded) != 0 {
		t.Errorf("expected no audit entries for /health, got %d", len(recorded))
	}
}

func TestAuditAction(t *testing.T) {
	cases := []struct {
		method, path, want string
	}{
		{"GET", "/api/v1/referrals", "search"},
		{"GET", "/api/v1/referrals/7", "read"},
		{"POST", "/api/v1/parse", "parse"},
		{"POST", "/api/v1/parse/document", "parse"},
		{"POST", "/api/v1/referrals", "create"},
		{"PATCH", "/api/v1/referrals/7/status", "update"},
	}
	for _, tc := range cases {
		if got := auditAction(tc.method, tc.path); got != tc.want {
			t.Errorf("auditAction(%s %s) = %s, want %s", tc.method, tc.path, got, tc.want)
		}
	}
}
