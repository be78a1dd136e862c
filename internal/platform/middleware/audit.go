package middleware

import (
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// AuditEntry captures one access to referral data: who asked, what they
// touched, from where, and what happened. Referral records carry PHI, so
// every read and write is recorded.
type AuditEntry struct {
	Action     string // read, create, update, search, parse
	ReferralID string
	IPAddress  string
	UserAgent  string
	Path       string
	Method     string
	Timestamp  time.Time
	RequestID  string
	StatusCode int
}

// AuditRecorder persists audit entries. Decoupling the middleware from the
// concrete sink lets tests provide a mock implementation.
type AuditRecorder interface {
	RecordAccess(entry AuditEntry) error
}

// AuditRecorderFunc is a function adapter for AuditRecorder.
type AuditRecorderFunc func(entry AuditEntry) error

func (f AuditRecorderFunc) RecordAccess(entry AuditEntry) error {
	return f(entry)
}

// Audit returns middleware that records access to referral data under
// /api/v1/. Entries are written to the structured log; a custom recorder can
// divert them to durable storage.
func Audit(logger zerolog.Logger) echo.MiddlewareFunc {
	return AuditWithRecorder(logger, nil)
}

// AuditWithRecorder returns the audit middleware with an explicit recorder.
func AuditWithRecorder(logger zerolog.Logger, recorder AuditRecorder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if !strings.HasPrefix(req.URL.Path, "/api/v1/") {
				return next(c)
			}

			err := next(c)

			entry := AuditEntry{
				Action:     auditAction(req.Method, req.URL.Path),
				ReferralID: c.Param("id"),
				IPAddress:  c.RealIP(),
				UserAgent:  req.UserAgent(),
				Path:       req.URL.Path,
				Method:     req.Method,
				Timestamp:  time.Now().UTC(),
				StatusCode: c.Response().Status,
			}
			if rid, ok := c.Get("request_id").(string); ok {
				entry.RequestID = rid
			}

			if recorder != nil {
				if rerr := recorder.RecordAccess(entry); rerr != nil {
					logger.Error().Err(rerr).
						Str("request_id", entry.RequestID).
						Msg("audit record failed")
				}
			}

			logger.Info().
				Str("request_id", entry.RequestID).
				Str("action", entry.Action).
				Str("referral_id", entry.ReferralID).
				Str("method", entry.Method).
				Str("path", entry.Path).
				Str("remote_ip", entry.IPAddress).
				Int("status", entry.StatusCode).
				Msg("audit")

			return err
		}
	}
}

// auditAction classifies a request into an audit action.
func auditAction(method, path string) string {
	switch method {
	case "GET":
		if strings.HasSuffix(strings.TrimRight(path, "/"), "/referrals") {
			return "search"
		}
		return "read"
	case "POST":
		if strings.Contains(path, "/parse") {
			return "parse"
		}
		return "create"
	case "PATCH", "PUT":
		return "update"
	default:
		return strings.ToLower(method)
	}
}
