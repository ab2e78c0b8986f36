package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeySource     = "source"
	KeyCategory   = "category"
	KeyURL        = "url"
	KeyPath       = "path"
	KeyStatus     = "status"
	KeyAttempt    = "attempt"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Source(name string) slog.Attr    { return slog.String(KeySource, name) }
func Category(c string) slog.Attr     { return slog.String(KeyCategory, c) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Status(code int) slog.Attr       { return slog.Int(KeyStatus, code) }
func Attempt(n int) slog.Attr         { return slog.Int(KeyAttempt, n) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
