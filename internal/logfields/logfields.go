package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field name constants to avoid drift across packages.
const (
	KeySource     = "source"
	KeyPage       = "page"
	KeyPath       = "path"
	KeyAddress    = "address"
	KeyStatus     = "status"
	KeyStrategy   = "strategy"
	KeyCache      = "cache"
	KeyDurationMS = "duration_ms"
	KeyRequestID  = "request_id"
	KeyMethod     = "method"
	KeyReason     = "reason"
	KeyCount      = "count"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Source(id string) slog.Attr { return slog.String(KeySource, id) }
func Page(id string) slog.Attr { return slog.String(KeyPage, id) }
func Path(p string) slog.Attr { return slog.String(KeyPath, p) }
func Address(a string) slog.Attr { return slog.String(KeyAddress, a) }
func Status(code int) slog.Attr { return slog.Int(KeyStatus, code) }
func Strategy(s string) slog.Attr { return slog.String(KeyStrategy, s) }
func Cache(result string) slog.Attr { return slog.String(KeyCache, result) }
func RequestID(id string) slog.Attr { return slog.String(KeyRequestID, id) }
func Method(m string) slog.Attr { return slog.String(KeyMethod, m) }
func Reason(r string) slog.Attr { return slog.String(KeyReason, r) }
func Count(n int) slog.Attr { return slog.Int(KeyCount, n) }
func Duration(d time.Duration) slog.Attr {
	return slog.Float64(KeyDurationMS, float64(d.Microseconds())/1000)
}
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
