package healthcheck

import "log/slog"

// Reason is the machine-readable outcome of a probe run.
type Reason string

const (
	ReasonOK              Reason = "ok"
	ReasonMissingConfig   Reason = "missing_config"
	ReasonReadFailed      Reason = "read_failed"
	ReasonReadHTTPError   Reason = "read_http_error"
	ReasonReadException   Reason = "read_exception"
	ReasonInsertFailed    Reason = "insert_failed"
	ReasonInsertHTTPError Reason = "insert_http_error"
	ReasonInsertException Reason = "insert_exception"
)

// Result describes how far the probe got. Status and Body are set for
// responses that arrived, Error for transport failures.
type Result struct {
	OK     bool
	Reason Reason
	Status int
	Body   string
	Error  string
}

func success() Result {
	return Result{OK: true, Reason: ReasonOK}
}

func failure(reason Reason) Result {
	return Result{Reason: reason}
}

// LogValue renders only the populated fields.
func (r Result) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Bool("ok", r.OK),
		slog.String("reason", string(r.Reason)),
	}
	if r.Status != 0 {
		attrs = append(attrs, slog.Int("status", r.Status))
	}
	if r.Body != "" {
		attrs = append(attrs, slog.String("body", r.Body))
	}
	if r.Error != "" {
		attrs = append(attrs, slog.String("error", r.Error))
	}
	return slog.GroupValue(attrs...)
}

// truncate keeps at most limit characters of s.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
