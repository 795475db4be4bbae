package healthcheck

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/angeloszaimis/devserver/internal/backend"
)

const (
	// DefaultTimeout bounds every probe request.
	DefaultTimeout = 10 * time.Second

	readBodyLimit   = 200
	insertBodyLimit = 300
)

// step holds the classification used for one probe request.
type step struct {
	name      string
	limit     int
	accept    func(status int) bool
	failed    Reason
	httpError Reason
	exception Reason
}

var (
	readStep = step{
		name:      "read",
		limit:     readBodyLimit,
		accept:    func(status int) bool { return status == http.StatusOK },
		failed:    ReasonReadFailed,
		httpError: ReasonReadHTTPError,
		exception: ReasonReadException,
	}
	insertStep = step{
		name:  "insert",
		limit: insertBodyLimit,
		accept: func(status int) bool {
			return status == http.StatusOK || status == http.StatusCreated
		},
		failed:    ReasonInsertFailed,
		httpError: ReasonInsertHTTPError,
		exception: ReasonInsertException,
	}
)

// Prober checks that the backend accepts a read and a write.
type Prober struct {
	client *http.Client
	logger *slog.Logger
	now    func() time.Time
}

// NewProber returns a prober using client, or a client bounded by
// DefaultTimeout when client is nil.
func NewProber(logger *slog.Logger, client *http.Client) *Prober {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}

	return &Prober{
		client: client,
		logger: logger,
		now:    time.Now,
	}
}

// Probe runs the read check and, when it passes, inserts a test message.
// Every failure stops the run; there are no retries.
func (p *Prober) Probe(ctx context.Context, b *backend.Backend) Result {
	p.logger.Info("Starting backend probe", slog.String("url", b.URL()))

	if !b.Configured() {
		p.logger.Warn("Backend not configured: url or anonKey missing")
		return failure(ReasonMissingConfig)
	}

	collection := b.CollectionURL(backend.MessagesTable)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, collection+"?select=id&limit=1", nil)
	if err != nil {
		return p.exception(readStep, err)
	}
	req.Header = b.Headers()

	if res := p.do(req, readStep); !res.OK {
		return res
	}
	p.logger.Info("Backend read OK")

	payload, err := json.Marshal(backend.NewTestMessage(p.now()))
	if err != nil {
		return p.exception(insertStep, err)
	}

	req, err = http.NewRequestWithContext(ctx, http.MethodPost, collection, bytes.NewReader(payload))
	if err != nil {
		return p.exception(insertStep, err)
	}
	req.Header = b.Headers()

	if res := p.do(req, insertStep); !res.OK {
		return res
	}
	p.logger.Info("Backend insert OK, test message created")

	p.logger.Info("Backend probe finished successfully")
	return success()
}

func (p *Prober) do(req *http.Request, s step) Result {
	resp, err := p.client.Do(req)
	if err != nil {
		return p.exception(s, err)
	}
	defer resp.Body.Close()

	// Enough bytes for limit characters; the rest is never kept.
	body, err := io.ReadAll(io.LimitReader(resp.Body, int64(s.limit*utf8.UTFMax)))
	if err != nil {
		if isTimeout(err) {
			return p.exception(s, err)
		}

		res := failure(s.httpError)
		res.Status = resp.StatusCode
		res.Body = truncate(string(body), s.limit)
		p.logger.Warn("Backend "+s.name+" response broken",
			slog.Int("status", res.Status),
			slog.String("error", err.Error()),
			slog.String("body", res.Body))
		return res
	}

	if !s.accept(resp.StatusCode) {
		res := failure(s.failed)
		res.Status = resp.StatusCode
		res.Body = truncate(string(body), s.limit)
		p.logger.Warn("Backend "+s.name+" rejected",
			slog.Int("status", res.Status),
			slog.String("body", res.Body))
		return res
	}

	return success()
}

func (p *Prober) exception(s step, err error) Result {
	res := failure(s.exception)
	res.Error = err.Error()
	p.logger.Warn("Backend "+s.name+" failed", slog.String("error", res.Error))
	return res
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
