package metrics

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"
)

type EventType string

const (
	EventRequestReceived   EventType = "request_received"
	EventResponseCompleted EventType = "response_completed"
	EventProbeCompleted    EventType = "probe_completed"
)

type MetricEvent struct {
	Type       EventType
	Timestamp  time.Time
	Path       string
	Duration   time.Duration
	StatusCode int
	Bytes      int64
	Reason     string
}

type Collector struct {
	eventCh chan MetricEvent
	metrics *Metrics
	logger  *slog.Logger
	done    chan struct{}
	once    sync.Once
}

func NewCollector(bufferSize int, logger *slog.Logger) *Collector {
	return &Collector{
		eventCh: make(chan MetricEvent, bufferSize),
		metrics: NewMetrics(),
		logger:  logger,
		done:    make(chan struct{}),
	}
}

func (c *Collector) EventChannel() chan<- MetricEvent {
	return c.eventCh
}

// Emit sends an event without blocking; it is dropped when the buffer is full.
func (c *Collector) Emit(event MetricEvent) bool {
	select {
	case c.eventCh <- event:
		return true
	default:
		return false
	}
}

func (c *Collector) Start(ctx context.Context) {
	c.once.Do(func() {
		go c.run(ctx)
	})
}

// Done is closed once the collector has drained its events after cancellation.
func (c *Collector) Done() <-chan struct{} {
	return c.done
}

func (c *Collector) run(ctx context.Context) {
	c.logger.Debug("Metrics collector started")
	defer c.logger.Debug("Metrics collector stopped")
	defer close(c.done)

	for {
		select {
		case event := <-c.eventCh:
			c.processEvent(event)
		case <-ctx.Done():
			c.drain()
			return
		}
	}
}

func (c *Collector) processEvent(event MetricEvent) {
	switch event.Type {
	case EventRequestReceived:
		c.metrics.IncrementRequests(event.Path)

	case EventResponseCompleted:
		c.metrics.RecordResponse(event.Path, event.Duration, event.StatusCode, event.Bytes)

	case EventProbeCompleted:
		c.metrics.SetProbe(event.Reason)
	}
}

func (c *Collector) drain() {
	for {
		select {
		case event := <-c.eventCh:
			c.processEvent(event)
		default:
			return
		}
	}
}

func (c *Collector) Snapshot() Snapshot {
	return c.metrics.Snapshot()
}

// LogSummary writes one line describing the traffic served so far.
func (c *Collector) LogSummary(logger *slog.Logger) {
	snap := c.Snapshot()

	codes := make([]any, 0, len(snap.StatusTotals()))
	for code, n := range snap.StatusTotals() {
		codes = append(codes, slog.Int64(statusKey(code), n))
	}

	logger.Info("Request summary",
		slog.Int64("requests", snap.TotalRequests),
		slog.Int64("bytes", snap.TotalBytes),
		slog.Int("paths", len(snap.Paths)),
		slog.Duration("uptime", snap.Uptime),
		slog.String("probe", snap.Probe),
		slog.Group("status", codes...),
		slog.Group("response",
			slog.Duration("avg", snap.Response.Avg),
			slog.Duration("p50", snap.Response.P50),
			slog.Duration("p95", snap.Response.P95),
			slog.Duration("p99", snap.Response.P99)))
}

func statusKey(code int) string {
	return strconv.Itoa(code)
}
