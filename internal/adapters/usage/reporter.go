// Package usage sends anonymous, best-effort usage events.
package usage

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.trai.ch/sprout/internal/core/domain"
	"go.trai.ch/sprout/internal/core/ports"
	"go.trai.ch/zerr"
)

// HeaderName is the request header carrying the JSON payload.
const HeaderName = "X-Sprout-Client-Info"

// Reporter implements ports.UsageReporter over HTTP. Reports run in the
// background and every failure is logged at debug level.
type Reporter struct {
	endpoint string
	timeout  time.Duration
	client   *http.Client
	probe    Probe
	logger   ports.Logger

	wg sync.WaitGroup
}

var _ ports.UsageReporter = (*Reporter)(nil)

// Option configures a Reporter.
type Option func(*Reporter)

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(r *Reporter) { r.client = c }
}

// WithProbe sets the host probe.
func WithProbe(p Probe) Option {
	return func(r *Reporter) { r.probe = p }
}

// WithLogger sets the debug logger.
func WithLogger(l ports.Logger) Option {
	return func(r *Reporter) { r.logger = l }
}

// NewReporter creates a reporter for the given settings.
func NewReporter(settings domain.TelemetrySettings, opts ...Option) *Reporter {
	r := &Reporter{
		endpoint: settings.Endpoint,
		timeout:  settings.Timeout,
		client:   http.DefaultClient,
	}
	if r.endpoint == "" {
		r.endpoint = domain.DefaultTelemetryURL
	}
	if r.timeout <= 0 {
		r.timeout = domain.DefaultTelemetryTimeout
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Report sends event in the background.
func (r *Reporter) Report(event domain.UsageEvent) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		event, errs := r.probe.Fill(context.Background(), event)
		for _, err := range errs {
			r.debug(fmt.Sprintf("usage probe: %v", err))
		}

		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()
		if err := r.send(ctx, event); err != nil {
			r.debug(fmt.Sprintf("usage report not sent: %v", err))
		}
	}()
}

// Close waits for in-flight reports until ctx is done.
func (r *Reporter) Close(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		r.debug("usage report abandoned")
	}
}

func (r *Reporter) send(ctx context.Context, event domain.UsageEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return zerr.Wrap(err, "failed to encode usage event")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, http.NoBody)
	if err != nil {
		return zerr.Wrap(err, "failed to create usage request")
	}
	req.Header.Set(HeaderName, string(payload))

	resp, err := r.client.Do(req)
	if err != nil {
		return zerr.Wrap(err, "usage request failed")
	}
	_ = resp.Body.Close()

	r.debug(fmt.Sprintf("sent usage event to %s: %s", r.endpoint, Redact(string(payload), event.DistinctID)))
	return nil
}

func (r *Reporter) debug(msg string) {
	if r.logger != nil {
		r.logger.Debug(msg)
	}
}

// Redact hides the distinct ID in s.
func Redact(s, distinctID string) string {
	if distinctID == "" {
		return s
	}
	return strings.ReplaceAll(s, distinctID, "<redacted>")
}

// NoopReporter discards every event.
type NoopReporter struct{}

// Report does nothing.
func (NoopReporter) Report(_ domain.UsageEvent) {}

// Close does nothing.
func (NoopReporter) Close(_ context.Context) {}
