package transport

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// RequestIDHeader is the header outbound requests are tagged with so remote
// logs can be correlated with ours.
const RequestIDHeader = "X-Request-ID"

const defaultTimeout = 30 * time.Second

// HTTP is the net/http backed Requester. It is safe for concurrent use.
type HTTP struct {
	client   *http.Client
	noFollow *http.Client
	metrics  *Metrics
	logEnc   *json.Encoder
}

// Option configures the HTTP requester.
type Option func(*HTTP)

// WithTimeout overrides the default 30s request timeout.
func WithTimeout(d time.Duration) Option {
	return func(h *HTTP) {
		h.client.Timeout = d
		h.noFollow.Timeout = d
	}
}

// WithMetrics records outbound request counts and latencies.
func WithMetrics(m *Metrics) Option {
	return func(h *HTTP) { h.metrics = m }
}

// WithLogWriter emits one JSON object per completed request to w
// (request_id, method, url, status, latency in milliseconds).
func WithLogWriter(w io.Writer) Option {
	return func(h *HTTP) { h.logEnc = json.NewEncoder(w) }
}

// NewHTTP builds an instrumented requester. Round-trips are traced via
// otelhttp; spans are no-ops unless a tracer provider is installed.
func NewHTTP(opts ...Option) *HTTP {
	rt := otelhttp.NewTransport(http.DefaultTransport)
	h := &HTTP{
		client: &http.Client{Transport: rt, Timeout: defaultTimeout},
		noFollow: &http.Client{
			Transport: rt,
			Timeout:   defaultTimeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Do executes the request and fully reads the response.
func (h *HTTP) Do(ctx context.Context, req Request) (*Response, error) {
	var (
		body io.Reader
		ct   string
	)
	if req.Body != nil {
		var err error
		ct, body, err = req.Body.Build()
		if err != nil {
			return nil, &TransportError{URL: req.URL, Err: err}
		}
	}

	hr, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, &TransportError{URL: req.URL, Err: err}
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			hr.Header.Add(k, v)
		}
	}
	if ct != "" {
		hr.Header.Set("Content-Type", ct)
	}

	rid := hr.Header.Get(RequestIDHeader)
	if rid == "" {
		rid = uuid.NewString()
		hr.Header.Set(RequestIDHeader, rid)
	}
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("http.request_id", rid))

	cl := h.client
	if req.DisableRedirects {
		cl = h.noFollow
	}

	start := time.Now()
	resp, err := cl.Do(hr)
	if err != nil {
		h.observe(rid, req.Method, req.URL, 0, time.Since(start))
		return nil, &TransportError{URL: req.URL, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		h.observe(rid, req.Method, req.URL, resp.StatusCode, time.Since(start))
		return nil, &TransportError{URL: req.URL, Err: err}
	}
	h.observe(rid, req.Method, req.URL, resp.StatusCode, time.Since(start))

	switch {
	case resp.StatusCode >= 500:
		return nil, &ServerError{Status: resp.StatusCode, Reason: reason(resp.StatusCode), URL: req.URL}
	case resp.StatusCode >= 400:
		return nil, &ClientError{Status: resp.StatusCode, Reason: reason(resp.StatusCode), URL: req.URL}
	}

	out := &Response{
		Status: resp.StatusCode,
		Header: resp.Header,
		Body:   raw,
	}
	if loc := resp.Header.Get("Location"); loc != "" {
		if u, err := hr.URL.Parse(loc); err == nil {
			out.Location = u.String()
		} else {
			out.Location = loc
		}
	}
	return out, nil
}

func (h *HTTP) observe(rid, method, url string, status int, elapsed time.Duration) {
	if h.metrics != nil {
		h.metrics.observe(method, status, elapsed)
	}
	if h.logEnc != nil {
		_ = h.logEnc.Encode(map[string]any{
			"request_id": rid,
			"method":     method,
			"url":        url,
			"status":     status,
			"latency":    float64(elapsed.Milliseconds()),
		})
	}
}

func reason(status int) string {
	if s := http.StatusText(status); s != "" {
		return s
	}
	return "empty response returned"
}
