package httpclient

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"chain_insight/internal/pkg/metrics"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// maxMessageBytes bounds how much of an upstream body is copied into an error message.
const maxMessageBytes = 512

// ErrorKind classifies a transport failure.
type ErrorKind string

const (
	KindTimeout       ErrorKind = "timeout"
	KindConnection    ErrorKind = "connection"
	KindHTTPStatus    ErrorKind = "http_status"
	KindMalformedBody ErrorKind = "malformed_body"
	KindRateLimited   ErrorKind = "rate_limited"
)

// TransportError is returned for every failed upstream exchange. URL has credentials redacted.
type TransportError struct {
	Kind       ErrorKind
	URL        string
	StatusCode int
	Message    string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s (%d) from %s: %s", e.Kind, e.StatusCode, e.URL, e.Message)
	}
	return fmt.Sprintf("%s from %s: %s", e.Kind, e.URL, e.Message)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// JSONTransport fetches and decodes JSON documents.
type JSONTransport interface {
	GetJSON(ctx context.Context, url string, out any) error
	PostJSON(ctx context.Context, url string, body any, out any) error
}

// Options configures a Transport. Zero RatePerSecond disables rate limiting.
type Options struct {
	Source        string
	Timeout       time.Duration
	RatePerSecond float64
	Burst         int
	Dial          fasthttp.DialFunc
}

// Transport is a fasthttp-backed JSONTransport bound to one upstream source.
type Transport struct {
	client  *fasthttp.Client
	source  string
	timeout time.Duration
	limiter *rate.Limiter
	logger  *zap.Logger
}

var _ JSONTransport = (*Transport)(nil)

// NewTransport creates a Transport for one source.
func NewTransport(opts Options, logger *zap.Logger) *Transport {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	var limiter *rate.Limiter
	if opts.RatePerSecond > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RatePerSecond), burst)
	}
	return &Transport{
		client: &fasthttp.Client{
			Name:                "chain_insight",
			Dial:                opts.Dial,
			MaxIdleConnDuration: 30 * time.Second,
		},
		source:  opts.Source,
		timeout: opts.Timeout,
		limiter: limiter,
		logger:  logger.Named("Transport").With(zap.String("source", opts.Source)),
	}
}

// GetJSON issues a GET and decodes the response body into out.
func (t *Transport) GetJSON(ctx context.Context, url string, out any) error {
	return t.do(ctx, fasthttp.MethodGet, url, nil, out)
}

// PostJSON encodes body as JSON, issues a POST and decodes the response body into out.
func (t *Transport) PostJSON(ctx context.Context, url string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request body for %s: %w", RedactURL(url), err)
	}
	return t.do(ctx, fasthttp.MethodPost, url, payload, out)
}

func (t *Transport) do(ctx context.Context, method, url string, payload []byte, out any) error {
	started := time.Now()
	safeURL := RedactURL(url)

	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return t.fail(started, &TransportError{Kind: KindRateLimited, URL: safeURL, Message: err.Error(), Err: err})
		}
	}
	if err := ctx.Err(); err != nil {
		return t.fail(started, &TransportError{Kind: KindTimeout, URL: safeURL, Message: err.Error(), Err: err})
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(url)
	req.Header.SetMethod(method)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.SetContentType("application/json")
		req.SetBodyRaw(payload)
	}

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	// The tighter of the caller's deadline and the source timeout wins.
	deadline := time.Now().Add(t.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}

	t.logger.Debug("Requesting upstream", zap.String("method", method), zap.String("url", safeURL))

	if err := t.client.DoDeadline(req, resp, deadline); err != nil {
		kind := KindConnection
		if errors.Is(err, fasthttp.ErrTimeout) || errors.Is(err, fasthttp.ErrDialTimeout) {
			kind = KindTimeout
		}
		return t.fail(started, &TransportError{Kind: kind, URL: safeURL, Message: err.Error(), Err: err})
	}

	rawBody := resp.Body()
	status := resp.StatusCode()
	if status < fasthttp.StatusOK || status >= fasthttp.StatusMultipleChoices {
		return t.fail(started, &TransportError{
			Kind:       KindHTTPStatus,
			URL:        safeURL,
			StatusCode: status,
			Message:    truncate(rawBody),
		})
	}

	if err := json.Unmarshal(rawBody, out); err != nil {
		return t.fail(started, &TransportError{
			Kind:       KindMalformedBody,
			URL:        safeURL,
			StatusCode: status,
			Message:    err.Error(),
			Err:        err,
		})
	}

	metrics.ObserveUpstream(t.source, "ok", started)
	t.logger.Debug("Upstream request succeeded",
		zap.String("url", safeURL),
		zap.Int("statusCode", status),
		zap.Duration("latency", time.Since(started)))
	return nil
}

func (t *Transport) fail(started time.Time, err *TransportError) error {
	metrics.ObserveUpstream(t.source, string(err.Kind), started)
	t.logger.Warn("Upstream request failed",
		zap.String("kind", string(err.Kind)),
		zap.String("url", err.URL),
		zap.Int("statusCode", err.StatusCode),
		zap.String("message", err.Message))
	return err
}

func truncate(body []byte) string {
	if len(body) > maxMessageBytes {
		return string(body[:maxMessageBytes]) + "..."
	}
	return string(body)
}

var (
	apiKeyParam  = regexp.MustCompile(`(?i)(apikey=)[^&]*`)
	gatewayToken = regexp.MustCompile(`/[^/]+/subgraphs/`)
)

// RedactURL hides API keys carried either as an apikey query parameter
// or as the path segment in front of /subgraphs/.
func RedactURL(url string) string {
	url = apiKeyParam.ReplaceAllString(url, "${1}***")
	return gatewayToken.ReplaceAllString(url, "/***/subgraphs/")
}
