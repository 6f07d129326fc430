package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"

	uuid "github.com/kthomas/go.uuid"
	"golang.org/x/time/rate"
	"gopkg.in/retry.v1"

	"pocketrelay/internal/domain"
)

// DefaultTimeout bounds a single attempt when SendOptions.Timeout is zero.
const DefaultTimeout = time.Second

var (
	// ErrTimeout is returned when the last attempt was aborted by its deadline.
	ErrTimeout = errors.New("request timed out")

	// ErrNoDispatchers is returned for dispatch calls when no dispatcher is configured.
	ErrNoDispatchers = errors.New("no dispatchers configured")

	// ErrNoRPCURL is returned for non-dispatch calls without a target or RPC URL.
	ErrNoRPCURL = errors.New("no rpc url configured")
)

// Logger is the subset of a leveled logger the transport writes to.
type Logger interface {
	Debugf(msg string, v ...interface{})
	Warningf(msg string, v ...interface{})
}

// Config holds the endpoints and collaborators of an HTTP transport.
type Config struct {
	RPCURL      string
	Dispatchers []string
	HTTP        *http.Client  // optional; defaults to http.DefaultClient
	Limiter     *rate.Limiter // optional; gates every attempt
	Logger      Logger        // optional
}

// HTTP posts JSON to Pocket RPC endpoints.
type HTTP struct {
	rpcURL      string
	dispatchers []string
	http        *http.Client
	limiter     *rate.Limiter
	log         Logger
}

var _ domain.Transport = (*HTTP)(nil)

// New builds an HTTP transport from cfg.
func New(cfg Config) *HTTP {
	c := &HTTP{
		rpcURL:      cfg.RPCURL,
		dispatchers: append([]string(nil), cfg.Dispatchers...),
		http:        cfg.HTTP,
		limiter:     cfg.Limiter,
		log:         cfg.Logger,
	}
	if c.http == nil {
		c.http = http.DefaultClient
	}
	if c.log == nil {
		c.log = nopLogger{}
	}
	return c
}

// HasDispatchers reports whether at least one dispatcher URL is configured.
func (c *HTTP) HasDispatchers() bool { return len(c.dispatchers) > 0 }

// Send posts body to route and returns the last response.
func (c *HTTP) Send(ctx context.Context, route domain.Route, body any, target string, opts domain.SendOptions) (*domain.Response, error) {
	base, err := c.resolve(route, target)
	if err != nil {
		return nil, err
	}
	buf := new(bytes.Buffer)
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(body); err != nil {
		return nil, fmt.Errorf("encode %s body: %w", route, err)
	}
	payload := buf.Bytes()

	url := strings.TrimRight(base, "/") + route.String()
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	retries := opts.RetryAttempts
	if retries < 0 {
		retries = 0
	}
	id := requestID()

	var (
		resp *domain.Response
		n    int
	)
	strategy := retry.LimitCount(retries+1, retry.Exponential{Initial: time.Millisecond, Factor: 1})
	for attempt := retry.Start(strategy, nil); attempt.Next(); {
		n++
		start := time.Now()
		resp, err = c.attempt(ctx, url, payload, timeout)
		switch {
		case err != nil:
			c.log.Warningf("rpc %s POST %s attempt %d/%d failed after %s: %s", id, url, n, retries+1, time.Since(start), err)
		case !resp.OK():
			c.log.Warningf("rpc %s POST %s attempt %d/%d: status %d after %s", id, url, n, retries+1, resp.StatusCode, time.Since(start))
		default:
			c.log.Debugf("rpc %s POST %s attempt %d/%d: status %d after %s", id, url, n, retries+1, resp.StatusCode, time.Since(start))
			return resp, nil
		}
		if ctx.Err() != nil {
			break
		}
	}

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: POST %s after %d attempt(s): %v", ErrTimeout, url, n, err)
		}
		return nil, fmt.Errorf("POST %s after %d attempt(s): %w", url, n, err)
	}
	return resp, nil
}

// attempt performs one POST under its own timeout.
func (c *HTTP) attempt(ctx context.Context, url string, payload []byte, timeout time.Duration) (*domain.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return &domain.Response{StatusCode: resp.StatusCode, Body: b}, nil
}

func (c *HTTP) resolve(route domain.Route, target string) (string, error) {
	switch {
	case target != "":
		return target, nil
	case route == domain.ClientDispatch:
		if len(c.dispatchers) == 0 {
			return "", ErrNoDispatchers
		}
		return c.dispatchers[rand.IntN(len(c.dispatchers))], nil
	case c.rpcURL == "":
		return "", ErrNoRPCURL
	}
	return c.rpcURL, nil
}

func requestID() string {
	id, err := uuid.NewV4()
	if err != nil {
		return "-"
	}
	return id.String()
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...interface{})   {}
func (nopLogger) Warningf(string, ...interface{}) {}
