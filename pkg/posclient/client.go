// Package posclient is a typed HTTP client for the POS API.
//
// Every call carries a bearer token from a TokenSource. A 401 response
// triggers one Refresh and one retry of the same request. Calls run through
// a circuit breaker that counts transport failures and 5xx responses only,
// so business rejections such as INSUFFICIENT_STOCK never open it.
package posclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

const (
	defaultTimeout = 10 * time.Second
	apiPrefix      = "/api/v1"
)

// ErrCircuitOpen is returned while the breaker rejects calls
var ErrCircuitOpen = errors.New("posclient: circuit breaker open")

// TokenSource supplies bearer tokens. Refresh is called after the server
// rejects the current token and must return a new one.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
	Refresh(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource whose token never changes
type StaticToken string

// Token returns the token
func (t StaticToken) Token(context.Context) (string, error) { return string(t), nil }

// Refresh returns the same token
func (t StaticToken) Refresh(context.Context) (string, error) { return string(t), nil }

// BreakerSettings tunes the circuit breaker
type BreakerSettings struct {
	Name                string
	MaxRequests         uint32
	Interval            time.Duration
	Timeout             time.Duration
	ConsecutiveFailures uint32
}

// DefaultBreakerSettings trips after five consecutive failures and probes
// again after thirty seconds.
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		Name:                "pos-api",
		MaxRequests:         1,
		Interval:            time.Minute,
		Timeout:             30 * time.Second,
		ConsecutiveFailures: 5,
	}
}

// Client talks to one POS server
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	breaker    *gobreaker.CircuitBreaker
	breakerCfg BreakerSettings
	logger     *zap.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger used for breaker state changes
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithBreakerSettings overrides DefaultBreakerSettings
func WithBreakerSettings(s BreakerSettings) Option {
	return func(c *Client) {
		c.breakerCfg = s
	}
}

// New creates a client for baseURL, e.g. http://localhost:8080
func New(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		tokens:     tokens,
		breakerCfg: DefaultBreakerSettings(),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	cfg := c.breakerCfg
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.ConsecutiveFailures
		},
		IsSuccessful: isBreakerSuccess,
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn("Circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
	return c
}

// BreakerState reports the breaker state
func (c *Client) BreakerState() gobreaker.State {
	return c.breaker.State()
}

func isBreakerSuccess(err error) bool {
	if err == nil {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status < http.StatusInternalServerError
	}
	return errors.Is(err, context.Canceled)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id"`
	} `json:"error"`
	Meta *Meta `json:"meta"`
}

type call struct {
	method  string
	path    string
	query   map[string]string
	headers map[string]string
	body    any
}

// do runs c through the breaker, decoding the envelope's data into out
func (c *Client) do(ctx context.Context, req call, out any) (*Meta, error) {
	var payload []byte
	if req.body != nil {
		var err error
		if payload, err = json.Marshal(req.body); err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
	}

	result, err := c.breaker.Execute(func() (any, error) {
		return c.send(ctx, req, payload)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %s", ErrCircuitOpen, err)
	}
	if err != nil {
		return nil, err
	}

	env := result.(*envelope)
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, fmt.Errorf("decode response data: %w", err)
		}
	}
	return env.Meta, nil
}

// send performs the request, refreshing the token and retrying once on 401
func (c *Client) send(ctx context.Context, req call, payload []byte) (*envelope, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("get token: %w", err)
	}

	status, env, err := c.roundTrip(ctx, req, payload, token)
	if err != nil {
		return nil, err
	}
	if status == http.StatusUnauthorized {
		if token, err = c.tokens.Refresh(ctx); err != nil {
			return nil, fmt.Errorf("refresh token: %w", err)
		}
		if status, env, err = c.roundTrip(ctx, req, payload, token); err != nil {
			return nil, err
		}
	}

	if status >= http.StatusBadRequest || !env.Success {
		apiErr := &APIError{Status: status}
		if env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
			apiErr.RequestID = env.Error.RequestID
		}
		return nil, apiErr
	}
	return env, nil
}

func (c *Client) roundTrip(ctx context.Context, req call, payload []byte, token string) (int, *envelope, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.baseURL+apiPrefix+req.path, body)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("Accept", "application/json")
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range req.headers {
		httpReq.Header.Set(k, v)
	}
	if len(req.query) > 0 {
		q := httpReq.URL.Query()
		for k, v := range req.query {
			if v != "" {
				q.Set(k, v)
			}
		}
		httpReq.URL.RawQuery = q.Encode()
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return 0, nil, fmt.Errorf("%s %s: %w", req.method, req.path, err)
	}
	defer resp.Body.Close()

	env := &envelope{}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read response: %w", err)
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, env); err != nil {
			return resp.StatusCode, &envelope{}, nil
		}
	}
	return resp.StatusCode, env, nil
}
