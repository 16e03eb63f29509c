package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/godilite/washroom-dashboard/internal/backend/models"
	"github.com/godilite/washroom-dashboard/internal/report"
)

var (
	// ErrUnavailable covers network failures, non-2xx replies and bodies
	// that do not decode. The dashboard treats all of them alike.
	ErrUnavailable = errors.New("backend unavailable")
	// ErrNoData is the backend's {"message": ...} reply for an empty report.
	ErrNoData = errors.New("no data available")
)

const (
	outcomeOK          = "ok"
	outcomeNoData      = "no_data"
	outcomeUnavailable = "unavailable"
)

// RequestObserver receives one call per backend request.
type RequestObserver interface {
	ObserveBackendRequest(endpoint, outcome string, elapsed time.Duration)
}

type Options struct {
	timeout  time.Duration
	logger   *zap.Logger
	observer RequestObserver
}

type Option func(*Options)

func WithTimeout(d time.Duration) Option {
	return func(o *Options) { o.timeout = d }
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *Options) { o.logger = logger }
}

func WithObserver(obs RequestObserver) Option {
	return func(o *Options) { o.observer = obs }
}

// Client talks to the washroom feedback HTTP service.
type Client struct {
	http     *resty.Client
	logger   *zap.Logger
	observer RequestObserver
}

// New creates a client for the service at baseURL. Requests are never
// retried; the next poll is the recovery path.
func New(baseURL string, opts ...Option) *Client {
	options := &Options{
		timeout: 10 * time.Second,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.logger == nil {
		options.logger = zap.NewNop()
	}

	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(options.timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{
		http:     httpClient,
		logger:   options.logger.Named("backend"),
		observer: options.observer,
	}
}

func (c *Client) Feedbacks(ctx context.Context) ([]models.Feedback, error) {
	return getJSON[[]models.Feedback](ctx, c, "/feedbacks", nil)
}

// TopUsages returns today's busiest washrooms, already limited by the backend.
func (c *Client) TopUsages(ctx context.Context) ([]models.Usage, error) {
	return getJSON[[]models.Usage](ctx, c, "/usages", nil)
}

func (c *Client) AllUsages(ctx context.Context) ([]models.Usage, error) {
	return getJSON[[]models.Usage](ctx, c, "/all-usages", nil)
}

func (c *Client) Notifications(ctx context.Context) ([]models.Notification, error) {
	return getJSON[[]models.Notification](ctx, c, "/notifications", nil)
}

func (c *Client) Configurations(ctx context.Context) ([]models.Configuration, error) {
	return getJSON[[]models.Configuration](ctx, c, "/configurations", nil)
}

func (c *Client) Problems(ctx context.Context) ([]models.Problem, error) {
	return getJSON[[]models.Problem](ctx, c, "/problems", nil)
}

func (c *Client) WashroomStats(ctx context.Context) ([]models.WashroomStat, error) {
	return getJSON[[]models.WashroomStat](ctx, c, "/washroom-stats", nil)
}

// MarkNotificationsRead asks the backend to flag ids as read. The reply
// body is ignored.
func (c *Client) MarkNotificationsRead(ctx context.Context, ids []string) error {
	_, err := c.do(ctx, http.MethodPost, "/mark-notifications-read", nil, map[string][]string{"ids": ids})
	return err
}

func (c *Client) SendActionMessage(ctx context.Context, message string) (models.ActionResult, error) {
	return postJSON[models.ActionResult](ctx, c, "/send-action-message", map[string]string{"message": message})
}

func (c *Client) Login(ctx context.Context, creds models.Credentials) (models.AuthResult, error) {
	return postJSON[models.AuthResult](ctx, c, "/login", creds)
}

func (c *Client) Register(ctx context.Context, creds models.Credentials) (models.AuthResult, error) {
	return postJSON[models.AuthResult](ctx, c, "/register", creds)
}

// Report issues exactly one GET /report for q.
func (c *Client) Report(ctx context.Context, q report.Query) (report.Result, error) {
	params, err := q.Params()
	if err != nil {
		return report.Result{}, err
	}

	start := time.Now()
	body, err := c.send(ctx, http.MethodGet, "/report", params, nil)
	if err != nil {
		c.observe("/report", outcomeUnavailable, start)
		return report.Result{}, err
	}

	res, err := decodeReport(q.Kind, body)
	switch {
	case errors.Is(err, ErrNoData):
		c.observe("/report", outcomeNoData, start)
	case err != nil:
		c.observe("/report", outcomeUnavailable, start)
	default:
		c.observe("/report", outcomeOK, start)
	}
	return res, err
}

func decodeReport(kind report.Kind, body []byte) (report.Result, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return report.Result{}, ErrNoData
	}
	if trimmed[0] == '{' {
		var envelope struct {
			Message *string `json:"message"`
		}
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return report.Result{}, fmt.Errorf("%w: decode report: %v", ErrUnavailable, err)
		}
		if envelope.Message != nil {
			return report.Result{}, fmt.Errorf("%w: %s", ErrNoData, *envelope.Message)
		}
	}

	res := report.Result{Kind: kind}
	var target any
	switch kind {
	case report.KindUsage:
		target = &res.Usage
	case report.KindFeedback:
		target = &res.Feedback
	case report.KindRating:
		target = &res.Ratings
	default:
		return report.Result{}, fmt.Errorf("%w: %q", report.ErrInvalidKind, kind)
	}
	if err := json.Unmarshal(trimmed, target); err != nil {
		return report.Result{}, fmt.Errorf("%w: decode %s report: %v", ErrUnavailable, kind, err)
	}
	return res, nil
}

func getJSON[T any](ctx context.Context, c *Client, path string, params map[string]string) (T, error) {
	var out T
	body, err := c.do(ctx, http.MethodGet, path, params, nil)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return out, fmt.Errorf("%w: decode %s: %v", ErrUnavailable, path, err)
	}
	return out, nil
}

func postJSON[T any](ctx context.Context, c *Client, path string, payload any) (T, error) {
	var out T
	body, err := c.do(ctx, http.MethodPost, path, nil, payload)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return out, fmt.Errorf("%w: decode %s: %v", ErrUnavailable, path, err)
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, params map[string]string, payload any) ([]byte, error) {
	start := time.Now()
	body, err := c.send(ctx, method, path, params, payload)
	if err != nil {
		c.observe(path, outcomeUnavailable, start)
		return nil, err
	}
	c.observe(path, outcomeOK, start)
	return body, nil
}

func (c *Client) send(ctx context.Context, method, path string, params map[string]string, payload any) ([]byte, error) {
	req := c.http.R().SetContext(ctx)
	if len(params) > 0 {
		req.SetQueryParams(params)
	}
	if payload != nil {
		req.SetBody(payload)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		c.logger.Debug("backend request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %s %s: %v", ErrUnavailable, method, path, err)
	}
	if resp.IsError() {
		c.logger.Debug("backend returned error status",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status_code", resp.StatusCode()))
		return nil, fmt.Errorf("%w: %s %s: status %d", ErrUnavailable, method, path, resp.StatusCode())
	}
	return resp.Body(), nil
}

func (c *Client) observe(endpoint, outcome string, start time.Time) {
	if c.observer != nil {
		c.observer.ObserveBackendRequest(endpoint, outcome, time.Since(start))
	}
}
