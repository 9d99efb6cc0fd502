// Package resttasks implements the service.Service interface over the
// TaskNest REST API.
package resttasks

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"

	"tasknest/internal/config"
	"tasknest/internal/service"
)

// RequestIDHeader carries a per-request correlation ID.
const RequestIDHeader = "X-Request-ID"

// ErrTimeout is returned when a call exceeds the configured timeout.
var ErrTimeout = errors.New("request timed out")

// Client implements service.Service over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	logger  *zap.Logger
}

// New creates a client for cfg.API. When tok is non-nil every request carries
// it as a bearer credential.
func New(ctx context.Context, cfg *config.Config, tok *oauth2.Token, logger *zap.Logger) (*Client, error) {
	httpClient := &http.Client{}
	if tok != nil {
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(tok))
	}
	return NewWithHTTPClient(cfg.API.URL, httpClient, cfg.API.Timeout, logger), nil
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(baseURL string, httpClient *http.Client, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = config.DefaultAPITimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		timeout: timeout,
		logger:  logger.Named("rest"),
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
}

// Login exchanges credentials for an access token.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var resp loginResponse
	err := c.do(ctx, http.MethodPost, "/login", loginRequest{Username: username, Password: password}, &resp)
	if err != nil {
		if errors.Is(err, service.ErrUnauthorized) {
			return "", service.ErrInvalidCredentials
		}
		return "", err
	}
	if resp.AccessToken == "" {
		return "", errors.New("login response missing access_token")
	}
	return resp.AccessToken, nil
}

// ListTasks returns every task in store order.
func (c *Client) ListTasks(ctx context.Context) ([]service.Task, error) {
	var out []service.Task
	if err := c.do(ctx, http.MethodGet, "/tasks", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateTask creates a task.
func (c *Client) CreateTask(ctx context.Context, in service.NewTask) (service.Task, error) {
	var out service.Task
	if err := c.do(ctx, http.MethodPost, "/tasks", in, &out); err != nil {
		return service.Task{}, err
	}
	return out, nil
}

// UpdateTask sends a partial update.
func (c *Client) UpdateTask(ctx context.Context, id int64, patch service.TaskPatch) (service.Task, error) {
	var out service.Task
	if err := c.do(ctx, http.MethodPut, taskPath(id), patch, &out); err != nil {
		return service.Task{}, err
	}
	return out, nil
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, taskPath(id), nil, nil)
}

func taskPath(id int64) string {
	return "/tasks/" + strconv.FormatInt(id, 10)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, reqID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("request failed", zap.String("method", method), zap.String("path", path),
			zap.String("request_id", reqID), zap.Error(err))
		return wrapError(err)
	}
	defer resp.Body.Close()
	c.logger.Debug("request", zap.String("method", method), zap.String("path", path),
		zap.String("request_id", reqID), zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if err := googleapi.CheckResponse(resp); err != nil {
		return wrapError(err)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return wrapError(fmt.Errorf("decode response: %w", err))
	}
	return nil
}

// wrapError maps transport and HTTP errors onto service errors.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case http.StatusUnauthorized:
			return service.ErrUnauthorized
		case http.StatusNotFound:
			return service.ErrNotFound
		}
		detail := strings.TrimSpace(gerr.Message)
		if detail == "" {
			detail = strings.TrimSpace(gerr.Body)
		}
		if detail == "" {
			detail = http.StatusText(gerr.Code)
		}
		return fmt.Errorf("server returned %d: %s", gerr.Code, detail)
	}
	return err
}
