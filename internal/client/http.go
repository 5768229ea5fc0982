package client

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

	xlog "github.com/MarcoPinkman/Hawkeye/internal/log"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// APIError is a non-2xx answer from the control plane.
type APIError struct {
	Path       string
	StatusCode int
	Detail     string // server-reported detail, may be empty
}

func (e *APIError) Error() string {
	return fmt.Sprintf("POST %s: %d %s", e.Path, e.StatusCode, e.Message())
}

// Message is the human-facing reason: the server detail when present,
// otherwise the HTTP status text.
func (e *APIError) Message() string {
	if e.Detail != "" {
		return e.Detail
	}
	return http.StatusText(e.StatusCode)
}

// Reason extracts the text shown to the operator for a failed call.
func Reason(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message()
	}
	return err.Error()
}

// HTTPClient makes control-plane calls.
type HTTPClient struct {
	baseURL string
	token   string
	client  *http.Client
	log     zerolog.Logger
}

// NewHTTPClient creates a client targeting the given base URL (e.g. "http://127.0.0.1:8000").
func NewHTTPClient(baseURL, token string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: timeout},
		log:     xlog.WithComponent("controlplane"),
	}
}

// Start sends POST /start.
func (c *HTTPClient) Start(ctx context.Context, req StartRequest) error {
	return c.post(ctx, "/start", req)
}

// Stop sends POST /stop with an empty body.
func (c *HTTPClient) Stop(ctx context.Context) error {
	return c.post(ctx, "/stop", nil)
}

func (c *HTTPClient) post(ctx context.Context, path string, body interface{}) error {
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	reqID := uuid.NewString()
	req.Header.Set("X-Request-ID", reqID)
	c.setAuth(req)

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str(xlog.FieldURL, path).Str(xlog.FieldRequestID, reqID).Msg("control plane unreachable")
		return fmt.Errorf("POST %s: %w", path, err)
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str(xlog.FieldURL, path).
		Str(xlog.FieldRequestID, reqID).
		Int(xlog.FieldStatus, resp.StatusCode).
		Dur(xlog.FieldDuration, time.Since(start)).
		Msg("control plane call")

	if resp.StatusCode >= 300 || resp.StatusCode < 200 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		apiErr := &APIError{Path: path, StatusCode: resp.StatusCode}
		var eb ErrorBody
		if json.Unmarshal(respBody, &eb) == nil {
			apiErr.Detail = eb.Detail
		}
		return apiErr
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *HTTPClient) setAuth(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}
