// Package client talks to the Sprint Kit backend (validation, AI
// suggestions, PDF rendering). Every call is a JSON POST.
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

	"github.com/rs/zerolog"
)

const GenericErrorMessage = "Something went wrong. Please try again."

const (
	EndpointValidate            = "/api/projects/validate"
	EndpointValidateCriteria    = "/api/projects/validate-criteria"
	EndpointDetectType          = "/api/projects/detect-type"
	EndpointBreakDown           = "/api/projects/break-down"
	EndpointEstimateTimeline    = "/api/projects/estimate-timeline"
	EndpointValidateTimeline    = "/api/projects/validate-timeline"
	EndpointValidateTeamBalance = "/api/projects/validate-team-balance"
	EndpointReflectionPrompts   = "/api/projects/reflection-prompts"
	EndpointReflectionInsights  = "/api/projects/reflection-insights"
	EndpointAwardBadges         = "/api/projects/award-badges"
	EndpointExportPDF           = "/api/projects/export-pdf"
)

const maxResponseBytes = 10 << 20

// ErrUnavailable covers network failures and unparsable responses
var ErrUnavailable = errors.New("backend unavailable")

// APIError is a well-formed non-2xx answer from the backend
type APIError struct {
	Endpoint   string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", e.Endpoint, e.StatusCode, e.Message)
}

// Response is the uniform shape every call is normalized into
type Response struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error,omitempty"`

	StatusCode int `json:"-"`
}

// Failure is what callers see for any network or parse problem
func Failure() Response {
	return Response{Success: false, Data: nil, Error: GenericErrorMessage}
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return NewWithHTTPClient(baseURL, &http.Client{Timeout: timeout})
}

func NewWithHTTPClient(baseURL string, hc *http.Client) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: hc,
	}
}

// Post sends body to endpoint and always returns a normalized Response
func (c *Client) Post(ctx context.Context, endpoint string, body any) Response {
	resp, err := c.post(ctx, endpoint, body)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("endpoint", endpoint).Msg("backend call failed")
		return Failure()
	}
	return resp
}

func (c *Client) post(ctx context.Context, endpoint string, body any) (Response, error) {
	raw, status, _, err := c.send(ctx, endpoint, body)
	if err != nil {
		return Response{}, err
	}
	if !json.Valid(raw) {
		return Response{}, fmt.Errorf("%w: invalid JSON from %s", ErrUnavailable, endpoint)
	}

	resp := Response{
		Success:    status >= 200 && status < 300,
		Data:       raw,
		StatusCode: status,
	}
	if !resp.Success {
		resp.Error = errorMessage(raw)
	}
	return resp, nil
}

// send performs the request and returns the raw body
func (c *Client) send(ctx context.Context, endpoint string, body any) ([]byte, int, http.Header, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, 0, nil, fmt.Errorf("marshal %s request: %w", endpoint, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, 0, nil, fmt.Errorf("%w: build request: %w", ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, application/pdf")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, 0, nil, fmt.Errorf("%w: read response: %w", ErrUnavailable, err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("endpoint", endpoint).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Msg("backend call")

	return raw, resp.StatusCode, resp.Header, nil
}

// call posts and decodes a successful response into out
func (c *Client) call(ctx context.Context, endpoint string, body, out any) error {
	resp, err := c.post(ctx, endpoint, body)
	if err != nil {
		return err
	}
	if !resp.Success {
		return &APIError{Endpoint: endpoint, StatusCode: resp.StatusCode, Message: resp.Error}
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("%w: decode %s: %w", ErrUnavailable, endpoint, err)
	}
	return nil
}

func errorMessage(raw []byte) string {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && body.Error != "" {
		return body.Error
	}
	return GenericErrorMessage
}
