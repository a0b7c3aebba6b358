// Raw HTTP access to the FitHub REST backend
package services

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

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/desertthunder/fitx/internal/shared"
)

const defaultBaseURL string = "http://localhost:5000/api"

// APIService performs raw HTTP requests against the backend.
//
// It paces requests with a token-bucket limiter, tags each request with an X-Request-ID
// and classifies transport failures as [shared.ErrTransport]. It never retries.
type APIService struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *log.Logger
}

// APIOption configures an [APIService].
type APIOption func(*APIService)

// WithRateLimit paces requests to rps per second. Zero or negative disables pacing.
func WithRateLimit(rps float64) APIOption {
	return func(a *APIService) {
		if rps > 0 {
			a.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		} else {
			a.limiter = nil
		}
	}
}

// WithLogger logs each request at debug level.
func WithLogger(l *log.Logger) APIOption {
	return func(a *APIService) { a.logger = l }
}

// NewAPIService creates a new API service instance for the backend at baseURL.
func NewAPIService(baseURL string, client *http.Client, opts ...APIOption) *APIService {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	a := &APIService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// BaseURL returns the backend root every path is joined to.
func (a *APIService) BaseURL() string { return a.baseURL }

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	IsJSON     bool
	JSONData   any
	RequestID  string
}

// OK reports whether the status is 2xx.
func (r *APIResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Err returns a [*shared.RemoteError] for non-2xx responses and nil otherwise.
//
// The message comes from the body's "error" (or "message") field when present.
func (r *APIResponse) Err(method, path string) error {
	if r.OK() {
		return nil
	}

	remote := &shared.RemoteError{Method: method, Path: path, Status: r.StatusCode}
	if m, ok := r.JSONData.(map[string]any); ok {
		for _, key := range []string{"error", "message", "detail"} {
			if s, ok := m[key].(string); ok && s != "" {
				remote.Message = s
				break
			}
		}
	}
	return remote
}

// Do sends a request and returns the raw response regardless of status.
//
// header is merged into the request; body, when non-nil, is sent as JSON.
func (a *APIService) Do(ctx context.Context, method, path string, body []byte, header http.Header) (*APIResponse, error) {
	if a.limiter != nil {
		if err := a.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %s %s: %w", shared.ErrTransport, method, path, err)
		}
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	requestID := shared.GenerateID()
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := a.httpClient.Do(req)
	if err != nil {
		a.debug(method, path, requestID, 0, start)
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: request failed: %w: %w", shared.ErrTransport, shared.ErrTimeout, err)
		}
		return nil, fmt.Errorf("%w: request failed: %w", shared.ErrTransport, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %w", shared.ErrTransport, err)
	}
	a.debug(method, path, requestID, resp.StatusCode, start)

	apiResp := &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       data,
		RequestID:  requestID,
	}

	var jsonData any
	if err := json.Unmarshal(data, &jsonData); err == nil {
		apiResp.IsJSON = true
		apiResp.JSONData = jsonData
	}

	return apiResp, nil
}

func (a *APIService) debug(method, path, requestID string, status int, start time.Time) {
	if a.logger == nil {
		return
	}
	a.logger.Debug(method, "path", path, "status", status, "request_id", requestID, "elapsed", time.Since(start))
}

// Get performs a GET request to the specified path and returns the raw response.
func (a *APIService) Get(ctx context.Context, path string, header http.Header) (*APIResponse, error) {
	return a.Do(ctx, http.MethodGet, path, nil, header)
}

// Post performs a POST request with the given JSON data and returns the raw response.
func (a *APIService) Post(ctx context.Context, path string, data []byte, header http.Header) (*APIResponse, error) {
	if data == nil {
		data = []byte{}
	}
	return a.Do(ctx, http.MethodPost, path, data, header)
}

// Put performs a PUT request with the given JSON data and returns the raw response.
func (a *APIService) Put(ctx context.Context, path string, data []byte, header http.Header) (*APIResponse, error) {
	if data == nil {
		data = []byte{}
	}
	return a.Do(ctx, http.MethodPut, path, data, header)
}

// Delete performs a DELETE request and returns the raw response.
func (a *APIService) Delete(ctx context.Context, path string, header http.Header) (*APIResponse, error) {
	return a.Do(ctx, http.MethodDelete, path, nil, header)
}
