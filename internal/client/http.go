package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/alfredjeanlab/potties/internal/model"
)

// HTTPClient implements PottyClient against the REST API.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPClient creates a client targeting baseURL (e.g. "http://localhost:8080").
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
}

var _ PottyClient = (*HTTPClient)(nil)

// Close is a no-op for the HTTP client.
func (c *HTTPClient) Close() error { return nil }

// --- Potties ---

// ListPotties lists potties. An empty status lists all of them.
func (c *HTTPClient) ListPotties(ctx context.Context, status string) ([]*model.Potty, error) {
	path := "/api/potties"
	if status != "" {
		path += "?" + url.Values{"status": {status}}.Encode()
	}
	var potties []*model.Potty
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &potties); err != nil {
		return nil, err
	}
	return potties, nil
}

func (c *HTTPClient) GetPotty(ctx context.Context, id int64) (*model.Potty, error) {
	var p model.Potty
	if err := c.doJSON(ctx, http.MethodGet, pottyPath(id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) CreatePotty(ctx context.Context, req *CreatePottyRequest) (*model.Potty, error) {
	var p model.Potty
	if err := c.doJSON(ctx, http.MethodPost, "/api/potties", req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// SetStatus PATCHes the status of a potty. The server notifies subscribers
// before it responds.
func (c *HTTPClient) SetStatus(ctx context.Context, id int64, status string) (*model.Potty, error) {
	var p model.Potty
	body := map[string]string{"status": status}
	if err := c.doJSON(ctx, http.MethodPatch, pottyPath(id), body, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// --- Subscribers ---

func (c *HTTPClient) ListSubscribers(ctx context.Context) ([]*model.Subscriber, error) {
	var subs []*model.Subscriber
	if err := c.doJSON(ctx, http.MethodGet, "/subscribers", nil, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

func (c *HTTPClient) Subscribe(ctx context.Context, hookURL string) (*model.Subscriber, error) {
	var s model.Subscriber
	if err := c.doJSON(ctx, http.MethodPost, "/subscribers", map[string]string{"url": hookURL}, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *HTTPClient) Unsubscribe(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, "/subscribers/"+strconv.FormatInt(id, 10), nil, nil)
}

// --- Health ---

func (c *HTTPClient) Health(ctx context.Context) (string, error) {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/health", nil, &resp); err != nil {
		return "", err
	}
	return resp.Status, nil
}

// --- internal helpers ---

func pottyPath(id int64) string {
	return "/api/potties/" + strconv.FormatInt(id, 10)
}

// APIError represents an error response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// doJSON performs an HTTP request with optional JSON body and decodes the JSON response.
// If result is nil, the response body is discarded (for DELETE/204 responses).
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body any, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			return &APIError{StatusCode: resp.StatusCode, Message: errResp.Error}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}
