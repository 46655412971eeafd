package reasoner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout bounds every remote call so an unresponsive reasoner
// degrades into ErrUnavailable instead of hanging the pipeline.
const DefaultTimeout = 10 * time.Second

// Client is an HTTP Reasoner talking to a remote reasoner service.
// Transport failures, timeouts and 5xx responses surface as ErrUnavailable;
// a 404 surfaces as ErrNotFound.
type Client struct {
	baseURL string
	http    *http.Client
}

var _ Reasoner = (*Client)(nil)

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.http = hc }
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.http.Timeout = d }
}

// NewClient builds a Client for the reasoner at baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) FetchContext(ctx context.Context, studentID string) (*StudentContext, error) {
	req := map[string]string{"student_id": studentID}
	var sc StudentContext
	if err := c.post(ctx, "/context", req, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}

func (c *Client) RecommendTemplate(ctx context.Context, sc *StudentContext) (*Recommendation, error) {
	var rec Recommendation
	if err := c.post(ctx, "/template/recommend", sc, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (c *Client) FetchTemplateDefinition(ctx context.Context, name string) (*TemplateDefinition, error) {
	var def TemplateDefinition
	if err := c.get(ctx, "/templates/"+name, &def); err != nil {
		return nil, err
	}
	return &def, nil
}

func (c *Client) ProposeActivities(ctx context.Context, stage string, sc *StudentContext) ([]Activity, error) {
	req := struct {
		Stage   string          `json:"stage"`
		Context *StudentContext `json:"context"`
	}{Stage: stage, Context: sc}

	var resp struct {
		Stage      string     `json:"stage"`
		Activities []Activity `json:"activities"`
	}
	if err := c.post(ctx, "/activities/propose", req, &resp); err != nil {
		return nil, err
	}
	return resp.Activities, nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, ErrNotFound)
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: %s %s returned %d", ErrUnavailable, req.Method, req.URL.Path, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s %s returned %d: %s", req.Method, req.URL.Path, resp.StatusCode, bytes.TrimSpace(body))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
