// Package client talks to the camera HTTP API the way the web console does:
// it reads the latest caption, lists and edits prompts, and uploads images.
package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"genai-camera/internal/domain"
)

// APIError captures non-2xx responses. Code and Message are filled from the
// JSON error envelope when the body carries one.
type APIError struct {
	StatusCode int
	URL        string
	Code       string
	Message    string
	Body       string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Body
	}
	if e.Code != "" {
		return fmt.Sprintf("client: %s %d from %s: %s", e.Code, e.StatusCode, e.URL, msg)
	}
	return fmt.Sprintf("client: unexpected status %d from %s: %s", e.StatusCode, e.URL, msg)
}

func (e *APIError) HTTPStatusCode() int {
	return e.StatusCode
}

// Client is a focused client for the caption, prompt and camera routes.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

type Option func(*Client)

func WithToken(token string) Option {
	return func(c *Client) {
		c.token = strings.TrimSpace(token)
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// New creates a client for the API at endpoint, e.g.
// https://abc123.execute-api.ap-northeast-1.amazonaws.com.
func New(endpoint string, opts ...Option) (*Client, error) {
	endpoint = strings.TrimRight(strings.TrimSpace(endpoint), "/")
	if endpoint == "" {
		return nil, errors.New("client: endpoint must not be empty")
	}
	u, err := url.Parse(endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("client: invalid endpoint %q", endpoint)
	}
	c := &Client{
		baseURL:    endpoint,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Caption returns the latest classification record. found is false while the
// API answers with an empty object.
func (c *Client) Caption(ctx context.Context) (domain.Classification, bool, error) {
	var rec domain.Classification
	if err := c.do(ctx, http.MethodGet, "/caption", nil, &rec); err != nil {
		return domain.Classification{}, false, err
	}
	found := rec.Timestamp != "" || rec.ID != ""
	return rec, found, nil
}

func (c *Client) Prompts(ctx context.Context) (domain.PromptList, error) {
	var out domain.PromptList
	if err := c.do(ctx, http.MethodGet, "/prompts", nil, &out); err != nil {
		return domain.PromptList{}, err
	}
	return out, nil
}

// PutPrompt edits a prompt (when req.ID is set) and selects req.SelectedID.
func (c *Client) PutPrompt(ctx context.Context, req domain.PutPromptRequest) (domain.PutPromptRequest, error) {
	var out domain.PutPromptRequest
	if err := c.do(ctx, http.MethodPut, "/prompt", req, &out); err != nil {
		return domain.PutPromptRequest{}, err
	}
	return out, nil
}

// UploadImage sends raw JPEG bytes as a camera capture.
func (c *Client) UploadImage(ctx context.Context, data []byte, fileName string) (domain.UploadResult, error) {
	if len(data) == 0 {
		return domain.UploadResult{}, errors.New("client: image must not be empty")
	}
	req := domain.UploadImageRequest{
		Image:      base64.StdEncoding.EncodeToString(data),
		InFileName: filepath.Base(fileName),
	}
	var out domain.UploadResult
	if err := c.do(ctx, http.MethodPost, "/camera", req, &out); err != nil {
		return domain.UploadResult{}, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("client: marshal request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	u := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("client: create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	raw, err := c.doJSONRequest(req, u)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("client: decode response: %w", err)
	}
	return nil
}

func (c *Client) doJSONRequest(req *http.Request, u string) ([]byte, error) {
	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("client: %s %s: %w", req.Method, u, err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		buf, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		apiErr := &APIError{StatusCode: res.StatusCode, URL: u, Body: string(buf)}
		var envelope struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		if json.Unmarshal(buf, &envelope) == nil {
			apiErr.Code = envelope.Error
			apiErr.Message = envelope.Message
		}
		return nil, apiErr
	}

	buf, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("client: read response body: %w", err)
	}
	return buf, nil
}
