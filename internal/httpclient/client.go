// Package httpclient is the outbound API client. It attaches the stored
// bearer token to every call and transparently retries a 401 response
// exactly once.
package httpclient

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// TokenSource supplies the current token, when one is stored.
type TokenSource interface {
	Load(ctx context.Context) (string, bool)
}

// Request describes one outgoing API call. The retried flag is threaded
// through the request value explicitly rather than mutated from outside.
type Request struct {
	Method  string
	Path    string
	Body    []byte
	Header  http.Header
	retried bool
}

// Response is the outcome visible to callers.
type Response struct {
	StatusCode int
	Body       []byte
	Header     http.Header
}

// Client wraps net/http with the bearer/retry interceptors.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	logger  *zap.Logger
}

// New builds a client rooted at baseURL.
func New(baseURL string, tokens TokenSource, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		tokens:  tokens,
		logger:  logger,
	}
}

// Do executes the request. A 401 on a not-yet-retried request is re-issued
// once; every other error status propagates to the caller immediately.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	resp, err := c.send(ctx, req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized && !req.retried {
		req.retried = true
		c.logger.Debug("retrying unauthorized request once",
			zap.String("method", req.Method),
			zap.String("path", req.Path),
		)
		return c.send(ctx, req)
	}

	return resp, nil
}

// Get issues a GET request against path.
func (c *Client) Get(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, Path: path})
}

// Post issues a POST request with a JSON body against path.
func (c *Client) Post(ctx context.Context, path string, body []byte) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Body: body})
}

func (c *Client) send(ctx context.Context, req *Request) (*Response, error) {
	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, c.baseURL+req.Path, body)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	for key, values := range req.Header {
		for _, value := range values {
			httpReq.Header.Add(key, value)
		}
	}

	if token, ok := c.tokens.Load(ctx); ok {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, err
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Body:       respBody,
		Header:     httpResp.Header,
	}, nil
}
