package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const maxResponseSize = 10 << 20

type Config struct {
	BaseURL string
	Timeout time.Duration
	Retry   RetryPolicy
	Limiter *Limiter
}

// Client is the JSON-over-HTTP transport shared by the OMS and Books clients.
type Client struct {
	base    string
	timeout time.Duration
	retry   RetryPolicy
	limiter *Limiter
	http    *http.Client
}

func NewClient(cfg Config, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{}
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		base:    strings.TrimRight(cfg.BaseURL, "/"),
		timeout: cfg.Timeout,
		retry:   cfg.Retry,
		limiter: cfg.Limiter,
		http:    hc,
	}
}

type Request struct {
	Op     string
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	// JSON body, marshalled when non-nil.
	Body any
	// Form body, used instead of Body when non-nil.
	Form url.Values
}

// Do sends the request through the limiter and the retry layer and decodes a JSON response into out
// (when out is non-nil). The returned error wraps an *APIError for non-2xx responses.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	var payload []byte
	if req.Body != nil && req.Form == nil {
		b, err := json.Marshal(req.Body)
		if err != nil {
			return errors.Wrapf(err, "%s: marshal request", req.Op)
		}
		payload = b
	}

	var body []byte
	err := Retry(ctx, c.retry, req.Op, func() error {
		return c.limiter.Do(ctx, func(ctx context.Context) error {
			b, err := c.send(ctx, req, payload)
			body = b
			return err
		})
	})
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return errors.Wrapf(err, "%s: decode response", req.Op)
	}
	return nil
}

func (c *Client) send(ctx context.Context, req Request, payload []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u := c.base + req.Path
	if len(req.Query) > 0 {
		u += "?" + req.Query.Encode()
	}

	var rd io.Reader
	contentType := ""
	switch {
	case req.Form != nil:
		rd = strings.NewReader(req.Form.Encode())
		contentType = "application/x-www-form-urlencoded"
	case payload != nil:
		rd = bytes.NewReader(payload)
		contentType = "application/json"
	}

	hr, err := http.NewRequestWithContext(ctx, req.Method, u, rd)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: build request", req.Op)
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			hr.Header.Add(k, v)
		}
	}
	if contentType != "" {
		hr.Header.Set("Content-Type", contentType)
	}
	hr.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(hr)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: %s %s", req.Op, req.Method, req.Path)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, errors.Wrapf(err, "%s: read response", req.Op)
	}
	if resp.StatusCode >= 400 {
		text := trimBody(body)
		return nil, &APIError{
			Op:         req.Op,
			Method:     req.Method,
			URL:        req.Path,
			StatusCode: resp.StatusCode,
			Kind:       Classify(resp.StatusCode, text),
			Body:       text,
		}
	}
	return body, nil
}
