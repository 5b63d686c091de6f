package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultTimeout = 5 * time.Second
	maxBody        = 1 << 20
)

// ErrUnavailable: el upstream no respondió o respondió 5xx.
var ErrUnavailable = errors.New("httpclient: upstream unavailable")

// Client es un cliente JSON para un único upstream (BaseURL fija).
type Client struct {
	http    *http.Client
	baseURL string
	headers http.Header
}

type Options struct {
	BaseURL string
	Timeout time.Duration

	// Headers que van en todos los requests (p.ej. la API key del upstream).
	Headers map[string]string

	// Transport para tests; nil => http.DefaultTransport.
	Transport http.RoundTripper
}

func New(opts Options) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("httpclient: invalid base url %q: %w", opts.BaseURL, err)
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	h := http.Header{}
	for k, v := range opts.Headers {
		if strings.TrimSpace(k) != "" {
			h.Set(k, v)
		}
	}
	return &Client{
		http:    &http.Client{Timeout: timeout, Transport: opts.Transport},
		baseURL: base,
		headers: h,
	}, nil
}

// StatusError es una respuesta 4xx. Las 5xx se reportan como ErrUnavailable.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("httpclient: status=%d", e.StatusCode)
	}
	return fmt.Sprintf("httpclient: status=%d body=%s", e.StatusCode, e.Body)
}

// StatusCode devuelve el status de un *StatusError, o 0.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}

// PostJSON manda in como JSON a path y decodifica la respuesta en out (si no es nil).
func (c *Client) PostJSON(ctx context.Context, path string, headers map[string]string, in, out any) error {
	b, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("httpclient: marshal json: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+strings.TrimLeft(path, "/"), bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("httpclient: new request: %w", err)
	}
	req.Header = c.headers.Clone()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxBody))

	switch {
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: status=%d", ErrUnavailable, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("httpclient: unmarshal json: %w", err)
	}
	return nil
}
