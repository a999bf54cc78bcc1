// Package api is the HTTP client edge of the application: one Client shared
// by every resource gateway, wrapped by the auth interceptor transport.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/luis5368/web-clinica-medica/internal/core/domain"
	"github.com/luis5368/web-clinica-medica/internal/core/ports"
	"github.com/luis5368/web-clinica-medica/internal/core/service"
)

const defaultTimeout = 10 * time.Second

// Client issues JSON requests against the clinic backend. All calls go
// through the auth interceptor; error statuses are mapped to domain errors
// in one place so gateways never look at HTTP codes.
type Client struct {
	base *url.URL
	http *http.Client
	log  zerolog.Logger
}

// NewClient builds a Client whose transport attaches the session token and
// watches for forced-logout responses. A nil notifier suppresses the notice
// (useful in tests that only care about session state).
func NewClient(baseURL string, session *service.SessionStore, notifier ports.Notifier, timeout time.Duration, log zerolog.Logger) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		base: base,
		http: &http.Client{
			Timeout: timeout,
			Transport: &authTransport{
				next:     http.DefaultTransport,
				session:  session,
				notifier: notifier,
				log:      log,
			},
		},
		log: log,
	}, nil
}

// do sends one JSON request and decodes the response into out (skipped when
// out is nil). Non-2xx statuses come back as domain errors.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		payload = bytes.NewReader(raw)
	}

	ref, err := url.Parse(path)
	if err != nil {
		return fmt.Errorf("parse path: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base.ResolveReference(ref).String(), payload)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// statusError maps an error response to the domain taxonomy. The counterpart
// of the backend's error envelope: deterministic codes become sentinel errors
// callers can match with errors.Is, anything else keeps the backend's message.
func statusError(resp *http.Response) error {
	msg := peekErrorMessage(resp)

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return domain.ErrSessionInvalidated
	case http.StatusForbidden:
		return domain.ErrForbidden
	case http.StatusNotFound:
		return domain.ErrNotFound
	}

	if msg == "" {
		msg = strings.ToLower(http.StatusText(resp.StatusCode))
	}
	return fmt.Errorf("backend: %s", msg)
}
