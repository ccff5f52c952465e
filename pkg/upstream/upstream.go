// Package upstream holds the HTTP plumbing shared by every outbound call: the
// vocabulary service, configured REST sources and Showroom.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// maxBodySize caps how much of a response body is read.
var maxBodySize int64 = 8 << 20

var (
	// ErrUnavailable covers transport errors, timeouts and non-2xx responses.
	ErrUnavailable = errors.New("upstream unavailable")
	// ErrMalformed means the upstream answered but the body had an unexpected shape.
	ErrMalformed = errors.New("malformed upstream response")
)

// StatusError reports a non-2xx answer. It unwraps to ErrUnavailable.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned %d", e.URL, e.StatusCode)
}

func (e *StatusError) Unwrap() error { return ErrUnavailable }

// Result holds the response from a single upstream request.
type Result struct {
	StatusCode int
	Body       []byte
	Header     http.Header
}

// Do sends a request and reads the full response body. It only fails on
// transport errors; status handling is left to the caller.
func Do(ctx context.Context, client *http.Client, method, rawURL string, params url.Values, headers map[string]string, body []byte, timeout time.Duration) (*Result, error) {
	if client == nil {
		client = http.DefaultClient
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	target, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid upstream URL %q: %w", rawURL, err)
	}
	if len(params) > 0 {
		q := target.Query()
		for k, vs := range params {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		target.RawQuery = q.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", ErrUnavailable, method, target.Redacted(), err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrUnavailable, err)
	}
	if int64(len(respBody)) > maxBodySize {
		return nil, fmt.Errorf("%w: %s: body exceeds %d bytes", ErrMalformed, target.Redacted(), maxBodySize)
	}
	return &Result{StatusCode: resp.StatusCode, Body: respBody, Header: resp.Header}, nil
}

// GetJSON performs a GET and decodes a 2xx JSON body into out.
func GetJSON(ctx context.Context, client *http.Client, rawURL string, params url.Values, headers map[string]string, timeout time.Duration, out any) error {
	res, err := Do(ctx, client, http.MethodGet, rawURL, params, headers, nil, timeout)
	if err != nil {
		return err
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return &StatusError{URL: rawURL, StatusCode: res.StatusCode, Body: truncate(res.Body, 512)}
	}
	if err := json.Unmarshal(res.Body, out); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformed, rawURL, err)
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n])
	}
	return string(b)
}
