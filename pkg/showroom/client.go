// Package showroom pushes user profile data to a Showroom instance.
package showroom

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/base-angewandte/baseauth/pkg/config"
	"github.com/base-angewandte/baseauth/pkg/logging"
	"github.com/base-angewandte/baseauth/pkg/upstream"
)

var (
	// ErrDisabled is returned when pushing is not enabled in the configuration.
	ErrDisabled = errors.New("showroom: push disabled")
	// ErrAuthentication means Showroom rejected the API key.
	ErrAuthentication = errors.New("showroom: authentication failed")
	// ErrRejected means Showroom refused the payload.
	ErrRejected = errors.New("showroom: entity rejected")
	// ErrUndefined covers every other unexpected answer.
	ErrUndefined = errors.New("showroom: unexpected response")
)

// Client talks to the Showroom entities API.
type Client struct {
	cfg  config.ShowroomConfig
	http *http.Client
	log  *logging.Logger
}

// New creates a Client. httpClient may be nil.
func New(cfg config.ShowroomConfig, httpClient *http.Client, log *logging.Logger) *Client {
	if cfg.APIBase != "" && !strings.HasSuffix(cfg.APIBase, "/") {
		cfg.APIBase += "/"
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{cfg: cfg, http: httpClient, log: logging.Default(log).With("component", "showroom")}
}

// PushUser stores attrs as the entity of username and returns the Showroom id.
func (c *Client) PushUser(ctx context.Context, username string, attrs any) (string, error) {
	if !c.cfg.Enabled {
		return "", ErrDisabled
	}
	body, err := json.Marshal(attrs)
	if err != nil {
		return "", fmt.Errorf("encode entity: %w", err)
	}

	target := c.cfg.APIBase + "entities/" + url.PathEscape(username) + "/"
	headers := map[string]string{"X-Api-Key": c.cfg.APIKey}
	timeout := c.cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	res, err := upstream.Do(ctx, c.http, http.MethodPut, target, nil, headers, body, timeout)
	if err != nil {
		return "", err
	}

	switch res.StatusCode {
	case http.StatusForbidden:
		return "", fmt.Errorf("%w: %s", ErrAuthentication, res.Body)
	case http.StatusBadRequest:
		return "", fmt.Errorf("%w: user %s: %s", ErrRejected, username, res.Body)
	case http.StatusOK, http.StatusCreated:
		id, err := decodeID(res.Body)
		if err != nil {
			return "", fmt.Errorf("%w: %v", upstream.ErrMalformed, err)
		}
		c.log.Info("user pushed", "username", username, "showroom_id", id)
		return id, nil
	default:
		return "", fmt.Errorf("%w: %d %s", ErrUndefined, res.StatusCode, res.Body)
	}
}

func decodeID(body []byte) (string, error) {
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return "", err
	}
	switch id := v.(type) {
	case string:
		return id, nil
	case float64:
		return fmt.Sprintf("%.0f", id), nil
	default:
		return "", fmt.Errorf("unexpected id %s", body)
	}
}
