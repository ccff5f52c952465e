// Package skosmos is a thin client for the Skosmos REST API.
package skosmos

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/base-angewandte/baseauth/pkg/config"
	"github.com/base-angewandte/baseauth/pkg/logging"
	"github.com/base-angewandte/baseauth/pkg/upstream"
)

// Client talks to one Skosmos instance.
type Client struct {
	base    string
	timeout time.Duration
	http    *http.Client
	log     *logging.Logger
}

// New creates a Client. httpClient may be nil.
func New(cfg config.SkosmosConfig, httpClient *http.Client, log *logging.Logger) *Client {
	base := cfg.APIBase
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		base:    base,
		timeout: cfg.Timeout,
		http:    httpClient,
		log:     logging.Default(log).With("component", "skosmos"),
	}
}

// FetchConceptGraph returns the JSON-LD graph describing uri, optionally
// scoped to a vocabulary.
func (c *Client) FetchConceptGraph(ctx context.Context, uri, vocID string) (*Graph, error) {
	endpoint := c.base + "data"
	if vocID != "" {
		endpoint = c.base + vocID + "/data"
	}
	params := url.Values{
		"uri":    {uri},
		"format": {"application/ld+json"},
	}

	var g Graph
	if err := upstream.GetJSON(ctx, c.http, endpoint, params, nil, c.timeout, &g); err != nil {
		return nil, fmt.Errorf("fetch concept graph %s: %w", uri, err)
	}
	return &g, nil
}

// FetchChildConcepts lists the concepts below parentURI.
func (c *Client) FetchChildConcepts(ctx context.Context, parentURI string) ([]ChildConcept, error) {
	params := url.Values{
		"query":   {"*"},
		"parent":  {parentURI},
		"fields":  {"prefLabel"},
		"lang":    {"en"},
		"maxhits": {"1000"},
		"unique":  {"true"},
	}

	var res searchResponse
	if err := upstream.GetJSON(ctx, c.http, c.base+"search", params, nil, c.timeout, &res); err != nil {
		return nil, fmt.Errorf("fetch children of %s: %w", parentURI, err)
	}
	return res.Results, nil
}

// FetchConceptLabels returns the preferred labels of a single concept keyed
// by language. Failures are logged and yield an empty map.
func (c *Client) FetchConceptLabels(ctx context.Context, vocID, conceptURI string) map[string]string {
	g, err := c.FetchConceptGraph(ctx, conceptURI, vocID)
	if err != nil {
		c.log.Warn("concept labels unavailable", "uri", conceptURI, "error", err)
		return map[string]string{}
	}
	node, ok := g.Find(conceptURI)
	if !ok {
		c.log.Debug("concept not in graph", "uri", conceptURI)
		return map[string]string{}
	}
	return node.PrefLabel.Map()
}
