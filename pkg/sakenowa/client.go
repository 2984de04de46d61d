// Package sakenowa is a client for the Sakenowa catalog REST API. Each
// endpoint method issues a single attempt bounded by the configured
// timeout and normalizes the endpoint's wire shape (bare JSON array or a
// wrapped object, which has varied across API versions) into flat record
// slices. Retry policy belongs to the caller.
package sakenowa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Endpoint is a logical catalog resource.
type Endpoint string

const (
	EndpointAreas           Endpoint = "areas"
	EndpointBreweries       Endpoint = "breweries"
	EndpointBrands          Endpoint = "brands"
	EndpointFlavorCharts    Endpoint = "flavor-charts"
	EndpointFlavorTags      Endpoint = "flavor-tags"
	EndpointBrandFlavorTags Endpoint = "brand-flavor-tags"
	EndpointRankings        Endpoint = "rankings"
)

// maxResponseBytes bounds how much of a response is read; the full brands
// collection is a few MB.
const maxResponseBytes = 32 << 20

// bodySnippetLen bounds how much response body is carried in errors.
const bodySnippetLen = 512

// Config holds configuration for creating a catalog client.
type Config struct {
	BaseURL string        // API root, e.g. "https://muro.sakenowa.com/api"
	Timeout time.Duration // per-request bound; a hung upstream must not hang a sync run
}

// Client fetches catalog collections over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new catalog client.
func NewClient(cfg *Config, logger *zap.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("timeout must be positive")
	}

	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger.Named("sakenowa"),
	}, nil
}

// Areas fetches the area (region) collection.
func (c *Client) Areas(ctx context.Context) ([]Area, error) {
	data, err := c.get(ctx, EndpointAreas)
	if err != nil {
		return nil, err
	}
	return unwrapList[Area](EndpointAreas, data, "areas")
}

// Breweries fetches the brewery collection.
func (c *Client) Breweries(ctx context.Context) ([]Brewery, error) {
	data, err := c.get(ctx, EndpointBreweries)
	if err != nil {
		return nil, err
	}
	return unwrapList[Brewery](EndpointBreweries, data, "breweries")
}

// Brands fetches the sake brand collection.
func (c *Client) Brands(ctx context.Context) ([]Brand, error) {
	data, err := c.get(ctx, EndpointBrands)
	if err != nil {
		return nil, err
	}
	return unwrapList[Brand](EndpointBrands, data, "brands")
}

// FlavorCharts fetches the flavor chart collection.
func (c *Client) FlavorCharts(ctx context.Context) ([]FlavorChart, error) {
	data, err := c.get(ctx, EndpointFlavorCharts)
	if err != nil {
		return nil, err
	}
	return unwrapList[FlavorChart](EndpointFlavorCharts, data, "flavorCharts")
}

// FlavorTags fetches the flavor tag collection.
func (c *Client) FlavorTags(ctx context.Context) ([]FlavorTag, error) {
	data, err := c.get(ctx, EndpointFlavorTags)
	if err != nil {
		return nil, err
	}
	// The live API wraps under "tags"; older snapshots used "flavorTags".
	return unwrapList[FlavorTag](EndpointFlavorTags, data, "tags", "flavorTags")
}

// BrandFlavorTags fetches the brand-to-tag link collection.
func (c *Client) BrandFlavorTags(ctx context.Context) ([]BrandFlavorTags, error) {
	data, err := c.get(ctx, EndpointBrandFlavorTags)
	if err != nil {
		return nil, err
	}
	return unwrapList[BrandFlavorTags](EndpointBrandFlavorTags, data, "flavorTags", "brandFlavorTags")
}

// Rankings fetches the ranking payload: one global list plus per-area
// breakdowns. A bare array is accepted as an overall-only list.
func (c *Client) Rankings(ctx context.Context) (*Rankings, error) {
	data, err := c.get(ctx, EndpointRankings)
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, newFormatError(EndpointRankings, "empty response body", nil)
	}

	switch trimmed[0] {
	case '[':
		var overall []RankingItem
		if err := json.Unmarshal(trimmed, &overall); err != nil {
			return nil, newFormatError(EndpointRankings, "payload is not a ranking list", err)
		}
		return &Rankings{Overall: overall}, nil
	case '{':
		var wrapper map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &wrapper); err != nil {
			return nil, newFormatError(EndpointRankings, "payload is not a JSON object", err)
		}

		_, hasOverall := wrapper["overall"]
		_, hasAreas := wrapper["areas"]
		if !hasOverall && !hasAreas {
			return nil, newFormatError(EndpointRankings, "object has neither overall nor areas key", nil)
		}

		var rankings Rankings
		if err := json.Unmarshal(trimmed, &rankings); err != nil {
			return nil, newFormatError(EndpointRankings, "ranking breakdown does not match expected shape", err)
		}
		return &rankings, nil
	default:
		return nil, newFormatError(EndpointRankings, "payload is neither array nor object", nil)
	}
}

// get performs a single GET against the endpoint and returns the raw body.
// Transport failures and non-2xx statuses become network errors carrying
// diagnostics; no retry happens at this layer.
func (c *Client) get(ctx context.Context, endpoint Endpoint) ([]byte, error) {
	url := c.baseURL + "/" + string(endpoint)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, newNetworkError(endpoint, "request failed", 0, "", true, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, newNetworkError(endpoint, "failed to read response body", resp.StatusCode, "", true, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		retryable := resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests
		return nil, newNetworkError(endpoint,
			"unexpected status", resp.StatusCode, bodySnippet(body), retryable, nil)
	}

	c.logger.Debug("fetched catalog collection",
		zap.String("endpoint", string(endpoint)),
		zap.Int("bytes", len(body)),
		zap.Duration("elapsed", time.Since(start)))

	return body, nil
}

// unwrapList normalizes a collection payload that is either a bare JSON
// array or an object wrapping the array under one of the recognized keys.
// Anything else is a format error, never a silently empty result.
func unwrapList[T any](endpoint Endpoint, data []byte, wrapperKeys ...string) ([]T, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, newFormatError(endpoint, "empty response body", nil)
	}

	switch trimmed[0] {
	case '[':
		var records []T
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, newFormatError(endpoint, "array elements do not match expected record shape", err)
		}
		return records, nil
	case '{':
		var wrapper map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &wrapper); err != nil {
			return nil, newFormatError(endpoint, "payload is not a JSON object", err)
		}

		for _, key := range wrapperKeys {
			raw, ok := wrapper[key]
			if !ok {
				continue
			}
			var records []T
			if err := json.Unmarshal(raw, &records); err != nil {
				return nil, newFormatError(endpoint,
					fmt.Sprintf("wrapper key %q does not hold a valid record list", key), err)
			}
			return records, nil
		}

		return nil, newFormatError(endpoint,
			fmt.Sprintf("object has none of the recognized wrapper keys %v", wrapperKeys), nil)
	default:
		return nil, newFormatError(endpoint, "payload is neither array nor object", nil)
	}
}

func bodySnippet(body []byte) string {
	if len(body) <= bodySnippetLen {
		return string(body)
	}
	return string(body[:bodySnippetLen]) + "..."
}
