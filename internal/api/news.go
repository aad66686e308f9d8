package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// NewsItem is one aggregated financial news story.
type NewsItem struct {
	Title               string `json:"title"`
	Summary             string `json:"summary"`
	Source              string `json:"source"`
	URL                 string `json:"url"`
	PublishedDate       string `json:"published_date"`
	EffectOnYou         string `json:"effect_on_you"`
	AffectedAssetSymbol string `json:"affected_asset_symbol,omitempty"`
	ImpactOnAsset       string `json:"impact_on_asset,omitempty"`
}

// NewsDigest is the news aggregation result.
type NewsDigest struct {
	NewsItems   []NewsItem `json:"news_items"`
	TotalItems  int        `json:"total_items"`
	LastUpdated string     `json:"last_updated"`

	// FromCache reports whether the server answered from its cache
	// rather than a fresh aggregation run.
	FromCache bool `json:"-"`
}

// News fetches the latest financial news, optionally focused on topics.
// forceReload bypasses the server-side cache.
//
// The server answers in two shapes: the digest directly, or wrapped as
// {"news_data": ..., "retrieved_from_cache": ...} where news_data may
// itself be a JSON-encoded string. All three are accepted.
func (c *Client) News(ctx context.Context, topics string, forceReload bool) (*NewsDigest, error) {
	params := url.Values{}
	if topics != "" {
		params.Set("topics", topics)
	}
	if forceReload {
		params.Set("force_reload", "true")
	}

	path := "/api/v1/news/"
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}

	data, err := c.doRaw(ctx, http.MethodPost, path, "", nil)
	if err != nil {
		return nil, err
	}
	return parseNewsPayload(data)
}

func parseNewsPayload(data []byte) (*NewsDigest, error) {
	var wrapper struct {
		NewsData           json.RawMessage `json:"news_data"`
		RetrievedFromCache bool            `json:"retrieved_from_cache"`
	}

	payload := data
	fromCache := false
	if err := json.Unmarshal(data, &wrapper); err == nil && len(wrapper.NewsData) > 0 {
		payload = wrapper.NewsData
		fromCache = wrapper.RetrievedFromCache

		// news_data may be double-encoded as a JSON string.
		var inner string
		if err := json.Unmarshal(payload, &inner); err == nil {
			payload = []byte(inner)
		}
	}

	var digest NewsDigest
	if err := json.Unmarshal(payload, &digest); err != nil {
		return nil, fmt.Errorf("failed to parse news payload: %w", err)
	}
	digest.FromCache = fromCache
	return &digest, nil
}
