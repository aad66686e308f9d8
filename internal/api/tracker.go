package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Asset is one tracked holding.
type Asset struct {
	ID           string    `json:"id"`
	Symbol       string    `json:"symbol"`
	Name         string    `json:"name"`
	Price        float64   `json:"price"`
	Movement     float64   `json:"movement"`
	Reason       string    `json:"reason"`
	PriceHistory []float64 `json:"price_history"`
	Sector       string    `json:"sector"`
	News         string    `json:"news"`
	CreatedAt    time.Time `json:"created_at"`
	LastUpdated  time.Time `json:"last_updated"`
}

// RiskFactors are the raw quantitative inputs to the risk score.
type RiskFactors struct {
	VolatilityScore   float64 `json:"volatility_score"`
	SectorTrendScore  float64 `json:"sector_trend_score"`
	DipCountLastMonth int     `json:"dip_count_last_month"`
	SentimentClass    string  `json:"sentiment_class"`
}

// RiskBreakdown holds the qualitative explanations per factor.
type RiskBreakdown struct {
	Volatility string `json:"volatility"`
	Sector     string `json:"sector"`
	Sentiment  string `json:"sentiment"`
}

// RiskAnalysis is the risk assessment for one asset.
type RiskAnalysis struct {
	AssetSymbol    string        `json:"asset_symbol"`
	AssetName      string        `json:"asset_name"`
	RiskLevel      string        `json:"risk_level"` // Low, Moderate, High
	Factors        RiskFactors   `json:"factors"`
	RiskBreakdown  RiskBreakdown `json:"risk_breakdown"`
	Confidence     float64       `json:"confidence"`
	Recommendation string        `json:"recommendation"`
}

type assetCreateRequest struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// Assets lists all tracked assets.
func (c *Client) Assets(ctx context.Context) ([]Asset, error) {
	var assets []Asset
	if err := c.do(ctx, http.MethodGet, "/api/v1/tracker/assets/get", nil, &assets); err != nil {
		return nil, err
	}
	return assets, nil
}

// CreateAsset starts tracking a new asset.
func (c *Client) CreateAsset(ctx context.Context, symbol, name string) (*Asset, error) {
	var asset Asset
	req := assetCreateRequest{Symbol: symbol, Name: name}
	if err := c.do(ctx, http.MethodPost, "/api/v1/tracker/assets/create", req, &asset); err != nil {
		return nil, err
	}
	return &asset, nil
}

// DeleteAsset stops tracking an asset by id.
func (c *Client) DeleteAsset(ctx context.Context, assetID string) error {
	path := "/api/v1/tracker/assets/delete/?asset_id=" + url.QueryEscape(assetID)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// AnalyzeRisk fetches the risk assessment for a tracked symbol.
func (c *Client) AnalyzeRisk(ctx context.Context, symbol string) (*RiskAnalysis, error) {
	var analysis RiskAnalysis
	path := fmt.Sprintf("/api/v1/tracker/assets/analyze-risk/%s", url.PathEscape(symbol))
	if err := c.do(ctx, http.MethodGet, path, nil, &analysis); err != nil {
		return nil, err
	}
	return &analysis, nil
}
