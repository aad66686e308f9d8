package api

import (
	"context"
	"net/http"
)

// StockRecommendation is a single beginner-friendly low-risk pick.
type StockRecommendation struct {
	StockName              string  `json:"stock_name"`
	TickerSymbol           string  `json:"ticker_symbol"`
	CurrentPrice           float64 `json:"current_price"`
	PriceChangePercent24h  float64 `json:"price_change_percent_24h"`
	Sector                 string  `json:"sector"`
	RiskLabel              string  `json:"risk_label"`
	RiskReasoning          string  `json:"risk_reasoning"`
	RecommendationReason   string  `json:"recommendation_reason,omitempty"`
}

// Recommendation fetches the beginner stock recommendation shown on the
// guide page. Requires authentication.
func (c *Client) Recommendation(ctx context.Context) (*StockRecommendation, error) {
	var rec StockRecommendation
	if err := c.do(ctx, http.MethodGet, "/api/v1/stock_recommendation/", nil, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}
