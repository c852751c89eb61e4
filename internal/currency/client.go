package currency

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultExchangeRateAPIBase = "https://api.exchangerate-api.com/v4/latest"

// ExchangeRateAPIClient fetches the latest rates for a base currency
// from the free exchangerate-api feed (no API key required).
type ExchangeRateAPIClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewExchangeRateAPIClient(baseURL string) *ExchangeRateAPIClient {
	if baseURL == "" {
		baseURL = defaultExchangeRateAPIBase
	}
	return &ExchangeRateAPIClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *ExchangeRateAPIClient) GetLatestRates(ctx context.Context, base string) (map[string]float64, error) {
	url := fmt.Sprintf("%s/%s", c.baseURL, base)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "PortfolioTracker/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("exchange rate API error: %s", resp.Status)
	}

	var result struct {
		Base  string             `json:"base"`
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	if len(result.Rates) == 0 {
		return nil, fmt.Errorf("exchange rate API returned no rates for %s", base)
	}
	return result.Rates, nil
}
