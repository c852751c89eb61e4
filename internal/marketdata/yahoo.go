package marketdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/nandriyanto/PortfolioTracker/internal/portfolio/models"
)

const defaultYahooChartBase = "https://query1.finance.yahoo.com/v8/finance/chart"

var ErrPriceNotFound = errors.New("no price data for symbol")

// YahooClient reads the latest quote for a symbol from the Yahoo chart
// v8 endpoint. It works for US listings, Indonesian tickers (SYMBOL.JK)
// and crypto pairs (BTC-USD) alike.
type YahooClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewYahooClient() *YahooClient {
	return &YahooClient{
		baseURL:    defaultYahooChartBase,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *YahooClient) GetCurrentPrice(ctx context.Context, symbol string) (*models.MarketPrice, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, ErrPriceNotFound
	}

	url := fmt.Sprintf("%s/%s", c.baseURL, symbol)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; PortfolioTracker/1.0)")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo http %d", resp.StatusCode)
	}

	var raw struct {
		Chart struct {
			Result []struct {
				Meta struct {
					RegularMarketPrice float64 `json:"regularMarketPrice"`
					PreviousClose      float64 `json:"previousClose"`
					ChartPreviousClose float64 `json:"chartPreviousClose"`
					Currency           string  `json:"currency"`
				} `json:"meta"`
			} `json:"result"`
		} `json:"chart"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}
	if len(raw.Chart.Result) == 0 {
		return nil, ErrPriceNotFound
	}

	meta := raw.Chart.Result[0].Meta
	price := meta.RegularMarketPrice
	if price <= 0 {
		price = meta.PreviousClose
	}
	if price <= 0 {
		return nil, ErrPriceNotFound
	}

	previousClose := meta.ChartPreviousClose
	if previousClose <= 0 {
		previousClose = meta.PreviousClose
	}

	change := price - previousClose
	var changePercent float64
	if previousClose > 0 {
		changePercent = change / previousClose * 100
	}

	currency := meta.Currency
	if currency == "" {
		currency = "USD"
	}

	return &models.MarketPrice{
		Symbol:        symbol,
		Price:         price,
		Change:        change,
		ChangePercent: changePercent,
		Currency:      currency,
	}, nil
}

// GetMultiplePrices fetches quotes for all symbols concurrently. A
// symbol whose lookup fails is logged and omitted rather than failing
// the whole batch.
func (c *YahooClient) GetMultiplePrices(ctx context.Context, symbols []string) []models.MarketPrice {
	prices := make([]models.MarketPrice, 0, len(symbols))
	var mu sync.Mutex
	var wg sync.WaitGroup

	maxGoroutines := 10
	sem := make(chan struct{}, maxGoroutines)

	for _, symbol := range symbols {
		wg.Add(1)
		sem <- struct{}{}
		go func(symbol string) {
			defer wg.Done()
			defer func() { <-sem }()

			price, err := c.GetCurrentPrice(ctx, symbol)
			if err != nil {
				log.Printf("Error fetching price for %s: %v", symbol, err)
				return
			}

			mu.Lock()
			prices = append(prices, *price)
			mu.Unlock()
		}(symbol)
	}

	wg.Wait()
	return prices
}
