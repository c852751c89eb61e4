package currency

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Last-resort rates when both the live feed and the durable store are
// unreachable. Covers the market this tracker was built around.
var fallbackRates = map[string]float64{
	"USD-IDR": 16460,
	"IDR-USD": 0.000061,
}

// commonPairs are refreshed by the scheduled job and the manual refresh
// endpoint.
var commonPairs = [][2]string{
	{"USD", "IDR"},
	{"IDR", "USD"},
}

type RateFetcher interface {
	GetLatestRates(ctx context.Context, base string) (map[string]float64, error)
}

type Service interface {
	// GetRate answers how many units of `to` one unit of `from` buys.
	// It never fails: resolution degrades from cache to live feed to the
	// durable store to a static table, and bottoms out at 1.
	GetRate(ctx context.Context, from, to string) float64
	Convert(ctx context.Context, amount float64, from, to string) float64
	ConvertToUSD(ctx context.Context, amount float64, from string) float64
	UpdateRate(ctx context.Context, from, to string, rate float64, source string) error
	ListRecentRates(ctx context.Context, limit int) ([]ExchangeRate, error)
	RefreshCommonPairs(ctx context.Context) map[string]float64
}

type service struct {
	rateRepo RateRepository
	fetcher  RateFetcher
	cache    *RateCache
}

func NewCurrencyService(repo RateRepository, fetcher RateFetcher, cache *RateCache) Service {
	return &service{
		rateRepo: repo,
		fetcher:  fetcher,
		cache:    cache,
	}
}

func (s *service) GetRate(ctx context.Context, from, to string) float64 {
	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))
	if from == to {
		return 1
	}

	cacheKey := from + "-" + to
	if rate, ok := s.cache.Get(cacheKey); ok {
		return rate
	}

	if rates, err := s.fetcher.GetLatestRates(ctx, from); err != nil {
		log.Printf("Error fetching exchange rate from API for %s: %v", cacheKey, err)
	} else if rate, ok := rates[to]; ok && rate > 0 {
		s.cache.Set(cacheKey, rate)
		s.persistAsync(from, to, rate, "exchangerate-api")
		return rate
	}

	if stored, err := s.rateRepo.FindLatest(ctx, from, to); err != nil {
		log.Printf("Error fetching exchange rate from DB for %s: %v", cacheKey, err)
	} else if stored != nil && stored.Rate > 0 {
		s.cache.Set(cacheKey, stored.Rate)
		return stored.Rate
	}

	rate, ok := fallbackRates[cacheKey]
	if !ok {
		rate = 1
	}
	s.cache.Set(cacheKey, rate)
	return rate
}

// persistAsync writes a freshly fetched rate to the durable store as
// history. The rate is already cached and usable, so a failure here is
// logged and swallowed.
func (s *service) persistAsync(from, to string, rate float64, source string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := s.rateRepo.Create(ctx, &ExchangeRate{
			ID:           uuid.New(),
			FromCurrency: from,
			ToCurrency:   to,
			Rate:         rate,
			Source:       source,
			Date:         time.Now().UTC().Truncate(24 * time.Hour),
			CreatedAt:    time.Now().UTC(),
		})
		if err != nil {
			log.Printf("Failed to save exchange rate %s-%s to DB: %v", from, to, err)
		}
	}()
}

func (s *service) Convert(ctx context.Context, amount float64, from, to string) float64 {
	return amount * s.GetRate(ctx, from, to)
}

func (s *service) ConvertToUSD(ctx context.Context, amount float64, from string) float64 {
	return s.Convert(ctx, amount, from, "USD")
}

func (s *service) UpdateRate(ctx context.Context, from, to string, rate float64, source string) error {
	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))
	if rate <= 0 {
		return fmt.Errorf("rate must be greater than zero")
	}
	if source == "" {
		source = "manual"
	}

	err := s.rateRepo.Create(ctx, &ExchangeRate{
		ID:           uuid.New(),
		FromCurrency: from,
		ToCurrency:   to,
		Rate:         rate,
		Source:       source,
		Date:         time.Now().UTC().Truncate(24 * time.Hour),
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to update exchange rate: %w", err)
	}

	s.cache.Set(from+"-"+to, rate)
	return nil
}

func (s *service) ListRecentRates(ctx context.Context, limit int) ([]ExchangeRate, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.rateRepo.FindRecent(ctx, limit)
}

func (s *service) RefreshCommonPairs(ctx context.Context) map[string]float64 {
	results := make(map[string]float64, len(commonPairs))
	for _, pair := range commonPairs {
		results[pair[0]+"-"+pair[1]] = s.GetRate(ctx, pair[0], pair[1])
	}
	return results
}
