package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/nandriyanto/PortfolioTracker/internal/analysis"
	"github.com/nandriyanto/PortfolioTracker/internal/auth"
	"github.com/nandriyanto/PortfolioTracker/internal/currency"
	database "github.com/nandriyanto/PortfolioTracker/internal/db"
	"github.com/nandriyanto/PortfolioTracker/internal/marketdata"
	"github.com/nandriyanto/PortfolioTracker/internal/portfolio"
	"github.com/nandriyanto/PortfolioTracker/internal/portfolio/position"
	transactions "github.com/nandriyanto/PortfolioTracker/internal/portfolio/transaction"
	"github.com/nandriyanto/PortfolioTracker/internal/reporting"
)

type Response struct {
	Message string `json:"message"`
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("Started %s %s", r.Method, r.URL.Path)

		next.ServeHTTP(w, r)

		log.Printf("Completed %s in %v", r.URL.Path, time.Since(start))
	})
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]interface{}{
		"status":  "error",
		"message": message,
		"code":    status,
	})
}

type Server struct {
	router           *http.ServeMux
	authService      *auth.Service
	portfolioHandler *portfolio.PortfolioHandler
	priceHandler     *marketdata.PriceHandler
	rateHandler      *currency.RateHandler
	analysisHandler  *analysis.AnalysisHandler
}

func NewServer(
	authService *auth.Service,
	portfolioHandler *portfolio.PortfolioHandler,
	priceHandler *marketdata.PriceHandler,
	rateHandler *currency.RateHandler,
	analysisHandler *analysis.AnalysisHandler,
) *Server {
	return &Server{
		router:           http.NewServeMux(),
		authService:      authService,
		portfolioHandler: portfolioHandler,
		priceHandler:     priceHandler,
		rateHandler:      rateHandler,
		analysisHandler:  analysisHandler,
	}
}

func notFoundHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	json.NewEncoder(w).Encode(Response{Message: "Path not found"})
}

func checkConfiguration() error {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file, continuing with system environment variables")
	}

	if os.Getenv("JWT_SECRET") == "" {
		return errors.New("no JWT_SECRET Provided")
	}
	return nil
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status": "ready",
	})
}

func (s *Server) RegisterRoutes() {
	// Public routes
	publicRoutes := http.NewServeMux()
	publicRoutes.Handle("GET /api/ready", http.HandlerFunc(s.handleReady))
	publicRoutes.Handle("GET /api/market/prices", http.HandlerFunc(s.priceHandler.GetPrices))

	// Protected routes (using JWT Access Token Middleware)
	protectedRoutes := http.NewServeMux()

	// TRANSACTION LEDGER API
	protectedRoutes.Handle("POST /api/protected/transactions",
		s.authService.JWTAccessTokenMiddleware()(http.HandlerFunc(s.portfolioHandler.CreateTransaction)))
	protectedRoutes.Handle("GET /api/protected/transactions",
		s.authService.JWTAccessTokenMiddleware()(http.HandlerFunc(s.portfolioHandler.GetAllTransactions)))

	// POSITIONS API
	protectedRoutes.Handle("GET /api/protected/positions/current",
		s.authService.JWTAccessTokenMiddleware()(http.HandlerFunc(s.portfolioHandler.GetCurrentPositions)))
	protectedRoutes.Handle("GET /api/protected/positions/aggregated",
		s.authService.JWTAccessTokenMiddleware()(http.HandlerFunc(s.portfolioHandler.GetAggregatedPositions)))

	// PORTFOLIO REPORTING API
	protectedRoutes.Handle("GET /api/protected/portfolio/summary",
		s.authService.JWTAccessTokenMiddleware()(http.HandlerFunc(s.portfolioHandler.GetSummary)))
	protectedRoutes.Handle("GET /api/protected/portfolio/allocation",
		s.authService.JWTAccessTokenMiddleware()(http.HandlerFunc(s.portfolioHandler.GetAllocation)))
	protectedRoutes.Handle("GET /api/protected/portfolio/performance",
		s.authService.JWTAccessTokenMiddleware()(http.HandlerFunc(s.portfolioHandler.GetPerformance)))
	protectedRoutes.Handle("GET /api/protected/portfolio/timeline",
		s.authService.JWTAccessTokenMiddleware()(http.HandlerFunc(s.portfolioHandler.GetTimeline)))

	// EXCHANGE RATES API
	protectedRoutes.Handle("GET /api/protected/exchange-rates",
		s.authService.JWTAccessTokenMiddleware()(http.HandlerFunc(s.rateHandler.GetRates)))
	protectedRoutes.Handle("POST /api/protected/exchange-rates",
		s.authService.JWTAccessTokenMiddleware()(http.HandlerFunc(s.rateHandler.UpdateRates)))

	// AI ANALYSIS API
	protectedRoutes.Handle("POST /api/protected/analysis/prompt",
		s.authService.JWTAccessTokenMiddleware()(http.HandlerFunc(s.analysisHandler.CreatePrompt)))
	protectedRoutes.Handle("PUT /api/protected/analysis/{analysisID}/result",
		s.authService.JWTAccessTokenMiddleware()(http.HandlerFunc(s.analysisHandler.SaveResult)))
	protectedRoutes.Handle("GET /api/protected/analysis",
		s.authService.JWTAccessTokenMiddleware()(http.HandlerFunc(s.analysisHandler.GetAllAnalyses)))

	// Main router
	mainRouter := http.NewServeMux()
	mainRouter.Handle("/api/", publicRoutes)
	mainRouter.Handle("/api/protected/", protectedRoutes)
	mainRouter.Handle("/", http.HandlerFunc(notFoundHandler))

	s.router = mainRouter
}

func main() {
	if err := checkConfiguration(); err != nil {
		log.Fatalf("Missing configuration, update to start server")
	}

	dbService, err := database.NewDBService()
	if err != nil {
		log.Fatalf("Could not initialize database: %v", err)
	}
	defer dbService.Close()

	if err := dbService.EnsureSchema(context.Background()); err != nil {
		log.Fatalf("Could not prepare database schema: %v", err)
	}

	jwtManager := auth.NewJWTManager()
	authService := auth.NewAuthService(jwtManager)

	marketDataClient := marketdata.NewYahooClient()

	rateRepo := currency.NewRateRepository(dbService.DB)
	rateCache := currency.NewRateCache(10 * time.Minute)
	rateClient := currency.NewExchangeRateAPIClient(os.Getenv("EXCHANGE_RATE_API_URL"))
	currencyService := currency.NewCurrencyService(rateRepo, rateClient, rateCache)

	transactionRepo := transactions.NewTransactionRepository(dbService.DB)
	transactionService := transactions.NewTransactionService(transactionRepo)

	positionService := position.NewPositionService(transactionService, marketDataClient, currencyService)
	transactionService.SetPositionResolver(positionService)

	reportingService := reporting.NewReportingService(positionService, transactionService)

	analysisRepo := analysis.NewAnalysisRepository(dbService.DB)
	analysisService := analysis.NewAnalysisService(analysisRepo, positionService, marketDataClient)

	portfolioHandler := portfolio.NewPortfolioHandler(transactionService, positionService, reportingService, respondJSON, respondError)
	priceHandler := marketdata.NewPriceHandler(marketDataClient, respondJSON, respondError)
	rateHandler := currency.NewRateHandler(currencyService, respondJSON, respondError)
	analysisHandler := analysis.NewAnalysisHandler(analysisService, respondJSON, respondError)

	server := NewServer(authService, portfolioHandler, priceHandler, rateHandler, analysisHandler)
	server.RegisterRoutes()

	if err := StartRateRefreshScheduler(currencyService); err != nil {
		log.Fatalf("Scheduler didn't start, stoping the app ...")
	}

	loggingMiddleware := loggingMiddleware(http.HandlerFunc(server.router.ServeHTTP))
	log.Println("Server starting on port 8080...")
	if err := http.ListenAndServe(":8080", loggingMiddleware); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}

// StartRateRefreshScheduler keeps the common FX pairs warm so position
// views rarely pay for a live fetch.
func StartRateRefreshScheduler(currencyService currency.Service) error {
	c := cron.New()
	_, err := c.AddFunc("@every 6h", func() {
		results := currencyService.RefreshCommonPairs(context.Background())
		log.Printf("Exchange rates refreshed: %v", results)
	})
	if err != nil {
		return err
	}
	c.Start()
	return nil
}
