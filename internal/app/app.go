// Package app assembles the price-resolution stack from configuration.
package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"niveshak/internal/cache"
	"niveshak/internal/config"
	"niveshak/internal/handlers"
	"niveshak/internal/llm"
	"niveshak/internal/logger"
	"niveshak/internal/middleware"
	"niveshak/internal/pricing"
	"niveshak/internal/provider"
	"niveshak/internal/refresh"
	"niveshak/internal/services"
)

// App holds the long-lived components shared by the binaries.
type App struct {
	Config       config.Config
	Store        cache.Store
	Transactions services.TransactionServicer
	Returns      services.ReturnsServicer
	Resolver     *pricing.Resolver
	Refresher    *refresh.Refresher
}

// New wires services, sources and the resolver on top of db.
func New(ctx context.Context, cfg config.Config, db *gorm.DB) (*App, error) {
	httpClient := &http.Client{Timeout: cfg.RequestTimeout}

	sources, err := NewSources(ctx, cfg, httpClient, logger.Named("llm"))
	if err != nil {
		return nil, err
	}

	store := cache.NewGormStore(db)
	transactionService := services.NewTransactionService(db)
	returnsService := services.NewReturnsService(db)

	resolver := pricing.NewResolver(store, sources, transactionService, returnsService,
		pricing.Config{}, logger.Named("resolver"))

	return &App{
		Config:       cfg,
		Store:        store,
		Transactions: transactionService,
		Returns:      returnsService,
		Resolver:     resolver,
		Refresher:    refresh.NewRefresher(transactionService, resolver, cfg.RefreshInterval, logger.Named("refresh")),
	}, nil
}

// NewSources builds the configured price sources. INDstocks needs an API token and
// the model fallback needs at least one model key; either is left nil otherwise.
func NewSources(ctx context.Context, cfg config.Config, httpClient *http.Client, log *zap.SugaredLogger) (pricing.Sources, error) {
	sources := pricing.Sources{
		YahooNSE: provider.NewYahooSource(httpClient, cfg.YahooBaseURL, provider.NSE, cfg.NearestDayWindow),
		YahooBSE: provider.NewYahooSource(httpClient, cfg.YahooBaseURL, provider.BSE, cfg.NearestDayWindow),
		MFAPI:    provider.NewMFAPISource(httpClient, cfg.MFAPIBaseURL, cfg.NearestDayWindow),
		AMFI:     provider.NewAMFISource(httpClient, cfg.AMFINavURL, cfg.AMFICacheTTL, nil),
	}
	if cfg.IndstocksAPIToken != "" {
		sources.INDstocks = provider.NewINDstocksSource(httpClient, cfg.IndstocksBaseURL, cfg.IndstocksAPIToken)
	}

	var completers []llm.Completer
	if cfg.OpenAIAPIKey != "" {
		completers = append(completers, llm.NewOpenAICompleter(httpClient, cfg.OpenAIAPIKey, cfg.OpenAIModel, ""))
	}
	if cfg.GeminiAPIKey != "" {
		gemini, err := llm.NewGeminiCompleter(ctx, httpClient, cfg.GeminiAPIKey, cfg.GeminiModel, "")
		if err != nil {
			return pricing.Sources{}, fmt.Errorf("failed to configure gemini: %w", err)
		}
		completers = append(completers, llm.NewRateLimited(gemini,
			cfg.GeminiRateLimit, cfg.GeminiRateWindow, cfg.GeminiMaxWait, llm.SystemClock{}))
	}
	if src := llm.NewSource(log, cfg.LLMBatchSize, completers...); src.Available() {
		sources.LLM = src
	}

	return sources, nil
}

// Router returns the gin engine serving the HTTP API.
func (a *App) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging(logger.Named("http")))
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-API-Key, X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "sources": a.Resolver.Sources().Describe()})
	})

	handlers.Router{
		Prices:         handlers.NewPriceHandler(a.Resolver, a.Store),
		PMS:            handlers.NewPMSHandler(a.Resolver, a.Returns, nil),
		Transactions:   handlers.NewTransactionHandler(a.Transactions),
		PipelineAPIKey: a.Config.PipelineAPIKey,
	}.Register(router.Group("/api/v1"))

	return router
}
