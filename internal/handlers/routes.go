package handlers

import (
	"github.com/gin-gonic/gin"

	"niveshak/internal/middleware"
)

// Router bundles the handlers mounted under /api/v1.
type Router struct {
	Prices         *PriceHandler
	PMS            *PMSHandler
	Transactions   *TransactionHandler
	PipelineAPIKey string
}

// Register mounts every API route on group.
func (r Router) Register(v1 *gin.RouterGroup) {
	v1.GET("/instruments/:ticker/class", r.Prices.GetClass)

	prices := v1.Group("/prices")
	prices.POST("/latest", r.Prices.GetLatestPrices)
	prices.POST("/history", r.Prices.GetPriceHistory)
	prices.GET("/:ticker", r.Prices.GetPrice)
	prices.GET("/:ticker/cached", r.Prices.ListCachedPrices)

	pms := v1.Group("/pms")
	pms.GET("/:ticker/valuation", r.PMS.GetValuation)
	pms.GET("/:ticker/returns", r.PMS.GetReturns)

	v1.GET("/transactions", r.Transactions.ListTransactions)

	// Pipeline routes (API key auth)
	pipeline := v1.Group("/pipeline")
	pipeline.Use(middleware.PipelineAuthMiddleware(r.PipelineAPIKey))
	pipeline.PUT("/pms/:ticker/returns", r.PMS.SaveReturns)
	pipeline.POST("/pms/:ticker/factsheet", r.PMS.ImportFactsheet)
	pipeline.POST("/transactions/import", r.Transactions.ImportTransactions)
}
