// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"niveshak/internal/cagr"
	"niveshak/internal/models"
	"niveshak/internal/ticker"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		RegisterOn(v)
	}
}

// RegisterOn adds the custom validators to v.
func RegisterOn(v *validator.Validate) {
	_ = v.RegisterValidation("ticker", validateTicker)
	_ = v.RegisterValidation("transaction_type", validateTransactionType)
	_ = v.RegisterValidation("return_period", validateReturnPeriod)
}

// validateTicker accepts any string the classifier can route to a price source.
func validateTicker(fl validator.FieldLevel) bool {
	return ticker.Classify(fl.Field().String()) != ticker.Invalid
}

func validateTransactionType(fl validator.FieldLevel) bool {
	switch models.TransactionType(fl.Field().String()) {
	case models.TransactionTypeBuy, models.TransactionTypeSell:
		return true
	}
	return false
}

func validateReturnPeriod(fl validator.FieldLevel) bool {
	_, ok := cagr.ParsePeriod(fl.Field().String())
	return ok
}
