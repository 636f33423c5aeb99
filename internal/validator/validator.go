// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// typeNameRegex allows letters, spaces, hyphens, and apostrophes only.
var typeNameRegex = regexp.MustCompile(`^[A-Za-z\s\-']+$`)

// validCurrencies contains the ISO 4217 currency codes Razorpay settles in.
var validCurrencies = map[string]bool{
	"INR": true, "USD": true, "EUR": true, "GBP": true, "AUD": true,
	"CAD": true, "SGD": true, "AED": true, "JPY": true, "CNY": true,
	"CHF": true, "HKD": true, "MYR": true, "NZD": true, "SAR": true,
}

// validFrequencies is the allow-list for recurrence frequency.
var validFrequencies = map[string]bool{
	"daily": true, "weekly": true, "monthly": true, "quarterly": true, "yearly": true,
}

// validPaymentMethods mirrors the payment method options the frontend offers.
var validPaymentMethods = map[string]bool{
	"cash": true, "card": true, "upi": true, "netbanking": true,
	"wallet": true, "cheque": true, "other": true,
}

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("type_name", validateTypeName)
		_ = v.RegisterValidation("frequency", validateFrequency)
		_ = v.RegisterValidation("payment_method", validatePaymentMethod)
		_ = v.RegisterValidation("iso4217", validateISO4217)
		_ = v.RegisterValidation("trimmed_min", validateTrimmedMin)
	}
}

// ValidTypeName reports whether a trimmed category type name is acceptable:
// non-empty, at most 50 characters, letters/spaces/hyphens/apostrophes only.
// Exposed for the service layer, which re-checks before any mutation.
func ValidTypeName(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 50 {
		return false
	}
	return typeNameRegex.MatchString(name)
}

// ValidFrequency reports whether freq is an allowed recurrence frequency.
func ValidFrequency(freq string) bool {
	return validFrequencies[freq]
}

// ValidCurrency reports whether code is a supported settlement currency.
func ValidCurrency(code string) bool {
	return validCurrencies[code]
}

func validateTypeName(fl validator.FieldLevel) bool {
	return ValidTypeName(fl.Field().String())
}

func validateFrequency(fl validator.FieldLevel) bool {
	return ValidFrequency(fl.Field().String())
}

func validatePaymentMethod(fl validator.FieldLevel) bool {
	return validPaymentMethods[fl.Field().String()]
}

func validateISO4217(fl validator.FieldLevel) bool {
	return validCurrencies[fl.Field().String()]
}

// trimmed_min rejects values that are whitespace-only even when the raw
// string satisfies a min length tag.
func validateTrimmedMin(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}
