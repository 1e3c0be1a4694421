package allocation

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ValidationResult accumulates pre-flight violations; it is data, not an
// error, so callers can present every problem at once.
type ValidationResult struct {
	Valid  bool
	Errors []string
}

// percentTolerance bounds how far the percent sum may drift from 100.
var percentTolerance = decimal.NewFromFloat(0.01)

// Validate runs the method-specific pre-flight checks. The engine does not
// call this itself; the caller composes both.
func Validate(method Method, accounts []Account, totalQty decimal.Decimal) ValidationResult {
	if len(accounts) == 0 {
		return ValidationResult{Errors: []string{"no allocation accounts"}}
	}

	var errs []string
	for i, a := range accounts {
		if strings.TrimSpace(a.ID) == "" {
			errs = append(errs, fmt.Sprintf("account %d has an empty identifier", i))
		}
	}

	switch method {
	case MethodPercent:
		sum := decimal.Zero
		for _, a := range accounts {
			sum = sum.Add(a.Percent)
		}
		if sum.Sub(oneHundred).Abs().GreaterThan(percentTolerance) {
			errs = append(errs, fmt.Sprintf("percent allocations must sum to 100, got %s", sum))
		}
	case MethodFixedQty, MethodAvgPrice:
		sum := decimal.Zero
		for _, a := range accounts {
			sum = sum.Add(a.Qty)
		}
		if sum.GreaterThan(totalQty) {
			errs = append(errs, fmt.Sprintf("allocated quantity %s exceeds order quantity %s", sum, totalQty))
		}
	}

	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}
