package model

import (
	"math"

	"github.com/spf13/cast"
)

// Summary is the normalized balance/income/expenses record for one user.
type Summary struct {
	Balance  float64 `json:"balance"`
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
}

// Accepted source keys per summary field, in precedence order.
var (
	BalanceKeys  = []string{"balance", "total_balance"}
	IncomeKeys   = []string{"income", "total_income"}
	ExpensesKeys = []string{"expenses", "expense", "total_expenses"}
)

// NormalizeSummary maps a raw summary object onto Summary. For each field the
// first candidate key that is present and numeric wins; otherwise the field is 0.
func NormalizeSummary(raw map[string]any) Summary {
	return Summary{
		Balance:  firstNumber(raw, BalanceKeys),
		Income:   firstNumber(raw, IncomeKeys),
		Expenses: firstNumber(raw, ExpensesKeys),
	}
}

func firstNumber(raw map[string]any, keys []string) float64 {
	for _, key := range keys {
		v, ok := raw[key]
		if !ok {
			continue
		}
		if f, ok := toNumber(v); ok {
			return f
		}
	}
	return 0
}

// toNumber coerces v to a finite float64. Nil, non-numeric strings, NaN and
// infinities are rejected.
func toNumber(v any) (float64, bool) {
	if v == nil {
		return 0, false
	}
	switch v.(type) {
	case map[string]any, []any:
		return 0, false
	}
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
