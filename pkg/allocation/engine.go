package allocation

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Method selects the apportionment algorithm.
type Method string

const (
	MethodProRata  Method = "ProRata"
	MethodPercent  Method = "Percent"
	MethodFixedQty Method = "FixedQty"
	// MethodAvgPrice is computationally identical to MethodFixedQty; the
	// distinct name is kept for wire-protocol fidelity.
	MethodAvgPrice Method = "AvgPrice"
)

// ParseMethod resolves a method name from the wire or UI form.
func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case MethodProRata, MethodPercent, MethodFixedQty, MethodAvgPrice:
		return Method(s), nil
	}
	return "", fmt.Errorf("unknown allocation method %q", s)
}

// Account is a caller-supplied allocation target. Weight applies to ProRata,
// Percent to the Percent method, Qty to FixedQty and AvgPrice.
type Account struct {
	ID      string
	Weight  decimal.Decimal
	Percent decimal.Decimal
	Qty     decimal.Decimal
}

// AccountResult is the resolved apportionment for one account.
type AccountResult struct {
	ID       string
	Qty      decimal.Decimal
	Percent  decimal.Decimal
	NetMoney decimal.Decimal
}

// Result is the immutable outcome of one allocation calculation.
type Result struct {
	Method        Method
	AvgPx         decimal.Decimal
	Accounts      []AccountResult
	TotalQty      decimal.Decimal
	TotalNetMoney decimal.Decimal
}

// OrderSnapshot is the filled-order view the engine works from. The caller
// guarantees it is internally consistent and not stale.
type OrderSnapshot struct {
	CumQty decimal.Decimal
	AvgPx  decimal.Decimal
	Price  decimal.Decimal
}

func (s OrderSnapshot) effectivePrice() decimal.Decimal {
	if !s.AvgPx.IsZero() {
		return s.AvgPx
	}
	return s.Price
}

var oneHundred = decimal.NewFromInt(100)

// Calculate apportions the order's filled quantity and proceeds across the
// accounts. For ProRata and Percent the last account in caller order absorbs
// all rounding slack, so the assigned total equals the filled quantity
// exactly. An unknown method is a caller bug and returns an error.
func Calculate(method Method, order OrderSnapshot, accounts []Account) (*Result, error) {
	avgPx := order.effectivePrice()
	totalQty := order.CumQty

	var results []AccountResult
	switch method {
	case MethodProRata:
		results = proRata(totalQty, accounts)
	case MethodPercent:
		results = percent(totalQty, accounts)
	case MethodFixedQty, MethodAvgPrice:
		results = passThrough(accounts)
	default:
		return nil, fmt.Errorf("unknown allocation method %q", method)
	}

	res := &Result{
		Method:   method,
		AvgPx:    avgPx,
		Accounts: results,
	}
	for i := range res.Accounts {
		res.Accounts[i].NetMoney = res.Accounts[i].Qty.Mul(avgPx)
		res.TotalQty = res.TotalQty.Add(res.Accounts[i].Qty)
		res.TotalNetMoney = res.TotalNetMoney.Add(res.Accounts[i].NetMoney)
	}
	return res, nil
}

func proRata(totalQty decimal.Decimal, accounts []Account) []AccountResult {
	totalWeight := decimal.Zero
	for _, a := range accounts {
		totalWeight = totalWeight.Add(a.Weight)
	}

	results := make([]AccountResult, 0, len(accounts))
	if totalWeight.IsZero() {
		for _, a := range accounts {
			results = append(results, AccountResult{ID: a.ID})
		}
		return results
	}

	assigned := decimal.Zero
	for i, a := range accounts {
		var qty decimal.Decimal
		if i == len(accounts)-1 {
			qty = totalQty.Sub(assigned)
		} else {
			qty = totalQty.Mul(a.Weight).Div(totalWeight).Floor()
			assigned = assigned.Add(qty)
		}
		results = append(results, AccountResult{
			ID:      a.ID,
			Qty:     qty,
			Percent: displayPercent(qty, totalQty),
		})
	}
	return results
}

func percent(totalQty decimal.Decimal, accounts []Account) []AccountResult {
	results := make([]AccountResult, 0, len(accounts))
	assigned := decimal.Zero
	for i, a := range accounts {
		var qty decimal.Decimal
		if i == len(accounts)-1 {
			qty = totalQty.Sub(assigned)
		} else {
			qty = totalQty.Mul(a.Percent).Div(oneHundred).Floor()
			assigned = assigned.Add(qty)
		}
		results = append(results, AccountResult{
			ID:      a.ID,
			Qty:     qty,
			Percent: a.Percent,
		})
	}
	return results
}

func passThrough(accounts []Account) []AccountResult {
	results := make([]AccountResult, 0, len(accounts))
	for _, a := range accounts {
		results = append(results, AccountResult{ID: a.ID, Qty: a.Qty})
	}
	return results
}

func displayPercent(qty, totalQty decimal.Decimal) decimal.Decimal {
	if totalQty.IsZero() {
		return decimal.Zero
	}
	return qty.Div(totalQty).Mul(oneHundred)
}
