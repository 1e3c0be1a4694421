package fix

import (
	"fmt"

	"github.com/quickfixgo/enum"
	"github.com/quickfixgo/quickfix"
	"github.com/quickfixgo/tag"
	"github.com/shopspring/decimal"
)

// Result reports the outcome of a validation pass. Violations are
// accumulated, never raised, so a caller can surface every problem at once.
type Result struct {
	Valid  bool
	Errors []string
}

var requiredTags = map[MsgType][]quickfix.Tag{
	MsgTypeNewOrderSingle:            {tag.ClOrdID, tag.Symbol, tag.Side, tag.OrderQty, tag.OrdType, tag.TransactTime},
	MsgTypeExecutionReport:           {tag.ClOrdID, tag.ExecID, tag.ExecType, tag.OrdStatus, tag.Symbol, tag.Side, tag.LastQty, tag.LastPx, tag.LeavesQty, tag.CumQty, tag.AvgPx},
	MsgTypeOrderCancelRequest:        {tag.ClOrdID, tag.OrigClOrdID, tag.Symbol, tag.Side},
	MsgTypeOrderCancelReplaceRequest: {tag.ClOrdID, tag.OrigClOrdID, tag.Symbol, tag.Side, tag.OrderQty},
	MsgTypeAllocationInstruction:     {tag.AllocID, tag.AllocTransType, tag.NoAllocs, tag.Symbol, tag.Side, tag.AvgPx, tag.TradeDate},
	MsgTypeAllocationReport:          {tag.AllocReportID, tag.AllocStatus, tag.AvgPx},
	MsgTypeConfirmation:              {tag.ConfirmID, tag.ConfirmTransType, tag.ConfirmType, tag.ConfirmStatus},
	MsgTypeAllocationAck:             {tag.AllocID, tag.TradeDate},
}

var validSides = map[string]bool{
	string(enum.Side_BUY):  true,
	string(enum.Side_SELL): true,
	"Buy":                  true,
	"Sell":                 true,
}

var validOrdTypes = map[string]bool{
	string(enum.OrdType_MARKET): true,
	string(enum.OrdType_LIMIT):  true,
	"3":                         true,
	"4":                         true,
	"Market":                    true,
	"Limit":                     true,
	"Stop":                      true,
	"StopLimit":                 true,
}

var quantityTags = []quickfix.Tag{tag.OrderQty, tag.LastQty, tag.AllocQty, tag.CumQty, tag.LeavesQty}

var priceTags = []quickfix.Tag{tag.Price, tag.LastPx, tag.AvgPx}

// Validate checks that the fields are well-formed for the declared message
// type. Required tags are checked first, then value constraints run
// independently so unrelated violations accumulate in a single pass. The
// input is never mutated and the function never panics.
func Validate(msgType MsgType, fields *FieldMap) Result {
	var errs []string

	if fields == nil {
		fields = NewFieldMap()
	}

	for _, t := range requiredTags[msgType] {
		if !fields.Has(t) {
			errs = append(errs, fmt.Sprintf("missing required tag %d", t))
		}
	}

	if v, ok := fields.Get(tag.Side); ok && !validSides[v] {
		errs = append(errs, fmt.Sprintf("invalid Side value %q", v))
	}

	if v, ok := fields.Get(tag.OrdType); ok && !validOrdTypes[v] {
		errs = append(errs, fmt.Sprintf("invalid OrdType value %q", v))
	}

	for _, t := range quantityTags {
		v, ok := fields.Get(t)
		if !ok {
			continue
		}
		d, err := decimal.NewFromString(v)
		if err != nil {
			// non-numeric values fail the numeric check rather than
			// coercing silently
			errs = append(errs, fmt.Sprintf("tag %d has non-numeric value %q", t, v))
			continue
		}
		if d.IsNegative() {
			errs = append(errs, fmt.Sprintf("tag %d must not be negative, got %s", t, v))
		}
	}

	for _, t := range priceTags {
		v, ok := fields.Get(t)
		if !ok {
			continue
		}
		d, err := decimal.NewFromString(v)
		if err != nil {
			errs = append(errs, fmt.Sprintf("tag %d has non-numeric value %q", t, v))
			continue
		}
		if !d.IsPositive() {
			errs = append(errs, fmt.Sprintf("tag %d must be positive, got %s", t, v))
		}
	}

	return Result{Valid: len(errs) == 0, Errors: errs}
}
