package fix

import (
	"testing"
	"time"

	"github.com/quickfixgo/enum"
	"github.com/quickfixgo/tag"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2026, 8, 30, 14, 30, 0, 0, time.UTC)

func baseOrder(ordType OrdType) NewOrderSingle {
	return NewOrderSingle{
		ClOrdID:      "ORD-1",
		Symbol:       "AAPL",
		Side:         SideBuy,
		OrderQty:     decimal.NewFromInt(100),
		OrdType:      ordType,
		Price:        decimal.NewFromFloat(187.5),
		StopPx:       decimal.NewFromFloat(180),
		TransactTime: fixedTime,
	}
}

func TestBuildNewOrderSingleWireCodes(t *testing.T) {
	msg := BuildNewOrderSingle(baseOrder(OrdTypeLimit))

	require.Equal(t, MsgTypeNewOrderSingle, msg.Type)
	side, _ := msg.Fields.Get(tag.Side)
	assert.Equal(t, "1", side)
	ordType, _ := msg.Fields.Get(tag.OrdType)
	assert.Equal(t, "2", ordType)
	price, _ := msg.Fields.Get(tag.Price)
	assert.Equal(t, "187.5", price)
	ts, _ := msg.Fields.Get(tag.TransactTime)
	assert.Equal(t, "20260830-14:30:00", ts)

	res := Validate(msg.Type, msg.Fields)
	assert.True(t, res.Valid, "errors: %v", res.Errors)
}

func TestBuildMarketOrderOmitsPrice(t *testing.T) {
	msg := BuildNewOrderSingle(baseOrder(OrdTypeMarket))

	assert.False(t, msg.Fields.Has(tag.Price))
	assert.False(t, msg.Fields.Has(tag.StopPx))
	ordType, _ := msg.Fields.Get(tag.OrdType)
	assert.Equal(t, "1", ordType)
}

func TestBuildStopOrdersCarryStopPx(t *testing.T) {
	stop := BuildNewOrderSingle(baseOrder(OrdTypeStop))
	px, ok := stop.Fields.Get(tag.StopPx)
	require.True(t, ok)
	assert.Equal(t, "180", px)
	// plain stop triggers at market, so no limit price
	assert.False(t, stop.Fields.Has(tag.Price))

	stopLimit := BuildNewOrderSingle(baseOrder(OrdTypeStopLimit))
	assert.True(t, stopLimit.Fields.Has(tag.Price))
	assert.True(t, stopLimit.Fields.Has(tag.StopPx))
}

func TestBuildDefaultsTransactTime(t *testing.T) {
	p := baseOrder(OrdTypeLimit)
	p.TransactTime = time.Time{}
	msg := BuildNewOrderSingle(p)

	ts, ok := msg.Fields.Get(tag.TransactTime)
	require.True(t, ok)
	_, err := time.Parse(TransactTimeFormat, ts)
	assert.NoError(t, err, "stamped time %q must use the wire layout", ts)
}

func TestBuildExecutionReport(t *testing.T) {
	msg := BuildExecutionReport(ExecutionReport{
		ClOrdID:      "ORD-1",
		ExecID:       "EXEC-1",
		ExecType:     enum.ExecType_TRADE,
		OrdStatus:    enum.OrdStatus_PARTIALLY_FILLED,
		Symbol:       "AAPL",
		Side:         SideBuy,
		LastQty:      decimal.NewFromInt(40),
		LastPx:       decimal.NewFromFloat(187.25),
		LeavesQty:    decimal.NewFromInt(60),
		CumQty:       decimal.NewFromInt(40),
		AvgPx:        decimal.NewFromFloat(187.25),
		TransactTime: fixedTime,
	})

	require.Equal(t, MsgTypeExecutionReport, msg.Type)
	res := Validate(msg.Type, msg.Fields)
	assert.True(t, res.Valid, "errors: %v", res.Errors)

	status, _ := msg.Fields.Get(tag.OrdStatus)
	assert.Equal(t, "1", status)
}

func TestBuildCancelAndReplace(t *testing.T) {
	cancel := BuildOrderCancelRequest(OrderCancelRequest{
		ClOrdID:     "ORD-2",
		OrigClOrdID: "ORD-1",
		Symbol:      "AAPL",
		Side:        SideBuy,
	})
	require.Equal(t, MsgTypeOrderCancelRequest, cancel.Type)
	res := Validate(cancel.Type, cancel.Fields)
	assert.True(t, res.Valid, "errors: %v", res.Errors)

	replace := BuildOrderCancelReplaceRequest(OrderCancelReplaceRequest{
		ClOrdID:     "ORD-3",
		OrigClOrdID: "ORD-1",
		Symbol:      "AAPL",
		Side:        SideBuy,
		OrderQty:    decimal.NewFromInt(150),
		OrdType:     OrdTypeLimit,
		Price:       decimal.NewFromFloat(188),
	})
	require.Equal(t, MsgTypeOrderCancelReplaceRequest, replace.Type)
	res = Validate(replace.Type, replace.Fields)
	assert.True(t, res.Valid, "errors: %v", res.Errors)
}

func TestBuildAllocationMessages(t *testing.T) {
	instr := BuildAllocationInstruction(AllocationInstruction{
		AllocID:        "ALLOC-1",
		AllocTransType: "0",
		NoAllocs:       3,
		Symbol:         "AAPL",
		Side:           SideBuy,
		AvgPx:          decimal.NewFromFloat(187.25),
		TradeDate:      "20260830",
	})
	res := Validate(instr.Type, instr.Fields)
	assert.True(t, res.Valid, "errors: %v", res.Errors)
	n, _ := instr.Fields.Get(tag.NoAllocs)
	assert.Equal(t, "3", n)

	report := BuildAllocationReport(AllocationReport{
		AllocReportID: "REP-1",
		AllocStatus:   "0",
		AvgPx:         decimal.NewFromFloat(187.25),
	})
	res = Validate(report.Type, report.Fields)
	assert.True(t, res.Valid, "errors: %v", res.Errors)

	confirm := BuildConfirmation(Confirmation{
		ConfirmID:        "CONF-1",
		ConfirmTransType: "0",
		ConfirmType:      "2",
		ConfirmStatus:    "4",
	})
	res = Validate(confirm.Type, confirm.Fields)
	assert.True(t, res.Valid, "errors: %v", res.Errors)

	ack := BuildAllocationAck(AllocationAck{AllocID: "ALLOC-1", TradeDate: "20260830"})
	res = Validate(ack.Type, ack.Fields)
	assert.True(t, res.Valid, "errors: %v", res.Errors)
}

func TestBuildAssetClassVariantsAreAdditive(t *testing.T) {
	fx := BuildFXNewOrderSingle(FXNewOrderSingle{
		NewOrderSingle: func() NewOrderSingle {
			p := baseOrder(OrdTypeLimit)
			p.Symbol = "EUR/USD"
			return p
		}(),
		DealtCurrency: "EUR",
		SettlDate:     "20260901",
	})
	res := Validate(fx.Type, fx.Fields)
	assert.True(t, res.Valid, "errors: %v", res.Errors)
	ccy, _ := fx.Fields.Get(tag.Currency)
	assert.Equal(t, "EUR", ccy)
	sym, _ := fx.Fields.Get(tag.Symbol)
	assert.Equal(t, "EUR/USD", sym)

	fut := BuildFuturesNewOrderSingle(FuturesNewOrderSingle{
		NewOrderSingle:    baseOrder(OrdTypeLimit),
		MaturityMonthYear: "202612",
	})
	res = Validate(fut.Type, fut.Fields)
	assert.True(t, res.Valid, "errors: %v", res.Errors)
	secType, _ := fut.Fields.Get(tag.SecurityType)
	assert.Equal(t, "FUT", secType)

	opt := BuildOptionsNewOrderSingle(OptionsNewOrderSingle{
		NewOrderSingle:    baseOrder(OrdTypeLimit),
		MaturityMonthYear: "202612",
		StrikePrice:       decimal.NewFromInt(190),
		PutOrCall:         "1",
		UnderlyingSymbol:  "AAPL",
	})
	res = Validate(opt.Type, opt.Fields)
	assert.True(t, res.Valid, "errors: %v", res.Errors)
	strike, _ := opt.Fields.Get(tag.StrikePrice)
	assert.Equal(t, "190", strike)
	underlying, _ := opt.Fields.Get(tag.UnderlyingSymbol)
	assert.Equal(t, "AAPL", underlying)
}
