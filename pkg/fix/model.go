package fix

import (
	"time"

	"github.com/quickfixgo/enum"
	"github.com/shopspring/decimal"
)

// Side is the business-level order side; builders translate it to the
// enumerated wire code.
type Side string

const (
	SideBuy  Side = "Buy"
	SideSell Side = "Sell"
)

// OrdType is the business-level order type.
type OrdType string

const (
	OrdTypeMarket    OrdType = "Market"
	OrdTypeLimit     OrdType = "Limit"
	OrdTypeStop      OrdType = "Stop"
	OrdTypeStopLimit OrdType = "StopLimit"
)

var sideWire = map[Side]enum.Side{
	SideBuy:  enum.Side_BUY,
	SideSell: enum.Side_SELL,
}

var ordTypeWire = map[OrdType]enum.OrdType{
	OrdTypeMarket:    enum.OrdType_MARKET,
	OrdTypeLimit:     enum.OrdType_LIMIT,
	OrdTypeStop:      enum.OrdType("3"),
	OrdTypeStopLimit: enum.OrdType("4"),
}

type NewOrderSingle struct {
	ClOrdID      string
	Symbol       string
	Side         Side
	OrderQty     decimal.Decimal
	OrdType      OrdType
	Price        decimal.Decimal
	StopPx       decimal.Decimal
	TransactTime time.Time
}

// FXNewOrderSingle carries a currency pair in place of the symbol.
type FXNewOrderSingle struct {
	NewOrderSingle

	DealtCurrency string
	SettlDate     string
}

type FuturesNewOrderSingle struct {
	NewOrderSingle

	MaturityMonthYear string
}

type OptionsNewOrderSingle struct {
	NewOrderSingle

	MaturityMonthYear string
	StrikePrice       decimal.Decimal
	PutOrCall         string
	UnderlyingSymbol  string
}

type ExecutionReport struct {
	ClOrdID      string
	ExecID       string
	ExecType     enum.ExecType
	OrdStatus    enum.OrdStatus
	Symbol       string
	Side         Side
	LastQty      decimal.Decimal
	LastPx       decimal.Decimal
	LeavesQty    decimal.Decimal
	CumQty       decimal.Decimal
	AvgPx        decimal.Decimal
	TransactTime time.Time
}

type OrderCancelRequest struct {
	ClOrdID      string
	OrigClOrdID  string
	Symbol       string
	Side         Side
	TransactTime time.Time
}

type OrderCancelReplaceRequest struct {
	ClOrdID      string
	OrigClOrdID  string
	Symbol       string
	Side         Side
	OrderQty     decimal.Decimal
	OrdType      OrdType
	Price        decimal.Decimal
	TransactTime time.Time
}

type AllocationInstruction struct {
	AllocID        string
	AllocTransType string
	NoAllocs       int
	Symbol         string
	Side           Side
	AvgPx          decimal.Decimal
	TradeDate      string
}

type AllocationReport struct {
	AllocReportID string
	AllocStatus   string
	AvgPx         decimal.Decimal
}

type Confirmation struct {
	ConfirmID        string
	ConfirmTransType string
	ConfirmType      string
	ConfirmStatus    string
}

type AllocationAck struct {
	AllocID   string
	TradeDate string
}
