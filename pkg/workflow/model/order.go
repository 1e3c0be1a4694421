package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusNew             OrderStatus = "New"
	OrderStatusPartiallyFilled OrderStatus = "PartiallyFilled"
	OrderStatusFilled          OrderStatus = "Filled"
	OrderStatusCanceled        OrderStatus = "Canceled"
	OrderStatusRejected        OrderStatus = "Rejected"
	OrderStatusPendingCancel   OrderStatus = "PendingCancel"
	OrderStatusPendingReplace  OrderStatus = "PendingReplace"
)

type OrderSide string

const (
	OrderSideBuy  OrderSide = "Buy"
	OrderSideSell OrderSide = "Sell"
)

type OrderType string

const (
	OrderTypeMarket    OrderType = "Market"
	OrderTypeLimit     OrderType = "Limit"
	OrderTypeStop      OrderType = "Stop"
	OrderTypeStopLimit OrderType = "StopLimit"
)

// AssetClass selects which order-entry message shape is built.
type AssetClass string

const (
	AssetClassEquity  AssetClass = "Equity"
	AssetClassFX      AssetClass = "FX"
	AssetClassFutures AssetClass = "Futures"
	AssetClassOptions AssetClass = "Options"
)

// Order is one tradable instrument request. CumQty+LeavesQty == Quantity
// holds after every fill, cancel-accept and replace-accept transition.
type Order struct {
	ID int64

	// init info
	ClOrdID      string
	Symbol       string
	Side         OrderSide
	Type         OrderType
	AssetClass   AssetClass
	Price        decimal.Decimal
	StopPrice    decimal.Decimal
	Quantity     decimal.Decimal
	TransactTime time.Time

	// asset-class extras
	DealtCurrency     string
	SettlDate         string
	MaturityMonthYear string
	StrikePrice       decimal.Decimal
	PutOrCall         string
	UnderlyingSymbol  string

	// calculated info
	Status    OrderStatus
	CumQty    decimal.Decimal
	LeavesQty decimal.Decimal
	AvgPx     decimal.Decimal
}

type AddOrder struct {
	ClOrdID      string
	Symbol       string
	Side         OrderSide
	Type         OrderType
	AssetClass   AssetClass
	Price        decimal.Decimal
	StopPrice    decimal.Decimal
	Quantity     decimal.Decimal
	TransactTime time.Time

	DealtCurrency     string
	SettlDate         string
	MaturityMonthYear string
	StrikePrice       decimal.Decimal
	PutOrCall         string
	UnderlyingSymbol  string
}

func NewOrder(add *AddOrder) *Order {
	o := &Order{
		ClOrdID:           add.ClOrdID,
		Symbol:            add.Symbol,
		Side:              add.Side,
		Type:              add.Type,
		AssetClass:        add.AssetClass,
		Price:             add.Price,
		StopPrice:         add.StopPrice,
		Quantity:          add.Quantity,
		TransactTime:      add.TransactTime,
		DealtCurrency:     add.DealtCurrency,
		SettlDate:         add.SettlDate,
		MaturityMonthYear: add.MaturityMonthYear,
		StrikePrice:       add.StrikePrice,
		PutOrCall:         add.PutOrCall,
		UnderlyingSymbol:  add.UnderlyingSymbol,
		Status:            OrderStatusNew,
		LeavesQty:         add.Quantity,
	}
	if o.AssetClass == "" {
		o.AssetClass = AssetClassEquity
	}
	return o
}

// ApplyFill folds one fill into the order: cumulative quantity, leaves
// quantity and the volume-weighted average price.
func (o *Order) ApplyFill(lastQty, lastPx decimal.Decimal) {
	newCum := o.CumQty.Add(lastQty)
	if newCum.IsPositive() {
		notional := o.AvgPx.Mul(o.CumQty).Add(lastPx.Mul(lastQty))
		o.AvgPx = notional.Div(newCum)
	}
	o.CumQty = newCum
	o.LeavesQty = o.Quantity.Sub(newCum)

	if o.LeavesQty.IsPositive() {
		o.Status = OrderStatusPartiallyFilled
	} else {
		o.LeavesQty = decimal.Zero
		o.Status = OrderStatusFilled
	}
}

// ApplyCancel zeroes the open quantity; filled shares stay filled.
func (o *Order) ApplyCancel() {
	o.LeavesQty = decimal.Zero
	o.Quantity = o.CumQty
	o.Status = OrderStatusCanceled
}

// ApplyReplace resets the order quantity and reprices the open remainder.
func (o *Order) ApplyReplace(newQty, newPrice decimal.Decimal) {
	o.Quantity = newQty
	o.Price = newPrice
	o.LeavesQty = newQty.Sub(o.CumQty)
	if o.LeavesQty.IsPositive() {
		if o.CumQty.IsPositive() {
			o.Status = OrderStatusPartiallyFilled
		} else {
			o.Status = OrderStatusNew
		}
	} else {
		o.LeavesQty = decimal.Zero
		o.Status = OrderStatusFilled
	}
}

// ApplyReject closes the order with nothing open; any filled shares stand.
func (o *Order) ApplyReject() {
	o.LeavesQty = decimal.Zero
	o.Quantity = o.CumQty
	o.Status = OrderStatusRejected
}

func (o *Order) CanCancel() bool {
	switch o.Status {
	case OrderStatusNew, OrderStatusPartiallyFilled, OrderStatusPendingCancel, OrderStatusPendingReplace:
		return true
	}
	return false
}

func (o *Order) CanReplace() bool {
	switch o.Status {
	case OrderStatusNew, OrderStatusPartiallyFilled, OrderStatusPendingReplace:
		return true
	}
	return false
}

func (o *Order) CanFill() bool {
	switch o.Status {
	case OrderStatusNew, OrderStatusPartiallyFilled:
		return true
	}
	return false
}

// CanAllocate reports whether the order carries filled shares to apportion.
func (o *Order) CanAllocate() bool {
	return o.CumQty.IsPositive()
}
