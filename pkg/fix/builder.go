package fix

import (
	"strconv"
	"time"

	"github.com/quickfixgo/tag"
)

// Builders translate a business-event parameter set into a framed message.
// They pick the enumerated wire codes, stamp a transact time when the caller
// leaves it zero and delegate framing to Encode. Cross-field validation is
// the caller's job.

func transactTime(t time.Time) string {
	if t.IsZero() {
		t = time.Now().UTC()
	}
	return t.UTC().Format(TransactTimeFormat)
}

func newMessage(msgType MsgType, fields *FieldMap) *Message {
	return &Message{
		Type:   msgType,
		Fields: fields,
		Wire:   Encode(msgType, fields),
	}
}

func newOrderFields(p NewOrderSingle) *FieldMap {
	fields := NewFieldMap()
	fields.Set(tag.ClOrdID, p.ClOrdID)
	fields.Set(tag.Symbol, p.Symbol)
	fields.Set(tag.Side, string(sideWire[p.Side]))
	fields.Set(tag.OrderQty, p.OrderQty.String())
	fields.Set(tag.OrdType, string(ordTypeWire[p.OrdType]))

	// only the limit variants carry a price tag; a plain stop triggers a
	// market order so it gets the stop price alone
	if p.OrdType == OrdTypeLimit || p.OrdType == OrdTypeStopLimit {
		fields.Set(tag.Price, p.Price.String())
	}
	if p.OrdType == OrdTypeStop || p.OrdType == OrdTypeStopLimit {
		fields.Set(tag.StopPx, p.StopPx.String())
	}

	fields.Set(tag.TransactTime, transactTime(p.TransactTime))
	return fields
}

func BuildNewOrderSingle(p NewOrderSingle) *Message {
	return newMessage(MsgTypeNewOrderSingle, newOrderFields(p))
}

// BuildFXNewOrderSingle layers FX tags onto the base order shape; the
// symbol field carries the currency pair.
func BuildFXNewOrderSingle(p FXNewOrderSingle) *Message {
	fields := newOrderFields(p.NewOrderSingle)
	fields.Set(tag.Currency, p.DealtCurrency)
	fields.Set(tag.SettlDate, p.SettlDate)
	return newMessage(MsgTypeNewOrderSingle, fields)
}

func BuildFuturesNewOrderSingle(p FuturesNewOrderSingle) *Message {
	fields := newOrderFields(p.NewOrderSingle)
	fields.Set(tag.SecurityType, "FUT")
	fields.Set(tag.MaturityMonthYear, p.MaturityMonthYear)
	return newMessage(MsgTypeNewOrderSingle, fields)
}

func BuildOptionsNewOrderSingle(p OptionsNewOrderSingle) *Message {
	fields := newOrderFields(p.NewOrderSingle)
	fields.Set(tag.SecurityType, "OPT")
	fields.Set(tag.MaturityMonthYear, p.MaturityMonthYear)
	fields.Set(tag.StrikePrice, p.StrikePrice.String())
	fields.Set(tag.PutOrCall, p.PutOrCall)
	fields.Set(tag.UnderlyingSymbol, p.UnderlyingSymbol)
	return newMessage(MsgTypeNewOrderSingle, fields)
}

func BuildExecutionReport(p ExecutionReport) *Message {
	fields := NewFieldMap()
	fields.Set(tag.ClOrdID, p.ClOrdID)
	fields.Set(tag.ExecID, p.ExecID)
	fields.Set(tag.ExecType, string(p.ExecType))
	fields.Set(tag.OrdStatus, string(p.OrdStatus))
	fields.Set(tag.Symbol, p.Symbol)
	fields.Set(tag.Side, string(sideWire[p.Side]))
	fields.Set(tag.LastQty, p.LastQty.String())
	fields.Set(tag.LastPx, p.LastPx.String())
	fields.Set(tag.LeavesQty, p.LeavesQty.String())
	fields.Set(tag.CumQty, p.CumQty.String())
	fields.Set(tag.AvgPx, p.AvgPx.String())
	fields.Set(tag.TransactTime, transactTime(p.TransactTime))
	return newMessage(MsgTypeExecutionReport, fields)
}

func BuildOrderCancelRequest(p OrderCancelRequest) *Message {
	fields := NewFieldMap()
	fields.Set(tag.ClOrdID, p.ClOrdID)
	fields.Set(tag.OrigClOrdID, p.OrigClOrdID)
	fields.Set(tag.Symbol, p.Symbol)
	fields.Set(tag.Side, string(sideWire[p.Side]))
	fields.Set(tag.TransactTime, transactTime(p.TransactTime))
	return newMessage(MsgTypeOrderCancelRequest, fields)
}

func BuildOrderCancelReplaceRequest(p OrderCancelReplaceRequest) *Message {
	fields := NewFieldMap()
	fields.Set(tag.ClOrdID, p.ClOrdID)
	fields.Set(tag.OrigClOrdID, p.OrigClOrdID)
	fields.Set(tag.Symbol, p.Symbol)
	fields.Set(tag.Side, string(sideWire[p.Side]))
	fields.Set(tag.OrderQty, p.OrderQty.String())
	fields.Set(tag.OrdType, string(ordTypeWire[p.OrdType]))
	if p.OrdType == OrdTypeLimit || p.OrdType == OrdTypeStopLimit {
		fields.Set(tag.Price, p.Price.String())
	}
	fields.Set(tag.TransactTime, transactTime(p.TransactTime))
	return newMessage(MsgTypeOrderCancelReplaceRequest, fields)
}

func BuildAllocationInstruction(p AllocationInstruction) *Message {
	fields := NewFieldMap()
	fields.Set(tag.AllocID, p.AllocID)
	fields.Set(tag.AllocTransType, p.AllocTransType)
	fields.Set(tag.NoAllocs, strconv.Itoa(p.NoAllocs))
	fields.Set(tag.Symbol, p.Symbol)
	fields.Set(tag.Side, string(sideWire[p.Side]))
	fields.Set(tag.AvgPx, p.AvgPx.String())
	fields.Set(tag.TradeDate, p.TradeDate)
	return newMessage(MsgTypeAllocationInstruction, fields)
}

func BuildAllocationReport(p AllocationReport) *Message {
	fields := NewFieldMap()
	fields.Set(tag.AllocReportID, p.AllocReportID)
	fields.Set(tag.AllocStatus, p.AllocStatus)
	fields.Set(tag.AvgPx, p.AvgPx.String())
	return newMessage(MsgTypeAllocationReport, fields)
}

func BuildConfirmation(p Confirmation) *Message {
	fields := NewFieldMap()
	fields.Set(tag.ConfirmID, p.ConfirmID)
	fields.Set(tag.ConfirmTransType, p.ConfirmTransType)
	fields.Set(tag.ConfirmType, p.ConfirmType)
	fields.Set(tag.ConfirmStatus, p.ConfirmStatus)
	return newMessage(MsgTypeConfirmation, fields)
}

func BuildAllocationAck(p AllocationAck) *Message {
	fields := NewFieldMap()
	fields.Set(tag.AllocID, p.AllocID)
	fields.Set(tag.TradeDate, p.TradeDate)
	return newMessage(MsgTypeAllocationAck, fields)
}
