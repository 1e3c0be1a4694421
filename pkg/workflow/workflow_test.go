package workflow

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utkarsh-1912/TradeLab/pkg/allocation"
	"github.com/utkarsh-1912/TradeLab/pkg/fix"
	"github.com/utkarsh-1912/TradeLab/pkg/workflow/model"
)

type captureGateway struct {
	events []*model.MessageEvent
}

func (g *captureGateway) OnMessage(_ context.Context, ev *model.MessageEvent) {
	g.events = append(g.events, ev)
}

func newTestWorkflow() (*Workflow, *captureGateway) {
	wf := NewWorkflow(nil)
	gw := &captureGateway{}
	wf.AddGateway(gw)
	return wf, gw
}

func submit(t *testing.T, wf *Workflow, clOrdID string) *model.Order {
	t.Helper()
	order, err := wf.SubmitOrder(context.Background(), &model.AddOrder{
		ClOrdID:  clOrdID,
		Symbol:   "AAPL",
		Side:     model.OrderSideBuy,
		Type:     model.OrderTypeLimit,
		Price:    decimal.NewFromInt(100),
		Quantity: decimal.NewFromInt(100),
	})
	require.NoError(t, err)
	return order
}

func TestSubmitOrderEmitsNewOrderSingle(t *testing.T) {
	wf, gw := newTestWorkflow()
	ctx := context.Background()

	order := submit(t, wf, "ORD-1")
	assert.Equal(t, model.OrderStatusNew, order.Status)

	require.Len(t, gw.events, 1)
	ev := gw.events[0]
	assert.Equal(t, "D", ev.MsgType)
	assert.Equal(t, PartyTrader, ev.Party)
	assert.True(t, ev.Valid, "errors: %v", ev.Errors)
	assert.Contains(t, ev.Display, "|35=D|")
	assert.Contains(t, ev.Display, "|11=ORD-1|")

	_, err := wf.SubmitOrder(ctx, &model.AddOrder{ClOrdID: "ORD-1"})
	assert.ErrorIs(t, err, errDuplicateOrder)
}

func TestFillFlow(t *testing.T) {
	wf, gw := newTestWorkflow()
	ctx := context.Background()
	submit(t, wf, "ORD-1")

	order, err := wf.Fill(ctx, "ORD-1", decimal.NewFromInt(40), decimal.NewFromInt(99))
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPartiallyFilled, order.Status)
	assert.True(t, order.CumQty.Add(order.LeavesQty).Equal(order.Quantity))

	order, err = wf.Fill(ctx, "ORD-1", decimal.NewFromInt(60), decimal.NewFromInt(101))
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusFilled, order.Status)
	// (40*99 + 60*101) / 100 = 100.2
	assert.True(t, order.AvgPx.Equal(decimal.NewFromFloat(100.2)), "got %s", order.AvgPx)

	_, err = wf.Fill(ctx, "ORD-1", decimal.NewFromInt(1), decimal.NewFromInt(101))
	assert.ErrorIs(t, err, errInvalidOrderStatus)

	require.Len(t, gw.events, 3)
	assert.Equal(t, "8", gw.events[1].MsgType)
	assert.Equal(t, PartyBroker, gw.events[1].Party)
	assert.True(t, gw.events[1].Valid, "errors: %v", gw.events[1].Errors)
}

func TestOverFillRejected(t *testing.T) {
	wf, _ := newTestWorkflow()
	ctx := context.Background()
	submit(t, wf, "ORD-1")

	_, err := wf.Fill(ctx, "ORD-1", decimal.NewFromInt(101), decimal.NewFromInt(99))
	assert.ErrorIs(t, err, errOverFill)

	_, err = wf.Fill(ctx, "MISSING", decimal.NewFromInt(1), decimal.NewFromInt(99))
	assert.ErrorIs(t, err, errOrderNotFound)
}

func TestCancelFlow(t *testing.T) {
	wf, gw := newTestWorkflow()
	ctx := context.Background()
	submit(t, wf, "ORD-1")

	require.NoError(t, wf.RequestCancel(ctx, "ORD-2", "ORD-1"))
	order, err := wf.AcceptCancel(ctx, "ORD-1")
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusCanceled, order.Status)

	// D, F, 8
	require.Len(t, gw.events, 3)
	assert.Equal(t, "F", gw.events[1].MsgType)
	assert.True(t, gw.events[1].Valid, "errors: %v", gw.events[1].Errors)
	// the cancel report carries the order price, not an empty trade price
	assert.Equal(t, "8", gw.events[2].MsgType)
	assert.True(t, gw.events[2].Valid, "errors: %v", gw.events[2].Errors)
	assert.Contains(t, gw.events[2].Display, "|31=100|")

	err = wf.RequestCancel(ctx, "ORD-3", "ORD-1")
	assert.ErrorIs(t, err, errInvalidOrderStatus)
}

func TestReplaceFlow(t *testing.T) {
	wf, gw := newTestWorkflow()
	ctx := context.Background()
	submit(t, wf, "ORD-1")

	require.NoError(t, wf.RequestReplace(ctx, "ORD-2", "ORD-1", decimal.NewFromInt(150), decimal.NewFromInt(101)))
	order, err := wf.AcceptReplace(ctx, "ORD-1", decimal.NewFromInt(150), decimal.NewFromInt(101))
	require.NoError(t, err)
	assert.True(t, order.Quantity.Equal(decimal.NewFromInt(150)))
	assert.Equal(t, model.OrderStatusNew, order.Status)

	require.Len(t, gw.events, 3)
	assert.Equal(t, "G", gw.events[1].MsgType)
	assert.True(t, gw.events[1].Valid, "errors: %v", gw.events[1].Errors)
	assert.Equal(t, "8", gw.events[2].MsgType)
	assert.True(t, gw.events[2].Valid, "errors: %v", gw.events[2].Errors)
	assert.Contains(t, gw.events[2].Display, "|31=101|")
}

func TestRejectFlow(t *testing.T) {
	wf, gw := newTestWorkflow()
	ctx := context.Background()
	submit(t, wf, "ORD-1")

	order, err := wf.Reject(ctx, "ORD-1")
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusRejected, order.Status)
	assert.True(t, order.LeavesQty.IsZero())
	assert.True(t, order.CumQty.Add(order.LeavesQty).Equal(order.Quantity))

	require.Len(t, gw.events, 2)
	assert.Equal(t, "8", gw.events[1].MsgType)
	assert.Equal(t, PartyBroker, gw.events[1].Party)
	assert.True(t, gw.events[1].Valid, "errors: %v", gw.events[1].Errors)
	assert.Contains(t, gw.events[1].Display, "|39=8|")

	_, err = wf.Fill(ctx, "ORD-1", decimal.NewFromInt(1), decimal.NewFromInt(99))
	assert.ErrorIs(t, err, errInvalidOrderStatus)

	// rejection is an order-entry outcome, not a lifecycle exit
	submit(t, wf, "ORD-2")
	_, err = wf.Fill(ctx, "ORD-2", decimal.NewFromInt(100), decimal.NewFromInt(99))
	require.NoError(t, err)
	_, err = wf.Reject(ctx, "ORD-2")
	assert.ErrorIs(t, err, errInvalidOrderStatus)
}

func TestAllocationFlow(t *testing.T) {
	wf, gw := newTestWorkflow()
	ctx := context.Background()
	submit(t, wf, "ORD-1")
	_, err := wf.Fill(ctx, "ORD-1", decimal.NewFromInt(100), decimal.NewFromInt(50))
	require.NoError(t, err)

	accounts := []allocation.Account{
		{ID: "ACC-1", Weight: decimal.NewFromInt(1)},
		{ID: "ACC-2", Weight: decimal.NewFromInt(1)},
		{ID: "ACC-3", Weight: decimal.NewFromInt(1)},
	}
	allocID, result, err := wf.Allocate(ctx, "ORD-1", allocation.MethodProRata, accounts)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.TotalQty.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, "34", result.Accounts[2].Qty.String())

	require.NoError(t, wf.AckAllocation(ctx, allocID))
	require.NoError(t, wf.ReportAllocation(ctx, allocID, "0"))
	require.NoError(t, wf.Confirm(ctx, allocID))

	// D, 8, J, P, AS, AK
	require.Len(t, gw.events, 6)
	types := make([]string, 0, len(gw.events))
	for _, ev := range gw.events {
		types = append(types, ev.MsgType)
		assert.True(t, ev.Valid, "%s errors: %v", ev.MsgType, ev.Errors)
	}
	assert.Equal(t, []string{"D", "8", "J", "P", "AS", "AK"}, types)

	stored, err := wf.Allocation(allocID)
	require.NoError(t, err)
	assert.Equal(t, allocation.MethodProRata, stored.Method)
}

func TestAllocateGuards(t *testing.T) {
	wf, _ := newTestWorkflow()
	ctx := context.Background()
	submit(t, wf, "ORD-1")

	accounts := []allocation.Account{{ID: "ACC-1", Weight: decimal.NewFromInt(1)}}
	_, _, err := wf.Allocate(ctx, "ORD-1", allocation.MethodProRata, accounts)
	assert.ErrorIs(t, err, errInvalidOrderStatus, "unfilled order must not allocate")

	_, err = wf.Fill(ctx, "ORD-1", decimal.NewFromInt(100), decimal.NewFromInt(50))
	require.NoError(t, err)

	_, _, err = wf.Allocate(ctx, "ORD-1", allocation.MethodPercent, []allocation.Account{
		{ID: "ACC-1", Percent: decimal.NewFromInt(40)},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "allocation rejected")

	err = wf.AckAllocation(ctx, "missing")
	assert.ErrorIs(t, err, errAllocationNotFound)
}

func TestAssetClassOrderEntry(t *testing.T) {
	wf, gw := newTestWorkflow()
	ctx := context.Background()

	_, err := wf.SubmitOrder(ctx, &model.AddOrder{
		ClOrdID:           "OPT-1",
		Symbol:            "AAPL 26DEC190C",
		Side:              model.OrderSideBuy,
		Type:              model.OrderTypeLimit,
		AssetClass:        model.AssetClassOptions,
		Price:             decimal.NewFromFloat(5.5),
		Quantity:          decimal.NewFromInt(10),
		MaturityMonthYear: "202612",
		StrikePrice:       decimal.NewFromInt(190),
		PutOrCall:         "1",
		UnderlyingSymbol:  "AAPL",
	})
	require.NoError(t, err)

	require.Len(t, gw.events, 1)
	assert.Contains(t, gw.events[0].Display, "|167=OPT|")
	assert.Contains(t, gw.events[0].Display, "|202=190|")
}

func TestEventsReplayAndExport(t *testing.T) {
	wf, _ := newTestWorkflow()
	ctx := context.Background()
	submit(t, wf, "ORD-1")
	_, err := wf.Fill(ctx, "ORD-1", decimal.NewFromInt(100), decimal.NewFromInt(50))
	require.NoError(t, err)

	events := wf.Events("ORD-1")
	require.Len(t, events, 2)

	// persisted wire replays through the codec
	fields, msgType := fix.Decode(events[0].Wire)
	assert.Equal(t, fix.MsgTypeNewOrderSingle, msgType)
	assert.Positive(t, fields.Len())

	var buf bytes.Buffer
	require.NoError(t, wf.ExportMessagesCSV(&buf))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 3) // header + two messages
}
