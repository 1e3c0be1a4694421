package model

import (
	"testing"

	"github.com/shopspring/decimal"
)

func newTestOrder(qty int64) *Order {
	return NewOrder(&AddOrder{
		ClOrdID:  "ORD-1",
		Symbol:   "AAPL",
		Side:     OrderSideBuy,
		Type:     OrderTypeLimit,
		Price:    decimal.NewFromInt(100),
		Quantity: decimal.NewFromInt(qty),
	})
}

func checkInvariant(t *testing.T, o *Order) {
	t.Helper()
	if !o.CumQty.Add(o.LeavesQty).Equal(o.Quantity) {
		t.Fatalf("invariant broken: cum=%s leaves=%s qty=%s", o.CumQty, o.LeavesQty, o.Quantity)
	}
}

func TestApplyFillPartial(t *testing.T) {
	o := newTestOrder(100)
	o.ApplyFill(decimal.NewFromInt(40), decimal.NewFromInt(99))

	if o.Status != OrderStatusPartiallyFilled {
		t.Errorf("expected PartiallyFilled, got %s", o.Status)
	}
	if !o.LeavesQty.Equal(decimal.NewFromInt(60)) {
		t.Errorf("expected leaves 60, got %s", o.LeavesQty)
	}
	if !o.AvgPx.Equal(decimal.NewFromInt(99)) {
		t.Errorf("expected avgPx 99, got %s", o.AvgPx)
	}
	checkInvariant(t, o)
}

func TestApplyFillWeightedAverage(t *testing.T) {
	o := newTestOrder(100)
	o.ApplyFill(decimal.NewFromInt(40), decimal.NewFromInt(100))
	o.ApplyFill(decimal.NewFromInt(60), decimal.NewFromInt(110))

	if o.Status != OrderStatusFilled {
		t.Errorf("expected Filled, got %s", o.Status)
	}
	// (40*100 + 60*110) / 100 = 106
	if !o.AvgPx.Equal(decimal.NewFromInt(106)) {
		t.Errorf("expected avgPx 106, got %s", o.AvgPx)
	}
	if !o.LeavesQty.IsZero() {
		t.Errorf("expected zero leaves, got %s", o.LeavesQty)
	}
	checkInvariant(t, o)
}

func TestApplyCancelKeepsFilledShares(t *testing.T) {
	o := newTestOrder(100)
	o.ApplyFill(decimal.NewFromInt(30), decimal.NewFromInt(100))
	o.Status = OrderStatusPendingCancel
	o.ApplyCancel()

	if o.Status != OrderStatusCanceled {
		t.Errorf("expected Canceled, got %s", o.Status)
	}
	if !o.CumQty.Equal(decimal.NewFromInt(30)) {
		t.Errorf("filled shares must survive cancel, got %s", o.CumQty)
	}
	checkInvariant(t, o)
}

func TestApplyRejectClosesOrder(t *testing.T) {
	o := newTestOrder(100)
	o.ApplyReject()

	if o.Status != OrderStatusRejected {
		t.Fatalf("status = %s, want Rejected", o.Status)
	}
	if !o.LeavesQty.IsZero() {
		t.Fatalf("leaves = %s, want 0", o.LeavesQty)
	}
	checkInvariant(t, o)
}

func TestApplyReplace(t *testing.T) {
	o := newTestOrder(100)
	o.ApplyFill(decimal.NewFromInt(30), decimal.NewFromInt(100))
	o.Status = OrderStatusPendingReplace
	o.ApplyReplace(decimal.NewFromInt(150), decimal.NewFromInt(101))

	if o.Status != OrderStatusPartiallyFilled {
		t.Errorf("expected PartiallyFilled, got %s", o.Status)
	}
	if !o.LeavesQty.Equal(decimal.NewFromInt(120)) {
		t.Errorf("expected leaves 120, got %s", o.LeavesQty)
	}
	checkInvariant(t, o)
}

func TestReplaceDownToFilled(t *testing.T) {
	o := newTestOrder(100)
	o.ApplyFill(decimal.NewFromInt(30), decimal.NewFromInt(100))
	o.Status = OrderStatusPendingReplace
	o.ApplyReplace(decimal.NewFromInt(30), decimal.NewFromInt(101))

	if o.Status != OrderStatusFilled {
		t.Errorf("expected Filled after replacing down to cum qty, got %s", o.Status)
	}
	checkInvariant(t, o)
}

func TestTransitionGuards(t *testing.T) {
	o := newTestOrder(100)
	if !o.CanFill() || !o.CanCancel() || !o.CanReplace() {
		t.Error("new order must accept fill, cancel and replace")
	}
	if o.CanAllocate() {
		t.Error("unfilled order must not allocate")
	}

	o.ApplyFill(decimal.NewFromInt(100), decimal.NewFromInt(100))
	if o.CanFill() || o.CanCancel() {
		t.Error("filled order must not fill or cancel")
	}
	if !o.CanAllocate() {
		t.Error("filled order must allocate")
	}
}
