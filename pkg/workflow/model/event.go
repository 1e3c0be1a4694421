package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// MessageEvent is one produced protocol message, persisted verbatim for
// replay and export. Wire holds the framed string with the true delimiter;
// Display the pipe-separated form.
type MessageEvent struct {
	EventID   string    `csv:"event_id"`
	ClOrdID   string    `csv:"cl_ord_id"`
	MsgType   string    `csv:"msg_type"`
	Party     string    `csv:"party"`
	Wire      string    `csv:"-"`
	Display   string    `csv:"message"`
	Valid     bool      `csv:"valid"`
	Timestamp time.Time `csv:"timestamp"`
	Errors    []string  `csv:"-" gorm:"-"`
}

// AllocationRecord is one resolved account apportionment row.
type AllocationRecord struct {
	AllocID   string          `csv:"alloc_id"`
	ClOrdID   string          `csv:"cl_ord_id"`
	Method    string          `csv:"method"`
	AccountID string          `csv:"account_id"`
	Qty       decimal.Decimal `csv:"qty"`
	Percent   decimal.Decimal `csv:"percent"`
	AvgPx     decimal.Decimal `csv:"avg_px"`
	NetMoney  decimal.Decimal `csv:"net_money"`
	Timestamp time.Time       `csv:"timestamp"`
}

func NewEventID(clOrdID string, msgType string) string {
	return fmt.Sprintf("%s-%s-%d", clOrdID, msgType, time.Now().UnixNano())
}
