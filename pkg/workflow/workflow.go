package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/quickfixgo/enum"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/utkarsh-1912/TradeLab/pkg/allocation"
	"github.com/utkarsh-1912/TradeLab/pkg/fix"
	"github.com/utkarsh-1912/TradeLab/pkg/logging"
	"github.com/utkarsh-1912/TradeLab/pkg/workflow/model"
	"github.com/utkarsh-1912/TradeLab/pkg/workflow/repo"
	"github.com/utkarsh-1912/TradeLab/pkg/workflow/store"
)

// Party labels the workflow participant that produced a message.
const (
	PartyTrader    = "trader"
	PartyBroker    = "broker"
	PartyCustodian = "custodian"
)

var (
	sideWire = map[model.OrderSide]fix.Side{
		model.OrderSideBuy:  fix.SideBuy,
		model.OrderSideSell: fix.SideSell,
	}

	ordTypeWire = map[model.OrderType]fix.OrdType{
		model.OrderTypeMarket:    fix.OrdTypeMarket,
		model.OrderTypeLimit:     fix.OrdTypeLimit,
		model.OrderTypeStop:      fix.OrdTypeStop,
		model.OrderTypeStopLimit: fix.OrdTypeStopLimit,
	}

	orderStatusWire = map[model.OrderStatus]enum.OrdStatus{
		model.OrderStatusNew:             enum.OrdStatus_NEW,
		model.OrderStatusPartiallyFilled: enum.OrdStatus_PARTIALLY_FILLED,
		model.OrderStatusFilled:          enum.OrdStatus_FILLED,
		model.OrderStatusCanceled:        enum.OrdStatus_CANCELED,
		model.OrderStatusRejected:        enum.OrdStatus_REJECTED,
		model.OrderStatusPendingCancel:   enum.OrdStatus_PENDING_CANCEL,
		model.OrderStatusPendingReplace:  enum.OrdStatus_PENDING_REPLACE,
	}

	execTypeWire = map[model.OrderStatus]enum.ExecType{
		model.OrderStatusNew:             enum.ExecType_NEW,
		model.OrderStatusPartiallyFilled: enum.ExecType_TRADE,
		model.OrderStatusFilled:          enum.ExecType_TRADE,
		model.OrderStatusCanceled:        enum.ExecType_CANCELED,
		model.OrderStatusRejected:        enum.ExecType("8"),
		model.OrderStatusPendingCancel:   enum.ExecType("6"),
		model.OrderStatusPendingReplace:  enum.ExecType("E"),
	}
)

// Gateway receives every produced message for broadcast to connected
// sessions. The workflow never touches the connection registry directly.
type Gateway interface {
	OnMessage(ctx context.Context, ev *model.MessageEvent)
}

// Publisher pushes produced events onto the stream for the persistence
// worker.
type Publisher interface {
	PublishJSON(ctx context.Context, topic string, key string, v any, headers map[string]string) error
}

type Config struct {
	EventTopic string
}

// Workflow drives the three-party trading simulation: trader order flow,
// broker executions and allocation handling, custodian reporting and
// confirmation. Per-order transitions are serialized behind the mutex so a
// fill never runs against a stale snapshot.
type Workflow struct {
	cfg       *Config
	gateway   Gateway
	store     store.MessageStore
	repo      repo.IRepo
	publisher Publisher
	cache     *redis.Client
	logger    *logging.Logger

	mu           sync.Mutex
	orders       map[string]*model.Order
	allocs       map[string]*allocation.Result
	allocOrder   map[string]string
	allocRecords []*model.AllocationRecord
}

func NewWorkflow(cfg *Config) *Workflow {
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.EventTopic == "" {
		cfg.EventTopic = "tradelab.events"
	}
	return &Workflow{
		cfg:        cfg,
		store:      store.NewInMemoryStore(),
		logger:     logging.NewLogger(logging.INFO),
		orders:     make(map[string]*model.Order),
		allocs:     make(map[string]*allocation.Result),
		allocOrder: make(map[string]string),
	}
}

func (s *Workflow) AddGateway(g Gateway)     { s.gateway = g }
func (s *Workflow) AddRepo(r repo.IRepo)     { s.repo = r }
func (s *Workflow) AddPublisher(p Publisher) { s.publisher = p }
func (s *Workflow) AddCache(c *redis.Client) { s.cache = c }

// SubmitOrder books a new order and emits the order-entry message for its
// asset class.
func (s *Workflow) SubmitOrder(ctx context.Context, add *model.AddOrder) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orders[add.ClOrdID]; ok {
		return nil, errDuplicateOrder
	}

	order := model.NewOrder(add)
	s.orders[order.ClOrdID] = order

	msg := buildOrderEntry(order)
	s.record(ctx, PartyTrader, order, msg)

	return snapshotOf(order), nil
}

func buildOrderEntry(order *model.Order) *fix.Message {
	base := fix.NewOrderSingle{
		ClOrdID:      order.ClOrdID,
		Symbol:       order.Symbol,
		Side:         sideWire[order.Side],
		OrderQty:     order.Quantity,
		OrdType:      ordTypeWire[order.Type],
		Price:        order.Price,
		StopPx:       order.StopPrice,
		TransactTime: order.TransactTime,
	}

	switch order.AssetClass {
	case model.AssetClassFX:
		return fix.BuildFXNewOrderSingle(fix.FXNewOrderSingle{
			NewOrderSingle: base,
			DealtCurrency:  order.DealtCurrency,
			SettlDate:      order.SettlDate,
		})
	case model.AssetClassFutures:
		return fix.BuildFuturesNewOrderSingle(fix.FuturesNewOrderSingle{
			NewOrderSingle:    base,
			MaturityMonthYear: order.MaturityMonthYear,
		})
	case model.AssetClassOptions:
		return fix.BuildOptionsNewOrderSingle(fix.OptionsNewOrderSingle{
			NewOrderSingle:    base,
			MaturityMonthYear: order.MaturityMonthYear,
			StrikePrice:       order.StrikePrice,
			PutOrCall:         order.PutOrCall,
			UnderlyingSymbol:  order.UnderlyingSymbol,
		})
	default:
		return fix.BuildNewOrderSingle(base)
	}
}

// Fill applies a broker execution and emits the execution report.
func (s *Workflow) Fill(ctx context.Context, clOrdID string, lastQty, lastPx decimal.Decimal) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[clOrdID]
	if !ok {
		return nil, errOrderNotFound
	}
	if !order.CanFill() {
		return nil, errInvalidOrderStatus
	}
	if lastQty.GreaterThan(order.LeavesQty) {
		return nil, errOverFill
	}

	order.ApplyFill(lastQty, lastPx)
	s.recordExecution(ctx, order, lastQty, lastPx)

	return snapshotOf(order), nil
}

// Reject is the broker refusing an order at entry, before any execution.
func (s *Workflow) Reject(ctx context.Context, clOrdID string) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[clOrdID]
	if !ok {
		return nil, errOrderNotFound
	}
	if order.Status != model.OrderStatusNew {
		return nil, errInvalidOrderStatus
	}

	order.ApplyReject()
	s.recordExecution(ctx, order, decimal.Zero, referencePx(order))

	return snapshotOf(order), nil
}

// RequestCancel emits the trader's cancel request and parks the order in
// PendingCancel until the broker accepts.
func (s *Workflow) RequestCancel(ctx context.Context, clOrdID, origClOrdID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[origClOrdID]
	if !ok {
		return errOrderNotFound
	}
	if !order.CanCancel() {
		return errInvalidOrderStatus
	}

	order.Status = model.OrderStatusPendingCancel
	s.orders[clOrdID] = order
	s.store.TrackChain(clOrdID, origClOrdID)

	msg := fix.BuildOrderCancelRequest(fix.OrderCancelRequest{
		ClOrdID:     clOrdID,
		OrigClOrdID: origClOrdID,
		Symbol:      order.Symbol,
		Side:        sideWire[order.Side],
	})
	s.record(ctx, PartyTrader, order, msg)
	return nil
}

// AcceptCancel is the broker side of the cancel flow.
func (s *Workflow) AcceptCancel(ctx context.Context, origClOrdID string) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[origClOrdID]
	if !ok {
		return nil, errOrderNotFound
	}
	if order.Status != model.OrderStatusPendingCancel {
		return nil, errInvalidOrderStatus
	}

	order.ApplyCancel()
	s.recordExecution(ctx, order, decimal.Zero, referencePx(order))

	return snapshotOf(order), nil
}

// RequestReplace emits the trader's cancel/replace request.
func (s *Workflow) RequestReplace(ctx context.Context, clOrdID, origClOrdID string, newQty, newPrice decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[origClOrdID]
	if !ok {
		return errOrderNotFound
	}
	if !order.CanReplace() {
		return errInvalidOrderStatus
	}

	order.Status = model.OrderStatusPendingReplace
	s.orders[clOrdID] = order
	s.store.TrackChain(clOrdID, origClOrdID)

	msg := fix.BuildOrderCancelReplaceRequest(fix.OrderCancelReplaceRequest{
		ClOrdID:     clOrdID,
		OrigClOrdID: origClOrdID,
		Symbol:      order.Symbol,
		Side:        sideWire[order.Side],
		OrderQty:    newQty,
		OrdType:     ordTypeWire[order.Type],
		Price:       newPrice,
	})
	s.record(ctx, PartyTrader, order, msg)
	return nil
}

// AcceptReplace applies the new quantity/price and reports the transition.
func (s *Workflow) AcceptReplace(ctx context.Context, origClOrdID string, newQty, newPrice decimal.Decimal) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[origClOrdID]
	if !ok {
		return nil, errOrderNotFound
	}
	if order.Status != model.OrderStatusPendingReplace {
		return nil, errInvalidOrderStatus
	}

	order.ApplyReplace(newQty, newPrice)
	s.recordExecution(ctx, order, decimal.Zero, referencePx(order))

	return snapshotOf(order), nil
}

// Allocate validates the account list, computes the apportionment and emits
// the allocation instruction. Returns the allocation id with the result.
func (s *Workflow) Allocate(ctx context.Context, clOrdID string, method allocation.Method, accounts []allocation.Account) (string, *allocation.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[clOrdID]
	if !ok {
		return "", nil, errOrderNotFound
	}
	if !order.CanAllocate() {
		return "", nil, errInvalidOrderStatus
	}

	if v := allocation.Validate(method, accounts, order.CumQty); !v.Valid {
		return "", nil, fmt.Errorf("allocation rejected: %s", strings.Join(v.Errors, "; "))
	}

	snapshot := allocation.OrderSnapshot{
		CumQty: order.CumQty,
		AvgPx:  order.AvgPx,
		Price:  order.Price,
	}
	result, err := allocation.Calculate(method, snapshot, accounts)
	if err != nil {
		return "", nil, err
	}

	allocID := uuid.New().String()
	s.allocs[allocID] = result
	s.allocOrder[allocID] = clOrdID

	now := time.Now().UTC()
	for _, a := range result.Accounts {
		s.allocRecords = append(s.allocRecords, &model.AllocationRecord{
			AllocID:   allocID,
			ClOrdID:   clOrdID,
			Method:    string(method),
			AccountID: a.ID,
			Qty:       a.Qty,
			Percent:   a.Percent,
			AvgPx:     result.AvgPx,
			NetMoney:  a.NetMoney,
			Timestamp: now,
		})
	}
	if s.repo != nil {
		n := len(result.Accounts)
		if _, err := s.repo.Allocation().BulkCreate(ctx, s.allocRecords[len(s.allocRecords)-n:]); err != nil {
			s.logger.Error(ctx, "persist allocation records", zap.Error(err))
		}
	}

	msg := fix.BuildAllocationInstruction(fix.AllocationInstruction{
		AllocID:        allocID,
		AllocTransType: "0",
		NoAllocs:       len(result.Accounts),
		Symbol:         order.Symbol,
		Side:           sideWire[order.Side],
		AvgPx:          result.AvgPx,
		TradeDate:      now.Format("20060102"),
	})
	s.record(ctx, PartyTrader, order, msg)

	return allocID, result, nil
}

// AckAllocation is the broker's acknowledgement of an instruction.
func (s *Workflow) AckAllocation(ctx context.Context, allocID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, err := s.orderForAlloc(allocID)
	if err != nil {
		return err
	}

	msg := fix.BuildAllocationAck(fix.AllocationAck{
		AllocID:   allocID,
		TradeDate: time.Now().UTC().Format("20060102"),
	})
	s.record(ctx, PartyBroker, order, msg)
	return nil
}

// ReportAllocation is the custodian's settlement report.
func (s *Workflow) ReportAllocation(ctx context.Context, allocID, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, err := s.orderForAlloc(allocID)
	if err != nil {
		return err
	}

	msg := fix.BuildAllocationReport(fix.AllocationReport{
		AllocReportID: uuid.New().String(),
		AllocStatus:   status,
		AvgPx:         s.allocs[allocID].AvgPx,
	})
	s.record(ctx, PartyCustodian, order, msg)
	return nil
}

// Confirm closes the loop with the custodian confirmation.
func (s *Workflow) Confirm(ctx context.Context, allocID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, err := s.orderForAlloc(allocID)
	if err != nil {
		return err
	}

	msg := fix.BuildConfirmation(fix.Confirmation{
		ConfirmID:        uuid.New().String(),
		ConfirmTransType: "0",
		ConfirmType:      "2",
		ConfirmStatus:    "4",
	})
	s.record(ctx, PartyCustodian, order, msg)
	return nil
}

// Order returns a copy of the current order state.
func (s *Workflow) Order(clOrdID string) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[clOrdID]
	if !ok {
		return nil, errOrderNotFound
	}
	return snapshotOf(order), nil
}

// Allocation returns a previously computed allocation result.
func (s *Workflow) Allocation(allocID string) (*allocation.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, ok := s.allocs[allocID]
	if !ok {
		return nil, errAllocationNotFound
	}
	return result, nil
}

// Events returns the stored message history for one order.
func (s *Workflow) Events(clOrdID string) []*model.MessageEvent {
	return s.store.Events(clOrdID)
}

func (s *Workflow) orderForAlloc(allocID string) (*model.Order, error) {
	clOrdID, ok := s.allocOrder[allocID]
	if !ok {
		return nil, errAllocationNotFound
	}
	order, ok := s.orders[clOrdID]
	if !ok {
		return nil, errOrderNotFound
	}
	return order, nil
}

// referencePx is the price stamped into reports for transitions that carry
// no trade: the running average when the order has fills, the order price
// otherwise.
func referencePx(order *model.Order) decimal.Decimal {
	if order.AvgPx.IsPositive() {
		return order.AvgPx
	}
	return order.Price
}

func (s *Workflow) recordExecution(ctx context.Context, order *model.Order, lastQty, lastPx decimal.Decimal) {
	avgPx := order.AvgPx
	if !avgPx.IsPositive() {
		avgPx = referencePx(order)
	}
	msg := fix.BuildExecutionReport(fix.ExecutionReport{
		ClOrdID:   order.ClOrdID,
		ExecID:    uuid.New().String(),
		ExecType:  execTypeWire[order.Status],
		OrdStatus: orderStatusWire[order.Status],
		Symbol:    order.Symbol,
		Side:      sideWire[order.Side],
		LastQty:   lastQty,
		LastPx:    lastPx,
		LeavesQty: order.LeavesQty,
		CumQty:    order.CumQty,
		AvgPx:     avgPx,
	})
	s.record(ctx, PartyBroker, order, msg)
}

// record validates, stores, persists, publishes and broadcasts one message.
func (s *Workflow) record(ctx context.Context, party string, order *model.Order, msg *fix.Message) {
	res := fix.Validate(msg.Type, msg.Fields)
	ev := &model.MessageEvent{
		EventID:   model.NewEventID(order.ClOrdID, string(msg.Type)),
		ClOrdID:   order.ClOrdID,
		MsgType:   string(msg.Type),
		Party:     party,
		Wire:      msg.Wire,
		Display:   fix.ToDisplay(msg.Wire),
		Valid:     res.Valid,
		Errors:    res.Errors,
		Timestamp: time.Now().UTC(),
	}
	if !res.Valid {
		s.logger.Warn(ctx, "message failed validation",
			zap.String("msg_type", ev.MsgType),
			zap.Strings("errors", res.Errors))
	}

	s.store.AddEvent(ev)

	if s.repo != nil {
		if _, err := s.repo.MessageEvent().Create(ctx, ev); err != nil {
			s.logger.Error(ctx, "persist message event", zap.Error(err))
		}
		if _, err := s.repo.Order().Upsert(ctx, snapshotOf(order)); err != nil {
			s.logger.Error(ctx, "persist order", zap.Error(err))
		}
	}

	if s.publisher != nil {
		if err := s.publisher.PublishJSON(ctx, s.cfg.EventTopic, ev.ClOrdID, ev, nil); err != nil {
			s.logger.Error(ctx, "publish message event", zap.Error(err))
		}
	}

	if s.cache != nil {
		if payload, err := json.Marshal(order); err == nil {
			if err := s.cache.Set(ctx, "tradelab:order:"+order.ClOrdID, payload, 0).Err(); err != nil {
				s.logger.Warn(ctx, "cache order snapshot", zap.Error(err))
			}
		}
	}

	if s.gateway != nil {
		s.gateway.OnMessage(ctx, ev)
	}
}

func snapshotOf(order *model.Order) *model.Order {
	bk := *order
	return &bk
}
