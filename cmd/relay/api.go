package main

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/utkarsh-1912/TradeLab/pkg/allocation"
	"github.com/utkarsh-1912/TradeLab/pkg/workflow"
	"github.com/utkarsh-1912/TradeLab/pkg/workflow/model"
)

// api drives the workflow over plain JSON endpoints so the relay's
// WebSocket feed has traffic to show.
type api struct {
	wf  *workflow.Workflow
	mux *http.ServeMux
}

func newAPI(wf *workflow.Workflow) *api {
	a := &api{wf: wf, mux: http.NewServeMux()}

	a.mux.HandleFunc("POST /orders", a.submitOrder)
	a.mux.HandleFunc("GET /orders/{clOrdID}", a.getOrder)
	a.mux.HandleFunc("GET /orders/{clOrdID}/events", a.getEvents)
	a.mux.HandleFunc("POST /orders/{clOrdID}/fill", a.fill)
	a.mux.HandleFunc("POST /orders/{clOrdID}/reject", a.reject)
	a.mux.HandleFunc("POST /orders/{clOrdID}/cancel", a.cancel)
	a.mux.HandleFunc("POST /orders/{clOrdID}/replace", a.replace)
	a.mux.HandleFunc("POST /orders/{clOrdID}/allocate", a.allocate)
	a.mux.HandleFunc("GET /allocations/{allocID}", a.getAllocation)
	a.mux.HandleFunc("POST /allocations/{allocID}/ack", a.ackAllocation)
	a.mux.HandleFunc("POST /allocations/{allocID}/report", a.reportAllocation)
	a.mux.HandleFunc("POST /allocations/{allocID}/confirm", a.confirm)
	a.mux.HandleFunc("GET /export/messages.csv", a.exportMessages)
	a.mux.HandleFunc("GET /export/allocations.csv", a.exportAllocations)

	return a
}

func (a *api) serve(addr string) error {
	return http.ListenAndServe(addr, a.mux)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

type submitOrderRequest struct {
	ClOrdID    string          `json:"cl_ord_id"`
	Symbol     string          `json:"symbol"`
	Side       string          `json:"side"`
	Type       string          `json:"type"`
	AssetClass string          `json:"asset_class"`
	Price      decimal.Decimal `json:"price"`
	StopPrice  decimal.Decimal `json:"stop_price"`
	Quantity   decimal.Decimal `json:"quantity"`

	DealtCurrency     string          `json:"dealt_currency"`
	SettlDate         string          `json:"settl_date"`
	MaturityMonthYear string          `json:"maturity_month_year"`
	StrikePrice       decimal.Decimal `json:"strike_price"`
	PutOrCall         string          `json:"put_or_call"`
	UnderlyingSymbol  string          `json:"underlying_symbol"`
}

func (a *api) submitOrder(w http.ResponseWriter, r *http.Request) {
	var req submitOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, err)
		return
	}

	order, err := a.wf.SubmitOrder(r.Context(), &model.AddOrder{
		ClOrdID:           req.ClOrdID,
		Symbol:            req.Symbol,
		Side:              model.OrderSide(req.Side),
		Type:              model.OrderType(req.Type),
		AssetClass:        model.AssetClass(req.AssetClass),
		Price:             req.Price,
		StopPrice:         req.StopPrice,
		Quantity:          req.Quantity,
		DealtCurrency:     req.DealtCurrency,
		SettlDate:         req.SettlDate,
		MaturityMonthYear: req.MaturityMonthYear,
		StrikePrice:       req.StrikePrice,
		PutOrCall:         req.PutOrCall,
		UnderlyingSymbol:  req.UnderlyingSymbol,
	})
	if err != nil {
		writeErr(w, http.StatusUnprocessableEntity, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

func (a *api) getOrder(w http.ResponseWriter, r *http.Request) {
	order, err := a.wf.Order(r.PathValue("clOrdID"))
	if err != nil {
		writeErr(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (a *api) getEvents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.wf.Events(r.PathValue("clOrdID")))
}

func (a *api) fill(w http.ResponseWriter, r *http.Request) {
	var req struct {
		LastQty decimal.Decimal `json:"last_qty"`
		LastPx  decimal.Decimal `json:"last_px"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, err)
		return
	}
	order, err := a.wf.Fill(r.Context(), r.PathValue("clOrdID"), req.LastQty, req.LastPx)
	if err != nil {
		writeErr(w, http.StatusUnprocessableEntity, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (a *api) reject(w http.ResponseWriter, r *http.Request) {
	order, err := a.wf.Reject(r.Context(), r.PathValue("clOrdID"))
	if err != nil {
		writeErr(w, http.StatusUnprocessableEntity, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (a *api) cancel(w http.ResponseWriter, r *http.Request) {
	var req struct {
		NewClOrdID string `json:"new_cl_ord_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, err)
		return
	}
	origClOrdID := r.PathValue("clOrdID")
	if err := a.wf.RequestCancel(r.Context(), req.NewClOrdID, origClOrdID); err != nil {
		writeErr(w, http.StatusUnprocessableEntity, err)
		return
	}
	order, err := a.wf.AcceptCancel(r.Context(), origClOrdID)
	if err != nil {
		writeErr(w, http.StatusUnprocessableEntity, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (a *api) replace(w http.ResponseWriter, r *http.Request) {
	var req struct {
		NewClOrdID string          `json:"new_cl_ord_id"`
		Quantity   decimal.Decimal `json:"quantity"`
		Price      decimal.Decimal `json:"price"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, err)
		return
	}
	origClOrdID := r.PathValue("clOrdID")
	if err := a.wf.RequestReplace(r.Context(), req.NewClOrdID, origClOrdID, req.Quantity, req.Price); err != nil {
		writeErr(w, http.StatusUnprocessableEntity, err)
		return
	}
	order, err := a.wf.AcceptReplace(r.Context(), origClOrdID, req.Quantity, req.Price)
	if err != nil {
		writeErr(w, http.StatusUnprocessableEntity, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (a *api) allocate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Method   string `json:"method"`
		Accounts []struct {
			ID      string          `json:"id"`
			Weight  decimal.Decimal `json:"weight"`
			Percent decimal.Decimal `json:"percent"`
			Qty     decimal.Decimal `json:"qty"`
		} `json:"accounts"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, err)
		return
	}
	method, err := allocation.ParseMethod(req.Method)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err)
		return
	}
	accounts := make([]allocation.Account, 0, len(req.Accounts))
	for _, acc := range req.Accounts {
		accounts = append(accounts, allocation.Account{
			ID:      acc.ID,
			Weight:  acc.Weight,
			Percent: acc.Percent,
			Qty:     acc.Qty,
		})
	}
	allocID, result, err := a.wf.Allocate(r.Context(), r.PathValue("clOrdID"), method, accounts)
	if err != nil {
		writeErr(w, http.StatusUnprocessableEntity, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"alloc_id": allocID, "result": result})
}

func (a *api) getAllocation(w http.ResponseWriter, r *http.Request) {
	result, err := a.wf.Allocation(r.PathValue("allocID"))
	if err != nil {
		writeErr(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (a *api) ackAllocation(w http.ResponseWriter, r *http.Request) {
	if err := a.wf.AckAllocation(r.Context(), r.PathValue("allocID")); err != nil {
		writeErr(w, http.StatusUnprocessableEntity, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "acked"})
}

func (a *api) reportAllocation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, err)
		return
	}
	if err := a.wf.ReportAllocation(r.Context(), r.PathValue("allocID"), req.Status); err != nil {
		writeErr(w, http.StatusUnprocessableEntity, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reported"})
}

func (a *api) confirm(w http.ResponseWriter, r *http.Request) {
	if err := a.wf.Confirm(r.Context(), r.PathValue("allocID")); err != nil {
		writeErr(w, http.StatusUnprocessableEntity, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "confirmed"})
}

func (a *api) exportMessages(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	if err := a.wf.ExportMessagesCSV(w); err != nil {
		writeErr(w, http.StatusInternalServerError, err)
	}
}

func (a *api) exportAllocations(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	if err := a.wf.ExportAllocationsCSV(w); err != nil {
		writeErr(w, http.StatusInternalServerError, err)
	}
}
