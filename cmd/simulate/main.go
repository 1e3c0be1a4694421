// Command simulate runs a scripted three-party session end to end and
// prints every message in display form. Useful for eyeballing the flows
// without any infrastructure running.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"github.com/utkarsh-1912/TradeLab/pkg/allocation"
	"github.com/utkarsh-1912/TradeLab/pkg/workflow"
	"github.com/utkarsh-1912/TradeLab/pkg/workflow/model"
)

// consoleGateway prints each message event as it is recorded.
type consoleGateway struct{}

func (consoleGateway) OnMessage(_ context.Context, ev *model.MessageEvent) {
	status := "ok"
	if !ev.Valid {
		status = fmt.Sprintf("INVALID %v", ev.Errors)
	}
	fmt.Printf("%-10s %-3s %-8s %s\n", ev.Party, ev.MsgType, status, ev.Display)
}

func main() {
	var csvDir string
	flag.StringVar(&csvDir, "csv-dir", "", "Directory to write messages.csv and allocations.csv")
	flag.Parse()

	ctx := context.Background()
	wf := workflow.NewWorkflow(nil)
	wf.AddGateway(consoleGateway{})

	run(ctx, wf)

	if csvDir != "" {
		if err := exportCSV(wf, csvDir); err != nil {
			fmt.Fprintf(os.Stderr, "csv export: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("\nwrote %s and %s\n",
			filepath.Join(csvDir, "messages.csv"),
			filepath.Join(csvDir, "allocations.csv"))
	}
}

func run(ctx context.Context, wf *workflow.Workflow) {
	must := func(err error) {
		if err != nil {
			fmt.Fprintf(os.Stderr, "simulation aborted: %v\n", err)
			os.Exit(1)
		}
	}

	fmt.Println("== equity order, partial fills, pro-rata allocation ==")
	_, err := wf.SubmitOrder(ctx, &model.AddOrder{
		ClOrdID:    "EQ-1",
		Symbol:     "AAPL",
		Side:       model.OrderSideBuy,
		Type:       model.OrderTypeLimit,
		AssetClass: model.AssetClassEquity,
		Price:      decimal.NewFromFloat(189.50),
		Quantity:   decimal.NewFromInt(1000),
	})
	must(err)
	_, err = wf.Fill(ctx, "EQ-1", decimal.NewFromInt(400), decimal.NewFromFloat(189.45))
	must(err)
	_, err = wf.Fill(ctx, "EQ-1", decimal.NewFromInt(600), decimal.NewFromFloat(189.50))
	must(err)

	allocID, result, err := wf.Allocate(ctx, "EQ-1", allocation.MethodProRata, []allocation.Account{
		{ID: "FUND-A", Weight: decimal.NewFromInt(1)},
		{ID: "FUND-B", Weight: decimal.NewFromInt(1)},
		{ID: "FUND-C", Weight: decimal.NewFromInt(1)},
	})
	must(err)
	for _, acc := range result.Accounts {
		fmt.Printf("  allocated %s -> %s shares (%s%%)\n", acc.ID, acc.Qty, acc.Percent)
	}
	must(wf.AckAllocation(ctx, allocID))
	must(wf.ReportAllocation(ctx, allocID, "0"))
	must(wf.Confirm(ctx, allocID))

	fmt.Println("\n== fx order, replace then cancel ==")
	_, err = wf.SubmitOrder(ctx, &model.AddOrder{
		ClOrdID:       "FX-1",
		Symbol:        "EUR/USD",
		Side:          model.OrderSideSell,
		Type:          model.OrderTypeLimit,
		AssetClass:    model.AssetClassFX,
		Price:         decimal.NewFromFloat(1.0850),
		Quantity:      decimal.NewFromInt(1000000),
		DealtCurrency: "EUR",
		SettlDate:     "20260903",
	})
	must(err)
	must(wf.RequestReplace(ctx, "FX-2", "FX-1", decimal.NewFromInt(500000), decimal.NewFromFloat(1.0845)))
	_, err = wf.AcceptReplace(ctx, "FX-1", decimal.NewFromInt(500000), decimal.NewFromFloat(1.0845))
	must(err)
	must(wf.RequestCancel(ctx, "FX-3", "FX-1"))
	_, err = wf.AcceptCancel(ctx, "FX-1")
	must(err)

	fmt.Println("\n== options order, fixed-quantity allocation ==")
	_, err = wf.SubmitOrder(ctx, &model.AddOrder{
		ClOrdID:           "OPT-1",
		Symbol:            "AAPL260918C00190000",
		Side:              model.OrderSideBuy,
		Type:              model.OrderTypeLimit,
		AssetClass:        model.AssetClassOptions,
		Price:             decimal.NewFromFloat(4.20),
		Quantity:          decimal.NewFromInt(50),
		MaturityMonthYear: "202609",
		StrikePrice:       decimal.NewFromInt(190),
		PutOrCall:         "1",
		UnderlyingSymbol:  "AAPL",
	})
	must(err)
	_, err = wf.Fill(ctx, "OPT-1", decimal.NewFromInt(50), decimal.NewFromFloat(4.15))
	must(err)

	allocID, _, err = wf.Allocate(ctx, "OPT-1", allocation.MethodFixedQty, []allocation.Account{
		{ID: "DESK-1", Qty: decimal.NewFromInt(30)},
		{ID: "DESK-2", Qty: decimal.NewFromInt(20)},
	})
	must(err)
	must(wf.AckAllocation(ctx, allocID))
	must(wf.ReportAllocation(ctx, allocID, "0"))
	must(wf.Confirm(ctx, allocID))
}

func exportCSV(wf *workflow.Workflow, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	mf, err := os.Create(filepath.Join(dir, "messages.csv"))
	if err != nil {
		return err
	}
	defer mf.Close()
	if err := wf.ExportMessagesCSV(mf); err != nil {
		return err
	}

	af, err := os.Create(filepath.Join(dir, "allocations.csv"))
	if err != nil {
		return err
	}
	defer af.Close()
	return wf.ExportAllocationsCSV(af)
}
