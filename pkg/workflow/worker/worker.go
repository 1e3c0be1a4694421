// Package worker drains the workflow event topic into Postgres. It is the
// durable side of the pipeline; the in-process store and Redis cache are
// best effort.
package worker

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/utkarsh-1912/TradeLab/pkg/logging"
	"github.com/utkarsh-1912/TradeLab/pkg/stream"
	"github.com/utkarsh-1912/TradeLab/pkg/workflow/model"
	"github.com/utkarsh-1912/TradeLab/pkg/workflow/repo"
)

type Worker struct {
	messageEvent repo.IMessageEvent
	logger       *logging.Logger
}

func NewWorker(r repo.IRepo) *Worker {
	return &Worker{
		messageEvent: r.MessageEvent(),
		logger:       logging.NewLogger(logging.INFO),
	}
}

// Run blocks until the context is canceled or the consumer fails.
func (w *Worker) Run(ctx context.Context, cg *stream.ConsumerGroup) error {
	return cg.Run(ctx, w.handle)
}

func (w *Worker) handle(ctx context.Context, msg stream.Message) error {
	var ev model.MessageEvent
	if err := json.Unmarshal(msg.Value, &ev); err != nil {
		// malformed payload, drop it without failing the offset
		w.logger.Warn(ctx, "unmarshal message event",
			zap.Int64("offset", msg.Offset),
			zap.Error(err))
		return nil
	}

	if _, err := w.messageEvent.Create(ctx, &ev); err != nil {
		w.logger.Error(ctx, "persist message event",
			zap.String("event_id", ev.EventID),
			zap.Error(err))
		return err
	}
	return nil
}
