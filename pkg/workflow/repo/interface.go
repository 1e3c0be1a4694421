package repo

import (
	"context"

	"github.com/utkarsh-1912/TradeLab/pkg/workflow/model"
)

type IOrder interface {
	Upsert(ctx context.Context, record *model.Order) (*model.Order, error)
	GetByClOrdID(ctx context.Context, clOrdID string) (*model.Order, error)
}

type IMessageEvent interface {
	Create(ctx context.Context, record *model.MessageEvent) (*model.MessageEvent, error)
	BulkCreate(ctx context.Context, records []*model.MessageEvent) ([]*model.MessageEvent, error)
	ListByClOrdID(ctx context.Context, clOrdID string) ([]*model.MessageEvent, error)
}

type IAllocation interface {
	BulkCreate(ctx context.Context, records []*model.AllocationRecord) ([]*model.AllocationRecord, error)
	ListByAllocID(ctx context.Context, allocID string) ([]*model.AllocationRecord, error)
}
