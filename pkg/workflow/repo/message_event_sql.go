package repo

import (
	"context"

	"github.com/utkarsh-1912/TradeLab/pkg/workflow/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MessageEventSQLRepo struct {
	db *gorm.DB
}

func NewMessageEventSQLRepo(db *gorm.DB) *MessageEventSQLRepo {
	return &MessageEventSQLRepo{
		db: db,
	}
}

func (s *MessageEventSQLRepo) dbWithContext(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// Create is idempotent on event_id; the stream delivers at least once.
func (s *MessageEventSQLRepo) Create(ctx context.Context, record *model.MessageEvent) (*model.MessageEvent, error) {
	return record, s.dbWithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_id"}},
		DoNothing: true,
	}).Create(record).Error
}

func (s *MessageEventSQLRepo) BulkCreate(ctx context.Context, records []*model.MessageEvent) ([]*model.MessageEvent, error) {
	return records, s.dbWithContext(ctx).Create(records).Error
}

func (s *MessageEventSQLRepo) ListByClOrdID(ctx context.Context, clOrdID string) ([]*model.MessageEvent, error) {
	var records []*model.MessageEvent
	err := s.dbWithContext(ctx).Where("cl_ord_id = ?", clOrdID).Order("timestamp asc").Find(&records).Error
	return records, err
}
