package repo

import (
	"context"

	"github.com/utkarsh-1912/TradeLab/pkg/workflow/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderSQLRepo struct {
	db *gorm.DB
}

func NewOrderSQLRepo(db *gorm.DB) *OrderSQLRepo {
	return &OrderSQLRepo{
		db: db,
	}
}

func (s *OrderSQLRepo) dbWithContext(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

func (s *OrderSQLRepo) Upsert(ctx context.Context, record *model.Order) (*model.Order, error) {
	err := s.dbWithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "cl_ord_id"}},
		UpdateAll: true,
	}).Create(record).Error
	return record, err
}

func (s *OrderSQLRepo) GetByClOrdID(ctx context.Context, clOrdID string) (*model.Order, error) {
	var record model.Order
	err := s.dbWithContext(ctx).Where("cl_ord_id = ?", clOrdID).First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}
