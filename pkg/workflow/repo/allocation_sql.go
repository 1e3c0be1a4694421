package repo

import (
	"context"

	"github.com/utkarsh-1912/TradeLab/pkg/workflow/model"
	"gorm.io/gorm"
)

type AllocationSQLRepo struct {
	db *gorm.DB
}

func NewAllocationSQLRepo(db *gorm.DB) *AllocationSQLRepo {
	return &AllocationSQLRepo{
		db: db,
	}
}

func (s *AllocationSQLRepo) dbWithContext(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

func (s *AllocationSQLRepo) BulkCreate(ctx context.Context, records []*model.AllocationRecord) ([]*model.AllocationRecord, error) {
	return records, s.dbWithContext(ctx).Create(records).Error
}

func (s *AllocationSQLRepo) ListByAllocID(ctx context.Context, allocID string) ([]*model.AllocationRecord, error) {
	var records []*model.AllocationRecord
	err := s.dbWithContext(ctx).Where("alloc_id = ?", allocID).Find(&records).Error
	return records, err
}
