package repo

import (
	"gorm.io/gorm"
)

type IRepo interface {
	Order() IOrder
	MessageEvent() IMessageEvent
	Allocation() IAllocation
}

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) IRepo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Order() IOrder {
	return NewOrderSQLRepo(r.db)
}

func (r *Repo) MessageEvent() IMessageEvent {
	return NewMessageEventSQLRepo(r.db)
}

func (r *Repo) Allocation() IAllocation {
	return NewAllocationSQLRepo(r.db)
}
