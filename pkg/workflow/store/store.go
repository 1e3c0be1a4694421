package store

import "github.com/utkarsh-1912/TradeLab/pkg/workflow/model"

// MessageStore keeps produced messages and the ClOrdID chain built up by
// cancel/replace requests.
type MessageStore interface {
	AddEvent(ev *model.MessageEvent)
	TrackChain(clOrdID, origClOrdID string)
	Events(clOrdID string) []*model.MessageEvent
	AllEvents() []*model.MessageEvent
	OrigClOrdID(clOrdID string) string
	ReconstructChain(clOrdID string) []string
}
