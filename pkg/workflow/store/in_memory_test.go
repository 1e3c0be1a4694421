package store

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/utkarsh-1912/TradeLab/pkg/workflow/model"
)

func TestEventsGroupedByClOrdID(t *testing.T) {
	s := NewInMemoryStore()

	s.AddEvent(&model.MessageEvent{EventID: "e1", ClOrdID: "A", MsgType: "D"})
	s.AddEvent(&model.MessageEvent{EventID: "e2", ClOrdID: "A", MsgType: "8"})
	s.AddEvent(&model.MessageEvent{EventID: "e3", ClOrdID: "B", MsgType: "D"})

	assert.Len(t, s.Events("A"), 2)
	assert.Len(t, s.Events("B"), 1)
	assert.Len(t, s.AllEvents(), 3)
	assert.Empty(t, s.Events("missing"))
}

func TestReconstructChain(t *testing.T) {
	s := NewInMemoryStore()

	// C2 replaces C1, C3 cancels C2
	s.TrackChain("C2", "C1")
	s.TrackChain("C3", "C2")

	assert.Equal(t, []string{"C3", "C2", "C1"}, s.ReconstructChain("C3"))
	assert.Equal(t, "C1", s.OrigClOrdID("C2"))
	assert.Equal(t, "", s.OrigClOrdID("C1"))
	assert.Equal(t, []string{"C1"}, s.ReconstructChain("C1"))
}

func TestTrackChainIgnoresEmptyOrig(t *testing.T) {
	s := NewInMemoryStore()
	s.TrackChain("C1", "")
	assert.Equal(t, []string{"C1"}, s.ReconstructChain("C1"))
}
