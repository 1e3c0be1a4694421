package workflow

import (
	"io"

	"github.com/gocarina/gocsv"

	"github.com/utkarsh-1912/TradeLab/pkg/workflow/model"
)

// ExportMessagesCSV writes every stored message in display form.
func (s *Workflow) ExportMessagesCSV(w io.Writer) error {
	return gocsv.Marshal(s.store.AllEvents(), w)
}

// ExportAllocationsCSV writes every resolved allocation row.
func (s *Workflow) ExportAllocationsCSV(w io.Writer) error {
	s.mu.Lock()
	rows := append([]*model.AllocationRecord(nil), s.allocRecords...)
	s.mu.Unlock()

	return gocsv.Marshal(rows, w)
}
