package fix

import (
	"github.com/quickfixgo/quickfix"
)

// MsgType is the FIX message-type code carried in tag 35.
type MsgType string

const (
	MsgTypeNewOrderSingle            MsgType = "D"
	MsgTypeExecutionReport           MsgType = "8"
	MsgTypeOrderCancelRequest        MsgType = "F"
	MsgTypeOrderCancelReplaceRequest MsgType = "G"
	MsgTypeAllocationInstruction     MsgType = "J"
	MsgTypeAllocationReport          MsgType = "AS"
	MsgTypeConfirmation              MsgType = "AK"
	MsgTypeAllocationAck             MsgType = "P"
)

// Field is a single tag=value pair.
type Field struct {
	Tag   quickfix.Tag
	Value string
}

// FieldMap holds message fields with unique tags, preserving insertion
// order for deterministic wire output. Tags are not sorted.
type FieldMap struct {
	fields []Field
	index  map[quickfix.Tag]int
}

func NewFieldMap() *FieldMap {
	return &FieldMap{
		index: make(map[quickfix.Tag]int),
	}
}

// Set adds a field or replaces the value of an existing one in place.
func (m *FieldMap) Set(t quickfix.Tag, value string) *FieldMap {
	if i, ok := m.index[t]; ok {
		m.fields[i].Value = value
		return m
	}
	m.index[t] = len(m.fields)
	m.fields = append(m.fields, Field{Tag: t, Value: value})
	return m
}

func (m *FieldMap) Get(t quickfix.Tag) (string, bool) {
	i, ok := m.index[t]
	if !ok {
		return "", false
	}
	return m.fields[i].Value, true
}

func (m *FieldMap) Has(t quickfix.Tag) bool {
	_, ok := m.index[t]
	return ok
}

// Fields returns the fields in insertion order.
func (m *FieldMap) Fields() []Field {
	return m.fields
}

func (m *FieldMap) Len() int {
	return len(m.fields)
}

// Message is an immutable business envelope: the message-type code, the
// business fields (excluding the framing tags 8, 9, 10, 35) and the fully
// framed wire string. Persisted verbatim for replay and export.
type Message struct {
	Type   MsgType
	Fields *FieldMap
	Wire   string
}
