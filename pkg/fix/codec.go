package fix

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/quickfixgo/quickfix"
	"github.com/quickfixgo/tag"
)

const (
	// BeginString is the protocol version stamped into tag 8.
	BeginString = "FIX.4.4"

	// SOH is the wire field delimiter.
	SOH = "\x01"

	// DisplaySep substitutes SOH in logs and UI payloads.
	DisplaySep = "|"

	// TransactTimeFormat is the wire timestamp layout for tag 60.
	TransactTimeFormat = "20060102-15:04:05"
)

// Encode frames a message: body is the type tag followed by every field in
// insertion order, prefixed by BeginString and BodyLength tags and terminated
// by the 3-digit mod-256 checksum over everything before tag 10.
func Encode(msgType MsgType, fields *FieldMap) string {
	var body strings.Builder
	body.WriteString(fmt.Sprintf("%d=%s%s", tag.MsgType, msgType, SOH))
	if fields != nil {
		for _, f := range fields.Fields() {
			body.WriteString(fmt.Sprintf("%d=%s%s", f.Tag, f.Value, SOH))
		}
	}

	header := fmt.Sprintf("%d=%s%s%d=%d%s", tag.BeginString, BeginString, SOH, tag.BodyLength, body.Len(), SOH)
	payload := header + body.String()

	return fmt.Sprintf("%s%d=%03d%s", payload, tag.CheckSum, checksum(payload), SOH)
}

// Decode parses a wire string back into a field map. Empty segments and
// segments without '=' are skipped, not errors; a hand-edited or truncated
// message still yields every parseable field. A missing type tag falls back
// to NewOrderSingle, leaving the gap for the validator to surface.
func Decode(wire string) (*FieldMap, MsgType) {
	fields := NewFieldMap()
	msgType := MsgTypeNewOrderSingle

	for _, segment := range strings.Split(wire, SOH) {
		if segment == "" {
			continue
		}
		kv := strings.SplitN(segment, "=", 2)
		if len(kv) != 2 {
			continue
		}
		t, err := strconv.Atoi(kv[0])
		if err != nil {
			continue
		}
		fields.Set(quickfix.Tag(t), kv[1])
	}

	if v, ok := fields.Get(tag.MsgType); ok {
		msgType = MsgType(v)
	}

	return fields, msgType
}

// checksum is the byte sum of the payload mod 256.
func checksum(payload string) int {
	var sum int
	for i := 0; i < len(payload); i++ {
		sum += int(payload[i])
	}
	return sum % 256
}

// ToDisplay replaces the SOH delimiter with a readable pipe.
func ToDisplay(wire string) string {
	return strings.ReplaceAll(wire, SOH, DisplaySep)
}

// FromDisplay restores the SOH delimiter. Lossless round trip for any wire
// string that does not itself contain a literal pipe.
func FromDisplay(display string) string {
	return strings.ReplaceAll(display, DisplaySep, SOH)
}
