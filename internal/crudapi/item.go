package crudapi

import (
	"bytes"
	"encoding/json"
	"errors"
)

// ErrInvalidPayload is returned when an item payload is not a JSON object or
// one of its recognized fields has the wrong JSON type.
var ErrInvalidPayload = errors.New("crudapi: invalid item payload")

// ItemFields holds the recognized fields of an item payload. A nil field was
// absent from the payload.
type ItemFields struct {
	Value  *float64
	TxHash *string
}

// Empty reports whether neither field was present.
func (f ItemFields) Empty() bool {
	return f.Value == nil && f.TxHash == nil
}

// Complete reports whether both fields were present.
func (f ItemFields) Complete() bool {
	return f.Value != nil && f.TxHash != nil
}

// ParseItemFields decodes a JSON object and type-checks "value" (JSON number)
// and "txHash" (JSON string). Unknown keys are ignored.
func ParseItemFields(payload []byte) (ItemFields, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil || fields == nil {
		return ItemFields{}, ErrInvalidPayload
	}

	var out ItemFields
	if raw, ok := fields["value"]; ok {
		v, ok := numberValue(raw)
		if !ok {
			return ItemFields{}, ErrInvalidPayload
		}
		out.Value = &v
	}
	if raw, ok := fields["txHash"]; ok {
		s, ok := stringValue(raw)
		if !ok {
			return ItemFields{}, ErrInvalidPayload
		}
		out.TxHash = &s
	}
	return out, nil
}

func numberValue(raw json.RawMessage) (float64, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || !(raw[0] == '-' || (raw[0] >= '0' && raw[0] <= '9')) {
		return 0, false
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, false
	}
	return v, true
}

func stringValue(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}
