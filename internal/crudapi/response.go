package crudapi

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DefaultErrorMessage is used when an error body carries no usable message.
const DefaultErrorMessage = "Request failed"

// ErrorMessage extracts a human readable message from the body of a response
// answered with status. The "message" field wins over "error"; a field counts
// only when it holds a truthy JSON value (non-empty string, non-zero number,
// true, object or array). A response without any body reports its status;
// bodies that are not a JSON object yield DefaultErrorMessage.
func ErrorMessage(status int, body []byte) string {
	if len(body) == 0 {
		return fmt.Sprintf("%s: Request failed with status code %d", DefaultErrorMessage, status)
	}
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return DefaultErrorMessage
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil || fields == nil {
		return DefaultErrorMessage
	}
	for _, name := range []string{"message", "error"} {
		if msg, ok := truthyText(fields[name]); ok {
			return msg
		}
	}
	return DefaultErrorMessage
}

// DecodeResult decodes a flat (non-enveloped) response body into out. An empty
// body leaves out untouched.
func DecodeResult(body []byte, out any) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil
	}
	return json.Unmarshal(trimmed, out)
}

func truthyText(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "", false
	}

	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", false
	}
	switch v := value.(type) {
	case nil:
		return "", false
	case string:
		return v, v != ""
	case bool:
		return "true", v
	case float64:
		return string(raw), v != 0
	default:
		return string(raw), true
	}
}
