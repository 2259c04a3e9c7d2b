package crudapi

import "testing"

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected string
	}{
		{
			name:     "message field",
			body:     `{"message":"bad txHash"}`,
			expected: "bad txHash",
		},
		{
			name:     "error field",
			body:     `{"error":"oops"}`,
			expected: "oops",
		},
		{
			name:     "message wins over error",
			body:     `{"message":"first","error":"second"}`,
			expected: "first",
		},
		{
			name:     "empty message falls back to error",
			body:     `{"message":"","error":"second"}`,
			expected: "second",
		},
		{
			name:     "null message falls back to error",
			body:     `{"message":null,"error":"second"}`,
			expected: "second",
		},
		{
			name:     "numeric message",
			body:     `{"message":42}`,
			expected: "42",
		},
		{
			name:     "zero message is ignored",
			body:     `{"message":0}`,
			expected: DefaultErrorMessage,
		},
		{
			name:     "object error",
			body:     `{"error":{"code":7}}`,
			expected: `{"code":7}`,
		},
		{
			name:     "array message",
			body:     `{"message":["a","b"]}`,
			expected: `["a","b"]`,
		},
		{
			name:     "neither field",
			body:     `{"detail":"nope"}`,
			expected: DefaultErrorMessage,
		},
		{
			name:     "plain text",
			body:     `Internal Server Error`,
			expected: DefaultErrorMessage,
		},
		{
			name:     "json array",
			body:     `["message"]`,
			expected: DefaultErrorMessage,
		},
		{
			name:     "whitespace body",
			body:     "  \n",
			expected: DefaultErrorMessage,
		},
		{
			name:     "empty body",
			body:     ``,
			expected: "Request failed: Request failed with status code 500",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ErrorMessage(500, []byte(tc.body)); got != tc.expected {
				t.Fatalf("ErrorMessage mismatch: expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestDecodeResult(t *testing.T) {
	var payload struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := DecodeResult([]byte(`{"id":"x1","status":"created","extra":true}`), &payload); err != nil {
		t.Fatalf("DecodeResult error: %v", err)
	}
	if payload.ID != "x1" || payload.Status != "created" {
		t.Fatalf("DecodeResult mismatch: %#v", payload)
	}

	var empty struct {
		Status string `json:"status"`
	}
	if err := DecodeResult([]byte("  \n"), &empty); err != nil {
		t.Fatalf("DecodeResult empty body: %v", err)
	}
	if empty.Status != "" {
		t.Fatalf("expected zero value, got %#v", empty)
	}

	if err := DecodeResult([]byte(`<html>`), &empty); err == nil {
		t.Fatalf("expected error for non-JSON body")
	}
}
