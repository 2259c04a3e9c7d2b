package crudapi

import (
	"errors"
	"testing"
)

func TestParseItemFields(t *testing.T) {
	f, err := ParseItemFields([]byte(`{"value":42,"txHash":"0xabc","other":[1]}`))
	if err != nil {
		t.Fatalf("ParseItemFields: %v", err)
	}
	if !f.Complete() || *f.Value != 42 || *f.TxHash != "0xabc" {
		t.Fatalf("unexpected fields %#v", f)
	}

	f, err = ParseItemFields([]byte(`{"value":-1.5e2}`))
	if err != nil {
		t.Fatalf("ParseItemFields: %v", err)
	}
	if f.Complete() || f.Empty() || *f.Value != -150 || f.TxHash != nil {
		t.Fatalf("unexpected partial fields %#v", f)
	}

	f, err = ParseItemFields([]byte(`{"unrelated":true}`))
	if err != nil {
		t.Fatalf("ParseItemFields: %v", err)
	}
	if !f.Empty() {
		t.Fatalf("expected empty fields, got %#v", f)
	}

	invalid := []string{
		`{"value":"42"}`,
		`{"value":null}`,
		`{"value":true}`,
		`{"txHash":1}`,
		`{"txHash":null}`,
		`{"value":1e999}`,
		`null`,
		`[]`,
		`"text"`,
		``,
	}
	for _, payload := range invalid {
		if _, err := ParseItemFields([]byte(payload)); !errors.Is(err, ErrInvalidPayload) {
			t.Fatalf("expected ErrInvalidPayload for %q, got %v", payload, err)
		}
	}
}
