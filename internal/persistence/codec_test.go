package persistence

import "testing"

func TestCodec_NilAndEmpty(t *testing.T) {
	data, err := EncodeValue(nil)
	if err != nil {
		t.Fatalf("EncodeValue(nil): %v", err)
	}
	if data != nil {
		t.Fatalf("expected nil bytes for nil value, got %q", data)
	}

	v, err := DecodeValue[map[string]any](nil)
	if err != nil {
		t.Fatalf("DecodeValue(nil): %v", err)
	}
	if v != nil {
		t.Fatalf("expected zero value, got %v", v)
	}
}

func TestCodec_StructRoundTrip(t *testing.T) {
	type payload struct {
		Name  string   `json:"name"`
		Items []string `json:"items"`
	}

	data, err := EncodeValue(payload{Name: "x", Items: []string{"a", "b"}})
	if err != nil {
		t.Fatalf("EncodeValue: %v", err)
	}

	got, err := DecodeValue[payload](data)
	if err != nil {
		t.Fatalf("DecodeValue: %v", err)
	}
	if got.Name != "x" || len(got.Items) != 2 {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}
