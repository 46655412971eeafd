package persistence

import (
	"encoding/json"
)

// EncodeValue serializes arbitrary Go values as JSON. Run inputs and outputs
// are JSON-shaped documents end to end (the reasoner speaks JSON over HTTP),
// so JSON round-trips them without type registration.
func EncodeValue(v any) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

// DecodeValue deserializes data produced by EncodeValue.
// Empty input decodes to the zero value.
func DecodeValue[T any](data []byte) (T, error) {
	var v T
	if len(data) == 0 {
		return v, nil
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, err
	}
	return v, nil
}
