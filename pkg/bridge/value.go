package bridge

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/aretw0/docbridge/pkg/core"
)

// decodeValue parses one JSON value, keeping integers exact.
func decodeValue(raw string) (any, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON value: %v", core.ErrEngine, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after JSON value", core.ErrEngine)
	}
	return v, nil
}

// encodeValue renders v as JSON. ok is false when v cannot be serialized.
func encodeValue(v any) (string, bool) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", false
	}
	return string(data), true
}
