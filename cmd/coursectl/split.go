package main

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// splitDocument returns each element of a top-level array, or the whole
// document when it is not an array.
func splitDocument(data []byte) ([][]byte, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty input")
	}
	if trimmed[0] != '[' {
		return [][]byte{trimmed}, nil
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, fmt.Errorf("decode array: %w", err)
	}
	out := make([][]byte, 0, len(raw))
	for _, item := range raw {
		out = append(out, item)
	}
	return out, nil
}
