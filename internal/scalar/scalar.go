// Package scalar decodes loosely typed JSON scalars. Receipts and older
// history files carry identity fields as strings, numbers or booleans.
package scalar

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

func decode(msg json.RawMessage) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(msg))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// String renders a JSON string, number, boolean or null as a string.
// Numbers keep their literal digits, so long SKUs survive unchanged.
func String(msg json.RawMessage) (string, error) {
	v, err := decode(msg)
	if err != nil {
		return "", err
	}
	switch val := v.(type) {
	case nil:
		return "", nil
	case string:
		return val, nil
	case json.Number:
		return val.String(), nil
	case bool:
		return strconv.FormatBool(val), nil
	default:
		return "", fmt.Errorf("expected a string, got %T", v)
	}
}

// Int reads a whole number written as a JSON number or a numeric string.
// Null reads as zero.
func Int(msg json.RawMessage) (int, error) {
	v, err := decode(msg)
	if err != nil {
		return 0, err
	}
	var text string
	switch val := v.(type) {
	case nil:
		return 0, nil
	case json.Number:
		text = val.String()
	case string:
		text = strings.TrimSpace(val)
	default:
		return 0, fmt.Errorf("expected a number, got %T", v)
	}

	if n, err := strconv.Atoi(text); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || f != float64(int(f)) {
		return 0, fmt.Errorf("expected a whole number, got %q", text)
	}
	return int(f), nil
}

// Strings reads an array of scalars. Null reads as nil and a lone scalar
// reads as a one-element list.
func Strings(msg json.RawMessage) ([]string, error) {
	trimmed := bytes.TrimSpace(msg)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		s, err := String(msg)
		if err != nil || s == "" {
			return nil, err
		}
		return []string{s}, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, err
	}
	out := make([]string, 0, len(items))
	for i, item := range items {
		s, err := String(item)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		out = append(out, s)
	}
	return out, nil
}
