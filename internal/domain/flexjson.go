// internal/domain/flexjson.go
package domain

import (
	"bytes"
	"encoding/json"
	"strings"
	"unicode"
)

// DecodeLoose decodes JSON accepting both snake_case and camelCase keys.
// Keys are canonicalized to snake_case before decoding into v, so struct
// tags only ever need the snake_case spelling. When both spellings of a key
// are present the snake_case one wins.
func DecodeLoose(data []byte, v any) error {
	var raw json.RawMessage = data
	canon, err := canonicalize(raw)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(canon))
	return dec.Decode(v)
}

func canonicalize(raw json.RawMessage) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return raw, nil
	}
	switch trimmed[0] {
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return nil, err
		}
		out := make(map[string]json.RawMessage, len(obj))
		for k, val := range obj {
			canonVal, err := canonicalize(val)
			if err != nil {
				return nil, err
			}
			sk := ToSnake(k)
			// An explicit snake_case key beats the camelCase alias.
			if _, exists := out[sk]; exists && sk != k {
				continue
			}
			out[sk] = canonVal
		}
		return json.Marshal(out)
	case '[':
		var arr []json.RawMessage
		if err := json.Unmarshal(trimmed, &arr); err != nil {
			return nil, err
		}
		for i, el := range arr {
			canonEl, err := canonicalize(el)
			if err != nil {
				return nil, err
			}
			arr[i] = canonEl
		}
		return json.Marshal(arr)
	default:
		return raw, nil
	}
}

// ToSnake converts a camelCase or PascalCase key to snake_case. Keys already
// in snake_case pass through unchanged. Acronym runs stay together: "dealROI"
// becomes "deal_roi".
func ToSnake(s string) string {
	if strings.Contains(s, "_") || strings.ToLower(s) == s {
		return strings.ToLower(s)
	}
	var b strings.Builder
	b.Grow(len(s) + 4)
	runes := []rune(s)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			prevLower := i > 0 && !unicode.IsUpper(runes[i-1])
			nextLower := i+1 < len(runes) && !unicode.IsUpper(runes[i+1]) && runes[i+1] != '_'
			if i > 0 && (prevLower || nextLower) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
