package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Properties holds the free-form extension data attached to an entity.
type Properties map[string]Value

func (p Properties) Clone() Properties {
	out := make(Properties, len(p))
	for key, value := range p {
		out[key] = value.Clone()
	}
	return out
}

func (p Properties) Get(key string) (Value, bool) {
	value, ok := p[key]
	if !ok {
		return Value{}, false
	}
	return value.Clone(), true
}

// PropertyCodec converts Properties to and from their canonical text form.
// Canonical output has sorted object keys and normalized numbers, so equal
// property bags always encode to identical bytes.
type PropertyCodec struct{}

func (PropertyCodec) Encode(properties Properties) (string, error) {
	if len(properties) == 0 {
		return "{}", nil
	}
	var buf bytes.Buffer
	if err := writeCanonicalObject(&buf, properties); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (PropertyCodec) Decode(text string) (Properties, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Properties{}, nil
	}
	var value Value
	if err := json.Unmarshal([]byte(text), &value); err != nil {
		return nil, fmt.Errorf("core: decode properties: %w", err)
	}
	switch value.Kind() {
	case ValueNull:
		return Properties{}, nil
	case ValueObject:
		return Properties(value.object), nil
	default:
		return nil, fmt.Errorf("core: decode properties: expected object, got %s", value.Kind())
	}
}

func (PropertyCodec) Equal(a Properties, b Properties) bool {
	if len(a) != len(b) {
		return false
	}
	for key, value := range a {
		other, ok := b[key]
		if !ok || !value.Equal(other) {
			return false
		}
	}
	return true
}

func (c PropertyCodec) Hash(properties Properties) uint64 {
	encoded, err := c.Encode(properties)
	if err != nil {
		return 0
	}
	return xxhash.Sum64String(encoded)
}

func (PropertyCodec) Clone(properties Properties) Properties {
	return properties.Clone()
}

func writeCanonical(buf *bytes.Buffer, value Value) error {
	switch value.kind {
	case ValueNull:
		buf.WriteString("null")
	case ValueBool:
		if value.flag {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case ValueNumber:
		buf.WriteString(value.num)
	case ValueString:
		encoded, err := json.Marshal(value.str)
		if err != nil {
			return err
		}
		buf.Write(encoded)
	case ValueArray:
		buf.WriteByte('[')
		for i, item := range value.array {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeCanonical(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case ValueObject:
		return writeCanonicalObject(buf, value.object)
	default:
		return fmt.Errorf("core: unknown value kind %d", value.kind)
	}
	return nil
}

func writeCanonicalObject(buf *bytes.Buffer, fields map[string]Value) error {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	buf.WriteByte('{')
	for i, key := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		encodedKey, err := json.Marshal(key)
		if err != nil {
			return err
		}
		buf.Write(encodedKey)
		buf.WriteByte(':')
		if err := writeCanonical(buf, fields[key]); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}

// StringSetCodec stores a string set as a sorted JSON array.
type StringSetCodec struct{}

func (StringSetCodec) Encode(values []string) (string, error) {
	normalized := append([]string(nil), values...)
	slices.Sort(normalized)
	normalized = slices.Compact(normalized)
	if normalized == nil {
		normalized = []string{}
	}
	encoded, err := marshalUnescaped(normalized)
	if err != nil {
		return "", fmt.Errorf("core: encode string set: %w", err)
	}
	return encoded, nil
}

func (StringSetCodec) Decode(text string) ([]string, error) {
	text = strings.TrimSpace(text)
	if text == "" || text == "null" {
		return []string{}, nil
	}
	var values []string
	if err := json.Unmarshal([]byte(text), &values); err != nil {
		return nil, fmt.Errorf("core: decode string set: %w", err)
	}
	slices.Sort(values)
	values = slices.Compact(values)
	if values == nil {
		values = []string{}
	}
	return values, nil
}

// StringMapCodec stores localized text keyed by language tag.
type StringMapCodec struct{}

func (StringMapCodec) Encode(values map[string]string) (string, error) {
	if len(values) == 0 {
		return "{}", nil
	}
	// encoding/json sorts map keys.
	encoded, err := marshalUnescaped(values)
	if err != nil {
		return "", fmt.Errorf("core: encode string map: %w", err)
	}
	return encoded, nil
}

func (StringMapCodec) Decode(text string) (map[string]string, error) {
	text = strings.TrimSpace(text)
	if text == "" || text == "null" {
		return map[string]string{}, nil
	}
	values := map[string]string{}
	if err := json.Unmarshal([]byte(text), &values); err != nil {
		return nil, fmt.Errorf("core: decode string map: %w", err)
	}
	return values, nil
}

// marshalUnescaped keeps '&', '<' and '>' literal so stored URIs stay
// searchable with LIKE.
func marshalUnescaped(value any) (string, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(value); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
