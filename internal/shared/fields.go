package shared

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strconv"
	"strings"
)

// OptionalInt is a loosely typed JSON integer. Clients send numbers, numeric
// strings, "" or null; the latter two mean "not supplied". Anything else marks
// the field Invalid instead of failing the whole decode.
type OptionalInt struct {
	Value   int64
	Set     bool
	Invalid bool
}

// NewOptionalInt returns a set OptionalInt.
func NewOptionalInt(v int64) OptionalInt {
	return OptionalInt{Value: v, Set: true}
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *OptionalInt) UnmarshalJSON(data []byte) error {
	*o = OptionalInt{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			o.Invalid = true
			return nil
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		data = []byte(s)
	}
	v, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		o.Invalid = true
		return nil
	}
	o.Value, o.Set = v, true
	return nil
}

// MarshalJSON implements json.Marshaler.
func (o OptionalInt) MarshalJSON() ([]byte, error) {
	if !o.Set {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatInt(o.Value, 10)), nil
}

// Ptr returns the value as a pointer, nil when not supplied.
func (o OptionalInt) Ptr() *int64 {
	if !o.Set {
		return nil
	}
	v := o.Value
	return &v
}

// optionalIntValuer exposes set values as *int64 so that "required" accepts
// an explicit zero; unset values validate as missing.
func optionalIntValuer(field reflect.Value) any {
	o, ok := field.Interface().(OptionalInt)
	if !ok || !o.Set || o.Invalid {
		return nil
	}
	return o.Ptr()
}
