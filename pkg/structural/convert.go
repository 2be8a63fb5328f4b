package structural

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
)

var (
	// ErrUnsupportedType is returned when a Go value has no structural equivalent.
	ErrUnsupportedType = errors.New("unsupported type")
	// ErrNotObject is returned when an object was expected at the top level.
	ErrNotObject = errors.New("value is not an object")
	// ErrNonFiniteNumber is returned for NaN and infinite numbers, which JSON cannot carry.
	ErrNonFiniteNumber = errors.New("non-finite number")
	// ErrInvalidNumber is returned for text that is not a JSON number literal.
	ErrInvalidNumber = errors.New("invalid number literal")
)

// FromAny converts the generic shapes produced by encoding/json (and common
// Go scalars) into a Value.
//
//nolint:cyclop // one case per supported Go type
func FromAny(input any) (Value, error) {
	switch val := input.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return val, nil
	case bool:
		return Bool(val), nil
	case string:
		return String(val), nil
	case float64:
		return numberFromFloat(val)
	case float32:
		return numberFromFloat(float64(val))
	case int:
		return Number(strconv.Itoa(val)), nil
	case int32:
		return Number(strconv.FormatInt(int64(val), 10)), nil
	case int64:
		return Number(strconv.FormatInt(val, 10)), nil
	case uint:
		return Number(strconv.FormatUint(uint64(val), 10)), nil
	case uint32:
		return Number(strconv.FormatUint(uint64(val), 10)), nil
	case uint64:
		return Number(strconv.FormatUint(val, 10)), nil
	case json.Number:
		return ParseNumber(val.String())
	case []any:
		return arrayFromAny(val)
	case map[string]any:
		return objectFromAny(val)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedType, input)
	}
}

func numberFromFloat(f float64) (Value, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("%w: %v", ErrNonFiniteNumber, f)
	}

	// encoding/json picks the shortest text that reads back as f.
	data, err := json.Marshal(f)
	if err != nil {
		return nil, wrapMarshal(err)
	}

	return Number(data), nil
}

func arrayFromAny(items []any) (Value, error) {
	out := make(Array, 0, len(items))

	for i, item := range items {
		val, err := FromAny(item)
		if err != nil {
			return nil, fmt.Errorf("array[%d]: %w", i, err)
		}

		out = append(out, val)
	}

	return out, nil
}

func objectFromAny(fields map[string]any) (Value, error) {
	out := make(Object, len(fields))

	for key, field := range fields {
		val, err := FromAny(field)
		if err != nil {
			return nil, fmt.Errorf("object[%q]: %w", key, err)
		}

		out[key] = val
	}

	return out, nil
}

// ToAny converts v back into encoding/json generic shapes.
func ToAny(v Value) any {
	switch tv := v.(type) {
	case Bool:
		return bool(tv)
	case Number:
		return json.Number(tv)
	case String:
		return string(tv)
	case Array:
		out := make([]any, len(tv))
		for i, elem := range tv {
			out[i] = ToAny(elem)
		}

		return out
	case Object:
		out := make(map[string]any, len(tv))
		for key, elem := range tv {
			out[key] = ToAny(elem)
		}

		return out
	default:
		return nil
	}
}

// Parse decodes JSON text into a Value.
func Parse(data []byte) (Value, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var raw any

	err := decoder.Decode(&raw)
	if err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}

	return FromAny(raw)
}

// ParseObject decodes JSON text that must hold an object at the top level.
func ParseObject(data []byte) (Object, error) {
	val, err := Parse(data)
	if err != nil {
		return nil, err
	}

	obj, ok := val.(Object)
	if !ok {
		return nil, fmt.Errorf("%w: got %s", ErrNotObject, KindOf(val))
	}

	return obj, nil
}

// Marshal encodes v as compact JSON with object keys sorted.
func Marshal(v Value) ([]byte, error) {
	data, err := json.Marshal(ToAny(v))
	if err != nil {
		return nil, wrapMarshal(err)
	}

	return data, nil
}

func wrapMarshal(err error) error {
	return fmt.Errorf("marshal json: %w", err)
}
