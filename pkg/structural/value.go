package structural

import (
	"encoding/json"
	"slices"
)

// Kind identifies the variant of a Value.
type Kind uint8

// Value kinds.
const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is a node in a structural tree. The set of implementations is closed;
// a nil Value is treated as Null everywhere in this module.
type Value interface {
	Kind() Kind
	sealed()
}

// Null is the JSON null.
type Null struct{}

// Bool is a JSON boolean.
type Bool bool

// Number is a JSON number held as its literal text, so integers beyond the
// float64 mantissa survive a parse and marshal unchanged.
type Number string

// String is a JSON string.
type String string

// Array is an ordered sequence of values.
type Array []Value

// Object maps field names to values. Key order carries no meaning.
type Object map[string]Value

// Kind implementations.

// Kind returns KindNull.
func (Null) Kind() Kind { return KindNull }

// Kind returns KindBool.
func (Bool) Kind() Kind { return KindBool }

// Kind returns KindNumber.
func (Number) Kind() Kind { return KindNumber }

// Kind returns KindString.
func (String) Kind() Kind { return KindString }

// Kind returns KindArray.
func (Array) Kind() Kind { return KindArray }

// Kind returns KindObject.
func (Object) Kind() Kind { return KindObject }

func (Null) sealed()   {}
func (Bool) sealed()   {}
func (Number) sealed() {}
func (String) sealed() {}
func (Array) sealed()  {}
func (Object) sealed() {}

// KindOf returns the kind of v, reporting KindNull for a nil Value.
func KindOf(v Value) Kind {
	if v == nil {
		return KindNull
	}

	return v.Kind()
}

// MarshalJSON encodes Null as the JSON literal null.
func (Null) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

// MarshalJSON encodes the object with sorted keys. A nil Object encodes as {}.
func (o Object) MarshalJSON() ([]byte, error) {
	if o == nil {
		return []byte("{}"), nil
	}

	data, err := json.Marshal(map[string]Value(o))
	if err != nil {
		return nil, wrapMarshal(err)
	}

	return data, nil
}

// UnmarshalJSON decodes a JSON object into o.
func (o *Object) UnmarshalJSON(data []byte) error {
	obj, err := ParseObject(data)
	if err != nil {
		return err
	}

	*o = obj

	return nil
}

// Keys returns the object's keys in ascending order.
func (o Object) Keys() []string {
	keys := make([]string, 0, len(o))
	for key := range o {
		keys = append(keys, key)
	}

	slices.Sort(keys)

	return keys
}

// Has reports whether key is present, including keys holding Null.
func (o Object) Has(key string) bool {
	_, ok := o[key]

	return ok
}

// AsObject returns v as an Object when it is one.
func AsObject(v Value) (Object, bool) {
	obj, ok := v.(Object)

	return obj, ok
}
