package structural

// Equal reports whether a and b are deeply, structurally equal.
// Arrays compare element by element in order; objects compare by key set
// and per-key value. Numbers compare by exact value, so 1 and 1.0 are equal
// while 9007199254740992 and 9007199254740993 are not. A nil Value equals Null.
func Equal(left, right Value) bool {
	if KindOf(left) != KindOf(right) {
		return false
	}

	switch lv := left.(type) {
	case nil, Null:
		return true
	case Bool:
		return lv == right.(Bool)
	case Number:
		return lv.Equal(right.(Number))
	case String:
		return lv == right.(String)
	case Array:
		return equalArrays(lv, right.(Array))
	case Object:
		return equalObjects(lv, right.(Object))
	default:
		return false
	}
}

func equalArrays(left, right Array) bool {
	if len(left) != len(right) {
		return false
	}

	for i := range left {
		if !Equal(left[i], right[i]) {
			return false
		}
	}

	return true
}

func equalObjects(left, right Object) bool {
	if len(left) != len(right) {
		return false
	}

	for key, lv := range left {
		rv, ok := right[key]
		if !ok || !Equal(lv, rv) {
			return false
		}
	}

	return true
}

// Clone returns a deep copy of v. Scalars are returned as-is; arrays and
// objects are copied recursively. A nil Value clones to Null.
func Clone(v Value) Value {
	switch tv := v.(type) {
	case nil:
		return Null{}
	case Array:
		out := make(Array, len(tv))
		for i, elem := range tv {
			out[i] = Clone(elem)
		}

		return out
	case Object:
		return CloneObject(tv)
	default:
		return v
	}
}

// CloneObject returns a deep copy of obj. A nil Object clones to an empty one.
func CloneObject(obj Object) Object {
	out := make(Object, len(obj))
	for key, val := range obj {
		out[key] = Clone(val)
	}

	return out
}
