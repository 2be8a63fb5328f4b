package api

import (
	"net/url"
	"strconv"

	"github.com/devantler-tech/apidelta/pkg/structural"
)

// QueryParams flattens an encoded payload into query parameters. Scalars
// become a single value, arrays repeat the key once per element, and nulls
// are omitted. Objects, and arrays nested inside arrays, are sent as compact
// JSON text.
func QueryParams(payload structural.Object) url.Values {
	params := url.Values{}

	for _, key := range payload.Keys() {
		value := payload[key]

		if items, ok := value.(structural.Array); ok {
			for _, item := range items {
				if text, present := queryValue(item); present {
					params.Add(key, text)
				}
			}

			continue
		}

		if text, present := queryValue(value); present {
			params.Add(key, text)
		}
	}

	return params
}

func queryValue(value structural.Value) (string, bool) {
	switch typed := value.(type) {
	case nil, structural.Null:
		return "", false
	case structural.String:
		return string(typed), true
	case structural.Bool:
		return strconv.FormatBool(bool(typed)), true
	case structural.Number:
		return string(typed), true
	default:
		encoded, err := structural.Marshal(value)
		if err != nil {
			return "", false
		}

		return string(encoded), true
	}
}
