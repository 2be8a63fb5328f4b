package structural

import (
	"encoding/json"
	"fmt"

	mapstructure "github.com/go-viper/mapstructure/v2"
)

// Encoder is implemented by record types that can describe themselves as an Object.
type Encoder interface {
	EncodeStructural() (Object, error)
}

// Decoder is implemented by record types that can populate themselves from an Object.
type Decoder interface {
	DecodeStructural(obj Object) error
}

// Encode converts a record into an Object. Encoders are asked directly; any
// other value is run through its JSON representation, so json struct tags
// decide the field names.
func Encode(record any) (Object, error) {
	if enc, ok := record.(Encoder); ok {
		obj, err := enc.EncodeStructural()
		if err != nil {
			return nil, fmt.Errorf("encode record: %w", err)
		}

		return obj, nil
	}

	if obj, ok := record.(Object); ok {
		return obj, nil
	}

	data, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}

	return ParseObject(data)
}

// Decode populates out from obj. Decoders are asked directly; otherwise the
// object is decoded with mapstructure using json tag names.
func Decode(obj Object, out any) error {
	if dec, ok := out.(Decoder); ok {
		err := dec.DecodeStructural(obj)
		if err != nil {
			return fmt.Errorf("decode record: %w", err)
		}

		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  out,
	})
	if err != nil {
		return fmt.Errorf("create decoder: %w", err)
	}

	err = decoder.Decode(ToAny(obj))
	if err != nil {
		return fmt.Errorf("decode record: %w", err)
	}

	return nil
}
