// Package records reads and writes structural records as JSON or YAML.
//
// Both formats decode to the same structural.Object. JSON input is parsed
// directly so number literals keep their exact text. YAML is converted to
// JSON first, so YAML-only constructs such as anchors resolve before the
// record is parsed and map keys must be strings.
package records

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/devantler-tech/apidelta/pkg/structural"
	"sigs.k8s.io/yaml"
)

// Format names an output encoding.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ErrUnsupportedFormat is returned for an unknown format name.
var ErrUnsupportedFormat = errors.New("unsupported format")

// ParseFormat maps a user-supplied name to a Format. "yml" is accepted as YAML.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
}

// Decode parses a JSON or YAML document whose top level is an object.
func Decode(data []byte) (structural.Object, error) {
	jsonData := data

	if !json.Valid(data) {
		converted, err := yaml.YAMLToJSON(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse record: %w", err)
		}

		jsonData = converted
	}

	obj, err := structural.ParseObject(jsonData)
	if err != nil {
		return nil, fmt.Errorf("failed to parse record: %w", err)
	}

	return obj, nil
}

// Encode renders value in format. JSON output is indented when pretty is
// set and compact otherwise; YAML is always block style. Output ends with a
// newline.
func Encode(value structural.Value, format Format, pretty bool) ([]byte, error) {
	data, err := structural.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("failed to encode record: %w", err)
	}

	switch format {
	case FormatYAML:
		out, err := yaml.JSONToYAML(data)
		if err != nil {
			return nil, fmt.Errorf("failed to encode record as yaml: %w", err)
		}

		return out, nil
	case FormatJSON, "":
		if pretty {
			var indented bytes.Buffer

			err = json.Indent(&indented, data, "", "  ")
			if err != nil {
				return nil, fmt.Errorf("failed to indent record: %w", err)
			}

			data = indented.Bytes()
		}

		return append(data, '\n'), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// EncodeAny renders an arbitrary JSON-serialisable value in format.
func EncodeAny(value any, format Format, pretty bool) ([]byte, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("failed to encode value: %w", err)
	}

	converted, err := structural.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode value: %w", err)
	}

	return Encode(converted, format, pretty)
}
