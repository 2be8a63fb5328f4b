// Package validation checks user-entered strings such as emails, passwords
// and amounts before they are sent to an API.
package validation

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/asaskevich/govalidator"
)

var (
	emailPattern          = regexp.MustCompile(`^[a-zA-Z0-9._-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	passwordPattern       = regexp.MustCompile(`^[A-Za-z0-9!@#$%^&*()_+]{6,40}$`)
	decimalPlaces2Pattern = regexp.MustCompile(`^[0-9]+(\.[0-9]{1,2})?$`)
	onlyNumberPattern     = regexp.MustCompile(`^(?:[1-9]\d*|0)$`)
)

// Result is the outcome of a check: Success or Failure.
type Result interface {
	isResult()
}

// Success means the input passed.
type Success struct{}

// Failure means the input was rejected. Reason may be empty.
type Failure struct {
	Reason string
}

func (Success) isResult() {}
func (Failure) isResult() {}

// Error implements error so a Failure can be returned directly.
func (f Failure) Error() string {
	if f.Reason == "" {
		return "invalid input"
	}

	return f.Reason
}

// Valid reports whether result is a Success.
func Valid(result Result) bool {
	_, ok := result.(Success)

	return ok
}

// Range is an inclusive numeric bound.
type Range struct {
	Min float64
	Max float64
}

func match(input string, pattern *regexp.Regexp) Result {
	if !pattern.MatchString(input) {
		return Failure{}
	}

	return Success{}
}

// Email checks for a local part, an @, and a domain ending in a
// two-or-more letter label.
func Email(input string) Result {
	return match(input, emailPattern)
}

// Password accepts 6 to 40 letters, digits, or any of !@#$%^&*()_+.
func Password(input string) Result {
	return match(input, passwordPattern)
}

// NonEmpty rejects the empty string. Whitespace counts as content.
func NonEmpty(input string) Result {
	if govalidator.IsNull(input) {
		return Failure{}
	}

	return Success{}
}

// JSON checks that input is a single well-formed JSON document. The
// failure reason carries the parser message.
func JSON(input string) Result {
	var document any

	err := json.Unmarshal([]byte(input), &document)
	if err != nil {
		return Failure{Reason: err.Error()}
	}

	return Success{}
}

// DecimalPlaces2 accepts non-negative numbers with at most two decimal
// places, optionally inside bounds. Out-of-range input fails with the
// bounds as reason.
func DecimalPlaces2(input string, bounds *Range) Result {
	result := match(input, decimalPlaces2Pattern)
	if !Valid(result) || bounds == nil {
		return result
	}

	value, err := govalidator.ToFloat(input)
	if err != nil || !govalidator.InRangeFloat64(value, bounds.Min, bounds.Max) {
		return Failure{Reason: fmt.Sprintf("[ %v , %v ]", bounds.Min, bounds.Max)}
	}

	return Success{}
}

// OnlyNumber accepts "0" or a positive integer without leading zeros.
func OnlyNumber(input string) Result {
	return match(input, onlyNumberPattern)
}

// Digits keeps only the decimal digits of input.
func Digits(input string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}

		return -1
	}, input)
}

// DigitsOrZero is Digits, with "0" in place of an empty result.
func DigitsOrZero(input string) string {
	digits := Digits(input)
	if digits == "" {
		return "0"
	}

	return digits
}
