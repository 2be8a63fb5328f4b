package structural

import (
	"fmt"
	"math/big"
	"regexp"
	"strconv"
	"strings"
)

// maxExactExponent bounds the exponent ParseNumber's exact comparison will
// expand. Literals beyond it only compare equal to the identical text.
const maxExactExponent = 1024

//nolint:gochecknoglobals // compiled once, read-only
var numberLiteral = regexp.MustCompile(`^-?(?:0|[1-9]\d*)(?:\.\d+)?(?:[eE][+-]?\d+)?$`)

// ParseNumber validates text as a JSON number literal and returns it as a
// Number without rounding.
func ParseNumber(text string) (Number, error) {
	if !numberLiteral.MatchString(text) {
		return "", fmt.Errorf("%w: %q", ErrInvalidNumber, text)
	}

	return Number(text), nil
}

// Int64 returns n as an int64 when the literal is an integer in range.
func (n Number) Int64() (int64, error) {
	i, err := strconv.ParseInt(string(n), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("number %q: %w", string(n), err)
	}

	return i, nil
}

// Float64 returns the nearest float64 to n.
func (n Number) Float64() (float64, error) {
	f, err := strconv.ParseFloat(string(n), 64)
	if err != nil {
		return 0, fmt.Errorf("number %q: %w", string(n), err)
	}

	return f, nil
}

// Equal reports whether n and other denote the same value. Literals are
// compared as exact rationals, falling back to text equality when either
// cannot be expanded.
func (n Number) Equal(other Number) bool {
	if n == other {
		return true
	}

	left, ok := n.rat()
	if !ok {
		return false
	}

	right, ok := other.rat()
	if !ok {
		return false
	}

	return left.Cmp(right) == 0
}

// MarshalJSON emits the literal unchanged.
func (n Number) MarshalJSON() ([]byte, error) {
	if n == "" {
		return []byte("0"), nil
	}

	if !numberLiteral.MatchString(string(n)) {
		return nil, wrapMarshal(fmt.Errorf("%w: %q", ErrInvalidNumber, string(n)))
	}

	return []byte(n), nil
}

func (n Number) rat() (*big.Rat, bool) {
	text := string(n)
	if !numberLiteral.MatchString(text) {
		return nil, false
	}

	if idx := strings.IndexAny(text, "eE"); idx >= 0 {
		exp, err := strconv.Atoi(text[idx+1:])
		if err != nil || exp > maxExactExponent || exp < -maxExactExponent {
			return nil, false
		}
	}

	r, ok := new(big.Rat).SetString(text)

	return r, ok
}
