// Package money holds the integer minor-unit helpers shared by the ledgers.
// Every amount in the system is an int64 count of cents; floats only appear at
// the JSON boundary and are truncated on the way in.
package money

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Coerce truncates f toward zero. NaN and ±Inf coerce to 0.
func Coerce(f float64) int64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	if f >= math.MaxInt64 || f <= math.MinInt64 {
		return 0
	}
	return int64(f)
}

// Max0 floors n at zero.
func Max0(n int64) int64 {
	if n < 0 {
		return 0
	}
	return n
}

// SubClamped returns a-b floored at zero.
func SubClamped(a, b int64) int64 {
	return Max0(a - b)
}

// FromPesos converts free-text pesos ("1500", "1500,50", "1500.5") to cents,
// rounding half away from zero. Unparseable input yields 0.
func FromPesos(s string) int64 {
	s = strings.TrimSpace(strings.Replace(s, ",", ".", 1))
	if s == "" {
		return 0
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	return d.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// Format renders cents as "$1500.50".
func Format(cents int64) string {
	return "$" + decimal.New(cents, -2).StringFixed(2)
}

// Int is an integer amount decoded leniently from JSON: numbers are truncated,
// numeric strings are parsed, null and garbage become 0.
type Int int64

func (n Int) Int64() int64 { return int64(n) }

func (n *Int) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*n = 0
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			*n = 0
			return nil
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			*n = 0
			return nil
		}
		*n = Int(Coerce(f))
		return nil
	}
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		*n = 0
		return nil
	}
	*n = Int(Coerce(f))
	return nil
}

// Pesos is a peso amount typed by an operator, accepted as a JSON number or
// string ("1500", "1500,50"). Cents converts it with FromPesos.
type Pesos string

func (p Pesos) Cents() int64 { return FromPesos(string(p)) }

func (p *Pesos) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*p = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			*p = ""
			return nil
		}
		*p = Pesos(s)
		return nil
	}
	*p = Pesos(b)
	return nil
}
