package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
)

// FactorKind discriminates the variants of Factor.
type FactorKind uint8

const (
	FactorInteger FactorKind = iota + 1
	FactorFraction
	FactorFloat
)

func (k FactorKind) String() string {
	switch k {
	case FactorInteger:
		return "integer"
	case FactorFraction:
		return "fraction"
	case FactorFloat:
		return "float"
	default:
		return "unknown"
	}
}

// ErrInvalidFactor is returned when decoding a factor that is neither an
// unsigned integer nor a float.
var ErrInvalidFactor = errors.New("model: invalid factor")

// Factor is the exact numeric part of an Amount: an integer, a fraction or a
// float. Use Integer, Fraction and Float to build one.
type Factor struct {
	Kind        FactorKind
	Integer     uint32
	Numerator   uint16
	Denominator uint16
	Float       float32
}

// Integer returns an integer factor.
func Integer(v uint32) Factor {
	return Factor{Kind: FactorInteger, Integer: v}
}

// Fraction returns a fraction factor. Mixed numbers must already be folded
// into the numerator.
func Fraction(numerator, denominator uint16) Factor {
	return Factor{Kind: FactorFraction, Numerator: numerator, Denominator: denominator}
}

// Float returns a float factor.
func Float(v float32) Factor {
	return Factor{Kind: FactorFloat, Float: v}
}

// Value converts the factor to a float. A zero denominator yields +Inf or NaN
// the same way float division does.
func (f Factor) Value() float64 {
	switch f.Kind {
	case FactorInteger:
		return float64(f.Integer)
	case FactorFraction:
		return float64(float32(f.Numerator) / float32(f.Denominator))
	case FactorFloat:
		return float64(f.Float)
	default:
		return math.NaN()
	}
}

// Equal compares factors by value, so Fraction(1, 2) equals Float(0.5).
func (f Factor) Equal(other Factor) bool {
	return float32(f.Value()) == float32(other.Value())
}

// String renders the factor as a decimal number.
func (f Factor) String() string {
	switch f.Kind {
	case FactorInteger:
		return strconv.FormatUint(uint64(f.Integer), 10)
	case FactorFraction:
		return strconv.FormatFloat(float64(float32(f.Numerator)/float32(f.Denominator)), 'f', -1, 32)
	case FactorFloat:
		return strconv.FormatFloat(float64(f.Float), 'f', -1, 32)
	default:
		return ""
	}
}

// Display renders fractions as "n/d" and every other kind like String.
func (f Factor) Display() string {
	if f.Kind == FactorFraction {
		return fmt.Sprintf("%d/%d", f.Numerator, f.Denominator)
	}
	return f.String()
}

// MarshalJSON encodes the factor as a decimal string ("1", "0.5").
func (f Factor) MarshalJSON() ([]byte, error) {
	if f.Kind == 0 {
		return []byte("null"), nil
	}
	return json.Marshal(f.String())
}

// UnmarshalJSON accepts an integer string or a float string. Fractions do
// not survive the round trip; they come back as floats.
func (f *Factor) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFactor, err)
	}
	if v, err := strconv.ParseUint(raw, 10, 32); err == nil {
		*f = Integer(uint32(v))
		return nil
	}
	v, err := strconv.ParseFloat(raw, 32)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidFactor, raw)
	}
	*f = Float(float32(v))
	return nil
}
