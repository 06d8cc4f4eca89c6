package valueobject

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Weight is a non-negative mass in kilograms
// It is immutable - all operations return new Weight instances
type Weight struct {
	kg decimal.Decimal
}

// ErrNegativeWeight is returned when a weight below zero is supplied
var ErrNegativeWeight = errors.New("weight cannot be negative")

// ErrNonFiniteWeight is returned for NaN or infinite float weights
var ErrNonFiniteWeight = errors.New("weight must be a finite number")

// NewWeight creates a Weight from a decimal number of kilograms
func NewWeight(kg decimal.Decimal) (Weight, error) {
	if kg.IsNegative() {
		return Weight{}, ErrNegativeWeight
	}
	return Weight{kg: kg}, nil
}

// NewWeightFromFloat creates a Weight from a float64 number of kilograms.
// NaN and infinities are rejected before conversion.
func NewWeightFromFloat(kg float64) (Weight, error) {
	if math.IsNaN(kg) || math.IsInf(kg, 0) {
		return Weight{}, ErrNonFiniteWeight
	}
	return NewWeight(decimal.NewFromFloat(kg))
}

// NewWeightFromString creates a Weight from a string representation
func NewWeightFromString(kg string) (Weight, error) {
	d, err := decimal.NewFromString(kg)
	if err != nil {
		return Weight{}, fmt.Errorf("invalid weight string: %w", err)
	}
	return NewWeight(d)
}

// MustNewWeight creates a Weight, panics on error
func MustNewWeight(kg string) Weight {
	w, err := NewWeightFromString(kg)
	if err != nil {
		panic(err)
	}
	return w
}

// ZeroWeight returns a weight of 0 kg
func ZeroWeight() Weight {
	return Weight{kg: decimal.Zero}
}

// Kilograms returns the weight as a decimal number of kilograms
func (w Weight) Kilograms() decimal.Decimal {
	return w.kg
}

// Add returns the sum of two weights
func (w Weight) Add(other Weight) Weight {
	return Weight{kg: w.kg.Add(other.kg)}
}

// MultiplyByInt returns the weight multiplied by a non-negative count
func (w Weight) MultiplyByInt(n int64) Weight {
	if n < 0 {
		n = 0
	}
	return Weight{kg: w.kg.Mul(decimal.NewFromInt(n))}
}

// Equals returns true if both weights are equal
func (w Weight) Equals(other Weight) bool {
	return w.kg.Equal(other.kg)
}

// IsZero returns true for a zero weight
func (w Weight) IsZero() bool {
	return w.kg.IsZero()
}

// String returns the weight formatted in kilograms
func (w Weight) String() string {
	return w.kg.String() + "kg"
}

// Float64 returns the weight as a float64 (may lose precision)
func (w Weight) Float64() float64 {
	f, _ := w.kg.Float64()
	return f
}

// MarshalJSON implements json.Marshaler
func (w Weight) MarshalJSON() ([]byte, error) {
	return json.Marshal(w.kg.String())
}

// UnmarshalJSON implements json.Unmarshaler
func (w *Weight) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := json.Unmarshal(data, &d); err != nil {
		return fmt.Errorf("invalid weight: %w", err)
	}
	if d.IsNegative() {
		return ErrNegativeWeight
	}
	w.kg = d
	return nil
}
