package money

import (
	"errors"
	"math"
)

var ErrNegativeAmount = errors.New("money cannot be negative")

// Money is an amount in minor currency units.
type Money struct {
	minor int64
}

func New(minor int64) Money {
	return Money{minor: minor}
}

func FromMajor(major float64) (Money, error) {
	if major < 0 || math.IsNaN(major) || math.IsInf(major, 0) {
		return Money{}, ErrNegativeAmount
	}
	return Money{minor: int64(math.Round(major * 100))}, nil
}

func MustFromMajor(major float64) Money {
	m, err := FromMajor(major)
	if err != nil {
		panic(err)
	}
	return m
}

func (m Money) Minor() int64 {
	return m.minor
}

func (m Money) Major() float64 {
	return float64(m.minor) / 100.0
}

func (m Money) Add(other Money) Money {
	return Money{minor: m.minor + other.minor}
}

func (m Money) Times(n int) Money {
	return Money{minor: m.minor * int64(n)}
}

func (m Money) IsZero() bool {
	return m.minor == 0
}
