// internal/decode/scale.go
package decode

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// ScaleFactor is a rational divisor applied after decoding.
// The zero value divides by 1.
type ScaleFactor struct {
	div *big.Rat
}

// ParseScale accepts "", "10000", "0.5" or "1/3".
func ParseScale(s string) (ScaleFactor, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ScaleFactor{}, nil
	}
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return ScaleFactor{}, fmt.Errorf("decode: invalid scale %q", s)
	}
	if r.Sign() == 0 {
		return ScaleFactor{}, errors.New("decode: scale divisor must not be zero")
	}
	return ScaleFactor{div: r}, nil
}

// Divisor returns the divisor as a float (1 for the zero value).
func (s ScaleFactor) Divisor() float64 {
	if s.div == nil {
		return 1
	}
	f, _ := s.div.Float64()
	return f
}

func (s ScaleFactor) String() string {
	if s.div == nil {
		return "1"
	}
	return s.div.RatString()
}

// Apply returns v / divisor. Finite values are divided exactly and rounded once.
func (s ScaleFactor) Apply(v float64) float64 {
	if s.div == nil {
		return v
	}
	r := new(big.Rat)
	if r.SetFloat64(v) == nil {
		// NaN or Inf
		return v / s.Divisor()
	}
	f, _ := r.Quo(r, s.div).Float64()
	return f
}
