// Package finance implements the financial math engine.
//
// All functions are pure: they take plain float64 inputs, never perform I/O
// and are safe for concurrent use. Rates are fractional (0.05 means 5%)
// unless a function says otherwise.
package finance

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidArgument reports an input outside a function's domain.
var ErrInvalidArgument = errors.New("invalid argument")

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func requireFinite(name string, v float64) error {
	if !isFinite(v) {
		return invalidf("%s must be a finite number", name)
	}
	return nil
}

type named struct {
	name  string
	value float64
}

// requireAllFinite checks values in order and names the first bad one.
func requireAllFinite(values ...named) error {
	for _, v := range values {
		if err := requireFinite(v.name, v.value); err != nil {
			return err
		}
	}
	return nil
}

func requireFiniteResult(values ...float64) error {
	for _, v := range values {
		if !isFinite(v) {
			return invalidf("result is not a finite number")
		}
	}
	return nil
}
