package tensor

import (
	"fmt"
	"strconv"
	"strings"
)

// Shape lists the extent of each dimension, outermost first.
type Shape []int

func (s Shape) Rank() int {
	return len(s)
}

// Size is the number of elements a tensor of this shape holds.
func (s Shape) Size() int {
	if len(s) == 0 {
		return 0
	}
	n := 1
	for _, d := range s {
		n *= d
	}
	return n
}

func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// String renders the shape the way the fixtures describe it, e.g. "(4, 3, 8, 8)".
func (s Shape) String() string {
	parts := make([]string, len(s))
	for i, d := range s {
		parts[i] = strconv.Itoa(d)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Validate rejects empty shapes and non-positive dimensions.
func (s Shape) Validate() error {
	if len(s) == 0 {
		return &TensorError{Message: "shape has no dimensions", Cause: ErrCauseInvalidShape}
	}
	for i, d := range s {
		if d <= 0 {
			return &TensorError{
				Message: fmt.Sprintf("dimension %d is %d in %s", i, d, s),
				Cause:   ErrCauseInvalidShape,
			}
		}
	}
	return nil
}

func (s Shape) clone() Shape {
	out := make(Shape, len(s))
	copy(out, s)
	return out
}

// strides returns row-major strides.
func (s Shape) strides() []int {
	st := make([]int, len(s))
	acc := 1
	for i := len(s) - 1; i >= 0; i-- {
		st[i] = acc
		acc *= s[i]
	}
	return st
}
