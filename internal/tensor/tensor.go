package tensor

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Tensor is an immutable row-major view of flat float64 values with an
// explicit shape.
type Tensor struct {
	shape   Shape
	strides []int
	data    []float64
}

// New copies data into a tensor of the given shape. The element count must
// match shape.Size().
func New(shape Shape, data []float64) (Tensor, error) {
	if err := shape.Validate(); err != nil {
		return Tensor{}, err
	}
	if len(data) != shape.Size() {
		return Tensor{}, &TensorError{
			Message: fmt.Sprintf("%d values cannot fill shape %s (%d)", len(data), shape, shape.Size()),
			Cause:   ErrCauseShapeMismatch,
		}
	}
	buf := make([]float64, len(data))
	copy(buf, data)
	return Tensor{
		shape:   shape.clone(),
		strides: shape.strides(),
		data:    buf,
	}, nil
}

// Flat builds a 1-D tensor. An empty slice is allowed and yields a tensor
// with shape (0).
func Flat(data []float64) Tensor {
	buf := make([]float64, len(data))
	copy(buf, data)
	return Tensor{
		shape:   Shape{len(data)},
		strides: []int{1},
		data:    buf,
	}
}

func (t Tensor) Shape() Shape {
	return t.shape.clone()
}

func (t Tensor) Len() int {
	return len(t.data)
}

// Data returns a copy of the flat values in row-major order.
func (t Tensor) Data() []float64 {
	out := make([]float64, len(t.data))
	copy(out, t.data)
	return out
}

// Reshape returns a tensor over the same values with a new shape.
func (t Tensor) Reshape(shape Shape) (Tensor, error) {
	return New(shape, t.data)
}

// At returns the element at the given index. It panics if the number of
// indices differs from the rank or any index is out of range.
func (t Tensor) At(idx ...int) float64 {
	off, err := t.offset(idx)
	if err != nil {
		panic(err)
	}
	return t.data[off]
}

func (t Tensor) offset(idx []int) (int, error) {
	if len(idx) != len(t.shape) {
		return 0, &TensorError{
			Message: fmt.Sprintf("got %d indices for rank %d", len(idx), len(t.shape)),
			Cause:   ErrCauseIndexRange,
		}
	}
	off := 0
	for i, v := range idx {
		if v < 0 || v >= t.shape[i] {
			return 0, &TensorError{
				Message: fmt.Sprintf("index %d is %d, dimension is %d", i, v, t.shape[i]),
				Cause:   ErrCauseIndexRange,
			}
		}
		off += v * t.strides[i]
	}
	return off, nil
}

// Plane returns the trailing two dimensions selected by the leading
// indices as a matrix, e.g. one 8x8 channel of one batch item of a
// (4, 3, 8, 8) tensor. The matrix owns a copy of the values.
func (t Tensor) Plane(leading ...int) (*mat.Dense, error) {
	rank := len(t.shape)
	if rank < 2 {
		return nil, &TensorError{
			Message: fmt.Sprintf("plane needs rank >= 2, got %d", rank),
			Cause:   ErrCauseRankTooLow,
		}
	}
	idx := append(append([]int{}, leading...), 0, 0)
	off, err := t.offset(idx)
	if err != nil {
		return nil, err
	}
	rows, cols := t.shape[rank-2], t.shape[rank-1]
	buf := make([]float64, rows*cols)
	copy(buf, t.data[off:off+rows*cols])
	return mat.NewDense(rows, cols, buf), nil
}

// ApproxEqual reports whether other has the same shape and every element is
// within tol of its counterpart, absolutely or relatively.
func (t Tensor) ApproxEqual(other Tensor, tol float64) bool {
	if !t.shape.Equal(other.shape) {
		return false
	}
	return floats.EqualApprox(t.data, other.data, tol)
}

type Summary struct {
	Count  int
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64
}

// Summary describes the value distribution. An empty tensor yields a zero
// Summary.
func (t Tensor) Summary() Summary {
	if len(t.data) == 0 {
		return Summary{}
	}
	mean, std := stat.MeanStdDev(t.data, nil)
	if len(t.data) == 1 {
		std = 0
	}
	return Summary{
		Count:  len(t.data),
		Min:    floats.Min(t.data),
		Max:    floats.Max(t.data),
		Mean:   mean,
		StdDev: std,
	}
}
