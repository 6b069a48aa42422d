package ops

import (
	"fmt"

	"github.com/flint-ml/flint/internal/tensor"
)

// reduceBroadcast reduces a gradient tensor to match the target input shape.
// Needed when the forward pass broadcast the input: the gradient must be
// summed along every broadcast dimension.
//
// Example:
//
//	Forward: a[3,1] + b[3,4] -> c[3,4]
//	Backward: grad_c[3,4] -> grad_a[3,1] (sum along dim 1)
func reduceBroadcast(grad *tensor.RawTensor, targetShape tensor.Shape, backend tensor.Backend) *tensor.RawTensor {
	gradShape := grad.Shape()

	// Clone on matching shapes so inplace forward ops cannot alias gradients.
	if gradShape.Equal(targetShape) {
		return grad.Clone()
	}

	if len(targetShape) == 0 {
		return sumAll(grad)
	}

	// Broadcasting aligns shapes from the right: leading extra dimensions
	// are summed away, then dimensions where the target is 1.
	result := grad
	for len(result.Shape()) > len(targetShape) {
		result = sumAlongDimension(result, 0, false)
	}

	for i := 0; i < len(targetShape); i++ {
		if targetShape[i] == 1 && result.Shape()[i] > 1 {
			result = sumAlongDimension(result, i, true)
		}
	}

	if !result.Shape().Equal(targetShape) {
		result = backend.Reshape(result, targetShape)
	}

	return result
}

// sumAll sums all elements of a tensor into a 0-dimensional tensor.
func sumAll(t *tensor.RawTensor) *tensor.RawTensor {
	result, err := tensor.NewRaw(tensor.Shape{}, t.DType(), t.Device())
	if err != nil {
		panic(fmt.Sprintf("sumAll: %v", err))
	}

	switch t.DType() {
	case tensor.Float32:
		var sum float32
		for _, v := range t.AsFloat32() {
			sum += v
		}
		result.AsFloat32()[0] = sum
	case tensor.Float64:
		var sum float64
		for _, v := range t.AsFloat64() {
			sum += v
		}
		result.AsFloat64()[0] = sum
	default:
		panic(fmt.Sprintf("sumAll: unsupported dtype %s", t.DType()))
	}

	return result
}

// sumAlongDimension sums a tensor along dim. When keepDim is true the summed
// dimension stays in the shape with size 1, otherwise it is removed.
func sumAlongDimension(t *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	shape := t.Shape()
	if dim < 0 || dim >= len(shape) {
		panic(fmt.Sprintf("sumAlongDimension: invalid dimension %d for shape %v", dim, shape))
	}

	outShape := make(tensor.Shape, 0, len(shape))
	for d, s := range shape {
		if d == dim {
			if keepDim {
				outShape = append(outShape, 1)
			}
			continue
		}
		outShape = append(outShape, s)
	}

	result, err := tensor.NewRaw(outShape, t.DType(), t.Device())
	if err != nil {
		panic(fmt.Sprintf("sumAlongDimension: %v", err))
	}

	// Row-major layout decomposes as [outer, shape[dim], inner].
	inner := 1
	for d := dim + 1; d < len(shape); d++ {
		inner *= shape[d]
	}
	outer := shape.NumElements() / (shape[dim] * inner)

	switch t.DType() {
	case tensor.Float32:
		sumBlocks(t.AsFloat32(), result.AsFloat32(), outer, shape[dim], inner)
	case tensor.Float64:
		sumBlocks(t.AsFloat64(), result.AsFloat64(), outer, shape[dim], inner)
	default:
		panic(fmt.Sprintf("sumAlongDimension: unsupported dtype %s", t.DType()))
	}

	return result
}

func sumBlocks[T float32 | float64](src, dst []T, outer, n, inner int) {
	for i := range dst {
		dst[i] = 0
	}
	for o := 0; o < outer; o++ {
		base := o * n * inner
		for k := 0; k < n; k++ {
			row := base + k*inner
			out := o * inner
			for j := 0; j < inner; j++ {
				dst[out+j] += src[row+j]
			}
		}
	}
}

// negate returns -grad.
func negate(grad *tensor.RawTensor, backend tensor.Backend) *tensor.RawTensor {
	switch grad.DType() {
	case tensor.Float32:
		return backend.MulScalar(grad, float32(-1))
	case tensor.Float64:
		return backend.MulScalar(grad, float64(-1))
	default:
		panic(fmt.Sprintf("negate: unsupported dtype %s", grad.DType()))
	}
}

// scalarOf converts a float64 value to the scalar type matching the dtype.
func scalarOf(dtype tensor.DataType, v float64) any {
	switch dtype {
	case tensor.Float32:
		return float32(v)
	case tensor.Float64:
		return v
	default:
		panic(fmt.Sprintf("scalarOf: unsupported dtype %s", dtype))
	}
}

// zerosLike returns a zero-filled tensor with the same shape and dtype as t.
func zerosLike(t *tensor.RawTensor) *tensor.RawTensor {
	result, err := tensor.NewRaw(t.Shape(), t.DType(), t.Device())
	if err != nil {
		panic(fmt.Sprintf("zerosLike: %v", err))
	}
	return result
}
