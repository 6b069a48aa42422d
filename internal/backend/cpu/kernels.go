package cpu

import "github.com/flint-ml/flint/internal/tensor"

// kernels bundles the per-dtype implementations of a binary operation.
type kernels struct {
	f32 func(float32, float32) float32
	f64 func(float64, float64) float64
	i32 func(int32, int32) int32
	i64 func(int64, int64) int64
}

// inplaceEW applies f into dst for equally-shaped operands.
func inplaceEW[T any](dst, b []T, f func(T, T) T) {
	for i := range dst {
		dst[i] = f(dst[i], b[i])
	}
}

// binaryEW applies f element-wise with broadcasting.
// Shapes must already be broadcast-compatible (checked by the caller).
func binaryEW[T, R any](dst []R, a, b []T, aShape, bShape, outShape tensor.Shape, f func(T, T) R) {
	if aShape.Equal(bShape) {
		for i := range dst {
			dst[i] = f(a[i], b[i])
		}
		return
	}

	aStrides := broadcastStrides(aShape, outShape)
	bStrides := broadcastStrides(bShape, outShape)

	idx := make([]int, len(outShape))
	aOff, bOff := 0, 0
	for i := range dst {
		dst[i] = f(a[aOff], b[bOff])

		// Advance the multi-index, rightmost dimension first.
		for d := len(outShape) - 1; d >= 0; d-- {
			idx[d]++
			aOff += aStrides[d]
			bOff += bStrides[d]
			if idx[d] < outShape[d] {
				break
			}
			idx[d] = 0
			aOff -= aStrides[d] * outShape[d]
			bOff -= bStrides[d] * outShape[d]
		}
	}
}

// broadcastStrides computes the strides of shape viewed as outShape,
// with stride 0 in broadcast dimensions.
func broadcastStrides(shape, outShape tensor.Shape) []int {
	strides := shape.ComputeStrides()
	out := make([]int, len(outShape))
	offset := len(outShape) - len(shape)
	for i := range outShape {
		src := i - offset
		if src < 0 || shape[src] == 1 && outShape[i] != 1 {
			out[i] = 0
		} else {
			out[i] = strides[src]
		}
	}
	return out
}

// unaryEW applies f element-wise into a fresh slice of the same length.
func unaryEW[T, R any](dst []R, src []T, f func(T) R) {
	for i := range src {
		dst[i] = f(src[i])
	}
}
