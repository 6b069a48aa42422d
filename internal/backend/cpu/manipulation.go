package cpu

import (
	"fmt"

	"github.com/flint-ml/flint/internal/tensor"
)

// Reshape returns a tensor with the same data but a different shape.
func (cpu *CPUBackend) Reshape(t *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	if err := newShape.Validate(); err != nil {
		panic(fmt.Sprintf("reshape: invalid shape: %v", err))
	}

	if t.NumElements() != newShape.NumElements() {
		panic(fmt.Sprintf("reshape: incompatible shapes: %v -> %v (different number of elements)",
			t.Shape(), newShape))
	}

	result, err := tensor.NewRaw(newShape, t.DType(), t.Device())
	if err != nil {
		panic(fmt.Sprintf("reshape: %v", err))
	}

	copy(result.Data(), t.Data())
	return result
}

// Transpose permutes the tensor's dimensions.
// With no axes, all dimensions are reversed.
func (cpu *CPUBackend) Transpose(t *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	shape := t.Shape()
	ndim := len(shape)

	if len(axes) == 0 {
		axes = make([]int, ndim)
		for i := range axes {
			axes[i] = ndim - 1 - i
		}
	}

	if len(axes) != ndim {
		panic(fmt.Sprintf("transpose: axes length %d != ndim %d", len(axes), ndim))
	}
	seen := make([]bool, ndim)
	for _, ax := range axes {
		if ax < 0 || ax >= ndim {
			panic(fmt.Sprintf("transpose: invalid axis %d for %dD tensor", ax, ndim))
		}
		if seen[ax] {
			panic(fmt.Sprintf("transpose: duplicate axis %d", ax))
		}
		seen[ax] = true
	}

	newShape := make(tensor.Shape, ndim)
	for i, ax := range axes {
		newShape[i] = shape[ax]
	}

	result, err := tensor.NewRaw(newShape, t.DType(), t.Device())
	if err != nil {
		panic(fmt.Sprintf("transpose: %v", err))
	}

	// Strided copy, dtype-agnostic: for each output element, locate the
	// source element by permuting the multi-index.
	es := t.DType().Size()
	srcStrides := t.Strides()
	src := t.Data()
	dst := result.Data()

	idx := make([]int, ndim)
	srcOff := 0
	n := result.NumElements()
	for i := 0; i < n; i++ {
		copy(dst[i*es:(i+1)*es], src[srcOff*es:(srcOff+1)*es])

		for d := ndim - 1; d >= 0; d-- {
			idx[d]++
			srcOff += srcStrides[axes[d]]
			if idx[d] < newShape[d] {
				break
			}
			idx[d] = 0
			srcOff -= srcStrides[axes[d]] * newShape[d]
		}
	}

	return result
}

// Split divides the tensor along dim into parts of the given sizes.
// The sizes must sum to the dimension's length.
// Supports negative dim indexing (-1 = last dimension).
func (cpu *CPUBackend) Split(x *tensor.RawTensor, sizes []int, dim int) []*tensor.RawTensor {
	shape := x.Shape()
	ndim := len(shape)

	if dim < 0 {
		dim = ndim + dim
	}
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("split: dimension %d out of range for %dD tensor", dim, ndim))
	}
	if len(sizes) == 0 {
		panic("split: at least one size required")
	}

	total := 0
	for i, s := range sizes {
		if s <= 0 {
			panic(fmt.Sprintf("split: size %d at index %d must be positive", s, i))
		}
		total += s
	}
	if total != shape[dim] {
		panic(fmt.Sprintf("split: sizes %v sum to %d, dimension %d has size %d", sizes, total, dim, shape[dim]))
	}

	// Row-major layout: the tensor is `outer` contiguous blocks, each covering
	// the split dimension; each part takes a contiguous span of every block.
	es := x.DType().Size()
	inner := 1
	for d := dim + 1; d < ndim; d++ {
		inner *= shape[d]
	}
	outer := x.NumElements() / (shape[dim] * inner)
	blockBytes := shape[dim] * inner * es

	results := make([]*tensor.RawTensor, len(sizes))
	offset := 0
	for i, size := range sizes {
		partShape := shape.Clone()
		partShape[dim] = size

		part, err := tensor.NewRaw(partShape, x.DType(), cpu.device)
		if err != nil {
			panic(fmt.Sprintf("split: %v", err))
		}

		spanBytes := size * inner * es
		src := x.Data()
		dst := part.Data()
		for o := 0; o < outer; o++ {
			from := o*blockBytes + offset
			copy(dst[o*spanBytes:(o+1)*spanBytes], src[from:from+spanBytes])
		}

		results[i] = part
		offset += spanBytes
	}

	return results
}

// Cat concatenates tensors along the specified dimension.
// All tensors must share dtype and shape except along dim.
// Supports negative dim indexing (-1 = last dimension).
func (cpu *CPUBackend) Cat(tensors []*tensor.RawTensor, dim int) *tensor.RawTensor {
	if len(tensors) == 0 {
		panic("cat: at least one tensor required")
	}

	shape := tensors[0].Shape()
	ndim := len(shape)
	dtype := tensors[0].DType()

	if dim < 0 {
		dim = ndim + dim
	}
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("cat: dimension %d out of range for %dD tensor", dim, ndim))
	}

	totalDim := 0
	for i, t := range tensors {
		tShape := t.Shape()
		if len(tShape) != ndim {
			panic(fmt.Sprintf("cat: tensor %d has %d dimensions, expected %d", i, len(tShape), ndim))
		}
		if t.DType() != dtype {
			panic(fmt.Sprintf("cat: tensor %d has dtype %s, expected %s", i, t.DType(), dtype))
		}
		for d := 0; d < ndim; d++ {
			if d == dim {
				totalDim += tShape[d]
			} else if tShape[d] != shape[d] {
				panic(fmt.Sprintf("cat: tensor %d dimension %d is %d, expected %d", i, d, tShape[d], shape[d]))
			}
		}
	}

	outShape := shape.Clone()
	outShape[dim] = totalDim

	result, err := tensor.NewRaw(outShape, dtype, cpu.device)
	if err != nil {
		panic(fmt.Sprintf("cat: %v", err))
	}

	es := dtype.Size()
	inner := 1
	for d := dim + 1; d < ndim; d++ {
		inner *= shape[d]
	}
	outer := result.NumElements() / (totalDim * inner)
	outBlockBytes := totalDim * inner * es

	dst := result.Data()
	offset := 0
	for _, t := range tensors {
		spanBytes := t.Shape()[dim] * inner * es
		src := t.Data()
		for o := 0; o < outer; o++ {
			to := o*outBlockBytes + offset
			copy(dst[to:to+spanBytes], src[o*spanBytes:(o+1)*spanBytes])
		}
		offset += spanBytes
	}

	return result
}
