package tensor

// Split divides the tensor along the specified dimension into parts of the
// given sizes. The sizes must sum to the dimension's length.
// Supports negative dim indexing (-1 = last dimension).
//
// Example:
//
//	x := tensor.Randn[float32](Shape{2, 3, 80}, backend)
//	parts := x.Split([]int{16, 64}, -1) // shapes [2, 3, 16] and [2, 3, 64]
func (t *Tensor[T, B]) Split(sizes []int, dim int) []*Tensor[T, B] {
	rawParts := t.backend.Split(t.raw, sizes, dim)
	parts := make([]*Tensor[T, B], len(rawParts))
	for i, raw := range rawParts {
		parts[i] = New[T, B](raw, t.backend)
	}
	return parts
}

// Chunk splits the tensor into n equal parts along the specified dimension.
// The dimension size must be divisible by n.
func (t *Tensor[T, B]) Chunk(n, dim int) []*Tensor[T, B] {
	shape := t.Shape()
	d := dim
	if d < 0 {
		d += len(shape)
	}
	if d < 0 || d >= len(shape) {
		panic("chunk: dimension out of range")
	}
	if n <= 0 || shape[d]%n != 0 {
		panic("chunk: dimension size not divisible by n")
	}
	sizes := make([]int, n)
	for i := range sizes {
		sizes[i] = shape[d] / n
	}
	return t.Split(sizes, dim)
}

// Cat concatenates tensors along the specified dimension.
//
// All tensors must have the same shape except along the concatenation dimension.
// Supports negative dim indexing (-1 = last dimension).
func Cat[T DType, B Backend](tensors []*Tensor[T, B], dim int) *Tensor[T, B] {
	if len(tensors) == 0 {
		panic("cat: at least one tensor required")
	}
	if len(tensors) == 1 {
		return tensors[0].Clone()
	}

	rawTensors := make([]*RawTensor, len(tensors))
	backend := tensors[0].backend
	for i, t := range tensors {
		rawTensors[i] = t.raw
	}

	return New[T, B](backend.Cat(rawTensors, dim), backend)
}
