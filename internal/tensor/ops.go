package tensor

// Add performs element-wise addition with broadcasting.
//
// Example:
//
//	a := tensor.Ones[float32](Shape{3, 1}, backend)
//	b := tensor.Ones[float32](Shape{3, 5}, backend)
//	c := a.Add(b) // Shape: [3, 5] (broadcasted)
func (t *Tensor[T, B]) Add(other *Tensor[T, B]) *Tensor[T, B] {
	return New[T, B](t.backend.Add(t.raw, other.raw), t.backend)
}

// Sub performs element-wise subtraction with broadcasting.
func (t *Tensor[T, B]) Sub(other *Tensor[T, B]) *Tensor[T, B] {
	return New[T, B](t.backend.Sub(t.raw, other.raw), t.backend)
}

// Mul performs element-wise multiplication with broadcasting.
func (t *Tensor[T, B]) Mul(other *Tensor[T, B]) *Tensor[T, B] {
	return New[T, B](t.backend.Mul(t.raw, other.raw), t.backend)
}

// Div performs element-wise division with broadcasting.
func (t *Tensor[T, B]) Div(other *Tensor[T, B]) *Tensor[T, B] {
	return New[T, B](t.backend.Div(t.raw, other.raw), t.backend)
}

// AddScalar adds a scalar value to each element of the tensor.
func (t *Tensor[T, B]) AddScalar(scalar T) *Tensor[T, B] {
	return New[T, B](t.backend.AddScalar(t.raw, scalar), t.backend)
}

// SubScalar subtracts a scalar value from each element of the tensor.
func (t *Tensor[T, B]) SubScalar(scalar T) *Tensor[T, B] {
	return New[T, B](t.backend.SubScalar(t.raw, scalar), t.backend)
}

// MulScalar multiplies each element of the tensor by a scalar value.
func (t *Tensor[T, B]) MulScalar(scalar T) *Tensor[T, B] {
	return New[T, B](t.backend.MulScalar(t.raw, scalar), t.backend)
}

// DivScalar divides each element of the tensor by a scalar value.
func (t *Tensor[T, B]) DivScalar(scalar T) *Tensor[T, B] {
	return New[T, B](t.backend.DivScalar(t.raw, scalar), t.backend)
}

// PowScalar raises each element of the tensor to the given power.
//
// Example:
//
//	x := tensor.Full[float32](Shape{3}, 2.0, backend)
//	y := x.PowScalar(3) // [8, 8, 8]
func (t *Tensor[T, B]) PowScalar(power float64) *Tensor[T, B] {
	return New[T, B](t.backend.PowScalar(t.raw, power), t.backend)
}

// Exp computes the exponential (e^x) of each element.
func (t *Tensor[T, B]) Exp() *Tensor[T, B] {
	return New[T, B](t.backend.Exp(t.raw), t.backend)
}

// Log computes the natural logarithm of each element.
// Log of zero yields -Inf; negative input is a domain error.
func (t *Tensor[T, B]) Log() *Tensor[T, B] {
	return New[T, B](t.backend.Log(t.raw), t.backend)
}

// Log1p computes log(1+x) for each element, accurate for x near zero.
func (t *Tensor[T, B]) Log1p() *Tensor[T, B] {
	return New[T, B](t.backend.Log1p(t.raw), t.backend)
}

// Floor rounds each element toward negative infinity.
func (t *Tensor[T, B]) Floor() *Tensor[T, B] {
	return New[T, B](t.backend.Floor(t.raw), t.backend)
}

// Sqrt computes the square root of each element.
func (t *Tensor[T, B]) Sqrt() *Tensor[T, B] {
	return New[T, B](t.backend.Sqrt(t.raw), t.backend)
}

// Neg returns the element-wise negation of the tensor.
func (t *Tensor[T, B]) Neg() *Tensor[T, B] {
	return New[T, B](t.backend.MulScalar(t.raw, negOne(t.raw.DType())), t.backend)
}

func negOne(dtype DataType) any {
	switch dtype {
	case Float32:
		return float32(-1)
	case Float64:
		return float64(-1)
	case Int32:
		return int32(-1)
	case Int64:
		return int64(-1)
	default:
		panic("neg: unsupported dtype " + dtype.String())
	}
}

// Reshape returns a tensor with the same data but a different shape.
// One dimension may be -1, in which case it is inferred from the element count.
//
// Example:
//
//	t := tensor.Arange[int32](0, 12, backend) // Shape: [12]
//	reshaped := t.Reshape(3, -1)              // Shape: [3, 4]
func (t *Tensor[T, B]) Reshape(newShape ...int) *Tensor[T, B] {
	resolved, err := ResolveReshape(t.NumElements(), Shape(newShape))
	if err != nil {
		panic(err.Error())
	}
	return New[T, B](t.backend.Reshape(t.raw, resolved), t.backend)
}

// Transpose transposes the tensor by permuting its dimensions.
//
// If axes is empty, reverses all dimensions (for 2D, this is standard transpose).
// Otherwise, axes specifies the permutation.
//
// Example:
//
//	t := tensor.Randn[float32](Shape{2, 3, 4}, backend)
//	transposed := t.Transpose(2, 0, 1) // Shape: [4, 2, 3]
func (t *Tensor[T, B]) Transpose(axes ...int) *Tensor[T, B] {
	return New[T, B](t.backend.Transpose(t.raw, axes...), t.backend)
}

// T is a shortcut for 2D transpose (swaps rows and columns).
// Panics if the tensor is not 2D.
func (t *Tensor[T, B]) T() *Tensor[T, B] {
	if len(t.Shape()) != 2 {
		panic("T() only works for 2D tensors")
	}
	return t.Transpose(1, 0)
}

// Greater returns a boolean tensor where each element reports a > b.
// Supports broadcasting.
func (t *Tensor[T, B]) Greater(other *Tensor[T, B]) *Tensor[bool, B] {
	return New[bool, B](t.backend.Greater(t.raw, other.raw), t.backend)
}

// Lower returns a boolean tensor where each element reports a < b.
// Supports broadcasting.
func (t *Tensor[T, B]) Lower(other *Tensor[T, B]) *Tensor[bool, B] {
	return New[bool, B](t.backend.Lower(t.raw, other.raw), t.backend)
}

// GreaterEqual returns a boolean tensor where each element reports a >= b.
func (t *Tensor[T, B]) GreaterEqual(other *Tensor[T, B]) *Tensor[bool, B] {
	return New[bool, B](t.backend.GreaterEqual(t.raw, other.raw), t.backend)
}

// LowerEqual returns a boolean tensor where each element reports a <= b.
func (t *Tensor[T, B]) LowerEqual(other *Tensor[T, B]) *Tensor[bool, B] {
	return New[bool, B](t.backend.LowerEqual(t.raw, other.raw), t.backend)
}

// Equal returns a boolean tensor where each element reports a == b.
func (t *Tensor[T, B]) Equal(other *Tensor[T, B]) *Tensor[bool, B] {
	return New[bool, B](t.backend.Equal(t.raw, other.raw), t.backend)
}

// NotEqual returns a boolean tensor where each element reports a != b.
func (t *Tensor[T, B]) NotEqual(other *Tensor[T, B]) *Tensor[bool, B] {
	return New[bool, B](t.backend.NotEqual(t.raw, other.raw), t.backend)
}

// Float32 casts the tensor to float32 dtype.
func (t *Tensor[T, B]) Float32() *Tensor[float32, B] {
	return New[float32, B](t.backend.Cast(t.raw, Float32), t.backend)
}

// Float64 casts the tensor to float64 dtype.
func (t *Tensor[T, B]) Float64() *Tensor[float64, B] {
	return New[float64, B](t.backend.Cast(t.raw, Float64), t.backend)
}

// Int32 casts the tensor to int32 dtype.
func (t *Tensor[T, B]) Int32() *Tensor[int32, B] {
	return New[int32, B](t.backend.Cast(t.raw, Int32), t.backend)
}

// Int64 casts the tensor to int64 dtype.
func (t *Tensor[T, B]) Int64() *Tensor[int64, B] {
	return New[int64, B](t.backend.Cast(t.raw, Int64), t.backend)
}
