package tensor

// Boolean helpers for Tensor[bool, B]. Methods on Tensor[T, B] cannot be
// restricted to bool receivers, so these are package-level functions.

// Or computes element-wise logical OR between two boolean tensors.
// Supports broadcasting.
func Or[B Backend](a, b *Tensor[bool, B]) *Tensor[bool, B] {
	return New[bool, B](a.backend.Or(a.raw, b.raw), a.backend)
}

// And computes element-wise logical AND between two boolean tensors.
// Supports broadcasting.
func And[B Backend](a, b *Tensor[bool, B]) *Tensor[bool, B] {
	return New[bool, B](a.backend.And(a.raw, b.raw), a.backend)
}

// Not computes element-wise logical NOT of a boolean tensor.
func Not[B Backend](x *Tensor[bool, B]) *Tensor[bool, B] {
	return New[bool, B](x.backend.Not(x.raw), x.backend)
}

// Any reports whether any element of a boolean tensor is true.
func Any[B Backend](x *Tensor[bool, B]) bool {
	for _, v := range x.Data() {
		if v {
			return true
		}
	}
	return false
}

// All reports whether every element of a boolean tensor is true.
func All[B Backend](x *Tensor[bool, B]) bool {
	for _, v := range x.Data() {
		if !v {
			return false
		}
	}
	return true
}
