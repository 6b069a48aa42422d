package tensor

import "fmt"

// Shape represents the dimensions of a tensor.
type Shape []int

// NumElements returns the total number of elements in the tensor.
func (s Shape) NumElements() int {
	if len(s) == 0 {
		return 1 // Scalar has 1 element
	}
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Validate checks if the shape is valid (all dimensions > 0).
func (s Shape) Validate() error {
	for i, dim := range s {
		if dim <= 0 {
			return fmt.Errorf("invalid dimension at index %d: %d (must be > 0)", i, dim)
		}
	}
	return nil
}

// Equal checks if two shapes are equal.
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

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// Concat returns a new shape that is the concatenation of s and other.
// Used to build sample shapes: sampleShape.Concat(batchShape).
func (s Shape) Concat(other Shape) Shape {
	result := make(Shape, 0, len(s)+len(other))
	result = append(result, s...)
	result = append(result, other...)
	return result
}

// ComputeStrides calculates row-major strides for the shape.
// Strides define memory layout: stride[i] = product of all dimensions after i.
func (s Shape) ComputeStrides() []int {
	strides := make([]int, len(s))
	if len(s) == 0 {
		return strides
	}

	strides[len(s)-1] = 1
	for i := len(s) - 2; i >= 0; i-- {
		strides[i] = strides[i+1] * s[i+1]
	}
	return strides
}

// ResolveReshape resolves a target shape that may contain a single -1
// dimension, inferring it from the element count.
//
// Example:
//
//	ResolveReshape(12, Shape{3, -1}) → Shape{3, 4}
func ResolveReshape(numElements int, target Shape) (Shape, error) {
	resolved := target.Clone()
	infer := -1
	known := 1
	for i, dim := range resolved {
		switch {
		case dim == -1:
			if infer != -1 {
				return nil, fmt.Errorf("reshape: at most one dimension may be -1, got %v", target)
			}
			infer = i
		case dim <= 0:
			return nil, fmt.Errorf("reshape: invalid dimension %d at index %d", dim, i)
		default:
			known *= dim
		}
	}

	if infer == -1 {
		if known != numElements {
			return nil, fmt.Errorf("reshape: shape %v requires %d elements, tensor has %d", target, known, numElements)
		}
		return resolved, nil
	}

	if known == 0 || numElements%known != 0 {
		return nil, fmt.Errorf("reshape: cannot infer dimension for shape %v from %d elements", target, numElements)
	}
	resolved[infer] = numElements / known
	return resolved, nil
}

// BroadcastShapes implements NumPy-style broadcasting rules.
//
// Rules:
// 1. Compare shapes element-wise from right to left
// 2. Dimensions are compatible if:
//   - They are equal, OR
//   - One of them is 1
//
// 3. Missing dimensions are treated as 1
//
// Returns the broadcasted shape, a flag indicating if broadcasting is needed, and an error if incompatible.
//
// Examples:
//
//	(3, 1) + (3, 5) → (3, 5), true, nil
//	(1, 5) + (3, 5) → (3, 5), true, nil
//	(3, 5) + (3, 5) → (3, 5), false, nil
//	(3, 4) + (3, 5) → nil, false, Error
func BroadcastShapes(a, b Shape) (Shape, bool, error) {
	maxLen := max(len(a), len(b))
	result := make(Shape, maxLen)
	needsBroadcast := false

	for i := 0; i < maxLen; i++ {
		aIdx := len(a) - 1 - i
		bIdx := len(b) - 1 - i

		aDim := 1
		if aIdx >= 0 {
			aDim = a[aIdx]
		}

		bDim := 1
		if bIdx >= 0 {
			bDim = b[bIdx]
		}

		switch {
		case aDim == bDim:
			result[maxLen-1-i] = aDim
		case aDim == 1:
			result[maxLen-1-i] = bDim
			needsBroadcast = true
		case bDim == 1:
			result[maxLen-1-i] = aDim
			needsBroadcast = true
		default:
			return nil, false, fmt.Errorf("shapes not compatible for broadcasting: %v vs %v (dimension %d: %d vs %d)",
				a, b, maxLen-1-i, aDim, bDim)
		}
	}

	return result, needsBroadcast, nil
}
