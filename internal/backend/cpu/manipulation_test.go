package cpu

import (
	"testing"

	"github.com/flint-ml/flint/internal/tensor"
)

// TestCPUBackend_Reshape tests shape changes.
func TestCPUBackend_Reshape(t *testing.T) {
	backend := newTestBackend()

	t.Run("Basic", func(t *testing.T) {
		x := newFloat32(t, tensor.Shape{2, 3}, []float32{1, 2, 3, 4, 5, 6})
		result := backend.Reshape(x, tensor.Shape{3, 2})

		if !result.Shape().Equal(tensor.Shape{3, 2}) {
			t.Fatalf("Expected shape [3 2], got %v", result.Shape())
		}
		expected := []float32{1, 2, 3, 4, 5, 6}
		if !float32SliceEqual(result.AsFloat32(), expected) {
			t.Errorf("Reshape must preserve element order: got %v", result.AsFloat32())
		}
	})

	t.Run("IncompatibleShapePanics", func(t *testing.T) {
		defer func() {
			if r := recover(); r == nil {
				t.Error("Expected panic on incompatible reshape")
			}
		}()
		x := newFloat32(t, tensor.Shape{2, 3}, []float32{1, 2, 3, 4, 5, 6})
		backend.Reshape(x, tensor.Shape{4, 2})
	})
}

// TestCPUBackend_Transpose tests dimension permutation.
func TestCPUBackend_Transpose(t *testing.T) {
	backend := newTestBackend()

	t.Run("2D", func(t *testing.T) {
		x := newFloat32(t, tensor.Shape{2, 3}, []float32{1, 2, 3, 4, 5, 6})
		result := backend.Transpose(x)

		if !result.Shape().Equal(tensor.Shape{3, 2}) {
			t.Fatalf("Expected shape [3 2], got %v", result.Shape())
		}
		expected := []float32{1, 4, 2, 5, 3, 6}
		if !float32SliceEqual(result.AsFloat32(), expected) {
			t.Errorf("Transpose failed: got %v, expected %v", result.AsFloat32(), expected)
		}
	})

	t.Run("4DPermutation", func(t *testing.T) {
		// [1, 2, 2, 2] with perm [0, 2, 1, 3] swaps the middle dimensions.
		x := newFloat32(t, tensor.Shape{1, 2, 2, 2}, []float32{0, 1, 2, 3, 4, 5, 6, 7})
		result := backend.Transpose(x, 0, 2, 1, 3)

		if !result.Shape().Equal(tensor.Shape{1, 2, 2, 2}) {
			t.Fatalf("Expected shape [1 2 2 2], got %v", result.Shape())
		}
		expected := []float32{0, 1, 4, 5, 2, 3, 6, 7}
		if !float32SliceEqual(result.AsFloat32(), expected) {
			t.Errorf("Transpose failed: got %v, expected %v", result.AsFloat32(), expected)
		}
	})

	t.Run("InvalidAxisPanics", func(t *testing.T) {
		defer func() {
			if r := recover(); r == nil {
				t.Error("Expected panic on invalid axis")
			}
		}()
		x := newFloat32(t, tensor.Shape{2, 3}, []float32{1, 2, 3, 4, 5, 6})
		backend.Transpose(x, 0, 2)
	})

	t.Run("DuplicateAxisPanics", func(t *testing.T) {
		defer func() {
			if r := recover(); r == nil {
				t.Error("Expected panic on duplicate axis")
			}
		}()
		x := newFloat32(t, tensor.Shape{2, 3}, []float32{1, 2, 3, 4, 5, 6})
		backend.Transpose(x, 0, 0)
	})
}

// TestCPUBackend_Split tests splitting a tensor into sized parts.
func TestCPUBackend_Split(t *testing.T) {
	backend := newTestBackend()

	t.Run("LastDim", func(t *testing.T) {
		x := newFloat32(t, tensor.Shape{2, 4}, []float32{1, 2, 3, 4, 5, 6, 7, 8})
		parts := backend.Split(x, []int{1, 3}, 1)

		if len(parts) != 2 {
			t.Fatalf("Expected 2 parts, got %d", len(parts))
		}
		if !parts[0].Shape().Equal(tensor.Shape{2, 1}) {
			t.Errorf("Part 0 shape = %v, expected [2 1]", parts[0].Shape())
		}
		if !parts[1].Shape().Equal(tensor.Shape{2, 3}) {
			t.Errorf("Part 1 shape = %v, expected [2 3]", parts[1].Shape())
		}
		if !float32SliceEqual(parts[0].AsFloat32(), []float32{1, 5}) {
			t.Errorf("Part 0 = %v, expected [1 5]", parts[0].AsFloat32())
		}
		if !float32SliceEqual(parts[1].AsFloat32(), []float32{2, 3, 4, 6, 7, 8}) {
			t.Errorf("Part 1 = %v, expected [2 3 4 6 7 8]", parts[1].AsFloat32())
		}
	})

	t.Run("FirstDim", func(t *testing.T) {
		x := newFloat32(t, tensor.Shape{3, 2}, []float32{1, 2, 3, 4, 5, 6})
		parts := backend.Split(x, []int{2, 1}, 0)

		if !float32SliceEqual(parts[0].AsFloat32(), []float32{1, 2, 3, 4}) {
			t.Errorf("Part 0 = %v, expected [1 2 3 4]", parts[0].AsFloat32())
		}
		if !float32SliceEqual(parts[1].AsFloat32(), []float32{5, 6}) {
			t.Errorf("Part 1 = %v, expected [5 6]", parts[1].AsFloat32())
		}
	})

	t.Run("NegativeDim", func(t *testing.T) {
		x := newFloat32(t, tensor.Shape{2, 4}, []float32{1, 2, 3, 4, 5, 6, 7, 8})
		parts := backend.Split(x, []int{2, 2}, -1)

		if !float32SliceEqual(parts[0].AsFloat32(), []float32{1, 2, 5, 6}) {
			t.Errorf("Part 0 = %v, expected [1 2 5 6]", parts[0].AsFloat32())
		}
		if !float32SliceEqual(parts[1].AsFloat32(), []float32{3, 4, 7, 8}) {
			t.Errorf("Part 1 = %v, expected [3 4 7 8]", parts[1].AsFloat32())
		}
	})

	t.Run("SizesMismatchPanics", func(t *testing.T) {
		defer func() {
			if r := recover(); r == nil {
				t.Error("Expected panic when sizes do not sum to dimension")
			}
		}()
		x := newFloat32(t, tensor.Shape{2, 4}, []float32{1, 2, 3, 4, 5, 6, 7, 8})
		backend.Split(x, []int{1, 2}, 1)
	})
}

// TestCPUBackend_Cat tests concatenation as the inverse of Split.
func TestCPUBackend_Cat(t *testing.T) {
	backend := newTestBackend()

	t.Run("RoundTrip", func(t *testing.T) {
		x := newFloat32(t, tensor.Shape{2, 4}, []float32{1, 2, 3, 4, 5, 6, 7, 8})
		parts := backend.Split(x, []int{1, 3}, 1)
		result := backend.Cat(parts, 1)

		if !result.Shape().Equal(x.Shape()) {
			t.Fatalf("Expected shape %v, got %v", x.Shape(), result.Shape())
		}
		if !float32SliceEqual(result.AsFloat32(), x.AsFloat32()) {
			t.Errorf("Cat(Split(x)) = %v, expected %v", result.AsFloat32(), x.AsFloat32())
		}
	})

	t.Run("FirstDim", func(t *testing.T) {
		a := newFloat32(t, tensor.Shape{1, 2}, []float32{1, 2})
		b := newFloat32(t, tensor.Shape{2, 2}, []float32{3, 4, 5, 6})
		result := backend.Cat([]*tensor.RawTensor{a, b}, 0)

		if !result.Shape().Equal(tensor.Shape{3, 2}) {
			t.Fatalf("Expected shape [3 2], got %v", result.Shape())
		}
		if !float32SliceEqual(result.AsFloat32(), []float32{1, 2, 3, 4, 5, 6}) {
			t.Errorf("Cat failed: got %v", result.AsFloat32())
		}
	})

	t.Run("ShapeMismatchPanics", func(t *testing.T) {
		defer func() {
			if r := recover(); r == nil {
				t.Error("Expected panic on shape mismatch")
			}
		}()
		a := newFloat32(t, tensor.Shape{2, 2}, []float32{1, 2, 3, 4})
		b := newFloat32(t, tensor.Shape{2, 3}, []float32{1, 2, 3, 4, 5, 6})
		backend.Cat([]*tensor.RawTensor{a, b}, 0)
	})
}
