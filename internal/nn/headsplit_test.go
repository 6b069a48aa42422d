package nn

import (
	"testing"

	"github.com/flint-ml/flint/internal/autodiff"
	"github.com/flint-ml/flint/internal/backend/cpu"
	"github.com/flint-ml/flint/internal/tensor"
)

func TestHeadSplit_Shapes(t *testing.T) {
	backend := cpu.New()

	// LeViT-style stage: 8 heads, 16 query/key dims and 64 value dims each.
	layer := NewHeadSplit[*cpu.CPUBackend](8, []int{16, 64})
	input := tensor.Zeros[float32](tensor.Shape{10, 196, 640}, backend)

	outputs := layer.Forward(input)

	if len(outputs) != 2 {
		t.Fatalf("Expected 2 outputs, got %d", len(outputs))
	}
	if !outputs[0].Shape().Equal(tensor.Shape{10, 8, 196, 16}) {
		t.Errorf("Output 0 shape = %v, expected [10 8 196 16]", outputs[0].Shape())
	}
	if !outputs[1].Shape().Equal(tensor.Shape{10, 8, 196, 64}) {
		t.Errorf("Output 1 shape = %v, expected [10 8 196 64]", outputs[1].Shape())
	}
}

func TestHeadSplit_Values(t *testing.T) {
	backend := cpu.New()

	// 1 batch, 2 positions, 2 heads with sections [1, 2]: features per
	// position are [h0s0, h0s1a, h0s1b, h1s0, h1s1a, h1s1b].
	layer := NewHeadSplit[*cpu.CPUBackend](2, []int{1, 2})
	input, err := tensor.FromSlice([]float32{
		0, 1, 2, 3, 4, 5, // position 0
		6, 7, 8, 9, 10, 11, // position 1
	}, tensor.Shape{1, 2, 6}, backend)
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}

	outputs := layer.Forward(input)

	// First section, head-major: [batch, head, seq, 1].
	wantFirst := []float32{0, 6, 3, 9}
	for i, want := range wantFirst {
		if got := outputs[0].Data()[i]; got != want {
			t.Errorf("outputs[0][%d] = %v, expected %v", i, got, want)
		}
	}

	// Second section: [batch, head, seq, 2].
	wantSecond := []float32{1, 2, 7, 8, 4, 5, 10, 11}
	for i, want := range wantSecond {
		if got := outputs[1].Data()[i]; got != want {
			t.Errorf("outputs[1][%d] = %v, expected %v", i, got, want)
		}
	}
}

func TestHeadSplit_SingleSection(t *testing.T) {
	backend := cpu.New()

	layer := NewHeadSplit[*cpu.CPUBackend](4, []int{8})
	input := tensor.Zeros[float32](tensor.Shape{2, 5, 32}, backend)

	outputs := layer.Forward(input)

	if len(outputs) != 1 {
		t.Fatalf("Expected 1 output, got %d", len(outputs))
	}
	if !outputs[0].Shape().Equal(tensor.Shape{2, 4, 5, 8}) {
		t.Errorf("Output shape = %v, expected [2 4 5 8]", outputs[0].Shape())
	}
}

func TestHeadSplit_GradientFlow(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	layer := NewHeadSplit[*autodiff.AutodiffBackend[*cpu.CPUBackend]](2, []int{1, 1})
	input := tensor.Ones[float32](tensor.Shape{1, 2, 4}, backend)

	outputs := layer.Forward(input)
	grads := autodiff.Backward(outputs[1], backend)

	grad := grads[input.Raw()]
	if grad == nil {
		t.Fatal("Input must receive a gradient through reshape/split/transpose")
	}
	if !grad.Shape().Equal(tensor.Shape{1, 2, 4}) {
		t.Fatalf("Gradient shape = %v, expected [1 2 4]", grad.Shape())
	}

	// The second section covers features 1 and 3 of each position; only
	// those positions receive gradient.
	want := []float32{0, 1, 0, 1, 0, 1, 0, 1}
	for i, w := range want {
		if got := grad.AsFloat32()[i]; got != w {
			t.Errorf("grad[%d] = %v, expected %v", i, got, w)
		}
	}
}

func TestHeadSplit_GradientFromFirstSection(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	layer := NewHeadSplit[*autodiff.AutodiffBackend[*cpu.CPUBackend]](2, []int{1, 1})
	input := tensor.Ones[float32](tensor.Shape{1, 2, 4}, backend)

	// The transpose of outputs[0] is recorded before its sibling's; the
	// backward pass must still start from the output actually passed.
	outputs := layer.Forward(input)
	grads := autodiff.Backward(outputs[0], backend)

	grad := grads[input.Raw()]
	if grad == nil {
		t.Fatal("Input must receive a gradient through reshape/split/transpose")
	}

	// The first section covers features 0 and 2 of each position.
	want := []float32{1, 0, 1, 0, 1, 0, 1, 0}
	for i, w := range want {
		if got := grad.AsFloat32()[i]; got != w {
			t.Errorf("grad[%d] = %v, expected %v", i, got, w)
		}
	}
}

func TestHeadSplit_InvalidConfig(t *testing.T) {
	t.Run("ZeroHeads", func(t *testing.T) {
		defer func() {
			if r := recover(); r == nil {
				t.Error("Expected panic for zero heads")
			}
		}()
		NewHeadSplit[*cpu.CPUBackend](0, []int{4})
	})

	t.Run("NoSections", func(t *testing.T) {
		defer func() {
			if r := recover(); r == nil {
				t.Error("Expected panic for empty sections")
			}
		}()
		NewHeadSplit[*cpu.CPUBackend](2, nil)
	})

	t.Run("Not3DInput", func(t *testing.T) {
		defer func() {
			if r := recover(); r == nil {
				t.Error("Expected panic for non-3D input")
			}
		}()
		backend := cpu.New()
		layer := NewHeadSplit[*cpu.CPUBackend](2, []int{2})
		layer.Forward(tensor.Zeros[float32](tensor.Shape{2, 8}, backend))
	})

	t.Run("FeatureMismatch", func(t *testing.T) {
		defer func() {
			if r := recover(); r == nil {
				t.Error("Expected panic when features do not factor")
			}
		}()
		backend := cpu.New()
		layer := NewHeadSplit[*cpu.CPUBackend](2, []int{3})
		layer.Forward(tensor.Zeros[float32](tensor.Shape{1, 2, 7}, backend))
	})
}
