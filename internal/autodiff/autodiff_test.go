package autodiff

import (
	"math"
	"testing"

	"github.com/flint-ml/flint/internal/backend/cpu"
	"github.com/flint-ml/flint/internal/tensor"
)

func newTestBackend() *AutodiffBackend[*cpu.CPUBackend] {
	return New(cpu.New())
}

func rawFromFloat32(t *testing.T, shape tensor.Shape, data []float32) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.NewRaw(shape, tensor.Float32, tensor.CPU)
	if err != nil {
		t.Fatalf("NewRaw failed: %v", err)
	}
	copy(raw.AsFloat32(), data)
	return raw
}

func onesLike(t *testing.T, x *tensor.RawTensor) *tensor.RawTensor {
	t.Helper()
	grad, err := tensor.NewRaw(x.Shape(), x.DType(), x.Device())
	if err != nil {
		t.Fatalf("NewRaw failed: %v", err)
	}
	data := grad.AsFloat32()
	for i := range data {
		data[i] = 1
	}
	return grad
}

func checkGrad(t *testing.T, name string, got *tensor.RawTensor, expected []float32) {
	t.Helper()
	if got == nil {
		t.Fatalf("%s: no gradient", name)
	}
	data := got.AsFloat32()
	if len(data) != len(expected) {
		t.Fatalf("%s: gradient has %d elements, expected %d", name, len(data), len(expected))
	}
	for i := range expected {
		if diff := math.Abs(float64(data[i] - expected[i])); diff > 1e-5 {
			t.Errorf("%s: grad[%d] = %v, expected %v", name, i, data[i], expected[i])
		}
	}
}

func TestAutodiffBackend_New(t *testing.T) {
	backend := newTestBackend()
	if backend.Name() != "Autodiff(CPU)" {
		t.Errorf("Expected name 'Autodiff(CPU)', got '%s'", backend.Name())
	}
	if backend.Device() != tensor.CPU {
		t.Errorf("Expected device CPU, got %v", backend.Device())
	}
	if backend.Tape().IsRecording() {
		t.Error("New tape must not be recording")
	}
}

func TestTape_RecordingControl(t *testing.T) {
	backend := newTestBackend()
	a := rawFromFloat32(t, tensor.Shape{2}, []float32{1, 2})
	b := rawFromFloat32(t, tensor.Shape{2}, []float32{3, 4})

	// Not recording: forward works, nothing lands on the tape.
	backend.Add(a, b)
	if backend.Tape().NumOps() != 0 {
		t.Errorf("Expected 0 ops before recording, got %d", backend.Tape().NumOps())
	}

	backend.Tape().StartRecording()
	backend.Add(a, b)
	if backend.Tape().NumOps() != 1 {
		t.Errorf("Expected 1 op while recording, got %d", backend.Tape().NumOps())
	}

	backend.Tape().StopRecording()
	backend.Add(a, b)
	if backend.Tape().NumOps() != 1 {
		t.Errorf("Expected 1 op after stopping, got %d", backend.Tape().NumOps())
	}

	backend.Tape().Clear()
	if backend.Tape().NumOps() != 0 {
		t.Errorf("Expected 0 ops after Clear, got %d", backend.Tape().NumOps())
	}
}

func TestBackward_Add(t *testing.T) {
	backend := newTestBackend()
	backend.Tape().StartRecording()

	a := rawFromFloat32(t, tensor.Shape{2}, []float32{1, 2})
	b := rawFromFloat32(t, tensor.Shape{2}, []float32{3, 4})
	c := backend.Add(a, b)

	grads := backend.Tape().Backward(c, onesLike(t, c), backend)

	checkGrad(t, "grad_a", grads[a], []float32{1, 1})
	checkGrad(t, "grad_b", grads[b], []float32{1, 1})
}

func TestBackward_Mul(t *testing.T) {
	backend := newTestBackend()
	backend.Tape().StartRecording()

	a := rawFromFloat32(t, tensor.Shape{2}, []float32{2, 3})
	b := rawFromFloat32(t, tensor.Shape{2}, []float32{5, 7})
	c := backend.Mul(a, b)

	grads := backend.Tape().Backward(c, onesLike(t, c), backend)

	// d(a*b)/da = b, d(a*b)/db = a
	checkGrad(t, "grad_a", grads[a], []float32{5, 7})
	checkGrad(t, "grad_b", grads[b], []float32{2, 3})
}

func TestBackward_Div(t *testing.T) {
	backend := newTestBackend()
	backend.Tape().StartRecording()

	a := rawFromFloat32(t, tensor.Shape{2}, []float32{6, 8})
	b := rawFromFloat32(t, tensor.Shape{2}, []float32{2, 4})
	c := backend.Div(a, b)

	grads := backend.Tape().Backward(c, onesLike(t, c), backend)

	// d(a/b)/da = 1/b = [0.5, 0.25]
	checkGrad(t, "grad_a", grads[a], []float32{0.5, 0.25})
	// d(a/b)/db = -a/b² = [-1.5, -0.5]
	checkGrad(t, "grad_b", grads[b], []float32{-1.5, -0.5})
}

func TestBackward_Chain(t *testing.T) {
	backend := newTestBackend()
	backend.Tape().StartRecording()

	// y = (x + b) * x, dy/dx = 2x + b
	x := rawFromFloat32(t, tensor.Shape{2}, []float32{2, 3})
	b := rawFromFloat32(t, tensor.Shape{2}, []float32{1, 1})
	sum := backend.Add(x, b)
	y := backend.Mul(sum, x)

	grads := backend.Tape().Backward(y, onesLike(t, y), backend)

	checkGrad(t, "grad_x", grads[x], []float32{5, 7})
	checkGrad(t, "grad_b", grads[b], []float32{2, 3})
}

func TestBackward_BroadcastReduction(t *testing.T) {
	backend := newTestBackend()
	backend.Tape().StartRecording()

	// a[2,2] + b[2] broadcasts b; grad_b sums over the leading dim.
	a := rawFromFloat32(t, tensor.Shape{2, 2}, []float32{1, 2, 3, 4})
	b := rawFromFloat32(t, tensor.Shape{2}, []float32{10, 20})
	c := backend.Add(a, b)

	grads := backend.Tape().Backward(c, onesLike(t, c), backend)

	checkGrad(t, "grad_a", grads[a], []float32{1, 1, 1, 1})
	checkGrad(t, "grad_b", grads[b], []float32{2, 2})
	if !grads[b].Shape().Equal(tensor.Shape{2}) {
		t.Errorf("grad_b shape = %v, expected [2]", grads[b].Shape())
	}
}

func TestBackward_ScalarOps(t *testing.T) {
	backend := newTestBackend()

	t.Run("MulScalar", func(t *testing.T) {
		backend.Tape().Clear()
		backend.Tape().StartRecording()

		x := rawFromFloat32(t, tensor.Shape{2}, []float32{1, 2})
		y := backend.MulScalar(x, float32(3))

		grads := backend.Tape().Backward(y, onesLike(t, y), backend)
		checkGrad(t, "grad_x", grads[x], []float32{3, 3})
	})

	t.Run("DivScalar", func(t *testing.T) {
		backend.Tape().Clear()
		backend.Tape().StartRecording()

		x := rawFromFloat32(t, tensor.Shape{2}, []float32{1, 2})
		y := backend.DivScalar(x, float32(4))

		grads := backend.Tape().Backward(y, onesLike(t, y), backend)
		checkGrad(t, "grad_x", grads[x], []float32{0.25, 0.25})
	})

	t.Run("AddScalarPassthrough", func(t *testing.T) {
		backend.Tape().Clear()
		backend.Tape().StartRecording()

		x := rawFromFloat32(t, tensor.Shape{2}, []float32{1, 2})
		y := backend.AddScalar(x, float32(5))

		grads := backend.Tape().Backward(y, onesLike(t, y), backend)
		checkGrad(t, "grad_x", grads[x], []float32{1, 1})
	})
}

func TestBackward_MathOps(t *testing.T) {
	backend := newTestBackend()

	t.Run("Exp", func(t *testing.T) {
		backend.Tape().Clear()
		backend.Tape().StartRecording()

		x := rawFromFloat32(t, tensor.Shape{2}, []float32{0, 1})
		y := backend.Exp(x)

		grads := backend.Tape().Backward(y, onesLike(t, y), backend)
		checkGrad(t, "grad_x", grads[x], []float32{1, float32(math.E)})
	})

	t.Run("Log", func(t *testing.T) {
		backend.Tape().Clear()
		backend.Tape().StartRecording()

		x := rawFromFloat32(t, tensor.Shape{2}, []float32{2, 4})
		y := backend.Log(x)

		grads := backend.Tape().Backward(y, onesLike(t, y), backend)
		checkGrad(t, "grad_x", grads[x], []float32{0.5, 0.25})
	})

	t.Run("Log1p", func(t *testing.T) {
		backend.Tape().Clear()
		backend.Tape().StartRecording()

		x := rawFromFloat32(t, tensor.Shape{2}, []float32{0, 1})
		y := backend.Log1p(x)

		grads := backend.Tape().Backward(y, onesLike(t, y), backend)
		checkGrad(t, "grad_x", grads[x], []float32{1, 0.5})
	})

	t.Run("Sqrt", func(t *testing.T) {
		backend.Tape().Clear()
		backend.Tape().StartRecording()

		x := rawFromFloat32(t, tensor.Shape{2}, []float32{4, 16})
		y := backend.Sqrt(x)

		grads := backend.Tape().Backward(y, onesLike(t, y), backend)
		// d(√x)/dx = 0.5/√x
		checkGrad(t, "grad_x", grads[x], []float32{0.25, 0.125})
	})

	t.Run("PowScalar", func(t *testing.T) {
		backend.Tape().Clear()
		backend.Tape().StartRecording()

		x := rawFromFloat32(t, tensor.Shape{2}, []float32{2, 3})
		y := backend.PowScalar(x, 3)

		grads := backend.Tape().Backward(y, onesLike(t, y), backend)
		// d(x³)/dx = 3x²
		checkGrad(t, "grad_x", grads[x], []float32{12, 27})
	})

	t.Run("FloorZeroGrad", func(t *testing.T) {
		backend.Tape().Clear()
		backend.Tape().StartRecording()

		x := rawFromFloat32(t, tensor.Shape{2}, []float32{1.5, 2.7})
		y := backend.Floor(x)

		grads := backend.Tape().Backward(y, onesLike(t, y), backend)
		checkGrad(t, "grad_x", grads[x], []float32{0, 0})
	})
}

func TestBackward_ShapeOps(t *testing.T) {
	backend := newTestBackend()

	t.Run("Reshape", func(t *testing.T) {
		backend.Tape().Clear()
		backend.Tape().StartRecording()

		x := rawFromFloat32(t, tensor.Shape{2, 3}, []float32{1, 2, 3, 4, 5, 6})
		y := backend.Reshape(x, tensor.Shape{3, 2})

		grads := backend.Tape().Backward(y, onesLike(t, y), backend)
		if !grads[x].Shape().Equal(tensor.Shape{2, 3}) {
			t.Errorf("grad shape = %v, expected [2 3]", grads[x].Shape())
		}
		checkGrad(t, "grad_x", grads[x], []float32{1, 1, 1, 1, 1, 1})
	})

	t.Run("Transpose", func(t *testing.T) {
		backend.Tape().Clear()
		backend.Tape().StartRecording()

		x := rawFromFloat32(t, tensor.Shape{2, 3}, []float32{1, 2, 3, 4, 5, 6})
		y := backend.Transpose(x)

		// Position-dependent gradient exposes a wrong inverse permutation.
		grad := rawFromFloat32(t, tensor.Shape{3, 2}, []float32{1, 2, 3, 4, 5, 6})
		grads := backend.Tape().Backward(y, grad, backend)

		if !grads[x].Shape().Equal(tensor.Shape{2, 3}) {
			t.Fatalf("grad shape = %v, expected [2 3]", grads[x].Shape())
		}
		checkGrad(t, "grad_x", grads[x], []float32{1, 3, 5, 2, 4, 6})
	})
}

func TestBackward_Split(t *testing.T) {
	backend := newTestBackend()

	t.Run("AllPartsUsed", func(t *testing.T) {
		backend.Tape().Clear()
		backend.Tape().StartRecording()

		x := rawFromFloat32(t, tensor.Shape{2, 4}, []float32{1, 2, 3, 4, 5, 6, 7, 8})
		parts := backend.Split(x, []int{1, 3}, 1)
		// sum[2,3] = 2*parts[0] (broadcast from [2,1]) + 3*parts[1]
		sum := backend.Add(backend.MulScalar(parts[0], float32(2)), backend.MulScalar(parts[1], float32(3)))

		grads := backend.Tape().Backward(sum, onesLike(t, sum), backend)

		if !grads[x].Shape().Equal(tensor.Shape{2, 4}) {
			t.Fatalf("grad shape = %v, expected [2 4]", grads[x].Shape())
		}
		// sum has shape [2,3] via broadcasting of parts[0][2,1]:
		// grad flows 2*broadcast to part0 (summed: 2*3=6) and 3 to part1.
		checkGrad(t, "grad_x", grads[x], []float32{6, 3, 3, 3, 6, 3, 3, 3})
	})

	t.Run("UnusedPartGetsZeros", func(t *testing.T) {
		backend.Tape().Clear()
		backend.Tape().StartRecording()

		x := rawFromFloat32(t, tensor.Shape{4}, []float32{1, 2, 3, 4})
		parts := backend.Split(x, []int{2, 2}, 0)
		y := backend.MulScalar(parts[0], float32(5))

		grads := backend.Tape().Backward(y, onesLike(t, y), backend)

		// Only the first part is used; the second contributes zeros.
		checkGrad(t, "grad_x", grads[x], []float32{5, 5, 0, 0})
	})
}

func TestBackward_FromEarlierOutput(t *testing.T) {
	backend := newTestBackend()
	backend.Tape().StartRecording()

	// y = x * x is recorded first; an unrelated op lands on the tape after
	// it. Seeding from y must differentiate y, not the last recorded op.
	x := rawFromFloat32(t, tensor.Shape{2}, []float32{3, 5})
	y := backend.Mul(x, x)

	z := rawFromFloat32(t, tensor.Shape{2}, []float32{1, 1})
	w := backend.Add(z, z)

	grads := backend.Tape().Backward(y, onesLike(t, y), backend)

	checkGrad(t, "grad_x", grads[x], []float32{6, 10})
	if _, ok := grads[z]; ok {
		t.Error("gradient must not flow into operations outside the seeded graph")
	}
	if _, ok := grads[w]; ok {
		t.Error("later outputs must not receive a gradient seed")
	}
}

func TestBackward_GradientAccumulation(t *testing.T) {
	backend := newTestBackend()
	backend.Tape().StartRecording()

	// y = x * x, dy/dx = 2x via accumulation across both uses.
	x := rawFromFloat32(t, tensor.Shape{2}, []float32{3, 5})
	y := backend.Mul(x, x)

	grads := backend.Tape().Backward(y, onesLike(t, y), backend)

	checkGrad(t, "grad_x", grads[x], []float32{6, 10})
}

func TestBackward_Helper(t *testing.T) {
	backend := newTestBackend()
	backend.Tape().StartRecording()

	x := tensor.Ones[float32](tensor.Shape{2}, backend)
	x2 := x.MulScalar(float32(2))
	y := x2.Mul(x2)

	grads := Backward(y, backend)

	// y = (2x)² = 4x², dy/dx = 8x = 8 at x = 1.
	checkGrad(t, "grad_x", grads[x.Raw()], []float32{8, 8})
}

func TestBackward_NoOpsPanics(t *testing.T) {
	backend := newTestBackend()

	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic when no operations recorded")
		}
	}()
	x := tensor.Ones[float32](tensor.Shape{2}, backend)
	Backward(x, backend)
}
