// Package autodiff implements automatic differentiation using the decorator pattern.
//
// AutodiffBackend wraps any Backend implementation (CPU, WebGPU) and adds
// gradient tracking through a GradientTape:
//   - forward passes are delegated to the wrapped backend
//   - differentiable operations are recorded on the tape while it is recording
//   - GradientTape.Backward replays the tape in reverse to produce gradients
//
// Usage:
//
//	backend := autodiff.New(cpu.New())
//	backend.Tape().StartRecording()
//
//	x, _ := tensor.FromSlice([]float32{2}, tensor.Shape{1}, backend)
//	y := x.Mul(x)
//
//	grads := autodiff.Backward(y, backend)
//	fmt.Println(grads[x.Raw()]) // dy/dx = 2x = 4
package autodiff

import (
	"fmt"

	"github.com/flint-ml/flint/internal/autodiff/ops"
	"github.com/flint-ml/flint/internal/tensor"
)

// AutodiffBackend wraps a Backend and adds automatic differentiation.
// It implements tensor.Backend and records operations on a GradientTape.
type AutodiffBackend[B tensor.Backend] struct {
	inner B
	tape  *GradientTape
}

// New creates a new AutodiffBackend wrapping the given backend.
func New[B tensor.Backend](backend B) *AutodiffBackend[B] {
	return &AutodiffBackend[B]{
		inner: backend,
		tape:  NewGradientTape(),
	}
}

// Tape returns the gradient tape for recording control and inspection.
func (b *AutodiffBackend[B]) Tape() *GradientTape {
	return b.tape
}

// Inner returns the wrapped backend.
func (b *AutodiffBackend[B]) Inner() B {
	return b.inner
}

// Name returns the backend name.
func (b *AutodiffBackend[B]) Name() string {
	return "Autodiff(" + b.inner.Name() + ")"
}

// Device returns the compute device.
func (b *AutodiffBackend[B]) Device() tensor.Device {
	return b.inner.Device()
}

// Add performs element-wise addition and records the operation.
func (b *AutodiffBackend[B]) Add(x, y *tensor.RawTensor) *tensor.RawTensor {
	// Recorded inputs must survive the forward pass unchanged, so block
	// the wrapped backend's inplace fast path for the duration of the call.
	defer x.ForceNonUnique()()
	defer y.ForceNonUnique()()

	result := b.inner.Add(x, y)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewAddOp(x, y, result))
	}
	return result
}

// Sub performs element-wise subtraction and records the operation.
func (b *AutodiffBackend[B]) Sub(x, y *tensor.RawTensor) *tensor.RawTensor {
	defer x.ForceNonUnique()()
	defer y.ForceNonUnique()()

	result := b.inner.Sub(x, y)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewSubOp(x, y, result))
	}
	return result
}

// Mul performs element-wise multiplication and records the operation.
func (b *AutodiffBackend[B]) Mul(x, y *tensor.RawTensor) *tensor.RawTensor {
	defer x.ForceNonUnique()()
	defer y.ForceNonUnique()()

	result := b.inner.Mul(x, y)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewMulOp(x, y, result))
	}
	return result
}

// Div performs element-wise division and records the operation.
func (b *AutodiffBackend[B]) Div(x, y *tensor.RawTensor) *tensor.RawTensor {
	defer x.ForceNonUnique()()
	defer y.ForceNonUnique()()

	result := b.inner.Div(x, y)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewDivOp(x, y, result))
	}
	return result
}

// AddScalar adds a scalar element-wise and records the operation.
func (b *AutodiffBackend[B]) AddScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	return b.scalarOp(ops.ScalarAdd, x, scalar, b.inner.AddScalar)
}

// SubScalar subtracts a scalar element-wise and records the operation.
func (b *AutodiffBackend[B]) SubScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	return b.scalarOp(ops.ScalarSub, x, scalar, b.inner.SubScalar)
}

// MulScalar multiplies by a scalar element-wise and records the operation.
func (b *AutodiffBackend[B]) MulScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	return b.scalarOp(ops.ScalarMul, x, scalar, b.inner.MulScalar)
}

// DivScalar divides by a scalar element-wise and records the operation.
func (b *AutodiffBackend[B]) DivScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	return b.scalarOp(ops.ScalarDiv, x, scalar, b.inner.DivScalar)
}

func (b *AutodiffBackend[B]) scalarOp(
	kind ops.ScalarOpKind,
	x *tensor.RawTensor,
	scalar any,
	forward func(*tensor.RawTensor, any) *tensor.RawTensor,
) *tensor.RawTensor {
	defer x.ForceNonUnique()()

	result := forward(x, scalar)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewScalarOp(kind, x, scalarValue(kind.String(), scalar), result))
	}
	return result
}

// PowScalar raises each element to the given power and records the operation.
func (b *AutodiffBackend[B]) PowScalar(x *tensor.RawTensor, power float64) *tensor.RawTensor {
	defer x.ForceNonUnique()()

	result := b.inner.PowScalar(x, power)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewPowScalarOp(x, power, result))
	}
	return result
}

// Exp computes e^x element-wise and records the operation.
func (b *AutodiffBackend[B]) Exp(x *tensor.RawTensor) *tensor.RawTensor {
	defer x.ForceNonUnique()()

	result := b.inner.Exp(x)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewExpOp(x, result))
	}
	return result
}

// Log computes the natural logarithm element-wise and records the operation.
func (b *AutodiffBackend[B]) Log(x *tensor.RawTensor) *tensor.RawTensor {
	defer x.ForceNonUnique()()

	result := b.inner.Log(x)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewLogOp(x, result))
	}
	return result
}

// Log1p computes log(1+x) element-wise and records the operation.
func (b *AutodiffBackend[B]) Log1p(x *tensor.RawTensor) *tensor.RawTensor {
	defer x.ForceNonUnique()()

	result := b.inner.Log1p(x)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewLog1pOp(x, result))
	}
	return result
}

// Floor rounds toward negative infinity and records the operation.
// The recorded operation propagates a zero gradient.
func (b *AutodiffBackend[B]) Floor(x *tensor.RawTensor) *tensor.RawTensor {
	defer x.ForceNonUnique()()

	result := b.inner.Floor(x)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewFloorOp(x, result))
	}
	return result
}

// Sqrt computes the square root element-wise and records the operation.
func (b *AutodiffBackend[B]) Sqrt(x *tensor.RawTensor) *tensor.RawTensor {
	defer x.ForceNonUnique()()

	result := b.inner.Sqrt(x)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewSqrtOp(x, result))
	}
	return result
}

// Reshape changes the tensor's shape and records the operation.
func (b *AutodiffBackend[B]) Reshape(x *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	defer x.ForceNonUnique()()

	result := b.inner.Reshape(x, newShape)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewReshapeOp(x, result))
	}
	return result
}

// Transpose permutes dimensions and records the operation.
func (b *AutodiffBackend[B]) Transpose(x *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	defer x.ForceNonUnique()()

	// Resolve the default reversed permutation here so the recorded
	// operation can invert it during backward.
	if len(axes) == 0 {
		ndim := len(x.Shape())
		axes = make([]int, ndim)
		for i := range axes {
			axes[i] = ndim - 1 - i
		}
	}

	result := b.inner.Transpose(x, axes...)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewTransposeOp(x, axes, result))
	}
	return result
}

// Split divides the tensor into sized parts and records the operation.
func (b *AutodiffBackend[B]) Split(x *tensor.RawTensor, sizes []int, dim int) []*tensor.RawTensor {
	defer x.ForceNonUnique()()

	if dim < 0 {
		dim = len(x.Shape()) + dim
	}

	results := b.inner.Split(x, sizes, dim)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewSplitOp(x, sizes, dim, results))
	}
	return results
}

// Cat concatenates tensors along a dimension. Not recorded.
func (b *AutodiffBackend[B]) Cat(tensors []*tensor.RawTensor, dim int) *tensor.RawTensor {
	return b.inner.Cat(tensors, dim)
}

// Greater delegates to the wrapped backend. Comparisons are not differentiable
// and are not recorded.
func (b *AutodiffBackend[B]) Greater(x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.inner.Greater(x, y)
}

// Lower delegates to the wrapped backend.
func (b *AutodiffBackend[B]) Lower(x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.inner.Lower(x, y)
}

// GreaterEqual delegates to the wrapped backend.
func (b *AutodiffBackend[B]) GreaterEqual(x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.inner.GreaterEqual(x, y)
}

// LowerEqual delegates to the wrapped backend.
func (b *AutodiffBackend[B]) LowerEqual(x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.inner.LowerEqual(x, y)
}

// Equal delegates to the wrapped backend.
func (b *AutodiffBackend[B]) Equal(x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.inner.Equal(x, y)
}

// NotEqual delegates to the wrapped backend.
func (b *AutodiffBackend[B]) NotEqual(x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.inner.NotEqual(x, y)
}

// Or delegates to the wrapped backend.
func (b *AutodiffBackend[B]) Or(x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.inner.Or(x, y)
}

// And delegates to the wrapped backend.
func (b *AutodiffBackend[B]) And(x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.inner.And(x, y)
}

// Not delegates to the wrapped backend.
func (b *AutodiffBackend[B]) Not(x *tensor.RawTensor) *tensor.RawTensor {
	return b.inner.Not(x)
}

// Cast delegates to the wrapped backend. Not recorded.
func (b *AutodiffBackend[B]) Cast(x *tensor.RawTensor, dtype tensor.DataType) *tensor.RawTensor {
	return b.inner.Cast(x, dtype)
}

// scalarValue converts a scalar operand to float64 for tape recording.
func scalarValue(op string, scalar any) float64 {
	switch s := scalar.(type) {
	case float32:
		return float64(s)
	case float64:
		return s
	case int32:
		return float64(s)
	case int64:
		return float64(s)
	case int:
		return float64(s)
	default:
		panic(fmt.Sprintf("%s: unsupported scalar type %T", op, scalar))
	}
}
