//go:build windows

package webgpu

import (
	"fmt"

	"github.com/flint-ml/flint/internal/tensor"
)

// Backend interface implementation.
//
// Float32 tensors with matching shapes run on GPU; float64, integer, and
// broadcast cases fall through to the host implementation. Errors from the
// GPU path are wrapped in panics with the operation name, matching the CPU
// backend's contract.

func gpuBinary(x, y *tensor.RawTensor) bool {
	return x.DType() == tensor.Float32 && y.DType() == tensor.Float32 &&
		x.Shape().Equal(y.Shape())
}

// Add computes element-wise addition: x + y.
func (b *Backend) Add(x, y *tensor.RawTensor) *tensor.RawTensor {
	if !gpuBinary(x, y) {
		return b.host.Add(x, y)
	}
	result, err := b.runBinaryOp("add", shaderSources["add"], x, y)
	if err != nil {
		panic(fmt.Sprintf("webgpu: Add: %v", err))
	}
	return result
}

// Sub computes element-wise subtraction: x - y.
func (b *Backend) Sub(x, y *tensor.RawTensor) *tensor.RawTensor {
	if !gpuBinary(x, y) {
		return b.host.Sub(x, y)
	}
	result, err := b.runBinaryOp("sub", shaderSources["sub"], x, y)
	if err != nil {
		panic(fmt.Sprintf("webgpu: Sub: %v", err))
	}
	return result
}

// Mul computes element-wise multiplication: x * y.
func (b *Backend) Mul(x, y *tensor.RawTensor) *tensor.RawTensor {
	if !gpuBinary(x, y) {
		return b.host.Mul(x, y)
	}
	result, err := b.runBinaryOp("mul", shaderSources["mul"], x, y)
	if err != nil {
		panic(fmt.Sprintf("webgpu: Mul: %v", err))
	}
	return result
}

// Div computes element-wise division: x / y.
func (b *Backend) Div(x, y *tensor.RawTensor) *tensor.RawTensor {
	if !gpuBinary(x, y) {
		return b.host.Div(x, y)
	}
	result, err := b.runBinaryOp("div", shaderSources["div"], x, y)
	if err != nil {
		panic(fmt.Sprintf("webgpu: Div: %v", err))
	}
	return result
}

// AddScalar adds a scalar value to each element of the tensor.
func (b *Backend) AddScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	s, ok := gpuScalar(x, scalar)
	if !ok {
		return b.host.AddScalar(x, scalar)
	}
	result, err := b.runScalarOp("scalar_add", shaderSources["scalar_add"], x, s)
	if err != nil {
		panic(fmt.Sprintf("webgpu: AddScalar: %v", err))
	}
	return result
}

// SubScalar subtracts a scalar value from each element of the tensor.
func (b *Backend) SubScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	s, ok := gpuScalar(x, scalar)
	if !ok {
		return b.host.SubScalar(x, scalar)
	}
	result, err := b.runScalarOp("scalar_add", shaderSources["scalar_add"], x, -s)
	if err != nil {
		panic(fmt.Sprintf("webgpu: SubScalar: %v", err))
	}
	return result
}

// MulScalar multiplies each element of the tensor by a scalar value.
func (b *Backend) MulScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	s, ok := gpuScalar(x, scalar)
	if !ok {
		return b.host.MulScalar(x, scalar)
	}
	result, err := b.runScalarOp("scalar_mul", shaderSources["scalar_mul"], x, s)
	if err != nil {
		panic(fmt.Sprintf("webgpu: MulScalar: %v", err))
	}
	return result
}

// DivScalar divides each element of the tensor by a scalar value.
func (b *Backend) DivScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	s, ok := gpuScalar(x, scalar)
	if !ok {
		return b.host.DivScalar(x, scalar)
	}
	result, err := b.runScalarOp("scalar_mul", shaderSources["scalar_mul"], x, 1/s)
	if err != nil {
		panic(fmt.Sprintf("webgpu: DivScalar: %v", err))
	}
	return result
}

// PowScalar raises each element to the given power: x^p.
func (b *Backend) PowScalar(x *tensor.RawTensor, power float64) *tensor.RawTensor {
	if x.DType() != tensor.Float32 {
		return b.host.PowScalar(x, power)
	}
	result, err := b.runScalarOp("scalar_pow", shaderSources["scalar_pow"], x, float32(power))
	if err != nil {
		panic(fmt.Sprintf("webgpu: PowScalar: %v", err))
	}
	return result
}

// Exp computes element-wise exponential: exp(x).
func (b *Backend) Exp(x *tensor.RawTensor) *tensor.RawTensor {
	return b.unaryOp("Exp", "exp", x, b.host.Exp)
}

// Log computes element-wise natural logarithm: ln(x).
// Log(0) yields -Inf (IEEE semantics); negative input is a domain error.
func (b *Backend) Log(x *tensor.RawTensor) *tensor.RawTensor {
	if x.DType() == tensor.Float32 {
		checkNonNegative("log", x.AsFloat32())
	}
	return b.unaryOp("Log", "log", x, b.host.Log)
}

// Log1p computes element-wise log(1+x), accurate for x near zero.
// Log1p(-1) yields -Inf; input below -1 is a domain error.
func (b *Backend) Log1p(x *tensor.RawTensor) *tensor.RawTensor {
	if x.DType() == tensor.Float32 {
		for _, v := range x.AsFloat32() {
			if v < -1 {
				panic(fmt.Sprintf("log1p: value %f below -1", v))
			}
		}
	}
	return b.unaryOp("Log1p", "log1p", x, b.host.Log1p)
}

// Floor rounds each element toward negative infinity.
func (b *Backend) Floor(x *tensor.RawTensor) *tensor.RawTensor {
	return b.unaryOp("Floor", "floor", x, b.host.Floor)
}

// Sqrt computes element-wise square root: sqrt(x).
func (b *Backend) Sqrt(x *tensor.RawTensor) *tensor.RawTensor {
	if x.DType() == tensor.Float32 {
		checkNonNegative("sqrt", x.AsFloat32())
	}
	return b.unaryOp("Sqrt", "sqrt", x, b.host.Sqrt)
}

func (b *Backend) unaryOp(method, shader string, x *tensor.RawTensor, fallback func(*tensor.RawTensor) *tensor.RawTensor) *tensor.RawTensor {
	if x.DType() != tensor.Float32 {
		return fallback(x)
	}
	result, err := b.runUnaryOp(shader, shaderSources[shader], x)
	if err != nil {
		panic(fmt.Sprintf("webgpu: %s: %v", method, err))
	}
	return result
}

func checkNonNegative(name string, data []float32) {
	for _, v := range data {
		if v < 0 {
			panic(fmt.Sprintf("%s: negative value %f", name, v))
		}
	}
}

// gpuScalar reports whether a scalar op can run on GPU and extracts the
// scalar. Scalar type mismatches are left for the host implementation to
// diagnose.
func gpuScalar(x *tensor.RawTensor, scalar any) (float32, bool) {
	if x.DType() != tensor.Float32 {
		return 0, false
	}
	s, ok := scalar.(float32)
	return s, ok
}

// Comparison, boolean, shape, manipulation and conversion operations run
// host-side. Tensor data lives in system memory between dispatches, so these
// involve no extra transfers.

// Greater compares element-wise: x > y. Returns a bool tensor.
func (b *Backend) Greater(x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.host.Greater(x, y)
}

// Lower compares element-wise: x < y. Returns a bool tensor.
func (b *Backend) Lower(x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.host.Lower(x, y)
}

// GreaterEqual compares element-wise: x >= y. Returns a bool tensor.
func (b *Backend) GreaterEqual(x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.host.GreaterEqual(x, y)
}

// LowerEqual compares element-wise: x <= y. Returns a bool tensor.
func (b *Backend) LowerEqual(x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.host.LowerEqual(x, y)
}

// Equal compares element-wise: x == y. Returns a bool tensor.
func (b *Backend) Equal(x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.host.Equal(x, y)
}

// NotEqual compares element-wise: x != y. Returns a bool tensor.
func (b *Backend) NotEqual(x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.host.NotEqual(x, y)
}

// Or computes element-wise logical OR on bool tensors.
func (b *Backend) Or(x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.host.Or(x, y)
}

// And computes element-wise logical AND on bool tensors.
func (b *Backend) And(x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.host.And(x, y)
}

// Not computes element-wise logical NOT on a bool tensor.
func (b *Backend) Not(x *tensor.RawTensor) *tensor.RawTensor {
	return b.host.Not(x)
}

// Reshape returns a tensor with the same data and a new shape.
func (b *Backend) Reshape(t *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	return b.host.Reshape(t, newShape)
}

// Transpose permutes the tensor's axes.
func (b *Backend) Transpose(t *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	return b.host.Transpose(t, axes...)
}

// Split divides the tensor into parts of the given sizes along a dimension.
func (b *Backend) Split(x *tensor.RawTensor, sizes []int, dim int) []*tensor.RawTensor {
	return b.host.Split(x, sizes, dim)
}

// Cat concatenates tensors along a dimension.
func (b *Backend) Cat(tensors []*tensor.RawTensor, dim int) *tensor.RawTensor {
	return b.host.Cat(tensors, dim)
}

// Cast converts the tensor to a different data type.
func (b *Backend) Cast(x *tensor.RawTensor, dtype tensor.DataType) *tensor.RawTensor {
	return b.host.Cast(x, dtype)
}

var _ tensor.Backend = (*Backend)(nil)
