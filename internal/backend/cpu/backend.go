// Package cpu implements the pure Go CPU backend.
package cpu

import (
	"fmt"

	"github.com/flint-ml/flint/internal/tensor"
)

// CPUBackend implements tensor operations on CPU in pure Go.
type CPUBackend struct {
	device tensor.Device
}

// New creates a new CPU backend.
func New() *CPUBackend {
	return &CPUBackend{
		device: tensor.CPU,
	}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (cpu *CPUBackend) Device() tensor.Device {
	return cpu.device
}

// Add performs element-wise addition with NumPy-style broadcasting.
func (cpu *CPUBackend) Add(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("add", a, b, kernels{
		f32: func(x, y float32) float32 { return x + y },
		f64: func(x, y float64) float64 { return x + y },
		i32: func(x, y int32) int32 { return x + y },
		i64: func(x, y int64) int64 { return x + y },
	})
}

// Sub performs element-wise subtraction with broadcasting.
func (cpu *CPUBackend) Sub(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("sub", a, b, kernels{
		f32: func(x, y float32) float32 { return x - y },
		f64: func(x, y float64) float64 { return x - y },
		i32: func(x, y int32) int32 { return x - y },
		i64: func(x, y int64) int64 { return x - y },
	})
}

// Mul performs element-wise multiplication with broadcasting.
func (cpu *CPUBackend) Mul(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("mul", a, b, kernels{
		f32: func(x, y float32) float32 { return x * y },
		f64: func(x, y float64) float64 { return x * y },
		i32: func(x, y int32) int32 { return x * y },
		i64: func(x, y int64) int64 { return x * y },
	})
}

// Div performs element-wise division with broadcasting.
// Integer division truncates toward zero; division by an integer zero panics.
func (cpu *CPUBackend) Div(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("div", a, b, kernels{
		f32: func(x, y float32) float32 { return x / y },
		f64: func(x, y float64) float64 { return x / y },
		i32: func(x, y int32) int32 { return x / y },
		i64: func(x, y int64) int64 { return x / y },
	})
}

// binary dispatches an element-wise binary operation by dtype, handling
// broadcasting and the inplace fast path.
func (cpu *CPUBackend) binary(name string, a, b *tensor.RawTensor, k kernels) *tensor.RawTensor {
	if a.DType() != b.DType() {
		panic(fmt.Sprintf("%s: dtype mismatch: %s vs %s", name, a.DType(), b.DType()))
	}

	outShape, _, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(fmt.Sprintf("%s: %v", name, err))
	}

	sameShape := a.Shape().Equal(b.Shape())

	// Inplace fast path: same shape and sole reference to the buffer.
	if sameShape && a.IsUnique() {
		switch a.DType() {
		case tensor.Float32:
			inplaceEW(a.AsFloat32(), b.AsFloat32(), k.f32)
		case tensor.Float64:
			inplaceEW(a.AsFloat64(), b.AsFloat64(), k.f64)
		case tensor.Int32:
			inplaceEW(a.AsInt32(), b.AsInt32(), k.i32)
		case tensor.Int64:
			inplaceEW(a.AsInt64(), b.AsInt64(), k.i64)
		default:
			panic(fmt.Sprintf("%s: unsupported dtype %s", name, a.DType()))
		}
		return a
	}

	result, err := tensor.NewRaw(outShape, a.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("%s: failed to create result tensor: %v", name, err))
	}

	switch a.DType() {
	case tensor.Float32:
		binaryEW(result.AsFloat32(), a.AsFloat32(), b.AsFloat32(), a.Shape(), b.Shape(), outShape, k.f32)
	case tensor.Float64:
		binaryEW(result.AsFloat64(), a.AsFloat64(), b.AsFloat64(), a.Shape(), b.Shape(), outShape, k.f64)
	case tensor.Int32:
		binaryEW(result.AsInt32(), a.AsInt32(), b.AsInt32(), a.Shape(), b.Shape(), outShape, k.i32)
	case tensor.Int64:
		binaryEW(result.AsInt64(), a.AsInt64(), b.AsInt64(), a.Shape(), b.Shape(), outShape, k.i64)
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", name, a.DType()))
	}

	return result
}
