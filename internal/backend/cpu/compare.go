package cpu

import (
	"fmt"

	"github.com/flint-ml/flint/internal/tensor"
)

// predicates bundles the per-dtype implementations of a comparison.
type predicates struct {
	f32 func(float32, float32) bool
	f64 func(float64, float64) bool
	i32 func(int32, int32) bool
	i64 func(int64, int64) bool
}

// Greater returns a bool tensor reporting a > b element-wise.
func (cpu *CPUBackend) Greater(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.compare("greater", a, b, predicates{
		f32: func(x, y float32) bool { return x > y },
		f64: func(x, y float64) bool { return x > y },
		i32: func(x, y int32) bool { return x > y },
		i64: func(x, y int64) bool { return x > y },
	})
}

// Lower returns a bool tensor reporting a < b element-wise.
func (cpu *CPUBackend) Lower(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.compare("lower", a, b, predicates{
		f32: func(x, y float32) bool { return x < y },
		f64: func(x, y float64) bool { return x < y },
		i32: func(x, y int32) bool { return x < y },
		i64: func(x, y int64) bool { return x < y },
	})
}

// GreaterEqual returns a bool tensor reporting a >= b element-wise.
func (cpu *CPUBackend) GreaterEqual(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.compare("greaterEqual", a, b, predicates{
		f32: func(x, y float32) bool { return x >= y },
		f64: func(x, y float64) bool { return x >= y },
		i32: func(x, y int32) bool { return x >= y },
		i64: func(x, y int64) bool { return x >= y },
	})
}

// LowerEqual returns a bool tensor reporting a <= b element-wise.
func (cpu *CPUBackend) LowerEqual(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.compare("lowerEqual", a, b, predicates{
		f32: func(x, y float32) bool { return x <= y },
		f64: func(x, y float64) bool { return x <= y },
		i32: func(x, y int32) bool { return x <= y },
		i64: func(x, y int64) bool { return x <= y },
	})
}

// Equal returns a bool tensor reporting a == b element-wise.
func (cpu *CPUBackend) Equal(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.compare("equal", a, b, predicates{
		f32: func(x, y float32) bool { return x == y },
		f64: func(x, y float64) bool { return x == y },
		i32: func(x, y int32) bool { return x == y },
		i64: func(x, y int64) bool { return x == y },
	})
}

// NotEqual returns a bool tensor reporting a != b element-wise.
func (cpu *CPUBackend) NotEqual(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.compare("notEqual", a, b, predicates{
		f32: func(x, y float32) bool { return x != y },
		f64: func(x, y float64) bool { return x != y },
		i32: func(x, y int32) bool { return x != y },
		i64: func(x, y int64) bool { return x != y },
	})
}

func (cpu *CPUBackend) compare(name string, a, b *tensor.RawTensor, p predicates) *tensor.RawTensor {
	if a.DType() != b.DType() {
		panic(fmt.Sprintf("%s: dtype mismatch: %s vs %s", name, a.DType(), b.DType()))
	}

	outShape, _, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(fmt.Sprintf("%s: %v", name, err))
	}

	result, err := tensor.NewRaw(outShape, tensor.Bool, cpu.device)
	if err != nil {
		panic(fmt.Sprintf("%s: %v", name, err))
	}

	switch a.DType() {
	case tensor.Float32:
		binaryEW(result.AsBool(), a.AsFloat32(), b.AsFloat32(), a.Shape(), b.Shape(), outShape, p.f32)
	case tensor.Float64:
		binaryEW(result.AsBool(), a.AsFloat64(), b.AsFloat64(), a.Shape(), b.Shape(), outShape, p.f64)
	case tensor.Int32:
		binaryEW(result.AsBool(), a.AsInt32(), b.AsInt32(), a.Shape(), b.Shape(), outShape, p.i32)
	case tensor.Int64:
		binaryEW(result.AsBool(), a.AsInt64(), b.AsInt64(), a.Shape(), b.Shape(), outShape, p.i64)
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", name, a.DType()))
	}

	return result
}

// Or computes element-wise logical OR on bool tensors, with broadcasting.
func (cpu *CPUBackend) Or(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.boolBinary("or", a, b, func(x, y bool) bool { return x || y })
}

// And computes element-wise logical AND on bool tensors, with broadcasting.
func (cpu *CPUBackend) And(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.boolBinary("and", a, b, func(x, y bool) bool { return x && y })
}

// Not computes element-wise logical NOT of a bool tensor.
func (cpu *CPUBackend) Not(x *tensor.RawTensor) *tensor.RawTensor {
	if x.DType() != tensor.Bool {
		panic(fmt.Sprintf("not: expected bool tensor, got %s", x.DType()))
	}

	result, err := tensor.NewRaw(x.Shape(), tensor.Bool, cpu.device)
	if err != nil {
		panic(fmt.Sprintf("not: %v", err))
	}
	unaryEW(result.AsBool(), x.AsBool(), func(v bool) bool { return !v })
	return result
}

func (cpu *CPUBackend) boolBinary(name string, a, b *tensor.RawTensor, f func(bool, bool) bool) *tensor.RawTensor {
	if a.DType() != tensor.Bool || b.DType() != tensor.Bool {
		panic(fmt.Sprintf("%s: expected bool tensors, got %s and %s", name, a.DType(), b.DType()))
	}

	outShape, _, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(fmt.Sprintf("%s: %v", name, err))
	}

	result, err := tensor.NewRaw(outShape, tensor.Bool, cpu.device)
	if err != nil {
		panic(fmt.Sprintf("%s: %v", name, err))
	}
	binaryEW(result.AsBool(), a.AsBool(), b.AsBool(), a.Shape(), b.Shape(), outShape, f)
	return result
}
