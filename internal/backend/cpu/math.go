package cpu

import (
	"fmt"
	"math"

	"github.com/flint-ml/flint/internal/tensor"
)

// unary dispatches a float-only element-wise unary operation by dtype.
func (cpu *CPUBackend) unary(name string, x *tensor.RawTensor, f func(float64) float64) *tensor.RawTensor {
	result, err := tensor.NewRaw(x.Shape(), x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("%s: %v", name, err))
	}

	switch x.DType() {
	case tensor.Float32:
		unaryEW(result.AsFloat32(), x.AsFloat32(), func(v float32) float32 { return float32(f(float64(v))) })
	case tensor.Float64:
		unaryEW(result.AsFloat64(), x.AsFloat64(), f)
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s (only float32/float64 supported)", name, x.DType()))
	}

	return result
}

// Exp computes element-wise exponential: exp(x).
func (cpu *CPUBackend) Exp(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unary("exp", x, math.Exp)
}

// Log computes element-wise natural logarithm: ln(x).
// Log(0) yields -Inf (IEEE semantics); negative input is a domain error.
func (cpu *CPUBackend) Log(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unary("log", x, func(v float64) float64 {
		if v < 0 {
			panic(fmt.Sprintf("log: negative value %f", v))
		}
		return math.Log(v)
	})
}

// Log1p computes element-wise log(1+x), accurate for x near zero.
// Log1p(-1) yields -Inf; input below -1 is a domain error.
func (cpu *CPUBackend) Log1p(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unary("log1p", x, func(v float64) float64 {
		if v < -1 {
			panic(fmt.Sprintf("log1p: value %f below -1", v))
		}
		return math.Log1p(v)
	})
}

// Floor rounds each element toward negative infinity.
func (cpu *CPUBackend) Floor(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unary("floor", x, math.Floor)
}

// Sqrt computes element-wise square root: sqrt(x).
func (cpu *CPUBackend) Sqrt(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unary("sqrt", x, func(v float64) float64 {
		if v < 0 {
			panic(fmt.Sprintf("sqrt: negative value %f", v))
		}
		return math.Sqrt(v)
	})
}

// PowScalar raises each element to the given power: x^p.
func (cpu *CPUBackend) PowScalar(x *tensor.RawTensor, power float64) *tensor.RawTensor {
	return cpu.unary("pow", x, func(v float64) float64 {
		return math.Pow(v, power)
	})
}
