package cpu

import (
	"fmt"

	"github.com/flint-ml/flint/internal/tensor"
)

// Scalar operations: element-wise operations between a tensor and a scalar.
// The scalar's Go type must match the tensor's dtype.

// AddScalar adds a scalar value to each element of the tensor.
func (cpu *CPUBackend) AddScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	return cpu.withScalar("addScalar", x, scalar, kernels{
		f32: func(v, s float32) float32 { return v + s },
		f64: func(v, s float64) float64 { return v + s },
		i32: func(v, s int32) int32 { return v + s },
		i64: func(v, s int64) int64 { return v + s },
	})
}

// SubScalar subtracts a scalar value from each element of the tensor.
func (cpu *CPUBackend) SubScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	return cpu.withScalar("subScalar", x, scalar, kernels{
		f32: func(v, s float32) float32 { return v - s },
		f64: func(v, s float64) float64 { return v - s },
		i32: func(v, s int32) int32 { return v - s },
		i64: func(v, s int64) int64 { return v - s },
	})
}

// MulScalar multiplies each element of the tensor by a scalar value.
func (cpu *CPUBackend) MulScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	return cpu.withScalar("mulScalar", x, scalar, kernels{
		f32: func(v, s float32) float32 { return v * s },
		f64: func(v, s float64) float64 { return v * s },
		i32: func(v, s int32) int32 { return v * s },
		i64: func(v, s int64) int64 { return v * s },
	})
}

// DivScalar divides each element of the tensor by a scalar value.
func (cpu *CPUBackend) DivScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	return cpu.withScalar("divScalar", x, scalar, kernels{
		f32: func(v, s float32) float32 { return v / s },
		f64: func(v, s float64) float64 { return v / s },
		i32: func(v, s int32) int32 { return v / s },
		i64: func(v, s int64) int64 { return v / s },
	})
}

func (cpu *CPUBackend) withScalar(name string, x *tensor.RawTensor, scalar any, k kernels) *tensor.RawTensor {
	result, err := tensor.NewRaw(x.Shape(), x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("%s: failed to create result tensor: %v", name, err))
	}

	switch x.DType() {
	case tensor.Float32:
		s, ok := scalar.(float32)
		if !ok {
			panic(fmt.Sprintf("%s: scalar type %T does not match dtype float32", name, scalar))
		}
		unaryEW(result.AsFloat32(), x.AsFloat32(), func(v float32) float32 { return k.f32(v, s) })
	case tensor.Float64:
		s, ok := scalar.(float64)
		if !ok {
			panic(fmt.Sprintf("%s: scalar type %T does not match dtype float64", name, scalar))
		}
		unaryEW(result.AsFloat64(), x.AsFloat64(), func(v float64) float64 { return k.f64(v, s) })
	case tensor.Int32:
		s, ok := scalar.(int32)
		if !ok {
			panic(fmt.Sprintf("%s: scalar type %T does not match dtype int32", name, scalar))
		}
		unaryEW(result.AsInt32(), x.AsInt32(), func(v int32) int32 { return k.i32(v, s) })
	case tensor.Int64:
		s, ok := scalar.(int64)
		if !ok {
			panic(fmt.Sprintf("%s: scalar type %T does not match dtype int64", name, scalar))
		}
		unaryEW(result.AsInt64(), x.AsInt64(), func(v int64) int64 { return k.i64(v, s) })
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", name, x.DType()))
	}

	return result
}
