package cpu

import (
	"fmt"

	"github.com/flint-ml/flint/internal/tensor"
)

// Cast converts the tensor to the given data type.
// Numeric casts truncate toward zero like Go conversions.
// Casting to Bool yields x != 0; casting from Bool yields 0 or 1.
func (cpu *CPUBackend) Cast(x *tensor.RawTensor, dtype tensor.DataType) *tensor.RawTensor {
	result, err := tensor.NewRaw(x.Shape(), dtype, cpu.device)
	if err != nil {
		panic(fmt.Sprintf("cast: %v", err))
	}

	// Same dtype still copies: Clone would share storage, and a caller
	// writing through the cast result must not see the source change.
	if x.DType() == dtype {
		copy(result.Data(), x.Data())
		return result
	}

	switch x.DType() {
	case tensor.Float32:
		castFrom(result, x.AsFloat32())
	case tensor.Float64:
		castFrom(result, x.AsFloat64())
	case tensor.Int32:
		castFrom(result, x.AsInt32())
	case tensor.Int64:
		castFrom(result, x.AsInt64())
	case tensor.Bool:
		castFromBool(result, x.AsBool())
	default:
		panic(fmt.Sprintf("cast: unsupported source dtype %s", x.DType()))
	}

	return result
}

type numeric interface {
	~float32 | ~float64 | ~int32 | ~int64
}

func castFrom[T numeric](dst *tensor.RawTensor, src []T) {
	switch dst.DType() {
	case tensor.Float32:
		out := dst.AsFloat32()
		for i, v := range src {
			out[i] = float32(v)
		}
	case tensor.Float64:
		out := dst.AsFloat64()
		for i, v := range src {
			out[i] = float64(v)
		}
	case tensor.Int32:
		out := dst.AsInt32()
		for i, v := range src {
			out[i] = int32(v)
		}
	case tensor.Int64:
		out := dst.AsInt64()
		for i, v := range src {
			out[i] = int64(v)
		}
	case tensor.Bool:
		out := dst.AsBool()
		for i, v := range src {
			out[i] = v != 0
		}
	default:
		panic(fmt.Sprintf("cast: unsupported target dtype %s", dst.DType()))
	}
}

func castFromBool(dst *tensor.RawTensor, src []bool) {
	switch dst.DType() {
	case tensor.Float32:
		out := dst.AsFloat32()
		for i, v := range src {
			if v {
				out[i] = 1
			}
		}
	case tensor.Float64:
		out := dst.AsFloat64()
		for i, v := range src {
			if v {
				out[i] = 1
			}
		}
	case tensor.Int32:
		out := dst.AsInt32()
		for i, v := range src {
			if v {
				out[i] = 1
			}
		}
	case tensor.Int64:
		out := dst.AsInt64()
		for i, v := range src {
			if v {
				out[i] = 1
			}
		}
	default:
		panic(fmt.Sprintf("cast: unsupported target dtype %s", dst.DType()))
	}
}
