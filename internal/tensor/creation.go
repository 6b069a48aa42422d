package tensor

import (
	"math"
	"math/rand"
)

// Zeros creates a tensor filled with zeros.
//
// Example:
//
//	backend := cpu.New()
//	t := tensor.Zeros[float32](Shape{3, 4}, backend)
func Zeros[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	var dummy T
	raw, err := NewRaw(shape, inferDataType(dummy), b.Device())
	if err != nil {
		panic(err) // shape validation should prevent this
	}

	// Data is already zero-initialized by make()
	return New[T, B](raw, b)
}

// Ones creates a tensor filled with ones.
func Ones[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return Full[T, B](shape, one[T](), b)
}

// Full creates a tensor filled with a specific value.
//
// Example:
//
//	t := tensor.Full[float32](Shape{3, 3}, 3.14, backend)
func Full[T DType, B Backend](shape Shape, value T, b B) *Tensor[T, B] {
	t := Zeros[T, B](shape, b)
	data := t.Data()
	for i := range data {
		data[i] = value
	}
	return t
}

// Scalar creates a 0-D tensor holding a single value.
//
// Example:
//
//	p := tensor.Scalar[float32](0.5, backend)
func Scalar[T DType, B Backend](value T, b B) *Tensor[T, B] {
	return Full[T, B](Shape{}, value, b)
}

func one[T DType]() T {
	var dummy T
	var v any
	switch any(dummy).(type) {
	case float32:
		v = float32(1)
	case float64:
		v = float64(1)
	case int32:
		v = int32(1)
	case int64:
		v = int64(1)
	case bool:
		v = true
	}
	return v.(T)
}

// Rand creates a tensor with random values uniformly distributed in [0, 1).
// Only works with float types.
// Note: uses math/rand (not crypto/rand) - appropriate for ML/statistical purposes.
func Rand[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	t := Zeros[T, B](shape, b)
	fillUniform(t, 0, 1)
	return t
}

// Uniform creates a tensor with random values uniformly distributed in [min, max).
// Only works with float types.
//
// Example:
//
//	u := tensor.Uniform[float32](Shape{2, 2}, 1e-38, 1.0, backend)
func Uniform[T DType, B Backend](shape Shape, min, max float64, b B) *Tensor[T, B] {
	t := Zeros[T, B](shape, b)
	fillUniform(t, min, max)
	return t
}

func fillUniform[T DType, B Backend](t *Tensor[T, B], min, max float64) {
	span := max - min
	switch data := any(t.Data()).(type) {
	case []float32:
		for i := range data {
			data[i] = float32(min + span*rand.Float64()) //nolint:gosec // G404: ML sampling uses math/rand for reproducibility
		}
	case []float64:
		for i := range data {
			data[i] = min + span*rand.Float64() //nolint:gosec // G404: ML sampling uses math/rand for reproducibility
		}
	default:
		panic("uniform random fill only supports float32 and float64 types")
	}
}

// Randn creates a tensor with random values from a normal distribution (mean=0, std=1).
// Uses the Box-Muller transform. Only works with float types.
func Randn[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	t := Zeros[T, B](shape, b)

	switch data := any(t.Data()).(type) {
	case []float32:
		for i := 0; i < len(data); i += 2 {
			z0, z1 := boxMuller()
			data[i] = float32(z0)
			if i+1 < len(data) {
				data[i+1] = float32(z1)
			}
		}
	case []float64:
		for i := 0; i < len(data); i += 2 {
			z0, z1 := boxMuller()
			data[i] = z0
			if i+1 < len(data) {
				data[i+1] = z1
			}
		}
	default:
		panic("Randn only supports float32 and float64 types")
	}
	return t
}

func boxMuller() (float64, float64) {
	u1 := rand.Float64() //nolint:gosec // G404: ML sampling uses math/rand for reproducibility
	u2 := rand.Float64() //nolint:gosec // G404: ML sampling uses math/rand for reproducibility
	r := math.Sqrt(-2.0 * math.Log(u1))
	return r * math.Cos(2.0*math.Pi*u2), r * math.Sin(2.0*math.Pi*u2)
}

// Arange creates a 1D tensor with values from start to end (exclusive), step 1.
//
// Example:
//
//	t := tensor.Arange[int32](0, 10, backend) // [0, 1, 2, ..., 9]
func Arange[T DType, B Backend](start, end T, b B) *Tensor[T, B] {
	n := arangeLen(start, end)
	if n <= 0 {
		panic("arange: end must be greater than start")
	}

	t := Zeros[T, B](Shape{n}, b)
	switch data := any(t.Data()).(type) {
	case []float32:
		s := any(start).(float32)
		for i := range data {
			data[i] = s + float32(i)
		}
	case []float64:
		s := any(start).(float64)
		for i := range data {
			data[i] = s + float64(i)
		}
	case []int32:
		s := any(start).(int32)
		for i := range data {
			data[i] = s + int32(i) //nolint:gosec // G115: i is within valid range
		}
	case []int64:
		s := any(start).(int64)
		for i := range data {
			data[i] = s + int64(i)
		}
	default:
		panic("arange: unsupported type")
	}
	return t
}

func arangeLen[T DType](start, end T) int {
	switch s := any(start).(type) {
	case float32:
		return int(any(end).(float32) - s)
	case float64:
		return int(any(end).(float64) - s)
	case int32:
		return int(any(end).(int32) - s)
	case int64:
		return int(any(end).(int64) - s)
	default:
		panic("arange: unsupported type")
	}
}
