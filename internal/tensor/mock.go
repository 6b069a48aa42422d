package tensor

import (
	"fmt"
	"math"
)

// Verify that MockBackend implements Backend.
var _ Backend = (*MockBackend)(nil)

// MockBackend is a simple backend for testing.
// It implements all operations naively for correctness verification.
type MockBackend struct{}

// NewMockBackend creates a new MockBackend.
func NewMockBackend() *MockBackend {
	return &MockBackend{}
}

// Name returns the backend name.
func (m *MockBackend) Name() string {
	return "mock"
}

// Device returns the device type.
func (m *MockBackend) Device() Device {
	return CPU
}

// Add performs element-wise addition with broadcasting.
func (m *MockBackend) Add(a, b *RawTensor) *RawTensor {
	return m.elementWise(a, b, func(x, y float64) float64 { return x + y })
}

// Sub performs element-wise subtraction with broadcasting.
func (m *MockBackend) Sub(a, b *RawTensor) *RawTensor {
	return m.elementWise(a, b, func(x, y float64) float64 { return x - y })
}

// Mul performs element-wise multiplication with broadcasting.
func (m *MockBackend) Mul(a, b *RawTensor) *RawTensor {
	return m.elementWise(a, b, func(x, y float64) float64 { return x * y })
}

// Div performs element-wise division with broadcasting.
func (m *MockBackend) Div(a, b *RawTensor) *RawTensor {
	return m.elementWise(a, b, func(x, y float64) float64 { return x / y })
}

// AddScalar adds a scalar to each element.
func (m *MockBackend) AddScalar(x *RawTensor, scalar any) *RawTensor {
	s := scalarToFloat64(scalar)
	return m.unary(x, func(v float64) float64 { return v + s })
}

// SubScalar subtracts a scalar from each element.
func (m *MockBackend) SubScalar(x *RawTensor, scalar any) *RawTensor {
	s := scalarToFloat64(scalar)
	return m.unary(x, func(v float64) float64 { return v - s })
}

// MulScalar multiplies each element by a scalar.
func (m *MockBackend) MulScalar(x *RawTensor, scalar any) *RawTensor {
	s := scalarToFloat64(scalar)
	return m.unary(x, func(v float64) float64 { return v * s })
}

// DivScalar divides each element by a scalar.
func (m *MockBackend) DivScalar(x *RawTensor, scalar any) *RawTensor {
	s := scalarToFloat64(scalar)
	return m.unary(x, func(v float64) float64 { return v / s })
}

// PowScalar raises each element to the given power.
func (m *MockBackend) PowScalar(x *RawTensor, power float64) *RawTensor {
	return m.unary(x, func(v float64) float64 { return math.Pow(v, power) })
}

// Exp computes element-wise exponential.
func (m *MockBackend) Exp(x *RawTensor) *RawTensor {
	return m.unary(x, math.Exp)
}

// Log computes element-wise natural logarithm.
func (m *MockBackend) Log(x *RawTensor) *RawTensor {
	return m.unary(x, math.Log)
}

// Log1p computes element-wise log(1+x).
func (m *MockBackend) Log1p(x *RawTensor) *RawTensor {
	return m.unary(x, math.Log1p)
}

// Floor rounds each element toward negative infinity.
func (m *MockBackend) Floor(x *RawTensor) *RawTensor {
	return m.unary(x, math.Floor)
}

// Sqrt computes element-wise square root.
func (m *MockBackend) Sqrt(x *RawTensor) *RawTensor {
	return m.unary(x, math.Sqrt)
}

// Greater compares element-wise: a > b.
func (m *MockBackend) Greater(a, b *RawTensor) *RawTensor {
	return m.compare(a, b, func(x, y float64) bool { return x > y })
}

// Lower compares element-wise: a < b.
func (m *MockBackend) Lower(a, b *RawTensor) *RawTensor {
	return m.compare(a, b, func(x, y float64) bool { return x < y })
}

// GreaterEqual compares element-wise: a >= b.
func (m *MockBackend) GreaterEqual(a, b *RawTensor) *RawTensor {
	return m.compare(a, b, func(x, y float64) bool { return x >= y })
}

// LowerEqual compares element-wise: a <= b.
func (m *MockBackend) LowerEqual(a, b *RawTensor) *RawTensor {
	return m.compare(a, b, func(x, y float64) bool { return x <= y })
}

// Equal compares element-wise: a == b.
func (m *MockBackend) Equal(a, b *RawTensor) *RawTensor {
	return m.compare(a, b, func(x, y float64) bool { return x == y })
}

// NotEqual compares element-wise: a != b.
func (m *MockBackend) NotEqual(a, b *RawTensor) *RawTensor {
	return m.compare(a, b, func(x, y float64) bool { return x != y })
}

// Or computes element-wise logical OR on bool tensors.
func (m *MockBackend) Or(a, b *RawTensor) *RawTensor {
	return m.boolBinary(a, b, func(x, y bool) bool { return x || y })
}

// And computes element-wise logical AND on bool tensors.
func (m *MockBackend) And(a, b *RawTensor) *RawTensor {
	return m.boolBinary(a, b, func(x, y bool) bool { return x && y })
}

// Not computes element-wise logical NOT on a bool tensor.
func (m *MockBackend) Not(x *RawTensor) *RawTensor {
	result, err := NewRaw(x.Shape(), Bool, m.Device())
	if err != nil {
		panic(err)
	}
	src := x.AsBool()
	dst := result.AsBool()
	for i, v := range src {
		dst[i] = !v
	}
	return result
}

// Reshape returns a tensor with the same data and a new shape.
func (m *MockBackend) Reshape(t *RawTensor, newShape Shape) *RawTensor {
	if err := newShape.Validate(); err != nil {
		panic(err)
	}
	if t.NumElements() != newShape.NumElements() {
		panic(fmt.Sprintf("cannot reshape tensor with %d elements to shape %v (%d elements)",
			t.NumElements(), newShape, newShape.NumElements()))
	}

	result, err := NewRaw(newShape, t.DType(), m.Device())
	if err != nil {
		panic(err)
	}
	copy(result.Data(), t.Data())
	return result
}

// Transpose permutes tensor dimensions.
func (m *MockBackend) Transpose(t *RawTensor, axes ...int) *RawTensor {
	shape := t.Shape()

	// Default: reverse all dimensions
	if len(axes) == 0 {
		axes = make([]int, len(shape))
		for i := range axes {
			axes[i] = len(shape) - 1 - i
		}
	}

	if len(axes) != len(shape) {
		panic(fmt.Sprintf("axes length %d doesn't match tensor dimensions %d", len(axes), len(shape)))
	}

	newShape := make(Shape, len(shape))
	for i, axis := range axes {
		if axis < 0 || axis >= len(shape) {
			panic(fmt.Sprintf("axis %d out of bounds for tensor with %d dimensions", axis, len(shape)))
		}
		newShape[i] = shape[axis]
	}

	result, err := NewRaw(newShape, t.DType(), m.Device())
	if err != nil {
		panic(err)
	}

	tData := m.toFloat64Slice(t)
	resultData := make([]float64, len(tData))

	oldStrides := shape.ComputeStrides()
	newStrides := newShape.ComputeStrides()

	for i := 0; i < t.NumElements(); i++ {
		indices := make([]int, len(shape))
		temp := i
		for j := 0; j < len(shape); j++ {
			indices[j] = temp / oldStrides[j]
			temp %= oldStrides[j]
		}

		newIdx := 0
		for j, axis := range axes {
			newIdx += indices[axis] * newStrides[j]
		}

		resultData[newIdx] = tData[i]
	}

	m.fromFloat64Slice(resultData, result)
	return result
}

// Split divides the tensor into parts of the given sizes along a dimension.
func (m *MockBackend) Split(x *RawTensor, sizes []int, dim int) []*RawTensor {
	shape := x.Shape()
	if dim < 0 {
		dim += len(shape)
	}
	if dim < 0 || dim >= len(shape) {
		panic(fmt.Sprintf("split: dimension out of range for shape %v", shape))
	}

	total := 0
	for _, s := range sizes {
		total += s
	}
	if total != shape[dim] {
		panic(fmt.Sprintf("split: sizes %v do not sum to dimension %d of shape %v", sizes, dim, shape))
	}

	data := m.toFloat64Slice(x)
	strides := shape.ComputeStrides()
	outer := 1
	for i := 0; i < dim; i++ {
		outer *= shape[i]
	}
	inner := strides[dim]

	parts := make([]*RawTensor, len(sizes))
	offset := 0
	for p, size := range sizes {
		partShape := shape.Clone()
		partShape[dim] = size
		part, err := NewRaw(partShape, x.DType(), m.Device())
		if err != nil {
			panic(err)
		}

		partData := make([]float64, partShape.NumElements())
		for o := 0; o < outer; o++ {
			srcBase := o*shape[dim]*inner + offset*inner
			dstBase := o * size * inner
			copy(partData[dstBase:dstBase+size*inner], data[srcBase:srcBase+size*inner])
		}
		m.fromFloat64Slice(partData, part)

		parts[p] = part
		offset += size
	}
	return parts
}

// Cat concatenates tensors along a dimension.
func (m *MockBackend) Cat(tensors []*RawTensor, dim int) *RawTensor {
	if len(tensors) == 0 {
		panic("cat: at least one tensor required")
	}
	shape := tensors[0].Shape()
	if dim < 0 {
		dim += len(shape)
	}

	outShape := shape.Clone()
	outShape[dim] = 0
	for _, t := range tensors {
		outShape[dim] += t.Shape()[dim]
	}

	result, err := NewRaw(outShape, tensors[0].DType(), m.Device())
	if err != nil {
		panic(err)
	}

	outer := 1
	for i := 0; i < dim; i++ {
		outer *= outShape[i]
	}
	inner := outShape.ComputeStrides()[dim]

	outData := make([]float64, outShape.NumElements())
	offset := 0
	for _, t := range tensors {
		size := t.Shape()[dim]
		data := m.toFloat64Slice(t)
		for o := 0; o < outer; o++ {
			srcBase := o * size * inner
			dstBase := o*outShape[dim]*inner + offset*inner
			copy(outData[dstBase:dstBase+size*inner], data[srcBase:srcBase+size*inner])
		}
		offset += size
	}
	m.fromFloat64Slice(outData, result)
	return result
}

// Cast converts the tensor to a different data type.
func (m *MockBackend) Cast(x *RawTensor, dtype DataType) *RawTensor {
	result, err := NewRaw(x.Shape(), dtype, m.Device())
	if err != nil {
		panic(err)
	}
	if dtype == Bool {
		src := m.toFloat64Slice(x)
		dst := result.AsBool()
		for i, v := range src {
			dst[i] = v != 0
		}
		return result
	}
	if x.DType() == Bool {
		src := x.AsBool()
		data := make([]float64, len(src))
		for i, v := range src {
			if v {
				data[i] = 1
			}
		}
		m.fromFloat64Slice(data, result)
		return result
	}
	m.fromFloat64Slice(m.toFloat64Slice(x), result)
	return result
}

// unary applies a float operation to each element.
func (m *MockBackend) unary(x *RawTensor, op func(float64) float64) *RawTensor {
	result, err := NewRaw(x.Shape(), x.DType(), m.Device())
	if err != nil {
		panic(err)
	}
	data := m.toFloat64Slice(x)
	for i := range data {
		data[i] = op(data[i])
	}
	m.fromFloat64Slice(data, result)
	return result
}

// elementWise performs element-wise operations with broadcasting.
func (m *MockBackend) elementWise(a, b *RawTensor, op func(float64, float64) float64) *RawTensor {
	outShape, _, err := BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(err)
	}

	result, err := NewRaw(outShape, a.DType(), m.Device())
	if err != nil {
		panic(err)
	}

	aData := m.toFloat64Slice(a)
	bData := m.toFloat64Slice(b)
	resultData := make([]float64, outShape.NumElements())

	for i := range resultData {
		aIdx := m.broadcastIndex(i, outShape, a.Shape())
		bIdx := m.broadcastIndex(i, outShape, b.Shape())
		resultData[i] = op(aData[aIdx], bData[bIdx])
	}

	m.fromFloat64Slice(resultData, result)
	return result
}

// compare performs an element-wise comparison producing a bool tensor.
func (m *MockBackend) compare(a, b *RawTensor, op func(float64, float64) bool) *RawTensor {
	outShape, _, err := BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(err)
	}

	result, err := NewRaw(outShape, Bool, m.Device())
	if err != nil {
		panic(err)
	}

	aData := m.toFloat64Slice(a)
	bData := m.toFloat64Slice(b)
	out := result.AsBool()

	for i := range out {
		aIdx := m.broadcastIndex(i, outShape, a.Shape())
		bIdx := m.broadcastIndex(i, outShape, b.Shape())
		out[i] = op(aData[aIdx], bData[bIdx])
	}
	return result
}

func (m *MockBackend) boolBinary(a, b *RawTensor, op func(bool, bool) bool) *RawTensor {
	outShape, _, err := BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(err)
	}

	result, err := NewRaw(outShape, Bool, m.Device())
	if err != nil {
		panic(err)
	}

	aData := a.AsBool()
	bData := b.AsBool()
	out := result.AsBool()

	for i := range out {
		aIdx := m.broadcastIndex(i, outShape, a.Shape())
		bIdx := m.broadcastIndex(i, outShape, b.Shape())
		out[i] = op(aData[aIdx], bData[bIdx])
	}
	return result
}

// Helper functions

func (m *MockBackend) toFloat64Slice(t *RawTensor) []float64 {
	switch t.DType() {
	case Float32:
		src := t.AsFloat32()
		dst := make([]float64, len(src))
		for i, v := range src {
			dst[i] = float64(v)
		}
		return dst
	case Float64:
		src := t.AsFloat64()
		dst := make([]float64, len(src))
		copy(dst, src)
		return dst
	case Int32:
		src := t.AsInt32()
		dst := make([]float64, len(src))
		for i, v := range src {
			dst[i] = float64(v)
		}
		return dst
	case Int64:
		src := t.AsInt64()
		dst := make([]float64, len(src))
		for i, v := range src {
			dst[i] = float64(v)
		}
		return dst
	default:
		panic(fmt.Sprintf("unsupported dtype: %s", t.DType()))
	}
}

func (m *MockBackend) fromFloat64Slice(src []float64, t *RawTensor) {
	switch t.DType() {
	case Float32:
		dst := t.AsFloat32()
		for i, v := range src {
			dst[i] = float32(v)
		}
	case Float64:
		copy(t.AsFloat64(), src)
	case Int32:
		dst := t.AsInt32()
		for i, v := range src {
			dst[i] = int32(v)
		}
	case Int64:
		dst := t.AsInt64()
		for i, v := range src {
			dst[i] = int64(v)
		}
	}
}

func (m *MockBackend) broadcastIndex(flatIdx int, outShape, inShape Shape) int {
	outStrides := outShape.ComputeStrides()
	indices := make([]int, len(outShape))

	temp := flatIdx
	for i := 0; i < len(outShape); i++ {
		indices[i] = temp / outStrides[i]
		temp %= outStrides[i]
	}

	inStrides := inShape.ComputeStrides()
	inIdx := 0

	offset := len(outShape) - len(inShape)
	for i := 0; i < len(inShape); i++ {
		outDimIdx := indices[offset+i]
		// Broadcast dimensions of size 1 always read index 0.
		if inShape[i] == 1 {
			outDimIdx = 0
		}
		inIdx += outDimIdx * inStrides[i]
	}

	return inIdx
}

func scalarToFloat64(scalar any) float64 {
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
		panic(fmt.Sprintf("unsupported scalar type %T", scalar))
	}
}
