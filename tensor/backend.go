// Copyright 2025 Flint ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import "github.com/flint-ml/flint/internal/tensor"

// Backend defines the interface that all compute backends must implement.
// Backends handle the actual computation for tensor operations.
//
// Implementations:
//   - backend/cpu: Pure Go
//   - backend/webgpu: Cross-platform GPU compute via WebGPU
//
// Decorator backends for additional functionality:
//   - autodiff: Automatic differentiation (wraps any backend)
//
// Example:
//
//	backend := cpu.New()
//	x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
//	y := tensor.Ones[float32](tensor.Shape{2, 3}, backend)
//	z := x.Add(y)  // Uses backend.Add under the hood
type Backend interface {
	// Element-wise binary operations (NumPy-style broadcasting).
	Add(a, b *RawTensor) *RawTensor // Element-wise addition.
	Sub(a, b *RawTensor) *RawTensor // Element-wise subtraction.
	Mul(a, b *RawTensor) *RawTensor // Element-wise multiplication.
	Div(a, b *RawTensor) *RawTensor // Element-wise division.

	// Scalar operations (element-wise with scalar).
	AddScalar(x *RawTensor, scalar any) *RawTensor // Add scalar.
	SubScalar(x *RawTensor, scalar any) *RawTensor // Subtract scalar.
	MulScalar(x *RawTensor, scalar any) *RawTensor // Multiply by scalar.
	DivScalar(x *RawTensor, scalar any) *RawTensor // Divide by scalar.

	// PowScalar raises each element to the given power.
	PowScalar(x *RawTensor, power float64) *RawTensor

	// Math operations (element-wise).
	Exp(x *RawTensor) *RawTensor   // Exponential.
	Log(x *RawTensor) *RawTensor   // Natural logarithm.
	Log1p(x *RawTensor) *RawTensor // log(1+x), accurate near zero.
	Floor(x *RawTensor) *RawTensor // Round toward negative infinity.
	Sqrt(x *RawTensor) *RawTensor  // Square root.

	// Comparison operations (element-wise, return bool tensor).
	Greater(a, b *RawTensor) *RawTensor      // a > b.
	Lower(a, b *RawTensor) *RawTensor        // a < b.
	GreaterEqual(a, b *RawTensor) *RawTensor // a >= b.
	LowerEqual(a, b *RawTensor) *RawTensor   // a <= b.
	Equal(a, b *RawTensor) *RawTensor        // a == b.
	NotEqual(a, b *RawTensor) *RawTensor     // a != b.

	// Boolean operations (element-wise on bool tensors).
	Or(a, b *RawTensor) *RawTensor  // Logical OR.
	And(a, b *RawTensor) *RawTensor // Logical AND.
	Not(x *RawTensor) *RawTensor    // Logical NOT.

	// Shape operations.
	Reshape(t *RawTensor, newShape Shape) *RawTensor // Reshape tensor.
	Transpose(t *RawTensor, axes ...int) *RawTensor  // Transpose dimensions.

	// Manipulation operations.
	Split(x *RawTensor, sizes []int, dim int) []*RawTensor // Split into parts of the given sizes.
	Cat(tensors []*RawTensor, dim int) *RawTensor          // Concatenate along dimension.

	// Type conversion.
	Cast(x *RawTensor, dtype DataType) *RawTensor // Cast to different data type.

	// Metadata.
	Name() string   // Backend name (e.g., "CPU", "WebGPU").
	Device() Device // Device type.
}

// Compile-time check that the internal Backend matches the public one.
var _ Backend = tensor.Backend(nil)
