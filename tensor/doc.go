// Copyright 2025 Flint ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides type-safe tensor operations for the Flint ML framework.
//
// # Overview
//
// Tensors are the fundamental data structure in Flint. This package provides:
//   - Generic type-safe tensors (Tensor[T, B])
//   - NumPy-style broadcasting
//   - Zero-copy operations where possible
//   - Device abstraction (CPU, WebGPU)
//
// # Basic Usage
//
//	import (
//	    "github.com/flint-ml/flint/backend/cpu"
//	    "github.com/flint-ml/flint/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//
//	    x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
//	    y := tensor.Ones[float32](tensor.Shape{2, 3}, backend)
//
//	    z := x.Add(y)
//	    heads := z.Reshape(2, 3, 1, -1)
//	}
//
// # Supported Data Types
//
// The tensor package supports the following data types via the DType constraint:
//   - float32, float64 (floating-point)
//   - int32, int64 (signed integers)
//   - bool (boolean masks)
//
// # Broadcasting
//
// Element-wise operations follow NumPy broadcasting rules:
//
//	a := tensor.Zeros[float32](tensor.Shape{3, 1}, backend) // (3, 1)
//	b := tensor.Ones[float32](tensor.Shape{3, 4}, backend)  // (3, 4)
//	c := a.Add(b)                                           // (3, 4)
//
// # Memory Management
//
// The underlying data is reference-counted, and operations reuse buffers
// when the receiver holds the only reference.
package tensor
