// Copyright 2025 Flint ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides neural network layers and building blocks.
//
// # Basic Usage
//
//	import (
//	    "github.com/flint-ml/flint/backend/cpu"
//	    "github.com/flint-ml/flint/nn"
//	    "github.com/flint-ml/flint/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//
//	    // Split attention input into per-head query/key sections
//	    layer := nn.NewHeadSplit[*cpu.Backend](8, []int{16, 64})
//	    outputs := layer.Forward(x) // x: [batch, seq, features]
//	}
package nn

import (
	"github.com/flint-ml/flint/internal/nn"
	"github.com/flint-ml/flint/internal/tensor"
)

// Module interface defines the common interface for all neural network modules.
type Module[B tensor.Backend] = nn.Module[B]

// Parameter represents a trainable parameter in a neural network.
type Parameter[B tensor.Backend] = nn.Parameter[B]

// NewParameter creates a new parameter with the given name and tensor.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) *Parameter[B] {
	return nn.NewParameter(name, t)
}

// HeadSplit reshapes a [batch, seq, features] tensor into attention heads
// and splits the last dimension into sections, transposing each part to
// [batch, heads, seq, section].
type HeadSplit[B tensor.Backend] = nn.HeadSplit[B]

// NewHeadSplit creates a head-splitting layer.
//
// Example:
//
//	layer := nn.NewHeadSplit[*cpu.Backend](8, []int{16, 64})
func NewHeadSplit[B tensor.Backend](heads int, sections []int) *HeadSplit[B] {
	return nn.NewHeadSplit[B](heads, sections)
}
