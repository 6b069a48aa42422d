// Package nn implements neural network modules for the Flint ML framework.
//
// Modules are generic over the compute backend, so the same model code runs
// on CPU, WebGPU, or an autodiff-wrapped backend.
package nn

import (
	"github.com/flint-ml/flint/internal/tensor"
)

// Module is the base interface for single-output neural network components.
//
// Multi-output modules such as HeadSplit expose their own Forward signature
// and implement only the Parameters side of this contract.
//
// Type parameter B must satisfy the tensor.Backend interface.
type Module[B tensor.Backend] interface {
	// Forward computes the output of the module given an input tensor.
	Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B]

	// Parameters returns all trainable parameters of this module.
	// Returns an empty slice for modules without trainable parameters.
	Parameters() []*Parameter[B]
}
