// Package ops defines the differentiable operations recorded on the gradient tape.
//
// Each operation captures its input and output RawTensors during the forward
// pass and computes input gradients from the output gradient during the
// backward pass.
package ops

import "github.com/flint-ml/flint/internal/tensor"

// Operation represents a differentiable operation in the computation graph.
type Operation interface {
	// Backward computes gradients for inputs given the output gradient.
	// Returns one gradient per input tensor, in input order.
	Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor

	// Inputs returns the input tensors for this operation.
	Inputs() []*tensor.RawTensor

	// Output returns the output tensor produced by this operation.
	Output() *tensor.RawTensor
}

// MultiOutputOperation represents an operation that produces multiple outputs,
// such as Split. The tape collects gradients for ALL outputs before calling
// BackwardMulti; Backward is never invoked for these operations.
type MultiOutputOperation interface {
	Operation

	// Outputs returns all output tensors produced by this operation.
	Outputs() []*tensor.RawTensor

	// BackwardMulti computes input gradients given gradients for ALL outputs.
	BackwardMulti(outputGrads []*tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor
}
