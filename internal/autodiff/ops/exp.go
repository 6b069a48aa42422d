package ops

import "github.com/flint-ml/flint/internal/tensor"

// ExpOp represents the exponential: output = e^x.
//
// Backward: d(e^x)/dx = e^x = output, so grad_x = outputGrad * output.
type ExpOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewExpOp creates a new ExpOp.
func NewExpOp(input, output *tensor.RawTensor) *ExpOp {
	return &ExpOp{input: input, output: output}
}

func (op *ExpOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{backend.Mul(outputGrad, op.output)}
}

func (op *ExpOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

func (op *ExpOp) Output() *tensor.RawTensor { return op.output }
