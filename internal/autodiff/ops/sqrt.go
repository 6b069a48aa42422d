package ops

import "github.com/flint-ml/flint/internal/tensor"

// SqrtOp represents the square root: output = √x.
//
// Backward: d(√x)/dx = 1/(2√x) = 0.5/output, so grad_x = outputGrad * 0.5 / output.
type SqrtOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewSqrtOp creates a new SqrtOp.
func NewSqrtOp(input, output *tensor.RawTensor) *SqrtOp {
	return &SqrtOp{input: input, output: output}
}

func (op *SqrtOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	half := backend.MulScalar(outputGrad, scalarOf(outputGrad.DType(), 0.5))
	return []*tensor.RawTensor{backend.Div(half, op.output)}
}

func (op *SqrtOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

func (op *SqrtOp) Output() *tensor.RawTensor { return op.output }
