package ops

import "github.com/flint-ml/flint/internal/tensor"

// Log1pOp represents output = ln(1 + x).
//
// Backward: d(ln(1+x))/dx = 1/(1+x), so grad_x = outputGrad / (1 + x).
type Log1pOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewLog1pOp creates a new Log1pOp.
func NewLog1pOp(input, output *tensor.RawTensor) *Log1pOp {
	return &Log1pOp{input: input, output: output}
}

func (op *Log1pOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	onePlusX := backend.AddScalar(op.input, scalarOf(op.input.DType(), 1))
	return []*tensor.RawTensor{backend.Div(outputGrad, onePlusX)}
}

func (op *Log1pOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

func (op *Log1pOp) Output() *tensor.RawTensor { return op.output }
