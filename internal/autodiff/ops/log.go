package ops

import "github.com/flint-ml/flint/internal/tensor"

// LogOp represents the natural logarithm: output = ln(x).
//
// Backward: d(ln x)/dx = 1/x, so grad_x = outputGrad / x.
type LogOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewLogOp creates a new LogOp.
func NewLogOp(input, output *tensor.RawTensor) *LogOp {
	return &LogOp{input: input, output: output}
}

func (op *LogOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{backend.Div(outputGrad, op.input)}
}

func (op *LogOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

func (op *LogOp) Output() *tensor.RawTensor { return op.output }
