package ops

import "github.com/flint-ml/flint/internal/tensor"

// SubOp represents element-wise subtraction: output = a - b.
//
// Backward: d(a-b)/da = 1, d(a-b)/db = -1.
type SubOp struct {
	inputs []*tensor.RawTensor // [a, b]
	output *tensor.RawTensor
}

// NewSubOp creates a new SubOp.
func NewSubOp(a, b, output *tensor.RawTensor) *SubOp {
	return &SubOp{
		inputs: []*tensor.RawTensor{a, b},
		output: output,
	}
}

func (op *SubOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	a, b := op.inputs[0], op.inputs[1]
	return []*tensor.RawTensor{
		reduceBroadcast(outputGrad, a.Shape(), backend),
		reduceBroadcast(negate(outputGrad, backend), b.Shape(), backend),
	}
}

func (op *SubOp) Inputs() []*tensor.RawTensor { return op.inputs }

func (op *SubOp) Output() *tensor.RawTensor { return op.output }
