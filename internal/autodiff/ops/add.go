package ops

import "github.com/flint-ml/flint/internal/tensor"

// AddOp represents element-wise addition: output = a + b.
//
// Backward: d(a+b)/da = d(a+b)/db = 1, so the output gradient flows to both
// inputs, reduced along any broadcast dimensions.
type AddOp struct {
	inputs []*tensor.RawTensor // [a, b]
	output *tensor.RawTensor
}

// NewAddOp creates a new AddOp.
func NewAddOp(a, b, output *tensor.RawTensor) *AddOp {
	return &AddOp{
		inputs: []*tensor.RawTensor{a, b},
		output: output,
	}
}

func (op *AddOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	a, b := op.inputs[0], op.inputs[1]
	return []*tensor.RawTensor{
		reduceBroadcast(outputGrad, a.Shape(), backend),
		reduceBroadcast(outputGrad, b.Shape(), backend),
	}
}

func (op *AddOp) Inputs() []*tensor.RawTensor { return op.inputs }

func (op *AddOp) Output() *tensor.RawTensor { return op.output }
