package ops

import "github.com/flint-ml/flint/internal/tensor"

// DivOp represents element-wise division: output = a / b.
//
// Backward: d(a/b)/da = 1/b, d(a/b)/db = -a/b².
type DivOp struct {
	inputs []*tensor.RawTensor // [a, b]
	output *tensor.RawTensor
}

// NewDivOp creates a new DivOp.
func NewDivOp(a, b, output *tensor.RawTensor) *DivOp {
	return &DivOp{
		inputs: []*tensor.RawTensor{a, b},
		output: output,
	}
}

func (op *DivOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	a, b := op.inputs[0], op.inputs[1]

	gradA := reduceBroadcast(backend.Div(outputGrad, b), a.Shape(), backend)

	// grad_b = -grad * a / b²
	bSquared := backend.Mul(b, b)
	gradB := negate(backend.Div(backend.Mul(outputGrad, a), bSquared), backend)
	gradB = reduceBroadcast(gradB, b.Shape(), backend)

	return []*tensor.RawTensor{gradA, gradB}
}

func (op *DivOp) Inputs() []*tensor.RawTensor { return op.inputs }

func (op *DivOp) Output() *tensor.RawTensor { return op.output }
