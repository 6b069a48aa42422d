package ops

import "github.com/flint-ml/flint/internal/tensor"

// FloorOp represents output = floor(x).
//
// Backward: floor is piecewise constant, so the gradient is zero everywhere
// it is defined. A zero tensor keeps gradient flow well-defined for graphs
// that pass through a floor, such as inverse-CDF sampling.
type FloorOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewFloorOp creates a new FloorOp.
func NewFloorOp(input, output *tensor.RawTensor) *FloorOp {
	return &FloorOp{input: input, output: output}
}

func (op *FloorOp) Backward(_ *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{zerosLike(op.input)}
}

func (op *FloorOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

func (op *FloorOp) Output() *tensor.RawTensor { return op.output }
