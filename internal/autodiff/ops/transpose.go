package ops

import "github.com/flint-ml/flint/internal/tensor"

// TransposeOp represents a dimension permutation.
//
// Backward: apply the inverse permutation to the output gradient.
type TransposeOp struct {
	input  *tensor.RawTensor
	axes   []int // resolved permutation used in the forward pass
	output *tensor.RawTensor
}

// NewTransposeOp creates a new TransposeOp. The axes must be the resolved
// permutation that produced the output (never empty).
func NewTransposeOp(input *tensor.RawTensor, axes []int, output *tensor.RawTensor) *TransposeOp {
	return &TransposeOp{input: input, axes: axes, output: output}
}

func (op *TransposeOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	inverse := make([]int, len(op.axes))
	for i, ax := range op.axes {
		inverse[ax] = i
	}
	return []*tensor.RawTensor{backend.Transpose(outputGrad, inverse...)}
}

func (op *TransposeOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

func (op *TransposeOp) Output() *tensor.RawTensor { return op.output }
