package ops

import (
	"fmt"

	"github.com/flint-ml/flint/internal/tensor"
)

// SplitOp represents splitting a tensor into sized parts along a dimension.
//
// Forward: outputs = Split(input, sizes, dim)
//
// Backward: concatenate all output gradients back along dim.
// The tape collects gradients for every part before calling BackwardMulti,
// filling in zeros for parts that received no gradient.
type SplitOp struct {
	input   *tensor.RawTensor
	sizes   []int
	dim     int // resolved, non-negative
	outputs []*tensor.RawTensor
}

// NewSplitOp creates a new SplitOp.
func NewSplitOp(input *tensor.RawTensor, sizes []int, dim int, outputs []*tensor.RawTensor) *SplitOp {
	return &SplitOp{
		input:   input,
		sizes:   sizes,
		dim:     dim,
		outputs: outputs,
	}
}

func (op *SplitOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns the first part. The tape dispatches on MultiOutputOperation
// and never uses this for gradient lookup on split.
func (op *SplitOp) Output() *tensor.RawTensor { return op.outputs[0] }

// Outputs returns all parts.
func (op *SplitOp) Outputs() []*tensor.RawTensor { return op.outputs }

func (op *SplitOp) Backward(_ *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	panic("SplitOp.Backward: multi-output operation, tape must call BackwardMulti")
}

// BackwardMulti concatenates the part gradients back into the input gradient.
func (op *SplitOp) BackwardMulti(outputGrads []*tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	if len(outputGrads) != len(op.outputs) {
		panic(fmt.Sprintf("SplitOp.BackwardMulti: got %d gradients for %d outputs",
			len(outputGrads), len(op.outputs)))
	}
	return []*tensor.RawTensor{backend.Cat(outputGrads, op.dim)}
}
