package ops

import (
	"fmt"

	"github.com/flint-ml/flint/internal/tensor"
)

// ScalarOpKind identifies which scalar arithmetic operation was recorded.
type ScalarOpKind int

const (
	ScalarAdd ScalarOpKind = iota
	ScalarSub
	ScalarMul
	ScalarDiv
)

func (k ScalarOpKind) String() string {
	switch k {
	case ScalarAdd:
		return "AddScalar"
	case ScalarSub:
		return "SubScalar"
	case ScalarMul:
		return "MulScalar"
	case ScalarDiv:
		return "DivScalar"
	default:
		return "UnknownScalar"
	}
}

// ScalarOp represents an element-wise operation with a scalar operand:
// output = x ⍟ s where ⍟ is +, -, * or /.
//
// Backward:
//   - x + s, x - s: grad passes through unchanged
//   - x * s: grad * s
//   - x / s: grad / s
type ScalarOp struct {
	kind   ScalarOpKind
	input  *tensor.RawTensor
	scalar float64
	output *tensor.RawTensor
}

// NewScalarOp creates a new ScalarOp.
func NewScalarOp(kind ScalarOpKind, input *tensor.RawTensor, scalar float64, output *tensor.RawTensor) *ScalarOp {
	return &ScalarOp{
		kind:   kind,
		input:  input,
		scalar: scalar,
		output: output,
	}
}

func (op *ScalarOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	var grad *tensor.RawTensor
	switch op.kind {
	case ScalarAdd, ScalarSub:
		grad = outputGrad.Clone()
	case ScalarMul:
		grad = backend.MulScalar(outputGrad, scalarOf(outputGrad.DType(), op.scalar))
	case ScalarDiv:
		grad = backend.DivScalar(outputGrad, scalarOf(outputGrad.DType(), op.scalar))
	default:
		panic(fmt.Sprintf("ScalarOp.Backward: unknown kind %d", op.kind))
	}
	return []*tensor.RawTensor{grad}
}

func (op *ScalarOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

func (op *ScalarOp) Output() *tensor.RawTensor { return op.output }
