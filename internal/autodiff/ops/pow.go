package ops

import "github.com/flint-ml/flint/internal/tensor"

// PowScalarOp represents output = x^p for a constant exponent p.
//
// Backward: d(x^p)/dx = p * x^(p-1), so grad_x = outputGrad * p * x^(p-1).
type PowScalarOp struct {
	input  *tensor.RawTensor
	power  float64
	output *tensor.RawTensor
}

// NewPowScalarOp creates a new PowScalarOp.
func NewPowScalarOp(input *tensor.RawTensor, power float64, output *tensor.RawTensor) *PowScalarOp {
	return &PowScalarOp{input: input, power: power, output: output}
}

func (op *PowScalarOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	xPow := backend.PowScalar(op.input, op.power-1)
	scaled := backend.MulScalar(xPow, scalarOf(xPow.DType(), op.power))
	return []*tensor.RawTensor{backend.Mul(outputGrad, scaled)}
}

func (op *PowScalarOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

func (op *PowScalarOp) Output() *tensor.RawTensor { return op.output }
