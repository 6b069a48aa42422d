package distribution

import (
	"fmt"
	"math"

	"github.com/flint-ml/flint/internal/autodiff"
	"github.com/flint-ml/flint/internal/tensor"
)

// float32Tiny is the smallest positive normal float32, the lower bound of
// the uniform draw in RSample. Excluding zero keeps log(u) finite.
const float32Tiny = 1.1754944e-38

// Geometric is the geometric distribution with per-element success
// probability p, counting the number of failures before the first success:
//
//	pmf(k) = (1-p)^k * p, k = 0, 1, 2, ...
//
// The batch shape is the shape of the probability tensor; every statistic
// is computed element-wise over it. All computations go through the
// backend's tensor ops, so an autodiff backend records them for backward.
type Geometric[B tensor.Backend] struct {
	Base[B]

	probs   *tensor.Tensor[float32, B]
	backend B
}

// New creates a Geometric distribution from a tensor of success
// probabilities. Every element must lie in (0, 1]; otherwise
// ErrProbsOutOfRange is returned.
func New[B tensor.Backend](probs *tensor.Tensor[float32, B]) (*Geometric[B], error) {
	if probs == nil {
		return nil, fmt.Errorf("%w: probs tensor is nil", ErrProbsOutOfRange)
	}

	backend := probs.Backend()
	zero := tensor.Zeros[float32](probs.Shape(), backend)
	one := tensor.Ones[float32](probs.Shape(), backend)

	tooLow := probs.LowerEqual(zero)
	tooHigh := probs.Greater(one)
	if tensor.Any(tensor.Or(tooLow, tooHigh)) {
		return nil, fmt.Errorf("%w: got values outside (0, 1] in %v", ErrProbsOutOfRange, probs.Shape())
	}

	return &Geometric[B]{
		Base:    newBase[B](probs.Shape()),
		probs:   probs,
		backend: backend,
	}, nil
}

// NewScalar creates a Geometric distribution with a single success
// probability and an empty batch shape.
func NewScalar[B tensor.Backend](p float32, backend B) (*Geometric[B], error) {
	return New(tensor.Scalar(p, backend))
}

// Probs returns the success probability tensor.
func (g *Geometric[B]) Probs() *tensor.Tensor[float32, B] {
	return g.probs
}

// Mean returns (1-p)/p, the expected number of failures before success.
func (g *Geometric[B]) Mean() *tensor.Tensor[float32, B] {
	return g.probs.PowScalar(-1).SubScalar(1)
}

// Variance returns (1-p)/p².
func (g *Geometric[B]) Variance() *tensor.Tensor[float32, B] {
	return g.Mean().Div(g.probs)
}

// StdDev returns sqrt(Variance).
func (g *Geometric[B]) StdDev() *tensor.Tensor[float32, B] {
	return g.Variance().Sqrt()
}

// PMF returns the probability of observing exactly k failures:
// (1-p)^k * p. k must be a non-negative integer, else ErrNonIntegerValue.
func (g *Geometric[B]) PMF(k float64) (*tensor.Tensor[float32, B], error) {
	if err := checkCount(k); err != nil {
		return nil, err
	}
	oneMinusP := g.probs.Neg().AddScalar(1)
	return oneMinusP.PowScalar(k).Mul(g.probs), nil
}

// LogPMF returns log(PMF(k)) = k*log1p(-p) + log(p), computed in log space
// for numerical stability.
func (g *Geometric[B]) LogPMF(k float64) (*tensor.Tensor[float32, B], error) {
	if err := checkCount(k); err != nil {
		return nil, err
	}
	return g.probs.Neg().Log1p().MulScalar(float32(k)).Add(g.probs.Log()), nil
}

// CDF returns P(X <= k) = 1 - (1-p)^(k+1). k must be a non-negative
// integer, else ErrNonIntegerValue.
func (g *Geometric[B]) CDF(k float64) (*tensor.Tensor[float32, B], error) {
	if err := checkCount(k); err != nil {
		return nil, err
	}
	oneMinusP := g.probs.Neg().AddScalar(1)
	return oneMinusP.PowScalar(k + 1).Neg().AddScalar(1), nil
}

// Entropy returns -[(1-p)*log(1-p) + p*log(p)] / p.
func (g *Geometric[B]) Entropy() *tensor.Tensor[float32, B] {
	oneMinusP := g.probs.Neg().AddScalar(1)
	log1mP := g.probs.Neg().Log1p()

	// probs must only appear as a right operand: backends may reuse a
	// unique left operand's buffer inplace, and the parameter is immutable.
	term := oneMinusP.Mul(log1mP).Add(g.probs.Log().Mul(g.probs))
	return term.Neg().Div(g.probs)
}

// KLDivergence returns KL(g || other):
//
//	p*log(p/q) + (1-p)*log((1-p)/(1-q))
//
// other must be a Geometric on the same backend, else
// ErrDistributionMismatch.
func (g *Geometric[B]) KLDivergence(other Distribution[B]) (*tensor.Tensor[float32, B], error) {
	q, ok := other.(*Geometric[B])
	if !ok {
		return nil, fmt.Errorf("%w: KL divergence from Geometric to %T", ErrDistributionMismatch, other)
	}

	// Both parameter tensors stay right operands, see Entropy.
	p := g.probs
	logRatio := p.Log().Sub(q.probs.Log())
	log1mRatio := p.Neg().Log1p().Sub(q.probs.Neg().Log1p())

	oneMinusP := p.Neg().AddScalar(1)
	return logRatio.Mul(p).Add(oneMinusP.Mul(log1mRatio)), nil
}

// Sample draws from the distribution without gradient tracking. When the
// backend carries a gradient tape, recording is suspended for the draw and
// restored afterwards.
func (g *Geometric[B]) Sample(sampleShape tensor.Shape) *tensor.Tensor[float32, B] {
	if carrier, ok := any(g.backend).(interface{ GetTape() *autodiff.GradientTape }); ok {
		tape := carrier.GetTape()
		if tape.IsRecording() {
			tape.StopRecording()
			defer tape.StartRecording()
		}
	}
	return g.RSample(sampleShape)
}

// RSample draws with reparameterized sampling: u ~ U(tiny, 1), result =
// floor(log(u) / log1p(-p)). The result shape is sampleShape followed by
// the batch shape; values are non-negative integers stored as float32.
func (g *Geometric[B]) RSample(sampleShape tensor.Shape) *tensor.Tensor[float32, B] {
	shape := g.ExtendShape(sampleShape)
	u := tensor.Uniform[float32](shape, float32Tiny, 1.0, g.backend)
	return u.Log().Div(g.probs.Neg().Log1p()).Floor()
}

// checkCount validates a PMF/CDF query point.
func checkCount(k float64) error {
	if math.IsNaN(k) || math.IsInf(k, 0) || k < 0 || k != math.Trunc(k) {
		return fmt.Errorf("%w: got %v", ErrNonIntegerValue, k)
	}
	return nil
}
