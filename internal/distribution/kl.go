package distribution

import (
	"fmt"

	"github.com/flint-ml/flint/internal/tensor"
)

// KL computes the Kullback-Leibler divergence KL(p || q), dispatching on
// the concrete distribution types. Unsupported pairs return
// ErrDistributionMismatch.
func KL[B tensor.Backend](p, q Distribution[B]) (*tensor.Tensor[float32, B], error) {
	switch from := p.(type) {
	case *Geometric[B]:
		return from.KLDivergence(q)
	default:
		return nil, fmt.Errorf("%w: no KL divergence defined for %T", ErrDistributionMismatch, p)
	}
}
