// Package distribution implements probability distributions over tensors.
//
// Distributions are parameterized by tensors, so every statistic (mean,
// variance, entropy) is itself a tensor over the parameter batch shape, and
// differentiable sampling composes with the autodiff backend: RSample built
// from recorded tensor ops participates in backward passes, Sample suspends
// tape recording.
package distribution

import "github.com/flint-ml/flint/internal/tensor"

// Distribution is the interface implemented by all distributions.
//
// Type parameter B must satisfy the tensor.Backend interface.
type Distribution[B tensor.Backend] interface {
	// Mean returns the distribution mean over the batch shape.
	Mean() *tensor.Tensor[float32, B]

	// Variance returns the distribution variance over the batch shape.
	Variance() *tensor.Tensor[float32, B]

	// StdDev returns the distribution standard deviation over the batch shape.
	StdDev() *tensor.Tensor[float32, B]

	// Entropy returns the distribution entropy over the batch shape.
	Entropy() *tensor.Tensor[float32, B]

	// Sample draws without gradient tracking.
	// The result shape is sampleShape followed by the batch shape.
	Sample(sampleShape tensor.Shape) *tensor.Tensor[float32, B]

	// RSample draws with reparameterized, gradient-tracking sampling.
	RSample(sampleShape tensor.Shape) *tensor.Tensor[float32, B]
}

// Base carries the batch shape shared by all distributions.
// The batch shape is fixed at construction from the parameter tensor shape.
type Base[B tensor.Backend] struct {
	batchShape tensor.Shape
}

func newBase[B tensor.Backend](batchShape tensor.Shape) Base[B] {
	return Base[B]{batchShape: batchShape.Clone()}
}

// BatchShape returns the distribution's batch shape.
func (b *Base[B]) BatchShape() tensor.Shape {
	return b.batchShape
}

// ExtendShape prepends sampleShape to the batch shape, producing the
// output shape of a draw.
func (b *Base[B]) ExtendShape(sampleShape tensor.Shape) tensor.Shape {
	return sampleShape.Concat(b.batchShape)
}
