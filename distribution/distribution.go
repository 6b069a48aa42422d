// Copyright 2025 Flint ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package distribution provides probability distributions over tensors.
//
// Distributions compute their statistics through backend tensor operations,
// so wrapping the backend with autodiff makes every statistic differentiable
// with respect to the distribution parameters.
//
// Example:
//
//	import (
//	    "github.com/flint-ml/flint/backend/cpu"
//	    "github.com/flint-ml/flint/distribution"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    geom, err := distribution.NewGeometricScalar(0.5, backend)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    mean := geom.Mean()                          // (1-p)/p
//	    draws := geom.Sample(tensor.Shape{1000})     // 1000 draws
//	    pmf, _ := geom.PMF(3)                        // P(X = 3)
//	}
package distribution

import (
	"github.com/flint-ml/flint/internal/distribution"
	"github.com/flint-ml/flint/internal/tensor"
)

// Validation and dispatch errors. Use errors.Is to test for them.
var (
	// ErrProbsOutOfRange is returned when a success probability lies
	// outside the interval (0, 1].
	ErrProbsOutOfRange = distribution.ErrProbsOutOfRange

	// ErrNonIntegerValue is returned when a PMF/CDF query point is not a
	// non-negative integer.
	ErrNonIntegerValue = distribution.ErrNonIntegerValue

	// ErrDistributionMismatch is returned when two distributions cannot be
	// compared, e.g. KL divergence between different families.
	ErrDistributionMismatch = distribution.ErrDistributionMismatch
)

// Distribution is the interface implemented by all distributions.
type Distribution[B tensor.Backend] = distribution.Distribution[B]

// Geometric is the geometric distribution counting failures before the
// first success, with per-element success probability.
type Geometric[B tensor.Backend] = distribution.Geometric[B]

// NewGeometric creates a Geometric distribution from a tensor of success
// probabilities. Every element must lie in (0, 1].
//
// Example:
//
//	probs, _ := tensor.FromSlice([]float32{0.2, 0.5}, tensor.Shape{2}, backend)
//	geom, err := distribution.NewGeometric(probs)
func NewGeometric[B tensor.Backend](probs *tensor.Tensor[float32, B]) (*Geometric[B], error) {
	return distribution.New(probs)
}

// NewGeometricScalar creates a Geometric distribution with a single success
// probability and an empty batch shape.
func NewGeometricScalar[B tensor.Backend](p float32, backend B) (*Geometric[B], error) {
	return distribution.NewScalar(p, backend)
}

// KL computes the Kullback-Leibler divergence KL(p || q) between two
// distributions of the same family. Returns ErrDistributionMismatch when
// the divergence is not defined for the pair.
func KL[B tensor.Backend](p, q Distribution[B]) (*tensor.Tensor[float32, B], error) {
	return distribution.KL(p, q)
}
