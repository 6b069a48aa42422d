package distribution

import "errors"

// Sentinel errors returned by distribution constructors and queries.
// Callers match them with errors.Is.
var (
	// ErrProbsOutOfRange reports a success probability outside (0, 1].
	ErrProbsOutOfRange = errors.New("probs must be in the interval (0, 1]")

	// ErrNonIntegerValue reports a PMF/CDF query point that is not a
	// non-negative integer.
	ErrNonIntegerValue = errors.New("value must be a non-negative integer")

	// ErrDistributionMismatch reports a KL divergence between distributions
	// of incompatible types.
	ErrDistributionMismatch = errors.New("distributions are not comparable")
)
