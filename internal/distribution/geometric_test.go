package distribution

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flint-ml/flint/internal/autodiff"
	"github.com/flint-ml/flint/internal/backend/cpu"
	"github.com/flint-ml/flint/internal/tensor"
)

const eps = 1e-5

func newGeometric(t *testing.T, p float32) *Geometric[*cpu.CPUBackend] {
	t.Helper()
	g, err := NewScalar(p, cpu.New())
	require.NoError(t, err)
	return g
}

func TestGeometric_Validation(t *testing.T) {
	backend := cpu.New()

	t.Run("Valid", func(t *testing.T) {
		for _, p := range []float32{0.001, 0.5, 1.0} {
			_, err := NewScalar(p, backend)
			assert.NoError(t, err, "p=%v", p)
		}
	})

	t.Run("OutOfRange", func(t *testing.T) {
		for _, p := range []float32{0, -0.5, 1.5} {
			_, err := NewScalar(p, backend)
			assert.ErrorIs(t, err, ErrProbsOutOfRange, "p=%v", p)
		}
	})

	t.Run("BatchWithOneBadElement", func(t *testing.T) {
		probs, err := tensor.FromSlice([]float32{0.5, 0.0, 0.9}, tensor.Shape{3}, backend)
		require.NoError(t, err)
		_, err = New(probs)
		assert.ErrorIs(t, err, ErrProbsOutOfRange)
	})

	t.Run("NilProbs", func(t *testing.T) {
		_, err := New[*cpu.CPUBackend](nil)
		assert.ErrorIs(t, err, ErrProbsOutOfRange)
	})
}

func TestGeometric_Moments(t *testing.T) {
	g := newGeometric(t, 0.5)

	assert.InDelta(t, 1.0, g.Mean().Item(), eps)
	assert.InDelta(t, 2.0, g.Variance().Item(), eps)
	assert.InDelta(t, 1.41421356, g.StdDev().Item(), eps)
}

func TestGeometric_MomentsDegenerateP(t *testing.T) {
	// p = 1: success on the first trial, zero failures with certainty.
	g := newGeometric(t, 1.0)

	assert.InDelta(t, 0.0, g.Mean().Item(), eps)
	assert.InDelta(t, 0.0, g.Variance().Item(), eps)

	pmf, err := g.PMF(0)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, pmf.Item(), eps)
}

func TestGeometric_PMF(t *testing.T) {
	g := newGeometric(t, 0.5)

	pmf, err := g.PMF(2)
	require.NoError(t, err)
	assert.InDelta(t, 0.125, pmf.Item(), eps)

	logPMF, err := g.LogPMF(2)
	require.NoError(t, err)
	assert.InDelta(t, -2.07944154, logPMF.Item(), eps)
}

func TestGeometric_PMFInvalidValue(t *testing.T) {
	g := newGeometric(t, 0.5)

	for _, k := range []float64{2.5, -1, math.NaN(), math.Inf(1)} {
		_, err := g.PMF(k)
		assert.ErrorIs(t, err, ErrNonIntegerValue, "k=%v", k)

		_, err = g.LogPMF(k)
		assert.ErrorIs(t, err, ErrNonIntegerValue, "k=%v", k)

		_, err = g.CDF(k)
		assert.ErrorIs(t, err, ErrNonIntegerValue, "k=%v", k)
	}
}

func TestGeometric_CDF(t *testing.T) {
	g := newGeometric(t, 0.5)

	cdf, err := g.CDF(4)
	require.NoError(t, err)
	assert.InDelta(t, 0.96875, cdf.Item(), eps)
}

func TestGeometric_CDFIsPMFSum(t *testing.T) {
	g := newGeometric(t, 0.3)

	var sum float64
	for k := 0; k <= 6; k++ {
		pmf, err := g.PMF(float64(k))
		require.NoError(t, err)
		sum += float64(pmf.Item())

		cdf, err := g.CDF(float64(k))
		require.NoError(t, err)
		assert.InDelta(t, sum, float64(cdf.Item()), eps, "k=%d", k)
	}
}

func TestGeometric_Entropy(t *testing.T) {
	g := newGeometric(t, 0.5)

	assert.InDelta(t, 1.38629436, g.Entropy().Item(), eps)
}

func TestGeometric_KLDivergence(t *testing.T) {
	p := newGeometric(t, 0.5)
	q := newGeometric(t, 0.1)

	t.Run("Value", func(t *testing.T) {
		kl, err := p.KLDivergence(q)
		require.NoError(t, err)
		assert.InDelta(t, 0.51082562, kl.Item(), eps)
	})

	t.Run("SelfIsZero", func(t *testing.T) {
		kl, err := p.KLDivergence(p)
		require.NoError(t, err)
		assert.InDelta(t, 0.0, kl.Item(), eps)
	})

	t.Run("PackageDispatch", func(t *testing.T) {
		kl, err := KL[*cpu.CPUBackend](p, q)
		require.NoError(t, err)
		assert.InDelta(t, 0.51082562, kl.Item(), eps)
	})

	t.Run("Mismatch", func(t *testing.T) {
		_, err := p.KLDivergence(fakeDistribution{})
		assert.ErrorIs(t, err, ErrDistributionMismatch)

		_, err = KL[*cpu.CPUBackend](fakeDistribution{}, q)
		assert.ErrorIs(t, err, ErrDistributionMismatch)
	})
}

// fakeDistribution exercises the KL mismatch paths.
type fakeDistribution struct{}

func (fakeDistribution) Mean() *tensor.Tensor[float32, *cpu.CPUBackend]     { return nil }
func (fakeDistribution) Variance() *tensor.Tensor[float32, *cpu.CPUBackend] { return nil }
func (fakeDistribution) StdDev() *tensor.Tensor[float32, *cpu.CPUBackend]   { return nil }
func (fakeDistribution) Entropy() *tensor.Tensor[float32, *cpu.CPUBackend]  { return nil }
func (fakeDistribution) Sample(tensor.Shape) *tensor.Tensor[float32, *cpu.CPUBackend] {
	return nil
}
func (fakeDistribution) RSample(tensor.Shape) *tensor.Tensor[float32, *cpu.CPUBackend] {
	return nil
}

func TestGeometric_StatisticsLeaveProbsUntouched(t *testing.T) {
	backend := cpu.New()
	probs, err := tensor.FromSlice([]float32{0.5, 0.25}, tensor.Shape{2}, backend)
	require.NoError(t, err)
	g, err := New(probs)
	require.NoError(t, err)
	q, err := NewScalar(0.1, backend)
	require.NoError(t, err)

	checkProbs := func(name string) {
		data := g.Probs().Data()
		assert.Equal(t, float32(0.5), data[0], "%s mutated probs[0]", name)
		assert.Equal(t, float32(0.25), data[1], "%s mutated probs[1]", name)
	}

	g.Mean()
	checkProbs("Mean")
	g.Variance()
	checkProbs("Variance")
	g.StdDev()
	checkProbs("StdDev")
	g.Entropy()
	checkProbs("Entropy")

	_, err = g.PMF(3)
	require.NoError(t, err)
	checkProbs("PMF")
	_, err = g.LogPMF(3)
	require.NoError(t, err)
	checkProbs("LogPMF")
	_, err = g.CDF(3)
	require.NoError(t, err)
	checkProbs("CDF")

	g.Sample(tensor.Shape{4})
	checkProbs("Sample")

	// KL must leave both parameter tensors alone and be stable across calls.
	first, err := g.KLDivergence(q)
	require.NoError(t, err)
	second, err := g.KLDivergence(q)
	require.NoError(t, err)
	checkProbs("KLDivergence")
	for i := range first.Data() {
		assert.InDelta(t, first.Data()[i], second.Data()[i], eps, "kl[%d]", i)
	}
	assert.InDelta(t, 0.1, float64(q.Probs().Item()), eps)

	// Entropy twice returns the same value.
	e1 := g.Entropy()
	e2 := g.Entropy()
	for i := range e1.Data() {
		assert.InDelta(t, e1.Data()[i], e2.Data()[i], eps, "entropy[%d]", i)
	}
}

func TestGeometric_BatchStatistics(t *testing.T) {
	backend := cpu.New()
	probs, err := tensor.FromSlice([]float32{0.5, 0.25}, tensor.Shape{2}, backend)
	require.NoError(t, err)

	g, err := New(probs)
	require.NoError(t, err)

	assert.True(t, g.BatchShape().Equal(tensor.Shape{2}))

	mean := g.Mean()
	require.True(t, mean.Shape().Equal(tensor.Shape{2}))
	assert.InDelta(t, 1.0, mean.Data()[0], eps)
	assert.InDelta(t, 3.0, mean.Data()[1], eps)
}

func TestGeometric_Sampling(t *testing.T) {
	backend := cpu.New()

	t.Run("Shape", func(t *testing.T) {
		probs, err := tensor.FromSlice([]float32{0.5, 0.25, 0.75}, tensor.Shape{3}, backend)
		require.NoError(t, err)
		g, err := New(probs)
		require.NoError(t, err)

		sample := g.Sample(tensor.Shape{4, 2})
		assert.True(t, sample.Shape().Equal(tensor.Shape{4, 2, 3}),
			"sample shape = %v", sample.Shape())
	})

	t.Run("NonNegativeIntegers", func(t *testing.T) {
		g, err := NewScalar(0.3, backend)
		require.NoError(t, err)

		sample := g.Sample(tensor.Shape{1000})
		for i, v := range sample.Data() {
			if v < 0 {
				t.Fatalf("sample[%d] = %v, expected non-negative", i, v)
			}
			if v != float32(math.Trunc(float64(v))) {
				t.Fatalf("sample[%d] = %v, expected integer", i, v)
			}
		}
	})

	t.Run("DegeneratePIsAllZeros", func(t *testing.T) {
		// p = 1: log1p(-1) = -Inf, so log(u)/-Inf = 0 for every u < 1.
		g, err := NewScalar(1.0, backend)
		require.NoError(t, err)

		sample := g.Sample(tensor.Shape{100})
		for i, v := range sample.Data() {
			assert.Equal(t, float32(0), v, "sample[%d]", i)
		}
	})

	t.Run("EmpiricalMean", func(t *testing.T) {
		g, err := NewScalar(0.5, backend)
		require.NoError(t, err)

		sample := g.Sample(tensor.Shape{20000})
		var sum float64
		for _, v := range sample.Data() {
			sum += float64(v)
		}
		// True mean is 1.0; a 20k draw lands well within 0.1.
		assert.InDelta(t, 1.0, sum/20000, 0.1)
	})
}

func TestGeometric_SamplePausesTape(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	probs := tensor.Full(tensor.Shape{2}, float32(0.5), backend)
	g, err := New(probs)
	require.NoError(t, err)
	backend.Tape().Clear()

	g.Sample(tensor.Shape{3})
	assert.Equal(t, 0, backend.Tape().NumOps(), "Sample must not record operations")
	assert.True(t, backend.Tape().IsRecording(), "Sample must restore recording state")

	g.RSample(tensor.Shape{3})
	assert.Greater(t, backend.Tape().NumOps(), 0, "RSample must record operations")
}

func TestGeometric_RSampleGradient(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	probs := tensor.Full(tensor.Shape{2}, float32(0.5), backend)
	g, err := New(probs)
	require.NoError(t, err)

	sample := g.RSample(tensor.Shape{})
	grads := autodiff.Backward(sample, backend)

	// floor has a zero derivative, so the probability gradient exists
	// and is zero everywhere.
	grad := grads[probs.Raw()]
	require.NotNil(t, grad, "probs must receive a gradient")
	for i, v := range grad.AsFloat32() {
		assert.Equal(t, float32(0), v, "grad[%d]", i)
	}
}

func TestGeometric_StatisticsAreDifferentiable(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	probs := tensor.Full(tensor.Shape{1}, float32(0.5), backend)
	g, err := New(probs)
	require.NoError(t, err)
	backend.Tape().Clear()

	mean := g.Mean()
	grads := autodiff.Backward(mean, backend)

	// d/dp (1/p - 1) = -1/p² = -4 at p = 0.5.
	grad := grads[probs.Raw()]
	require.NotNil(t, grad)
	assert.InDelta(t, -4.0, grad.AsFloat32()[0], eps)
}

func TestGeometric_ErrorsAreSentinels(t *testing.T) {
	g := newGeometric(t, 0.5)

	_, err := g.PMF(1.5)
	assert.True(t, errors.Is(err, ErrNonIntegerValue))

	_, err = NewScalar(2.0, cpu.New())
	assert.True(t, errors.Is(err, ErrProbsOutOfRange))
}
