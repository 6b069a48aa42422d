package nn

import (
	"fmt"

	"github.com/flint-ml/flint/internal/tensor"
)

// HeadSplit splits a packed per-head projection into separate head-major
// tensors, the reshape-split-transpose fragment at the front of
// multi-head attention blocks.
//
// The input packs all heads along the last axis:
//
//	[batch, seq, heads * Σsections]
//
// Forward unpacks the head axis, splits the per-head features into the
// configured sections, and moves heads ahead of the sequence axis:
//
//	[batch, seq, heads, Σsections]          (reshape)
//	[batch, seq, heads, section_i] per part (split on axis 3)
//	[batch, heads, seq, section_i] per part (transpose [0,2,1,3])
//
// With heads=8 and sections=[16,64], a [10,196,640] input yields
// [10,8,196,16] and [10,8,196,64]; the usual query/key vs value split.
//
// HeadSplit has no trainable parameters.
type HeadSplit[B tensor.Backend] struct {
	heads    int
	sections []int
}

// NewHeadSplit creates a HeadSplit with the given head count and per-head
// section sizes. Panics if heads is not positive or sections is empty.
func NewHeadSplit[B tensor.Backend](heads int, sections []int) *HeadSplit[B] {
	if heads <= 0 {
		panic(fmt.Sprintf("headsplit: heads must be positive, got %d", heads))
	}
	if len(sections) == 0 {
		panic("headsplit: at least one section required")
	}
	return &HeadSplit[B]{
		heads:    heads,
		sections: sections,
	}
}

// Heads returns the number of heads.
func (h *HeadSplit[B]) Heads() int {
	return h.heads
}

// Sections returns the per-head section sizes.
func (h *HeadSplit[B]) Sections() []int {
	return h.sections
}

// Forward splits input [batch, seq, heads*Σsections] into one head-major
// tensor [batch, heads, seq, section_i] per section. Inputs whose feature
// axis does not factor into heads*Σsections panic inside the tensor ops.
func (h *HeadSplit[B]) Forward(input *tensor.Tensor[float32, B]) []*tensor.Tensor[float32, B] {
	shape := input.Shape()
	if len(shape) != 3 {
		panic(fmt.Sprintf("headsplit: expected 3D input [batch, seq, features], got %v", shape))
	}

	unpacked := input.Reshape(shape[0], shape[1], h.heads, -1)
	parts := unpacked.Split(h.sections, 3)

	outputs := make([]*tensor.Tensor[float32, B], len(parts))
	for i, part := range parts {
		outputs[i] = part.Transpose(0, 2, 1, 3)
	}
	return outputs
}

// Parameters returns an empty slice; HeadSplit is stateless.
func (h *HeadSplit[B]) Parameters() []*Parameter[B] {
	return nil
}
