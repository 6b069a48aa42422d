//go:build windows

package webgpu

import (
	"encoding/binary"
	"fmt"
	"math"
	"unsafe"

	"github.com/flint-ml/flint/internal/tensor"
	"github.com/go-webgpu/webgpu/wgpu"
)

const workgroupSize = 256

// compileShader compiles and caches a WGSL shader module.
func (b *Backend) compileShader(name, code string) (*wgpu.ShaderModule, error) {
	b.mu.RLock()
	if shader, ok := b.shaders[name]; ok {
		b.mu.RUnlock()
		return shader, nil
	}
	b.mu.RUnlock()

	b.mu.Lock()
	defer b.mu.Unlock()

	// Re-check under the write lock.
	if shader, ok := b.shaders[name]; ok {
		return shader, nil
	}

	shader, err := b.device.CreateShaderModuleWGSL(code)
	if err != nil {
		return nil, fmt.Errorf("failed to compile shader %q: %w", name, err)
	}
	b.shaders[name] = shader
	return shader, nil
}

// getOrCreatePipeline returns a cached compute pipeline for the named shader,
// creating one on first use.
func (b *Backend) getOrCreatePipeline(name, code string) (*wgpu.ComputePipeline, error) {
	b.mu.RLock()
	if pipeline, ok := b.pipelines[name]; ok {
		b.mu.RUnlock()
		return pipeline, nil
	}
	b.mu.RUnlock()

	shader, err := b.compileShader(name, code)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if pipeline, ok := b.pipelines[name]; ok {
		return pipeline, nil
	}

	pipeline, err := b.device.CreateComputePipelineSimple(nil, shader, "main")
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline %q: %w", name, err)
	}
	b.pipelines[name] = pipeline
	return pipeline, nil
}

// createBuffer creates a GPU storage buffer initialized with data.
func (b *Backend) createBuffer(data []byte, usage wgpu.BufferUsage) *wgpu.Buffer {
	size := uint64(len(data))
	// Buffer sizes must be a multiple of 4.
	paddedSize := (size + 3) &^ 3

	buffer := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Size:             paddedSize,
		Usage:            usage,
		MappedAtCreation: wgpu.True,
	})

	mapped := buffer.GetMappedRange(0, paddedSize)
	dst := unsafe.Slice((*byte)(mapped), paddedSize)
	copy(dst, data)
	buffer.Unmap()

	return buffer
}

// createUniformBuffer creates a small uniform buffer padded to 16 bytes.
func (b *Backend) createUniformBuffer(data []byte) *wgpu.Buffer {
	padded := make([]byte, (len(data)+15)&^15)
	copy(padded, data)
	return b.createBuffer(padded, wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst)
}

// readBuffer copies a GPU buffer back to host memory via a staging buffer.
func (b *Backend) readBuffer(src *wgpu.Buffer, size uint64) ([]byte, error) {
	paddedSize := (size + 3) &^ 3

	staging := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Size:  paddedSize,
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
	})
	defer staging.Release()

	encoder := b.device.CreateCommandEncoder(nil)
	encoder.CopyBufferToBuffer(src, 0, staging, 0, paddedSize)
	cmd := encoder.Finish(nil)
	b.queue.Submit(cmd)

	if err := staging.MapAsync(b.device, wgpu.MapModeRead, 0, paddedSize); err != nil {
		return nil, fmt.Errorf("failed to map staging buffer: %w", err)
	}
	defer staging.Unmap()

	mapped := staging.GetMappedRange(0, paddedSize)
	out := make([]byte, size)
	copy(out, unsafe.Slice((*byte)(mapped), paddedSize))
	return out, nil
}

// dispatch runs a pipeline over n elements with the given bind group entries.
func (b *Backend) dispatch(pipeline *wgpu.ComputePipeline, entries []wgpu.BindGroupEntry, n int) {
	layout := pipeline.GetBindGroupLayout(0)
	bindGroup := b.device.CreateBindGroupSimple(layout, entries)
	defer bindGroup.Release()

	encoder := b.device.CreateCommandEncoder(nil)
	pass := encoder.BeginComputePass(nil)
	pass.SetPipeline(pipeline)
	pass.SetBindGroup(0, bindGroup, nil)
	workgroups := uint32((n + workgroupSize - 1) / workgroupSize)
	pass.DispatchWorkgroups(workgroups, 1, 1)
	pass.End()

	cmd := encoder.Finish(nil)
	b.queue.Submit(cmd)
}

// runBinaryOp executes an element-wise binary shader on two float32 tensors
// of identical shape.
func (b *Backend) runBinaryOp(name, code string, x, y *tensor.RawTensor) (*tensor.RawTensor, error) {
	pipeline, err := b.getOrCreatePipeline(name, code)
	if err != nil {
		return nil, err
	}

	n := x.NumElements()
	size := uint64(len(x.Data()))

	bufA := b.createBuffer(x.Data(), wgpu.BufferUsageStorage|wgpu.BufferUsageCopyDst)
	defer bufA.Release()
	bufB := b.createBuffer(y.Data(), wgpu.BufferUsageStorage|wgpu.BufferUsageCopyDst)
	defer bufB.Release()
	bufOut := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Size:  (size + 3) &^ 3,
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc,
	})
	defer bufOut.Release()

	params := make([]byte, 4)
	binary.LittleEndian.PutUint32(params, uint32(n))
	bufParams := b.createUniformBuffer(params)
	defer bufParams.Release()

	b.dispatch(pipeline, []wgpu.BindGroupEntry{
		wgpu.BufferBindingEntry(0, bufA, 0, size),
		wgpu.BufferBindingEntry(1, bufB, 0, size),
		wgpu.BufferBindingEntry(2, bufOut, 0, size),
		wgpu.BufferBindingEntry(3, bufParams, 0, 16),
	}, n)

	out, err := b.readBuffer(bufOut, size)
	if err != nil {
		return nil, err
	}

	result, err := tensor.NewRaw(x.Shape(), x.DType(), tensor.WebGPU)
	if err != nil {
		return nil, err
	}
	copy(result.Data(), out)
	return result, nil
}

// runUnaryOp executes an element-wise unary shader on a float32 tensor.
func (b *Backend) runUnaryOp(name, code string, x *tensor.RawTensor) (*tensor.RawTensor, error) {
	return b.runScalarOp(name, code, x, 0)
}

// runScalarOp executes a unary shader with one float32 scalar parameter.
// The params uniform packs the element count at offset 0 and the scalar at
// offset 4.
func (b *Backend) runScalarOp(name, code string, x *tensor.RawTensor, scalar float32) (*tensor.RawTensor, error) {
	pipeline, err := b.getOrCreatePipeline(name, code)
	if err != nil {
		return nil, err
	}

	n := x.NumElements()
	size := uint64(len(x.Data()))

	bufIn := b.createBuffer(x.Data(), wgpu.BufferUsageStorage|wgpu.BufferUsageCopyDst)
	defer bufIn.Release()
	bufOut := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Size:  (size + 3) &^ 3,
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc,
	})
	defer bufOut.Release()

	params := make([]byte, 8)
	binary.LittleEndian.PutUint32(params[0:4], uint32(n))
	binary.LittleEndian.PutUint32(params[4:8], math.Float32bits(scalar))
	bufParams := b.createUniformBuffer(params)
	defer bufParams.Release()

	b.dispatch(pipeline, []wgpu.BindGroupEntry{
		wgpu.BufferBindingEntry(0, bufIn, 0, size),
		wgpu.BufferBindingEntry(1, bufOut, 0, size),
		wgpu.BufferBindingEntry(2, bufParams, 0, 16),
	}, n)

	out, err := b.readBuffer(bufOut, size)
	if err != nil {
		return nil, err
	}

	result, err := tensor.NewRaw(x.Shape(), x.DType(), tensor.WebGPU)
	if err != nil {
		return nil, err
	}
	copy(result.Data(), out)
	return result, nil
}
