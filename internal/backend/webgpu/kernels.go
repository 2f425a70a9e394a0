//go:build windows

package webgpu

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/go-webgpu/webgpu/wgpu"

	"github.com/ember-ml/ember/internal/op"
	"github.com/ember-ml/ember/internal/tensor"
)

// RegisterKernels wires this backend's quadratic kernels into the operator
// kernel table for the WebGPU device. Call once after New, before any
// WebGPU node runs. The registered closures keep the backend alive; call
// Release only after the last node has executed.
func (b *Backend) RegisterKernels() {
	op.RegisterKernel(op.QuadraticName, tensor.WebGPU,
		func(_ *op.Context, params op.Params, inputs, outputs []*tensor.RawTensor) {
			p := params.(*op.QuadraticParams)
			if err := b.runQuadratic(inputs[0], outputs[0], p); err != nil {
				panic("webgpu: quadratic: " + err.Error())
			}
		})
	op.RegisterKernel(op.QuadraticGradName, tensor.WebGPU,
		func(_ *op.Context, params op.Params, inputs, outputs []*tensor.RawTensor) {
			p := params.(*op.QuadraticParams)
			if err := b.runQuadraticGrad(inputs[0], inputs[1], outputs[0], p); err != nil {
				panic("webgpu: quadratic backward: " + err.Error())
			}
		})
}

// paramsUniform packs size and the coefficients into the 16-byte uniform
// layout the shaders declare.
func paramsUniform(size int, p *op.QuadraticParams) []byte {
	buf := make([]byte, 16)
	//nolint:gosec // G115: size is a non-negative element count
	binary.LittleEndian.PutUint32(buf[0:4], uint32(size))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(float32(p.A)))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(float32(p.B)))
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(float32(p.C)))
	return buf
}

// runQuadratic executes the forward shader and writes the result into out.
// out may be the same tensor as x; the shader reads each element before
// the write lands in a separate GPU buffer, so aliasing is safe.
func (b *Backend) runQuadratic(x, out *tensor.RawTensor, p *op.QuadraticParams) error {
	if x.DType() != tensor.Float32 {
		return fmt.Errorf("only float32 is supported, got %s", x.DType())
	}

	numElements := x.NumElements()
	shader := b.compileShader("quadratic", quadraticShader)
	pipeline := b.getOrCreatePipeline("quadratic", shader)

	bufferX := b.createBuffer(x.Data(), wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
	defer bufferX.Release()

	//nolint:gosec // G115: ByteSize() returns a non-negative int
	resultSize := uint64(x.ByteSize())
	bufferResult := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc | wgpu.BufferUsageCopyDst,
		Size:  resultSize,
	})
	defer bufferResult.Release()

	bufferParams := b.createUniformBuffer(paramsUniform(numElements, p))
	defer bufferParams.Release()

	bindGroupLayout := pipeline.GetBindGroupLayout(0)
	bindGroup := b.device.CreateBindGroupSimple(bindGroupLayout, []wgpu.BindGroupEntry{
		wgpu.BufferBindingEntry(0, bufferX, 0, resultSize),
		wgpu.BufferBindingEntry(1, bufferResult, 0, resultSize),
		wgpu.BufferBindingEntry(2, bufferParams, 0, 16),
	})
	defer bindGroup.Release()

	if err := b.dispatch(pipeline, bindGroup, numElements); err != nil {
		return err
	}

	resultData, err := b.readBuffer(bufferResult, resultSize)
	if err != nil {
		return err
	}
	copy(out.Data(), resultData)
	return nil
}

// runQuadraticGrad executes the backward shader: gradIn = gradOut*(2a*x+b).
func (b *Backend) runQuadraticGrad(gradOut, x, gradIn *tensor.RawTensor, p *op.QuadraticParams) error {
	if x.DType() != tensor.Float32 {
		return fmt.Errorf("only float32 is supported, got %s", x.DType())
	}

	numElements := x.NumElements()
	shader := b.compileShader("quadratic_grad", quadraticGradShader)
	pipeline := b.getOrCreatePipeline("quadratic_grad", shader)

	bufferGrad := b.createBuffer(gradOut.Data(), wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
	defer bufferGrad.Release()

	bufferX := b.createBuffer(x.Data(), wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
	defer bufferX.Release()

	//nolint:gosec // G115: ByteSize() returns a non-negative int
	resultSize := uint64(x.ByteSize())
	bufferResult := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc | wgpu.BufferUsageCopyDst,
		Size:  resultSize,
	})
	defer bufferResult.Release()

	bufferParams := b.createUniformBuffer(paramsUniform(numElements, p))
	defer bufferParams.Release()

	bindGroupLayout := pipeline.GetBindGroupLayout(0)
	bindGroup := b.device.CreateBindGroupSimple(bindGroupLayout, []wgpu.BindGroupEntry{
		wgpu.BufferBindingEntry(0, bufferGrad, 0, resultSize),
		wgpu.BufferBindingEntry(1, bufferX, 0, resultSize),
		wgpu.BufferBindingEntry(2, bufferResult, 0, resultSize),
		wgpu.BufferBindingEntry(3, bufferParams, 0, 16),
	})
	defer bindGroup.Release()

	if err := b.dispatch(pipeline, bindGroup, numElements); err != nil {
		return err
	}

	resultData, err := b.readBuffer(bufferResult, resultSize)
	if err != nil {
		return err
	}
	copy(gradIn.Data(), resultData)
	return nil
}

// dispatch runs one compute pass over numElements threads.
func (b *Backend) dispatch(pipeline *wgpu.ComputePipeline, bindGroup *wgpu.BindGroup, numElements int) error {
	encoder := b.device.CreateCommandEncoder(nil)
	computePass := encoder.BeginComputePass(nil)

	computePass.SetPipeline(pipeline)
	computePass.SetBindGroup(0, bindGroup, nil)

	//nolint:gosec // G115: workgroup count is non-negative
	workgroups := uint32((numElements + workgroupSize - 1) / workgroupSize)
	computePass.DispatchWorkgroups(workgroups, 1, 1)
	computePass.End()

	cmdBuffer := encoder.Finish(nil)
	b.queue.Submit(cmdBuffer)
	return nil
}
