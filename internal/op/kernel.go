package op

import (
	"github.com/ember-ml/ember/internal/parallel"
	"github.com/ember-ml/ember/internal/tensor"
)

// Context carries execution context into a kernel invocation.
type Context struct {
	// Parallel controls the chunked loop used by CPU kernels. The
	// executor may disable it for deterministic reference runs.
	Parallel parallel.Config
}

// NewContext returns a Context with default parallelism.
func NewContext() *Context {
	return &Context{Parallel: parallel.DefaultConfig()}
}

// KernelFunc is the numeric transform for one operator on one device.
//
// Kernels are total functions: inputs and outputs have already passed shape
// and type inference, so a kernel never fails. It reads the input buffers,
// reads its Params, and writes the output buffers; nothing else. NaN and
// Inf values propagate elementwise, they are not errors.
//
// A kernel for an operator that advertises an InplaceOption must tolerate
// the corresponding output buffer aliasing the input buffer.
type KernelFunc func(ctx *Context, params Params, inputs, outputs []*tensor.RawTensor)
