// Package op defines the operator contract for the Ember compute graph:
// static descriptors resolved by name, shape and type inference, per-device
// compute kernels, and the node lifecycle an executor drives.
//
// An operator contributes two things:
//   - A Descriptor: pure metadata (arity, inference rules, in-place hints,
//     gradient linkage, parameter schema) registered once at startup.
//   - Kernels: the forward and backward numeric transforms, registered per
//     device and invoked by the executor with resolved buffers.
//
// The executor itself lives outside this package. It resolves names through
// the registry, drives each Node through its state machine, owns buffer
// allocation (including whether to honor an in-place hint), and schedules
// kernel invocations.
package op

import "github.com/ember-ml/ember/internal/tensor"

// Params is an operator's parsed, immutable parameter struct. It is created
// once when a node is built and shared (never copied) with the node's
// gradient node. The concrete type is operator-specific.
type Params any

// InplaceOption declares that an output slot may alias an input slot's
// storage. The executor is permitted, not required, to reuse the buffer.
// Output slots without an InplaceOption must be given distinct storage.
type InplaceOption struct {
	Output int
	Input  int
}

// Descriptor is the static metadata contract a compute node kind must
// satisfy to be composed into a graph. All methods are pure and
// side-effect-free; no numeric code runs through a Descriptor.
type Descriptor interface {
	// Name is the unique registry key for this operator.
	Name() string

	// NumInputs and NumOutputs declare fixed arity. Violations are a
	// graph-build error surfaced by the builder, not by the operator.
	NumInputs() int
	NumOutputs() int

	// InputNames returns stable symbolic names for the input slots,
	// for documentation and attribute binding.
	InputNames() []string

	// InferShape derives output shapes from input shapes. A nil input
	// shape means "not yet resolved" and yields a *ShapeError. Inference
	// may be re-invoked as the graph is progressively resolved; it must
	// be idempotent on already-resolved inputs.
	InferShape(inputs []tensor.Shape) ([]tensor.Shape, error)

	// InferType derives output dtypes from input dtypes. An Invalid
	// input dtype yields a *TypeError. Idempotent like InferShape.
	InferType(inputs []tensor.DataType) ([]tensor.DataType, error)

	// InplaceOptions lists the output/input slot pairs eligible for
	// storage aliasing. Empty means every output needs distinct storage.
	InplaceOptions() []InplaceOption

	// Gradient returns the paired backward descriptor, or nil when this
	// operator has no gradient (backward operators return nil). The
	// association is a direct handle, not a name looked up at runtime,
	// so a missing backward operator is impossible once this returns
	// non-nil.
	Gradient() Descriptor

	// IsBackward reports whether this descriptor is itself the backward
	// half of an operator pair. Backward nodes consume the output
	// gradient and the original forward input, in that slot order.
	IsBackward() bool

	// ParseParams converts a string attribute map into the operator's
	// typed Params. Malformed or non-finite values yield a
	// *ParameterParseError. Omitted attributes take their defaults.
	ParseParams(attrs map[string]string) (Params, error)
}
