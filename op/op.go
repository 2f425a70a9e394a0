// Copyright 2025 Ember ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package op exposes the Ember operator contract: named descriptors with
// shape/type inference and gradient linkage, per-device compute kernels,
// and the node lifecycle a graph executor drives.
//
// Example:
//
//	node, err := op.NewNode("quadratic", map[string]string{"a": "2", "b": "3", "c": "1"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	_ = node.InferShape([]tensor.Shape{{3}})
//	_ = node.InferType([]tensor.DataType{tensor.Float32})
//	_ = node.Bind([]*tensor.RawTensor{x}, []*tensor.RawTensor{y})
//	_ = node.Run(op.NewContext())
package op

import (
	internalop "github.com/ember-ml/ember/internal/op"
	"github.com/ember-ml/ember/tensor"
)

// Descriptor is the static metadata contract for one operator kind.
type Descriptor = internalop.Descriptor

// Params is an operator's parsed, immutable parameter struct.
type Params = internalop.Params

// InplaceOption declares that an output slot may alias an input slot.
type InplaceOption = internalop.InplaceOption

// Node is one graph vertex, driven through its lifecycle by the executor.
type Node = internalop.Node

// NodeState tracks how far a node has been resolved.
type NodeState = internalop.NodeState

// Node lifecycle states, in order.
const (
	Unshaped = internalop.Unshaped
	Shaped   = internalop.Shaped
	Typed    = internalop.Typed
	Ready    = internalop.Ready
	Executed = internalop.Executed
)

// Context carries execution context into a kernel invocation.
type Context = internalop.Context

// KernelFunc is the numeric transform for one operator on one device.
type KernelFunc = internalop.KernelFunc

// Inference and construction error types.
type (
	ShapeError          = internalop.ShapeError
	TypeError           = internalop.TypeError
	ParameterParseError = internalop.ParameterParseError
)

// QuadraticParams holds the coefficients of f(x) = a*x^2 + b*x + c.
type QuadraticParams = internalop.QuadraticParams

// Operator names for the quadratic pair.
const (
	QuadraticName     = internalop.QuadraticName
	QuadraticGradName = internalop.QuadraticGradName
)

// NewNode builds a node for the named operator from a string attribute map.
func NewNode(opName string, attrs map[string]string) (*Node, error) {
	return internalop.NewNode(opName, attrs)
}

// NewContext returns a Context with default parallelism.
func NewContext() *Context {
	return internalop.NewContext()
}

// Register adds a Descriptor under its name; duplicate names are a fatal
// startup error. Call during package initialization.
func Register(d Descriptor) {
	internalop.Register(d)
}

// RegisterKernel adds the compute kernel for an operator on a device.
func RegisterKernel(name string, device tensor.Device, k KernelFunc) {
	internalop.RegisterKernel(name, device, k)
}

// Lookup resolves an operator name to its Descriptor.
func Lookup(name string) (Descriptor, bool) {
	return internalop.Lookup(name)
}

// Names returns all registered operator names, sorted.
func Names() []string {
	return internalop.Names()
}
