package op

import (
	"fmt"

	"github.com/ember-ml/ember/internal/tensor"
)

// NodeState tracks how far a node has been resolved by the executor.
type NodeState int

// Node lifecycle states, in order.
const (
	Unshaped NodeState = iota // built, shapes unknown
	Shaped                    // output shapes resolved
	Typed                     // output dtypes resolved
	Ready                     // buffers bound
	Executed                  // kernel has run
)

// String returns a human-readable state name.
func (s NodeState) String() string {
	switch s {
	case Unshaped:
		return "Unshaped"
	case Shaped:
		return "Shaped"
	case Typed:
		return "Typed"
	case Ready:
		return "Ready"
	case Executed:
		return "Executed"
	default:
		return "Unknown"
	}
}

// Node is one graph vertex: a Descriptor reference, one Params instance,
// and the progressively resolved shapes, dtypes and buffers. The graph owns
// its Nodes; the executor drives each Node through
// Unshaped → Shaped → Typed → Ready → Executed.
type Node struct {
	desc   Descriptor
	params Params
	state  NodeState

	inputShapes  []tensor.Shape
	outputShapes []tensor.Shape
	inputTypes   []tensor.DataType
	outputTypes  []tensor.DataType

	inputs  []*tensor.RawTensor
	outputs []*tensor.RawTensor

	// saved preserves the pre-transform input for the gradient path when
	// the forward run aliases its output onto its input.
	saved *tensor.RawTensor

	// forward links a gradient node back to its paired forward node.
	forward *Node
}

// NewNode builds a node for the named operator, parsing attrs into the
// operator's Params. Unknown operator names and malformed attributes are
// construction-time errors.
func NewNode(opName string, attrs map[string]string) (*Node, error) {
	desc, ok := Lookup(opName)
	if !ok {
		return nil, fmt.Errorf("unknown operator %q", opName)
	}
	params, err := desc.ParseParams(attrs)
	if err != nil {
		return nil, err
	}
	return &Node{desc: desc, params: params}, nil
}

// Descriptor returns the node's operator descriptor.
func (n *Node) Descriptor() Descriptor { return n.desc }

// Params returns the node's parsed parameter struct.
func (n *Node) Params() Params { return n.params }

// State returns the node's lifecycle state.
func (n *Node) State() NodeState { return n.state }

// OutputShapes returns the resolved output shapes, nil before Shaped.
func (n *Node) OutputShapes() []tensor.Shape { return n.outputShapes }

// OutputTypes returns the resolved output dtypes, nil before Typed.
func (n *Node) OutputTypes() []tensor.DataType { return n.outputTypes }

// Outputs returns the bound output buffers, nil before Ready.
func (n *Node) Outputs() []*tensor.RawTensor { return n.outputs }

// InferShape resolves the node's output shapes from the given input shapes.
// Safe to call again once resolved, as long as the result does not change.
func (n *Node) InferShape(inputs []tensor.Shape) error {
	if len(inputs) != n.desc.NumInputs() {
		return fmt.Errorf("%s: got %d input shapes, operator takes %d",
			n.desc.Name(), len(inputs), n.desc.NumInputs())
	}
	outputs, err := n.desc.InferShape(inputs)
	if err != nil {
		return err
	}
	if n.state >= Shaped {
		for i, s := range outputs {
			if !s.Equal(n.outputShapes[i]) {
				return fmt.Errorf("%s: output %d shape changed after resolution: %v -> %v",
					n.desc.Name(), i, n.outputShapes[i], s)
			}
		}
		return nil
	}
	n.inputShapes = cloneShapes(inputs)
	n.outputShapes = outputs
	n.state = Shaped
	return nil
}

// InferType resolves the node's output dtypes from the given input dtypes.
// Requires shapes to be resolved first. Idempotent like InferShape.
func (n *Node) InferType(inputs []tensor.DataType) error {
	if n.state < Shaped {
		return fmt.Errorf("%s: type inference before shape inference (state %s)",
			n.desc.Name(), n.state)
	}
	if len(inputs) != n.desc.NumInputs() {
		return fmt.Errorf("%s: got %d input dtypes, operator takes %d",
			n.desc.Name(), len(inputs), n.desc.NumInputs())
	}
	outputs, err := n.desc.InferType(inputs)
	if err != nil {
		return err
	}
	if n.state >= Typed {
		for i, dt := range outputs {
			if dt != n.outputTypes[i] {
				return fmt.Errorf("%s: output %d dtype changed after resolution: %s -> %s",
					n.desc.Name(), i, n.outputTypes[i], dt)
			}
		}
		return nil
	}
	n.inputTypes = append([]tensor.DataType(nil), inputs...)
	n.outputTypes = outputs
	n.state = Typed
	return nil
}

// Bind attaches the executor-allocated buffers. Buffers must match the
// resolved shapes and dtypes; an output may share storage with an input
// only when the descriptor advertises the corresponding InplaceOption.
// Rebinding a Ready or Executed node is allowed and returns it to Ready.
func (n *Node) Bind(inputs, outputs []*tensor.RawTensor) error {
	if n.state < Typed {
		return fmt.Errorf("%s: bind before inference (state %s)", n.desc.Name(), n.state)
	}
	if len(inputs) != n.desc.NumInputs() || len(outputs) != n.desc.NumOutputs() {
		return fmt.Errorf("%s: bind got %d inputs and %d outputs, operator takes %d and %d",
			n.desc.Name(), len(inputs), len(outputs), n.desc.NumInputs(), n.desc.NumOutputs())
	}
	for i, in := range inputs {
		if !in.Shape().Equal(n.inputShapes[i]) {
			return fmt.Errorf("%s: input %d buffer shape %v does not match resolved shape %v",
				n.desc.Name(), i, in.Shape(), n.inputShapes[i])
		}
		if in.DType() != n.inputTypes[i] {
			return fmt.Errorf("%s: input %d buffer dtype %s does not match resolved dtype %s",
				n.desc.Name(), i, in.DType(), n.inputTypes[i])
		}
	}
	for o, out := range outputs {
		if !out.Shape().Equal(n.outputShapes[o]) {
			return fmt.Errorf("%s: output %d buffer shape %v does not match resolved shape %v",
				n.desc.Name(), o, out.Shape(), n.outputShapes[o])
		}
		if out.DType() != n.outputTypes[o] {
			return fmt.Errorf("%s: output %d buffer dtype %s does not match resolved dtype %s",
				n.desc.Name(), o, out.DType(), n.outputTypes[o])
		}
		for i, in := range inputs {
			if out.SameStorage(in) && !n.aliasAllowed(o, i) {
				return fmt.Errorf("%s: output %d must not alias input %d", n.desc.Name(), o, i)
			}
		}
	}
	n.inputs = inputs
	n.outputs = outputs
	n.state = Ready
	return nil
}

func (n *Node) aliasAllowed(output, input int) bool {
	for _, opt := range n.desc.InplaceOptions() {
		if opt.Output == output && opt.Input == input {
			return true
		}
	}
	return false
}

// SaveInput snapshots the node's first input buffer so the gradient node
// can still see the pre-transform values after an aliased run. Must be
// called between Bind and Run.
func (n *Node) SaveInput() error {
	if n.state != Ready {
		return fmt.Errorf("%s: save input requires a Ready node (state %s)", n.desc.Name(), n.state)
	}
	n.saved = n.inputs[0].CloneData()
	return nil
}

// SavedInput returns the preserved pre-transform input. Falls back to the
// live input buffer when no snapshot was taken; callers that ran the node
// in place without SaveInput get nil.
func (n *Node) SavedInput() *tensor.RawTensor {
	if n.saved != nil {
		return n.saved
	}
	if len(n.inputs) > 0 && len(n.outputs) > 0 && n.outputs[0].SameStorage(n.inputs[0]) {
		return nil
	}
	if len(n.inputs) > 0 {
		return n.inputs[0]
	}
	return nil
}

// Run invokes the node's kernel for the device its buffers live on.
// Requires Ready; a gradient node additionally requires its paired forward
// node to have executed, so the preserved input exists.
func (n *Node) Run(ctx *Context) error {
	if n.state != Ready {
		return fmt.Errorf("%s: run requires a Ready node (state %s)", n.desc.Name(), n.state)
	}
	if n.forward != nil && n.forward.state < Executed {
		return fmt.Errorf("%s: paired forward node has not executed (state %s)",
			n.desc.Name(), n.forward.state)
	}
	device := n.outputs[0].Device()
	kernel, ok := Kernel(n.desc.Name(), device)
	if !ok {
		return fmt.Errorf("%s: no kernel registered for device %s", n.desc.Name(), device)
	}
	kernel(ctx, n.params, n.inputs, n.outputs)
	n.state = Executed
	return nil
}

// GradientNode builds the paired backward node. The new node shares this
// node's Params (same pointer, never copied) and consumes, in slot order,
// the gradient flowing into this node's output and this node's original
// input. The caller drives inference and binding as for any node; Run
// refuses to execute until this forward node has.
func (n *Node) GradientNode() (*Node, error) {
	grad := n.desc.Gradient()
	if grad == nil {
		return nil, fmt.Errorf("%s: operator has no gradient", n.desc.Name())
	}
	return &Node{desc: grad, params: n.params, forward: n}, nil
}

func cloneShapes(shapes []tensor.Shape) []tensor.Shape {
	out := make([]tensor.Shape, len(shapes))
	for i, s := range shapes {
		out[i] = s.Clone()
	}
	return out
}
