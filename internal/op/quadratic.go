package op

import (
	"errors"
	"math"
	"strconv"

	"github.com/ember-ml/ember/internal/parallel"
	"github.com/ember-ml/ember/internal/tensor"
)

// Operator names for the quadratic pair.
const (
	QuadraticName     = "quadratic"
	QuadraticGradName = "_backward_quadratic"
)

func init() {
	Register(quadratic{})
	Register(quadraticGrad{})
	RegisterKernel(QuadraticName, tensor.CPU, quadraticForwardCPU)
	RegisterKernel(QuadraticGradName, tensor.CPU, quadraticBackwardCPU)
}

// QuadraticParams holds the coefficients of f(x) = a*x^2 + b*x + c.
// Immutable after parsing; a forward node and its gradient node share one
// instance.
type QuadraticParams struct {
	A float64
	B float64
	C float64
}

// parseQuadraticParams converts the attribute map into QuadraticParams.
// Omitted coefficients default to 0; anything that does not parse as a
// finite float, and any unrecognized attribute, fails construction.
func parseQuadraticParams(opName string, attrs map[string]string) (*QuadraticParams, error) {
	p := &QuadraticParams{}
	fields := map[string]*float64{"a": &p.A, "b": &p.B, "c": &p.C}

	for name := range attrs {
		if _, ok := fields[name]; !ok {
			return nil, &ParameterParseError{Op: opName, Attr: name, Value: attrs[name],
				Err: errUnknownAttribute}
		}
	}
	for name, dst := range fields {
		raw, ok := attrs[name]
		if !ok {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, &ParameterParseError{Op: opName, Attr: name, Value: raw, Err: err}
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, &ParameterParseError{Op: opName, Attr: name, Value: raw}
		}
		*dst = v
	}
	return p, nil
}

var errUnknownAttribute = errors.New("unrecognized attribute")

// quadratic is the forward descriptor: out = a*x^2 + b*x + c, elementwise.
type quadratic struct{}

func (quadratic) Name() string         { return QuadraticName }
func (quadratic) NumInputs() int       { return 1 }
func (quadratic) NumOutputs() int      { return 1 }
func (quadratic) InputNames() []string { return []string{"data"} }
func (quadratic) IsBackward() bool     { return false }

func (quadratic) InferShape(inputs []tensor.Shape) ([]tensor.Shape, error) {
	if inputs[0] == nil {
		return nil, &ShapeError{Op: QuadraticName, Slot: 0, Msg: "input shape unresolved"}
	}
	if err := inputs[0].Validate(); err != nil {
		return nil, &ShapeError{Op: QuadraticName, Slot: 0, Msg: err.Error()}
	}
	return []tensor.Shape{inputs[0].Clone()}, nil
}

func (quadratic) InferType(inputs []tensor.DataType) ([]tensor.DataType, error) {
	if inputs[0] == tensor.Invalid {
		return nil, &TypeError{Op: QuadraticName, Slot: 0, Msg: "input dtype unresolved"}
	}
	return []tensor.DataType{inputs[0]}, nil
}

// InplaceOptions: the forward map never re-reads an element after writing
// it, so output 0 may reuse input 0's storage. The gradient path needs the
// pre-transform input, which the executor must then preserve separately
// (see Node.SaveInput).
func (quadratic) InplaceOptions() []InplaceOption {
	return []InplaceOption{{Output: 0, Input: 0}}
}

func (quadratic) Gradient() Descriptor { return quadraticGrad{} }

func (quadratic) ParseParams(attrs map[string]string) (Params, error) {
	return parseQuadraticParams(QuadraticName, attrs)
}

// quadraticGrad is the backward descriptor. Inputs, in slot order: the
// gradient flowing into the forward output, and the original forward input.
// Output: grad_in = grad_out * (2*a*x + b).
type quadraticGrad struct{}

func (quadraticGrad) Name() string         { return QuadraticGradName }
func (quadraticGrad) NumInputs() int       { return 2 }
func (quadraticGrad) NumOutputs() int      { return 1 }
func (quadraticGrad) InputNames() []string { return []string{"grad", "data"} }
func (quadraticGrad) IsBackward() bool     { return true }

func (quadraticGrad) InferShape(inputs []tensor.Shape) ([]tensor.Shape, error) {
	for slot, s := range inputs {
		if s == nil {
			return nil, &ShapeError{Op: QuadraticGradName, Slot: slot, Msg: "input shape unresolved"}
		}
	}
	if !inputs[0].Equal(inputs[1]) {
		return nil, &ShapeError{Op: QuadraticGradName, Slot: 1,
			Msg: "gradient and data shapes differ"}
	}
	return []tensor.Shape{inputs[1].Clone()}, nil
}

func (quadraticGrad) InferType(inputs []tensor.DataType) ([]tensor.DataType, error) {
	for slot, dt := range inputs {
		if dt == tensor.Invalid {
			return nil, &TypeError{Op: QuadraticGradName, Slot: slot, Msg: "input dtype unresolved"}
		}
	}
	if inputs[0] != inputs[1] {
		return nil, &TypeError{Op: QuadraticGradName, Slot: 1,
			Msg: "gradient and data dtypes differ"}
	}
	return []tensor.DataType{inputs[1]}, nil
}

func (quadraticGrad) InplaceOptions() []InplaceOption { return nil }
func (quadraticGrad) Gradient() Descriptor            { return nil }

func (quadraticGrad) ParseParams(attrs map[string]string) (Params, error) {
	return parseQuadraticParams(QuadraticGradName, attrs)
}

// quadraticForwardCPU computes out[i] = a*in[i]^2 + b*in[i] + c.
// Each element is independent, so the loop may run in any order and in any
// number of chunks. Reading in[i] before writing out[i] keeps the kernel
// safe under output-aliases-input.
func quadraticForwardCPU(ctx *Context, params Params, inputs, outputs []*tensor.RawTensor) {
	p := params.(*QuadraticParams)
	x, out := inputs[0], outputs[0]

	switch x.DType() {
	case tensor.Float32:
		a, b, c := float32(p.A), float32(p.B), float32(p.C)
		src := x.AsFloat32()
		dst := out.AsFloat32()
		parallel.For(len(src), func(i int) {
			v := src[i]
			dst[i] = a*v*v + b*v + c
		}, ctx.Parallel)
	case tensor.Float64:
		src := x.AsFloat64()
		dst := out.AsFloat64()
		parallel.For(len(src), func(i int) {
			v := src[i]
			dst[i] = p.A*v*v + p.B*v + p.C
		}, ctx.Parallel)
	default:
		panic("quadratic: unsupported dtype " + x.DType().String() +
			" (only float32/float64 supported)")
	}
}

// quadraticBackwardCPU computes grad_in[i] = grad_out[i] * (2*a*in[i] + b),
// the chain rule through the forward formula. It consumes the ORIGINAL
// forward input, never the forward output.
func quadraticBackwardCPU(ctx *Context, params Params, inputs, outputs []*tensor.RawTensor) {
	p := params.(*QuadraticParams)
	gradOut, x, gradIn := inputs[0], inputs[1], outputs[0]

	switch x.DType() {
	case tensor.Float32:
		a, b := float32(p.A), float32(p.B)
		g := gradOut.AsFloat32()
		src := x.AsFloat32()
		dst := gradIn.AsFloat32()
		parallel.For(len(src), func(i int) {
			dst[i] = g[i] * (2*a*src[i] + b)
		}, ctx.Parallel)
	case tensor.Float64:
		g := gradOut.AsFloat64()
		src := x.AsFloat64()
		dst := gradIn.AsFloat64()
		parallel.For(len(src), func(i int) {
			dst[i] = g[i] * (2*p.A*src[i] + p.B)
		}, ctx.Parallel)
	default:
		panic("quadratic backward: unsupported dtype " + x.DType().String() +
			" (only float32/float64 supported)")
	}
}
