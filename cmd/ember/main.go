// Package main provides the Ember CLI.
package main

import (
	"fmt"
	"os"

	"github.com/ember-ml/ember/op"
	"github.com/ember-ml/ember/tensor"
)

const version = "v0.0.1-dev"

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "version":
			fmt.Printf("Ember %s\n", version)
			return
		case "ops":
			listOps()
			return
		case "demo":
			if err := demo(); err != nil {
				fmt.Fprintf(os.Stderr, "demo: %v\n", err)
				os.Exit(1)
			}
			return
		}
	}

	fmt.Println("Ember - Compute-Graph Operator Contract for Go")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version    Show version")
	fmt.Println("  ops        List registered operators")
	fmt.Println("  demo       Run the quadratic forward/backward demo")
}

func listOps() {
	for _, name := range op.Names() {
		desc, _ := op.Lookup(name)
		grad := "-"
		if g := desc.Gradient(); g != nil {
			grad = g.Name()
		}
		fmt.Printf("%-24s in=%d out=%d inputs=%v gradient=%s\n",
			name, desc.NumInputs(), desc.NumOutputs(), desc.InputNames(), grad)
	}
}

// demo builds a quadratic node with a=2 b=3 c=1, runs it over [1 2 3] and
// then runs its gradient node with a unit output gradient.
func demo() error {
	node, err := op.NewNode(op.QuadraticName, map[string]string{"a": "2", "b": "3", "c": "1"})
	if err != nil {
		return err
	}

	shape := tensor.Shape{3}
	if err := node.InferShape([]tensor.Shape{shape}); err != nil {
		return err
	}
	if err := node.InferType([]tensor.DataType{tensor.Float32}); err != nil {
		return err
	}

	x, err := tensor.NewRaw(shape, tensor.Float32, tensor.CPU)
	if err != nil {
		return err
	}
	copy(x.AsFloat32(), []float32{1, 2, 3})

	y, err := tensor.NewRaw(shape, tensor.Float32, tensor.CPU)
	if err != nil {
		return err
	}

	ctx := op.NewContext()
	if err := node.Bind([]*tensor.RawTensor{x}, []*tensor.RawTensor{y}); err != nil {
		return err
	}
	if err := node.Run(ctx); err != nil {
		return err
	}
	fmt.Printf("forward  %v -> %v\n", x.AsFloat32(), y.AsFloat32())

	gradNode, err := node.GradientNode()
	if err != nil {
		return err
	}
	gradOut, err := tensor.NewRaw(shape, tensor.Float32, tensor.CPU)
	if err != nil {
		return err
	}
	copy(gradOut.AsFloat32(), []float32{1, 1, 1})
	gradIn, err := tensor.NewRaw(shape, tensor.Float32, tensor.CPU)
	if err != nil {
		return err
	}

	if err := gradNode.InferShape([]tensor.Shape{shape, shape}); err != nil {
		return err
	}
	if err := gradNode.InferType([]tensor.DataType{tensor.Float32, tensor.Float32}); err != nil {
		return err
	}
	if err := gradNode.Bind([]*tensor.RawTensor{gradOut, x}, []*tensor.RawTensor{gradIn}); err != nil {
		return err
	}
	if err := gradNode.Run(ctx); err != nil {
		return err
	}
	fmt.Printf("backward %v -> %v\n", gradOut.AsFloat32(), gradIn.AsFloat32())

	return nil
}
