package op_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ember-ml/ember/op"
	"github.com/ember-ml/ember/tensor"
)

// TestQuadraticEndToEnd drives the whole contract the way an executor
// would: resolve the operator, parse attributes, infer shapes and dtypes,
// bind buffers, run forward, then build and run the gradient node.
func TestQuadraticEndToEnd(t *testing.T) {
	node, err := op.NewNode(op.QuadraticName, map[string]string{"a": "2", "b": "3", "c": "1"})
	require.NoError(t, err)

	shape := tensor.Shape{3}
	require.NoError(t, node.InferShape([]tensor.Shape{shape}))
	require.NoError(t, node.InferType([]tensor.DataType{tensor.Float32}))

	x, err := tensor.NewRaw(shape, tensor.Float32, tensor.CPU)
	require.NoError(t, err)
	copy(x.AsFloat32(), []float32{1, 2, 3})
	y, err := tensor.NewRaw(shape, tensor.Float32, tensor.CPU)
	require.NoError(t, err)

	ctx := op.NewContext()
	require.NoError(t, node.Bind([]*tensor.RawTensor{x}, []*tensor.RawTensor{y}))
	require.NoError(t, node.Run(ctx))
	assert.Equal(t, []float32{6, 15, 28}, y.AsFloat32())

	gradNode, err := node.GradientNode()
	require.NoError(t, err)
	require.NoError(t, gradNode.InferShape([]tensor.Shape{shape, shape}))
	require.NoError(t, gradNode.InferType([]tensor.DataType{tensor.Float32, tensor.Float32}))

	gradOut, err := tensor.NewRaw(shape, tensor.Float32, tensor.CPU)
	require.NoError(t, err)
	copy(gradOut.AsFloat32(), []float32{1, 1, 1})
	gradIn, err := tensor.NewRaw(shape, tensor.Float32, tensor.CPU)
	require.NoError(t, err)

	require.NoError(t, gradNode.Bind([]*tensor.RawTensor{gradOut, x}, []*tensor.RawTensor{gradIn}))
	require.NoError(t, gradNode.Run(ctx))
	assert.Equal(t, []float32{7, 11, 15}, gradIn.AsFloat32())
}

func TestMalformedAttributeFailsAtConstruction(t *testing.T) {
	_, err := op.NewNode(op.QuadraticName, map[string]string{"a": "NaN"})
	var parseErr *op.ParameterParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, op.QuadraticName, parseErr.Op)
	assert.Equal(t, "a", parseErr.Attr)
}

func TestRegistryListsQuadraticPair(t *testing.T) {
	names := op.Names()
	assert.Contains(t, names, op.QuadraticName)
	assert.Contains(t, names, op.QuadraticGradName)

	desc, ok := op.Lookup(op.QuadraticName)
	require.True(t, ok)
	require.NotNil(t, desc.Gradient())
	assert.Equal(t, op.QuadraticGradName, desc.Gradient().Name())
}
