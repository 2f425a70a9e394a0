package op

import (
	"math"
	"testing"

	"github.com/ember-ml/ember/internal/parallel"
	"github.com/ember-ml/ember/internal/tensor"
)

func newFloat32(t *testing.T, data []float32) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.NewRaw(tensor.Shape{len(data)}, tensor.Float32, tensor.CPU)
	if err != nil {
		t.Fatalf("failed to create tensor: %v", err)
	}
	copy(raw.AsFloat32(), data)
	return raw
}

func newFloat64(t *testing.T, data []float64) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.NewRaw(tensor.Shape{len(data)}, tensor.Float64, tensor.CPU)
	if err != nil {
		t.Fatalf("failed to create tensor: %v", err)
	}
	copy(raw.AsFloat64(), data)
	return raw
}

func TestQuadraticForward(t *testing.T) {
	p := &QuadraticParams{A: 2, B: 3, C: 1}
	x := newFloat32(t, []float32{1, 2, 3})
	y := newFloat32(t, []float32{0, 0, 0})

	quadraticForwardCPU(NewContext(), p, []*tensor.RawTensor{x}, []*tensor.RawTensor{y})

	want := []float32{6, 15, 28}
	for i, w := range want {
		if got := y.AsFloat32()[i]; got != w {
			t.Errorf("forward[%d] = %v, want %v", i, got, w)
		}
	}
}

func TestQuadraticForwardFloat64(t *testing.T) {
	p := &QuadraticParams{A: 0.5, B: -1, C: 2}
	xs := []float64{-2, -0.5, 0, 0.5, 2}
	x := newFloat64(t, xs)
	y := newFloat64(t, make([]float64, len(xs)))

	quadraticForwardCPU(NewContext(), p, []*tensor.RawTensor{x}, []*tensor.RawTensor{y})

	for i, v := range xs {
		want := 0.5*v*v - v + 2
		if got := y.AsFloat64()[i]; math.Abs(got-want) > 1e-12 {
			t.Errorf("forward[%d] = %v, want %v", i, got, want)
		}
	}
}

func TestQuadraticBackward(t *testing.T) {
	p := &QuadraticParams{A: 2, B: 3, C: 1}
	gradOut := newFloat32(t, []float32{1, 1, 1})
	x := newFloat32(t, []float32{1, 2, 3})
	gradIn := newFloat32(t, []float32{0, 0, 0})

	quadraticBackwardCPU(NewContext(), p,
		[]*tensor.RawTensor{gradOut, x}, []*tensor.RawTensor{gradIn})

	// grad_in[i] = grad_out[i] * (2*a*x + b)
	want := []float32{7, 11, 15}
	for i, w := range want {
		if got := gradIn.AsFloat32()[i]; got != w {
			t.Errorf("backward[%d] = %v, want %v", i, got, w)
		}
	}
}

func TestQuadraticBackwardScalesWithGrad(t *testing.T) {
	p := &QuadraticParams{A: 1, B: 0, C: 5}
	gradOut := newFloat32(t, []float32{0.5, -2, 0})
	x := newFloat32(t, []float32{3, 3, 3})
	gradIn := newFloat32(t, []float32{0, 0, 0})

	quadraticBackwardCPU(NewContext(), p,
		[]*tensor.RawTensor{gradOut, x}, []*tensor.RawTensor{gradIn})

	want := []float32{3, -12, 0} // g * 2*x
	for i, w := range want {
		if got := gradIn.AsFloat32()[i]; got != w {
			t.Errorf("backward[%d] = %v, want %v", i, got, w)
		}
	}
}

// TestQuadraticForwardInplace checks that aliasing the output onto the
// input produces the same results as disjoint buffers.
func TestQuadraticForwardInplace(t *testing.T) {
	p := &QuadraticParams{A: -1, B: 2, C: 0.25}
	data := []float32{-3, -1, 0, 1, 3}

	x := newFloat32(t, data)
	y := newFloat32(t, make([]float32, len(data)))
	quadraticForwardCPU(NewContext(), p, []*tensor.RawTensor{x}, []*tensor.RawTensor{y})

	aliased := newFloat32(t, data)
	quadraticForwardCPU(NewContext(), p,
		[]*tensor.RawTensor{aliased}, []*tensor.RawTensor{aliased})

	for i := range data {
		if aliased.AsFloat32()[i] != y.AsFloat32()[i] {
			t.Errorf("inplace[%d] = %v, disjoint = %v", i, aliased.AsFloat32()[i], y.AsFloat32()[i])
		}
	}
}

// TestQuadraticParallelMatchesSequential checks that the chunked parallel
// loop never changes the result: every element is independent.
func TestQuadraticParallelMatchesSequential(t *testing.T) {
	p := &QuadraticParams{A: 1.5, B: -0.25, C: 3}

	n := 4096
	data := make([]float32, n)
	for i := range data {
		data[i] = float32(i%97) - 48
	}

	seqCtx := &Context{Parallel: parallel.Sequential()}
	parCtx := &Context{Parallel: parallel.Config{Enabled: true, NumWorkers: 7, MinChunkSize: 1}}

	xSeq := newFloat32(t, data)
	ySeq := newFloat32(t, make([]float32, n))
	quadraticForwardCPU(seqCtx, p, []*tensor.RawTensor{xSeq}, []*tensor.RawTensor{ySeq})

	xPar := newFloat32(t, data)
	yPar := newFloat32(t, make([]float32, n))
	quadraticForwardCPU(parCtx, p, []*tensor.RawTensor{xPar}, []*tensor.RawTensor{yPar})

	for i := 0; i < n; i++ {
		if ySeq.AsFloat32()[i] != yPar.AsFloat32()[i] {
			t.Fatalf("parallel[%d] = %v, sequential = %v", i, yPar.AsFloat32()[i], ySeq.AsFloat32()[i])
		}
	}
}

// TestQuadraticNaNInfPropagate checks that non-finite inputs flow through
// the formula elementwise instead of failing.
func TestQuadraticNaNInfPropagate(t *testing.T) {
	p := &QuadraticParams{A: 1, B: 1, C: 1}
	nan := float32(math.NaN())
	inf := float32(math.Inf(1))

	x := newFloat32(t, []float32{nan, inf, 2})
	y := newFloat32(t, make([]float32, 3))
	quadraticForwardCPU(NewContext(), p, []*tensor.RawTensor{x}, []*tensor.RawTensor{y})

	out := y.AsFloat32()
	if !math.IsNaN(float64(out[0])) {
		t.Errorf("NaN input produced %v, want NaN", out[0])
	}
	if !math.IsInf(float64(out[1]), 1) {
		t.Errorf("+Inf input produced %v, want +Inf", out[1])
	}
	if out[2] != 7 {
		t.Errorf("finite input produced %v, want 7", out[2])
	}
}

func TestQuadraticForwardUnsupportedDType(t *testing.T) {
	p := &QuadraticParams{}
	x, _ := tensor.NewRaw(tensor.Shape{2}, tensor.Int32, tensor.CPU)
	y, _ := tensor.NewRaw(tensor.Shape{2}, tensor.Int32, tensor.CPU)

	defer func() {
		if recover() == nil {
			t.Error("int32 input should panic")
		}
	}()
	quadraticForwardCPU(NewContext(), p, []*tensor.RawTensor{x}, []*tensor.RawTensor{y})
}
