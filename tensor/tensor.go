// Copyright 2025 Ember ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor exposes the buffer, shape and dtype types consumed by the
// Ember operator contract.
//
// A RawTensor is a flat numeric buffer tagged with a Shape, a DataType and
// a Device. Kernels read and write RawTensors directly; everything above
// them (graph construction, scheduling, allocation) belongs to the
// executor.
//
// Example:
//
//	x, err := tensor.NewRaw(tensor.Shape{3}, tensor.Float32, tensor.CPU)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	copy(x.AsFloat32(), []float32{1, 2, 3})
package tensor

import (
	internaltensor "github.com/ember-ml/ember/internal/tensor"
)

// Shape represents the dimensions of a tensor.
type Shape = internaltensor.Shape

// DataType is runtime type information for a tensor buffer.
type DataType = internaltensor.DataType

// Supported data types.
const (
	Invalid = internaltensor.Invalid
	Float32 = internaltensor.Float32
	Float64 = internaltensor.Float64
	Int32   = internaltensor.Int32
	Bool    = internaltensor.Bool
)

// Device identifies where a buffer lives.
type Device = internaltensor.Device

// Supported compute devices.
const (
	CPU    = internaltensor.CPU
	WebGPU = internaltensor.WebGPU
)

// RawTensor is the low-level tensor representation.
type RawTensor = internaltensor.RawTensor

// NewRaw creates a zero-initialized RawTensor with the given shape and type.
func NewRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	return internaltensor.NewRaw(shape, dtype, device)
}
