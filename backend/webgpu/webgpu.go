//go:build windows

// Copyright 2025 Ember ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package webgpu provides GPU execution of the quadratic kernel pair via
// WebGPU compute shaders.
//
// Example:
//
//	gpu, err := webgpu.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer gpu.Release()
//	gpu.RegisterKernels()
//
//	// Nodes bound to tensor.WebGPU buffers now run on the GPU.
package webgpu

import (
	internalwebgpu "github.com/ember-ml/ember/internal/backend/webgpu"
)

// Backend owns the WebGPU device handles and shader caches.
type Backend = internalwebgpu.Backend

// New creates a new WebGPU backend.
// Returns an error if WebGPU is not available or initialization fails.
func New() (*Backend, error) {
	return internalwebgpu.New()
}

// IsAvailable checks if WebGPU is available on this system.
func IsAvailable() bool {
	return internalwebgpu.IsAvailable()
}
