//go:build windows

package webgpu

// WGSL compute shaders for the quadratic kernel pair (float32 only).

// workgroupSize is the number of threads per workgroup.
const workgroupSize = 256

// quadraticShader computes result = a*x^2 + b*x + c elementwise.
const quadraticShader = `
@group(0) @binding(0) var<storage, read> input: array<f32>;
@group(0) @binding(1) var<storage, read_write> result: array<f32>;

struct Params {
    size: u32,
    a: f32,
    b: f32,
    c: f32,
}
@group(0) @binding(2) var<uniform> params: Params;

@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) global_id: vec3<u32>) {
    let idx = global_id.x;
    if (idx < params.size) {
        let x = input[idx];
        result[idx] = params.a * x * x + params.b * x + params.c;
    }
}
`

// quadraticGradShader computes result = grad * (2*a*x + b) elementwise,
// where x is the original forward input.
const quadraticGradShader = `
@group(0) @binding(0) var<storage, read> grad: array<f32>;
@group(0) @binding(1) var<storage, read> input: array<f32>;
@group(0) @binding(2) var<storage, read_write> result: array<f32>;

struct Params {
    size: u32,
    a: f32,
    b: f32,
    c: f32,
}
@group(0) @binding(3) var<uniform> params: Params;

@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) global_id: vec3<u32>) {
    let idx = global_id.x;
    if (idx < params.size) {
        result[idx] = grad[idx] * (2.0 * params.a * input[idx] + params.b);
    }
}
`
