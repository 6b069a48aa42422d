//go:build windows

package webgpu

import "strings"

// WGSL compute shaders for float32 element-wise operations.
// All shaders use a workgroup size of 256 and read the element count from
// a Params uniform; scalar variants carry the scalar in the same uniform.

const binaryShaderTemplate = `
struct Params {
    size: u32,
}

@group(0) @binding(0) var<storage, read> a: array<f32>;
@group(0) @binding(1) var<storage, read> b: array<f32>;
@group(0) @binding(2) var<storage, read_write> out: array<f32>;
@group(0) @binding(3) var<uniform> params: Params;

@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) gid: vec3<u32>) {
    let i = gid.x;
    if (i >= params.size) {
        return;
    }
    out[i] = OP;
}
`

const scalarShaderTemplate = `
struct Params {
    size: u32,
    scalar: f32,
}

@group(0) @binding(0) var<storage, read> x: array<f32>;
@group(0) @binding(1) var<storage, read_write> out: array<f32>;
@group(0) @binding(2) var<uniform> params: Params;

@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) gid: vec3<u32>) {
    let i = gid.x;
    if (i >= params.size) {
        return;
    }
    out[i] = OP;
}
`

// expandShader substitutes the OP placeholder in a shader template.
func expandShader(template, op string) string {
	return strings.ReplaceAll(template, "OP", op)
}

var shaderSources = map[string]string{
	"add": expandShader(binaryShaderTemplate, "a[i] + b[i]"),
	"sub": expandShader(binaryShaderTemplate, "a[i] - b[i]"),
	"mul": expandShader(binaryShaderTemplate, "a[i] * b[i]"),
	"div": expandShader(binaryShaderTemplate, "a[i] / b[i]"),

	"scalar_add": expandShader(scalarShaderTemplate, "x[i] + params.scalar"),
	"scalar_mul": expandShader(scalarShaderTemplate, "x[i] * params.scalar"),
	"scalar_pow": expandShader(scalarShaderTemplate, "pow(x[i], params.scalar)"),

	"exp":   expandShader(scalarShaderTemplate, "exp(x[i])"),
	"log":   expandShader(scalarShaderTemplate, "log(x[i])"),
	"log1p": expandShader(scalarShaderTemplate, "log(1.0 + x[i])"),
	"floor": expandShader(scalarShaderTemplate, "floor(x[i])"),
	"sqrt":  expandShader(scalarShaderTemplate, "sqrt(x[i])"),
}
