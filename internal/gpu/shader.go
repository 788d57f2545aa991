//go:build !nogpu

package gpu

import (
	"encoding/binary"
	"fmt"

	"github.com/gogpu/naga"
)

// workgroupSize is the edge of the square workgroup declared in
// escapeShaderSource.
const workgroupSize = 8

// escapeShaderSource evaluates one pixel per invocation: escape time with
// optional smoothing, the curvature transform and the colour wheel. Output
// is one packed RGBA8 word per pixel, row-major.
//
// Bindings: 0 = output storage buffer, 1 = frameParams uniform.
const escapeShaderSource = `
struct Params {
    left: f32,
    top: f32,
    step: f32,
    threshold: f32,
    width: u32,
    height: u32,
    limit: u32,
    smoothing: u32,
    curve_a: f32,
    curve_b: f32,
    curve_s: f32,
    identity: u32,
}

@group(0) @binding(0) var<storage, read_write> pixels: array<u32>;
@group(0) @binding(1) var<uniform> params: Params;

fn wheel(v: f32) -> u32 {
    var idx: u32 = 0u;
    if (abs(v) < 1.0e30) {
        let f = floor(v);
        let w = f - floor(f / 768.0) * 768.0;
        idx = min(u32(max(w, 0.0)), 767u);
    }
    let band = idx / 256u;
    let t = idx % 256u;
    var r: u32 = 0u;
    var g: u32 = 0u;
    var b: u32 = 0u;
    if (band == 0u) {
        r = 255u - t;
        g = t;
    } else if (band == 1u) {
        g = 255u - t;
        b = t;
    } else {
        r = t;
        b = 255u - t;
    }
    return r | (g << 8u) | (b << 16u) | 0xff000000u;
}

@compute @workgroup_size(8, 8, 1)
fn main(@builtin(global_invocation_id) id: vec3<u32>) {
    if (id.x >= params.width || id.y >= params.height) {
        return;
    }
    let cr = params.left + f32(id.x) * params.step;
    let ci = params.top + f32(id.y) * params.step;

    var zr: f32 = 0.0;
    var zi: f32 = 0.0;
    var code: f32 = 0.0;
    var escaped = false;
    var n: u32 = 1u;
    loop {
        if (n > params.limit) {
            break;
        }
        let t = zr * zr - zi * zi + cr;
        zi = 2.0 * zr * zi + ci;
        zr = t;
        let mz2 = zr * zr + zi * zi;
        if (mz2 > params.threshold) {
            code = f32(n);
            if (params.smoothing != 0u) {
                code = code + 1.0 / max(mz2 - params.threshold, 1.0);
            }
            escaped = true;
            break;
        }
        n = n + 1u;
    }

    var rgba: u32 = 0xff000000u;
    if (escaped) {
        var v = code;
        if (params.identity == 0u) {
            v = (params.curve_b - 1.0 / (code / params.curve_s + params.curve_a)) * params.curve_s;
        }
        rgba = wheel(v);
    }
    pixels[id.y * params.width + id.x] = rgba;
}
`

// compileShader translates escapeShaderSource to SPIR-V words.
func compileShader() ([]uint32, error) {
	spv, err := naga.Compile(escapeShaderSource)
	if err != nil {
		return nil, fmt.Errorf("compile escape shader: %w", err)
	}
	if len(spv)%4 != 0 {
		return nil, fmt.Errorf("compile escape shader: SPIR-V length %d not a multiple of 4", len(spv))
	}
	words := make([]uint32, len(spv)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(spv[i*4:])
	}
	return words, nil
}
