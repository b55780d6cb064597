// Package shader holds the GLSL 330 core sources for every draw pass.
// All geometry is pre-transformed into window pixel space on the CPU;
// the vertex stages only apply the orthographic projection.
package shader

// ────────────────────────────────── Flat quads ──────────────────────────────────

const colorQuadVertexSource = `#version 330 core
layout (location = 0) in vec2 position;
layout (location = 1) in vec4 quad_color;

uniform mat4 projection;

out vec4 color;

void main() {
    color = quad_color;
    gl_Position = projection * vec4(position, 0.0, 1.0);
}
`

const colorQuadFragmentSource = `#version 330 core
in vec4 color;
out vec4 frag_color;

void main() {
    frag_color = color;
}
`

// ───────────────────────────────── Shadow quads ─────────────────────────────────

const shadowVertexSource = `#version 330 core
layout (location = 0) in vec2 position;
layout (location = 1) in vec2 uv;

uniform mat4 projection;

out vec2 tex_coord;

void main() {
    tex_coord = uv;
    gl_Position = projection * vec4(position, 0.0, 1.0);
}
`

// The shadow texture is single channel. Red is the blurred silhouette
// opacity; the fragment maps it straight to black with that alpha.
const shadowFragmentSource = `#version 330 core

in vec2 tex_coord;
out vec4 color;

uniform sampler2D tex;

void main() {
    float r = texture(tex, tex_coord).r;
    color = vec4(0.0, 0.0, 0.0, r);
}
`

// ───────────────────────────────── Glyph quads ──────────────────────────────────

// Glyphs come out of a single channel alpha atlas. The red sample
// masks the per-vertex text color.
const glyphVertexSource = `#version 330 core
layout (location = 0) in vec2 position;
layout (location = 1) in vec2 uv;
layout (location = 2) in vec4 glyph_color;

uniform mat4 projection;

out vec2 tex_coord;
out vec4 color;

void main() {
    tex_coord = uv;
    color = glyph_color;
    gl_Position = projection * vec4(position, 0.0, 1.0);
}
`

const glyphFragmentSource = `#version 330 core
in vec2 tex_coord;
in vec4 color;
out vec4 frag_color;

uniform sampler2D tex;

void main() {
    float a = texture(tex, tex_coord).r;
    frag_color = vec4(color.rgb, color.a * a);
}
`

// ────────────────────────────────── Public API ─────────────────────────────────

// ColorQuad returns the vertex and fragment sources for flat colored
// rects (backgrounds, cursors, selections, gutter fills).
func ColorQuad() (string, string) {
	return colorQuadVertexSource, colorQuadFragmentSource
}

// Shadow returns the vertex and fragment sources for the overlay drop
// shadow pass. The fragment stage samples a single channel texture and
// emits pure black with the sampled red as alpha, so a zero texel
// leaves the destination untouched and a full texel is opaque black.
func Shadow() (string, string) {
	return shadowVertexSource, shadowFragmentSource
}

// Glyph returns the vertex and fragment sources for atlas backed text.
func Glyph() (string, string) {
	return glyphVertexSource, glyphFragmentSource
}
