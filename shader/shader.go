package shader

// Dialect selects which flavour of GLSL a built-in source is written in.
type Dialect int

const (
	// DesktopGL is GLSL 3.30 core, compiled directly by an OpenGL 3.3 core context.
	DesktopGL Dialect = iota
	// ES is GLSL ES 3.00 (WebGL2), the input dialect of the translator.
	ES
)

// ────────────────────────────────── Desktop GL ──────────────────────────────────

const vertexShaderSourceGL = `#version 330 core
layout (location = 0) in vec3 position;

uniform mat4 model;
uniform mat4 view;
uniform mat4 projection;

void main() {
    gl_Position = projection * view * model * vec4(position, 1.0);
}
`

const fragmentShaderSourceGL = `#version 330 core
out vec4 fragColor;

uniform vec3 color;

void main() {
    fragColor = vec4(color, 1.0);
}
`

// ──────────────────────────────────── GLES ──────────────────────────────────────

const vertexShaderSourceGLES = `#version 300 es
layout (location = 0) in vec3 position;

uniform mat4 model;
uniform mat4 view;
uniform mat4 projection;

void main() {
    gl_Position = projection * view * model * vec4(position, 1.0);
}
`

const fragmentShaderSourceGLES = `#version 300 es
precision mediump float;
out vec4 fragColor;

uniform vec3 color;

void main() {
    fragColor = vec4(color, 1.0);
}
`

// ────────────────────────────────── Public API ─────────────────────────────────

// Uniform names of the flat colour program.
const (
	UniformModel      = "model"
	UniformView       = "view"
	UniformProjection = "projection"
	UniformColor      = "color"
)

// PositionAttribute is the vertex attribute index of the xyz position.
const PositionAttribute = 0

// VertexSource returns the flat colour vertex stage: it transforms positions by
// projection * view * model.
func VertexSource(d Dialect) string {
	if d == ES {
		return vertexShaderSourceGLES
	}
	return vertexShaderSourceGL
}

// FragmentSource returns the flat colour fragment stage: an opaque fill with the
// color uniform.
func FragmentSource(d Dialect) string {
	if d == ES {
		return fragmentShaderSourceGLES
	}
	return fragmentShaderSourceGL
}
