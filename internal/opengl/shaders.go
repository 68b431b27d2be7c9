package opengl

import (
	"fmt"
	"strings"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"shading-demo/scene"
)

// ShaderProgram names one of the fixed programs the demo renders with.
type ShaderProgram int

const (
	Default ShaderProgram = iota // floor plane, single model matrix
	Instancing                   // cube batch, per-instance transforms from a UBO
	PointRendering               // light marker point
	Tonemapping                  // HDR resolve to the window surface
	numShaderPrograms
)

func (s ShaderProgram) String() string {
	switch s {
	case Default:
		return "default"
	case Instancing:
		return "instancing"
	case PointRendering:
		return "point"
	case Tonemapping:
		return "tonemapping"
	}
	return fmt.Sprintf("program(%d)", int(s))
}

// ── Shaders ───────────────────────────────────────────────────────────────────

// The TransformBlock matches PackTransformBlock: the world-to-view matrix
// stored transposed as 3 columns of vec4 (48 bytes), then the projection
// matrix (64 bytes). With the transposed storage, view-space position is
// the row-vector product vec4(worldPos, 1.0) * worldToView.
const transformBlockSrc = `
layout(std140) uniform TransformBlock {
    mat3x4 worldToView;
    mat4   projection;
};
`

const litVertSrc = `#version 410 core
layout(location = 0) in vec3 inPosition;
layout(location = 1) in vec3 inNormal;
layout(location = 2) in vec3 inTangent;
layout(location = 3) in vec2 inUV;
` + transformBlockSrc + `
uniform mat4x3 modelToWorld;

out vec3 vWorldPos;
out vec3 vNormal;
out vec3 vTangent;
out vec2 vUV;

void main() {
    vec3 worldPos = modelToWorld * vec4(inPosition, 1.0);
    vWorldPos = worldPos;
    vNormal   = normalize(mat3(modelToWorld) * inNormal);
    vTangent  = normalize(mat3(modelToWorld) * inTangent);
    vUV       = inUV;

    vec3 viewPos = vec4(worldPos, 1.0) * worldToView;
    gl_Position  = projection * vec4(viewPos, 1.0);
}
` + "\x00"

// instancingVertSrc reads the transposed per-instance world transform from
// a UBO indexed by gl_InstanceID. The array length must equal
// scene.MaxInstances, so the source is assembled in init.
var instancingVertSrc = fmt.Sprintf(`#version 410 core
layout(location = 0) in vec3 inPosition;
layout(location = 1) in vec3 inNormal;
layout(location = 2) in vec3 inTangent;
layout(location = 3) in vec2 inUV;
%s
layout(std140) uniform InstanceBuffer {
    mat3x4 instanceWorld[%d];
};

out vec3 vWorldPos;
out vec3 vNormal;
out vec3 vTangent;
out vec2 vUV;

void main() {
    mat3x4 world = instanceWorld[gl_InstanceID];

    vec3 worldPos = vec4(inPosition, 1.0) * world;
    vWorldPos = worldPos;
    // Transposed storage: the row-vector product applies the rotation part.
    vNormal   = normalize(inNormal * mat3(world));
    vTangent  = normalize(inTangent * mat3(world));
    vUV       = inUV;

    vec3 viewPos = vec4(worldPos, 1.0) * worldToView;
    gl_Position  = projection * vec4(viewPos, 1.0);
}
`, transformBlockSrc, scene.MaxInstances) + "\x00"

// litFragSrc is shared by the Default and Instancing programs: one point
// light, Blinn-Phong with a tangent-space normal map, HDR output.
const litFragSrc = `#version 410 core
in vec3 vWorldPos;
in vec3 vNormal;
in vec3 vTangent;
in vec2 vUV;

out vec4 outColor;

uniform sampler2D diffuseTex;   // unit 0
uniform sampler2D normalTex;    // unit 1
uniform sampler2D specularTex;  // unit 2
uniform sampler2D occlusionTex; // unit 3

uniform vec3 lightPosWS;
uniform vec4 viewPosWS;

const float lightIntensity = 15.0;
const float ambient = 0.02;

void main() {
    vec3  albedo    = texture(diffuseTex, vUV).rgb;
    float specular  = texture(specularTex, vUV).r;
    float occlusion = texture(occlusionTex, vUV).r;

    vec3 n = normalize(vNormal);
    vec3 t = normalize(vTangent - n * dot(vTangent, n));
    vec3 b = cross(n, t);
    vec3 N = normalize(mat3(t, b, n) * (texture(normalTex, vUV).rgb * 2.0 - 1.0));

    vec3  toLight = lightPosWS - vWorldPos;
    float distSq  = max(dot(toLight, toLight), 0.0001);
    vec3  L = toLight * inversesqrt(distSq);
    vec3  V = normalize(viewPosWS.xyz - vWorldPos);
    vec3  H = normalize(L + V);

    float radiance = lightIntensity / distSq;
    float NdL = max(dot(N, L), 0.0);

    vec3 color = ambient * albedo * occlusion;
    color += radiance * NdL * albedo;
    if (NdL > 0.0) {
        color += radiance * specular * pow(max(dot(N, H), 0.0), 64.0);
    }

    outColor = vec4(color, 1.0);
}
` + "\x00"

const pointVertSrc = `#version 410 core
` + transformBlockSrc + `
uniform vec3 position;

void main() {
    vec3 viewPos = vec4(position, 1.0) * worldToView;
    gl_Position  = projection * vec4(viewPos, 1.0);
}
` + "\x00"

const pointFragSrc = `#version 410 core
uniform vec3 color;
out vec4 outColor;

void main() {
    outColor = vec4(color, 1.0);
}
` + "\x00"

// tonemapVertSrc draws a fullscreen triangle from gl_VertexID; no VBO.
const tonemapVertSrc = `#version 410 core
out vec2 fragUV;

void main() {
    const vec2 pos[3] = vec2[3](
        vec2(-1.0, -1.0),
        vec2( 3.0, -1.0),
        vec2(-1.0,  3.0)
    );
    gl_Position = vec4(pos[gl_VertexID], 0.0, 1.0);
    fragUV      = pos[gl_VertexID] * 0.5 + 0.5;
}
` + "\x00"

// tonemapFragSrc resolves the HDR target in-shader: when sampleCount > 1
// it averages the multisample texels itself. Gamma is left to the sRGB
// default framebuffer.
const tonemapFragSrc = `#version 410 core
in  vec2 fragUV;
out vec4 outColor;

uniform sampler2D   hdrTex;   // unit 0, used when sampleCount == 1
uniform sampler2DMS hdrTexMS; // unit 1, used when sampleCount > 1
uniform int   sampleCount;
uniform float exposure;

void main() {
    vec3 hdr;
    if (sampleCount > 1) {
        ivec2 coord = ivec2(gl_FragCoord.xy);
        vec3 sum = vec3(0.0);
        for (int i = 0; i < sampleCount; i++) {
            sum += texelFetch(hdrTexMS, coord, i).rgb;
        }
        hdr = sum / float(sampleCount);
    } else {
        hdr = texture(hdrTex, fragUV).rgb;
    }

    outColor = vec4(vec3(1.0) - exp(-hdr * exposure), 1.0);
}
` + "\x00"

// ── Programs ──────────────────────────────────────────────────────────────────

// Programs holds the compiled fixed program set.
type Programs struct {
	ids [numShaderPrograms]uint32
}

// CompilePrograms compiles and links all four programs. Any failure
// releases what was built and surfaces as a single error, treated as
// fatal by the caller.
func CompilePrograms() (*Programs, error) {
	sources := [numShaderPrograms]struct {
		vert, frag string
	}{
		Default:        {litVertSrc, litFragSrc},
		Instancing:     {instancingVertSrc, litFragSrc},
		PointRendering: {pointVertSrc, pointFragSrc},
		Tonemapping:    {tonemapVertSrc, tonemapFragSrc},
	}

	p := &Programs{}
	for i, src := range sources {
		prog, err := newProgram(src.vert, src.frag)
		if err != nil {
			p.Destroy()
			return nil, fmt.Errorf("%s shader: %w", ShaderProgram(i), err)
		}
		p.ids[i] = prog
	}
	return p, nil
}

// ID returns the GL program handle.
func (p *Programs) ID(sp ShaderProgram) uint32 {
	return p.ids[sp]
}

// Destroy releases all compiled programs. Safe on a partially built set.
func (p *Programs) Destroy() {
	for i, id := range p.ids {
		if id != 0 {
			gl.DeleteProgram(id)
			p.ids[i] = 0
		}
	}
}

// ── Shader helpers ────────────────────────────────────────────────────────────

func newProgram(vertSrc, fragSrc string) (uint32, error) {
	vert, err := compileShader(vertSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex: %w", err)
	}
	frag, err := compileShader(fragSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vert)
		return 0, fmt.Errorf("fragment: %w", err)
	}

	prog := gl.CreateProgram()
	gl.AttachShader(prog, vert)
	gl.AttachShader(prog, frag)
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(log))
		gl.DeleteShader(vert)
		gl.DeleteShader(frag)
		gl.DeleteProgram(prog)
		return 0, fmt.Errorf("link failed: %v", log)
	}

	gl.DeleteShader(vert)
	gl.DeleteShader(frag)
	return prog, nil
}

func compileShader(src string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src)
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile failed: %v", log)
	}
	return shader, nil
}
