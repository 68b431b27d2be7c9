package opengl

import (
	"fmt"
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// TransformBlock layout: the transposed world-to-view matrix packed as
// mat3x4 (48 bytes), immediately followed by the projection matrix
// (64 bytes). Per std140 a column matrix is stored as an array of its
// columns padded to vec4, so transposing to 3 columns of 4 avoids the
// padding a 4x3 layout would need.
const (
	transformBlockFloats = 28
	TransformBlockSize   = transformBlockFloats * 4
	projectionOffset     = 48
)

// PackTransformBlock lays out the two matrices exactly as the shaders'
// TransformBlock expects them.
func PackTransformBlock(worldToView, projection mgl32.Mat4) [transformBlockFloats]float32 {
	var out [transformBlockFloats]float32
	for row := 0; row < 3; row++ {
		r := worldToView.Row(row)
		copy(out[row*4:], r[:])
	}
	copy(out[projectionOffset/4:], projection[:])
	return out
}

// TransformUBO owns the shared transform uniform buffer, bound to
// binding point 0 for every program that declares a TransformBlock.
type TransformUBO struct {
	ubo uint32
}

// NewTransformUBO allocates the buffer sized from the default program's
// block and binds it to binding point 0. The block layout is assumed
// identical across programs; VerifyTransformBlockOffsets checks the
// assumption instead of trusting it.
func NewTransformUBO(programs *Programs) (*TransformUBO, error) {
	defaultProg := programs.ID(Default)
	blockIndex := gl.GetUniformBlockIndex(defaultProg, gl.Str("TransformBlock\x00"))
	if blockIndex == gl.INVALID_INDEX {
		return nil, fmt.Errorf("default program has no TransformBlock")
	}
	var blockSize int32
	gl.GetActiveUniformBlockiv(defaultProg, blockIndex, gl.UNIFORM_BLOCK_DATA_SIZE, &blockSize)
	if blockSize < TransformBlockSize {
		return nil, fmt.Errorf("TransformBlock is %d bytes, want at least %d", blockSize, TransformBlockSize)
	}

	t := &TransformUBO{}
	gl.GenBuffers(1, &t.ubo)
	gl.BindBuffer(gl.UNIFORM_BUFFER, t.ubo)
	gl.BufferData(gl.UNIFORM_BUFFER, int(blockSize), nil, gl.DYNAMIC_DRAW)
	gl.BindBuffer(gl.UNIFORM_BUFFER, 0)
	gl.BindBufferBase(gl.UNIFORM_BUFFER, 0, t.ubo)

	// Every program with a TransformBlock reads from binding point 0.
	for _, sp := range []ShaderProgram{Default, Instancing, PointRendering} {
		prog := programs.ID(sp)
		if idx := gl.GetUniformBlockIndex(prog, gl.Str("TransformBlock\x00")); idx != gl.INVALID_INDEX {
			gl.UniformBlockBinding(prog, idx, 0)
		}
	}

	return t, nil
}

// Update overwrites the whole block with this frame's matrices. Runs
// before any draw that consults the block; strict program order within
// the frame is the only ordering guarantee needed.
func (t *TransformUBO) Update(worldToView, projection mgl32.Mat4) {
	packed := PackTransformBlock(worldToView, projection)
	gl.BindBuffer(gl.UNIFORM_BUFFER, t.ubo)
	gl.BufferSubData(gl.UNIFORM_BUFFER, 0, TransformBlockSize, unsafe.Pointer(&packed[0]))
	gl.BindBuffer(gl.UNIFORM_BUFFER, 0)
}

// Destroy releases the uniform buffer.
func (t *TransformUBO) Destroy() {
	if t.ubo != 0 {
		gl.DeleteBuffers(1, &t.ubo)
		t.ubo = 0
	}
}

// VerifyTransformBlockOffsets queries the driver for the actual member
// offsets of TransformBlock and checks them against the packed layout.
// A mismatch would silently corrupt every transform, so it is a fatal
// initialization error.
func VerifyTransformBlockOffsets(program uint32) error {
	names := []string{"worldToView", "projection"}
	want := []int32{0, projectionOffset}

	for i, name := range names {
		cname := gl.Str(name + "\x00")
		var index uint32
		gl.GetUniformIndices(program, 1, &cname, &index)
		if index == gl.INVALID_INDEX {
			return fmt.Errorf("uniform %q not found in TransformBlock", name)
		}
		var offset int32
		gl.GetActiveUniformsiv(program, 1, &index, gl.UNIFORM_OFFSET, &offset)
		if offset != want[i] {
			return fmt.Errorf("uniform %q at offset %d, layout expects %d", name, offset, want[i])
		}
	}
	return nil
}
