package opengl

import (
	"fmt"
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"shading-demo/scene"
)

// cubeAngleStep is the per-index rotation applied to each cube, in degrees.
const cubeAngleStep = 20.0

// cubeRotationAxis is the fixed axis every cube rotates around.
var cubeRotationAxis = mgl32.Vec3{1, 1, 1}.Normalize()

// InstanceData is one per-instance record: the world transform transposed
// into 3 rows of 4 floats. Dropping the constant (0,0,0,1) fourth row
// keeps the std140 array tight (48 bytes per instance instead of 64).
type InstanceData struct {
	Transform [12]float32
}

// InstanceSize is the byte size of one packed instance.
const InstanceSize = int(unsafe.Sizeof(InstanceData{}))

// PackInstance transposes the world matrix and keeps its first three
// rows, matching the mat3x4 layout the instancing shader reads.
func PackInstance(world mgl32.Mat4) InstanceData {
	var d InstanceData
	for row := 0; row < 3; row++ {
		r := world.Row(row)
		copy(d.Transform[row*4:], r[:])
	}
	return d
}

// UnpackInstance rebuilds the full 4x4 world transform from its packed
// form, restoring the implicit (0,0,0,1) bottom row.
func UnpackInstance(d InstanceData) mgl32.Mat4 {
	m := mgl32.Ident4()
	for row := 0; row < 3; row++ {
		for col := 0; col < 4; col++ {
			m.Set(row, col, d.Transform[row*4+col])
		}
	}
	return m
}

// PackInstances fills dst with one transform per position: a translation
// to the position composed with a rotation of index*cubeAngleStep degrees
// around the fixed axis. dst must have room for len(positions) entries;
// the caller guarantees that via the startup capacity check.
func PackInstances(dst []InstanceData, positions []mgl32.Vec3) int {
	for i, p := range positions {
		angle := mgl32.DegToRad(float32(i) * cubeAngleStep)
		world := mgl32.Translate3D(p.X(), p.Y(), p.Z()).
			Mul4(mgl32.HomogRotate3D(angle, cubeRotationAxis))
		dst[i] = PackInstance(world)
	}
	return len(positions)
}

// InstanceBuffer owns the uniform buffer the instancing shader reads and
// the CPU staging array it is filled from. The staging array is sized to
// the full capacity once; each frame overwrites the prefix in place.
type InstanceBuffer struct {
	ubo     uint32
	size    int32
	staging [scene.MaxInstances]InstanceData
}

// NewInstanceBuffer allocates the uniform buffer, sized from the
// instancing program's own block so Go and GLSL cannot disagree, and
// binds the program's InstanceBuffer block to binding point 1.
func NewInstanceBuffer(instancingProgram uint32) (*InstanceBuffer, error) {
	blockIndex := gl.GetUniformBlockIndex(instancingProgram, gl.Str("InstanceBuffer\x00"))
	if blockIndex == gl.INVALID_INDEX {
		return nil, fmt.Errorf("instancing program has no InstanceBuffer block")
	}
	var blockSize int32
	gl.GetActiveUniformBlockiv(instancingProgram, blockIndex, gl.UNIFORM_BLOCK_DATA_SIZE, &blockSize)
	if want := int32(scene.MaxInstances * InstanceSize); blockSize < want {
		return nil, fmt.Errorf("InstanceBuffer block is %d bytes, want at least %d", blockSize, want)
	}
	gl.UniformBlockBinding(instancingProgram, blockIndex, 1)

	b := &InstanceBuffer{size: blockSize}
	gl.GenBuffers(1, &b.ubo)
	gl.BindBuffer(gl.UNIFORM_BUFFER, b.ubo)
	gl.BufferData(gl.UNIFORM_BUFFER, int(blockSize), nil, gl.DYNAMIC_DRAW)
	gl.BindBuffer(gl.UNIFORM_BUFFER, 0)

	return b, nil
}

// Update repacks the instance transforms for this frame and uploads them
// through a blocking map/unmap, overwriting the buffer prefix in place.
// The buffer stays bound to binding point 1 for the instanced draw that
// follows. The capacity bound was checked at startup; positions here is
// always within it.
func (b *InstanceBuffer) Update(positions []mgl32.Vec3) {
	count := PackInstances(b.staging[:len(positions)], positions)

	gl.BindBufferBase(gl.UNIFORM_BUFFER, 1, b.ubo)
	ptr := gl.MapBuffer(gl.UNIFORM_BUFFER, gl.WRITE_ONLY)
	if ptr == nil {
		fmt.Printf("instance buffer map failed\n")
		return
	}
	src := unsafe.Slice((*byte)(unsafe.Pointer(&b.staging[0])), count*InstanceSize)
	dst := unsafe.Slice((*byte)(ptr), count*InstanceSize)
	copy(dst, src)
	gl.UnmapBuffer(gl.UNIFORM_BUFFER)
}

// Unbind releases binding point 1 after the instanced draw.
func (b *InstanceBuffer) Unbind() {
	gl.BindBufferBase(gl.UNIFORM_BUFFER, 1, 0)
}

// Destroy releases the uniform buffer.
func (b *InstanceBuffer) Destroy() {
	if b.ubo != 0 {
		gl.DeleteBuffers(1, &b.ubo)
		b.ubo = 0
	}
}
