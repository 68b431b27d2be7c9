package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"shading-demo/core"
)

// CreateQuad builds a quad spanning [-1, 1] in the XZ plane with an
// upward normal, suitable for a ground plane when scaled. Tangents point
// along +X so the normal map convention matches the cube faces.
func CreateQuad() *Mesh {
	normal := mgl32.Vec3{0, 1, 0}
	tangent := mgl32.Vec3{1, 0, 0}

	vertices := []core.Vertex{
		{Position: mgl32.Vec3{-1, 0, -1}, Normal: normal, Tangent: tangent, UV: mgl32.Vec2{0, 0}},
		{Position: mgl32.Vec3{-1, 0, 1}, Normal: normal, Tangent: tangent, UV: mgl32.Vec2{0, 1}},
		{Position: mgl32.Vec3{1, 0, 1}, Normal: normal, Tangent: tangent, UV: mgl32.Vec2{1, 1}},
		{Position: mgl32.Vec3{1, 0, -1}, Normal: normal, Tangent: tangent, UV: mgl32.Vec2{1, 0}},
	}
	indices := []uint32{0, 1, 2, 0, 2, 3}

	return CreateMeshFromData("Quad", vertices, indices)
}

// cubeFace describes one face of the unit cube: its outward normal, the
// tangent along increasing U and the bitangent along increasing V.
type cubeFace struct {
	normal    mgl32.Vec3
	tangent   mgl32.Vec3
	bitangent mgl32.Vec3
}

// CreateCube builds a unit cube centred at the origin with per-face
// normals, tangents and UVs (24 vertices, 36 indices).
func CreateCube() *Mesh {
	faces := []cubeFace{
		{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}},   // front
		{mgl32.Vec3{0, 0, -1}, mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 1, 0}}, // back
		{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0}},  // right
		{mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 1, 0}},  // left
		{mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}},  // top
		{mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, 1}},  // bottom
	}

	var vertices []core.Vertex
	var indices []uint32

	for _, f := range faces {
		base := uint32(len(vertices))
		// Corners wound counter-clockwise seen from outside.
		corners := [4]mgl32.Vec3{
			f.normal.Sub(f.tangent).Sub(f.bitangent).Mul(0.5),
			f.normal.Add(f.tangent).Sub(f.bitangent).Mul(0.5),
			f.normal.Add(f.tangent).Add(f.bitangent).Mul(0.5),
			f.normal.Sub(f.tangent).Add(f.bitangent).Mul(0.5),
		}
		uvs := [4]mgl32.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

		for i := 0; i < 4; i++ {
			vertices = append(vertices, core.Vertex{
				Position: corners[i],
				Normal:   f.normal,
				Tangent:  f.tangent,
				UV:       uvs[i],
			})
		}
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}

	return CreateMeshFromData("Cube", vertices, indices)
}
