package scene

import (
	"shading-demo/core"
)

// Mesh holds CPU-side vertex/index data.
// GPU upload is managed by the renderer backend.
type Mesh struct {
	Name     string
	Vertices []core.Vertex
	Indices  []uint32
}

func CreateMeshFromData(name string, vertices []core.Vertex, indices []uint32) *Mesh {
	return &Mesh{
		Name:     name,
		Vertices: vertices,
		Indices:  indices,
	}
}

// IndexCount returns the number of indices as the type draw calls expect.
func (m *Mesh) IndexCount() int32 {
	return int32(len(m.Indices))
}
