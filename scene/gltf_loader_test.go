package scene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func triangleDocument() *gltf.Document {
	doc := gltf.NewDocument()
	doc.Meshes = []*gltf.Mesh{{
		Name: "triangle",
		Primitives: []*gltf.Primitive{{
			Attributes: map[string]int{
				gltf.POSITION: modeler.WritePosition(doc, [][3]float32{
					{0, 0, 0}, {1, 0, 0}, {0, 1, 0},
				}),
				gltf.NORMAL: modeler.WriteNormal(doc, [][3]float32{
					{0, 0, 1}, {0, 0, 1}, {0, 0, 1},
				}),
				gltf.TEXCOORD_0: modeler.WriteTextureCoord(doc, [][2]float32{
					{0, 0}, {1, 0}, {0, 1},
				}),
			},
			Indices: gltf.Index(modeler.WriteIndices(doc, []uint16{0, 1, 2})),
		}},
	}}
	return doc
}

func TestMeshFromDocument(t *testing.T) {
	mesh, err := meshFromDocument(triangleDocument())
	require.NoError(t, err)

	assert.Equal(t, "triangle", mesh.Name)
	require.Len(t, mesh.Vertices, 3)
	assert.Equal(t, []uint32{0, 1, 2}, mesh.Indices)

	assert.Equal(t, mgl32.Vec3{1, 0, 0}, mesh.Vertices[1].Position)
	assert.Equal(t, mgl32.Vec3{0, 0, 1}, mesh.Vertices[1].Normal)
	assert.Equal(t, mgl32.Vec2{1, 0}, mesh.Vertices[1].UV)
}

func TestMeshFromDocumentSequentialIndices(t *testing.T) {
	doc := gltf.NewDocument()
	doc.Meshes = []*gltf.Mesh{{
		Primitives: []*gltf.Primitive{{
			Attributes: map[string]int{
				gltf.POSITION: modeler.WritePosition(doc, [][3]float32{
					{0, 0, 0}, {1, 0, 0}, {0, 1, 0},
				}),
			},
		}},
	}}

	mesh, err := meshFromDocument(doc)
	require.NoError(t, err)

	// No index accessor: indices run sequentially over the vertices.
	assert.Equal(t, []uint32{0, 1, 2}, mesh.Indices)
	// Unnamed meshes get a placeholder name.
	assert.Equal(t, "gltf", mesh.Name)
	// Missing attributes default to zero.
	assert.Equal(t, mgl32.Vec3{}, mesh.Vertices[0].Normal)
}

func TestMeshFromDocumentErrors(t *testing.T) {
	_, err := meshFromDocument(gltf.NewDocument())
	assert.ErrorContains(t, err, "no meshes")

	doc := gltf.NewDocument()
	doc.Meshes = []*gltf.Mesh{{Name: "empty"}}
	_, err = meshFromDocument(doc)
	assert.ErrorContains(t, err, "no primitives")

	doc = gltf.NewDocument()
	doc.Meshes = []*gltf.Mesh{{
		Primitives: []*gltf.Primitive{{Attributes: map[string]int{}}},
	}}
	_, err = meshFromDocument(doc)
	assert.ErrorContains(t, err, "POSITION")
}

func TestLoadGLTFMissingFile(t *testing.T) {
	_, err := LoadGLTF("does/not/exist.gltf")
	assert.Error(t, err)
}
