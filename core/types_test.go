package core

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
)

func TestVertexLayout(t *testing.T) {
	// The renderer derives vertex attribute pointers from this struct's
	// layout; it must stay tightly packed.
	var v Vertex
	assert.Equal(t, uintptr(44), unsafe.Sizeof(v))
	assert.Equal(t, uintptr(0), unsafe.Offsetof(v.Position))
	assert.Equal(t, uintptr(12), unsafe.Offsetof(v.Normal))
	assert.Equal(t, uintptr(24), unsafe.Offsetof(v.Tangent))
	assert.Equal(t, uintptr(36), unsafe.Offsetof(v.UV))
}
