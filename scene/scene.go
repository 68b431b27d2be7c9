package scene

import (
	"fmt"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
)

// MaxInstances is the hard instance capacity. The instancing shader
// declares its per-instance transform array with the same length, so the
// two must stay in sync.
const MaxInstances = 1024

// Scene holds the immutable cube layout and the light for one run.
type Scene struct {
	CubePositions []mgl32.Vec3
	LightPosition mgl32.Vec3
}

// NewScene generates numCubes cube positions from the given seed. The
// first cube sits half a unit above the origin, the rest are scattered
// randomly around it. A cube count exceeding MaxInstances is a
// configuration error and is rejected here, once, at startup.
func NewScene(numCubes int, seed int64) (*Scene, error) {
	if numCubes < 1 {
		return nil, fmt.Errorf("scene: cube count must be positive, got %d", numCubes)
	}
	if numCubes > MaxInstances {
		return nil, fmt.Errorf("scene: %d cubes exceeds the instance capacity of %d", numCubes, MaxInstances)
	}

	rng := rand.New(rand.NewSource(seed))
	positions := make([]mgl32.Vec3, 0, numCubes)
	positions = append(positions, mgl32.Vec3{0, 0.5, 0})
	for i := 1; i < numCubes; i++ {
		positions = append(positions, mgl32.Vec3{
			randRange(rng, -5, 5),
			randRange(rng, 1, 5),
			randRange(rng, -5, 5),
		})
	}

	return &Scene{
		CubePositions: positions,
		LightPosition: mgl32.Vec3{-3, 3, 0},
	}, nil
}

func randRange(rng *rand.Rand, min, max float32) float32 {
	return min + rng.Float32()*(max-min)
}
