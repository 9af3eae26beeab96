package constraint

import (
	"math"
	"testing"

	"github.com/akmonengine/quill/actor"
	"github.com/akmonengine/quill/obstacle"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/require"
)

func almostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) < epsilon
}

func vec3AlmostEqual(a, b mgl64.Vec3, epsilon float64) bool {
	return almostEqual(a.X(), b.X(), epsilon) &&
		almostEqual(a.Y(), b.Y(), epsilon) &&
		almostEqual(a.Z(), b.Z(), epsilon)
}

// ground is the half-space z <= 0 below a 20x20 slab
func ground() obstacle.Obstacle {
	return obstacle.New(
		actor.AABB{Min: mgl64.Vec3{-10, -10, -1}, Max: mgl64.Vec3{10, 10, 0}},
		mgl64.Vec3{0, 0, 1},
		mgl64.Vec3{0, 0, 0},
	)
}

func newBody(t *testing.T, mesh *actor.Mesh, mass float64, material actor.Material, position mgl64.Vec3) *actor.RigidBody {
	t.Helper()
	mp, err := actor.ComputeMassProperties(mesh, mass)
	require.NoError(t, err)

	transform := actor.NewTransform()
	transform.Position = position

	return actor.NewRigidBody(transform, mp, material)
}

func newCube(t *testing.T, material actor.Material, position mgl64.Vec3) (*actor.RigidBody, *actor.Mesh) {
	t.Helper()
	mesh := actor.NewBoxMesh(mgl64.Vec3{1, 1, 1})

	return newBody(t, mesh, 1, material, position), mesh
}
