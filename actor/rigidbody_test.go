package actor

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// BodyType Tests
// =============================================================================

func TestBodyType_Constants(t *testing.T) {
	assert.NotEqual(t, BodyTypeDynamic, BodyTypeStatic)
	assert.Equal(t, BodyType(0), BodyTypeDynamic)
	assert.Equal(t, BodyType(1), BodyTypeStatic)
}

// =============================================================================
// NewRigidBody Tests
// =============================================================================

func TestNewRigidBody_Dynamic(t *testing.T) {
	rb, _ := newCubeBody(t, 1, 2, Material{Restitution: 0.3})

	assert.Equal(t, BodyTypeDynamic, rb.BodyType)
	assert.Equal(t, 0.5, rb.MassProperties().InverseMass)
	assert.Equal(t, 0.3, rb.Material.Restitution)
	assert.Equal(t, mgl64.Vec3{}, rb.Velocity)
	assert.Equal(t, mgl64.Vec3{}, rb.AngularVelocity)
}

func TestNewRigidBody_Static(t *testing.T) {
	rb, _ := newCubeBody(t, 1, 0, Material{})

	assert.Equal(t, BodyTypeStatic, rb.BodyType)
	assert.Equal(t, mgl64.Mat3{}, rb.GetInverseInertiaWorld())
}

func TestNewRigidBody_NormalizesRotation(t *testing.T) {
	mp, err := ComputeMassProperties(NewBoxMesh(mgl64.Vec3{1, 1, 1}), 1)
	require.NoError(t, err)

	rb := NewRigidBody(Transform{Rotation: mgl64.Quat{W: 2, V: mgl64.Vec3{0, 0, 2}}}, mp, Material{})

	assert.InDelta(t, 1, rb.Transform.Rotation.Len(), 1e-12)
}

// =============================================================================
// Control Tests
// =============================================================================

func TestRigidBody_Reset(t *testing.T) {
	rb, _ := newCubeBody(t, 1, 1, Material{})
	rb.Velocity = mgl64.Vec3{1, 2, 3}
	rb.AngularVelocity = mgl64.Vec3{4, 5, 6}
	rb.Acceleration = mgl64.Vec3{0, 0, -9.8}
	rb.AddForce(mgl64.Vec3{1, 0, 0})

	position := mgl64.Vec3{7, 8, 9}
	rotation := mgl64.Quat{W: 1, V: mgl64.Vec3{1, 0, 0}}
	rb.Reset(position, rotation)

	assert.Equal(t, position, rb.Transform.Position)
	assert.True(t, quatAlmostEqual(rb.Transform.Rotation, rotation.Normalize(), 1e-12))
	assert.Equal(t, mgl64.Vec3{}, rb.Velocity)
	assert.Equal(t, mgl64.Vec3{}, rb.AngularVelocity)
	assert.Equal(t, mgl64.Vec3{}, rb.Acceleration)
	assert.Equal(t, mgl64.Vec3{}, rb.Force())
}

func TestRigidBody_ApplyVelocity(t *testing.T) {
	rb, _ := newCubeBody(t, 1, 1, Material{})
	rb.Transform.Position = mgl64.Vec3{1, 1, 1}
	rb.Transform.Rotation = mgl64.QuatRotate(0.3, mgl64.Vec3{0, 1, 0})
	rb.AngularVelocity = mgl64.Vec3{0, 2, 0}
	before := rb.Transform

	rb.ApplyVelocity(mgl64.Vec3{3, -1, 12})

	assert.Equal(t, mgl64.Vec3{3, -1, 12}, rb.Velocity)
	assert.Equal(t, mgl64.Vec3{0, 2, 0}, rb.AngularVelocity)
	assert.Equal(t, before, rb.Transform)
}

func TestRigidBody_SetMass(t *testing.T) {
	rb, _ := newCubeBody(t, 1, 1, Material{})

	rb.SetMass(0)
	assert.Equal(t, BodyTypeStatic, rb.BodyType)
	assert.Equal(t, 0.0, rb.MassProperties().InverseMass)

	rb.SetMass(4)
	assert.Equal(t, BodyTypeDynamic, rb.BodyType)
	assert.Equal(t, 0.25, rb.MassProperties().InverseMass)
	assert.True(t, mat3AlmostEqual(rb.MassProperties().InverseInertia, mgl64.Diag3(mgl64.Vec3{0.125, 0.125, 0.125}), 1e-12))
}

func TestRigidBody_AddForce_StaticIgnored(t *testing.T) {
	rb, _ := newCubeBody(t, 1, 0, Material{})
	rb.AddForce(mgl64.Vec3{1, 2, 3})

	assert.Equal(t, mgl64.Vec3{}, rb.Force())
}

func TestRigidBody_AddForce_Accumulates(t *testing.T) {
	rb, _ := newCubeBody(t, 1, 1, Material{})
	rb.AddForce(mgl64.Vec3{1, 0, 0})
	rb.AddForce(mgl64.Vec3{0, 2, 0})
	assert.Equal(t, mgl64.Vec3{1, 2, 0}, rb.Force())

	rb.ClearForces()
	assert.Equal(t, mgl64.Vec3{}, rb.Force())
}

// =============================================================================
// Frame Tests
// =============================================================================

// Mesh whose center of mass sits at (0, 0, 1) in local space
func offsetMesh() *Mesh {
	box := NewBoxMesh(mgl64.Vec3{1, 1, 1})
	vertices := make([]mgl64.Vec3, box.NumVertices())
	for i := range vertices {
		vertices[i] = box.Vertex(i).Add(mgl64.Vec3{0, 0, 1})
	}
	return NewMesh(vertices)
}

func TestRigidBody_OriginTransform(t *testing.T) {
	mesh := offsetMesh()
	mp, err := ComputeMassProperties(mesh, 1)
	require.NoError(t, err)
	require.True(t, vec3AlmostEqual(mp.CenterOfMass, mgl64.Vec3{0, 0, 1}, 1e-12))

	// Half turn around X: the center of mass is now below the origin
	rotation := mgl64.QuatRotate(math.Pi, mgl64.Vec3{1, 0, 0})
	rb := NewRigidBody(Transform{Position: mgl64.Vec3{5, 0, 0}, Rotation: rotation}, mp, Material{})

	origin := rb.OriginTransform()
	assert.True(t, vec3AlmostEqual(origin.Position, mgl64.Vec3{5, 0, 1}, 1e-9), "got %v", origin.Position)

	// The center of mass maps back onto the body position
	assert.True(t, vec3AlmostEqual(origin.TransformPoint(mp.CenterOfMass), rb.Transform.Position, 1e-9))

	bounds := rb.WorldBounds(mesh)
	assert.True(t, vec3AlmostEqual(bounds.Min, mgl64.Vec3{4, -1, -1}, 1e-9), "got %v", bounds.Min)
	assert.True(t, vec3AlmostEqual(bounds.Max, mgl64.Vec3{6, 1, 1}, 1e-9), "got %v", bounds.Max)
}

func TestRigidBody_LeverArmAndPointVelocity(t *testing.T) {
	rb, mesh := newCubeBody(t, 1, 1, Material{})
	rb.Transform.Rotation = mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 0, 1})
	rb.Velocity = mgl64.Vec3{1, 0, 0}
	rb.AngularVelocity = mgl64.Vec3{0, 0, 2}

	// Vertex 1 is (+1, -1, -1), rotated by 90° around Z it becomes (1, 1, -1)
	r := rb.LeverArm(mesh.Vertex(1))
	assert.True(t, vec3AlmostEqual(r, mgl64.Vec3{1, 1, -1}, 1e-9), "got %v", r)

	// v + ω × r = (1,0,0) + (0,0,2)×(1,1,-1) = (1,0,0) + (-2,2,0)
	assert.True(t, vec3AlmostEqual(rb.PointVelocity(r), mgl64.Vec3{-1, 2, 0}, 1e-9))
}

// =============================================================================
// Inertia Tests
// =============================================================================

func TestGetInverseInertiaWorld_IsotropicIsRotationInvariant(t *testing.T) {
	rb, _ := newCubeBody(t, 1, 2, Material{})
	want := mgl64.Diag3(mgl64.Vec3{0.25, 0.25, 0.25})

	for _, angle := range []float64{0, 0.3, math.Pi / 2, 2.5} {
		rb.Transform.Rotation = mgl64.QuatRotate(angle, mgl64.Vec3{1, 1, 0}.Normalize())
		assert.True(t, mat3AlmostEqual(rb.GetInverseInertiaWorld(), want, 1e-9), "angle %v", angle)
	}
}

func TestGetInverseInertiaWorld_RotatesAnisotropicTensor(t *testing.T) {
	mesh := NewBoxMesh(mgl64.Vec3{2, 1, 1})
	mp, err := ComputeMassProperties(mesh, 1)
	require.NoError(t, err)

	rb := NewRigidBody(Transform{Rotation: mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 0, 1})}, mp, Material{})
	world := rb.GetInverseInertiaWorld()

	// Quarter turn around Z swaps the X and Y principal axes
	local := mp.InverseInertia
	assert.InDelta(t, local.At(1, 1), world.At(0, 0), 1e-9)
	assert.InDelta(t, local.At(0, 0), world.At(1, 1), 1e-9)
	assert.InDelta(t, local.At(2, 2), world.At(2, 2), 1e-9)

	// Symmetry
	assert.True(t, mat3AlmostEqual(world, world.Transpose(), 1e-12))
}
