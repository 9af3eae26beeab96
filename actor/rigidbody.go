package actor

import (
	"github.com/go-gl/mathgl/mgl64"
)

// BodyType represents the type of rigid body
type BodyType int

const (
	// BodyTypeDynamic bodies are affected by forces, gravity, and collisions
	// They have finite mass and can move freely
	BodyTypeDynamic BodyType = iota

	// BodyTypeStatic bodies are immovable and have infinite mass (mass <= 0)
	BodyTypeStatic
)

type Material struct {
	Restitution float64 // 0= no rebound, 1= perfect restitution
	// Scales restitution down as the impact speed approaches zero, to avoid jitter at rest
	RestitutionDamping float64
	Friction           float64
	LinearDamping      float64
	AngularDamping     float64
}

// RigidBody represents the simulated body state.
// Transform.Position is the world position of the center of mass.
type RigidBody struct {
	Transform Transform

	// Linear motion
	Velocity mgl64.Vec3
	// Only used by IntegratorVerlet
	Acceleration mgl64.Vec3

	// Angular motion, in world frame
	AngularVelocity mgl64.Vec3

	accumulatedForce mgl64.Vec3

	// Physical properties
	Material Material
	BodyType BodyType

	massProperties MassProperties
}

// NewRigidBody creates a body at rest whose center of mass is placed at transform
func NewRigidBody(transform Transform, massProperties MassProperties, material Material) *RigidBody {
	rb := &RigidBody{
		Transform: Transform{
			Position: transform.Position,
			Rotation: transform.Rotation.Normalize(),
		},
		Material: material,
	}
	rb.setMassProperties(massProperties)

	return rb
}

func (rb *RigidBody) setMassProperties(massProperties MassProperties) {
	rb.massProperties = massProperties
	if massProperties.IsStatic() {
		rb.BodyType = BodyTypeStatic
	} else {
		rb.BodyType = BodyTypeDynamic
	}
}

func (rb *RigidBody) MassProperties() MassProperties {
	return rb.massProperties
}

// SetMass recomputes the inverse mass and inverse inertia
func (rb *RigidBody) SetMass(mass float64) {
	rb.setMassProperties(rb.massProperties.WithMass(mass))
}

// Reset places the center of mass at position and zeroes every velocity
func (rb *RigidBody) Reset(position mgl64.Vec3, rotation mgl64.Quat) {
	rb.Transform.Position = position
	rb.Transform.Rotation = rotation.Normalize()
	rb.Velocity = mgl64.Vec3{}
	rb.Acceleration = mgl64.Vec3{}
	rb.AngularVelocity = mgl64.Vec3{}
	rb.ClearForces()
}

// ApplyVelocity overwrites the linear velocity
func (rb *RigidBody) ApplyVelocity(velocity mgl64.Vec3) {
	rb.Velocity = velocity
}

// AddForce accumulates an external force, applied until ClearForces
func (rb *RigidBody) AddForce(force mgl64.Vec3) {
	if rb.BodyType != BodyTypeStatic {
		rb.accumulatedForce = rb.accumulatedForce.Add(force)
	}
}

func (rb *RigidBody) ClearForces() {
	rb.accumulatedForce = mgl64.Vec3{0, 0, 0}
}

func (rb *RigidBody) Force() mgl64.Vec3 {
	return rb.accumulatedForce
}

// OriginTransform is the transform of the mesh origin: the center of mass is rotated back out
func (rb *RigidBody) OriginTransform() Transform {
	return Transform{
		Position: rb.Transform.Position.Add(rb.Transform.Rotation.Rotate(rb.massProperties.CenterOfMass.Mul(-1))),
		Rotation: rb.Transform.Rotation,
	}
}

// WorldBounds returns the world AABB of the mesh at the current pose
func (rb *RigidBody) WorldBounds(mesh MeshSource) AABB {
	return mesh.Bounds().TransformBy(rb.OriginTransform())
}

// LeverArm returns the world vector from the center of mass to a mesh-local vertex
func (rb *RigidBody) LeverArm(vertex mgl64.Vec3) mgl64.Vec3 {
	return rb.Transform.Rotation.Rotate(vertex.Sub(rb.massProperties.CenterOfMass))
}

// PointVelocity returns the world velocity of the point at lever arm r
func (rb *RigidBody) PointVelocity(r mgl64.Vec3) mgl64.Vec3 {
	return rb.Velocity.Add(rb.AngularVelocity.Cross(r))
}

// Inverse de l'inertie en espace monde
func (rb *RigidBody) GetInverseInertiaWorld() mgl64.Mat3 {
	if rb.BodyType == BodyTypeStatic {
		return mgl64.Mat3{0, 0, 0, 0, 0, 0, 0, 0, 0}
	}

	// I_world^(-1) = R * I_local^(-1) * R^T
	R := rb.Transform.RotationMatrix()
	return R.Mul3(rb.massProperties.InverseInertia).Mul3(R.Transpose())
}
