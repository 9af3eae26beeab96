package actor

import "github.com/go-gl/mathgl/mgl64"

// Transform represents a position and orientation in 3D space
type Transform struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
}

// NewTransform creates an identity transform
func NewTransform() Transform {
	return Transform{
		Position: mgl64.Vec3{0, 0, 0},
		Rotation: mgl64.QuatIdent(),
	}
}

// TransformPoint maps a local point into world space (rotation then translation)
func (t Transform) TransformPoint(point mgl64.Vec3) mgl64.Vec3 {
	return t.Rotation.Rotate(point).Add(t.Position)
}

// TransformVector maps a local direction into world space, ignoring the translation
func (t Transform) TransformVector(vector mgl64.Vec3) mgl64.Vec3 {
	return t.Rotation.Rotate(vector)
}

// RotationMatrix returns the 3x3 rotation matrix of the transform
func (t Transform) RotationMatrix() mgl64.Mat3 {
	return t.Rotation.Mat4().Mat3()
}
