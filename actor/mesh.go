package actor

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

// ErrEmptyMesh is returned when mass properties are requested for a mesh without vertices
var ErrEmptyMesh = errors.New("mesh has no vertices")

// MeshSource is a read-only, ordered vertex buffer in mesh-local space
type MeshSource interface {
	NumVertices() int
	Vertex(index int) mgl64.Vec3
	// Bounds is the local AABB of the vertices, used by the broad phase
	Bounds() AABB
}

// Mesh is an in-memory MeshSource
type Mesh struct {
	vertices []mgl64.Vec3
	bounds   AABB
}

// NewMesh copies vertices into a new Mesh and computes its bounds
func NewMesh(vertices []mgl64.Vec3) *Mesh {
	m := &Mesh{
		vertices: make([]mgl64.Vec3, len(vertices)),
	}
	copy(m.vertices, vertices)
	m.bounds = AABBFromPoints(m.vertices...)

	return m
}

// NewBoxMesh creates the 8 corners of a box centered on the origin
// The box is defined by its half-extents (half-width, half-height, half-depth)
func NewBoxMesh(halfExtents mgl64.Vec3) *Mesh {
	hx, hy, hz := halfExtents.X(), halfExtents.Y(), halfExtents.Z()

	return NewMesh([]mgl64.Vec3{
		{-hx, -hy, -hz},
		{+hx, -hy, -hz},
		{-hx, +hy, -hz},
		{+hx, +hy, -hz},
		{-hx, -hy, +hz},
		{+hx, -hy, +hz},
		{-hx, +hy, +hz},
		{+hx, +hy, +hz},
	})
}

func (m *Mesh) NumVertices() int {
	return len(m.vertices)
}

func (m *Mesh) Vertex(index int) mgl64.Vec3 {
	return m.vertices[index]
}

func (m *Mesh) Bounds() AABB {
	return m.bounds
}

// MassProperties holds the mass data derived from the mesh geometry
type MassProperties struct {
	// Mean of the vertices, in mesh-local space
	CenterOfMass mgl64.Vec3
	// Inertia tensor at unit mass and its inverse
	InertiaUnitMass        mgl64.Mat3
	InverseInertiaUnitMass mgl64.Mat3

	Mass           float64
	InverseMass    float64
	InverseInertia mgl64.Mat3
}

// ComputeMassProperties treats every vertex as an equal point mass.
// The unit mass inertia tensor is (1/N) * Σ (|v|² * I - v ⊗ v).
func ComputeMassProperties(mesh MeshSource, mass float64) (MassProperties, error) {
	numVertices := mesh.NumVertices()
	if numVertices == 0 {
		return MassProperties{}, ErrEmptyMesh
	}

	var center mgl64.Vec3
	var inertia mgl64.Mat3
	for i := 0; i < numVertices; i++ {
		vertex := mesh.Vertex(i)

		center = center.Add(vertex)
		diag := vertex.LenSqr()
		inertia = inertia.Add(mgl64.Diag3(mgl64.Vec3{diag, diag, diag}).Sub(vertex.OuterProd3(vertex)))
	}

	recipNumVertices := 1.0 / float64(numVertices)
	inertia = inertia.Mul(recipNumVertices)

	mp := MassProperties{
		CenterOfMass:    center.Mul(recipNumVertices),
		InertiaUnitMass: inertia,
		// Inv returns the zero matrix for a singular tensor: such a body cannot be rotated by impulses
		InverseInertiaUnitMass: inertia.Inv(),
	}

	return mp.WithMass(mass), nil
}

// WithMass rescales the inverse mass and inverse inertia for a new mass.
// A mass <= 0 describes an immovable body.
func (mp MassProperties) WithMass(mass float64) MassProperties {
	mp.Mass = mass
	mp.InverseMass = 0
	if mass > 0 {
		mp.InverseMass = 1.0 / mass
	}
	mp.InverseInertia = mp.InverseInertiaUnitMass.Mul(mp.InverseMass)

	return mp
}

// IsStatic reports an infinite mass body
func (mp MassProperties) IsStatic() bool {
	return mp.InverseMass == 0
}
