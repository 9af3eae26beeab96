package constraint

import (
	"github.com/akmonengine/quill/actor"
	"github.com/akmonengine/quill/obstacle"
	"github.com/go-gl/mathgl/mgl64"
)

var _ Constraint = (*ContactConstraint)(nil)

// ContactConstraint gathers the mesh vertices penetrating one obstacle and corrects the body
type ContactConstraint struct {
	Body          *actor.RigidBody
	ObstacleIndex int
	Obstacle      obstacle.Obstacle
	Response      Response

	// Vertices with phi < 0
	Penetrating int
	// Penetrating vertices also moving into the obstacle
	Colliding int

	// Accumulators, filled by the narrow phase
	penetrationSum       mgl64.Vec3 // ResponseRestitution
	penetrationDepthSum  float64    // ResponseFrictionCone
	leverArmSum          mgl64.Vec3 // ResponseFrictionCone
	deltaVelocitySum     mgl64.Vec3 // ResponseRestitution
	deltaAngularVelocity mgl64.Vec3 // ResponseRestitution
	invInertiaWorld      mgl64.Mat3

	// Applied corrections
	PositionCorrection   mgl64.Vec3
	DeltaVelocity        mgl64.Vec3
	DeltaAngularVelocity mgl64.Vec3
}

// NewContactConstraint runs the narrow phase of every mesh vertex against the obstacle half-space.
// origin is the mesh transform the vertices are tested with; velocities are read from the body.
func NewContactConstraint(body *actor.RigidBody, mesh actor.MeshSource, origin actor.Transform, index int, o obstacle.Obstacle, response Response) *ContactConstraint {
	c := &ContactConstraint{
		Body:            body,
		ObstacleIndex:   index,
		Obstacle:        o,
		Response:        response,
		invInertiaWorld: body.GetInverseInertiaWorld(),
	}

	invMass := body.MassProperties().InverseMass
	restitution := body.Material.Restitution
	centerOfMass := body.MassProperties().CenterOfMass
	normal := o.Normal

	numVertices := mesh.NumVertices()
	for i := 0; i < numVertices; i++ {
		vertex := mesh.Vertex(i)

		worldVertex := origin.TransformPoint(vertex)
		ra := origin.TransformVector(vertex.Sub(centerOfMass))
		va := body.PointVelocity(ra)
		phi := o.SignedDistance(worldVertex)

		if phi >= 0 {
			continue
		}

		c.Penetrating++
		c.penetrationSum = c.penetrationSum.Sub(normal.Mul(phi))
		c.penetrationDepthSum -= phi

		if va.Dot(normal) >= 0 {
			continue
		}

		c.Colliding++
		switch response {
		case ResponseRestitution:
			raCrossN := ra.Cross(normal)
			invIRa := c.invInertiaWorld.Mul3x1(raCrossN)
			denominator := invMass + normal.Dot(invIRa.Cross(ra))
			if denominator <= 0 {
				continue
			}

			impulseMagnitude := -(1.0 + restitution) * va.Dot(normal) / denominator
			c.deltaVelocitySum = c.deltaVelocitySum.Add(normal.Mul(impulseMagnitude * invMass))
			c.deltaAngularVelocity = c.deltaAngularVelocity.Add(c.invInertiaWorld.Mul3x1(ra.Cross(normal.Mul(impulseMagnitude))))
		default:
			c.leverArmSum = c.leverArmSum.Add(ra)
		}
	}

	return c
}

// SolvePosition pushes the body out along the normal by the mean penetration depth
func (c *ContactConstraint) SolvePosition() {
	if c.Penetrating == 0 {
		return
	}

	recipPenetrating := 1.0 / float64(c.Penetrating)
	switch c.Response {
	case ResponseRestitution:
		c.PositionCorrection = c.penetrationSum.Mul(recipPenetrating)
	default:
		c.PositionCorrection = c.Obstacle.Normal.Mul(c.penetrationDepthSum * recipPenetrating)
	}

	c.Body.Transform.Position = c.Body.Transform.Position.Add(c.PositionCorrection)
}

// SolveVelocity applies the impulse of the selected response
func (c *ContactConstraint) SolveVelocity() {
	if c.Colliding == 0 {
		return
	}

	switch c.Response {
	case ResponseRestitution:
		c.solveRestitution()
	default:
		c.solveFrictionCone()
	}
}

func (c *ContactConstraint) solveRestitution() {
	recipColliding := 1.0 / float64(c.Colliding)
	c.DeltaVelocity = c.deltaVelocitySum.Mul(recipColliding)
	c.DeltaAngularVelocity = c.deltaAngularVelocity.Mul(recipColliding)

	c.Body.Velocity = c.Body.Velocity.Add(c.DeltaVelocity)
	c.Body.AngularVelocity = c.Body.AngularVelocity.Add(c.DeltaAngularVelocity)
}

func (c *ContactConstraint) solveFrictionCone() {
	body := c.Body
	invMass := body.MassProperties().InverseMass
	if invMass == 0 {
		return
	}

	restitution := body.Material.Restitution
	friction := body.Material.Friction
	normal := c.Obstacle.Normal

	// ========== Representative contact point ==========
	ra := c.leverArmSum.Mul(1.0 / float64(c.Colliding))
	va := body.PointVelocity(ra)

	vaN := normal.Mul(va.Dot(normal))
	vaT := va.Sub(vaN)
	speedN := vaN.Len()
	speedT := vaT.Len()

	// ========== Friction attenuation ==========
	attenuation := 0.0
	if speedT > 0 {
		attenuation = max(1-friction*(1+restitution)*speedN/speedT, 0)
	}

	// ========== Target velocity ==========
	// Restitution fades out as the impact speed approaches zero
	effectiveRestitution := restitution * clamp(speedN*body.Material.RestitutionDamping, 0, 1)
	target := vaN.Mul(-effectiveRestitution).Add(vaT.Mul(attenuation))

	// ========== Impulse ==========
	// K = 1/m * I - [Ra]× * I_world^-1 * [Ra]×
	raSkew := skew(ra)
	k := mgl64.Ident3().Mul(invMass).Sub(raSkew.Mul3(c.invInertiaWorld).Mul3(raSkew))
	impulse, ok := solve3(k, target.Sub(va))
	if !ok {
		return
	}

	c.DeltaVelocity = impulse.Mul(invMass)
	c.DeltaAngularVelocity = c.invInertiaWorld.Mul3x1(ra.Cross(impulse))

	body.Velocity = body.Velocity.Add(c.DeltaVelocity)
	body.AngularVelocity = body.AngularVelocity.Add(c.DeltaAngularVelocity)
}

// Resolve tests the body against every obstacle whose bounds overlap the body bounds, in obstacle order.
// The mesh transform is sampled once, before any correction. Only obstacles with penetrating vertices
// are returned.
func Resolve(body *actor.RigidBody, mesh actor.MeshSource, obstacles *obstacle.Set, response Response) []*ContactConstraint {
	if body.BodyType == actor.BodyTypeStatic {
		return nil
	}

	origin := body.OriginTransform()
	bounds := mesh.Bounds().TransformBy(origin)

	var contacts []*ContactConstraint
	for _, index := range obstacles.Candidates(bounds) {
		c := NewContactConstraint(body, mesh, origin, index, obstacles.At(index), response)
		c.SolvePosition()
		c.SolveVelocity()

		if c.Penetrating > 0 {
			contacts = append(contacts, c)
		}
	}

	body.Transform.Rotation = body.Transform.Rotation.Normalize()

	return contacts
}
