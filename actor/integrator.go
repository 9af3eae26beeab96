package actor

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// Integrator selects the time integration scheme
type Integrator int

const (
	// IntegratorHeun is a predictor-corrector (improved Euler) scheme
	IntegratorHeun Integrator = iota
	// IntegratorVerlet is a semi-implicit scheme caching the acceleration between steps
	IntegratorVerlet
)

func (i Integrator) String() string {
	switch i {
	case IntegratorHeun:
		return "heun"
	case IntegratorVerlet:
		return "verlet"
	default:
		return fmt.Sprintf("Integrator(%d)", int(i))
	}
}

func (i Integrator) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

func (i *Integrator) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "heun", "":
		*i = IntegratorHeun
	case "verlet":
		*i = IntegratorVerlet
	default:
		return fmt.Errorf("unknown integrator %q", string(text))
	}

	return nil
}

// Integrate advances the body by a fixed sub-step dt.
// The rotation is renormalized after every update, mass properties are never modified.
func (rb *RigidBody) Integrate(dt float64, gravity mgl64.Vec3, integrator Integrator) {
	if rb.BodyType == BodyTypeStatic {
		return
	}

	switch integrator {
	case IntegratorVerlet:
		rb.integrateVerlet(dt, gravity)
	default:
		rb.integrateHeun(dt, gravity)
	}
}

func (rb *RigidBody) integrateVerlet(dt float64, gravity mgl64.Vec3) {
	invMass := rb.massProperties.InverseMass

	// ========== INTÉGRATION LINÉAIRE ==========
	force := gravity.Mul(rb.massProperties.Mass).
		Sub(rb.Velocity.Mul(rb.Material.LinearDamping)).
		Add(rb.accumulatedForce)
	newPosition := rb.Transform.Position.
		Add(rb.Velocity.Mul(dt)).
		Add(rb.Acceleration.Mul(0.5 * dt * dt))
	newAcceleration := force.Mul(invMass)
	newVelocity := rb.Velocity.Add(rb.Acceleration.Add(newAcceleration).Mul(0.5 * dt))

	rb.Transform.Position = newPosition
	rb.Acceleration = newAcceleration
	rb.Velocity = newVelocity

	// ========== INTÉGRATION ANGULAIRE ==========
	rb.Transform.Rotation = rb.Transform.Rotation.Add(quatDerivative(rb.AngularVelocity, rb.Transform.Rotation).Scale(dt)).Normalize()
	rb.AngularVelocity = rb.AngularVelocity.Sub(rb.AngularVelocity.Mul(rb.Material.AngularDamping * dt))
}

func (rb *RigidBody) integrateHeun(dt float64, gravity mgl64.Vec3) {
	invMass := rb.massProperties.InverseMass
	mass := rb.massProperties.Mass

	// ========== PREDICTOR ==========
	// No damping on the prediction: damping is evaluated on the predicted velocity only
	predictedAcceleration := gravity.Mul(mass).Add(rb.accumulatedForce).Mul(invMass)
	predictedVelocity := rb.Velocity.Add(predictedAcceleration.Mul(dt))

	// ========== CORRECTOR ==========
	correctedForce := gravity.Mul(mass).
		Sub(predictedVelocity.Mul(rb.Material.LinearDamping)).
		Add(rb.accumulatedForce)
	correctedAcceleration := correctedForce.Mul(invMass)

	newVelocity := rb.Velocity.Add(predictedAcceleration.Add(correctedAcceleration).Mul(0.5 * dt))
	rb.Transform.Position = rb.Transform.Position.Add(rb.Velocity.Add(newVelocity).Mul(0.5 * dt))
	rb.Velocity = newVelocity

	// ========== ANGULAR ==========
	omega := rb.AngularVelocity
	predictedOmega := omega.Sub(omega.Mul(rb.Material.AngularDamping * dt))

	q := rb.Transform.Rotation
	dq0 := quatDerivative(omega, q).Scale(dt)
	predictedRotation := q.Add(dq0).Normalize()
	dq1 := quatDerivative(predictedOmega, predictedRotation).Scale(dt)

	rb.Transform.Rotation = q.Add(dq0.Add(dq1).Scale(0.5)).Normalize()
	rb.AngularVelocity = omega.Sub(omega.Add(predictedOmega).Mul(0.5 * rb.Material.AngularDamping * dt))
}

// quatDerivative returns dq/dt = 0.5 * (ω, 0) * q
func quatDerivative(omega mgl64.Vec3, q mgl64.Quat) mgl64.Quat {
	omegaQuat := mgl64.Quat{V: omega, W: 0}
	return omegaQuat.Mul(q).Scale(0.5)
}
