package constraint

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/mat"
)

type Constraint interface {
	SolvePosition()
	SolveVelocity()
}

// Response selects the velocity correction applied on contact
type Response int

const (
	// ResponseFrictionCone solves a single averaged contact point for restitution and Coulomb friction
	ResponseFrictionCone Response = iota
	// ResponseRestitution applies a normal-only impulse per colliding vertex, averaged
	ResponseRestitution
)

func (r Response) String() string {
	switch r {
	case ResponseFrictionCone:
		return "friction_cone"
	case ResponseRestitution:
		return "restitution"
	default:
		return fmt.Sprintf("Response(%d)", int(r))
	}
}

func (r Response) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Response) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "friction_cone", "friction-cone", "":
		*r = ResponseFrictionCone
	case "restitution":
		*r = ResponseRestitution
	default:
		return fmt.Errorf("unknown contact response %q", string(text))
	}

	return nil
}

// skew returns the matrix [v]× such that [v]× * u = v × u
func skew(v mgl64.Vec3) mgl64.Mat3 {
	// mgl64 matrices are column major
	return mgl64.Mat3{
		0, v.Z(), -v.Y(),
		-v.Z(), 0, v.X(),
		v.Y(), -v.X(), 0,
	}
}

func clamp(x, lo, hi float64) float64 {
	return max(lo, min(x, hi))
}

// solve3 solves k * x = b. ok is false when k is singular or too ill-conditioned.
func solve3(k mgl64.Mat3, b mgl64.Vec3) (x mgl64.Vec3, ok bool) {
	a := mat.NewDense(3, 3, []float64{
		k.At(0, 0), k.At(0, 1), k.At(0, 2),
		k.At(1, 0), k.At(1, 1), k.At(1, 2),
		k.At(2, 0), k.At(2, 1), k.At(2, 2),
	})

	var solution mat.VecDense
	if err := solution.SolveVec(a, mat.NewVecDense(3, []float64{b[0], b[1], b[2]})); err != nil {
		return mgl64.Vec3{}, false
	}

	return mgl64.Vec3{solution.AtVec(0), solution.AtVec(1), solution.AtVec(2)}, true
}
