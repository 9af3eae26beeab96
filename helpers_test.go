package quill

import (
	"math"
	"testing"

	"github.com/akmonengine/quill/actor"
	"github.com/akmonengine/quill/config"
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

// quatAlmostEqual treats q and -q as the same rotation
func quatAlmostEqual(a, b mgl64.Quat, epsilon float64) bool {
	return almostEqual(math.Abs(a.Dot(b)), 1, epsilon)
}

// testConfig is a frictionless, undamped world in meters
func testConfig() config.Config {
	cfg := config.Default()
	cfg.Gravity = [3]float64{0, 0, -10}
	cfg.Restitution = 0
	cfg.RestitutionDamping = 1
	cfg.Friction = 0
	cfg.LinearDamping = 0
	cfg.AngularDamping = 0
	cfg.SubStepTime = 1.0 / 240.0

	return cfg
}

// groundRegistry holds a tagged slab whose top face is the plane z = 0
func groundRegistry() *obstacle.Registry {
	registry := &obstacle.Registry{}
	registry.Add(obstacle.NewSlab(actor.NewTransform(), 50, 1, config.DefaultObstacleTag))

	return registry
}

func poseAt(position mgl64.Vec3) actor.Transform {
	transform := actor.NewTransform()
	transform.Position = position

	return transform
}

func newTestSimulation(t *testing.T, cfg config.Config, mesh actor.MeshSource, pose actor.Transform, opts ...Option) *Simulation {
	t.Helper()
	sim, err := NewSimulation(cfg, mesh, pose, opts...)
	require.NoError(t, err)

	return sim
}

type poseCapture struct {
	calls     int
	positions []mgl64.Vec3
	rotations []mgl64.Quat
}

func (pc *poseCapture) SetPose(position mgl64.Vec3, rotation mgl64.Quat) {
	pc.calls++
	pc.positions = append(pc.positions, position)
	pc.rotations = append(pc.rotations, rotation)
}

func (pc *poseCapture) last() (mgl64.Vec3, mgl64.Quat) {
	return pc.positions[len(pc.positions)-1], pc.rotations[len(pc.rotations)-1]
}
