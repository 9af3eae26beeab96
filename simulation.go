// Package quill simulates a rigid mesh body against static half-space obstacles.
package quill

import (
	"github.com/akmonengine/quill/actor"
	"github.com/akmonengine/quill/config"
	"github.com/akmonengine/quill/constraint"
	"github.com/akmonengine/quill/obstacle"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ErrNilMesh is returned when a simulation is created without a mesh
var ErrNilMesh = errors.New("nil mesh")

// PoseSink receives the world pose of the mesh origin
type PoseSink interface {
	SetPose(position mgl64.Vec3, rotation mgl64.Quat)
}

// PoseSinkFunc adapts a function to the PoseSink interface
type PoseSinkFunc func(position mgl64.Vec3, rotation mgl64.Quat)

func (f PoseSinkFunc) SetPose(position mgl64.Vec3, rotation mgl64.Quat) {
	f(position, rotation)
}

// State is a snapshot of the body. Position is the center of mass.
type State struct {
	Position        mgl64.Vec3
	Rotation        mgl64.Quat
	Velocity        mgl64.Vec3
	AngularVelocity mgl64.Vec3
}

// Simulation moves one rigid body among static obstacles.
// It is not safe for concurrent use.
type Simulation struct {
	id     uuid.UUID
	config config.Config

	gravity   mgl64.Vec3
	mesh      actor.MeshSource
	body      *actor.RigidBody
	obstacles *obstacle.Set

	// Time not yet consumed by a sub-step
	remaining float64
	enabled   bool
	frame     uint64

	query       obstacle.Query
	sink        PoseSink
	diagnostics Diagnostics
	logger      *zap.Logger

	Events Events
}

// NewSimulation creates a body at rest whose mesh origin is at pose, and snapshots the obstacles.
func NewSimulation(cfg config.Config, mesh actor.MeshSource, pose actor.Transform, opts ...Option) (*Simulation, error) {
	if mesh == nil {
		return nil, ErrNilMesh
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	massProperties, err := actor.ComputeMassProperties(mesh, cfg.Mass)
	if err != nil {
		return nil, errors.Wrap(err, "computing mass properties")
	}

	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt.apply(&o)
	}

	rotation := pose.Rotation.Normalize()
	transform := actor.Transform{
		Position: pose.Position.Add(rotation.Rotate(massProperties.CenterOfMass)),
		Rotation: rotation,
	}

	id := uuid.New()
	s := &Simulation{
		id:          id,
		config:      cfg,
		gravity:     cfg.GravityVector(),
		mesh:        mesh,
		body:        actor.NewRigidBody(transform, massProperties, cfg.Material()),
		enabled:     cfg.EnableSimulation,
		query:       o.query,
		sink:        o.sink,
		diagnostics: o.diagnostics,
		logger:      o.logger.With(zap.Stringer("sim_id", id)),
		Events:      NewEvents(),
	}

	s.logger.Debug("mass properties",
		zap.Int("vertices", mesh.NumVertices()),
		zap.Float64("mass", massProperties.Mass),
		zap.Float64s("center_of_mass", massProperties.CenterOfMass[:]),
		zap.Bool("static", massProperties.IsStatic()),
	)
	s.RefreshObstacles()

	return s, nil
}

// Step advances the simulation by a frame of dt seconds.
// dt is consumed in fixed sub-steps; the remainder is carried to the next frame.
// Collisions are resolved once, after the last sub-step, then the pose is published.
func (s *Simulation) Step(dt float64) {
	if !s.enabled {
		return
	}

	subStepTime := s.config.SubStepTime
	subSteps := 0

	s.remaining += dt
	for s.remaining > subStepTime {
		s.body.Integrate(subStepTime, s.gravity, s.config.Integrator)
		s.remaining -= subStepTime
		subSteps++
	}
	if subSteps > 0 {
		s.body.ClearForces()
	}

	contacts := constraint.Resolve(s.body, s.mesh, s.obstacles, s.config.Response)

	s.Events.recordContacts(contacts)
	s.Events.flush()

	s.frame++
	if s.diagnostics != nil {
		s.diagnostics.Report(newFrameReport(s, subSteps, contacts))
	}

	s.publish()
}

// Reset moves the center of mass to position, sets the rotation and stops the body.
// The pose is published when publish is true.
func (s *Simulation) Reset(position mgl64.Vec3, rotation mgl64.Quat, publish bool) {
	s.body.Reset(position, rotation)

	if publish {
		s.publish()
	}
}

// ApplyVelocity overwrites the linear velocity
func (s *Simulation) ApplyVelocity(velocity mgl64.Vec3) {
	s.body.ApplyVelocity(velocity)
}

// AddForce adds an external force, applied during the sub-steps of the next Step
func (s *Simulation) AddForce(force mgl64.Vec3) {
	s.body.AddForce(force)
}

// SetMass changes the mass; a mass <= 0 makes the body immovable
func (s *Simulation) SetMass(mass float64) {
	s.body.SetMass(mass)
	s.logger.Debug("mass changed", zap.Float64("mass", mass))
}

// SetEnabled turns Step into a no-op when false
func (s *Simulation) SetEnabled(enabled bool) {
	s.enabled = enabled
}

func (s *Simulation) Enabled() bool {
	return s.enabled
}

func (s *Simulation) State() State {
	return State{
		Position:        s.body.Transform.Position,
		Rotation:        s.body.Transform.Rotation,
		Velocity:        s.body.Velocity,
		AngularVelocity: s.body.AngularVelocity,
	}
}

// Pose is the world transform of the mesh origin, as published
func (s *Simulation) Pose() actor.Transform {
	return s.body.OriginTransform()
}

func (s *Simulation) MassProperties() actor.MassProperties {
	return s.body.MassProperties()
}

func (s *Simulation) Obstacles() *obstacle.Set {
	return s.obstacles
}

func (s *Simulation) ID() uuid.UUID {
	return s.id
}

// Frame is the number of enabled steps taken
func (s *Simulation) Frame() uint64 {
	return s.frame
}

// RefreshObstacles snapshots the tagged entities again. Step never calls it:
// obstacles moved by the host are ignored until the next refresh.
func (s *Simulation) RefreshObstacles() {
	if s.query == nil {
		s.obstacles = obstacle.NewSet(nil)
		return
	}

	s.obstacles = obstacle.Refresh(s.query, s.config.ObstacleTag)
	s.logger.Debug("obstacles refreshed",
		zap.String("tag", s.config.ObstacleTag),
		zap.Int("obstacles", s.obstacles.Len()),
	)
	if skipped := s.obstacles.Skipped(); skipped > 0 {
		s.logger.Debug("skipped obstacles with invalid bounds", zap.Int("skipped", skipped))
	}
}

func (s *Simulation) publish() {
	if s.sink == nil {
		return
	}

	pose := s.body.OriginTransform()
	s.sink.SetPose(pose.Position, pose.Rotation)
}
