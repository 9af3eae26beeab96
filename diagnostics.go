package quill

import (
	"github.com/akmonengine/quill/constraint"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Contact summarizes the correction applied for one obstacle
type Contact struct {
	ObstacleIndex        int
	Penetrating          int
	Colliding            int
	PositionCorrection   mgl64.Vec3
	DeltaVelocity        mgl64.Vec3
	DeltaAngularVelocity mgl64.Vec3
}

// FrameReport describes one enabled step
type FrameReport struct {
	SimulationID uuid.UUID
	Frame        uint64
	SubSteps     int
	// Time carried to the next frame
	Remaining float64
	State     State
	Contacts  []Contact
}

// Diagnostics receives a report after every enabled step
type Diagnostics interface {
	Report(report FrameReport)
}

// DiagnosticsFunc adapts a function to the Diagnostics interface
type DiagnosticsFunc func(report FrameReport)

func (f DiagnosticsFunc) Report(report FrameReport) {
	f(report)
}

func newFrameReport(s *Simulation, subSteps int, contacts []*constraint.ContactConstraint) FrameReport {
	return FrameReport{
		SimulationID: s.id,
		Frame:        s.frame,
		SubSteps:     subSteps,
		Remaining:    s.remaining,
		State:        s.State(),
		Contacts: lo.Map(contacts, func(c *constraint.ContactConstraint, _ int) Contact {
			return Contact{
				ObstacleIndex:        c.ObstacleIndex,
				Penetrating:          c.Penetrating,
				Colliding:            c.Colliding,
				PositionCorrection:   c.PositionCorrection,
				DeltaVelocity:        c.DeltaVelocity,
				DeltaAngularVelocity: c.DeltaAngularVelocity,
			}
		}),
	}
}

// LogDiagnostics writes one debug line per frame
type LogDiagnostics struct {
	logger *zap.Logger
}

func NewLogDiagnostics(logger *zap.Logger) *LogDiagnostics {
	return &LogDiagnostics{logger: logger}
}

func (d *LogDiagnostics) Report(report FrameReport) {
	d.logger.Debug("frame",
		zap.Stringer("sim_id", report.SimulationID),
		zap.Uint64("frame", report.Frame),
		zap.Int("sub_steps", report.SubSteps),
		zap.Float64("remaining", report.Remaining),
		zap.Float64s("position", report.State.Position[:]),
		zap.Float64s("velocity", report.State.Velocity[:]),
		zap.Float64s("angular_velocity", report.State.AngularVelocity[:]),
		zap.Ints("contacts", lo.Map(report.Contacts, func(c Contact, _ int) int {
			return c.ObstacleIndex
		})),
	)
}
