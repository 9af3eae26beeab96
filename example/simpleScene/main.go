// Package main drops a box onto the ground and prints its pose every frame.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/akmonengine/quill"
	"github.com/akmonengine/quill/actor"
	"github.com/akmonengine/quill/config"
	"github.com/akmonengine/quill/obstacle"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

const (
	// Flags.
	flagConfig  = "config"
	flagFrames  = "frames"
	flagDt      = "dt"
	flagHeight  = "height"
	flagVerbose = "verbose"

	// Box half size and ground half size, in centimeters like the default gravity
	boxHalfExtent    = 50.0
	groundHalfExtent = 1000.0
	groundThickness  = 10.0
)

func main() {
	var logger *zap.Logger

	app := &cli.App{
		Name:  "simplescene",
		Usage: "drop a box onto the ground",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagConfig,
				Aliases: []string{"c"},
				Usage:   "load body configuration from `FILE`",
			},
			&cli.IntFlag{
				Name:  flagFrames,
				Value: 200,
				Usage: "number of frames to simulate",
			},
			&cli.Float64Flag{
				Name:  flagDt,
				Value: 1.0 / 60.0,
				Usage: "frame duration in seconds",
			},
			&cli.Float64Flag{
				Name:  flagHeight,
				Value: 300,
				Usage: "initial height of the box center",
			},
			&cli.BoolFlag{
				Name:    flagVerbose,
				Aliases: []string{"v"},
				Usage:   "enable debug logging and per-frame diagnostics",
			},
		},
		Before: func(c *cli.Context) error {
			var err error
			if c.Bool(flagVerbose) {
				logger, err = zap.NewDevelopment()
			} else {
				logger, err = zap.NewProduction()
			}
			return err
		},
		After: func(c *cli.Context) error {
			if logger != nil {
				//nolint:errcheck
				logger.Sync()
			}
			return nil
		},
		Action: func(c *cli.Context) error {
			return run(c, logger)
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context, logger *zap.Logger) error {
	cfg := config.Default()
	if path := c.String(flagConfig); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return err
		}
	}

	frames := c.Int(flagFrames)
	dt := c.Float64(flagDt)
	if frames < 0 || !(dt > 0) {
		return errors.Errorf("frames must be >= 0 and dt > 0, got %d and %v", frames, dt)
	}

	// Sol: dalle statique dont la face supérieure est le plan z = 0
	registry := &obstacle.Registry{}
	registry.Add(obstacle.NewSlab(actor.NewTransform(), groundHalfExtent, groundThickness, cfg.ObstacleTag))

	opts := []quill.Option{
		quill.WithLogger(logger),
		quill.WithQuery(registry),
		quill.WithPoseSink(quill.PoseSinkFunc(func(position mgl64.Vec3, rotation mgl64.Quat) {
			fmt.Fprintf(c.App.Writer, "  pose: position=%v rotation=%v\n", position, rotation)
		})),
	}
	if c.Bool(flagVerbose) {
		opts = append(opts, quill.WithDiagnostics(quill.NewLogDiagnostics(logger)))
	}

	// Cube légèrement incliné pour tomber sur une arête
	mesh := actor.NewBoxMesh(mgl64.Vec3{boxHalfExtent, boxHalfExtent, boxHalfExtent})
	pose := actor.Transform{
		Position: mgl64.Vec3{0, 0, c.Float64(flagHeight)},
		Rotation: mgl64.QuatRotate(0.3, mgl64.Vec3{1, 0, 0}),
	}

	sim, err := quill.NewSimulation(cfg, mesh, pose, opts...)
	if err != nil {
		return errors.Wrap(err, "creating simulation")
	}

	sim.Events.Subscribe(quill.CONTACT_ENTER, func(event quill.Event) {
		e := event.(quill.ContactEnterEvent)
		fmt.Fprintf(c.App.Writer, "  contact enter: obstacle %d, %d vertices\n", e.ObstacleIndex, e.Contact.Penetrating)
	})
	sim.Events.Subscribe(quill.CONTACT_EXIT, func(event quill.Event) {
		fmt.Fprintf(c.App.Writer, "  contact exit: obstacle %d\n", event.(quill.ContactExitEvent).ObstacleIndex)
	})

	logger.Info("simulation started",
		zap.Stringer("sim_id", sim.ID()),
		zap.Int("frames", frames),
		zap.Stringer("integrator", cfg.Integrator),
		zap.Stringer("response", cfg.Response),
	)

	for frame := 0; frame < frames; frame++ {
		fmt.Fprintf(c.App.Writer, "--- frame %d ---\n", frame+1)
		sim.Step(dt)
	}

	state := sim.State()
	fmt.Fprintf(c.App.Writer, "final: position=%v velocity=%v angular velocity=%v\n",
		state.Position, state.Velocity, state.AngularVelocity)

	return nil
}
