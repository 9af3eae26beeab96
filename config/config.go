// Package config holds the tunables of a simulation and their YAML representation.
package config

import (
	"bytes"
	"io"
	"math"
	"os"

	"github.com/akmonengine/quill/actor"
	"github.com/akmonengine/quill/constraint"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// DefaultObstacleTag is the tag obstacles are discovered with when none is configured.
const DefaultObstacleTag = "Obstacle"

// Config describes one simulated body.
type Config struct {
	// Mass <= 0 makes the body immovable.
	Mass    float64    `yaml:"mass"`
	Gravity [3]float64 `yaml:"gravity"`

	Restitution float64 `yaml:"restitution"`
	// Restitution fades out below an impact speed of 1/RestitutionDamping.
	RestitutionDamping float64 `yaml:"restitution_damping"`
	Friction           float64 `yaml:"friction"`
	LinearDamping      float64 `yaml:"linear_damping"`
	AngularDamping     float64 `yaml:"angular_damping"`

	// SubStepTime is the fixed integration step, in seconds.
	SubStepTime      float64 `yaml:"sub_step_time"`
	EnableSimulation bool    `yaml:"enable_simulation"`
	ObstacleTag      string  `yaml:"obstacle_tag"`

	Integrator actor.Integrator    `yaml:"integrator"`
	Response   constraint.Response `yaml:"response"`
}

// Default returns the configuration of a 1 kg body in centimeter units.
func Default() Config {
	return Config{
		Mass:               1,
		Gravity:            [3]float64{0, 0, -980},
		Restitution:        0.1,
		RestitutionDamping: 1e-3,
		Friction:           0.5,
		LinearDamping:      0.3,
		AngularDamping:     0.8,
		SubStepTime:        1.0 / 60.0,
		EnableSimulation:   true,
		ObstacleTag:        DefaultObstacleTag,
		Integrator:         actor.IntegratorHeun,
		Response:           constraint.ResponseFrictionCone,
	}
}

// Load reads a YAML file over the defaults and validates the result.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "reading config %s", path)
	}

	cfg, err := Parse(data)
	if err != nil {
		return Config{}, errors.Wrapf(err, "loading config %s", path)
	}

	return cfg, nil
}

// Parse decodes YAML over the defaults. Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, errors.Wrap(err, "decoding yaml")
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate reports every out of range field at once.
func (c Config) Validate() error {
	var errs error

	for i, g := range c.Gravity {
		if !isFinite(g) {
			errs = multierr.Append(errs, errors.Errorf("gravity.%d must be finite, got %v", i, g))
		}
	}
	if math.IsNaN(c.Mass) {
		errs = multierr.Append(errs, errors.New("mass must be a number"))
	}
	if !(c.Restitution >= 0 && c.Restitution <= 1) {
		errs = multierr.Append(errs, errors.Errorf("restitution must be in [0, 1], got %v", c.Restitution))
	}
	if !(c.RestitutionDamping > 0) {
		errs = multierr.Append(errs, errors.Errorf("restitution_damping must be > 0, got %v", c.RestitutionDamping))
	}
	errs = multierr.Append(errs, nonNegative("friction", c.Friction))
	errs = multierr.Append(errs, nonNegative("linear_damping", c.LinearDamping))
	errs = multierr.Append(errs, nonNegative("angular_damping", c.AngularDamping))
	if !(c.SubStepTime > 0) || !isFinite(c.SubStepTime) {
		errs = multierr.Append(errs, errors.Errorf("sub_step_time must be > 0, got %v", c.SubStepTime))
	}
	if c.Integrator != actor.IntegratorHeun && c.Integrator != actor.IntegratorVerlet {
		errs = multierr.Append(errs, errors.Errorf("unknown integrator %v", c.Integrator))
	}
	if c.Response != constraint.ResponseFrictionCone && c.Response != constraint.ResponseRestitution {
		errs = multierr.Append(errs, errors.Errorf("unknown response %v", c.Response))
	}

	return errs
}

// GravityVector returns the gravity acceleration.
func (c Config) GravityVector() mgl64.Vec3 {
	return mgl64.Vec3(c.Gravity)
}

// Material returns the surface and damping coefficients of the body.
func (c Config) Material() actor.Material {
	return actor.Material{
		Restitution:        c.Restitution,
		RestitutionDamping: c.RestitutionDamping,
		Friction:           c.Friction,
		LinearDamping:      c.LinearDamping,
		AngularDamping:     c.AngularDamping,
	}
}

func nonNegative(field string, value float64) error {
	if !(value >= 0) || math.IsInf(value, 1) {
		return errors.Errorf("%s must be >= 0, got %v", field, value)
	}
	return nil
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
