package quill

import (
	"github.com/akmonengine/quill/obstacle"
	"go.uber.org/zap"
)

type options struct {
	logger      *zap.Logger
	query       obstacle.Query
	sink        PoseSink
	diagnostics Diagnostics
}

// Option configures a Simulation.
type Option interface {
	apply(*options)
}

type funcOption struct {
	f func(*options)
}

func (fo *funcOption) apply(o *options) {
	fo.f(o)
}

func newFuncOption(f func(*options)) *funcOption {
	return &funcOption{f: f}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return newFuncOption(func(o *options) {
		o.logger = logger
	})
}

// WithQuery sets where obstacles are discovered. Without it the simulation has no obstacle.
func WithQuery(query obstacle.Query) Option {
	return newFuncOption(func(o *options) {
		o.query = query
	})
}

// WithPoseSink sets the receiver of the pose published after every step.
func WithPoseSink(sink PoseSink) Option {
	return newFuncOption(func(o *options) {
		o.sink = sink
	})
}

// WithDiagnostics sets the receiver of the per-frame reports.
func WithDiagnostics(diagnostics Diagnostics) Option {
	return newFuncOption(func(o *options) {
		o.diagnostics = diagnostics
	})
}
