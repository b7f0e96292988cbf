package simfx

import "github.com/hsiuhsiu/simfx-go/pkg/simfx/logging"

type handleOptions struct {
	threads int
	log     logging.Logger
}

// Option configures a Model or Diffraction at creation.
type Option func(*handleOptions)

// WithThreadCount overrides Config.ThreadCount for one model or analysis.
func WithThreadCount(n int) Option {
	return func(o *handleOptions) { o.threads = n }
}

// WithLogger overrides the library logger for one model or analysis.
func WithLogger(l logging.Logger) Option {
	return func(o *handleOptions) { o.log = l }
}

func (l *Library) handleOptions(opts []Option) handleOptions {
	o := handleOptions{threads: l.cfg.ThreadCount, log: l.log}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logging.Nop()
	}
	return o
}
