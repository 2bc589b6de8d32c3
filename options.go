package evaluation

import (
	"github.com/rs/zerolog"

	"github.com/prosuite/evaluation/vm"
)

// Option configures the creation of an Evaluator.
type Option func(*config)

type config struct {
	caseSensitive bool
	logger        zerolog.Logger
	observer      vm.Observer
}

func collectOptions(opts ...Option) *config {
	cfg := &config{logger: zerolog.Nop()}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	return cfg
}

// WithCaseSensitive makes the keywords of the expression language match
// only in lower case. Name lookup is governed by the environment.
func WithCaseSensitive() Option {
	return func(cfg *config) {
		cfg.caseSensitive = true
	}
}

// WithLogger sets the logger that receives debug messages about compiled
// expressions.
func WithLogger(logger zerolog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

// WithObserver sets an observer that is notified before every instruction
// executed by Evaluate. This enables tracers and step debuggers.
func WithObserver(observer vm.Observer) Option {
	return func(cfg *config) {
		cfg.observer = observer
	}
}
