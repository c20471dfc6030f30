package audiograph

import (
	"github.com/google/uuid"
	"github.com/pion/logging"
)

// SystemOptions stores parameters used by System.
type SystemOptions struct {
	loggerFactory logging.LoggerFactory
	strict        bool
	leakSweep     bool
	id            uuid.UUID
}

// SystemOption is a type of System functional option.
type SystemOption func(*SystemOptions)

// WithLoggerFactory makes the System log through f instead of the default
// pion logger factory.
func WithLoggerFactory(f logging.LoggerFactory) SystemOption {
	return func(o *SystemOptions) {
		o.loggerFactory = f
	}
}

// WithStrictProtocol makes lifecycle protocol violations from the backend, such
// as a second created event for a registered handle, panic after being logged.
func WithStrictProtocol() SystemOption {
	return func(o *SystemOptions) {
		o.strict = true
	}
}

// WithLeakSweep enables or disables destroying objects the client dropped
// without calling Destroy. It is enabled by default. When disabled, every object
// stays alive in the runtime until it is destroyed or the System is closed.
func WithLeakSweep(enabled bool) SystemOption {
	return func(o *SystemOptions) {
		o.leakSweep = enabled
	}
}

// WithID sets the System ID reported in logs. A random ID is used by default.
func WithID(id uuid.UUID) SystemOption {
	return func(o *SystemOptions) {
		o.id = id
	}
}
