package twothree

// Options configures tree behavior.
type Options struct {
	logger Logger
	verify bool // Run Verify after every mutation and panic on failure.
}

// DefaultOptions returns the configuration used when no Option is given.
//
//goland:noinspection GoUnusedExportedFunction
func DefaultOptions() Options {
	return Options{
		logger: DiscardLogger{},
		verify: false,
	}
}

// Option configures tree options using the functional options pattern.
type Option func(*Options)

// WithLogger routes misuse reports (erasing through an invalid iterator,
// foreign insert hints, failed verification) to l.
// A nil logger restores DiscardLogger.
//
//goland:noinspection GoUnusedExportedFunction
func WithLogger(l Logger) Option {
	return func(opts *Options) {
		if l == nil {
			l = DiscardLogger{}
		}
		opts.logger = l
	}
}

// WithVerify checks every structural invariant after each Insert and Erase.
// A violation is logged and then panics. This costs O(n) per mutation and
// is meant for tests and debugging sessions; builds with the invariants
// tag verify regardless of this option.
//
//goland:noinspection GoUnusedExportedFunction
func WithVerify() Option {
	return func(opts *Options) {
		opts.verify = true
	}
}
