package rsmarisa

import (
	"log/slog"

	"github.com/tokuhirom/rsmarisa/internal/trie"
)

// TailMode selects how stored suffixes are terminated. See the
// constants for the trade-off.
type TailMode = trie.TailMode

const (
	// TailText stores NUL-terminated suffixes, the most compact layout
	// for textual keys. Builds upgrade to TailBinary automatically when
	// a key contains a NUL byte, so this is always a safe default.
	TailText = trie.TailText
	// TailBinary stores suffixes with a termination bit vector, so keys
	// may contain arbitrary bytes.
	TailBinary = trie.TailBinary
)

// NodeOrder selects the child layout, which fixes id assignment order.
type NodeOrder = trie.NodeOrder

const (
	// OrderLabel assigns ids in lexicographic key order.
	OrderLabel = trie.OrderLabel
	// OrderWeight assigns smaller ids to heavier keys. Useful when hot
	// keys should land in small, cache-friendly id ranges.
	OrderWeight = trie.OrderWeight
)

// DuplicatePolicy decides what a build does with repeated keys.
type DuplicatePolicy = trie.DuplicatePolicy

const (
	// DuplicateReject fails the build with ErrDuplicateKey.
	DuplicateReject = trie.DuplicateReject
	// DuplicateMerge collapses repeated keys into one, summing weights.
	DuplicateMerge = trie.DuplicateMerge
)

type options struct {
	tailMode         TailMode
	order            NodeOrder
	onDuplicate      DuplicatePolicy
	logger           *Logger
	metricsCollector MetricsCollector
}

// Option configures build and load behavior.
type Option func(*options)

// WithTailMode configures the tail termination mode.
func WithTailMode(mode TailMode) Option {
	return func(o *options) {
		o.tailMode = mode
	}
}

// WithNodeOrder configures the child layout order.
//
// OrderWeight lays children out by descending cumulative key weight
// (push weights via Keyset.PushWeight) and is recorded in saved files,
// so loaded tries keep the same id assignment.
func WithNodeOrder(order NodeOrder) Option {
	return func(o *options) {
		o.order = order
	}
}

// WithDuplicatePolicy configures how a build treats repeated keys.
// The default is DuplicateReject.
func WithDuplicatePolicy(policy DuplicatePolicy) Option {
	return func(o *options) {
		o.onDuplicate = policy
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := rsmarisa.NewJSONLogger(slog.LevelInfo)
//	t, _ := rsmarisa.Build(ks, rsmarisa.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMetricsCollector configures a metrics collector for monitoring
// operations. Pass nil to disable metrics collection.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		tailMode:         TailText,
		order:            OrderLabel,
		onDuplicate:      DuplicateReject,
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
