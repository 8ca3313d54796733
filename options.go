package syringe

import (
	"fmt"

	"go.uber.org/zap"
)

// An Option configures a Container created with New.
// Child containers inherit the options of their parent.
type Option interface {
	applyOption(*containerOptions)
}

type containerOptions struct {
	logger   *zap.Logger
	metrics  *Metrics
	metadata MetadataProvider
}

func defaultOptions() *containerOptions {
	return &containerOptions{
		logger:   zap.NewNop(),
		metadata: ReflectionMetadata(),
	}
}

// WithLogger sets the logger used for container events.
// The default logger discards everything.
func WithLogger(logger *zap.Logger) Option {
	return loggerOption{logger: logger}
}

type loggerOption struct {
	logger *zap.Logger
}

func (o loggerOption) String() string {
	return "WithLogger()"
}

func (o loggerOption) applyOption(opts *containerOptions) {
	if o.logger != nil {
		opts.logger = o.logger
	}
}

// WithMetrics records resolution metrics on m. See NewMetrics.
func WithMetrics(m *Metrics) Option {
	return metricsOption{metrics: m}
}

type metricsOption struct {
	metrics *Metrics
}

func (o metricsOption) String() string {
	return "WithMetrics()"
}

func (o metricsOption) applyOption(opts *containerOptions) {
	opts.metrics = o.metrics
}

// WithMetadataProvider replaces the source of class dependencies.
// Inject and InjectAll overrides still apply on top of it.
func WithMetadataProvider(provider MetadataProvider) Option {
	return metadataOption{provider: provider}
}

type metadataOption struct {
	provider MetadataProvider
}

func (o metadataOption) String() string {
	return fmt.Sprintf("WithMetadataProvider(%T)", o.provider)
}

func (o metadataOption) applyOption(opts *containerOptions) {
	if o.provider != nil {
		opts.metadata = o.provider
	}
}

// A RegistrationOption modifies a single registration.
type RegistrationOption interface {
	applyRegistrationOption(*RegistrationOptions)
}

// RegistrationOptions holds the options of a registration.
type RegistrationOptions struct {
	Lifecycle Lifecycle
}

// WithLifecycle sets the lifecycle of a class or token registration.
// Value and factory registrations only accept Transient.
func WithLifecycle(lifecycle Lifecycle) RegistrationOption {
	return lifecycleOption(lifecycle)
}

type lifecycleOption Lifecycle

func (o lifecycleOption) String() string {
	return fmt.Sprintf("WithLifecycle(%s)", Lifecycle(o))
}

func (o lifecycleOption) applyRegistrationOption(opts *RegistrationOptions) {
	opts.Lifecycle = Lifecycle(o)
}
