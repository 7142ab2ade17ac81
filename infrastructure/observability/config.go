// Package observability provides the OpenTelemetry-backed implementation of
// the telemetry interfaces, including explicit start/end time overrides used
// by the replay emitter.
package observability

// Exporter selects the span exporter.
type Exporter string

const (
	// ExporterOTLP exports spans over OTLP gRPC.
	ExporterOTLP Exporter = "otlp"

	// ExporterStdout pretty-prints spans to stdout (for development).
	ExporterStdout Exporter = "stdout"

	// ExporterNoop disables tracing.
	ExporterNoop Exporter = "noop"
)

// Config holds observability configuration.
type Config struct {
	// ServiceName identifies this service in emitted traces.
	ServiceName string

	// ServiceVersion is the reported service version.
	ServiceVersion string

	// Environment is the deployment environment attribute.
	Environment string

	// Exporter selects the span exporter.
	Exporter Exporter

	// Endpoint is the OTLP endpoint (host:port).
	Endpoint string

	// Insecure disables transport security for OTLP.
	Insecure bool
}

// DefaultConfig returns a development-friendly configuration.
func DefaultConfig() Config {
	return Config{
		ServiceName:    "signal",
		ServiceVersion: "dev",
		Environment:    "development",
		Exporter:       ExporterNoop,
	}
}

// Option configures the provider.
type Option func(*Config)

// WithServiceName sets the service name.
func WithServiceName(name string) Option {
	return func(c *Config) {
		c.ServiceName = name
	}
}

// WithServiceVersion sets the service version.
func WithServiceVersion(version string) Option {
	return func(c *Config) {
		c.ServiceVersion = version
	}
}

// WithEnvironment sets the deployment environment.
func WithEnvironment(env string) Option {
	return func(c *Config) {
		c.Environment = env
	}
}

// WithOTLP enables the OTLP exporter against the given endpoint.
func WithOTLP(endpoint string) Option {
	return func(c *Config) {
		c.Exporter = ExporterOTLP
		c.Endpoint = endpoint
	}
}

// WithStdoutExporter enables the stdout exporter.
func WithStdoutExporter() Option {
	return func(c *Config) {
		c.Exporter = ExporterStdout
	}
}

// WithInsecure disables transport security for OTLP.
func WithInsecure() Option {
	return func(c *Config) {
		c.Insecure = true
	}
}
