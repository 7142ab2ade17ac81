// Package config provides settings loading for signal. Credentials come from
// the process environment; everything else from an optional local settings
// file (YAML or JSON) with ${VAR} expansion.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Settings errors.
var (
	// ErrInvalidFormat indicates an unparseable settings file.
	ErrInvalidFormat = errors.New("invalid settings format")

	// ErrUnsupportedFormat indicates an unrecognized file extension.
	ErrUnsupportedFormat = errors.New("unsupported settings format")
)

// DefaultSettingsFile is the settings file looked up next to the working
// directory when no path is given.
const DefaultSettingsFile = "signal-settings.yaml"

// Settings holds all non-credential configuration.
type Settings struct {
	Agent     AgentSettings     `yaml:"agent" json:"agent"`
	Datadog   DatadogSettings   `yaml:"datadog" json:"datadog"`
	Reports   ReportSettings    `yaml:"reports" json:"reports"`
	Telemetry TelemetrySettings `yaml:"telemetry" json:"telemetry"`
	Logging   LoggingSettings   `yaml:"logging" json:"logging"`
}

// AgentSettings configures the agent runtime client.
type AgentSettings struct {
	// Model is the model identifier used for the session.
	Model string `yaml:"model" json:"model"`

	// MaxTokens caps the completion size per model turn.
	MaxTokens int `yaml:"max_tokens" json:"max_tokens"`

	// AllowedTools is the permitted tool allow-list. Patterns ending in '*'
	// permit a whole namespace.
	AllowedTools []string `yaml:"allowed_tools" json:"allowed_tools"`
}

// DatadogSettings configures the remote query backend.
type DatadogSettings struct {
	// MCPServerURL is the remote MCP tool server endpoint.
	MCPServerURL string `yaml:"mcp_server_url" json:"mcp_server_url"`
}

// ReportSettings configures report persistence.
type ReportSettings struct {
	// DataDir is the agent's working directory sandbox root.
	DataDir string `yaml:"data_dir" json:"data_dir"`
}

// Dir returns the reports directory under the data dir.
func (r ReportSettings) Dir() string {
	return filepath.Join(r.DataDir, "reports")
}

// TelemetrySettings configures trace emission.
type TelemetrySettings struct {
	// Exporter is one of otlp, stdout, noop.
	Exporter string `yaml:"exporter" json:"exporter"`

	// Endpoint is the OTLP endpoint (host:port).
	Endpoint string `yaml:"endpoint" json:"endpoint"`

	// Insecure disables transport security for OTLP.
	Insecure bool `yaml:"insecure" json:"insecure"`
}

// LoggingSettings configures the logger.
type LoggingSettings struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

// DefaultSettings returns the configuration used when no settings file exists.
func DefaultSettings() Settings {
	return Settings{
		Agent: AgentSettings{
			Model:     "claude-sonnet-4-5",
			MaxTokens: 8192,
			AllowedTools: []string{
				"mcp__datadog__*",
				"mcp__signal__submit_report",
				"mcp__signal__read_file",
				"mcp__signal__write_file",
				"mcp__signal__list_files",
			},
		},
		Datadog: DatadogSettings{
			MCPServerURL: "https://mcp.datadoghq.com/api/unstable/mcp-server/mcp",
		},
		Reports: ReportSettings{
			DataDir: "data",
		},
		Telemetry: TelemetrySettings{
			Exporter: "noop",
		},
		Logging: LoggingSettings{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads settings from path. An empty path falls back to
// DefaultSettingsFile; a missing file yields the defaults (the settings file
// is optional).
func Load(path string) (Settings, error) {
	optional := path == ""
	if optional {
		path = DefaultSettingsFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && optional {
			return DefaultSettings(), nil
		}
		return Settings{}, fmt.Errorf("read settings file: %w", err)
	}

	expanded, err := expandEnv(string(data))
	if err != nil {
		return Settings{}, err
	}

	settings := DefaultSettings()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal([]byte(expanded), &settings); err != nil {
			return Settings{}, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
	case ".json":
		if err := json.Unmarshal([]byte(expanded), &settings); err != nil {
			return Settings{}, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
	default:
		return Settings{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}

	return settings, nil
}
