package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
)

// Environment variables holding credentials. They are read once at startup;
// a missing required variable is fatal before any session work begins.
const (
	EnvDatadogAPIKey         = "DD_API_KEY"
	EnvDatadogApplicationKey = "DD_APPLICATION_KEY"
	EnvAnthropicAPIKey       = "ANTHROPIC_API_KEY"
)

// ErrMissingCredentials indicates required environment variables are unset.
var ErrMissingCredentials = errors.New("missing credentials")

// Credentials holds the secrets read from the environment.
type Credentials struct {
	// DatadogAPIKey authenticates against the Datadog API.
	DatadogAPIKey string

	// DatadogApplicationKey scopes Datadog API access to an application.
	DatadogApplicationKey string

	// AnthropicAPIKey authenticates against the agent runtime.
	AnthropicAPIKey string
}

// LoadCredentials reads credentials from the process environment. The error
// names every missing variable so a single run surfaces all of them.
func LoadCredentials() (Credentials, error) {
	creds := Credentials{
		DatadogAPIKey:         os.Getenv(EnvDatadogAPIKey),
		DatadogApplicationKey: os.Getenv(EnvDatadogApplicationKey),
		AnthropicAPIKey:       os.Getenv(EnvAnthropicAPIKey),
	}

	var missing []string
	if creds.DatadogAPIKey == "" {
		missing = append(missing, EnvDatadogAPIKey)
	}
	if creds.DatadogApplicationKey == "" {
		missing = append(missing, EnvDatadogApplicationKey)
	}
	if creds.AnthropicAPIKey == "" {
		missing = append(missing, EnvAnthropicAPIKey)
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return Credentials{}, fmt.Errorf("%w: %s", ErrMissingCredentials, strings.Join(missing, ", "))
	}

	return creds, nil
}

var envPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(:-([^}]*))?\}`)

// expandEnv substitutes ${VAR} and ${VAR:-default} references in raw settings
// content. An unset variable without a default is an error rather than a
// silent empty string.
func expandEnv(content string) (string, error) {
	var expandErr error

	expanded := envPattern.ReplaceAllStringFunc(content, func(match string) string {
		groups := envPattern.FindStringSubmatch(match)
		name := groups[1]

		if value, ok := os.LookupEnv(name); ok {
			return value
		}
		if groups[2] != "" {
			return groups[3]
		}

		if expandErr == nil {
			expandErr = fmt.Errorf("environment variable %s is not set", name)
		}
		return match
	})

	if expandErr != nil {
		return "", expandErr
	}
	return expanded, nil
}
