// Package signal provides the version information for signal.
package signal

// Version is the current version of signal.
const Version = "0.1.0"

// GetVersion returns the current version string.
func GetVersion() string {
	return Version
}
