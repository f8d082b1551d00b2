package cli

import (
	"fmt"
	"os"
	"time"
)

// Output formats
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config holds CLI configuration
type Config struct {
	ServerURL string
	Output    string
	Timeout   time.Duration
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL: getEnvOrDefault("LBCTL_SERVER", "http://localhost:8080"),
		Output:    getEnvOrDefault("LBCTL_OUTPUT", FormatText),
		Timeout:   30 * time.Second,
	}
}

// Validate rejects unknown output formats and an empty server URL
func (c *Config) Validate() error {
	if c.ServerURL == "" {
		return fmt.Errorf("--server is required")
	}
	switch c.Output {
	case FormatText, FormatJSON:
		return nil
	default:
		return fmt.Errorf("invalid output format %q: must be text or json", c.Output)
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
