package domain

import (
	"fmt"
	"time"
)

// MatchTimeout parses the configured matcher timeout.
// An empty value yields DefaultMatchTimeout; "0" disables the timeout.
func (c *Config) MatchTimeout() (time.Duration, error) {
	if c.Matcher.Timeout == "" {
		return DefaultMatchTimeout, nil
	}
	d, err := time.ParseDuration(c.Matcher.Timeout)
	if err != nil {
		return 0, fmt.Errorf("matcher.timeout invalid: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("matcher.timeout must be >= 0, got %s", c.Matcher.Timeout)
	}
	return d, nil
}

// HistoryKey returns the configured storage key with default fallback.
func (c *Config) HistoryKey() string {
	if c.History.Key == "" {
		return DefaultHistoryKey
	}
	return c.History.Key
}

// TimestampLayout returns the configured timestamp layout with default fallback.
func (c *Config) TimestampLayout() string {
	if c.History.TimestampLayout == "" {
		return DefaultTimestampLayout
	}
	return c.History.TimestampLayout
}

// ListenAddr returns host:port for the HTTP API.
func (c *Config) ListenAddr() string {
	host := c.Server.Host
	if host == "" {
		host = DefaultServerHost
	}
	port := c.Server.Port
	if port == 0 {
		port = DefaultServerPort
	}
	return fmt.Sprintf("%s:%d", host, port)
}
