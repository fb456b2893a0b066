package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/doeshing/rxdbg/internal/domain"
)

var (
	validEngines    = []string{domain.EngineECMAScript, domain.EngineRE2, domain.EngineCoregex}
	validBackends   = []string{domain.BackendSQLite, domain.BackendFile, domain.BackendMemory}
	validLogLevels  = []string{"debug", "info", "warn", "error"}
	validLogFormats = []string{"console", "json"}
)

// Validate ensures config structure is consistent.
func Validate(cfg domain.Config) error {
	if err := validateMatcher(cfg); err != nil {
		return err
	}
	if err := validateHistory(cfg.History); err != nil {
		return err
	}
	if err := validateServer(cfg.Server); err != nil {
		return err
	}
	return validateLog(cfg.Log)
}

func validateMatcher(cfg domain.Config) error {
	if !oneOf(cfg.Matcher.Engine, validEngines) {
		return fmt.Errorf("matcher.engine must be %s, got %s", strings.Join(validEngines, "|"), cfg.Matcher.Engine)
	}
	if _, err := cfg.MatchTimeout(); err != nil {
		return err
	}
	return nil
}

func validateHistory(history domain.HistorySettings) error {
	if !oneOf(history.Backend, validBackends) {
		return fmt.Errorf("history.backend must be %s, got %s", strings.Join(validBackends, "|"), history.Backend)
	}
	if history.ListLimit < 0 {
		return fmt.Errorf("history.list_limit must be >= 0")
	}
	return nil
}

func validateServer(server domain.ServerSettings) error {
	if server.Port < 0 || server.Port > 65535 {
		return fmt.Errorf("server.port must be between 0 and 65535, got %d", server.Port)
	}
	return nil
}

func validateLog(log domain.LogSettings) error {
	if log.Level != "" && !oneOf(log.Level, validLogLevels) {
		return fmt.Errorf("log.level must be %s, got %s", strings.Join(validLogLevels, "|"), log.Level)
	}
	if log.Format != "" && !oneOf(log.Format, validLogFormats) {
		return fmt.Errorf("log.format must be %s, got %s", strings.Join(validLogFormats, "|"), log.Format)
	}
	return nil
}

func oneOf(value string, allowed []string) bool {
	return slices.Contains(allowed, strings.ToLower(value))
}
