// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// This package establishes the contract between the application core and external
// adapters (infrastructure). Following the Ports and Adapters (Hexagonal) pattern,
// these interfaces keep the matcher, explainer and history store independent of
// specific regex engines, storage backends, or presentation layers.
//
// Key architectural concepts:
//   - Ports: Interfaces defined here (e.g., Matcher, KeyValueStore)
//   - Adapters: Concrete implementations in the infrastructure layer
//   - Dependency inversion: Application depends on abstractions, not implementations
package ports

import (
	"context"
	"io"

	"github.com/doeshing/rxdbg/internal/domain"
)

// ConfigProvider loads the latest configuration from persistent storage.
// Implementations typically read from ~/.rxdbg/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// Matcher runs a pattern against a sample and reports every non-overlapping match.
// A pattern the engine rejects is reported through MatchResult.Error, never as a Go error.
type Matcher interface {
	Name() string
	Analyze(pattern, sample string) domain.MatchResult
}

// Explainer renders a best-effort, token-by-token description of a pattern.
type Explainer interface {
	Explain(pattern string) string
	Lines(pattern string) []domain.ExplanationLine
}

// KeyValueStore is the persistence capability the history store is built on.
// Get reports found=false for a key that was never set.
type KeyValueStore interface {
	Get(key string) (value string, found bool, err error)
	Set(key, value string) error
}

// HistoryRepository records test runs and exposes them for review.
type HistoryRepository interface {
	AddEntry(pattern, testString string, matches []domain.Match, explanation string) (domain.HistoryEntry, error)
	RemoveEntry(id int64) error
	ClearHistory() error
	GetHistory() []domain.HistoryEntry
	Find(id int64) (domain.HistoryEntry, bool)
	Search(query string, limit int) []domain.HistoryEntry
	Export(w io.Writer) error
}

// ExamplePicker offers canned pattern/sample pairs.
type ExamplePicker interface {
	Random() domain.Example
}

// Logger provides structured logging abstraction for the application layer.
// Implementations can route to different backends (stdout, files, external services).
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
