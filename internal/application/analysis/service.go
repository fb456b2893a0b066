package analysis

import (
	"errors"
	"fmt"

	"github.com/doeshing/rxdbg/internal/domain"
	"github.com/doeshing/rxdbg/internal/ports"
)

// ErrEmptyPattern is returned when a test is requested without a pattern.
var ErrEmptyPattern = errors.New("please enter a regex pattern")

// Service runs one test: match, explain and record.
type Service struct {
	Matcher   ports.Matcher
	Explainer ports.Explainer
	History   ports.HistoryRepository
	Examples  ports.ExamplePicker
	Logger    ports.Logger
	// Record controls whether successful runs are appended to History.
	Record bool
}

// Run analyzes testString with pattern. A pattern the engine rejects is not an
// error: it is reported in Analysis.Result and nothing is recorded.
func (s *Service) Run(pattern, testString string) (domain.Analysis, error) {
	if s.Matcher == nil || s.Explainer == nil || s.Logger == nil {
		return domain.Analysis{}, errors.New("analysis.Service dependencies not satisfied")
	}
	if pattern == "" {
		return domain.Analysis{}, ErrEmptyPattern
	}

	result := s.Matcher.Analyze(pattern, testString)
	analysis := domain.Analysis{
		Pattern:     pattern,
		TestString:  testString,
		Result:      result,
		Explanation: s.Explainer.Explain(pattern),
	}

	if result.Failed() {
		s.Logger.Debug("pattern rejected", map[string]interface{}{
			"engine": s.Matcher.Name(),
			"error":  result.Error,
		})
		return analysis, nil
	}

	s.Logger.Debug("pattern analyzed", map[string]interface{}{
		"engine":  s.Matcher.Name(),
		"matches": len(result.Matches),
	})

	if !s.Record || s.History == nil {
		return analysis, nil
	}
	entry, err := s.History.AddEntry(pattern, testString, result.Matches, analysis.Explanation)
	if err != nil {
		s.Logger.Error("history append failed", err, nil)
		return analysis, fmt.Errorf("record history: %w", err)
	}
	analysis.Entry = &entry
	return analysis, nil
}

// Random picks a canned example and runs it.
func (s *Service) Random() (domain.Example, domain.Analysis, error) {
	if s.Examples == nil {
		return domain.Example{}, domain.Analysis{}, errors.New("example picker unavailable")
	}
	ex := s.Examples.Random()
	analysis, err := s.Run(ex.Pattern, ex.TestString)
	return ex, analysis, err
}
