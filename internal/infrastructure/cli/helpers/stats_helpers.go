package helpers

import (
	"sort"

	"github.com/doeshing/rxdbg/internal/domain"
)

// PatternStatistic counts how often a pattern was tested.
type PatternStatistic struct {
	Pattern string
	Count   int
}

// HistoryStatistics summarizes a history log.
type HistoryStatistics struct {
	Entries      int
	WithMatches  int
	TotalMatches int
	TopPatterns  []PatternStatistic
}

// AnalyzeHistory computes statistics over entries, keeping the top limit
// patterns. limit <= 0 keeps all of them.
func AnalyzeHistory(entries []domain.HistoryEntry, limit int) HistoryStatistics {
	stats := HistoryStatistics{Entries: len(entries)}
	frequency := make(map[string]int)
	for _, e := range entries {
		if len(e.Matches) > 0 {
			stats.WithMatches++
		}
		stats.TotalMatches += len(e.Matches)
		frequency[e.Pattern]++
	}
	stats.TopPatterns = CalculateTopPatterns(frequency, limit)
	return stats
}

// CalculateTopPatterns returns the most frequently tested patterns, ties
// broken alphabetically.
func CalculateTopPatterns(frequency map[string]int, limit int) []PatternStatistic {
	stats := make([]PatternStatistic, 0, len(frequency))
	for pattern, count := range frequency {
		stats = append(stats, PatternStatistic{Pattern: pattern, Count: count})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count == stats[j].Count {
			return stats[i].Pattern < stats[j].Pattern
		}
		return stats[i].Count > stats[j].Count
	})

	if limit > 0 && len(stats) > limit {
		return stats[:limit]
	}
	return stats
}

// MatchRate returns the percentage of entries that matched at least once.
func (s HistoryStatistics) MatchRate() float64 {
	if s.Entries == 0 {
		return 0.0
	}
	return float64(s.WithMatches) / float64(s.Entries) * 100.0
}
