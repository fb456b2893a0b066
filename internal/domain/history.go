package domain

// HistoryEntry captures a single recorded test run.
type HistoryEntry struct {
	ID          int64   `json:"id"`
	Pattern     string  `json:"pattern"`
	TestString  string  `json:"testString"`
	Matches     []Match `json:"matches"`
	Explanation string  `json:"explanation"`
	Timestamp   string  `json:"timestamp"`
}

// Example is a canned pattern/sample pair offered by the randomizer.
type Example struct {
	Pattern     string `json:"pattern"`
	TestString  string `json:"testString"`
	Description string `json:"description"`
}

// Analysis is the outcome of one test run: match result, explanation and,
// when recorded, the history entry created for it.
type Analysis struct {
	Pattern     string        `json:"pattern"`
	TestString  string        `json:"testString"`
	Result      MatchResult   `json:"result"`
	Explanation string        `json:"explanation"`
	Entry       *HistoryEntry `json:"entry,omitempty"`
}
