package domain

// ExplanationLine pairs a pattern token with its human-readable description.
type ExplanationLine struct {
	Token       string `json:"token"`
	Description string `json:"description"`
}
