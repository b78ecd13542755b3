package evolver

import "context"

// NoopHeadlineSynthesizer always returns the current title unchanged —
// used in tests and local development when no external collaborator is
// configured.
type NoopHeadlineSynthesizer struct{}

func NewNoopHeadlineSynthesizer() *NoopHeadlineSynthesizer {
	return &NoopHeadlineSynthesizer{}
}

func (n *NoopHeadlineSynthesizer) Synthesize(_ context.Context, currentTitle string, _ []string) (string, error) {
	return currentTitle, nil
}
