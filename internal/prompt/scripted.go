package prompt

import (
	"context"

	"github.com/applyforge/applyforge/internal/domain"
)

// Scripted replays canned answers in order. It stands in for the
// terminal in tests and records every question it was asked.
type Scripted struct {
	queue []string
	asked []Question
}

var _ Prompter = (*Scripted)(nil)

// NewScripted creates a prompter that will answer with the given values
// in order and fail once they run out.
func NewScripted(answers ...string) *Scripted {
	return &Scripted{queue: answers}
}

// Ask pops the next scripted answer
func (s *Scripted) Ask(_ context.Context, q Question) (string, error) {
	s.asked = append(s.asked, q)
	if len(s.queue) == 0 {
		return "", domain.PromptAbortedError(q.Message)
	}
	answer := s.queue[0]
	s.queue = s.queue[1:]
	return answer, nil
}

// AskSecret pops from the same queue as Ask
func (s *Scripted) AskSecret(ctx context.Context, q Question) (string, error) {
	return s.Ask(ctx, q)
}

// Asked returns every question asked so far, in order
func (s *Scripted) Asked() []Question {
	return s.asked
}

// AskCount returns how many times the prompter was invoked
func (s *Scripted) AskCount() int {
	return len(s.asked)
}
