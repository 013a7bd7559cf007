// Package prompt collects answers from the operator at the controlling
// terminal. Prompts block the whole process until a human responds;
// there is no timeout and no background work behind them.
package prompt

import "context"

// Question describes one interactive prompt
type Question struct {
	// Message shown to the operator, usually the form question verbatim
	Message string

	// Help is optional secondary text shown on demand
	Help string

	// Default is prefilled and returned on plain enter
	Default string
}

// Prompter is the interactive prompt collaborator. Implementations are
// synchronous and terminal-bound.
type Prompter interface {
	// Ask blocks until the operator supplies an answer
	Ask(ctx context.Context, q Question) (string, error)

	// AskSecret is Ask without echoing; used for security codes
	AskSecret(ctx context.Context, q Question) (string, error)
}
