package prompt

import (
	"context"
	"errors"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"

	"github.com/applyforge/applyforge/internal/domain"
)

// Terminal asks questions on the controlling terminal
type Terminal struct{}

var _ Prompter = (*Terminal)(nil)

// NewTerminal creates a terminal-bound prompter
func NewTerminal() *Terminal {
	return &Terminal{}
}

// Ask blocks until the operator supplies an answer
func (t *Terminal) Ask(ctx context.Context, q Question) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	input := &survey.Input{
		Message: q.Message,
		Help:    q.Help,
		Default: q.Default,
	}

	var resp string
	if err := survey.AskOne(input, &resp); err != nil {
		return "", translateSurveyErr(q.Message, err)
	}
	return resp, nil
}

// AskSecret is Ask without echoing the response
func (t *Terminal) AskSecret(ctx context.Context, q Question) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	input := &survey.Password{
		Message: q.Message,
		Help:    q.Help,
	}

	var resp string
	if err := survey.AskOne(input, &resp); err != nil {
		return "", translateSurveyErr(q.Message, err)
	}
	return resp, nil
}

// translateSurveyErr maps a ctrl-c interrupt onto the domain error the
// callers check for; everything else passes through untouched.
func translateSurveyErr(key string, err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return domain.PromptAbortedError(key)
	}
	return err
}
