// Package resolve implements the question resolution engine: given one
// extracted form question and its control, it decides the answer via a
// fixed keyword rule table, then the learned-answer store, then an
// interactive prompt whose response is persisted before the engine
// returns. The caller performs the actual UI fill or click.
package resolve

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/applyforge/applyforge/internal/domain"
	"github.com/applyforge/applyforge/internal/profile"
	"github.com/applyforge/applyforge/internal/prompt"
)

// AnswerStore is the exact-question-text memoization the engine consults
// for free-text questions. *store.AnswerStore satisfies it.
type AnswerStore interface {
	Get(ctx context.Context, question string) (answer string, found bool, err error)
	Record(ctx context.Context, question, answer string) error
}

// Engine resolves one question at a time, synchronously. A prompt blocks
// the whole process until the operator responds; every persisted answer
// is committed before Resolve returns.
type Engine struct {
	rules    []Rule
	answers  AnswerStore
	profile  *profile.Resolver
	prompter prompt.Prompter
	logger   *zap.Logger
}

// NewEngine creates a resolution engine over the given rule table
func NewEngine(rules []Rule, answers AnswerStore, profileResolver *profile.Resolver, prompter prompt.Prompter, logger *zap.Logger) *Engine {
	return &Engine{
		rules:    rules,
		answers:  answers,
		profile:  profileResolver,
		prompter: prompter,
		logger:   logger,
	}
}

// Resolve decides the answer action for a question. The question text is
// trimmed of surrounding whitespace and never otherwise normalized, so
// wordings differing only in punctuation are distinct store keys.
func (e *Engine) Resolve(ctx context.Context, questionText string, control domain.ControlDescriptor) (domain.Action, error) {
	question := strings.TrimSpace(questionText)
	if question == "" {
		return domain.Skip(), nil
	}

	// First matching rule wins; later rules are never consulted.
	for _, rule := range e.rules {
		if rule.Matches(question) {
			return e.resolveRule(ctx, rule, question, control)
		}
	}

	if control.Role.IsFreeText() {
		return e.resolveFreeText(ctx, question)
	}
	return e.resolveDynamicChoice(ctx, question, control)
}

func (e *Engine) resolveRule(ctx context.Context, rule Rule, question string, control domain.ControlDescriptor) (domain.Action, error) {
	e.logger.Debug("rule matched",
		zap.String("rule", rule.Name),
		zap.String("question", question))

	value, err := e.profile.GetOrPrompt(ctx, rule.Attr, rule.Prompt, rule.Caster)
	if err != nil {
		return domain.Action{}, err
	}

	if rule.Kind == RuleValue {
		return domain.TypeText(value), nil
	}

	if label, ok := findChoice(control.Choices, value); ok {
		return domain.SelectChoice(label), nil
	}

	if rule.FallbackAttr != "" {
		fallback, err := e.profile.GetOrPrompt(ctx, rule.FallbackAttr, rule.FallbackPrompt, rule.Caster)
		if err != nil {
			return domain.Action{}, err
		}
		if label, ok := findChoice(control.Choices, fallback); ok {
			return domain.SelectChoice(label), nil
		}
	}

	// Reported, never fatal: the caller moves on to the next question.
	e.logger.Warn("skipping question",
		zap.String("rule", rule.Name),
		zap.Error(domain.AmbiguousChoiceError(question, value)))
	return domain.Skip(), nil
}

func (e *Engine) resolveFreeText(ctx context.Context, question string) (domain.Action, error) {
	stored, found, err := e.answers.Get(ctx, question)
	if err != nil {
		return domain.Action{}, err
	}
	if found {
		e.logger.Info("using stored answer", zap.String("question", question))
		return domain.TypeText(stored), nil
	}

	answer, err := e.prompter.Ask(ctx, prompt.Question{
		Message: fmt.Sprintf("Enter answer for '%s'", question),
	})
	if err != nil {
		return domain.Action{}, err
	}

	if err := e.answers.Record(ctx, question, answer); err != nil {
		return domain.Action{}, err
	}
	e.logger.Info("saved answer for question", zap.String("question", question))

	return domain.TypeText(answer), nil
}

// resolveDynamicChoice handles choice questions no rule covers: the
// expected phrasing is collected once under a key derived from the
// question text, so repeat encounters reuse the stored value.
func (e *Engine) resolveDynamicChoice(ctx context.Context, question string, control domain.ControlDescriptor) (domain.Action, error) {
	key := profile.DynamicKey(question)

	expected, err := e.profile.GetOrPrompt(ctx, key, fmt.Sprintf("Enter answer for '%s'", question), nil)
	if err != nil {
		return domain.Action{}, err
	}

	if label, ok := findChoice(control.Choices, expected); ok {
		return domain.SelectChoice(label), nil
	}

	e.logger.Warn("skipping question",
		zap.String("key", key),
		zap.Error(domain.AmbiguousChoiceError(question, expected)))
	return domain.Skip(), nil
}

// findChoice returns the exact label of the first candidate whose label
// contains expected, case-insensitively.
func findChoice(choices []domain.Choice, expected string) (string, bool) {
	lowered := strings.ToLower(expected)
	for _, c := range choices {
		if strings.Contains(strings.ToLower(c.Label), lowered) {
			return c.Label, true
		}
	}
	return "", false
}
