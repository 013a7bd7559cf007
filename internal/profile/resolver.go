// Package profile resolves user profile attributes. Values are persisted
// across runs and collected lazily: the first access to a missing
// attribute prompts the operator, and the raw response is committed
// before the call returns. The resolver is an explicit object handed to
// whoever needs it; nothing is loaded at package init.
package profile

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/applyforge/applyforge/internal/prompt"
)

// Caster converts a stored string into the canonical form a caller
// wants. Stored values are always user-authored, so casting is
// best-effort: a failure falls back to the raw string instead of
// failing the lookup.
type Caster func(value string) (string, error)

// Identity returns the value unchanged
func Identity(value string) (string, error) {
	return value, nil
}

// AsInt canonicalizes the value as a base-10 integer
func AsInt(value string) (string, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return "", fmt.Errorf("parsing %q as integer: %w", value, err)
	}
	return strconv.Itoa(n), nil
}

// AsFloat canonicalizes the value as a decimal number
func AsFloat(value string) (string, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return "", fmt.Errorf("parsing %q as number: %w", value, err)
	}
	return strconv.FormatFloat(f, 'f', -1, 64), nil
}

// AttributeStore is the persistence the resolver reads and writes.
// *store.ProfileStore satisfies it.
type AttributeStore interface {
	Get(ctx context.Context, name string) (value string, found bool, err error)
	Put(ctx context.Context, name, value string) error
}

// Resolver answers attribute lookups, prompting on first access
type Resolver struct {
	store    AttributeStore
	prompter prompt.Prompter
	logger   *zap.Logger
}

// NewResolver creates a profile resolver
func NewResolver(store AttributeStore, prompter prompt.Prompter, logger *zap.Logger) *Resolver {
	return &Resolver{
		store:    store,
		prompter: prompter,
		logger:   logger,
	}
}

// GetOrPrompt returns the attribute value for key, asking the operator
// and persisting the response if no value is stored yet. The raw
// response is committed before the cast value is returned, so an
// aborted run never loses an answer the operator already typed.
func (r *Resolver) GetOrPrompt(ctx context.Context, key, promptText string, caster Caster) (string, error) {
	if caster == nil {
		caster = Identity
	}

	stored, found, err := r.store.Get(ctx, key)
	if err != nil {
		return "", err
	}
	if found {
		return r.cast(key, stored, caster), nil
	}

	answer, err := r.prompter.Ask(ctx, prompt.Question{Message: promptText})
	if err != nil {
		return "", err
	}

	if err := r.store.Put(ctx, key, answer); err != nil {
		return "", err
	}
	r.logger.Info("stored new profile attribute", zap.String("key", key))

	return r.cast(key, answer, caster), nil
}

func (r *Resolver) cast(key, value string, caster Caster) string {
	cast, err := caster(value)
	if err != nil {
		r.logger.Debug("cast failed, using raw value",
			zap.String("key", key),
			zap.Error(err))
		return value
	}
	return cast
}
