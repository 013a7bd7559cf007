package resolve

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/applyforge/applyforge/internal/domain"
	"github.com/applyforge/applyforge/internal/profile"
	"github.com/applyforge/applyforge/internal/prompt"
	"github.com/applyforge/applyforge/internal/store"
)

func setupEngine(t *testing.T, prompter prompt.Prompter) (*Engine, *store.Stores, *store.DB) {
	t.Helper()

	db, err := store.NewFromDSN(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	stores := store.NewStores(db)
	resolver := profile.NewResolver(stores.Profile, prompter, zap.NewNop())
	engine := NewEngine(DefaultRules(), stores.Answers, resolver, prompter, zap.NewNop())

	return engine, stores, db
}

func freeText(label string) domain.ControlDescriptor {
	return domain.ControlDescriptor{Role: domain.RoleText, Label: label}
}

func singleChoice(labels ...string) domain.ControlDescriptor {
	choices := make([]domain.Choice, len(labels))
	for i, l := range labels {
		choices[i] = domain.Choice{Label: l}
	}
	return domain.ControlDescriptor{Role: domain.RoleSingleChoice, Choices: choices}
}

func TestResolve_RuleValueFromProfile(t *testing.T) {
	prompter := prompt.NewScripted()
	engine, stores, _ := setupEngine(t, prompter)
	ctx := context.Background()

	require.NoError(t, stores.Profile.Put(ctx, profile.AttrPythonExperience, "5"))

	action, err := engine.Resolve(ctx, "Years of Python experience", freeText("Years of Python experience"))
	require.NoError(t, err)
	assert.Equal(t, domain.TypeText("5"), action)

	// Neither the prompt nor the answer store was touched.
	assert.Equal(t, 0, prompter.AskCount())
	answers, err := stores.Answers.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, answers)
}

func TestResolve_FirstMatchingRuleWins(t *testing.T) {
	prompter := prompt.NewScripted()
	engine, stores, _ := setupEngine(t, prompter)
	ctx := context.Background()

	require.NoError(t, stores.Profile.Put(ctx, profile.AttrPythonExperience, "3"))
	require.NoError(t, stores.Profile.Put(ctx, profile.AttrAnalysisExperience, "6"))

	// Matches both the python and analysis categories; the earlier rule
	// resolves it and the later one is never consulted.
	question := "Years of Python experience and data analysis experience"
	action, err := engine.Resolve(ctx, question, freeText(question))
	require.NoError(t, err)
	assert.Equal(t, domain.TypeText("3"), action)
}

func TestResolve_RuleMatchIsCaseInsensitive(t *testing.T) {
	prompter := prompt.NewScripted()
	engine, stores, _ := setupEngine(t, prompter)
	ctx := context.Background()

	require.NoError(t, stores.Profile.Put(ctx, profile.AttrPhone, "555-0147"))

	action, err := engine.Resolve(ctx, "PHONE NUMBER", freeText("PHONE NUMBER"))
	require.NoError(t, err)
	assert.Equal(t, domain.TypeText("555-0147"), action)
}

func TestResolve_TrimsQuestionText(t *testing.T) {
	prompter := prompt.NewScripted("I rebuilt the reporting pipeline")
	engine, stores, _ := setupEngine(t, prompter)
	ctx := context.Background()

	_, err := engine.Resolve(ctx, "  Describe a recent challenge  ", freeText(""))
	require.NoError(t, err)

	// The store key is the trimmed wording.
	answer, found, err := stores.Answers.Get(ctx, "Describe a recent challenge")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "I rebuilt the reporting pipeline", answer)
}

func TestResolve_FreeTextPromptsOnceThenCached(t *testing.T) {
	prompter := prompt.NewScripted("Shipped the warehouse migration")
	engine, _, _ := setupEngine(t, prompter)
	ctx := context.Background()

	question := "Please describe your favorite achievement"

	action, err := engine.Resolve(ctx, question, freeText(question))
	require.NoError(t, err)
	assert.Equal(t, domain.TypeText("Shipped the warehouse migration"), action)
	assert.Equal(t, 1, prompter.AskCount())

	// Identical wording hits the store; the exhausted prompter would
	// fail if it were consulted again.
	action, err = engine.Resolve(ctx, question, freeText(question))
	require.NoError(t, err)
	assert.Equal(t, domain.TypeText("Shipped the warehouse migration"), action)
	assert.Equal(t, 1, prompter.AskCount())
}

func TestResolve_PunctuationVariantIsFreshQuestion(t *testing.T) {
	prompter := prompt.NewScripted("first", "second")
	engine, _, _ := setupEngine(t, prompter)
	ctx := context.Background()

	action, err := engine.Resolve(ctx, "Why this role", freeText(""))
	require.NoError(t, err)
	assert.Equal(t, domain.TypeText("first"), action)

	// Trailing punctuation makes a distinct key, so this prompts again.
	action, err = engine.Resolve(ctx, "Why this role?", freeText(""))
	require.NoError(t, err)
	assert.Equal(t, domain.TypeText("second"), action)
	assert.Equal(t, 2, prompter.AskCount())
}

func TestResolve_ChoiceSelectsContainingCandidate(t *testing.T) {
	prompter := prompt.NewScripted()
	engine, stores, _ := setupEngine(t, prompter)
	ctx := context.Background()

	require.NoError(t, stores.Profile.Put(ctx, profile.AttrWorkAuthorized, "Yes"))

	action, err := engine.Resolve(ctx, "Are you authorized to work in the US?", singleChoice("Yes", "No"))
	require.NoError(t, err)
	assert.Equal(t, domain.SelectChoice("Yes"), action)
}

func TestResolve_ChoiceReturnsExactCandidateLabel(t *testing.T) {
	prompter := prompt.NewScripted()
	engine, stores, _ := setupEngine(t, prompter)
	ctx := context.Background()

	require.NoError(t, stores.Profile.Put(ctx, profile.AttrWorkAuthorized, "Yes"))

	action, err := engine.Resolve(ctx, "Are you authorized to work in the US?",
		singleChoice("Yes, I am authorized", "No, I am not"))
	require.NoError(t, err)
	assert.Equal(t, domain.SelectChoice("Yes, I am authorized"), action)
}

func TestResolve_ChoiceWithoutContainmentSkips(t *testing.T) {
	prompter := prompt.NewScripted()
	engine, stores, _ := setupEngine(t, prompter)
	ctx := context.Background()

	require.NoError(t, stores.Profile.Put(ctx, profile.AttrWorkAuthorized, "Yes"))

	// Neither "Y" nor "N" contains "Yes": reported, never fatal.
	action, err := engine.Resolve(ctx, "Are you authorized to work in the US?", singleChoice("Y", "N"))
	require.NoError(t, err)
	assert.True(t, action.IsSkip())
}

func TestResolve_ChoiceExpectedValuePromptedLazily(t *testing.T) {
	prompter := prompt.NewScripted("Yes")
	engine, _, _ := setupEngine(t, prompter)
	ctx := context.Background()

	action, err := engine.Resolve(ctx, "Are you authorized to work in the US?", singleChoice("Yes", "No"))
	require.NoError(t, err)
	assert.Equal(t, domain.SelectChoice("Yes"), action)
	assert.Equal(t, 1, prompter.AskCount())

	// A differently worded question in the same category reuses the
	// stored expected value.
	action, err = engine.Resolve(ctx, "Are you legally authorized to work?", singleChoice("Yes", "No"))
	require.NoError(t, err)
	assert.Equal(t, domain.SelectChoice("Yes"), action)
	assert.Equal(t, 1, prompter.AskCount())
}

func TestResolve_CommuteFallsBackToSecondaryPhrasing(t *testing.T) {
	prompter := prompt.NewScripted()
	engine, stores, _ := setupEngine(t, prompter)
	ctx := context.Background()

	require.NoError(t, stores.Profile.Put(ctx, profile.AttrCommute, "Yes"))
	require.NoError(t, stores.Profile.Put(ctx, profile.AttrCommuteFallback, "I will make the commute"))

	action, err := engine.Resolve(ctx, "Are you able to commute to this office?",
		singleChoice("I will make the commute", "I need relocation assistance"))
	require.NoError(t, err)
	assert.Equal(t, domain.SelectChoice("I will make the commute"), action)
}

func TestResolve_CommutePrimaryShortCircuitsFallback(t *testing.T) {
	// Only the primary phrasing is stored; consulting the fallback
	// would hit the exhausted prompter and fail.
	prompter := prompt.NewScripted()
	engine, stores, _ := setupEngine(t, prompter)
	ctx := context.Background()

	require.NoError(t, stores.Profile.Put(ctx, profile.AttrCommute, "Yes"))

	action, err := engine.Resolve(ctx, "Can you commute to this location?", singleChoice("Yes", "No"))
	require.NoError(t, err)
	assert.Equal(t, domain.SelectChoice("Yes"), action)
}

func TestResolve_DynamicChoiceStoresUnderDerivedKey(t *testing.T) {
	prompter := prompt.NewScripted("They")
	engine, stores, _ := setupEngine(t, prompter)
	ctx := context.Background()

	action, err := engine.Resolve(ctx, "Preferred pronouns?",
		singleChoice("She/her", "He/him", "They/them"))
	require.NoError(t, err)
	assert.Equal(t, domain.SelectChoice("They/them"), action)

	stored, found, err := stores.Profile.Get(ctx, "custom_Preferred_pronouns_")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "They", stored)

	// Repeat encounter reuses the stored value without prompting.
	action, err = engine.Resolve(ctx, "Preferred pronouns?",
		singleChoice("She/her", "He/him", "They/them"))
	require.NoError(t, err)
	assert.Equal(t, domain.SelectChoice("They/them"), action)
	assert.Equal(t, 1, prompter.AskCount())
}

func TestResolve_DynamicChoiceWithoutContainmentSkips(t *testing.T) {
	prompter := prompt.NewScripted("Purple")
	engine, _, _ := setupEngine(t, prompter)
	ctx := context.Background()

	action, err := engine.Resolve(ctx, "Shirt size?", singleChoice("S", "M", "L"))
	require.NoError(t, err)
	assert.True(t, action.IsSkip())
}

func TestResolve_EmptyQuestionSkips(t *testing.T) {
	prompter := prompt.NewScripted()
	engine, _, _ := setupEngine(t, prompter)
	ctx := context.Background()

	for _, question := range []string{"", "   ", "\n\t"} {
		action, err := engine.Resolve(ctx, question, freeText(""))
		require.NoError(t, err)
		assert.True(t, action.IsSkip())
	}
	assert.Equal(t, 0, prompter.AskCount())
}

func TestResolve_StoreUnavailablePropagates(t *testing.T) {
	prompter := prompt.NewScripted("unused")
	engine, _, db := setupEngine(t, prompter)
	ctx := context.Background()

	require.NoError(t, db.Close())

	_, err := engine.Resolve(ctx, "Tell us about yourself", freeText(""))
	require.Error(t, err)
	assert.True(t, domain.IsStoreUnavailable(err))
}

func TestResolve_PromptAbortedPropagates(t *testing.T) {
	prompter := prompt.NewScripted()
	engine, stores, _ := setupEngine(t, prompter)
	ctx := context.Background()

	_, err := engine.Resolve(ctx, "Tell us about yourself", freeText(""))
	require.Error(t, err)
	assert.True(t, domain.IsPromptAborted(err))

	// Nothing was persisted for the aborted question.
	answers, err := stores.Answers.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, answers)
}
