package resolve

import (
	"strings"

	"github.com/applyforge/applyforge/internal/profile"
)

// RuleKind discriminates how a matched rule resolves
type RuleKind string

const (
	// RuleValue types a profile attribute's value into the control
	RuleValue RuleKind = "value"

	// RuleChoice activates the candidate whose label contains the
	// configured expected value
	RuleChoice RuleKind = "choice"
)

// Rule maps keyword containment in question text to a resolution. Every
// keyword must appear in the question (case-insensitive) for the rule
// to match.
type Rule struct {
	// Name identifies the category in logs
	Name string

	// Keywords that must all be contained in the question text
	Keywords []string

	// Kind selects typed-value or choice resolution
	Kind RuleKind

	// Attr is the profile attribute holding the typed value (RuleValue)
	// or the expected candidate phrasing (RuleChoice)
	Attr string

	// Prompt is shown when Attr has no stored value yet
	Prompt string

	// Caster canonicalizes the attribute value; nil means identity
	Caster profile.Caster

	// FallbackAttr optionally names a second expected phrasing tried
	// when no candidate contains the primary. RuleChoice only.
	FallbackAttr string

	// FallbackPrompt is shown when FallbackAttr has no stored value yet
	FallbackPrompt string
}

// Matches reports whether every keyword appears in the question
func (r Rule) Matches(question string) bool {
	if len(r.Keywords) == 0 {
		return false
	}
	q := strings.ToLower(question)
	for _, kw := range r.Keywords {
		if !strings.Contains(q, strings.ToLower(kw)) {
			return false
		}
	}
	return true
}

// DefaultRules returns the fixed category table shared by the site
// adapters. Order is priority order: the first matching rule wins and
// later rules are never consulted for the same question.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:     "python_experience",
			Keywords: []string{"python experience"},
			Kind:     RuleValue,
			Attr:     profile.AttrPythonExperience,
			Prompt:   "Years of Python experience",
			Caster:   profile.AsInt,
		},
		{
			Name:     "analysis_experience",
			Keywords: []string{"analysis experience"},
			Kind:     RuleValue,
			Attr:     profile.AttrAnalysisExperience,
			Prompt:   "Years of data analysis experience",
			Caster:   profile.AsInt,
		},
		{
			Name:     "phone",
			Keywords: []string{"phone"},
			Kind:     RuleValue,
			Attr:     profile.AttrPhone,
			Prompt:   "Phone number",
		},
		{
			Name:     "email",
			Keywords: []string{"email"},
			Kind:     RuleValue,
			Attr:     profile.AttrEmail,
			Prompt:   "Email address",
		},
		{
			Name:     "city",
			Keywords: []string{"city"},
			Kind:     RuleValue,
			Attr:     profile.AttrCity,
			Prompt:   "City of residence",
		},
		{
			Name:     "address",
			Keywords: []string{"address"},
			Kind:     RuleValue,
			Attr:     profile.AttrAddress,
			Prompt:   "Street address",
		},
		{
			Name:     "salary",
			Keywords: []string{"salary"},
			Kind:     RuleValue,
			Attr:     profile.AttrDesiredSalary,
			Prompt:   "Desired salary",
		},
		{
			Name:     "work_authorized",
			Keywords: []string{"authorized"},
			Kind:     RuleChoice,
			Attr:     profile.AttrWorkAuthorized,
			Prompt:   "Expected answer for work authorization questions (e.g. Yes)",
		},
		{
			Name:     "sponsorship",
			Keywords: []string{"sponsorship"},
			Kind:     RuleChoice,
			Attr:     profile.AttrSponsorship,
			Prompt:   "Expected answer for sponsorship questions (e.g. No)",
		},
		{
			Name:           "commute",
			Keywords:       []string{"commute"},
			Kind:           RuleChoice,
			Attr:           profile.AttrCommute,
			Prompt:         "Expected answer for commuting questions (e.g. Yes)",
			FallbackAttr:   profile.AttrCommuteFallback,
			FallbackPrompt: "Fallback answer for commuting questions (e.g. I will make the commute)",
		},
	}
}
