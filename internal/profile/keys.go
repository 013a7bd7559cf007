package profile

import "regexp"

// Fixed attribute names. These are the profile entries the rule table
// resolves against; values are opaque strings even when numeric.
const (
	AttrPythonExperience   = "python_experience"
	AttrAnalysisExperience = "analysis_experience"
	AttrPhone              = "phone"
	AttrEmail              = "email"
	AttrCity               = "city"
	AttrAddress            = "address"
	AttrDesiredSalary      = "desired_salary"
	AttrWorkAuthorized     = "work_authorized"
	AttrSponsorship        = "sponsorship"
	AttrCommute            = "commute"
	AttrCommuteFallback    = "commute_fallback"
)

// DynamicKeyPrefix marks attributes derived from unrecognized question
// text rather than drawn from the fixed set above.
const DynamicKeyPrefix = "custom_"

const maxDerivedKeyLen = 20

var nonWord = regexp.MustCompile(`\W+`)

// DeriveKey converts free-form question text into a stable, config-safe
// slug: every maximal run of non-word characters becomes one underscore
// and the result is truncated to 20 runes. Deterministic, so repeated
// encounters of the same oddly-worded question reuse one persisted
// answer. Distinct long questions sharing a 20-rune prefix collide and
// share an entry; that trade keeps the keys human-readable.
func DeriveKey(questionText string) string {
	slug := nonWord.ReplaceAllString(questionText, "_")
	runes := []rune(slug)
	if len(runes) > maxDerivedKeyLen {
		runes = runes[:maxDerivedKeyLen]
	}
	return string(runes)
}

// DynamicKey returns the storage key for an unrecognized question
func DynamicKey(questionText string) string {
	return DynamicKeyPrefix + DeriveKey(questionText)
}
