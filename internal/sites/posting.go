package sites

import (
	"regexp"
	"strings"
)

// salaryPattern picks up dollar figures and ranges the way boards
// print them: "$85,000 - $105,000", "$45/hr", "$90K".
var salaryPattern = regexp.MustCompile(`\$[0-9][0-9,.]*\s*[KkMm]?(?:\s*(?:-|–|to)\s*\$?[0-9][0-9,.]*\s*[KkMm]?)?(?:\s*(?:per\s+|/\s*)(?:yr|year|hr|hour|mo|month))?`)

// seniorityLevels is ordered from most to least specific so that
// "senior" does not swallow "mid-senior level".
var seniorityLevels = []string{
	"Mid-Senior Level",
	"Entry Level",
	"Internship",
	"Associate",
	"Director",
	"Executive",
	"Senior",
}

// extractSalaryRange returns the first salary figure mentioned in the
// job description, or "" when none is advertised.
func extractSalaryRange(description string) string {
	return strings.TrimSpace(salaryPattern.FindString(description))
}

// extractLevel returns the seniority level mentioned in the job
// description, or "" when none is stated.
func extractLevel(description string) string {
	lower := strings.ToLower(description)
	for _, level := range seniorityLevels {
		if strings.Contains(lower, strings.ToLower(level)) {
			return level
		}
	}
	return ""
}
