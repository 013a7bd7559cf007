package domain

// Common types used across the resolution engine and site adapters

// ControlRole classifies the kind of form control a question is bound to
type ControlRole string

const (
	RoleText         ControlRole = "text"
	RoleTextArea     ControlRole = "textarea"
	RoleSingleChoice ControlRole = "single-choice"
)

func (r ControlRole) IsValid() bool {
	switch r {
	case RoleText, RoleTextArea, RoleSingleChoice:
		return true
	}
	return false
}

// IsFreeText reports whether the control accepts typed text. Free-text
// answers are the only ones memoized under the exact question wording.
func (r ControlRole) IsFreeText() bool {
	return r == RoleText || r == RoleTextArea
}

// Choice is one selectable candidate of a single-choice control
type Choice struct {
	Label string `json:"label"`
}

// ControlDescriptor describes one interactive form control, supplied by
// the page-driving collaborator. The engine never touches a live page;
// it only sees this flat description.
type ControlDescriptor struct {
	Role    ControlRole `json:"role"`
	Label   string      `json:"label,omitempty"`
	Choices []Choice    `json:"choices,omitempty"`
}

// ActionKind discriminates the engine's answer actions
type ActionKind string

const (
	ActionTypeText     ActionKind = "type_text"
	ActionSelectChoice ActionKind = "select_choice"
	ActionSkip         ActionKind = "skip"
)

// Action is the engine's decision for a single question. TypeText carries
// the text to type; SelectChoice carries the exact label of the candidate
// to activate; Skip carries nothing.
type Action struct {
	Kind  ActionKind `json:"kind"`
	Value string     `json:"value,omitempty"`
}

// TypeText returns an action that types value into the question's control
func TypeText(value string) Action {
	return Action{Kind: ActionTypeText, Value: value}
}

// SelectChoice returns an action that activates the candidate with label
func SelectChoice(label string) Action {
	return Action{Kind: ActionSelectChoice, Value: label}
}

// Skip returns an action that leaves the question untouched
func Skip() Action {
	return Action{Kind: ActionSkip}
}

// IsSkip reports whether the action leaves the question untouched
func (a Action) IsSkip() bool {
	return a.Kind == ActionSkip
}

// StoredQuestionAnswer is one memoized free-text answer, keyed by the
// exact question wording it was given for
type StoredQuestionAnswer struct {
	Question string `json:"question" db:"question"`
	Answer   string `json:"answer" db:"answer"`
}

// ProfileAttribute is one persisted profile value, either a fixed named
// attribute or a derived custom_ key
type ProfileAttribute struct {
	Name  string `json:"name" db:"name"`
	Value string `json:"value" db:"value"`
}

// Site identifies a supported job board
type Site string

const (
	SiteLinkedIn Site = "linkedin"
	SiteIndeed   Site = "indeed"
)

func (s Site) IsValid() bool {
	switch s {
	case SiteLinkedIn, SiteIndeed:
		return true
	}
	return false
}

// ApplicationStatus is the terminal state of one application attempt
type ApplicationStatus string

const (
	StatusApplied ApplicationStatus = "Applied"
	StatusSkipped ApplicationStatus = "Skipped"
	StatusFailed  ApplicationStatus = "Failed"
)

// JobPosting describes one job card encountered during the search loop
type JobPosting struct {
	Company     string `json:"company"`
	Title       string `json:"title"`
	Location    string `json:"location,omitempty"`
	Level       string `json:"level,omitempty"`
	SalaryRange string `json:"salary_range,omitempty"`
	Link        string `json:"link"`
}

// ApplicationRecord is the finalized record handed to the tracking sink
// after an application attempt completes
type ApplicationRecord struct {
	Company     string            `json:"company"`
	Title       string            `json:"title"`
	Level       string            `json:"level,omitempty"`
	SalaryRange string            `json:"salary_range,omitempty"`
	Link        string            `json:"link"`
	Status      ApplicationStatus `json:"status"`
}

// RecordFor builds the tracking record for a finished attempt on job
func RecordFor(job JobPosting, status ApplicationStatus) ApplicationRecord {
	return ApplicationRecord{
		Company:     job.Company,
		Title:       job.Title,
		Level:       job.Level,
		SalaryRange: job.SalaryRange,
		Link:        job.Link,
		Status:      status,
	}
}
