package sites

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/applyforge/applyforge/internal/config"
	"github.com/applyforge/applyforge/internal/domain"
)

const (
	indeedLoginURL = "https://secure.indeed.com/account/login"
	indeedJobsURL  = "https://www.indeed.com/jobs"

	indeedUserSel    = "#login-email-input"
	indeedPassSel    = "#login-password-input"
	indeedAccountSel = "#userOptionsLabel"

	indeedKeywordBox  = "Job title, keywords, or company"
	indeedLocationBox = "City, state, or zip code"

	indeedCardSel        = "a.tapItem"
	indeedTitleSel       = "h1"
	indeedCompanySel     = `[data-testid*="companyName"], [class*="company-name"]`
	indeedLocationSel    = `[data-testid*="companyLocation"]`
	indeedDescriptionSel = "#jobDescriptionText"
	indeedModalSel       = `div[class*="indeed-apply-modal"]`
	indeedGroupSel       = `div[class*="indeed-apply-form-section"]`
)

// Indeed applies to Indeed Apply jobs on indeed.com.
type Indeed struct {
	deps Deps
}

// NewIndeed creates the Indeed adapter.
func NewIndeed(deps Deps) *Indeed {
	return &Indeed{deps: deps}
}

// Site returns the site this adapter drives.
func (a *Indeed) Site() domain.Site {
	return domain.SiteIndeed
}

// Login signs in with the configured credentials.
func (a *Indeed) Login(ctx context.Context) error {
	s := a.deps.Session

	if err := s.Navigate(indeedLoginURL); err != nil {
		return domain.BrowserError("open login page", err)
	}
	if err := s.Fill(indeedUserSel, a.deps.Creds.Email); err != nil {
		return domain.BrowserError("fill email", err)
	}
	if err := s.Fill(indeedPassSel, a.deps.Creds.Password); err != nil {
		return domain.BrowserError("fill password", err)
	}
	if err := s.Press(indeedPassSel, "Enter"); err != nil {
		return domain.BrowserError("submit login", err)
	}
	s.WaitLoaded()

	if !s.Present(indeedAccountSel) {
		return domain.LoginFailedError(string(domain.SiteIndeed),
			fmt.Errorf("account menu not visible after sign-in"))
	}

	a.deps.Logger.Info("logged in", zap.String("site", string(domain.SiteIndeed)))
	return nil
}

// Search opens the jobs page and runs the configured query.
func (a *Indeed) Search(ctx context.Context, query config.SearchConfig) error {
	s := a.deps.Session

	if err := s.Navigate(indeedJobsURL); err != nil {
		return domain.BrowserError("open jobs page", err)
	}
	s.WaitLoaded()

	if err := s.FillFuzzy(indeedKeywordBox, query.Title); err != nil {
		return err
	}
	if err := s.FillFuzzy(indeedLocationBox, query.Location); err != nil {
		return err
	}
	if err := s.PressFuzzy(indeedLocationBox, "Enter"); err != nil {
		return err
	}
	s.WaitLoaded()

	a.deps.Logger.Info("search submitted",
		zap.String("site", string(domain.SiteIndeed)),
		zap.String("title", query.Title),
		zap.String("location", query.Location))
	return nil
}

// JobCount reports how many result cards the current page lists.
func (a *Indeed) JobCount() (int, error) {
	count, err := a.deps.Session.Page().Locator(indeedCardSel).Count()
	if err != nil {
		return 0, domain.BrowserError("count job cards", err)
	}
	return count, nil
}

// Apply opens the indexed result card and walks the Indeed Apply
// dialog. Jobs that route to an external site are skipped.
func (a *Indeed) Apply(ctx context.Context, index int) (domain.JobPosting, domain.ApplicationStatus, error) {
	var posting domain.JobPosting
	s := a.deps.Session

	cards := s.Page().Locator(indeedCardSel)
	count, err := cards.Count()
	if err != nil {
		return posting, domain.StatusFailed, domain.BrowserError("list job cards", err)
	}
	if index >= count {
		return posting, domain.StatusFailed, domain.NotFoundError("job card", index)
	}

	if err := s.ClickLocator(cards.Nth(index)); err != nil {
		return posting, domain.StatusFailed, domain.BrowserError("open job card", err)
	}
	s.WaitLoaded()

	posting = a.readPosting()

	matched, err := clickButtonContaining(a.deps, s.Page().Locator("body"), "apply now")
	if err != nil {
		return posting, domain.StatusFailed, domain.BrowserError("open application dialog", err)
	}
	if matched == "" {
		a.deps.Logger.Info("no indeed apply button",
			zap.String("company", posting.Company),
			zap.String("title", posting.Title))
		return posting, domain.StatusSkipped, nil
	}
	s.WaitLoaded()

	status, err := a.completeApplication(ctx)
	return posting, status, err
}

// readPosting scrapes the job details pane for tracker fields.
func (a *Indeed) readPosting() domain.JobPosting {
	s := a.deps.Session

	description := s.Text(indeedDescriptionSel)
	return domain.JobPosting{
		Company:     s.Text(indeedCompanySel),
		Title:       s.Text(indeedTitleSel),
		Location:    s.Text(indeedLocationSel),
		Level:       extractLevel(description),
		SalaryRange: extractSalaryRange(description),
		Link:        s.Page().URL(),
	}
}

// completeApplication answers each step of the apply dialog until the
// application is submitted or the step budget runs out.
func (a *Indeed) completeApplication(ctx context.Context) (domain.ApplicationStatus, error) {
	s := a.deps.Session
	modal := s.Page().Locator(indeedModalSel).First()

	for step := 0; step < maxWizardSteps; step++ {
		if !s.Present(indeedModalSel) {
			return domain.StatusApplied, nil
		}

		if err := fillQuestionGroups(ctx, a.deps, modal.Locator(indeedGroupSel)); err != nil {
			return domain.StatusFailed, err
		}
		attachResume(a.deps, modal)

		matched, err := clickButtonContaining(a.deps, modal, "submit", "review", "continue")
		if err != nil {
			return domain.StatusFailed, domain.BrowserError("advance application dialog", err)
		}
		if matched == "" {
			return domain.StatusFailed, domain.BrowserError("advance application dialog",
				fmt.Errorf("no actionable button in dialog"))
		}
		s.WaitLoaded()

		if matched == "submit" {
			return domain.StatusApplied, nil
		}
	}

	return domain.StatusFailed, domain.BrowserError("complete application",
		fmt.Errorf("dialog still open after %d steps", maxWizardSteps))
}
