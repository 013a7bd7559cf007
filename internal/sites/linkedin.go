package sites

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/applyforge/applyforge/internal/config"
	"github.com/applyforge/applyforge/internal/domain"
	"github.com/applyforge/applyforge/internal/prompt"
)

const (
	linkedinLoginURL = "https://www.linkedin.com/login"
	linkedinJobsURL  = "https://www.linkedin.com/jobs/"

	linkedinUserSel      = "#username"
	linkedinPassSel      = "#password"
	linkedinTwoFactorSel = `input[placeholder*="Verification code"]`
	linkedinFeedSel      = `a[href*="/feed/"]`

	// Search boxes are located fuzzily; these are the placeholder
	// texts as currently rendered.
	linkedinKeywordBox  = "Search jobs"
	linkedinLocationBox = "City, state, or zip code"

	linkedinCardSel        = `ul[class*="jobs-search-results__list"] > li`
	linkedinTitleSel       = `div[class*="jobs-unified-top-card"] h1, h1`
	linkedinCompanySel     = `[class*="company-name"]`
	linkedinLocationSel    = `span[class*="bullet"]`
	linkedinDescriptionSel = `div.jobs-box__html-content`
	linkedinApplySel       = `button[class*="jobs-apply-button"]`
	linkedinModalSel       = `div[class*="jobs-easy-apply-modal"]`
	linkedinGroupSel       = `div[class*="jobs-easy-apply-form-section__group"]`
	linkedinDismissSel     = `button[aria-label="Dismiss"]`
)

// LinkedIn applies to Easy Apply jobs on linkedin.com.
type LinkedIn struct {
	deps Deps
}

// NewLinkedIn creates the LinkedIn adapter.
func NewLinkedIn(deps Deps) *LinkedIn {
	return &LinkedIn{deps: deps}
}

// Site returns the site this adapter drives.
func (a *LinkedIn) Site() domain.Site {
	return domain.SiteLinkedIn
}

// Login signs in with the configured credentials, completing a
// verification-code challenge through the terminal when one appears.
func (a *LinkedIn) Login(ctx context.Context) error {
	s := a.deps.Session

	if err := s.Navigate(linkedinLoginURL); err != nil {
		return domain.BrowserError("open login page", err)
	}
	if err := s.Fill(linkedinUserSel, a.deps.Creds.Email); err != nil {
		return domain.BrowserError("fill email", err)
	}
	if err := s.Fill(linkedinPassSel, a.deps.Creds.Password); err != nil {
		return domain.BrowserError("fill password", err)
	}
	if err := s.Press(linkedinPassSel, "Enter"); err != nil {
		return domain.BrowserError("submit login", err)
	}
	s.WaitLoaded()

	if s.Present(linkedinTwoFactorSel) {
		code, err := a.deps.Prompter.AskSecret(ctx, prompt.Question{
			Message: "Enter the LinkedIn verification code sent to your device",
		})
		if err != nil {
			return err
		}
		if err := s.Fill(linkedinTwoFactorSel, code); err != nil {
			return domain.BrowserError("fill verification code", err)
		}
		if err := s.Press(linkedinTwoFactorSel, "Enter"); err != nil {
			return domain.BrowserError("submit verification code", err)
		}
		s.WaitLoaded()
	}

	if !s.Present(linkedinFeedSel) {
		return domain.LoginFailedError(string(domain.SiteLinkedIn),
			fmt.Errorf("feed link not visible after sign-in"))
	}

	a.deps.Logger.Info("logged in", zap.String("site", string(domain.SiteLinkedIn)))
	return nil
}

// Search opens the jobs page and runs the configured query.
func (a *LinkedIn) Search(ctx context.Context, query config.SearchConfig) error {
	s := a.deps.Session

	if err := s.Navigate(linkedinJobsURL); err != nil {
		return domain.BrowserError("open jobs page", err)
	}
	s.WaitLoaded()

	if err := s.FillFuzzy(linkedinKeywordBox, query.Title); err != nil {
		return err
	}
	if err := s.FillFuzzy(linkedinLocationBox, query.Location); err != nil {
		return err
	}
	if err := s.PressFuzzy(linkedinLocationBox, "Enter"); err != nil {
		return err
	}
	s.WaitLoaded()

	a.deps.Logger.Info("search submitted",
		zap.String("site", string(domain.SiteLinkedIn)),
		zap.String("title", query.Title),
		zap.String("location", query.Location))
	return nil
}

// JobCount reports how many result cards the current page lists.
func (a *LinkedIn) JobCount() (int, error) {
	count, err := a.deps.Session.Page().Locator(linkedinCardSel).Count()
	if err != nil {
		return 0, domain.BrowserError("count job cards", err)
	}
	return count, nil
}

// Apply opens the indexed result card and walks the Easy Apply dialog.
// Jobs without an Easy Apply button are skipped.
func (a *LinkedIn) Apply(ctx context.Context, index int) (domain.JobPosting, domain.ApplicationStatus, error) {
	var posting domain.JobPosting
	s := a.deps.Session

	cards := s.Page().Locator(linkedinCardSel)
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

	if !s.Present(linkedinApplySel) {
		a.deps.Logger.Info("no easy apply button",
			zap.String("company", posting.Company),
			zap.String("title", posting.Title))
		return posting, domain.StatusSkipped, nil
	}

	if err := s.Click(linkedinApplySel); err != nil {
		return posting, domain.StatusFailed, domain.BrowserError("open application dialog", err)
	}
	s.WaitLoaded()

	status, err := a.completeApplication(ctx)
	return posting, status, err
}

// readPosting scrapes the job details pane for tracker fields.
func (a *LinkedIn) readPosting() domain.JobPosting {
	s := a.deps.Session

	description := s.Text(linkedinDescriptionSel)
	return domain.JobPosting{
		Company:     s.Text(linkedinCompanySel),
		Title:       s.Text(linkedinTitleSel),
		Location:    s.Text(linkedinLocationSel),
		Level:       extractLevel(description),
		SalaryRange: extractSalaryRange(description),
		Link:        s.Page().URL(),
	}
}

// completeApplication answers each step of the Easy Apply dialog until
// the application is submitted or the step budget runs out.
func (a *LinkedIn) completeApplication(ctx context.Context) (domain.ApplicationStatus, error) {
	s := a.deps.Session
	modal := s.Page().Locator(linkedinModalSel).First()

	for step := 0; step < maxWizardSteps; step++ {
		if !s.Present(linkedinModalSel) {
			return domain.StatusApplied, nil
		}

		if err := fillQuestionGroups(ctx, a.deps, modal.Locator(linkedinGroupSel)); err != nil {
			return domain.StatusFailed, err
		}
		attachResume(a.deps, modal)

		matched, err := clickButtonContaining(a.deps, modal,
			"submit application", "review", "next", "continue")
		if err != nil {
			return domain.StatusFailed, domain.BrowserError("advance application dialog", err)
		}
		if matched == "" {
			return domain.StatusFailed, domain.BrowserError("advance application dialog",
				fmt.Errorf("no actionable button in dialog"))
		}
		s.WaitLoaded()

		if matched == "submit application" {
			if s.Present(linkedinDismissSel) {
				s.Click(linkedinDismissSel)
			}
			return domain.StatusApplied, nil
		}
	}

	return domain.StatusFailed, domain.BrowserError("complete application",
		fmt.Errorf("dialog still open after %d steps", maxWizardSteps))
}
