package sites

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"github.com/applyforge/applyforge/internal/browser"
	"github.com/applyforge/applyforge/internal/config"
	"github.com/applyforge/applyforge/internal/domain"
	"github.com/applyforge/applyforge/internal/prompt"
	"github.com/applyforge/applyforge/internal/resolve"
)

// maxWizardSteps bounds the apply dialog walk so a validation loop on
// one step cannot hang the run.
const maxWizardSteps = 10

// Adapter drives one job board: log in, run a search, and submit
// applications for the listed jobs.
type Adapter interface {
	Site() domain.Site
	Login(ctx context.Context) error
	Search(ctx context.Context, query config.SearchConfig) error
	JobCount() (int, error)
	Apply(ctx context.Context, index int) (domain.JobPosting, domain.ApplicationStatus, error)
}

// Deps carries everything an adapter needs to operate.
type Deps struct {
	Session  *browser.Session
	Engine   *resolve.Engine
	Prompter prompt.Prompter
	Logger   *zap.Logger
	Creds    config.SiteCredentials
	Resume   string
}

// New builds the adapter for a site.
func New(site domain.Site, deps Deps) (Adapter, error) {
	switch site {
	case domain.SiteLinkedIn:
		return NewLinkedIn(deps), nil
	case domain.SiteIndeed:
		return NewIndeed(deps), nil
	}
	return nil, domain.ValidationError("site", fmt.Sprintf("unsupported site %q", site))
}

// fillQuestionGroups resolves and answers every question group in an
// apply dialog. Groups without a recognizable control are passed over;
// resolution errors abort the application so the caller can decide
// whether the whole run should stop.
func fillQuestionGroups(ctx context.Context, deps Deps, groups playwright.Locator) error {
	count, err := groups.Count()
	if err != nil {
		return fmt.Errorf("listing question groups: %w", err)
	}

	for i := 0; i < count; i++ {
		control, err := browser.DescribeControl(groups.Nth(i))
		if err != nil {
			deps.Logger.Debug("unrecognized question group", zap.Int("index", i), zap.Error(err))
			continue
		}

		action, err := deps.Engine.Resolve(ctx, control.Descriptor.Label, control.Descriptor)
		if err != nil {
			return err
		}
		if action.IsSkip() {
			continue
		}

		if err := control.Apply(deps.Session, action); err != nil {
			return domain.BrowserError("answer question", err)
		}
		deps.Logger.Debug("answered question",
			zap.String("question", control.Descriptor.Label),
			zap.String("action", string(action.Kind)))
	}

	return nil
}

// attachResume uploads the configured resume into a file input inside
// the scope, when both exist. Most boards pre-attach the profile
// resume, so a missing input is not an error.
func attachResume(deps Deps, scope playwright.Locator) {
	if deps.Resume == "" {
		return
	}

	input := scope.Locator(`input[type="file"]`)
	if count, _ := input.Count(); count == 0 {
		return
	}

	path, err := filepath.Abs(deps.Resume)
	if err != nil {
		deps.Logger.Warn("resolving resume path", zap.String("path", deps.Resume), zap.Error(err))
		return
	}
	if err := input.First().SetInputFiles(path); err != nil {
		deps.Logger.Warn("attaching resume", zap.String("path", path), zap.Error(err))
		return
	}
	deps.Logger.Debug("attached resume", zap.String("path", path))
}

// clickButtonContaining clicks the first button in scope whose text
// contains one of the wanted substrings, checked in priority order.
// It returns the matched substring, or "" when no button matched.
func clickButtonContaining(deps Deps, scope playwright.Locator, wanted ...string) (string, error) {
	buttons := scope.Locator("button")
	count, err := buttons.Count()
	if err != nil {
		return "", fmt.Errorf("listing buttons: %w", err)
	}

	texts := make([]string, count)
	for i := 0; i < count; i++ {
		text, err := buttons.Nth(i).InnerText()
		if err != nil {
			continue
		}
		texts[i] = strings.ToLower(strings.TrimSpace(text))
	}

	for _, want := range wanted {
		for i, text := range texts {
			if strings.Contains(text, want) {
				if err := deps.Session.ClickLocator(buttons.Nth(i)); err != nil {
					return "", err
				}
				return want, nil
			}
		}
	}
	return "", nil
}
