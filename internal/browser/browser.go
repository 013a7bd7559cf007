package browser

import (
	"fmt"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"github.com/applyforge/applyforge/internal/config"
)

// Session owns a running Playwright instance with a single browser page.
// All site adapters drive the same page; nothing here is safe for
// concurrent use.
type Session struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page
	cfg     config.BrowserConfig
	logger  *zap.Logger
}

// NewSession starts Playwright and launches a Chromium page.
func NewSession(cfg config.BrowserConfig, logger *zap.Logger) (*Session, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("starting playwright: %w", err)
	}

	browserOpts := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.Headless),
	}
	if cfg.SlowMo > 0 {
		browserOpts.SlowMo = playwright.Float(float64(cfg.SlowMo.Milliseconds()))
	}

	browser, err := pw.Chromium.Launch(browserOpts)
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	ctxOpts := playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  cfg.ViewportWidth,
			Height: cfg.ViewportHeight,
		},
	}
	if cfg.UserAgent != "" {
		ctxOpts.UserAgent = playwright.String(cfg.UserAgent)
	}

	browserCtx, err := browser.NewContext(ctxOpts)
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("creating browser context: %w", err)
	}

	page, err := browserCtx.NewPage()
	if err != nil {
		browserCtx.Close()
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("creating page: %w", err)
	}

	return &Session{
		pw:      pw,
		browser: browser,
		context: browserCtx,
		page:    page,
		cfg:     cfg,
		logger:  logger,
	}, nil
}

// Page exposes the underlying page for adapter-specific locators.
func (s *Session) Page() playwright.Page {
	return s.page
}

// Close tears down the page, context, browser, and Playwright driver.
func (s *Session) Close() error {
	if s.page != nil {
		s.page.Close()
	}
	if s.context != nil {
		s.context.Close()
	}
	if s.browser != nil {
		s.browser.Close()
	}
	if s.pw != nil {
		return s.pw.Stop()
	}
	return nil
}

// Navigate loads a URL and waits for the DOM to be ready.
func (s *Session) Navigate(url string) error {
	s.logger.Debug("navigating", zap.String("url", url))

	if _, err := s.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(float64(s.cfg.NavigationTimeout.Milliseconds())),
	}); err != nil {
		return fmt.Errorf("navigating to %s: %w", url, err)
	}
	return nil
}

// WaitLoaded waits for the current page to settle. Slow single-page
// apps can miss the deadline and still be usable, so failures are
// logged and swallowed.
func (s *Session) WaitLoaded() {
	if err := s.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateNetworkidle,
		Timeout: playwright.Float(10000),
	}); err != nil {
		s.logger.Debug("wait for networkidle failed", zap.Error(err))
	}
}

// WaitVisible blocks until the selector is visible on the page.
func (s *Session) WaitVisible(selector string) error {
	if _, err := s.page.WaitForSelector(selector, playwright.PageWaitForSelectorOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(float64(s.cfg.ActionTimeout.Milliseconds())),
	}); err != nil {
		return fmt.Errorf("waiting for %s: %w", selector, err)
	}
	return nil
}

// Present reports whether the selector matches at least one element.
func (s *Session) Present(selector string) bool {
	count, _ := s.page.Locator(selector).Count()
	return count > 0
}

// Fill replaces the value of the first element matching the selector.
func (s *Session) Fill(selector, value string) error {
	if err := s.page.Locator(selector).First().Fill(value); err != nil {
		return fmt.Errorf("filling %s: %w", selector, err)
	}
	return nil
}

// Press sends a key to the first element matching the selector.
func (s *Session) Press(selector, key string) error {
	if err := s.page.Locator(selector).First().Press(key); err != nil {
		return fmt.Errorf("pressing %s on %s: %w", key, selector, err)
	}
	return nil
}

// Click clicks the first element matching the selector.
func (s *Session) Click(selector string) error {
	return s.ClickLocator(s.page.Locator(selector).First())
}

// ClickLocator clicks an element, falling back to a script-dispatched
// click when an overlay intercepts the pointer event.
func (s *Session) ClickLocator(loc playwright.Locator) error {
	loc.ScrollIntoViewIfNeeded()
	if err := loc.Click(playwright.LocatorClickOptions{
		Timeout: playwright.Float(float64(s.cfg.ActionTimeout.Milliseconds())),
	}); err == nil {
		return nil
	}
	if _, err := loc.Evaluate("el => el.click()", nil); err != nil {
		return fmt.Errorf("clicking element: %w", err)
	}
	return nil
}

// Text returns the trimmed text of the first element matching the
// selector, or "" when nothing matches.
func (s *Session) Text(selector string) string {
	return firstText(s.page.Locator(selector))
}

// Screenshot captures the full page as JPEG.
func (s *Session) Screenshot() ([]byte, error) {
	data, err := s.page.Screenshot(playwright.PageScreenshotOptions{
		FullPage: playwright.Bool(true),
		Type:     playwright.ScreenshotTypeJpeg,
		Quality:  playwright.Int(80),
	})
	if err != nil {
		return nil, fmt.Errorf("taking screenshot: %w", err)
	}
	return data, nil
}
