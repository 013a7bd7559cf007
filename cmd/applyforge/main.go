package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/applyforge/applyforge/internal/browser"
	"github.com/applyforge/applyforge/internal/config"
	"github.com/applyforge/applyforge/internal/domain"
	"github.com/applyforge/applyforge/internal/profile"
	"github.com/applyforge/applyforge/internal/prompt"
	"github.com/applyforge/applyforge/internal/resolve"
	"github.com/applyforge/applyforge/internal/runner"
	"github.com/applyforge/applyforge/internal/sites"
	"github.com/applyforge/applyforge/internal/storage"
	"github.com/applyforge/applyforge/internal/store"
	"github.com/applyforge/applyforge/internal/tracker"
)

var (
	green  = color.New(color.FgGreen, color.Bold)
	red    = color.New(color.FgRed, color.Bold)
	yellow = color.New(color.FgYellow, color.Bold)
	cyan   = color.New(color.FgCyan, color.Bold)
	bold   = color.New(color.Bold)
	dim    = color.New(color.Faint)
)

func main() {
	godotenv.Load()

	// Flags
	site := flag.String("site", "linkedin", "Job board to apply on (linkedin, indeed)")
	title := flag.String("title", "", "Job title to search for (overrides SEARCH_TITLE)")
	location := flag.String("location", "", "Location to search in (overrides SEARCH_LOCATION)")
	resume := flag.String("resume", "", "Resume to attach (overrides SEARCH_RESUME)")
	maxApps := flag.Int("max", 0, "Application cap for this run (overrides RUNNER_MAX_APPLICATIONS)")
	headless := flag.Bool("headless", false, "Run the browser headless")
	debug := flag.Bool("debug", false, "Verbose logging to the console")
	dryRun := flag.Bool("dry-run", false, "Log in and search, but do not apply")

	flag.Parse()

	// Setup logger. Quiet runs log to a file so prompts and progress
	// output stay readable.
	var logger *zap.Logger
	if *debug {
		logger, _ = zap.NewDevelopment()
	} else {
		zapCfg := zap.NewProductionConfig()
		zapCfg.OutputPaths = []string{"applyforge.log"}
		logger, _ = zapCfg.Build()
	}
	defer logger.Sync()

	printBanner()

	cfg, err := config.Load()
	if err != nil {
		red.Printf("❌ Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// Flags beat the environment when given explicitly
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "title":
			cfg.Search.Title = *title
		case "location":
			cfg.Search.Location = *location
		case "resume":
			cfg.Search.Resume = *resume
		case "max":
			cfg.Runner.MaxApplications = *maxApps
		case "headless":
			cfg.Browser.Headless = *headless
		}
	})

	if err := cfg.ValidateSite(*site); err != nil {
		red.Printf("❌ %v\n", err)
		dim.Println("   Add the credentials to .env or set the environment variables")
		os.Exit(1)
	}

	ctx := context.Background()
	startTime := time.Now()

	fmt.Printf("🎯 Site:    %s\n", *site)
	fmt.Printf("🔍 Search:  %s in %s\n", cfg.Search.Title, cfg.Search.Location)
	fmt.Printf("📄 Resume:  %s\n", cfg.Search.Resume)
	fmt.Printf("💾 Answers: %s\n", cfg.Store.Path)

	//==========================================================================
	// STEP 1: ANSWER STORE
	//==========================================================================
	printStep(1, "Answer Store", fmt.Sprintf("Opening %s", cfg.Store.Path))

	db, err := store.New(cfg.Store)
	if err != nil {
		red.Printf("   ❌ Opening the answer store failed: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()
	stores := store.NewStores(db)

	savedAnswers, _ := stores.Answers.List(ctx)
	savedAttrs, _ := stores.Profile.List(ctx)
	green.Printf("   ✓ Store ready (%d saved answers, %d profile attributes)\n",
		len(savedAnswers), len(savedAttrs))

	//==========================================================================
	// STEP 2: BROWSER
	//==========================================================================
	printStep(2, "Browser", "Launching Chromium...")

	session, err := browser.NewSession(cfg.Browser, logger)
	if err != nil {
		red.Printf("   ❌ Browser launch failed: %v\n", err)
		dim.Println("      Run `playwright install chromium` if browsers are missing")
		os.Exit(1)
	}
	defer session.Close()

	green.Printf("   ✓ Browser ready (headless=%v)\n", cfg.Browser.Headless)

	prompter := prompt.NewTerminal()
	resolver := profile.NewResolver(stores.Profile, prompter, logger)
	engine := resolve.NewEngine(resolve.DefaultRules(), stores.Answers, resolver, prompter, logger)

	adapter, err := sites.New(domain.Site(strings.ToLower(*site)), sites.Deps{
		Session:  session,
		Engine:   engine,
		Prompter: prompter,
		Logger:   logger,
		Creds:    cfg.Sites.For(*site),
		Resume:   cfg.Search.Resume,
	})
	if err != nil {
		red.Printf("   ❌ %v\n", err)
		os.Exit(1)
	}

	//==========================================================================
	// STEP 3: SEARCH PREVIEW (dry run stops here)
	//==========================================================================
	if *dryRun {
		printStep(3, "Search Preview", "DRY RUN (no applications will be submitted)")

		if err := adapter.Login(ctx); err != nil {
			red.Printf("   ❌ Login failed: %v\n", err)
			os.Exit(1)
		}
		green.Println("   ✓ Signed in")

		if err := adapter.Search(ctx, cfg.Search); err != nil {
			red.Printf("   ❌ Search failed: %v\n", err)
			os.Exit(1)
		}
		count, err := adapter.JobCount()
		if err != nil {
			red.Printf("   ❌ Reading the result list failed: %v\n", err)
			os.Exit(1)
		}

		green.Printf("   ✓ Found %d jobs for %q in %q\n", count, cfg.Search.Title, cfg.Search.Location)
		yellow.Println("   ⚡ Dry run complete, nothing was submitted")
		return
	}

	//==========================================================================
	// STEP 3: APPLICATION RUN
	//==========================================================================
	printStep(3, "Applications", fmt.Sprintf("Applying to up to %d jobs...", cfg.Runner.MaxApplications))

	sink := tracker.New(cfg.Tracker, logger)
	artifacts, err := storage.NewArtifactStore(ctx, cfg.S3, logger)
	if err != nil {
		yellow.Printf("   ⚠ Screenshot archive unavailable: %v\n", err)
		artifacts = storage.Disabled{}
	}

	run := runner.New(cfg.Runner, adapter, sink, artifacts, session, logger)

	// Spinner covers login and search; once jobs start finishing the
	// callbacks take over the console.
	spinner := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription("   Signing in and searching..."),
		progressbar.OptionSpinnerType(14),
	)
	searching := make(chan bool)
	var once sync.Once
	stopSpinner := func() {
		once.Do(func() {
			close(searching)
			spinner.Finish()
			fmt.Println()
		})
	}
	go func() {
		for {
			select {
			case <-searching:
				return
			default:
				spinner.Add(1)
				time.Sleep(100 * time.Millisecond)
			}
		}
	}()

	var bar *progressbar.ProgressBar
	run.SetRecordCallback(func(record domain.ApplicationRecord) {
		stopSpinner()
		if bar != nil {
			bar.Clear()
		}
		switch record.Status {
		case domain.StatusApplied:
			green.Printf("   ✓ Applied   %s at %s\n", truncate(record.Title, 40), truncate(record.Company, 25))
		case domain.StatusSkipped:
			yellow.Printf("   ⚠ Skipped   %s at %s\n", truncate(record.Title, 40), truncate(record.Company, 25))
		default:
			red.Printf("   ✗ Failed    %s at %s\n", truncate(record.Title, 40), truncate(record.Company, 25))
		}
	})
	run.SetProgressCallback(func(done, total int) {
		stopSpinner()
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetDescription("   Working the list..."),
				progressbar.OptionShowCount(),
				progressbar.OptionSetWidth(40),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "█",
					SaucerHead:    "█",
					SaucerPadding: "░",
					BarStart:      "[",
					BarEnd:        "]",
				}),
			)
		}
		bar.Set(done)
	})

	summary, runErr := run.Run(ctx, cfg.Search)
	stopSpinner()
	if bar != nil {
		fmt.Println()
	}

	if runErr != nil {
		red.Printf("   ❌ Run ended early: %v\n", runErr)
	}

	printSummary(summary, cfg.Tracker)

	fmt.Println()
	bold.Println("═══════════════════════════════════════════════════════")
	if runErr == nil {
		green.Println("✅ APPLYFORGE RUN COMPLETE")
	} else {
		yellow.Println("⚠  APPLYFORGE RUN ENDED EARLY")
	}
	bold.Println("═══════════════════════════════════════════════════════")
	fmt.Printf("   Total time: %.1fs\n", time.Since(startTime).Seconds())
	fmt.Println()
}

func printBanner() {
	cyan.Print(`
 █████╗ ██████╗ ██████╗ ██╗     ██╗   ██╗███████╗ ██████╗ ██████╗  ██████╗ ███████╗
██╔══██╗██╔══██╗██╔══██╗██║     ╚██╗ ██╔╝██╔════╝██╔═══██╗██╔══██╗██╔════╝ ██╔════╝
███████║██████╔╝██████╔╝██║      ╚████╔╝ █████╗  ██║   ██║██████╔╝██║  ███╗█████╗
██╔══██║██╔═══╝ ██╔═══╝ ██║       ╚██╔╝  ██╔══╝  ██║   ██║██╔══██╗██║   ██║██╔══╝
██║  ██║██║     ██║     ███████╗   ██║   ██║     ╚██████╔╝██║  ██║╚██████╔╝███████╗
╚═╝  ╚═╝╚═╝     ╚═╝     ╚══════╝   ╚═╝   ╚═╝      ╚═════╝ ╚═╝  ╚═╝ ╚═════╝ ╚══════╝

                        Hands-Off Job Application Assistant

`)
}

func printStep(num int, title, description string) {
	fmt.Println()
	bold.Printf("━━━ Step %d: %s ━━━\n", num, title)
	fmt.Printf("    %s\n", description)
}

func printSummary(s *runner.Summary, tcfg config.TrackerConfig) {
	tracked := tcfg.CSVPath
	if tcfg.WebhookURL != "" {
		tracked = tcfg.WebhookURL
	}

	fmt.Println()
	cyan.Println("┌────────────────────────────────────────────────────┐")
	cyan.Println("│                    RUN SUMMARY                     │")
	cyan.Println("├────────────────────────────────────────────────────┤")

	fmt.Printf("│ %-10s %-39s │\n", "Run ID:", s.RunID)
	fmt.Printf("│ %-10s %-39s │\n", "Site:", s.Site)

	fmt.Printf("│ %-10s ", "Applied:")
	green.Printf("%-39d", s.Applied)
	fmt.Println(" │")

	fmt.Printf("│ %-10s %-39d │\n", "Skipped:", s.Skipped)

	fmt.Printf("│ %-10s ", "Failed:")
	if s.Failed > 0 {
		red.Printf("%-39d", s.Failed)
	} else {
		fmt.Printf("%-39d", s.Failed)
	}
	fmt.Println(" │")

	fmt.Printf("│ %-10s %-39s │\n", "Duration:", fmt.Sprintf("%.1fs", s.Duration.Seconds()))
	fmt.Printf("│ %-10s %-39s │\n", "Tracker:", truncate(tracked, 39))

	cyan.Println("└────────────────────────────────────────────────────┘")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
