package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/joho/godotenv"

	"github.com/applyforge/applyforge/internal/config"
	"github.com/applyforge/applyforge/internal/domain"
	"github.com/applyforge/applyforge/internal/store"
)

var (
	green  = color.New(color.FgGreen, color.Bold)
	red    = color.New(color.FgRed, color.Bold)
	yellow = color.New(color.FgYellow, color.Bold)
	cyan   = color.New(color.FgCyan, color.Bold)
	bold   = color.New(color.Bold)
	dim    = color.New(color.Faint)
)

// dump is the export file shape
type dump struct {
	Answers []domain.StoredQuestionAnswer `json:"answers"`
	Profile []domain.ProfileAttribute     `json:"profile"`
}

func main() {
	godotenv.Load()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cmd, args := os.Args[1], os.Args[2:]

	var err error
	switch cmd {
	case "list":
		err = runList(args)
	case "get":
		err = runGet(args)
	case "set":
		err = runSet(args)
	case "delete":
		err = runDelete(args)
	case "export":
		err = runExport(args)
	case "import":
		err = runImport(args)
	case "help", "-h", "--help":
		usage()
		return
	default:
		red.Printf("unknown command %q\n\n", cmd)
		usage()
		os.Exit(2)
	}

	if err != nil {
		red.Printf("❌ %v\n", err)
		os.Exit(1)
	}
}

func runList(args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	dbPath := fs.String("db", "", "Answer store path (overrides STORE_PATH)")
	fs.Parse(args)

	db, stores, err := openStores(*dbPath)
	if err != nil {
		return err
	}
	defer db.Close()
	ctx := context.Background()

	answers, err := stores.Answers.List(ctx)
	if err != nil {
		return err
	}
	attrs, err := stores.Profile.List(ctx)
	if err != nil {
		return err
	}

	cyan.Printf("Saved answers (%d)\n", len(answers))
	for _, qa := range answers {
		fmt.Printf("  %s\n", qa.Question)
		dim.Printf("      %s\n", qa.Answer)
	}
	fmt.Println()
	cyan.Printf("Profile attributes (%d)\n", len(attrs))
	for _, attr := range attrs {
		fmt.Printf("  %-24s %s\n", attr.Name, attr.Value)
	}
	return nil
}

func runGet(args []string) error {
	fs := flag.NewFlagSet("get", flag.ExitOnError)
	dbPath := fs.String("db", "", "Answer store path (overrides STORE_PATH)")
	asAttr := fs.Bool("profile", false, "Target a profile attribute instead of a question")
	fs.Parse(args)
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: answers get [-profile] <question|name>")
	}
	key := fs.Arg(0)

	db, stores, err := openStores(*dbPath)
	if err != nil {
		return err
	}
	defer db.Close()
	ctx := context.Background()

	var value string
	var found bool
	if *asAttr {
		value, found, err = stores.Profile.Get(ctx, key)
	} else {
		value, found, err = stores.Answers.Get(ctx, key)
	}
	if err != nil {
		return err
	}
	if !found {
		resource := "answer"
		if *asAttr {
			resource = "profile attribute"
		}
		return domain.NotFoundError(resource, key)
	}

	fmt.Println(value)
	return nil
}

func runSet(args []string) error {
	fs := flag.NewFlagSet("set", flag.ExitOnError)
	dbPath := fs.String("db", "", "Answer store path (overrides STORE_PATH)")
	asAttr := fs.Bool("profile", false, "Target a profile attribute instead of a question")
	fs.Parse(args)
	if fs.NArg() != 2 {
		return fmt.Errorf("usage: answers set [-profile] <question|name> <value>")
	}
	key, value := fs.Arg(0), fs.Arg(1)

	db, stores, err := openStores(*dbPath)
	if err != nil {
		return err
	}
	defer db.Close()
	ctx := context.Background()

	if *asAttr {
		err = stores.Profile.Put(ctx, key, value)
	} else {
		err = stores.Answers.Record(ctx, key, value)
	}
	if err != nil {
		return err
	}

	green.Printf("✓ Saved %q\n", key)
	return nil
}

func runDelete(args []string) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	dbPath := fs.String("db", "", "Answer store path (overrides STORE_PATH)")
	asAttr := fs.Bool("profile", false, "Target a profile attribute instead of a question")
	fs.Parse(args)
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: answers delete [-profile] <question|name>")
	}
	key := fs.Arg(0)

	db, stores, err := openStores(*dbPath)
	if err != nil {
		return err
	}
	defer db.Close()
	ctx := context.Background()

	if *asAttr {
		err = stores.Profile.Delete(ctx, key)
	} else {
		err = stores.Answers.Delete(ctx, key)
	}
	if err != nil {
		return err
	}

	green.Printf("✓ Removed %q\n", key)
	return nil
}

func runExport(args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	dbPath := fs.String("db", "", "Answer store path (overrides STORE_PATH)")
	fs.Parse(args)
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: answers export <file>")
	}
	path := fs.Arg(0)

	db, stores, err := openStores(*dbPath)
	if err != nil {
		return err
	}
	defer db.Close()
	ctx := context.Background()

	var d dump
	if d.Answers, err = stores.Answers.List(ctx); err != nil {
		return err
	}
	if d.Profile, err = stores.Profile.List(ctx); err != nil {
		return err
	}

	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding export: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	green.Printf("✓ Exported %d answers and %d profile attributes to %s\n",
		len(d.Answers), len(d.Profile), path)
	return nil
}

func runImport(args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	dbPath := fs.String("db", "", "Answer store path (overrides STORE_PATH)")
	fs.Parse(args)
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: answers import <file>")
	}
	path := fs.Arg(0)

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	var d dump
	if err := json.Unmarshal(data, &d); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	if len(d.Answers) == 0 && len(d.Profile) == 0 {
		yellow.Println("⚠ Nothing to import")
		return nil
	}

	db, stores, err := openStores(*dbPath)
	if err != nil {
		return err
	}
	defer db.Close()
	ctx := context.Background()

	if len(d.Profile) > 0 {
		if err := stores.Profile.Import(ctx, d.Profile); err != nil {
			return err
		}
	}
	for _, qa := range d.Answers {
		if err := stores.Answers.Record(ctx, qa.Question, qa.Answer); err != nil {
			return err
		}
	}

	green.Printf("✓ Imported %d answers and %d profile attributes from %s\n",
		len(d.Answers), len(d.Profile), path)
	return nil
}

func openStores(dbPath string) (*store.DB, *store.Stores, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if dbPath != "" {
		cfg.Store.Path = dbPath
	}

	db, err := store.New(cfg.Store)
	if err != nil {
		return nil, nil, err
	}
	return db, store.NewStores(db), nil
}

func usage() {
	bold.Println("answers maintains the saved application answers and profile attributes")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  answers <command> [flags] [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  list                       List saved answers and profile attributes")
	fmt.Println("  get <question>             Print the saved answer for a question")
	fmt.Println("  set <question> <answer>    Save or replace an answer")
	fmt.Println("  delete <question>          Remove a saved answer")
	fmt.Println("  export <file>              Write all saved data to a JSON file")
	fmt.Println("  import <file>              Load answers and profile attributes from a JSON file")
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Println("  -db <path>     Answer store path (overrides STORE_PATH)")
	fmt.Println("  -profile       Target profile attributes with get, set and delete")
}
