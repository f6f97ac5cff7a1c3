package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/nonsonwune/ncaafb_db/config"
	"github.com/nonsonwune/ncaafb_db/loader"
	"github.com/nonsonwune/ncaafb_db/migrations"
	"github.com/nonsonwune/ncaafb_db/nlquery"
	"github.com/nonsonwune/ncaafb_db/render"
	"github.com/nonsonwune/ncaafb_db/reports"
	"github.com/nonsonwune/ncaafb_db/ui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.NoColor {
		color.NoColor = true
	}

	db, err := sql.Open(cfg.DBDriver, cfg.ConnString())
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	// Test connection
	if err := db.Ping(); err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	ld := loader.New(db, loader.WithTimeout(cfg.QueryTimeout))

	if cfg.VerifySchema && cfg.DBDriver != "sqlite" {
		if err := migrations.InitSchema(ctx, ld, cfg.DBSchema); err != nil {
			log.Printf("Warning: Error verifying schema: %v", err)
		}
	}

	registry := reports.Default()
	runner := reports.NewRunner(ld, cfg.RankingsFile)

	switch {
	case cfg.Interactive():
		menu(ctx, cfg, registry, runner)
	case cfg.Report != "":
		rep, ok := registry.Lookup(cfg.Report)
		if !ok {
			log.Fatalf("unknown report %q", cfg.Report)
		}
		if err := runReport(ctx, cfg, runner, rep, reports.Preset(cfg.Selections)); err != nil {
			log.Fatal(err)
		}
	default:
		if err := ask(ctx, cfg, registry, runner); err != nil {
			log.Fatal(err)
		}
	}
}

func runReport(ctx context.Context, cfg *config.Config, runner *reports.Runner, rep reports.Report, ch reports.Chooser) error {
	results, err := runner.Run(ctx, rep, ch)
	if err != nil {
		return fmt.Errorf("error running %s: %w", rep.ID, err)
	}

	color.Cyan("\n=== %s ===", rep.Title)
	render.Results(os.Stdout, results)

	if cfg.Export != "" {
		if err := render.ExportXLSX(cfg.Export, results); err != nil {
			return err
		}
		color.Green("Results exported to %s", cfg.Export)
	}
	return nil
}

func ask(ctx context.Context, cfg *config.Config, registry *reports.Registry, runner *reports.Runner) error {
	gen, err := nlquery.NewGemini(nlquery.NewKeyManager(cfg.GeminiKeys), cfg.GeminiModel)
	if err != nil {
		return err
	}
	tr := nlquery.NewTranslator(gen, registry)

	req, err := tr.Translate(ctx, cfg.Ask)
	if err != nil {
		color.Red("%s", tr.Explain(ctx, cfg.Ask, err))
		return err
	}
	if req.Explanation != "" {
		color.Yellow("%s", req.Explanation)
	}

	rep, _ := registry.Lookup(req.Report)
	return runReport(ctx, cfg, runner, rep, req.Preset())
}

func menu(ctx context.Context, cfg *config.Config, registry *reports.Registry, runner *reports.Runner) {
	p := ui.NewPrompter(os.Stdin, os.Stdout)
	reps := registry.Reports()

	for {
		displayMenu(reps)
		choice, err := p.ReadLine(fmt.Sprintf("\nEnter your choice (1-%d): ", len(reps)+1))
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			log.Fatal(err)
		}

		n, err := strconv.Atoi(strings.TrimSpace(choice))
		switch {
		case err != nil || n < 1 || n > len(reps)+1:
			color.Red("Invalid choice. Please try again.")
		case n == len(reps)+1:
			color.Green("Thank you for using the NCAA Football Dashboard!")
			return
		default:
			err := runReport(ctx, cfg, runner, reps[n-1], p)
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				color.Red("%v", err)
			}
		}
	}
}

func displayMenu(reps []reports.Report) {
	color.Cyan("\n=== NCAA Football Dashboard ===")
	for i, rep := range reps {
		fmt.Printf("%d. %s\n", i+1, rep.Title)
	}
	fmt.Printf("%d. Exit\n", len(reps)+1)
}
