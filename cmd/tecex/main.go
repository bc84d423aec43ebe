package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"tecex/internal/catalog"
	"tecex/internal/config"
	"tecex/internal/pipeline"
	"tecex/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	logger, err := zap.NewProduction()
	must(err)
	defer func() { _ = logger.Sync() }()
	log := logger.Sugar()

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	cmd := os.Args[1]
	switch cmd {
	case "export:run":
		client := catalog.NewClient(cfg, log)
		exporter := pipeline.NewExporter(cfg, client, db, log)
		summary, err := exporter.Run(context.Background())
		must(err)
		fmt.Printf("export complete runId=%s articles=%d references=%d vehicles=%d\n",
			summary.RunID, summary.Articles, summary.References, summary.Vehicles)
	case "export:csv":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		runID := fs.String("runId", "", "run id (defaults to latest)")
		out := fs.String("out", "", "output directory (defaults to OUTPUT_DIR)")
		_ = fs.Parse(os.Args[2:])
		bundle, id, err := loadBundle(db, *runID)
		must(err)
		dir := *out
		if strings.TrimSpace(dir) == "" {
			dir = cfg.OutputDir
		}
		must(pipeline.WriteCSV(bundle, dir))
		fmt.Printf("csv export done runId=%s dir=%s\n", id, dir)
	case "export:xlsx":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		runID := fs.String("runId", "", "run id (defaults to latest)")
		out := fs.String("out", "", "output xlsx path")
		_ = fs.Parse(os.Args[2:])
		bundle, id, err := loadBundle(db, *runID)
		must(err)
		path := *out
		if strings.TrimSpace(path) == "" {
			path = filepath.Join(cfg.OutputDir, "export.xlsx")
		}
		must(pipeline.WriteXLSX(bundle, path))
		fmt.Printf("xlsx export done runId=%s output=%s\n", id, path)
	case "catalog:probe":
		client := catalog.NewClient(cfg, log)
		exporter := pipeline.NewExporter(cfg, client, db, log)
		must(exporter.Probe(context.Background()))
	default:
		usage()
		os.Exit(1)
	}
}

// loadBundle reads a persisted run back out of the database; an empty
// runID selects the most recent run.
func loadBundle(db *storage.DB, runID string) (pipeline.ExportBundle, string, error) {
	id := strings.TrimSpace(runID)
	if id == "" {
		latest, err := db.LatestRunID()
		if err != nil {
			return pipeline.ExportBundle{}, "", err
		}
		if latest == "" {
			return pipeline.ExportBundle{}, "", fmt.Errorf("no runs stored yet, run export:run first")
		}
		id = latest
	}

	articles, err := db.ListArticles(id)
	if err != nil {
		return pipeline.ExportBundle{}, "", err
	}
	attributes, err := db.ListAttributes(id)
	if err != nil {
		return pipeline.ExportBundle{}, "", err
	}
	refs, err := db.ListReferences(id)
	if err != nil {
		return pipeline.ExportBundle{}, "", err
	}
	vehicles, err := db.ListVehicles(id)
	if err != nil {
		return pipeline.ExportBundle{}, "", err
	}

	return pipeline.ExportBundle{
		Articles:   articles,
		Attributes: attributes,
		References: refs,
		Vehicles:   vehicles,
	}, id, nil
}

func usage() {
	fmt.Println("usage: tecex <command>")
	fmt.Println("commands:")
	fmt.Println("  export:run")
	fmt.Println("  export:csv [--runId=...] [--out=./out]")
	fmt.Println("  export:xlsx [--runId=...] [--out=./out/export.xlsx]")
	fmt.Println("  catalog:probe")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
