// Command materialize generates a notebook and requirements manifest from a
// plan JSON file, without a database. Useful for inspecting generator output
// and for pre-flighting plans locally.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"replab/adapters/codegen"
	"replab/adapters/excel"
	"replab/adapters/storage"
	"replab/app"
	"replab/domain/core"
	"replab/domain/plan"
	"replab/domain/registry"
	"replab/internal/config"
	"replab/internal/validation"
)

func main() {
	planPath := flag.String("plan", "", "path to plan JSON file")
	planID := flag.String("id", "local", "plan identifier for the notebook header")
	outDir := flag.String("out", "./artifacts", "artifact output directory")
	flag.Parse()

	if *planPath == "" {
		fmt.Fprintln(os.Stderr, "usage: materialize -plan plan.json [-id PLAN_ID] [-out DIR]")
		os.Exit(2)
	}

	if err := godotenv.Load(); err == nil {
		log.Println("Loaded .env")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	raw, err := os.ReadFile(*planPath)
	if err != nil {
		log.Fatalf("Failed to read plan file: %v", err)
	}
	doc, err := plan.Parse(raw)
	if err != nil {
		log.Fatalf("Invalid plan: %v", err)
	}

	factory := codegen.NewFactory(registry.Default(), excel.NewSniffer(), appConfig.Materialize)
	validator := validation.NewNotebookValidator()
	store := storage.NewLocalStore(*outDir)
	service := app.NewMaterializeService(factory, validator, store, nil, nil)

	artifacts, err := service.Materialize(context.Background(), doc, core.PlanID(*planID), nil)
	if err != nil {
		if artifacts != nil && !artifacts.Validation.Valid {
			for _, msg := range artifacts.Validation.Errors {
				fmt.Fprintln(os.Stderr, "validation:", msg)
			}
		}
		log.Fatalf("Materialization failed: %v", err)
	}

	fmt.Println("notebook:    ", artifacts.NotebookPath)
	fmt.Println("requirements:", artifacts.RequirementsPath)
	fmt.Println("env_hash:    ", artifacts.EnvHash)
}
