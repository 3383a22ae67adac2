package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"docsmith/internal/diagram"
	"docsmith/internal/pipeline"
	"docsmith/internal/report"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check requirement traceability without building the site",
	Long:  "Validate loads both requirement collections and runs the traceability check only: no network calls, no site writes. Intended as a pre-commit gate.",
	Args:  cobra.NoArgs,
	RunE:  runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	p := pipeline.New(cfg, diagram.Offline())
	result, err := p.Check(context.Background())
	if err != nil {
		return err
	}
	fmt.Print(report.Render(result))
	if !result.Success() {
		return fmt.Errorf("validation failed: %d traceability error(s)", result.Report.ErrorCount())
	}
	return nil
}
