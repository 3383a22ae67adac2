package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"docsmith/internal/config"
	"docsmith/internal/diagram"
	"docsmith/internal/logging"
	"docsmith/internal/pipeline"
	"docsmith/internal/report"
	"docsmith/internal/tui"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the documentation site",
	Long:  "Build loads both requirement collections, validates traceability, renders the three architecture diagrams and writes the static site. Diagrams fall back to their source text when the render server is unreachable; only traceability errors fail the build.",
	Args:  cobra.NoArgs,
	RunE:  runBuild,
}

func init() {
	buildCmd.Flags().Bool("offline", false, "skip remote diagram rendering, embed source text")
	buildCmd.Flags().String("server", "", "PlantUML server base URL (overrides config)")
	buildCmd.Flags().Duration("timeout", 0, "per-diagram render timeout (overrides config)")
	buildCmd.Flags().Bool("no-tui", false, "disable the progress view even on a terminal")
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	offline, _ := cmd.Flags().GetBool("offline")
	server, _ := cmd.Flags().GetString("server")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	noTUI, _ := cmd.Flags().GetBool("no-tui")
	if offline {
		cfg.Renderer.Offline = true
	}
	if server != "" {
		cfg.Renderer.Server = server
	}
	if timeout > 0 {
		cfg.Renderer.Timeout = timeout
	}

	logger, err := logging.New(cfg.LogDir())
	if err != nil {
		fmt.Fprintf(os.Stderr, "docsmith: %v (continuing without build log)\n", err)
		logger = nil
	}
	defer logger.Close()
	logger.Printf("build started for %s", cfg.ProjectDir)

	renderer := newRenderer(cfg)
	ctx := context.Background()

	var result pipeline.Result
	if !noTUI && isTerminal(os.Stdout) {
		result, err = tui.Run(func(observe pipeline.Observer) (pipeline.Result, error) {
			p := pipeline.New(cfg, renderer, pipeline.WithLogger(logger), pipeline.WithObserver(observe))
			return p.Run(ctx)
		})
	} else {
		p := pipeline.New(cfg, renderer, pipeline.WithLogger(logger))
		result, err = p.Run(ctx)
	}
	if err != nil {
		logger.Printf("build aborted: %v", err)
		return err
	}

	fmt.Print(report.Render(result))
	logger.Printf("build finished: %s", result.Summary())
	if !result.Success() {
		return fmt.Errorf("build failed: %d traceability error(s)", result.Report.ErrorCount())
	}
	return nil
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	project, err := cmd.Flags().GetString("project")
	if err != nil {
		return nil, err
	}
	return config.Load(project)
}

func newRenderer(cfg *config.Config) diagram.Renderer {
	if cfg.Renderer.Offline {
		return diagram.Offline()
	}
	return diagram.NewHTTPRenderer(cfg.Renderer.Server, diagram.WithTimeout(cfg.Renderer.Timeout))
}
