package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"docsmith/internal/diagram"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Print the encoded render URL for each diagram",
	Long:  "Render encodes each diagram source with the PlantUML text-encoding scheme and prints the resulting image URL. With --check it also performs the remote call and reports which diagrams would fall back.",
	Args:  cobra.NoArgs,
	RunE:  runRender,
}

func init() {
	renderCmd.Flags().Bool("check", false, "contact the render server and report remote/fallback per diagram")
	renderCmd.Flags().String("server", "", "PlantUML server base URL (overrides config)")
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if server, _ := cmd.Flags().GetString("server"); server != "" {
		cfg.Renderer.Server = server
	}
	check, _ := cmd.Flags().GetBool("check")

	sources, err := diagram.LoadSources(cfg.ArchitectureDir)
	if err != nil {
		return err
	}
	renderer := diagram.NewHTTPRenderer(cfg.Renderer.Server, diagram.WithTimeout(cfg.Renderer.Timeout))
	for _, src := range sources {
		url, err := renderer.ImageURL(src.Text)
		if err != nil {
			return err
		}
		fmt.Printf("%s: %s\n", src.Kind, url)
		if check {
			rendered := diagram.RenderSource(context.Background(), renderer, src)
			if rendered.Mode == diagram.ModeFallback {
				fmt.Printf("%s: fallback (%s)\n", src.Kind, rendered.Reason)
			} else {
				fmt.Printf("%s: remote ok\n", src.Kind)
			}
		}
	}
	return nil
}
