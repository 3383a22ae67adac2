// cmd/docsmith/main.go
//
// The docsmith CLI turns the requirement and architecture documents a
// scaffolded project carries under Docs/ into a cross-linked static site,
// and gates on the traceability rule between the two requirement tiers.
//
// Exit codes: 0 on success, 1 on a failed build or validation, 2 on
// usage errors, so the binary slots into pre-commit hooks.

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var errUsage = errors.New("usage")

var rootCmd = &cobra.Command{
	Use:           "docsmith",
	Short:         "Requirement and architecture documentation builder",
	Long:          "docsmith builds a static documentation site from the requirement YAML files and PlantUML diagrams a scaffolded project keeps under Docs/, validating that every software requirement refines a high-level requirement.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(renderCmd)

	rootCmd.PersistentFlags().String("project", ".", "project directory containing Docs/")
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", errUsage, err)
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "docsmith: %v\n", err)
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

// isTerminal reports whether the file is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
