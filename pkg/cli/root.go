// Package cli implements the dalint command-line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/suffolklitlab/dalint/pkg/constants"
)

// NewRootCommand creates the root dalint command with all subcommands
// attached. version is stamped at build time.
func NewRootCommand(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   constants.CLIName,
		Short: "Validate docassemble interview YAML files",
		Long: `dalint checks docassemble interview YAML files for structural problems:
unknown block types, conflicting keys, malformed Mako templates, broken
Python code blocks, and field modifiers that reference variables that do
not exist on the screen.

Errors are reported with the line number in the original file, even for
documents deep inside a multi-document file.

Examples:
  dalint check questions.yml
  dalint check docassemble/data/questions/ --minimal
  dalint check . --check-all --no-summary
  dalint mcp-server`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(NewCheckCommand())
	rootCmd.AddCommand(NewMCPServerCommand(version))

	return rootCmd
}
