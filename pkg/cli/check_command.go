package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/suffolklitlab/dalint/pkg/fileutil"
	"github.com/suffolklitlab/dalint/pkg/linter"
	"github.com/suffolklitlab/dalint/pkg/logger"
)

var checkLog = logger.New("cli:check")

// CheckOptions controls the behavior and output of a check run.
type CheckOptions struct {
	// Minimal prints compact dot/letter progress instead of per-file lines.
	Minimal bool
	// Quiet suppresses output for successful and skipped files.
	Quiet bool
	// NoSummary suppresses the summary line after processing.
	NoSummary bool
	// CheckAll disables the default directory ignores (.git*, .github*,
	// sources) during recursive search.
	CheckAll bool
	// Watch keeps running and re-checks files as they change.
	Watch bool
	// MaxProcs bounds the number of files checked concurrently; zero means
	// one worker per CPU.
	MaxProcs int

	// Output is where report lines go. Defaults to os.Stdout.
	Output io.Writer
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	opts := CheckOptions{}

	cmd := &cobra.Command{
		Use:   "check [files-or-dirs...]",
		Short: "Check interview files and report errors with line numbers",
		Long: `Check docassemble interview YAML files. Directories are searched
recursively for .yml and .yaml files; .git*, .github*, and sources
directories are skipped unless --check-all is given.

Files that start with the "# use jinja" header are reported as ok
without being checked: they are not valid YAML until a template engine
has processed them.

Examples:
  dalint check questions.yml
  dalint check docassemble/data/questions/
  dalint check . --minimal
  dalint check interview.yml --watch`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunCheck(cmd.Context(), args, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Minimal, "minimal", "m", false, "Show compact dot/letter progress instead of per-file lines")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Suppress all output except errors")
	cmd.Flags().BoolVar(&opts.NoSummary, "no-summary", false, "Do not print the summary line after processing")
	cmd.Flags().BoolVar(&opts.CheckAll, "check-all", false, "Do not ignore default directories during recursive search (.git*, .github*, sources)")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Watch the given paths and re-check files as they change")
	cmd.Flags().IntVar(&opts.MaxProcs, "max-procs", 0, "Maximum number of files to check concurrently (default: one per CPU)")
	cmd.MarkFlagsMutuallyExclusive("minimal", "quiet")

	return cmd
}

// RunCheck collects YAML files from the given paths, checks them, and
// reports results. It returns an error only when no YAML files were found
// or watching failed; lint findings are reported, not returned.
func RunCheck(ctx context.Context, paths []string, opts CheckOptions) error {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	files, err := fileutil.CollectYAMLFiles(paths, !opts.CheckAll)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no YAML files found")
	}
	checkLog.Printf("Checking %d files", len(files))

	display := displayPaths(paths, files)
	report := reporter{opts: opts, display: display}

	results := linter.New().CheckFiles(ctx, files, opts.MaxProcs)
	report.printRun(results)

	if opts.Watch {
		return watchAndRecheck(ctx, paths, files, opts, display)
	}
	return nil
}

// reporter renders file results in the format the options ask for.
type reporter struct {
	opts    CheckOptions
	display map[string]string
}

func (r reporter) path(result linter.FileResult) string {
	if d, ok := r.display[result.Path]; ok {
		return d
	}
	return result.Path
}

// printRun prints every result plus the summary line.
func (r reporter) printRun(results []linter.FileResult) {
	ok, errored, skipped := 0, 0, 0
	for _, result := range results {
		r.printFile(result)
		switch {
		case result.Status == linter.StatusErrors:
			errored++
		case result.Status == linter.StatusSkipped && !result.Jinja:
			skipped++
		default:
			ok++
		}
	}

	if r.opts.Minimal {
		fmt.Fprintln(r.opts.Output)
	}
	if r.opts.Quiet || r.opts.NoSummary {
		return
	}

	var parts []string
	if ok > 0 {
		parts = append(parts, fmt.Sprintf("%d ok", ok))
	}
	if errored > 0 {
		parts = append(parts, fmt.Sprintf("%d errors", errored))
	}
	if skipped > 0 {
		parts = append(parts, fmt.Sprintf("%d skipped", skipped))
	}
	if len(parts) == 0 {
		parts = append(parts, "0 files processed")
	}
	fmt.Fprintf(r.opts.Output, "Summary: %s (%d total)\n", strings.Join(parts, ", "), ok+errored+skipped)
}

// printFile prints one file's outcome. Jinja files count as ok; they were
// deliberately not checked.
func (r reporter) printFile(result linter.FileResult) {
	out := r.opts.Output
	path := r.path(result)

	if result.Status == linter.StatusSkipped && !result.Jinja {
		if !r.opts.Minimal && !r.opts.Quiet {
			fmt.Fprintf(out, "skipped: %s\n", path)
		}
		return
	}

	if result.Status != linter.StatusErrors {
		if r.opts.Minimal {
			if result.Jinja {
				fmt.Fprint(out, "j")
			} else {
				fmt.Fprint(out, ".")
			}
		} else if !r.opts.Quiet {
			label := "ok"
			if result.Jinja {
				label = "ok (jinja)"
			}
			fmt.Fprintf(out, "%s: %s\n", label, path)
		}
		return
	}

	// Diagnostics carry the collected path; report them under the same
	// shortened path as the per-file line.
	rendered := make([]string, 0, len(result.Diagnostics))
	for _, d := range result.Diagnostics {
		d.File = path
		rendered = append(rendered, d.String())
	}
	if r.opts.Minimal {
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Found %d errors:\n", len(rendered))
		for _, line := range rendered {
			fmt.Fprintln(out, line)
		}
		return
	}
	fmt.Fprintf(out, "errors (%d): %s\n", len(rendered), path)
	for _, line := range rendered {
		fmt.Fprintf(out, "  %s\n", line)
	}
}

// displayPaths maps each collected file to a path relative to the inputs
// it was found under, for shorter report lines.
func displayPaths(inputs, files []string) map[string]string {
	var bases []string
	for _, input := range inputs {
		abs, err := filepath.Abs(input)
		if err != nil {
			continue
		}
		if fileutil.DirExists(abs) {
			bases = append(bases, abs)
		} else {
			bases = append(bases, filepath.Dir(abs))
		}
	}

	display := make(map[string]string, len(files))
	for _, file := range files {
		abs, err := filepath.Abs(file)
		if err != nil {
			display[file] = file
			continue
		}
		display[file] = abs
		for _, base := range bases {
			rel, err := filepath.Rel(base, abs)
			if err != nil || strings.HasPrefix(rel, "..") {
				continue
			}
			display[file] = rel
			break
		}
	}
	return display
}
