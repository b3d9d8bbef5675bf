//go:build !integration

package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suffolklitlab/dalint/pkg/linter"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func runCheck(t *testing.T, paths []string, opts CheckOptions) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	opts.Output = &buf
	err := RunCheck(context.Background(), paths, opts)
	return buf.String(), err
}

func TestRunCheck_ReportsPerFileLines(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "good.yml", "question: Hi\n")
	writeFile(t, dir, "bad.yml", "question: Hi\nmandatory: 7\n")
	writeFile(t, dir, "template.yml", "# use jinja\n{{ client }}\n")
	writeFile(t, dir, "docstring.yml", "not: checked\n")

	out, err := runCheck(t, []string{dir}, CheckOptions{})
	require.NoError(t, err)

	assert.Contains(t, out, "ok: good.yml")
	assert.Contains(t, out, "errors (1): bad.yml")
	assert.Contains(t, out, "REAL ERROR: At bad.yml:2:")
	assert.Contains(t, out, "ok (jinja): template.yml")
	assert.Contains(t, out, "skipped: docstring.yml")
	assert.Contains(t, out, "Summary: 2 ok, 1 errors, 1 skipped (4 total)")
}

func TestRunCheck_MinimalOutput(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.yml", "question: Hi\n")
	writeFile(t, dir, "b.yml", "# use jinja\n{{ x }}\n")

	out, err := runCheck(t, []string{dir}, CheckOptions{Minimal: true})
	require.NoError(t, err)

	assert.Contains(t, out, ".")
	assert.Contains(t, out, "j")
	assert.Contains(t, out, "Summary: 2 ok (2 total)")
}

func TestRunCheck_MinimalPrintsErrorsInFull(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.yml", "question: Hi\nmandatory: 7\n")

	out, err := runCheck(t, []string{dir}, CheckOptions{Minimal: true})
	require.NoError(t, err)

	assert.Contains(t, out, "Found 1 errors:")
	assert.Contains(t, out, "REAL ERROR: At bad.yml:2:")
}

func TestRunCheck_QuietOnlyPrintsErrors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "good.yml", "question: Hi\n")
	writeFile(t, dir, "bad.yml", "question: Hi\nmandatory: 7\n")

	out, err := runCheck(t, []string{dir}, CheckOptions{Quiet: true})
	require.NoError(t, err)

	assert.NotContains(t, out, "ok: good.yml")
	assert.NotContains(t, out, "Summary:")
	assert.Contains(t, out, "errors (1): bad.yml")
}

func TestRunCheck_NoSummary(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "good.yml", "question: Hi\n")

	out, err := runCheck(t, []string{dir}, CheckOptions{NoSummary: true})
	require.NoError(t, err)
	assert.NotContains(t, out, "Summary:")
}

func TestRunCheck_NoFilesIsAnError(t *testing.T) {
	dir := t.TempDir()
	_, err := runCheck(t, []string{dir}, CheckOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no YAML files found")
}

func TestRunCheck_CheckAllDescendsIntoIgnoredDirs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, filepath.Join("sources", "hidden.yml"), "question: Hi\n")

	_, err := runCheck(t, []string{dir}, CheckOptions{})
	require.Error(t, err, "sources/ is ignored by default")

	out, err := runCheck(t, []string{dir}, CheckOptions{CheckAll: true})
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join("sources", "hidden.yml"))
}

func TestRunCheck_DirectFileUsesRelativeDisplay(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "interview.yml", "question: Hi\n")

	out, err := runCheck(t, []string{path}, CheckOptions{})
	require.NoError(t, err)
	assert.Contains(t, out, "ok: interview.yml")
	assert.NotContains(t, out, dir, "report lines use paths relative to the inputs")
}

func TestDisplayPaths(t *testing.T) {
	dir := t.TempDir()
	nested := writeFile(t, dir, filepath.Join("questions", "intake.yml"), "question: Hi\n")

	display := displayPaths([]string{dir}, []string{nested})
	assert.Equal(t, filepath.Join("questions", "intake.yml"), display[nested])
}

func TestNewCheckCommand_Flags(t *testing.T) {
	cmd := NewCheckCommand()

	for _, name := range []string{"minimal", "quiet", "no-summary", "check-all", "watch", "max-procs"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "expected flag --%s", name)
	}
}

func TestNewRootCommand_HasSubcommands(t *testing.T) {
	root := NewRootCommand("1.2.3")
	assert.Equal(t, "1.2.3", root.Version)

	var names []string
	for _, sub := range root.Commands() {
		names = append(names, sub.Name())
	}
	joined := strings.Join(names, " ")
	assert.Contains(t, joined, "check")
	assert.Contains(t, joined, "mcp-server")
}

func TestRenderResultText(t *testing.T) {
	lint := linter.New()

	clean := renderResultText(lint.CheckContent("intake.yml", "question: Hi\n"))
	assert.Equal(t, "intake.yml has no problems.", clean)

	jinja := renderResultText(lint.CheckContent("tmpl.yml", "# use jinja\n{{ x }}\n"))
	assert.Contains(t, jinja, "# use jinja")

	broken := renderResultText(lint.CheckContent("bad.yml", "question: Hi\nmandatory: 7\n"))
	assert.Contains(t, broken, "REAL ERROR: At bad.yml:2:")
}
