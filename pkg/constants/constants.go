// Package constants holds process-wide configuration constants shared
// across the dalint packages.
package constants

// CLIName is the name of the command-line binary.
const CLIName = "dalint"

// JinjaHeader is the literal first line that opts a whole interview file
// into external Jinja2 template processing. Files starting with this exact
// line are skipped entirely: their content is not valid YAML until the
// template engine has run.
const JinjaHeader = "# use jinja"

// TabReplacement is the fixed space sequence every literal tab character
// is rewritten to before YAML parsing. Tabs never span newlines, so this
// rewrite can change column positions but never line numbers.
const TabReplacement = "  "

// SkippedFileBasenames is the denylist of generated or vendor interview
// files that are never analyzed. These ship inside docassemble packages
// but are not authored YAML.
var SkippedFileBasenames = []string{
	"pgcodecache.yml",
	"title_documentation.yml",
	"documentation.yml",
	"docstring.yml",
	"example-list.yml",
	"examples.yml",
}

// DefaultIgnoreDirPrefixes lists directory name prefixes excluded from
// recursive YAML file discovery unless the caller opts out.
var DefaultIgnoreDirPrefixes = []string{
	".git",
	".github",
	"sources",
}
