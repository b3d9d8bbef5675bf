package fileutil

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/suffolklitlab/dalint/pkg/constants"
	"github.com/suffolklitlab/dalint/pkg/logger"
)

var collectLog = logger.New("fileutil:collect")

// IsYAMLFile reports whether a path looks like a YAML interview file.
func IsYAMLFile(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasSuffix(lower, ".yml") || strings.HasSuffix(lower, ".yaml")
}

// isIgnoredDir reports whether a directory name matches one of the default
// ignore prefixes (.git*, .github*, sources).
func isIgnoredDir(name string) bool {
	for _, prefix := range constants.DefaultIgnoreDirPrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

// CollectYAMLFiles expands a mixed list of file and directory paths into a
// sorted, de-duplicated list of YAML files. Directories are searched
// recursively. When applyDefaultIgnores is true, directories matching the
// default ignore prefixes are pruned from the search; files named directly
// on the command line are always included regardless of extension filters.
func CollectYAMLFiles(paths []string, applyDefaultIgnores bool) ([]string, error) {
	seen := make(map[string]bool)
	var result []string

	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			result = append(result, path)
		}
	}

	for _, path := range paths {
		if FileExists(path) {
			add(path)
			continue
		}
		if !DirExists(path) {
			collectLog.Printf("Path does not exist, skipping: %s", path)
			continue
		}
		err := filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if d.IsDir() {
				if applyDefaultIgnores && p != path && isIgnoredDir(d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if IsYAMLFile(p) {
				add(p)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(result)
	collectLog.Printf("Collected %d YAML files from %d paths", len(result), len(paths))
	return result, nil
}
