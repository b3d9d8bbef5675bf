package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/suffolklitlab/dalint/pkg/console"
	"github.com/suffolklitlab/dalint/pkg/fileutil"
	"github.com/suffolklitlab/dalint/pkg/linter"
	"github.com/suffolklitlab/dalint/pkg/logger"
)

var watchLog = logger.New("cli:watch")

// debounceWindow coalesces the bursts of writes editors produce when
// saving a file.
const debounceWindow = 200 * time.Millisecond

// watchAndRecheck watches the directories behind the given paths and
// re-checks YAML files as they change, until the context is cancelled.
func watchAndRecheck(ctx context.Context, inputs, files []string, opts CheckOptions, display map[string]string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	dirs := make(map[string]bool)
	for _, input := range inputs {
		if fileutil.DirExists(input) {
			dirs[input] = true
		}
	}
	for _, file := range files {
		dirs[filepath.Dir(file)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			watchLog.Printf("Could not watch %s: %v", dir, err)
		}
	}

	fmt.Fprintln(opts.Output, console.FormatInfoMessage(fmt.Sprintf("Watching %d directories for changes. Press Ctrl+C to stop.", len(dirs))))

	lint := linter.New()
	pending := make(map[string]bool)
	var timer *time.Timer
	var fire <-chan time.Time

	recheck := func() {
		report := reporter{opts: opts, display: display}
		for path := range pending {
			delete(pending, path)
			report.printFile(lint.CheckFile(path))
		}
		if opts.Minimal {
			fmt.Fprintln(opts.Output)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !fileutil.IsYAMLFile(event.Name) {
				continue
			}
			watchLog.Printf("Change detected: %s", event.Name)
			pending[event.Name] = true
			if timer == nil {
				timer = time.NewTimer(debounceWindow)
			} else {
				timer.Reset(debounceWindow)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			recheck()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			watchLog.Printf("Watcher error: %v", err)
		}
	}
}
