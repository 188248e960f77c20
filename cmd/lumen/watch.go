package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/aledsdavies/lumen/pkgs/errors"
)

// runWatch re-runs opts.path's pipeline on every write to it, for the
// --watch flag (spec.md §6), following fsnotify's documented single-file
// watch idiom.
func runWatch(opts runOptions) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(errors.ErrWatchSetupFail, "failed to start file watcher", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(opts.path)
	if err := watcher.Add(dir); err != nil {
		return errors.Wrap(errors.ErrWatchSetupFail, fmt.Sprintf("failed to watch %q", dir), err)
	}

	target, err := filepath.Abs(opts.path)
	if err != nil {
		target = opts.path
	}

	fmt.Fprintf(os.Stderr, "watching %s (ctrl-c to stop)\n", opts.path)
	runOnce(opts)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || abs != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			fmt.Fprintf(os.Stderr, "\n--- %s changed, re-running ---\n", opts.path)
			runOnce(opts)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintln(os.Stderr, colorize("Error: ", colorRed, !opts.noColor)+err.Error())
		}
	}
}
