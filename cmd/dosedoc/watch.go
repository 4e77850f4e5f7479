package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"dosedoc/internal/document"
	"dosedoc/internal/logging"
	"dosedoc/internal/runner"
)

var watchCmd = &cobra.Command{
	Use:   "watch <document>",
	Short: "Re-run the document's tests on every save",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		log := logging.Get(logging.CategoryCLI)

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("start watcher: %w", err)
		}
		defer watcher.Close()

		// Watch the directory: editors commonly replace the file on
		// save, which drops a watch on the file itself.
		if err := watcher.Add(filepath.Dir(path)); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}

		runOnce := func() {
			doc, err := document.Load(path)
			if err != nil {
				fmt.Fprintln(os.Stderr, "Error:", err)
				return
			}
			r := runner.New(runner.Options{
				Timeout:      cfg.Sandbox.TimeoutDuration(),
				ExtraImports: cfg.Sandbox.ExtraImports,
			})
			summary := r.RunAll(cmd.Context(), doc.Sections)
			fmt.Print(renderSummary(doc.Title, &summary))
		}

		runOnce()

		debounce := newDebouncer(300 * time.Millisecond)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

		target := filepath.Clean(path)
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if filepath.Clean(ev.Name) != target {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				log.Debug("document changed", zap.String("event", ev.String()))
				debounce.call(runOnce)
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				log.Warn("watch error", zap.Error(err))
			case <-sigCh:
				debounce.cancel()
				return nil
			case <-cmd.Context().Done():
				debounce.cancel()
				return nil
			}
		}
	},
}

// debouncer coalesces rapid save events into one rerun.
type debouncer struct {
	mu       sync.Mutex
	timer    *time.Timer
	duration time.Duration
}

func newDebouncer(d time.Duration) *debouncer {
	return &debouncer{duration: d}
}

func (d *debouncer) call(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.duration, fn)
}

func (d *debouncer) cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
