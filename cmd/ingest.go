package cmd

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/docqa/internal/app"
	"github.com/ziadkadry99/docqa/internal/progress"
	"github.com/ziadkadry99/docqa/internal/walker"
)

var (
	ingestWatch    bool
	ingestDebounce time.Duration
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [paths...]",
	Short: "Extract, chunk and index documents",
	Long: `Indexes the given files and directories, replacing the previous index.
Directories are walked recursively; the include and exclude patterns from
the config decide which files are picked up. With --watch, docqa keeps
running and re-indexes whenever a matching file changes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			args = []string{"."}
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()
		if !a.EmbeddingsAvailable() {
			return fmt.Errorf("cannot index without an embedding provider")
		}

		if err := runIngest(cmd.Context(), a, args); err != nil {
			if !ingestWatch {
				return err
			}
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
		if !ingestWatch {
			return nil
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return watchAndIngest(ctx, a, args)
	},
}

func walkerConfig(a *app.App) walker.WalkerConfig {
	cfg := a.Config()
	return walker.WalkerConfig{Include: cfg.Include, Exclude: cfg.Exclude}
}

func runIngest(ctx context.Context, a *app.App, paths []string) error {
	files, err := walker.Expand(paths, walkerConfig(a))
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no supported documents found in %v", paths)
	}
	fmt.Fprintf(os.Stderr, "Found %d document(s)\n", len(files))

	start := time.Now()
	reporter := progress.NewReporter()
	res, err := a.ProcessDocuments(ctx, files, progress.Track(reporter, "Embedding chunks"))
	if err == nil {
		reporter.Finish()
	}
	if res != nil {
		for _, w := range res.Warnings {
			fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
		}
	}
	if err != nil {
		return err
	}

	fmt.Printf("Indexed %d file(s) into %d chunk(s) in %s\n",
		res.Files, res.Stats.TotalChunks, time.Since(start).Round(time.Millisecond))
	fmt.Printf("  Sources: %d, characters: %d, average chunk: %.1f\n",
		res.Stats.NumSources, res.Stats.TotalCharacters, res.Stats.AverageChunkSize)
	if res.Saved {
		fmt.Printf("  Saved to %s\n", a.Config().IndexDir)
	}
	return nil
}

// watchAndIngest re-runs ingestion after matching files under paths change.
// Events are debounced so a burst of writes triggers a single rebuild.
func watchAndIngest(ctx context.Context, a *app.App, paths []string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer w.Close()

	wc := walkerConfig(a)
	roots := make([]string, 0, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		roots = append(roots, abs)
		if err := addWatchDirs(w, abs); err != nil {
			return err
		}
	}
	fmt.Fprintf(os.Stderr, "Watching %d path(s) for changes (Ctrl+C to stop)\n", len(roots))

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "Warning: watch: %v\n", err)
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					_ = addWatchDirs(w, ev.Name)
					continue
				}
			}
			if ev.Has(fsnotify.Chmod) || !relevant(ev.Name, roots, wc) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(ingestDebounce)
			} else {
				timer.Reset(ingestDebounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			fmt.Fprintln(os.Stderr, "Change detected, re-indexing...")
			if err := runIngest(ctx, a, paths); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
			}
		}
	}
}

// addWatchDirs registers root and every non-skipped directory beneath it.
// A file root is watched through its parent directory.
func addWatchDirs(w *fsnotify.Watcher, root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return w.Add(filepath.Dir(root))
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if path != root && walker.IsSkippedDir(d.Name()) {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}

func relevant(name string, roots []string, wc walker.WalkerConfig) bool {
	for _, root := range roots {
		rel, err := filepath.Rel(root, name)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		if rel == "." {
			rel = filepath.Base(name)
		}
		return walker.Accept(filepath.ToSlash(rel), wc.Include, wc.Exclude)
	}
	return false
}

func init() {
	ingestCmd.Flags().BoolVarP(&ingestWatch, "watch", "w", false, "keep running and re-index on file changes")
	ingestCmd.Flags().DurationVar(&ingestDebounce, "debounce", 2*time.Second, "quiet period before re-indexing in watch mode")
	rootCmd.AddCommand(ingestCmd)
}
