package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"

	"github.com/starford/ansuz/internal/noteservice"
)

// Watch renders the note list and re-renders it whenever the backing
// store file changes, until ctx is cancelled or an interrupt arrives.
// It never writes to the store.
func (a *App) Watch(ctx context.Context, sortFlag string) error {
	method, err := noteservice.ParseSortMethod(sortFlag)
	if err != nil {
		return err
	}

	if err := a.renderList(method); err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close()

	target, err := filepath.Abs(a.cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("watch: resolve store path: %w", err)
	}
	// Watch the directory, not the file: atomic saves replace the file by
	// rename, which would drop a watch on the file itself.
	if err := w.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch: %w", err)
	}

	a.logger.Info("watch: started", slog.String("path", target))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		// Debounce re-renders; editors and atomic renames fire event bursts.
		var debounce *time.Timer
		var fire <-chan time.Time

		schedule := func() {
			if debounce == nil {
				debounce = time.NewTimer(200 * time.Millisecond)
				fire = debounce.C
			} else {
				debounce.Reset(200 * time.Millisecond)
			}
		}

		for {
			select {
			case <-gCtx.Done():
				if debounce != nil {
					debounce.Stop()
				}
				return nil

			case <-fire:
				if err := a.renderList(method); err != nil {
					a.logger.Warn("watch: render failed", slog.String("error", err.Error()))
				}

			case ev, ok := <-w.Events:
				if !ok {
					return nil
				}
				abs, absErr := filepath.Abs(ev.Name)
				if absErr != nil || abs != target {
					continue
				}
				if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) != 0 {
					schedule()
				}

			case werr, ok := <-w.Errors:
				if !ok {
					return nil
				}
				a.logger.Warn("watch: watcher error", slog.String("error", werr.Error()))
			}
		}
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			a.logger.Info("watch: stopping", slog.String("signal", sig.String()))
			cancel()
		case <-gCtx.Done():
		}
		return nil
	})

	return g.Wait()
}
