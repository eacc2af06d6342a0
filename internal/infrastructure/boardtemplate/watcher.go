package boardtemplate

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"condoqueixas/internal/bootstrap/logging"
	"condoqueixas/internal/domain/kanban"
	"condoqueixas/internal/errs"
)

// Load reads and validates a TOML board template.
func Load(path string) (kanban.Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return kanban.Template{}, errs.Wrapf(err, "read board template %q", path)
	}
	tpl, err := kanban.ParseTemplate(data)
	if err != nil {
		return kanban.Template{}, errs.Wrapf(err, "parse board template %q", path)
	}
	return tpl, nil
}

// Watch calls apply with the new template every time path is written or
// replaced, until ctx is done. A template that fails to parse is logged and
// skipped.
func Watch(ctx context.Context, path string, apply func(context.Context, kanban.Template) error) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	target, err := filepath.Abs(path)
	if err != nil {
		return errs.Wrapf(err, "resolve board template %q", path)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errs.Wrap(err, "create template watcher")
	}
	defer watcher.Close()

	// Editors often replace the file, so watch the directory instead.
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return errs.Wrapf(err, "watch %q", filepath.Dir(target))
	}

	logCtx := logging.WithAttrs(ctx, slog.String("component", "infrastructure.boardtemplate"), slog.String("path", target))
	logging.Info(logCtx, "watching board template")

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			tpl, err := Load(target)
			if err != nil {
				logging.Warn(logCtx, "board template rejected", slog.Any("err", errs.Loggable(err)))
				continue
			}
			if err := apply(logCtx, tpl); err != nil {
				logging.Warn(logCtx, "board template apply failed", slog.Any("err", errs.Loggable(err)))
				continue
			}
			logging.Info(logCtx, "board template applied", slog.String("title", tpl.Title), slog.Int("columns", len(tpl.Columns)))
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.Warn(logCtx, "template watcher error", slog.Any("err", errs.Loggable(err)))
		}
	}
}
