// Package schedule keeps the rendered calendar current: a cron entry
// renders the present month on the configured schedule and a file watcher
// re-renders whenever an events CSV changes.
package schedule

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	appLog "papercal/internal/log"
	"papercal/internal/pipeline"
)

// Runner drives unattended renders of the current month.
type Runner struct {
	renderer *pipeline.Renderer

	// Now picks the month to render. Defaults to time.Now.
	Now func() time.Time

	// OnRender, if set, is called after every render attempt with the
	// trigger ("startup", "schedule" or "file change").
	OnRender func(reason, path string, err error)

	// Debounce is passed to the file watcher.
	Debounce time.Duration

	mu sync.Mutex
}

func New(r *pipeline.Renderer) *Runner {
	return &Runner{renderer: r, Now: time.Now}
}

// RenderCurrent renders the month containing Now and saves it. Concurrent
// calls run one after the other.
func (rn *Runner) RenderCurrent(ctx context.Context, reason string) (string, error) {
	rn.mu.Lock()
	defer rn.mu.Unlock()

	now := rn.Now()
	req := pipeline.Request{Year: now.Year(), Month: int(now.Month())}
	appLog.Info("render triggered", "reason", reason, "year", req.Year, "month", req.Month)

	path, err := rn.renderer.RenderToFile(ctx, req)
	if err != nil {
		appLog.Error("scheduled render failed", err, "reason", reason)
	}
	if rn.OnRender != nil {
		rn.OnRender(reason, path, err)
	}
	return path, err
}

// Run renders once, then keeps rendering on the cron schedule and, when
// watch is true, on changes to the configured events files. It blocks until
// ctx is cancelled.
func (rn *Runner) Run(ctx context.Context, watch bool) error {
	cfg := rn.renderer.Config()

	c := cron.New()
	if _, err := c.AddFunc(cfg.Schedule, func() {
		_, _ = rn.RenderCurrent(ctx, "schedule")
	}); err != nil {
		return fmt.Errorf("schedule: %q: %w", cfg.Schedule, err)
	}

	if watch {
		fw, err := NewFileWatcher(rn.Debounce, func(path string) {
			appLog.Info("events file changed", "path", path)
			_, _ = rn.RenderCurrent(ctx, "file change")
		})
		if err != nil {
			return fmt.Errorf("schedule: watcher: %w", err)
		}
		defer fw.Close()
		for _, path := range cfg.Events {
			if err := fw.AddFile(path); err != nil {
				appLog.Warn("cannot watch events file", "path", path, "err", err.Error())
				continue
			}
			appLog.Debug("watching events file", "path", path)
		}
	}

	_, _ = rn.RenderCurrent(ctx, "startup")

	c.Start()
	appLog.Info("scheduler started", "schedule", cfg.Schedule, "watch", watch)
	<-ctx.Done()

	stopped := c.Stop()
	<-stopped.Done()
	appLog.Info("scheduler stopped")
	return nil
}
