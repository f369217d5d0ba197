package app

import (
	"context"
	"errors"
	"time"
)

// Autosaver periodically saves modified documents that have a file.
// Documents changed on disk by another program are skipped so that
// autosave never overwrites someone else's edits.
type Autosaver struct {
	docs     *DocumentManager
	interval time.Duration
	log      *Logger
}

// NewAutosaver creates an autosaver for docs.
func NewAutosaver(docs *DocumentManager, interval time.Duration, log *Logger) *Autosaver {
	if log == nil {
		log = NullLogger()
	}
	return &Autosaver{
		docs:     docs,
		interval: interval,
		log:      log.WithComponent("autosave"),
	}
}

// Run saves on every tick until ctx is canceled.
func (a *Autosaver) Run(ctx context.Context) {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	a.log.Debug("started, interval %s", a.interval)
	for {
		select {
		case <-ctx.Done():
			a.log.Debug("stopped")
			return
		case <-ticker.C:
			if _, err := a.SaveAll(ctx); err != nil && ctx.Err() == nil {
				a.log.Error("%v", err)
			}
		}
	}
}

// SaveAll saves every eligible document once and returns how many were
// saved. Failures do not stop the remaining saves; they are joined into
// the returned error.
func (a *Autosaver) SaveAll(ctx context.Context) (int, error) {
	var (
		saved int
		errs  []error
	)
	for _, doc := range a.docs.Modified() {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		if doc.Path() == "" {
			continue
		}
		if doc.ChangedOnDisk() {
			a.log.Warn("skipping %s: file changed on disk", doc.Path())
			continue
		}

		if err := doc.Save(ctx); err != nil {
			errs = append(errs, err)
			continue
		}
		saved++
		a.log.Debug("saved %s", doc.Path())
	}
	return saved, errors.Join(errs...)
}
