package service

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"tratativas/internal/staging"
	"tratativas/internal/storage"
)

// TempPrefix is the remote key prefix holding temporary objects subject
// to the periodic sweep. Published documents live under "documentos/"
// and are never swept.
const TempPrefix = "temp/"

// Sweeper purges stale temporary artifacts: files in the local staging
// area and objects under the remote temp prefix. Only artifacts older
// than minAge are deleted, so a run still in flight never loses its
// files to the sweep.
type Sweeper struct {
	stage    *staging.Stage
	store    storage.Storage
	log      *slog.Logger
	interval time.Duration
	minAge   time.Duration
}

// NewSweeper creates a Sweeper. interval is how often the periodic sweep
// fires; minAge is the minimum artifact age for deletion.
func NewSweeper(stage *staging.Stage, store storage.Storage, log *slog.Logger, interval, minAge time.Duration) *Sweeper {
	return &Sweeper{
		stage:    stage,
		store:    store,
		log:      log,
		interval: interval,
		minAge:   minAge,
	}
}

// Run sweeps once immediately and then on every tick until ctx is
// cancelled. Sweeps never overlap: the next tick is consumed only after
// the previous sweep returned.
func (s *Sweeper) Run(ctx context.Context) {
	s.Sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep performs one pass over local and remote temporary storage.
// Failures are logged and do not stop the rest of the pass.
func (s *Sweeper) Sweep(ctx context.Context) {
	cutoff := time.Now().Add(-s.minAge)
	removed := s.sweepLocal(cutoff)
	removed += s.sweepRemote(ctx, cutoff)
	if removed > 0 {
		s.log.Info("cleanup sweep finished", "removed", removed)
	}
}

func (s *Sweeper) sweepLocal(cutoff time.Time) int {
	infos, err := s.stage.List()
	if err != nil {
		s.log.Warn("cleanup could not list staging dir", "error", err)
		return 0
	}
	removed := 0
	for _, fi := range infos {
		if fi.ModTime.After(cutoff) {
			continue
		}
		if err := s.stage.Remove(fi.Path); err != nil {
			s.log.Warn("cleanup could not remove staged file", "path", fi.Path, "error", err)
			continue
		}
		removed++
	}
	return removed
}

func (s *Sweeper) sweepRemote(ctx context.Context, cutoff time.Time) int {
	objs, err := s.store.List(ctx, TempPrefix)
	if err != nil {
		s.log.Warn("cleanup could not list remote temp objects", "error", err)
		return 0
	}

	// Deletions are independent; run them concurrently with a small cap.
	var removed int
	var deleted = make([]bool, len(objs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, obj := range objs {
		if obj.LastModified.After(cutoff) {
			continue
		}
		g.Go(func() error {
			if err := s.store.Delete(gctx, obj.Key); err != nil {
				s.log.Warn("cleanup could not remove remote object", "key", obj.Key, "error", err)
				return nil
			}
			deleted[i] = true
			return nil
		})
	}
	_ = g.Wait()
	for _, ok := range deleted {
		if ok {
			removed++
		}
	}
	return removed
}
