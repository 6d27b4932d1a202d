package registry

import (
	"context"
	"errors"
	"slices"
	"time"

	"blackjack-server/internal/game"
	"blackjack-server/internal/table"

	"github.com/rs/zerolog/log"
)

// StartJanitor periodically closes tables whose clock stopped and that no
// human is sitting at.
func (r *Registry) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.Sweep(ctx)
			}
		}
	}()
}

// Sweep runs one janitor pass and returns the names of the reaped tables.
func (r *Registry) Sweep(ctx context.Context) []string {
	r.mu.Lock()
	rts := slices.Clone(r.tables)
	r.mu.Unlock()

	var dead []*table.Runtime
	for _, rt := range rts {
		sum, err := rt.Summary(ctx)
		if errors.Is(err, table.ErrClosed) || (err == nil && sum.Phase == game.PhaseStopped && sum.Humans == 0) {
			dead = append(dead, rt)
		}
	}
	if len(dead) == 0 {
		return nil
	}

	names := make([]string, 0, len(dead))
	r.mu.Lock()
	r.tables = slices.DeleteFunc(r.tables, func(rt *table.Runtime) bool { return slices.Contains(dead, rt) })
	r.mu.Unlock()
	for _, rt := range dead {
		rt.Close()
		names = append(names, rt.Name())
		log.Info().Str("table", rt.Name()).Msg("table_reaped")
	}
	return names
}
