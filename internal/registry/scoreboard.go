package registry

import (
	"cmp"
	"context"
	"slices"

	"blackjack-server/internal/store"
)

// Scoreboard reloads the scores and returns them best first.
func (r *Registry) Scoreboard(ctx context.Context) ([]store.Score, error) {
	r.scoreMu.Lock()
	defer r.scoreMu.Unlock()
	scores, err := r.st.LoadScores(ctx)
	if err != nil {
		return nil, err
	}
	sortScores(scores)
	return scores, nil
}

// GlobalScore is username's persisted score, 0 when absent.
func (r *Registry) GlobalScore(ctx context.Context, username string) (int64, error) {
	scores, err := r.Scoreboard(ctx)
	if err != nil {
		return 0, err
	}
	for _, s := range scores {
		if s.Username == username {
			return s.Score, nil
		}
	}
	return 0, nil
}

func (r *Registry) setGlobalScore(ctx context.Context, username string, score int64) error {
	return r.updateScores(ctx, func(m map[string]int64) {
		if _, ok := m[username]; ok {
			m[username] = score
		}
	})
}

// updateScores is a load-modify-save of the whole scoreboard.
func (r *Registry) updateScores(ctx context.Context, fn func(map[string]int64)) error {
	r.scoreMu.Lock()
	defer r.scoreMu.Unlock()
	scores, err := r.st.LoadScores(ctx)
	if err != nil {
		return err
	}
	m := make(map[string]int64, len(scores))
	for _, s := range scores {
		m[s.Username] = s.Score
	}
	fn(m)
	out := make([]store.Score, 0, len(m))
	for u, v := range m {
		out = append(out, store.Score{Username: u, Score: v})
	}
	sortScores(out)
	return r.st.SaveScores(ctx, out)
}

func sortScores(scores []store.Score) {
	slices.SortFunc(scores, func(a, b store.Score) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.Username, b.Username)
	})
}
