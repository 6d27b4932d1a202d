package store

import (
	"context"

	"github.com/jackc/pgx/v5"
)

func (s *Store) LoadScores(ctx context.Context) ([]Score, error) {
	rows, err := s.Pool.Query(ctx, `SELECT username, score FROM scores ORDER BY score DESC, username`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Score, error) {
		var sc Score
		err := row.Scan(&sc.Username, &sc.Score)
		return sc, err
	})
}

func (s *Store) SaveScores(ctx context.Context, scores []Score) error {
	rows := make([][]any, 0, len(scores))
	for _, sc := range scores {
		rows = append(rows, []any{sc.Username, sc.Score})
	}
	return s.replaceAll(ctx, "scores", rows, "username", "score")
}
