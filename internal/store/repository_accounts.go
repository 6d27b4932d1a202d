package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

func (s *Store) LoadAccounts(ctx context.Context) ([]Account, error) {
	rows, err := s.Pool.Query(ctx, `SELECT username, secret FROM accounts ORDER BY created_at, username`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Account, error) {
		var a Account
		err := row.Scan(&a.Username, &a.Secret)
		return a, err
	})
}

func (s *Store) SaveAccounts(ctx context.Context, accounts []Account) error {
	rows := make([][]any, 0, len(accounts))
	for _, a := range accounts {
		rows = append(rows, []any{a.Username, a.Secret})
	}
	return s.replaceAll(ctx, "accounts", rows, "username", "secret")
}

func (s *Store) GetAccount(ctx context.Context, username string) (Account, error) {
	var a Account
	err := s.Pool.QueryRow(ctx, `SELECT username, secret FROM accounts WHERE username = $1`, username).
		Scan(&a.Username, &a.Secret)
	if errors.Is(err, pgx.ErrNoRows) {
		return Account{}, ErrNotFound
	}
	return a, err
}
