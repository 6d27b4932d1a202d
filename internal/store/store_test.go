package store_test

import (
	"context"
	"errors"
	"testing"

	"blackjack-server/internal/store"
	"blackjack-server/internal/testutil"
)

func TestStoreAccountsAndScores(t *testing.T) {
	st, cleanup := testutil.OpenTestStore(t)
	defer cleanup()
	ctx := context.Background()

	if err := st.SaveAccounts(ctx, []store.Account{{Username: "alice", Secret: "x"}}); err != nil {
		t.Fatalf("SaveAccounts: %v", err)
	}
	a, err := st.GetAccount(ctx, "alice")
	if err != nil || a.Secret != "x" {
		t.Fatalf("GetAccount = %+v err=%v", a, err)
	}
	if _, err := st.GetAccount(ctx, "ghost"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := st.SaveScores(ctx, []store.Score{{Username: "bob", Score: 10}, {Username: "alice", Score: 900}}); err != nil {
		t.Fatalf("SaveScores: %v", err)
	}
	if err := st.SaveScores(ctx, []store.Score{{Username: "alice", Score: 650}}); err != nil {
		t.Fatalf("SaveScores replace: %v", err)
	}
	scores, err := st.LoadScores(ctx)
	if err != nil || len(scores) != 1 || scores[0].Score != 650 {
		t.Fatalf("scores = %+v err=%v", scores, err)
	}
}
