package registry

import (
	"context"
	"slices"
	"strings"

	"blackjack-server/internal/events"
	"blackjack-server/internal/store"

	"github.com/rs/zerolog/log"
)

// Register creates an account and seeds its scoreboard entry.
func (r *Registry) Register(ctx context.Context, username, password string) error {
	if err := validName(username); err != nil {
		return err
	}
	if password == "" || strings.ContainsAny(password, "\n") {
		return ErrIllegalArgument
	}
	secret, err := store.HashSecret(password)
	if err != nil {
		return err
	}

	r.mu.Lock()
	if r.findAccount(username) >= 0 {
		r.mu.Unlock()
		return ErrDuplicateUser
	}
	r.accounts = append(r.accounts, store.Account{Username: username, Secret: secret})
	snapshot := slices.Clone(r.accounts)
	r.mu.Unlock()

	if err := r.st.SaveAccounts(ctx, snapshot); err != nil {
		return err
	}
	start := r.opts.StartingScore
	if err := r.updateScores(ctx, func(m map[string]int64) {
		if _, ok := m[username]; !ok {
			m[username] = start
		}
	}); err != nil {
		return err
	}
	log.Info().Str("user", username).Msg("user_registered")
	return nil
}

func (r *Registry) DuplicateUsername(username string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.findAccount(username) >= 0
}

// Authenticate checks credentials and opens the single session allowed per
// username.
func (r *Registry) Authenticate(ctx context.Context, username, password string) error {
	if username == "" {
		return ErrIllegalArgument
	}
	r.mu.Lock()
	i := r.findAccount(username)
	if i < 0 || !store.VerifySecret(r.accounts[i].Secret, password) {
		r.mu.Unlock()
		return ErrBadCredentials
	}
	if slices.Contains(r.active, username) {
		r.mu.Unlock()
		return ErrAlreadyLoggedIn
	}
	r.active = append(r.active, username)
	r.mu.Unlock()

	log.Info().Str("user", username).Msg("user_login")
	r.pub.Publish(ctx, events.New(events.TypeUserLogin, "", username, nil))
	return nil
}

func (r *Registry) Logout(ctx context.Context, username string) error {
	if username == "" {
		return ErrIllegalArgument
	}
	r.mu.Lock()
	i := slices.Index(r.active, username)
	if i >= 0 {
		r.active = slices.Delete(r.active, i, i+1)
	}
	r.mu.Unlock()
	if i < 0 {
		return nil
	}
	log.Info().Str("user", username).Msg("user_logout")
	r.pub.Publish(ctx, events.New(events.TypeUserLogout, "", username, nil))
	return nil
}

// DeleteUser removes the account, its score and any session.
func (r *Registry) DeleteUser(ctx context.Context, username string) error {
	if username == "" {
		return ErrIllegalArgument
	}
	r.mu.Lock()
	i := r.findAccount(username)
	if i >= 0 {
		r.accounts = slices.Delete(r.accounts, i, i+1)
	}
	snapshot := slices.Clone(r.accounts)
	r.mu.Unlock()
	if i < 0 {
		return nil
	}
	if err := r.Disconnect(ctx, username); err != nil {
		return err
	}
	if err := r.st.SaveAccounts(ctx, snapshot); err != nil {
		return err
	}
	log.Info().Str("user", username).Msg("user_deleted")
	return r.updateScores(ctx, func(m map[string]int64) { delete(m, username) })
}

func (r *Registry) ActiveUsers() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.active)
}

func (r *Registry) LoggedIn(username string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Contains(r.active, username)
}

// Disconnect logs username out and removes them from any room or table.
func (r *Registry) Disconnect(ctx context.Context, username string) error {
	if err := r.Logout(ctx, username); err != nil {
		return err
	}
	r.mu.Lock()
	for _, room := range r.rooms {
		room.Remove(username)
	}
	tableName := r.seatedAt[username]
	r.mu.Unlock()
	if tableName == "" {
		return nil
	}
	return r.LeaveTable(ctx, tableName, username)
}

func (r *Registry) findAccount(username string) int {
	for i, a := range r.accounts {
		if a.Username == username {
			return i
		}
	}
	return -1
}
