package registry

import (
	"context"
	"slices"

	"blackjack-server/internal/events"
	"blackjack-server/internal/game"
	"blackjack-server/internal/table"

	"github.com/rs/zerolog/log"
)

// StartGame promotes a room to a running table. Starting a room that is
// already a table is a no-op so every member may send it.
func (r *Registry) StartGame(ctx context.Context, name string) error {
	if name == "" {
		return ErrIllegalArgument
	}
	r.mu.Lock()
	room := r.roomLocked(name)
	if room == nil {
		started := r.tableIndexLocked(name) >= 0
		r.mu.Unlock()
		if started {
			return nil
		}
		return ErrRoomNotFound
	}
	r.rooms = slices.DeleteFunc(r.rooms, func(x *game.Room) bool { return x == room })
	roster := room.Players()
	rt := table.Start(name, roster, r.opts.Table, table.Hooks{
		OnDealt:   r.onDealt,
		OnSettled: r.onSettled,
		OnStopped: r.onStopped,
	})
	r.tables = append(r.tables, rt)
	humans := 0
	for _, p := range roster {
		if !p.Policy.IsBot() {
			r.seatedAt[p.Username] = name
			humans++
		}
	}
	r.mu.Unlock()

	r.pub.Publish(ctx, events.New(events.TypeTableStarted, name, "", map[string]any{
		"players": len(roster),
		"humans":  humans,
	}))
	return nil
}

func (r *Registry) GameStarted(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tableIndexLocked(name) >= 0
}

// InitializeGame returns username's global score and the other roster
// members, most recently seated first.
func (r *Registry) InitializeGame(ctx context.Context, name, username string) (int64, []string, error) {
	rt, err := r.runtime(name)
	if err != nil {
		return 0, nil, err
	}
	sum, err := rt.Summary(ctx)
	if err != nil {
		return 0, nil, err
	}
	score, err := r.GlobalScore(ctx, username)
	if err != nil {
		return 0, nil, err
	}
	others := make([]string, 0, len(sum.Players))
	for i := len(sum.Players) - 1; i >= 0; i-- {
		if u := sum.Players[i].Username; u != username {
			others = append(others, u)
		}
	}
	return score, others, nil
}

// GameState polls the table for username. The global score accompanies the
// first look at a finished round.
func (r *Registry) GameState(ctx context.Context, name, username string) (table.Poll, int64, error) {
	rt, err := r.runtime(name)
	if err != nil {
		return table.Poll{}, 0, err
	}
	poll, err := rt.Poll(ctx, username)
	if err != nil {
		return table.Poll{}, 0, err
	}
	if !poll.FirstResult {
		return poll, 0, nil
	}
	score, err := r.GlobalScore(ctx, username)
	if err != nil {
		return table.Poll{}, 0, err
	}
	return poll, score, nil
}

// LeaveTable removes username from the table and persists a human's wealth.
func (r *Registry) LeaveTable(ctx context.Context, name, username string) error {
	if name == "" || username == "" {
		return ErrIllegalArgument
	}
	r.mu.Lock()
	if r.seatedAt[username] == name {
		delete(r.seatedAt, username)
	}
	r.mu.Unlock()

	rt, err := r.runtime(name)
	if err != nil {
		return err
	}
	wealth, ok, leaveErr := rt.Leave(ctx, username)
	if !ok {
		return leaveErr
	}
	if leaveErr != nil {
		log.Warn().Err(leaveErr).Str("table", name).Str("user", username).Msg("table_leave_advance_failed")
	}
	log.Info().Str("table", name).Str("user", username).Int64("wealth", wealth).Msg("table_left")
	return r.setGlobalScore(ctx, username, wealth)
}

func (r *Registry) SetStake(ctx context.Context, name, username string, amount int64) error {
	rt, err := r.runtime(name)
	if err != nil {
		return err
	}
	return rt.Stake(ctx, username, amount)
}

func (r *Registry) Act(ctx context.Context, name, username string, action game.Action) error {
	rt, err := r.runtime(name)
	if err != nil {
		return err
	}
	return rt.Act(ctx, username, action)
}

// AllScores returns every roster member with the score of each hand.
func (r *Registry) AllScores(ctx context.Context, name string) ([]game.PlayerScore, error) {
	rt, err := r.runtime(name)
	if err != nil {
		return nil, err
	}
	sum, err := rt.Summary(ctx)
	if err != nil {
		return nil, err
	}
	return sum.Players, nil
}

// Tables summarizes every running table in start order.
func (r *Registry) Tables(ctx context.Context) []table.Summary {
	r.mu.Lock()
	rts := slices.Clone(r.tables)
	r.mu.Unlock()

	out := make([]table.Summary, 0, len(rts))
	for _, rt := range rts {
		sum, err := rt.Summary(ctx)
		if err != nil {
			continue
		}
		out = append(out, sum)
	}
	return out
}

// Close stops every table runtime.
func (r *Registry) Close() {
	r.mu.Lock()
	rts := r.tables
	r.tables = nil
	r.mu.Unlock()
	for _, rt := range rts {
		rt.Close()
	}
}

func (r *Registry) runtime(name string) (*table.Runtime, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.tableIndexLocked(name)
	if i < 0 {
		return nil, ErrTableNotFound
	}
	return r.tables[i], nil
}

func (r *Registry) tableIndexLocked(name string) int {
	return slices.IndexFunc(r.tables, func(rt *table.Runtime) bool { return rt.Name() == name })
}

// The hooks below run on a table goroutine.

func (r *Registry) onDealt(name string) {
	r.pub.Publish(context.Background(), events.New(events.TypeRoundDealt, name, "", nil))
}

func (r *Registry) onSettled(name string, results []table.Result) {
	ctx := context.Background()
	data := make([]map[string]any, 0, len(results))
	for _, res := range results {
		data = append(data, map[string]any{
			"user":   res.Username,
			"policy": res.Policy.String(),
			"stake":  res.Stake,
			"payout": res.Payout,
			"wealth": res.Wealth,
		})
		if res.Policy.IsBot() {
			continue
		}
		if err := r.setGlobalScore(ctx, res.Username, res.Wealth); err != nil {
			log.Error().Err(err).Str("table", name).Str("user", res.Username).Msg("score_save_failed")
		}
	}
	r.pub.Publish(ctx, events.New(events.TypeRoundSettled, name, "", map[string]any{"results": data}))
}

func (r *Registry) onStopped(name string) {
	r.pub.Publish(context.Background(), events.New(events.TypeTableStopped, name, "", nil))
}
