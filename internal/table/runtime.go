// Package table runs one game.Table per goroutine. Clock ticks, player and
// bot actions, stakes, departures and resets are all queued to that goroutine.
package table

import (
	"context"
	"errors"
	"sync"
	"time"

	"blackjack-server/internal/bot"
	"blackjack-server/internal/game"

	"github.com/rs/zerolog/log"
)

var ErrClosed = errors.New("table_closed")

type Options struct {
	Countdown   int
	Tick        time.Duration
	SettleDelay time.Duration
	BotThink    time.Duration
	BotStake    int64
	BotStakeAt  int
	NewDeck     func() *game.Deck
}

func (o Options) withDefaults() Options {
	if o.Countdown <= 0 || o.Countdown > game.DefaultCountdown {
		o.Countdown = game.DefaultCountdown
	}
	if o.Tick <= 0 {
		o.Tick = time.Second
	}
	if o.SettleDelay <= 0 {
		o.SettleDelay = 400 * time.Millisecond
	}
	if o.BotThink < 0 {
		o.BotThink = 0
	}
	if o.BotStake <= 0 {
		o.BotStake = 100
	}
	if o.BotStakeAt <= 0 {
		o.BotStakeAt = 20
	}
	if o.BotStakeAt >= o.Countdown {
		o.BotStakeAt = o.Countdown - 1
	}
	return o
}

// Hooks are invoked on the table goroutine and must not call back into the
// Runtime.
type Hooks struct {
	OnDealt   func(table string)
	OnSettled func(table string, results []Result)
	OnStopped func(table string)
}

type Result struct {
	Username string
	Policy   game.Policy
	Stake    int64
	Payout   int64
	Wealth   int64
}

// Poll is a view together with whether this is the viewer's first look at
// the finished round.
type Poll struct {
	View        game.View
	FirstResult bool
}

type Summary struct {
	Name      string
	Phase     game.Phase
	Countdown int
	Humans    int
	Players   []game.PlayerScore
}

type Runtime struct {
	name  string
	opts  Options
	hooks Hooks
	tbl   *game.Table

	cmds      chan func()
	done      chan struct{}
	closeOnce sync.Once

	dealtSeen    bool
	resetPending bool
	stopSeen     bool
	botTurn      uint64
}

func Start(name string, roster []*game.Player, opts Options, hooks Hooks) *Runtime {
	opts = opts.withDefaults()
	r := &Runtime{
		name:  name,
		opts:  opts,
		hooks: hooks,
		tbl:   game.NewTable(name, roster, game.TableConfig{Countdown: opts.Countdown, NewDeck: opts.NewDeck}),
		cmds:  make(chan func()),
		done:  make(chan struct{}),
	}
	go r.run()
	log.Info().Str("table", name).Int("players", len(roster)).Msg("table_started")
	return r
}

func (r *Runtime) Name() string {
	return r.name
}

func (r *Runtime) Close() {
	r.closeOnce.Do(func() {
		close(r.done)
		log.Info().Str("table", r.name).Msg("table_closed")
	})
}

func (r *Runtime) run() {
	ticker := time.NewTicker(r.opts.Tick)
	defer ticker.Stop()
	for {
		select {
		case <-r.done:
			return
		case fn := <-r.cmds:
			fn()
		case <-ticker.C:
			r.tick()
		}
		r.observe()
	}
}

func (r *Runtime) tick() {
	if err := r.tbl.Tick(); err != nil {
		log.Error().Err(err).Str("table", r.name).Msg("table_clock_failed")
		return
	}
	if r.tbl.Phase() == game.PhaseBetting && r.tbl.Countdown() == r.opts.BotStakeAt {
		r.stakeBots()
	}
}

func (r *Runtime) stakeBots() {
	for _, p := range r.tbl.Roster() {
		if !p.Policy.IsBot() || r.tbl.Seat(p.Username) != nil {
			continue
		}
		if err := r.tbl.SetStake(p.Username, r.opts.BotStake); err != nil {
			log.Debug().Err(err).Str("table", r.name).Str("user", p.Username).Msg("bot_stake_rejected")
		}
	}
}

// observe reacts to state changes after every command or tick: it reports
// deals and stops, schedules the post-round reset and the next bot decision.
func (r *Runtime) observe() {
	switch r.tbl.Phase() {
	case game.PhaseStopped:
		if !r.stopSeen {
			r.stopSeen = true
			log.Warn().Str("table", r.name).Int("countdown", r.tbl.Countdown()).Msg("table_clock_stopped")
			if r.hooks.OnStopped != nil {
				r.hooks.OnStopped(r.name)
			}
		}
		return
	case game.PhaseFinished:
		if !r.resetPending {
			r.resetPending = true
			r.settled()
			time.AfterFunc(r.opts.SettleDelay, func() { r.post(r.reset) })
		}
		return
	case game.PhasePlaying:
		if !r.dealtSeen {
			r.dealtSeen = true
			if r.hooks.OnDealt != nil {
				r.hooks.OnDealt(r.name)
			}
		}
		r.scheduleBot()
	}
}

func (r *Runtime) settled() {
	results := make([]Result, 0, len(r.tbl.Seats()))
	for _, s := range r.tbl.Seats() {
		if s.Left {
			continue
		}
		results = append(results, Result{
			Username: s.Player.Username,
			Policy:   s.Player.Policy,
			Stake:    s.TotalStake(),
			Payout:   s.Payout,
			Wealth:   s.Player.Wealth,
		})
	}
	d := r.tbl.Dealer()
	log.Info().
		Str("table", r.name).
		Int("dealer_score", d.Score()).
		Bool("dealer_blackjack", d.Blackjack()).
		Int("seats", len(results)).
		Msg("round_settled")
	metricRoundsSettled.Add(1)
	if r.hooks.OnSettled != nil {
		r.hooks.OnSettled(r.name, results)
	}
}

func (r *Runtime) reset() {
	r.tbl.Reset()
	r.resetPending = false
	r.dealtSeen = false
	r.stopSeen = false
	log.Debug().Str("table", r.name).Msg("table_reset")
}

func (r *Runtime) scheduleBot() {
	user, _ := r.tbl.Current()
	p := r.player(user)
	if p == nil || !p.Policy.IsBot() || !r.tbl.HasHuman() {
		return
	}
	token := r.tbl.Turn()
	if r.botTurn == token {
		return
	}
	r.botTurn = token
	time.AfterFunc(r.opts.BotThink, func() {
		r.post(func() { r.botAct(p, token) })
	})
}

// botAct runs one bot decision captured at token. Any move since then makes
// it stale.
func (r *Runtime) botAct(p *game.Player, token uint64) {
	if r.tbl.Turn() != token {
		log.Debug().Err(game.ErrStaleTurn).Str("table", r.name).Str("user", p.Username).Msg("bot_action_dropped")
		return
	}
	action, ok := bot.Decide(p.Policy, p.Username, r.tbl.ViewFor(p.Username))
	if !ok {
		return
	}
	if err := r.tbl.Act(p.Username, action); err != nil {
		metricActionsRejected.Add(1)
		log.Warn().Err(err).Str("table", r.name).Str("user", p.Username).Str("action", string(action)).Msg("bot_action_rejected")
		return
	}
	log.Debug().Str("table", r.name).Str("user", p.Username).Str("action", string(action)).Msg("bot_action")
}

func (r *Runtime) player(username string) *game.Player {
	if username == "" {
		return nil
	}
	for _, p := range r.tbl.Roster() {
		if p.Username == username {
			return p
		}
	}
	return nil
}

// post queues fn from a timer goroutine; it is dropped once the table closes.
func (r *Runtime) post(fn func()) {
	select {
	case r.cmds <- fn:
	case <-r.done:
	}
}

// do runs fn on the table goroutine and waits for it.
func (r *Runtime) do(ctx context.Context, fn func()) error {
	select {
	case <-r.done:
		return ErrClosed
	default:
	}
	finished := make(chan struct{})
	select {
	case r.cmds <- func() { fn(); close(finished) }:
	case <-r.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	<-finished
	return nil
}

func (r *Runtime) Stake(ctx context.Context, username string, amount int64) error {
	var err error
	if derr := r.do(ctx, func() { err = r.tbl.SetStake(username, amount) }); derr != nil {
		return derr
	}
	return err
}

func (r *Runtime) Act(ctx context.Context, username string, action game.Action) error {
	var err error
	if derr := r.do(ctx, func() { err = r.tbl.Act(username, action) }); derr != nil {
		return derr
	}
	if err != nil {
		metricActionsRejected.Add(1)
	}
	return err
}

// ActAt applies action only while the turn token is still token.
func (r *Runtime) ActAt(ctx context.Context, username string, action game.Action, token uint64) error {
	var err error
	derr := r.do(ctx, func() {
		if r.tbl.Turn() != token {
			err = game.ErrStaleTurn
			return
		}
		err = r.tbl.Act(username, action)
	})
	if derr != nil {
		return derr
	}
	return err
}

// Leave removes username and returns their remaining wealth.
func (r *Runtime) Leave(ctx context.Context, username string) (int64, bool, error) {
	var (
		p   *game.Player
		err error
	)
	if derr := r.do(ctx, func() { p, err = r.tbl.Leave(username) }); derr != nil {
		return 0, false, derr
	}
	if p == nil {
		return 0, false, err
	}
	return p.Wealth, true, err
}

func (r *Runtime) View(ctx context.Context, username string) (game.View, error) {
	var v game.View
	err := r.do(ctx, func() { v = r.tbl.ViewFor(username) })
	return v, err
}

// Poll returns the view for username and claims the round result for them
// when the round is finished and they have not seen it yet.
func (r *Runtime) Poll(ctx context.Context, username string) (Poll, error) {
	var p Poll
	err := r.do(ctx, func() {
		p.View = r.tbl.ViewFor(username)
		p.FirstResult = r.tbl.ClaimResult(username)
	})
	return p, err
}

func (r *Runtime) Summary(ctx context.Context) (Summary, error) {
	var s Summary
	err := r.do(ctx, func() {
		v := r.tbl.ViewFor("")
		s = Summary{Name: r.name, Phase: v.Phase, Countdown: v.Countdown, Players: v.Players}
		for _, p := range v.Players {
			if !p.Policy.IsBot() {
				s.Humans++
			}
		}
	})
	return s, err
}
