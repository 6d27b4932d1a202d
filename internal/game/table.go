package game

import (
	"errors"
	"fmt"
)

const (
	DefaultCountdown = 30
	// LockAt is the countdown value from which stakes are refused.
	LockAt = 5
	// DealAt is the countdown value that deals the round.
	DealAt = 3
)

var (
	ErrInvalidMove        = errors.New("invalid_move")
	ErrUnknownPlayer      = fmt.Errorf("%w: unknown_player", ErrInvalidMove)
	ErrStakeLocked        = fmt.Errorf("%w: stake_locked", ErrInvalidMove)
	ErrInvalidStake       = fmt.Errorf("%w: invalid_stake", ErrInvalidMove)
	ErrInsufficientWealth = fmt.Errorf("%w: insufficient_wealth", ErrInvalidMove)
	ErrNotInRound         = fmt.Errorf("%w: not_in_round", ErrInvalidMove)
	ErrNotYourTurn        = fmt.Errorf("%w: not_your_turn", ErrInvalidMove)
	ErrStaleTurn          = fmt.Errorf("%w: stale_turn", ErrInvalidMove)
	ErrActionNotAllowed   = fmt.Errorf("%w: action_not_allowed", ErrInvalidMove)
	ErrUnknownAction      = fmt.Errorf("%w: unknown_action", ErrInvalidMove)
)

type Action string

const (
	ActionHit        Action = "hit"
	ActionStand      Action = "stand"
	ActionDoubleDown Action = "doubledown"
	ActionSplit      Action = "split"
	ActionSurrender  Action = "surrender"
)

type Phase string

const (
	PhaseBetting  Phase = "betting"
	PhaseLocking  Phase = "locking"
	PhasePlaying  Phase = "playing"
	PhaseFinished Phase = "finished"
	PhaseStopped  Phase = "stopped"
)

type TableConfig struct {
	Countdown int
	// NewDeck supplies the shoe for each round. Defaults to NewDeck.
	NewDeck func() *Deck
}

// Table is the round state machine of one running game. It is not safe for
// concurrent use; a single owner serializes every call.
type Table struct {
	Name string

	cfg       TableConfig
	roster    []*Player
	seats     []*Seat
	deck      *Deck
	dealer    *Dealer
	countdown int
	stopped   bool
	dealt     bool
	finished  bool
	cur       int
	hand      int
	doubled   bool
	turn      uint64
	claimed   map[string]bool
}

func NewTable(name string, roster []*Player, cfg TableConfig) *Table {
	if cfg.Countdown <= 0 || cfg.Countdown > DefaultCountdown {
		cfg.Countdown = DefaultCountdown
	}
	if cfg.NewDeck == nil {
		cfg.NewDeck = NewDeck
	}
	t := &Table{
		Name:   name,
		cfg:    cfg,
		roster: append([]*Player(nil), roster...),
	}
	t.Reset()
	return t
}

// Reset starts a fresh betting window with a new shoe and dealer.
func (t *Table) Reset() {
	t.deck = t.cfg.NewDeck()
	t.dealer = NewDealer(t.deck)
	t.seats = nil
	t.countdown = t.cfg.Countdown
	t.stopped = false
	t.dealt = false
	t.finished = false
	t.cur, t.hand = 0, 0
	t.doubled = false
	t.claimed = map[string]bool{}
	t.turn++
}

// Tick advances the clock by one second. Once the countdown reaches the lock
// window a table without humans stops for good, a window without stakes
// restarts, and DealAt deals the round. A dealt round holds the clock at zero
// until Reset.
func (t *Table) Tick() error {
	if t.stopped {
		return nil
	}
	if t.countdown > LockAt {
		t.countdown--
		return nil
	}
	switch {
	case !t.hasHuman():
		t.stopped = true
		return nil
	case t.countdown == 0:
		return nil
	case len(t.seats) == 0:
		t.countdown = t.cfg.Countdown
		return nil
	case t.countdown == DealAt:
		if err := t.deal(); err != nil {
			t.stopped = true
			return err
		}
		if t.finished {
			return nil
		}
	}
	t.countdown--
	return nil
}

func (t *Table) deal() error {
	if err := t.dealer.BeginRound(t.seats); err != nil {
		return err
	}
	t.dealt = true
	t.cur, t.hand, t.doubled = 0, 0, false
	t.turn++
	return t.resolve()
}

// SetStake deducts amount from the player's wealth and gives them the next
// turn position. A player already staked this round is left untouched.
func (t *Table) SetStake(username string, amount int64) error {
	p := t.player(username)
	if p == nil {
		return ErrUnknownPlayer
	}
	if t.seatIndex(username) >= 0 {
		return nil
	}
	if t.stopped || t.dealt || t.countdown <= LockAt {
		return ErrStakeLocked
	}
	if amount <= 0 {
		return ErrInvalidStake
	}
	if amount > p.Wealth {
		return ErrInsufficientWealth
	}
	p.Wealth -= amount
	t.seats = append(t.seats, &Seat{Player: p, Stakes: []int64{amount}})
	return nil
}

func (t *Table) Act(username string, a Action) error {
	s, err := t.turnSeat(username)
	if err != nil {
		return err
	}
	switch a {
	case ActionHit:
		return t.hit(s)
	case ActionStand:
		t.settle(s, Score(s.Hands[t.hand]), false)
		if err := t.advance(); err != nil {
			return err
		}
		return t.resolve()
	case ActionDoubleDown:
		if !t.CanDoubleDown() {
			return ErrActionNotAllowed
		}
		s.Player.Wealth -= s.Stakes[t.hand]
		s.Stakes[t.hand] *= 2
		t.doubled = true
		return t.hit(s)
	case ActionSplit:
		if !t.CanSplit() {
			return ErrActionNotAllowed
		}
		return t.split(s)
	case ActionSurrender:
		if !t.CanSurrender() {
			return ErrActionNotAllowed
		}
		t.settle(s, 0, false)
		if err := t.advance(); err != nil {
			return err
		}
		return t.resolve()
	default:
		return ErrUnknownAction
	}
}

// draw takes the next shoe card; an exhausted shoe kills the table.
func (t *Table) draw() (Card, error) {
	c, err := t.dealer.Draw()
	if err != nil {
		t.stopped = true
	}
	return c, err
}

func (t *Table) hit(s *Seat) error {
	c, err := t.draw()
	if err != nil {
		return err
	}
	s.Hands[t.hand] = append(s.Hands[t.hand], c)
	t.turn++
	return t.resolve()
}

func (t *Table) split(s *Seat) error {
	first, err := t.draw()
	if err != nil {
		return err
	}
	second, err := t.draw()
	if err != nil {
		return err
	}
	s.Hands[1] = []Card{s.Hands[0][1], second}
	s.Hands[0] = []Card{s.Hands[0][0], first}
	s.Stakes = append(s.Stakes, s.Stakes[0])
	s.Player.Wealth -= s.Stakes[0]
	s.Split = true
	t.turn++
	return t.resolve()
}

// resolve settles the current hand while it can no longer be played and
// moves the turn on, stopping at the first hand that awaits a decision.
func (t *Table) resolve() error {
	for t.dealt && !t.finished {
		s := t.seats[t.cur]
		hand := s.Hands[t.hand]
		score := Score(hand)
		switch {
		case IsBlackjack(hand):
			t.settle(s, 21, !s.Split)
		case score > 21 || t.doubled:
			t.settle(s, score, false)
		case s.Split && t.hand == 0 && hand[0].Rank == Ace:
			t.settle(s, score, false)
			t.hand = 1
			second, bj := splitAceScore(s.Hands[1][1])
			t.settle(s, second, bj)
			if err := t.nextSeat(); err != nil {
				return err
			}
			continue
		default:
			return nil
		}
		if err := t.advance(); err != nil {
			return err
		}
	}
	return nil
}

// splitAceScore scores the second hand of split aces from its drawn card
// without further play.
func splitAceScore(c Card) (int, bool) {
	switch {
	case c.Rank >= Ten:
		return 21, true
	case c.Rank == Ace:
		return 12, false
	default:
		return int(c.Rank) + 11, false
	}
}

func (t *Table) settle(s *Seat, score int, blackjack bool) {
	s.Settlements = append(s.Settlements, Settlement{
		Stake:     s.Stakes[t.hand],
		Score:     score,
		Blackjack: blackjack,
	})
}

func (t *Table) advance() error {
	s := t.seats[t.cur]
	if s.Split && t.hand == 0 {
		t.hand = 1
		t.doubled = false
		t.turn++
		return nil
	}
	return t.nextSeat()
}

func (t *Table) nextSeat() error {
	t.hand = 0
	t.doubled = false
	t.turn++
	for t.cur++; t.cur < len(t.seats); t.cur++ {
		if !t.seats[t.cur].Left {
			return nil
		}
	}
	return t.finish()
}

func (t *Table) finish() error {
	t.cur = len(t.seats)
	if err := t.dealer.Play(); err != nil {
		t.stopped = true
		return err
	}
	t.evaluate()
	t.finished = true
	t.countdown = 0
	return nil
}

func (t *Table) evaluate() {
	score := t.dealer.Score()
	bj := t.dealer.Blackjack()
	for _, s := range t.seats {
		if s.Left {
			continue
		}
		for _, e := range s.Settlements {
			s.Payout += Payout(e, score, bj)
		}
		s.Player.Wealth += s.Payout
	}
}

// Payout is the amount returned to the player for one settled hand. Stakes
// are deducted when placed, so a lost hand pays zero.
func Payout(e Settlement, dealerScore int, dealerBlackjack bool) int64 {
	if dealerBlackjack {
		switch {
		case e.Blackjack:
			return e.Stake
		case e.Surrendered():
			return e.Stake / 2
		default:
			return 0
		}
	}
	switch {
	case e.Blackjack:
		return e.Stake * 5 / 2
	case e.Surrendered():
		return e.Stake / 2
	case e.Score > 21:
		return 0
	case dealerScore > 21 || e.Score > dealerScore:
		return e.Stake * 2
	case e.Score == dealerScore:
		return e.Stake
	default:
		return 0
	}
}

// Leave removes username from the roster. Before the deal the stake is
// refunded; during play the seat forfeits and the turn moves on if it was
// theirs. It returns the departing player, or nil if they were not seated.
func (t *Table) Leave(username string) (*Player, error) {
	p := t.player(username)
	if p == nil {
		return nil, nil
	}
	for i, r := range t.roster {
		if r == p {
			t.roster = append(t.roster[:i], t.roster[i+1:]...)
			break
		}
	}
	idx := t.seatIndex(username)
	if idx < 0 {
		return p, nil
	}
	s := t.seats[idx]
	switch {
	case !t.dealt:
		p.Wealth += s.TotalStake()
		t.seats = append(t.seats[:idx], t.seats[idx+1:]...)
	case !t.finished:
		s.Left = true
		if idx == t.cur {
			if err := t.nextSeat(); err != nil {
				return p, err
			}
			return p, t.resolve()
		}
	}
	return p, nil
}

// ClaimResult reports whether username still has to be shown the result of
// the finished round and marks it shown.
func (t *Table) ClaimResult(username string) bool {
	if !t.finished || t.claimed[username] {
		return false
	}
	t.claimed[username] = true
	return true
}

func (t *Table) CanDoubleDown() bool {
	s := t.current()
	if s == nil || t.doubled {
		return false
	}
	return len(s.Hands[t.hand]) == 2 && s.Player.Wealth >= s.Stakes[t.hand]
}

func (t *Table) CanSurrender() bool {
	s := t.current()
	return s != nil && len(s.Hands[t.hand]) == 2
}

// CanSplit allows splitting a true pair once per round.
func (t *Table) CanSplit() bool {
	s := t.current()
	if s == nil || s.Split || t.hand != 0 {
		return false
	}
	h := s.Hands[0]
	return len(h) == 2 && h[0].Rank == h[1].Rank && s.Player.Wealth >= s.Stakes[0]
}

func (t *Table) Phase() Phase {
	switch {
	case t.stopped:
		return PhaseStopped
	case t.finished:
		return PhaseFinished
	case t.dealt:
		return PhasePlaying
	case t.countdown <= LockAt:
		return PhaseLocking
	default:
		return PhaseBetting
	}
}

func (t *Table) Countdown() int { return t.countdown }
func (t *Table) Turn() uint64 { return t.turn }
func (t *Table) Finished() bool { return t.finished }
func (t *Table) Stopped() bool { return t.stopped }
func (t *Table) Dealer() *Dealer { return t.dealer }
func (t *Table) Roster() []*Player { return append([]*Player(nil), t.roster...) }

func (t *Table) Seats() []*Seat {
	return append([]*Seat(nil), t.seats...)
}

// Current returns the username whose hand is in play, or "".
func (t *Table) Current() (string, int) {
	if s := t.current(); s != nil {
		return s.Player.Username, t.hand
	}
	return "", 0
}

func (t *Table) Seat(username string) *Seat {
	if i := t.seatIndex(username); i >= 0 {
		return t.seats[i]
	}
	return nil
}

func (t *Table) HasHuman() bool {
	return t.hasHuman()
}

func (t *Table) hasHuman() bool {
	for _, p := range t.roster {
		if !p.Policy.IsBot() {
			return true
		}
	}
	return false
}

func (t *Table) current() *Seat {
	if t.stopped || !t.dealt || t.finished || t.cur >= len(t.seats) {
		return nil
	}
	return t.seats[t.cur]
}

func (t *Table) turnSeat(username string) (*Seat, error) {
	s := t.current()
	if s == nil {
		return nil, ErrNotInRound
	}
	if s.Player.Username != username {
		return nil, ErrNotYourTurn
	}
	return s, nil
}

func (t *Table) player(username string) *Player {
	for _, p := range t.roster {
		if p.Username == username {
			return p
		}
	}
	return nil
}

func (t *Table) seatIndex(username string) int {
	for i, s := range t.seats {
		if s.Player.Username == username {
			return i
		}
	}
	return -1
}
