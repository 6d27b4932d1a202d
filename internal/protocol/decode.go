package protocol

import (
	"fmt"
	"strconv"
	"strings"

	"blackjack-server/internal/game"
)

// State is a decoded game state reply as a client sees it.
type State struct {
	Countdown     int
	Current       string
	CanDouble     bool
	CanSplit      bool
	CanSurrender  bool
	Hands         [][]game.Card
	DealerVisible bool
	Dealer        []game.Card
	Stakes        []game.SeatStake

	Result      bool
	GlobalScore int64
	Outcome     *Outcome
}

// Outcome is the settlement block of a result reply.
type Outcome struct {
	Wealth    int64
	Blackjack bool
	Score     int
	Stake     int64
}

// CardFromImageID inverts game.Card.ImageID. Id 0 is a face-down card.
func CardFromImageID(id int) game.Card {
	if id <= 0 {
		return game.Card{}
	}
	return game.Card{Rank: game.Rank((id-1)%13 + 1), Suit: game.Suit((id - 1) / 13)}
}

func DecodeState(reply string) (State, error) {
	var st State
	if rest, ok := strings.CutPrefix(reply, "countdown:"); ok {
		n, err := strconv.Atoi(rest)
		if err != nil {
			return st, fmt.Errorf("%w: countdown %q", ErrMalformed, rest)
		}
		st.Countdown = n
		return st, nil
	}

	body := reply
	if rest, ok := strings.CutPrefix(reply, "result#"); ok {
		st.Result = true
		body = rest
		if !strings.HasPrefix(rest, "@") {
			scoreText, tail, _ := strings.Cut(rest, "@")
			score, err := strconv.ParseInt(scoreText, 10, 64)
			if err != nil {
				return st, fmt.Errorf("%w: global score %q", ErrMalformed, scoreText)
			}
			st.GlobalScore = score
			body = "@" + tail
			if i := strings.LastIndexByte(body, '#'); i >= 0 {
				out, err := decodeOutcome(body[i+1:])
				if err != nil {
					return st, err
				}
				st.Outcome = &out
				body = body[:i]
			}
		}
	}

	groups := strings.Split(body, "@")
	if len(groups) != 5 || groups[0] != "" {
		return st, fmt.Errorf("%w: state has %d groups", ErrMalformed, len(groups))
	}
	head := strings.Split(groups[1], ":")
	if len(head) != 4 {
		return st, fmt.Errorf("%w: state header %q", ErrMalformed, groups[1])
	}
	st.Current = head[0]
	st.CanDouble = head[1] == "true"
	st.CanSplit = head[2] == "true"
	st.CanSurrender = head[3] == "true"

	for _, h := range strings.Split(groups[2], "&") {
		if h == "" {
			continue
		}
		cards, err := decodeCards(h)
		if err != nil {
			return st, err
		}
		st.Hands = append(st.Hands, cards)
	}

	visible, cards, ok := strings.Cut(groups[3], "&")
	if !ok {
		return st, fmt.Errorf("%w: dealer %q", ErrMalformed, groups[3])
	}
	st.DealerVisible = visible == "true"
	dealer, err := decodeCards(cards)
	if err != nil {
		return st, err
	}
	st.Dealer = dealer

	for _, s := range strings.Split(groups[4], ":") {
		if s == "" {
			continue
		}
		user, amount, _ := strings.Cut(s, "&")
		v, err := strconv.ParseInt(amount, 10, 64)
		if err != nil {
			return st, fmt.Errorf("%w: stake %q", ErrMalformed, s)
		}
		st.Stakes = append(st.Stakes, game.SeatStake{Username: user, Stake: v})
	}
	return st, nil
}

// Hand returns the viewer's first hand.
func (s State) Hand() []game.Card {
	if len(s.Hands) == 0 {
		return nil
	}
	return s.Hands[0]
}

func (s State) Staked(username string) bool {
	for _, st := range s.Stakes {
		if st.Username == username {
			return true
		}
	}
	return false
}

func decodeCards(s string) ([]game.Card, error) {
	var out []game.Card
	for _, f := range strings.Split(s, ":") {
		if f == "" {
			continue
		}
		id, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("%w: card %q", ErrMalformed, f)
		}
		out = append(out, CardFromImageID(id))
	}
	return out, nil
}

func decodeOutcome(s string) (Outcome, error) {
	f := strings.Split(s, ":")
	if len(f) != 4 {
		return Outcome{}, fmt.Errorf("%w: outcome %q", ErrMalformed, s)
	}
	wealth, err1 := strconv.ParseInt(f[0], 10, 64)
	score, err2 := strconv.Atoi(f[2])
	stake, err3 := strconv.ParseInt(f[3], 10, 64)
	if err1 != nil || err2 != nil || err3 != nil {
		return Outcome{}, fmt.Errorf("%w: outcome %q", ErrMalformed, s)
	}
	return Outcome{Wealth: wealth, Blackjack: f[1] == "true", Score: score, Stake: stake}, nil
}
