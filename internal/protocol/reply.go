package protocol

import (
	"strconv"
	"strings"

	"blackjack-server/internal/game"
	"blackjack-server/internal/store"
)

const NullUser = "null"

func Bool(b bool) string {
	return strconv.FormatBool(b)
}

// Auth answers an auth request with the username, or "null" on failure.
func Auth(username string, ok bool) string {
	if !ok {
		return NullUser
	}
	return username
}

func ActiveUsers(users []string) string {
	return joinTerminated(users, ":")
}

func ActiveRooms(rooms []string) string {
	return joinTerminated(rooms, "@")
}

func Chat(lines []string) string {
	return joinTerminated(lines, "@")
}

func Scoreboard(scores []store.Score) string {
	var b strings.Builder
	for _, s := range scores {
		b.WriteString(s.Username)
		b.WriteByte(':')
		b.WriteString(strconv.FormatInt(s.Score, 10))
		b.WriteByte('@')
	}
	return b.String()
}

// InitializeGame renders "score@self@other@...@".
func InitializeGame(score int64, self string, others []string) string {
	return strconv.FormatInt(score, 10) + "@" + self + "@" + joinTerminated(others, "@")
}

// AllScores renders "user/hand0/hand1:" per player.
func AllScores(players []game.PlayerScore) string {
	var b strings.Builder
	for _, p := range players {
		b.WriteString(p.Username)
		b.WriteByte('/')
		b.WriteString(strconv.Itoa(p.Scores[0]))
		b.WriteByte('/')
		b.WriteString(strconv.Itoa(p.Scores[1]))
		b.WriteByte(':')
	}
	return b.String()
}

// GameState renders a table view. Before the round reaches countdown zero
// only the countdown is sent. The first poll of a finished round is
// prefixed with "result#" and, for a seated viewer, carries the global score
// and the settlement "wealth:blackjack:score:stake".
func GameState(v game.View, firstResult bool, globalScore int64) string {
	if v.Countdown != 0 {
		return "countdown:" + strconv.Itoa(v.Countdown)
	}
	state := encodeState(v)
	if v.Phase != game.PhaseFinished || !firstResult {
		return state
	}
	if v.Result == nil {
		return "result#" + state
	}
	var b strings.Builder
	b.WriteString("result#")
	b.WriteString(strconv.FormatInt(globalScore, 10))
	b.WriteString(state)
	b.WriteByte('#')
	b.WriteString(strconv.FormatInt(v.Wealth, 10))
	b.WriteByte(':')
	b.WriteString(Bool(v.Result.Blackjack))
	b.WriteByte(':')
	b.WriteString(strconv.Itoa(v.Result.Score))
	b.WriteByte(':')
	b.WriteString(strconv.FormatInt(v.Result.Stake, 10))
	return b.String()
}

// encodeState renders "@cur:dd:split:sur@hands@dealer@stakes" where each hand
// is its card ids followed by '&'.
func encodeState(v game.View) string {
	var b strings.Builder
	b.WriteByte('@')
	b.WriteString(v.Current)
	for _, flag := range []bool{v.CanDouble, v.CanSplit, v.CanSurrender} {
		b.WriteByte(':')
		b.WriteString(Bool(flag))
	}
	b.WriteByte('@')
	for _, h := range v.Hands {
		writeCards(&b, h)
		b.WriteByte('&')
	}
	b.WriteByte('@')
	b.WriteString(Bool(!v.DealerHidden))
	b.WriteByte('&')
	writeCards(&b, v.Dealer)
	b.WriteByte('@')
	for _, s := range v.Stakes {
		b.WriteString(s.Username)
		b.WriteByte('&')
		b.WriteString(strconv.FormatInt(s.Stake, 10))
		b.WriteByte(':')
	}
	return b.String()
}

func writeCards(b *strings.Builder, cards []game.Card) {
	for _, c := range cards {
		b.WriteString(strconv.Itoa(c.ImageID()))
		b.WriteByte(':')
	}
}

func joinTerminated(items []string, sep string) string {
	var b strings.Builder
	for _, s := range items {
		b.WriteString(s)
		b.WriteString(sep)
	}
	return b.String()
}
