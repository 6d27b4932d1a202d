package bot

import (
	"math/rand"
	"regexp"
	"testing"

	"blackjack-server/internal/game"
)

func TestDecideHandSimple(t *testing.T) {
	cases := []struct {
		score int
		want  game.Action
	}{
		{4, game.ActionHit},
		{13, game.ActionHit},
		{16, game.ActionHit},
		{17, game.ActionStand},
		{21, game.ActionStand},
	}
	for _, tc := range cases {
		if got := DecideHand(game.PolicySimple, tc.score, true, true); got != tc.want {
			t.Fatalf("score %d: got %s, want %s", tc.score, got, tc.want)
		}
	}
}

func TestDecideHandAdvanced(t *testing.T) {
	cases := []struct {
		score        int
		canDouble    bool
		canSurrender bool
		want         game.Action
	}{
		{5, true, true, game.ActionSurrender},
		{5, true, false, game.ActionHit},
		{12, true, true, game.ActionDoubleDown},
		{15, true, true, game.ActionDoubleDown},
		{15, false, true, game.ActionHit},
		{16, true, true, game.ActionHit},
		{18, true, true, game.ActionStand},
	}
	for _, tc := range cases {
		if got := DecideHand(game.PolicyAdvanced, tc.score, tc.canDouble, tc.canSurrender); got != tc.want {
			t.Fatalf("score %d: got %s, want %s", tc.score, got, tc.want)
		}
	}
}

func TestDecideOnlyOnOwnTurn(t *testing.T) {
	v := game.View{
		Phase:   game.PhasePlaying,
		Current: "Hawk1",
		Hands:   [][]game.Card{{{Rank: game.Ten}, {Rank: game.Nine}}},
	}
	if _, ok := Decide(game.PolicySimple, "Wolf2", v); ok {
		t.Fatal("expected no decision for another player's turn")
	}
	a, ok := Decide(game.PolicySimple, "Hawk1", v)
	if !ok || a != game.ActionStand {
		t.Fatalf("got %s ok=%v, want stand", a, ok)
	}
	v.Phase = game.PhaseFinished
	if _, ok := Decide(game.PolicySimple, "Hawk1", v); ok {
		t.Fatal("expected no decision after the round")
	}
}

func TestName(t *testing.T) {
	re := regexp.MustCompile(`^[A-Z][a-z]+\d{1,4}$`)
	rnd := rand.New(rand.NewSource(1))
	for i := 0; i < 50; i++ {
		if n := Name(rnd); !re.MatchString(n) {
			t.Fatalf("unexpected bot name %q", n)
		}
	}
}
