package protocol

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"blackjack-server/internal/game"
	"blackjack-server/internal/store"
)

func TestFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	for _, s := range []string{"auth:alice:pw", "", "chatmessage:alice:grüße"} {
		if err := WriteFrame(&buf, s); err != nil {
			t.Fatalf("WriteFrame(%q): %v", s, err)
		}
	}
	if got := buf.Bytes()[:2]; got[0] != 0 || got[1] != 13 {
		t.Fatalf("length prefix = %v, want [0 13]", got)
	}
	for _, want := range []string{"auth:alice:pw", "", "chatmessage:alice:grüße"} {
		got, err := ReadFrame(&buf)
		if err != nil || got != want {
			t.Fatalf("ReadFrame = %q, %v; want %q", got, err, want)
		}
	}
	if _, err := ReadFrame(&buf); !errors.Is(err, io.EOF) {
		t.Fatalf("ReadFrame on empty err = %v", err)
	}
}

func TestFrameLimits(t *testing.T) {
	if err := WriteFrame(io.Discard, strings.Repeat("x", MaxFrame+1)); !errors.Is(err, ErrFrameTooLarge) {
		t.Fatalf("oversized WriteFrame err = %v", err)
	}
	truncated := bytes.NewReader([]byte{0, 5, 'a', 'b'})
	if _, err := ReadFrame(truncated); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("truncated ReadFrame err = %v", err)
	}
}

func TestParse(t *testing.T) {
	cases := []struct {
		frame string
		verb  string
		args  []string
		err   bool
	}{
		{"auth:alice:pw", VerbAuth, []string{"alice", "pw"}, false},
		{"reloadactiverooms", VerbActiveRooms, nil, false},
		{"setstake:t1:alice:100", VerbSetStake, []string{"t1", "alice", "100"}, false},
		{"chatmessage:alice:see you: later", VerbChatMessage, []string{"alice", "see you: later"}, false},
		{"hit:t1", VerbHit, []string{"t1"}, false},
		{"hit", "", nil, true},
		{"auth:alice", "", nil, true},
		{"addroom:r1:1", "", nil, true},
		{"fold:t1", "", nil, true},
		{"", "", nil, true},
	}
	for _, tc := range cases {
		req, err := Parse(tc.frame)
		if tc.err {
			if !errors.Is(err, ErrMalformed) {
				t.Fatalf("Parse(%q) err = %v, want ErrMalformed", tc.frame, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("Parse(%q): %v", tc.frame, err)
		}
		if req.Verb != tc.verb || strings.Join(req.Args, "|") != strings.Join(tc.args, "|") {
			t.Fatalf("Parse(%q) = %+v", tc.frame, req)
		}
		if req.Encode() != tc.frame {
			t.Fatalf("Encode = %q, want %q", req.Encode(), tc.frame)
		}
	}
}

func TestRequestInt(t *testing.T) {
	req, _ := Parse("setstake:t1:alice:abc")
	if _, err := req.Int(2); !errors.Is(err, ErrMalformed) {
		t.Fatalf("Int err = %v", err)
	}
	req, _ = Parse("addroom:r1:2:3")
	if n, err := req.Int(1); err != nil || n != 2 {
		t.Fatalf("Int = %d, %v", n, err)
	}
	if req.WantsReply() {
		t.Fatalf("addroom should not want a reply")
	}
	if req, _ := Parse("started:r1"); !req.WantsReply() {
		t.Fatalf("started should want a reply")
	}
}

func TestListReplies(t *testing.T) {
	if got := ActiveUsers([]string{"a", "b"}); got != "a:b:" {
		t.Fatalf("ActiveUsers = %q", got)
	}
	if got := ActiveRooms([]string{"r1:1:a", "r2:0"}); got != "r1:1:a@r2:0@" {
		t.Fatalf("ActiveRooms = %q", got)
	}
	if got := Chat(nil); got != "" {
		t.Fatalf("Chat(nil) = %q", got)
	}
	if got := Scoreboard([]store.Score{{Username: "a", Score: 700}, {Username: "b", Score: 500}}); got != "a:700@b:500@" {
		t.Fatalf("Scoreboard = %q", got)
	}
	if got := InitializeGame(500, "bob", []string{"carol", "alice"}); got != "500@bob@carol@alice@" {
		t.Fatalf("InitializeGame = %q", got)
	}
	got := AllScores([]game.PlayerScore{{Username: "a", Scores: [2]int{20, 0}}, {Username: "b"}})
	if got != "a/20/0:b/0/0:" {
		t.Fatalf("AllScores = %q", got)
	}
	if Auth("alice", false) != "null" || Auth("alice", true) != "alice" {
		t.Fatalf("Auth mismatch")
	}
}

func card(r game.Rank, s game.Suit) game.Card {
	return game.Card{Rank: r, Suit: s}
}

func playingView() game.View {
	return game.View{
		Phase:        game.PhasePlaying,
		Current:      "alice",
		CanDouble:    true,
		CanSurrender: true,
		Hands:        [][]game.Card{{card(game.Ace, game.Spades), card(game.Nine, game.Hearts)}},
		Dealer:       []game.Card{card(game.King, game.Clubs), {}},
		DealerHidden: true,
		Stakes:       []game.SeatStake{{Username: "alice", Stake: 100}, {Username: "Hawk7", Stake: 100}},
	}
}

func TestGameStateCountdown(t *testing.T) {
	v := playingView()
	v.Countdown = 12
	if got := GameState(v, false, 0); got != "countdown:12" {
		t.Fatalf("GameState = %q", got)
	}
	st, err := DecodeState("countdown:12")
	if err != nil || st.Countdown != 12 {
		t.Fatalf("DecodeState = %+v, %v", st, err)
	}
}

func TestGameStatePlaying(t *testing.T) {
	got := GameState(playingView(), true, 0)
	want := "@alice:true:false:true@1:22:&@false&52:0:@alice&100:Hawk7&100:"
	if got != want {
		t.Fatalf("GameState =\n%q\nwant\n%q", got, want)
	}
	st, err := DecodeState(got)
	if err != nil {
		t.Fatalf("DecodeState: %v", err)
	}
	if st.Current != "alice" || !st.CanDouble || st.CanSplit || !st.CanSurrender || st.DealerVisible {
		t.Fatalf("decoded header = %+v", st)
	}
	if game.Score(st.Hand()) != 20 || len(st.Dealer) != 2 || st.Dealer[1] != (game.Card{}) {
		t.Fatalf("decoded cards = %v / %v", st.Hand(), st.Dealer)
	}
	if !st.Staked("Hawk7") || st.Staked("bob") || st.Result {
		t.Fatalf("decoded stakes = %+v", st.Stakes)
	}
}

func TestGameStateResult(t *testing.T) {
	v := playingView()
	v.Phase = game.PhaseFinished
	v.Current = ""
	v.DealerHidden = false
	v.Dealer = []game.Card{card(game.King, game.Clubs), card(game.Eight, game.Clubs)}
	v.Wealth = 1100
	v.Result = &game.Settlement{Stake: 100, Score: 20}

	got := GameState(v, true, 1100)
	if !strings.HasPrefix(got, "result#1100@:") || !strings.HasSuffix(got, "#1100:false:20:100") {
		t.Fatalf("GameState = %q", got)
	}
	st, err := DecodeState(got)
	if err != nil {
		t.Fatalf("DecodeState: %v", err)
	}
	if !st.Result || st.GlobalScore != 1100 || st.Outcome == nil || st.Outcome.Score != 20 || !st.DealerVisible {
		t.Fatalf("decoded = %+v", st)
	}

	if got := GameState(v, false, 1100); strings.HasPrefix(got, "result#") {
		t.Fatalf("second poll still a result: %q", got)
	}

	v.Result = nil
	got = GameState(v, true, 0)
	if !strings.HasPrefix(got, "result#@") || strings.Count(got, "#") != 1 {
		t.Fatalf("spectator result = %q", got)
	}
	if st, err := DecodeState(got); err != nil || !st.Result || st.Outcome != nil {
		t.Fatalf("spectator decode = %+v, %v", st, err)
	}
}

func TestGameStateNaturalAtDeal(t *testing.T) {
	deck := []game.Card{
		card(game.Ace, game.Spades), card(game.Ten, game.Hearts),
		card(game.King, game.Clubs), card(game.Queen, game.Diamonds),
	}
	p := &game.Player{Username: "alice", Wealth: 1000}
	tb := game.NewTable("t1", []*game.Player{p}, game.TableConfig{
		NewDeck: func() *game.Deck { return game.NewDeckFrom(deck, nil) },
	})
	if err := tb.SetStake("alice", 100); err != nil {
		t.Fatalf("SetStake: %v", err)
	}
	for i := 0; i < 100 && !tb.Finished(); i++ {
		if err := tb.Tick(); err != nil {
			t.Fatalf("tick: %v", err)
		}
	}
	got := GameState(tb.ViewFor("alice"), tb.ClaimResult("alice"), p.Wealth)
	if !strings.HasPrefix(got, "result#1150@") || !strings.HasSuffix(got, "#1150:true:21:100") {
		t.Fatalf("GameState = %q", got)
	}
	if again := GameState(tb.ViewFor("alice"), tb.ClaimResult("alice"), p.Wealth); strings.HasPrefix(again, "result#") {
		t.Fatalf("result delivered twice: %q", again)
	}
}

func TestCardFromImageID(t *testing.T) {
	for s := game.Spades; s <= game.Clubs; s++ {
		for r := game.Ace; r <= game.King; r++ {
			c := card(r, s)
			if got := CardFromImageID(c.ImageID()); got != c {
				t.Fatalf("CardFromImageID(%d) = %v, want %v", c.ImageID(), got, c)
			}
		}
	}
}
