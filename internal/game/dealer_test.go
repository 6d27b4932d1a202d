package game

import (
	"errors"
	"testing"
)

func TestDealerBeginRoundTwoPass(t *testing.T) {
	d := NewDealer(NewDeckFrom(hand(Two, Three, Four, Five, Six, Seven), nil))
	a := &Seat{}
	b := &Seat{}
	if err := d.BeginRound([]*Seat{a, b}); err != nil {
		t.Fatalf("BeginRound: %v", err)
	}
	if a.Hands[0][0].Rank != Two || a.Hands[0][1].Rank != Five {
		t.Fatalf("unexpected first seat hand: %v", a.Hands[0])
	}
	if b.Hands[0][0].Rank != Three || b.Hands[0][1].Rank != Six {
		t.Fatalf("unexpected second seat hand: %v", b.Hands[0])
	}
	got := d.Hand()
	if len(got) != 2 || got[0].Rank != Four || got[1].Rank != Seven {
		t.Fatalf("unexpected dealer hand: %v", got)
	}
	if !d.HoleHidden() {
		t.Fatal("expected hole card hidden before dealer turn")
	}
}

func TestDealerDrawsToSeventeen(t *testing.T) {
	d := NewDealer(NewDeckFrom(hand(Ten, Six, Two), nil))
	if err := d.BeginRound(nil); err != nil {
		t.Fatalf("BeginRound: %v", err)
	}
	if err := d.Play(); err != nil {
		t.Fatalf("Play: %v", err)
	}
	if d.HoleHidden() {
		t.Fatal("expected hole card revealed")
	}
	if d.Score() != 18 || len(d.Hand()) != 3 {
		t.Fatalf("score=%d hand=%v", d.Score(), d.Hand())
	}
}

func TestDealerStandsOnSoftSeventeen(t *testing.T) {
	d := NewDealer(NewDeckFrom(hand(Ace, Six, Five), nil))
	_ = d.BeginRound(nil)
	if err := d.Play(); err != nil {
		t.Fatalf("Play: %v", err)
	}
	if d.Score() != 17 || len(d.Hand()) != 2 {
		t.Fatalf("score=%d hand=%v", d.Score(), d.Hand())
	}
}

func TestDealerBlackjackStopsDrawing(t *testing.T) {
	d := NewDealer(NewDeckFrom(hand(Ace, King, Five), nil))
	_ = d.BeginRound(nil)
	if err := d.Play(); err != nil {
		t.Fatalf("Play: %v", err)
	}
	if !d.Blackjack() || d.Score() != 21 || len(d.Hand()) != 2 {
		t.Fatalf("bj=%v score=%d hand=%v", d.Blackjack(), d.Score(), d.Hand())
	}
}

func TestDealerPlayEmptyDeck(t *testing.T) {
	d := NewDealer(NewDeckFrom(hand(Two, Three), nil))
	_ = d.BeginRound(nil)
	if err := d.Play(); !errors.Is(err, ErrDeckEmpty) {
		t.Fatalf("expected ErrDeckEmpty, got %v", err)
	}
}
