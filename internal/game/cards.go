package game

import (
	"errors"
	"math/rand"
	"strconv"
	"time"
)

type Suit int

type Rank int

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

const (
	Ace   Rank = 1
	Two   Rank = 2
	Three Rank = 3
	Four  Rank = 4
	Five  Rank = 5
	Six   Rank = 6
	Seven Rank = 7
	Eight Rank = 8
	Nine  Rank = 9
	Ten   Rank = 10
	Jack  Rank = 11
	Queen Rank = 12
	King  Rank = 13
)

const (
	DeckCopies = 6
	ShoeSize   = DeckCopies * 52
)

var ErrDeckEmpty = errors.New("deck_empty")

type Card struct {
	DeckID int
	Rank   Rank
	Suit   Suit
}

// ImageID identifies the card face; copies from different decks share it.
// The zero Card has ImageID 0, which clients render as a face-down card.
func (c Card) ImageID() int {
	return int(c.Suit)*13 + int(c.Rank)
}

func (c Card) Value() int {
	switch {
	case c.Rank == Ace:
		return 11
	case c.Rank >= Ten:
		return 10
	default:
		return int(c.Rank)
	}
}

func (c Card) String() string {
	r, ok := map[Rank]string{Ace: "A", Ten: "T", Jack: "J", Queen: "Q", King: "K"}[c.Rank]
	if !ok {
		r = strconv.Itoa(int(c.Rank))
	}
	s := map[Suit]string{Spades: "s", Hearts: "h", Diamonds: "d", Clubs: "c"}[c.Suit]
	return r + s
}

// Shuffler permutes n elements through swap, with the signature of rand.Shuffle.
type Shuffler func(n int, swap func(i, j int))

type Deck struct {
	cards   []Card
	shuffle Shuffler
}

// NewDeck returns an ordered shoe of DeckCopies standard decks.
func NewDeck() *Deck {
	cards := make([]Card, 0, ShoeSize)
	for d := 0; d < DeckCopies; d++ {
		for s := Spades; s <= Clubs; s++ {
			for r := Ace; r <= King; r++ {
				cards = append(cards, Card{DeckID: d, Rank: r, Suit: s})
			}
		}
	}
	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &Deck{cards: cards, shuffle: rnd.Shuffle}
}

// NewDeckFrom deals cards in the given order. With a nil shuffler Shuffle
// keeps that order, which lets callers stack a deck.
func NewDeckFrom(cards []Card, shuffle Shuffler) *Deck {
	return &Deck{cards: append([]Card(nil), cards...), shuffle: shuffle}
}

func (d *Deck) Shuffle() {
	if d.shuffle == nil {
		return
	}
	d.shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

func (d *Deck) Deal() (Card, error) {
	if len(d.cards) == 0 {
		return Card{}, ErrDeckEmpty
	}
	c := d.cards[0]
	d.cards = d.cards[1:]
	return c, nil
}

func (d *Deck) Add(c Card) {
	d.cards = append(d.cards, c)
}

func (d *Deck) Len() int {
	return len(d.cards)
}

// Score counts aces as 11 and demotes them to 1 one at a time while the
// total is over 21.
func Score(cards []Card) int {
	total, aces := 0, 0
	for _, c := range cards {
		if c.Rank == Ace {
			aces++
		}
		total += c.Value()
	}
	for aces > 0 && total > 21 {
		total -= 10
		aces--
	}
	return total
}

func IsBlackjack(cards []Card) bool {
	if len(cards) != 2 {
		return false
	}
	a, b := cards[0], cards[1]
	return (a.Rank == Ace && b.Value() == 10) || (b.Rank == Ace && a.Value() == 10)
}
