package game

const dealerStandsOn = 17

type Dealer struct {
	deck       *Deck
	hand       []Card
	holeHidden bool
	blackjack  bool
}

func NewDealer(deck *Deck) *Dealer {
	return &Dealer{deck: deck}
}

// BeginRound shuffles and deals two passes: an open card to every seat and
// one to the dealer, then a second card to every seat and the hidden hole card.
func (d *Dealer) BeginRound(seats []*Seat) error {
	d.deck.Shuffle()
	d.hand = nil
	d.holeHidden = true
	d.blackjack = false
	for pass := 0; pass < 2; pass++ {
		for _, s := range seats {
			c, err := d.deck.Deal()
			if err != nil {
				return err
			}
			s.Hands[0] = append(s.Hands[0], c)
		}
		c, err := d.deck.Deal()
		if err != nil {
			return err
		}
		d.hand = append(d.hand, c)
	}
	return nil
}

// Play reveals the hole card and draws until the hand reaches 17.
// A natural blackjack stops drawing at 21.
func (d *Dealer) Play() error {
	d.holeHidden = false
	if IsBlackjack(d.hand) {
		d.blackjack = true
		return nil
	}
	for Score(d.hand) < dealerStandsOn {
		c, err := d.deck.Deal()
		if err != nil {
			return err
		}
		d.hand = append(d.hand, c)
	}
	return nil
}

// Draw deals the next shoe card to a player.
func (d *Dealer) Draw() (Card, error) {
	return d.deck.Deal()
}

func (d *Dealer) Score() int {
	return Score(d.hand)
}

func (d *Dealer) Blackjack() bool {
	return d.blackjack
}

func (d *Dealer) HoleHidden() bool {
	return d.holeHidden
}

func (d *Dealer) Hand() []Card {
	return append([]Card(nil), d.hand...)
}
