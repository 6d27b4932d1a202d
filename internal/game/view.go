package game

// View is a read-only copy of table state as seen by one user. Hands and
// Result are only set when the user is staked this round.
type View struct {
	Table        string
	Phase        Phase
	Countdown    int
	Turn         uint64
	Current      string
	CurrentHand  int
	CanDouble    bool
	CanSplit     bool
	CanSurrender bool
	Hands        [][]Card
	Dealer       []Card
	DealerHidden bool
	DealerScore  int
	Stakes       []SeatStake
	Players      []PlayerScore
	Wealth       int64
	Result       *Settlement
}

type SeatStake struct {
	Username string
	Stake    int64
}

type PlayerScore struct {
	Username string
	Policy   Policy
	Wealth   int64
	Scores   [2]int
}

// ViewFor snapshots the table for username. The hole card is replaced by the
// zero Card while hidden.
func (t *Table) ViewFor(username string) View {
	v := View{
		Table:        t.Name,
		Phase:        t.Phase(),
		Countdown:    t.countdown,
		Turn:         t.turn,
		CanDouble:    t.CanDoubleDown(),
		CanSplit:     t.CanSplit(),
		CanSurrender: t.CanSurrender(),
		DealerHidden: t.dealer.HoleHidden(),
	}
	v.Current, v.CurrentHand = t.Current()
	v.Dealer = t.dealer.Hand()
	if v.DealerHidden && len(v.Dealer) > 1 {
		v.Dealer[1] = Card{}
	}
	v.DealerScore = Score(v.Dealer)
	for _, s := range t.seats {
		v.Stakes = append(v.Stakes, SeatStake{Username: s.Player.Username, Stake: s.TotalStake()})
	}
	for _, p := range t.roster {
		ps := PlayerScore{Username: p.Username, Policy: p.Policy, Wealth: p.Wealth}
		if s := t.Seat(p.Username); s != nil {
			ps.Scores = [2]int{Score(s.Hands[0]), Score(s.Hands[1])}
		}
		v.Players = append(v.Players, ps)
		if p.Username == username {
			v.Wealth = p.Wealth
		}
	}
	if s := t.Seat(username); s != nil {
		v.Wealth = s.Player.Wealth
		for i := 0; i < s.HandCount(); i++ {
			v.Hands = append(v.Hands, append([]Card(nil), s.Hands[i]...))
		}
		if t.finished && len(s.Settlements) > 0 {
			first := s.Settlements[0]
			v.Result = &first
		}
	}
	return v
}

// Hand returns the cards of the viewer's hand in play, if any.
func (v View) Hand() []Card {
	if v.CurrentHand < len(v.Hands) {
		return v.Hands[v.CurrentHand]
	}
	return nil
}
