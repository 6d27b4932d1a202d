package game

type Policy int

const (
	PolicyHuman Policy = iota
	PolicySimple
	PolicyAdvanced
)

func (p Policy) String() string {
	switch p {
	case PolicySimple:
		return "simple"
	case PolicyAdvanced:
		return "advanced"
	default:
		return "human"
	}
}

func (p Policy) IsBot() bool {
	return p != PolicyHuman
}

type Player struct {
	Username string
	Wealth   int64
	Policy   Policy
}

// Settlement is one finished hand. A zero Score marks a surrender.
type Settlement struct {
	Stake     int64
	Score     int
	Blackjack bool
}

func (s Settlement) Surrendered() bool {
	return s.Score == 0
}

// Seat is the round state of one staked player, indexed by turn position.
type Seat struct {
	Player      *Player
	Hands       [2][]Card
	Stakes      []int64
	Settlements []Settlement
	Split       bool
	Left        bool
	Payout      int64
}

func (s *Seat) HandCount() int {
	if s.Split {
		return 2
	}
	return 1
}

func (s *Seat) TotalStake() int64 {
	var sum int64
	for _, v := range s.Stakes {
		sum += v
	}
	return sum
}
