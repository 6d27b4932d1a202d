package game

import (
	"strconv"
	"strings"
)

const RoomCapacity = 8

type Room struct {
	Name    string
	players []*Player
}

func NewRoom(name string) *Room {
	return &Room{Name: name}
}

// Add seats p unless the room is full or the username is already present.
func (r *Room) Add(p *Player) bool {
	if len(r.players) >= RoomCapacity || r.Has(p.Username) {
		return false
	}
	r.players = append(r.players, p)
	return true
}

func (r *Room) Remove(username string) *Player {
	for i, p := range r.players {
		if p.Username == username {
			r.players = append(r.players[:i], r.players[i+1:]...)
			return p
		}
	}
	return nil
}

// RemoveNewestBot drops the most recently seated bot with the given policy,
// which is the first one String lists.
func (r *Room) RemoveNewestBot(policy Policy) *Player {
	for i := len(r.players) - 1; i >= 0; i-- {
		if r.players[i].Policy == policy {
			return r.Remove(r.players[i].Username)
		}
	}
	return nil
}

func (r *Room) Has(username string) bool {
	for _, p := range r.players {
		if p.Username == username {
			return true
		}
	}
	return false
}

func (r *Room) HasHuman() bool {
	for _, p := range r.players {
		if !p.Policy.IsBot() {
			return true
		}
	}
	return false
}

func (r *Room) Len() int {
	return len(r.players)
}

func (r *Room) Players() []*Player {
	return append([]*Player(nil), r.players...)
}

// String renders name:count followed by members newest first, simple bots
// prefixed with # and advanced bots with *.
func (r *Room) String() string {
	var b strings.Builder
	b.WriteString(r.Name)
	b.WriteString(":")
	b.WriteString(strconv.Itoa(len(r.players)))
	for i := len(r.players) - 1; i >= 0; i-- {
		b.WriteString(":")
		b.WriteString(PolicyPrefix(r.players[i].Policy))
		b.WriteString(r.players[i].Username)
	}
	return b.String()
}

func PolicyPrefix(p Policy) string {
	switch p {
	case PolicySimple:
		return "#"
	case PolicyAdvanced:
		return "*"
	default:
		return ""
	}
}
