package registry

import (
	"context"
	"slices"

	"blackjack-server/internal/bot"
	"blackjack-server/internal/game"

	"github.com/rs/zerolog/log"
)

// AddRoom opens a lobby room seeded with the requested bots.
func (r *Registry) AddRoom(ctx context.Context, name string, simple, advanced int) error {
	if err := validName(name); err != nil {
		return err
	}
	if simple < 0 || advanced < 0 || simple+advanced > game.RoomCapacity {
		return ErrIllegalArgument
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.nameTakenLocked(name) {
		return ErrDuplicateName
	}
	room := game.NewRoom(name)
	for i := 0; i < simple; i++ {
		room.Add(r.newBotLocked(room, game.PolicySimple))
	}
	for i := 0; i < advanced; i++ {
		room.Add(r.newBotLocked(room, game.PolicyAdvanced))
	}
	r.rooms = append(r.rooms, room)
	log.Info().Str("room", name).Int("simple_bots", simple).Int("advanced_bots", advanced).Msg("room_created")
	return nil
}

func (r *Registry) newBotLocked(room *game.Room, policy game.Policy) *game.Player {
	for {
		name := bot.Name(r.rnd)
		if !room.Has(name) && r.findAccount(name) < 0 {
			return &game.Player{Username: name, Wealth: r.opts.BotWealth, Policy: policy}
		}
	}
}

// DuplicateRoomName reports whether name is used by a room or a running table.
func (r *Registry) DuplicateRoomName(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.nameTakenLocked(name)
}

func (r *Registry) nameTakenLocked(name string) bool {
	return r.roomLocked(name) != nil || r.tableIndexLocked(name) >= 0
}

// JoinRoom seats username in the room with their scoreboard wealth. Joining
// a room moves the user out of any other lobby room.
func (r *Registry) JoinRoom(ctx context.Context, name, username string) error {
	if name == "" || username == "" {
		return ErrIllegalArgument
	}
	wealth, err := r.GlobalScore(ctx, username)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	room := r.roomLocked(name)
	if room == nil {
		return ErrRoomNotFound
	}
	if room.Has(username) {
		return nil
	}
	if _, seated := r.seatedAt[username]; seated {
		return ErrAlreadySeated
	}
	if room.Len() >= game.RoomCapacity {
		return ErrRoomFull
	}
	for _, other := range r.rooms {
		other.Remove(username)
	}
	room.Add(&game.Player{Username: username, Wealth: wealth, Policy: game.PolicyHuman})
	log.Info().Str("room", name).Str("user", username).Int64("wealth", wealth).Msg("room_joined")
	return nil
}

func (r *Registry) LeaveRoom(name, username string) error {
	if name == "" || username == "" {
		return ErrIllegalArgument
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if room := r.roomLocked(name); room != nil && room.Remove(username) != nil {
		log.Info().Str("room", name).Str("user", username).Msg("room_left")
	}
	return nil
}

// RemoveBot drops the most recently added bot with the given policy.
func (r *Registry) RemoveBot(name string, policy game.Policy) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	room := r.roomLocked(name)
	if room == nil {
		return ErrRoomNotFound
	}
	if p := room.RemoveNewestBot(policy); p != nil {
		log.Info().Str("room", name).Str("bot", p.Username).Str("policy", policy.String()).Msg("bot_removed")
	}
	return nil
}

// Rooms renders every open room, oldest room first.
func (r *Registry) Rooms() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.rooms))
	for _, room := range r.rooms {
		out = append(out, room.String())
	}
	return out
}

func (r *Registry) RoomInfo(name string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if room := r.roomLocked(name); room != nil {
		return room.String(), true
	}
	return "", false
}

// RoomPlayers returns a copy of a room's roster.
func (r *Registry) RoomPlayers(name string) ([]game.Player, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room := r.roomLocked(name)
	if room == nil {
		return nil, false
	}
	out := make([]game.Player, 0, room.Len())
	for _, p := range room.Players() {
		out = append(out, *p)
	}
	return out, true
}

func (r *Registry) roomLocked(name string) *game.Room {
	i := slices.IndexFunc(r.rooms, func(room *game.Room) bool { return room.Name == name })
	if i < 0 {
		return nil
	}
	return r.rooms[i]
}

type RoomSnapshot struct {
	Name    string
	Players []game.Player
}

// RoomSnapshots copies every open room, oldest first.
func (r *Registry) RoomSnapshots() []RoomSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]RoomSnapshot, 0, len(r.rooms))
	for _, room := range r.rooms {
		snap := RoomSnapshot{Name: room.Name}
		for _, p := range room.Players() {
			snap.Players = append(snap.Players, *p)
		}
		out = append(out, snap)
	}
	return out
}
