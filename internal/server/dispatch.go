package server

import (
	"context"
	"errors"
	"fmt"

	"blackjack-server/internal/game"
	"blackjack-server/internal/protocol"

	"github.com/rs/zerolog/log"
)

var (
	errNotAuthenticated = errors.New("not_authenticated")
	errWrongUser        = errors.New("wrong_user")
)

// userArg is the position of the username argument for verbs that must name
// the authenticated user.
var userArg = map[string]int{
	protocol.VerbDelete:         0,
	protocol.VerbLogout:         0,
	protocol.VerbChatMessage:    0,
	protocol.VerbJoinRoom:       1,
	protocol.VerbLeaveRoom:      1,
	protocol.VerbInitializeGame: 1,
	protocol.VerbGameState:      1,
	protocol.VerbLeaveTable:     1,
	protocol.VerbSetStake:       1,
}

// open verbs may be sent before authenticating.
var open = map[string]bool{
	protocol.VerbAuth:        true,
	protocol.VerbRegister:    true,
	protocol.VerbDupUser:     true,
	protocol.VerbActiveUsers: true,
	protocol.VerbActiveRooms: true,
	protocol.VerbScoreboard:  true,
	protocol.VerbReloadChat:  true,
	protocol.VerbDupRoom:     true,
	protocol.VerbRoomInfo:    true,
	protocol.VerbStarted:     true,
	protocol.VerbAllScores:   true,
}

var actions = map[string]game.Action{
	protocol.VerbHit:        game.ActionHit,
	protocol.VerbStand:      game.ActionStand,
	protocol.VerbDoubleDown: game.ActionDoubleDown,
	protocol.VerbSplit:      game.ActionSplit,
	protocol.VerbSurrender:  game.ActionSurrender,
}

// dispatch runs one request. Every verb that expects a reply gets exactly
// one, even when the request is rejected.
func (s *Server) dispatch(ctx context.Context, c *conn, req protocol.Request) {
	reply, err := s.authorize(c, req)
	if err == nil {
		reply, err = s.serve(ctx, c, req)
	}
	if err != nil {
		metricRequestsRejected.Add(1)
		log.Warn().Err(err).Str("conn", c.id).Str("user", c.user).Str("verb", req.Verb).Msg("request_rejected")
	}
	if req.WantsReply() {
		c.send <- reply
	}
}

func (s *Server) authorize(c *conn, req protocol.Request) (string, error) {
	if open[req.Verb] {
		return failReply(req.Verb), nil
	}
	if c.user == "" {
		return failReply(req.Verb), errNotAuthenticated
	}
	if i, ok := userArg[req.Verb]; ok && req.Arg(i) != c.user {
		return failReply(req.Verb), fmt.Errorf("%w: %q", errWrongUser, req.Arg(i))
	}
	return "", nil
}

// failReply is the answer sent for a rejected request.
func failReply(verb string) string {
	switch verb {
	case protocol.VerbAuth:
		return protocol.NullUser
	case protocol.VerbDupUser, protocol.VerbDupRoom, protocol.VerbStarted:
		return protocol.Bool(false)
	}
	return ""
}

func (s *Server) serve(ctx context.Context, c *conn, req protocol.Request) (string, error) {
	r := s.reg
	switch req.Verb {
	case protocol.VerbAuth:
		user := req.Arg(0)
		if c.user != "" {
			return protocol.NullUser, fmt.Errorf("%w: connection already authenticated as %s", errWrongUser, c.user)
		}
		if err := r.Authenticate(ctx, user, req.Arg(1)); err != nil {
			return protocol.NullUser, err
		}
		c.user = user
		return protocol.Auth(user, true), nil
	case protocol.VerbRegister:
		return "", r.Register(ctx, req.Arg(0), req.Arg(1))
	case protocol.VerbDupUser:
		return protocol.Bool(r.DuplicateUsername(req.Arg(0))), nil
	case protocol.VerbDelete:
		c.user = ""
		return "", r.DeleteUser(ctx, req.Arg(0))
	case protocol.VerbLogout:
		c.user = ""
		return "", r.Disconnect(ctx, req.Arg(0))
	case protocol.VerbActiveUsers:
		return protocol.ActiveUsers(r.ActiveUsers()), nil
	case protocol.VerbActiveRooms:
		return protocol.ActiveRooms(r.Rooms()), nil
	case protocol.VerbScoreboard:
		scores, err := r.Scoreboard(ctx)
		return protocol.Scoreboard(scores), err
	case protocol.VerbChatMessage:
		return "", r.SaveChat(ctx, c.user, req.Arg(1))
	case protocol.VerbReloadChat:
		return protocol.Chat(r.Chat()), nil
	case protocol.VerbAddRoom:
		simple, err := req.Int(1)
		if err != nil {
			return "", err
		}
		advanced, err := req.Int(2)
		if err != nil {
			return "", err
		}
		return "", r.AddRoom(ctx, req.Arg(0), int(simple), int(advanced))
	case protocol.VerbDupRoom:
		return protocol.Bool(r.DuplicateRoomName(req.Arg(0))), nil
	case protocol.VerbJoinRoom:
		return "", r.JoinRoom(ctx, req.Arg(0), c.user)
	case protocol.VerbLeaveRoom:
		return "", r.LeaveRoom(req.Arg(0), c.user)
	case protocol.VerbRoomInfo:
		info, _ := r.RoomInfo(req.Arg(0))
		return info, nil
	case protocol.VerbRemoveSimpleBot:
		return "", r.RemoveBot(req.Arg(0), game.PolicySimple)
	case protocol.VerbRemoveHardBot:
		return "", r.RemoveBot(req.Arg(0), game.PolicyAdvanced)
	case protocol.VerbStartGame:
		return "", r.StartGame(ctx, req.Arg(0))
	case protocol.VerbStarted:
		return protocol.Bool(r.GameStarted(req.Arg(0))), nil
	case protocol.VerbInitializeGame:
		score, others, err := r.InitializeGame(ctx, req.Arg(0), c.user)
		if err != nil {
			return "", err
		}
		return protocol.InitializeGame(score, c.user, others), nil
	case protocol.VerbGameState:
		poll, score, err := r.GameState(ctx, req.Arg(0), c.user)
		if err != nil {
			return "", err
		}
		return protocol.GameState(poll.View, poll.FirstResult, score), nil
	case protocol.VerbLeaveTable:
		return "", r.LeaveTable(ctx, req.Arg(0), c.user)
	case protocol.VerbSetStake:
		amount, err := req.Int(2)
		if err != nil {
			return "", err
		}
		return "", r.SetStake(ctx, req.Arg(0), c.user, amount)
	case protocol.VerbAllScores:
		scores, err := r.AllScores(ctx, req.Arg(0))
		if err != nil {
			return "", err
		}
		return protocol.AllScores(scores), nil
	}
	if action, ok := actions[req.Verb]; ok {
		return "", r.Act(ctx, req.Arg(0), c.user, action)
	}
	return "", fmt.Errorf("%w: %s", protocol.ErrMalformed, req.Verb)
}
