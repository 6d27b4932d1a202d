package protocol

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrMalformed = errors.New("malformed_request")

const (
	VerbAuth            = "auth"
	VerbRegister        = "reg"
	VerbDupUser         = "dupuser"
	VerbDelete          = "delete"
	VerbLogout          = "logout"
	VerbActiveUsers     = "reloadactiveusers"
	VerbActiveRooms     = "reloadactiverooms"
	VerbScoreboard      = "reloadscoreboard"
	VerbChatMessage     = "chatmessage"
	VerbReloadChat      = "reloadchat"
	VerbAddRoom         = "addroom"
	VerbDupRoom         = "duproom"
	VerbJoinRoom        = "joinroom"
	VerbLeaveRoom       = "leaveroom"
	VerbRoomInfo        = "reloadroominfo"
	VerbRemoveSimpleBot = "removesimplebot"
	VerbRemoveHardBot   = "removehardbot"
	VerbStartGame       = "startgame"
	VerbStarted         = "started"
	VerbInitializeGame  = "initializegame"
	VerbGameState       = "reloadgamestate"
	VerbLeaveTable      = "leavetable"
	VerbSetStake        = "setstake"
	VerbHit             = "hit"
	VerbStand           = "stand"
	VerbDoubleDown      = "doubledown"
	VerbSplit           = "split"
	VerbSurrender       = "surrender"
	VerbAllScores       = "getallscores"
)

// arity counts fields including the verb.
var arity = map[string]int{
	VerbAuth:            3,
	VerbRegister:        3,
	VerbDupUser:         2,
	VerbDelete:          2,
	VerbLogout:          2,
	VerbActiveUsers:     1,
	VerbActiveRooms:     1,
	VerbScoreboard:      1,
	VerbChatMessage:     3,
	VerbReloadChat:      1,
	VerbAddRoom:         4,
	VerbDupRoom:         2,
	VerbJoinRoom:        3,
	VerbLeaveRoom:       3,
	VerbRoomInfo:        2,
	VerbRemoveSimpleBot: 2,
	VerbRemoveHardBot:   2,
	VerbStartGame:       2,
	VerbStarted:         2,
	VerbInitializeGame:  3,
	VerbGameState:       3,
	VerbLeaveTable:      3,
	VerbSetStake:        4,
	VerbHit:             2,
	VerbStand:           2,
	VerbDoubleDown:      2,
	VerbSplit:           2,
	VerbSurrender:       2,
	VerbAllScores:       2,
}

// replies lists the verbs answered with exactly one frame.
var replies = map[string]bool{
	VerbAuth:           true,
	VerbDupUser:        true,
	VerbActiveUsers:    true,
	VerbActiveRooms:    true,
	VerbScoreboard:     true,
	VerbReloadChat:     true,
	VerbDupRoom:        true,
	VerbRoomInfo:       true,
	VerbStarted:        true,
	VerbInitializeGame: true,
	VerbGameState:      true,
	VerbAllScores:      true,
}

type Request struct {
	Verb string
	Args []string
}

// Parse splits a frame into verb and arguments and checks the argument
// count. Chat text keeps any further colons.
func Parse(frame string) (Request, error) {
	verb, _, _ := strings.Cut(frame, ":")
	n, ok := arity[verb]
	if !ok {
		return Request{}, fmt.Errorf("%w: unknown verb %q", ErrMalformed, verb)
	}
	var fields []string
	if verb == VerbChatMessage {
		fields = strings.SplitN(frame, ":", n)
	} else {
		fields = strings.Split(frame, ":")
	}
	if len(fields) != n {
		return Request{}, fmt.Errorf("%w: %s wants %d fields, got %d", ErrMalformed, verb, n, len(fields))
	}
	return Request{Verb: verb, Args: fields[1:]}, nil
}

// Arg returns the i-th argument after the verb.
func (r Request) Arg(i int) string {
	if i < 0 || i >= len(r.Args) {
		return ""
	}
	return r.Args[i]
}

func (r Request) Int(i int) (int64, error) {
	v, err := strconv.ParseInt(r.Arg(i), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s argument %d: %v", ErrMalformed, r.Verb, i+1, err)
	}
	return v, nil
}

func (r Request) WantsReply() bool {
	return replies[r.Verb]
}

// Encode renders r back into wire form.
func (r Request) Encode() string {
	return strings.Join(append([]string{r.Verb}, r.Args...), ":")
}
