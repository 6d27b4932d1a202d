// Package registry owns the shared server state: accounts, sessions, lobby
// rooms, running tables, the scoreboard and the chat log. Every operation
// takes the registry lock for its own duration only; table runtimes are
// always called after the lock is released.
package registry

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"sync"
	"time"

	"blackjack-server/internal/events"
	"blackjack-server/internal/game"
	"blackjack-server/internal/store"
	"blackjack-server/internal/table"
)

var (
	ErrIllegalArgument = errors.New("illegal_argument")
	ErrDuplicateUser   = errors.New("duplicate_user")
	ErrDuplicateName   = errors.New("duplicate_name")
	ErrBadCredentials  = errors.New("bad_credentials")
	ErrAlreadyLoggedIn = errors.New("already_logged_in")
	ErrRoomNotFound    = errors.New("room_not_found")
	ErrRoomFull        = errors.New("room_full")
	ErrAlreadySeated   = errors.New("already_seated")
	ErrTableNotFound   = errors.New("table_not_found")
)

// reservedChars separate fields on the wire and may not appear in names.
const reservedChars = ":@&#/"

// Store persists accounts and scores.
type Store interface {
	LoadAccounts(ctx context.Context) ([]store.Account, error)
	SaveAccounts(ctx context.Context, accounts []store.Account) error
	LoadScores(ctx context.Context) ([]store.Score, error)
	SaveScores(ctx context.Context, scores []store.Score) error
}

type Options struct {
	StartingScore int64
	BotWealth     int64
	Table         table.Options
}

type Registry struct {
	st   Store
	pub  events.Publisher
	opts Options

	mu       sync.Mutex
	accounts []store.Account
	active   []string
	rooms    []*game.Room
	tables   []*table.Runtime
	seatedAt map[string]string
	chat     []string
	rnd      *rand.Rand

	scoreMu sync.Mutex
}

func New(ctx context.Context, st Store, pub events.Publisher, opts Options) (*Registry, error) {
	if pub == nil {
		pub = events.Nop{}
	}
	if opts.StartingScore <= 0 {
		opts.StartingScore = 500
	}
	if opts.BotWealth <= 0 {
		opts.BotWealth = 1000
	}
	accounts, err := st.LoadAccounts(ctx)
	if err != nil {
		return nil, err
	}
	return &Registry{
		st:       st,
		pub:      pub,
		opts:     opts,
		accounts: accounts,
		seatedAt: map[string]string{},
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

func validName(s string) error {
	if strings.TrimSpace(s) == "" || strings.ContainsAny(s, reservedChars) {
		return ErrIllegalArgument
	}
	return nil
}

var chatSanitizer = strings.NewReplacer(":", " ", "@", " ", "&", " ", "#", " ", "/", " ")
