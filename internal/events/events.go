// Package events fans game activity out to observers. Publishing never
// blocks or fails a game operation.
package events

import (
	"context"
	"time"

	"blackjack-server/internal/store"
)

const (
	TypeUserLogin    = "user_login"
	TypeUserLogout   = "user_logout"
	TypeTableStarted = "table_started"
	TypeRoundDealt   = "round_dealt"
	TypeRoundSettled = "round_settled"
	TypeTableStopped = "table_stopped"
	TypeChatMessage  = "chat_message"
)

type Event struct {
	ID    string         `json:"id"`
	Type  string         `json:"type"`
	Table string         `json:"table,omitempty"`
	User  string         `json:"user,omitempty"`
	Data  map[string]any `json:"data,omitempty"`
	TS    time.Time      `json:"ts"`
}

func New(typ, table, user string, data map[string]any) Event {
	return Event{
		ID:    store.NewTaggedID("evt"),
		Type:  typ,
		Table: table,
		User:  user,
		Data:  data,
		TS:    time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, evt Event)
}

type Nop struct{}

func (Nop) Publish(context.Context, Event) {}
