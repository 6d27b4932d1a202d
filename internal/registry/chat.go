package registry

import (
	"context"
	"slices"
	"strings"

	"blackjack-server/internal/events"
)

// SaveChat appends "user: message" to the chat log. Delimiter characters in
// the message are blanked so the line can be relayed verbatim.
func (r *Registry) SaveChat(ctx context.Context, username, message string) error {
	message = strings.TrimSpace(chatSanitizer.Replace(message))
	if username == "" || message == "" {
		return ErrIllegalArgument
	}
	line := username + ": " + message

	r.mu.Lock()
	r.chat = append(r.chat, line)
	r.mu.Unlock()

	r.pub.Publish(ctx, events.New(events.TypeChatMessage, "", username, map[string]any{"message": message}))
	return nil
}

func (r *Registry) Chat() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.chat)
}
