package events

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Async hands events to a background worker through a bounded queue and
// drops them when the queue is full.
type Async struct {
	next     Publisher
	dispatch chan Event
	done     chan struct{}
}

func NewAsync(next Publisher, queue int) *Async {
	if queue <= 0 {
		queue = 256
	}
	return &Async{
		next:     next,
		dispatch: make(chan Event, queue),
		done:     make(chan struct{}),
	}
}

func (a *Async) Start(ctx context.Context) {
	go func() {
		defer close(a.done)
		for {
			select {
			case <-ctx.Done():
				return
			case evt := <-a.dispatch:
				a.next.Publish(ctx, evt)
			}
		}
	}()
}

// Done is closed once the worker has exited.
func (a *Async) Done() <-chan struct{} {
	return a.done
}

func (a *Async) Publish(_ context.Context, evt Event) {
	select {
	case a.dispatch <- evt:
	default:
		eventsPublishFailed.Add(1)
		log.Warn().Str("type", evt.Type).Msg("event_queue_full")
	}
}
