package notify

import (
	"context"
	"log"

	"github.com/Suryadheeraz/Svayam-AMS-main/internal/conversation"
)

// StartForward posts a notification for every resolution in store until ctx
// is cancelled. It subscribes before returning and forwards in the
// background. Resolutions already queued at cancellation are still
// delivered. Delivery failures are logged and never reach the store. The
// returned channel closes once forwarding has stopped.
func StartForward(ctx context.Context, store *conversation.Store, n Notifier) <-chan struct{} {
	events, cancel := store.Subscribe()
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer cancel()
		for {
			select {
			case <-ctx.Done():
				drain(context.WithoutCancel(ctx), store, n, events)
				return
			case ev, ok := <-events:
				if !ok {
					return
				}
				deliver(ctx, store, n, ev)
			}
		}
	}()
	return done
}

func drain(ctx context.Context, store *conversation.Store, n Notifier, events <-chan conversation.Event) {
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			deliver(ctx, store, n, ev)
		default:
			return
		}
	}
}

func deliver(ctx context.Context, store *conversation.Store, n Notifier, ev conversation.Event) {
	if ev.Type != conversation.EventResolved {
		return
	}
	conv, err := store.Get(ctx, ev.ConversationID)
	if err != nil {
		log.Printf("notify: load %s: %v", ev.ConversationID, err)
		return
	}
	if err := n.Notify(ctx, FormatResolved(conv, ev.By, ev.Notes)); err != nil {
		log.Printf("notify: %s: %v", n.Name(), err)
	}
}
