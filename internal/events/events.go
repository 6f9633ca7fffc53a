// Package events routes inbound chat traffic from the gateway to the
// engine: reaction events fan out to one registered handler in arrival
// order, and text events either satisfy a waiting selection flow or fall
// through to the command handler.
package events

import (
	"container/list"
	"context"
	"sync"
	"time"

	apperrors "github.com/ITKKhan/HorrorWatchBot/internal/errors"
	"github.com/ITKKhan/HorrorWatchBot/internal/logger"
	"github.com/ITKKhan/HorrorWatchBot/internal/models"
)

// TextPredicate selects which inbound text event a waiter resolves with
type TextPredicate func(models.TextEvent) bool

// waiter is one registered blocking wait for a matching text event
type waiter struct {
	match TextPredicate
	ch    chan models.TextEvent
	done  bool
}

// Bus dispatches inbound events. Delivery is at-least-once and possibly
// out of order across channels, so consumers absorb duplicates.
type Bus struct {
	log logger.Logger

	mu      sync.Mutex
	waiters *list.List // registration order

	textHandler     func(models.TextEvent)
	reactionHandler func(models.ReactionEvent)

	// reactionMu serializes reaction dispatch so votes apply in
	// arrival order even when clients publish from parallel readers.
	reactionMu sync.Mutex
}

// New creates a new event Bus
func New(log logger.Logger) *Bus {
	return &Bus{
		log:     log,
		waiters: list.New(),
	}
}

// SetTextHandler registers the fallback handler for text events no
// waiter consumes (the command router).
func (b *Bus) SetTextHandler(fn func(models.TextEvent)) {
	b.mu.Lock()
	b.textHandler = fn
	b.mu.Unlock()
}

// SetReactionHandler registers the single reaction consumer
func (b *Bus) SetReactionHandler(fn func(models.ReactionEvent)) {
	b.mu.Lock()
	b.reactionHandler = fn
	b.mu.Unlock()
}

// PublishText delivers a text event. The oldest waiter whose predicate
// matches consumes it; otherwise it goes to the fallback handler.
// Returns true when a waiter consumed the event.
func (b *Bus) PublishText(ev models.TextEvent) bool {
	b.mu.Lock()
	for e := b.waiters.Front(); e != nil; e = e.Next() {
		w := e.Value.(*waiter)
		if w.done || !w.match(ev) {
			continue
		}
		w.done = true
		w.ch <- ev // buffered, never blocks
		b.mu.Unlock()
		return true
	}
	handler := b.textHandler
	b.mu.Unlock()

	if handler != nil {
		handler(ev)
	}
	return false
}

// PublishReaction delivers a reaction event to the registered handler.
// Dispatch is serialized: the duplicate and cap checks downstream are
// order-dependent, so no two reactions may be processed concurrently.
func (b *Bus) PublishReaction(ev models.ReactionEvent) {
	b.mu.Lock()
	handler := b.reactionHandler
	b.mu.Unlock()
	if handler == nil {
		return
	}

	b.reactionMu.Lock()
	defer b.reactionMu.Unlock()
	handler(ev)
}

// AwaitText blocks until a text event matching the predicate arrives,
// the timeout elapses, or ctx is cancelled. The waiter registration is
// released on every exit path.
func (b *Bus) AwaitText(ctx context.Context, match TextPredicate, timeout time.Duration) (models.TextEvent, error) {
	w := &waiter{
		match: match,
		ch:    make(chan models.TextEvent, 1),
	}

	b.mu.Lock()
	elem := b.waiters.PushBack(w)
	b.mu.Unlock()

	defer func() {
		b.mu.Lock()
		b.waiters.Remove(elem)
		b.mu.Unlock()
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case ev := <-w.ch:
		return ev, nil
	case <-timer.C:
		return models.TextEvent{}, apperrors.Timeout("no reply received in time")
	case <-ctx.Done():
		return models.TextEvent{}, ctx.Err()
	}
}

// Waiting reports how many waits are currently registered. Used by
// tests to verify waiter release.
func (b *Bus) Waiting() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.waiters.Len()
}
