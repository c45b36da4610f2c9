package pubsub

import (
	"context"
	"sync"
)

// GoChannelPubSub fans every published value out to all current subscribers.
// Publish blocks until each subscriber has taken the value or gone away.
type GoChannelPubSub[T any] struct {
	subscriptions     []*subscription[T]
	subscriptionsLock sync.Mutex
}

func NewGoChannelPubSub[T any]() *GoChannelPubSub[T] {
	return &GoChannelPubSub[T]{}
}

func (g *GoChannelPubSub[T]) Subscribe(ctx context.Context) <-chan T {
	g.subscriptionsLock.Lock()
	defer g.subscriptionsLock.Unlock()

	sub := &subscription[T]{
		ctx: ctx,
		ch:  make(chan T),
	}
	g.subscriptions = append(g.subscriptions, sub)

	go func() {
		<-ctx.Done()
		g.removeSubscription(sub)
	}()

	return sub.ch
}

func (g *GoChannelPubSub[T]) Publish(value T) {
	g.subscriptionsLock.Lock()
	defer g.subscriptionsLock.Unlock()

	for _, sub := range g.subscriptions {
		select {
		case sub.ch <- value:
		case <-sub.ctx.Done():
		}
	}
}

func (g *GoChannelPubSub[T]) removeSubscription(sub *subscription[T]) {
	g.subscriptionsLock.Lock()
	defer g.subscriptionsLock.Unlock()

	for i := range g.subscriptions {
		if g.subscriptions[i] == sub {
			g.subscriptions = append(g.subscriptions[:i], g.subscriptions[i+1:]...)
			close(sub.ch)
			return
		}
	}
}

type subscription[T any] struct {
	ctx context.Context
	ch  chan T
}
