package pubsub

import (
	"context"
	"log"

	"github.com/piraces/feedzone/pkg/adapters/pubsub"
	"github.com/piraces/feedzone/pkg/domain/zone"
)

type ZoneChangedHandler interface {
	Handle(ctx context.Context, change zone.Change) error
}

type ZoneChangedSubscriber struct {
	pubsub  *pubsub.ZoneChangedPubSub
	handler ZoneChangedHandler
}

func NewZoneChangedSubscriber(
	pubsub *pubsub.ZoneChangedPubSub,
	handler ZoneChangedHandler,
) *ZoneChangedSubscriber {
	return &ZoneChangedSubscriber{
		pubsub:  pubsub,
		handler: handler,
	}
}

func (p *ZoneChangedSubscriber) Run(ctx context.Context) {
	for change := range p.pubsub.Subscribe(ctx) {
		if err := p.handler.Handle(ctx, change); err != nil {
			log.Printf("[ERROR] error passing change of record '%s' to zone changed handler: %s", change.ExternalID, err)
		}
	}
}
