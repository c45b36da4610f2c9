package pubsub

import (
	"context"

	"github.com/piraces/feedzone/pkg/domain/zone"
)

type ZoneChangedPubSub struct {
	pubsub *GoChannelPubSub[zone.Change]
}

func NewZoneChangedPubSub() *ZoneChangedPubSub {
	return &ZoneChangedPubSub{
		pubsub: NewGoChannelPubSub[zone.Change](),
	}
}

func (m *ZoneChangedPubSub) PublishZoneChanged(change zone.Change) {
	m.pubsub.Publish(change)
}

func (m *ZoneChangedPubSub) Subscribe(ctx context.Context) <-chan zone.Change {
	return m.pubsub.Subscribe(ctx)
}
