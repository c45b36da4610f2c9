package app

import (
	"context"

	"github.com/piraces/feedzone/pkg/domain/zone"
	"github.com/pkg/errors"
)

type HandlerOnZoneChanged struct {
	cache WebFeedListCache
}

func NewHandlerOnZoneChanged(cache WebFeedListCache) *HandlerOnZoneChanged {
	return &HandlerOnZoneChanged{cache: cache}
}

// Handle drops cached feed lists. Any feed or container write can change
// the contents of several lists so the whole cache goes.
func (h *HandlerOnZoneChanged) Handle(ctx context.Context, change zone.Change) error {
	if err := h.cache.Invalidate(ctx); err != nil {
		return errors.Wrapf(err, "error invalidating cache after change of %s '%s'", change.RecordType, change.ExternalID)
	}
	return nil
}
