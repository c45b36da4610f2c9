package app

import "context"

type HandlerCreateFolder struct {
	creator containerCreator
}

func NewHandlerCreateFolder(zone RecordZone) *HandlerCreateFolder {
	return &HandlerCreateFolder{creator: containerCreator{zone: zone}}
}

func (h *HandlerCreateFolder) Handle(ctx context.Context, name string) (string, error) {
	return h.creator.create(ctx, name, false)
}
