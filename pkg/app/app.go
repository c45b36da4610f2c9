package app

import (
	"context"
	"fmt"

	"github.com/piraces/feedzone/pkg/domain/feed"
	"github.com/piraces/feedzone/pkg/domain/zone"
	"github.com/pkg/errors"
)

type App struct {
	CreateWebFeed       *HandlerCreateWebFeed
	RenameWebFeed       *HandlerRenameWebFeed
	RemoveWebFeed       *HandlerRemoveWebFeed
	MoveWebFeed         *HandlerMoveWebFeed
	AddWebFeed          *HandlerAddWebFeed
	ListWebFeeds        *HandlerListWebFeeds
	FindOrCreateAccount *HandlerFindOrCreateAccount
	CreateFolder        *HandlerCreateFolder
	RenameFolder        *HandlerRenameFolder
	RemoveFolder        *HandlerRemoveFolder
	RemoveFolderCascade *HandlerRemoveFolderCascade
	SweepOrphanedFeeds  *HandlerSweepOrphanedFeeds
	OnZoneChanged       *HandlerOnZoneChanged
}

// RecordZone is the remote record store scoped to one zone. Save must merge
// the fields it is given into the stored record: fields absent from the
// saved record are preserved and nil fields are removed.
type RecordZone interface {
	Save(ctx context.Context, record zone.Record) (zone.Record, error)
	Fetch(ctx context.Context, externalID string) (zone.Record, error)
	Delete(ctx context.Context, externalID string) error
	Query(ctx context.Context, query zone.Query) ([]zone.Record, error)
	GenerateRecordID() string
}

// WebFeedListCache holds container feed lists. Every Invalidate starts a new
// generation and Put must drop lists read under an older one.
type WebFeedListCache interface {
	Get(ctx context.Context, containerID string) ([]feed.WebFeed, bool)
	Generation() uint64
	Put(ctx context.Context, containerID string, generation uint64, feeds []feed.WebFeed) error
	Invalidate(ctx context.Context) error
}

type Config struct {
	MaxWorkers int
}

func New(config Config, recordZone RecordZone, cache WebFeedListCache) App {
	removeWebFeed := NewHandlerRemoveWebFeed(recordZone)
	removeFolder := NewHandlerRemoveFolder(recordZone)
	listWebFeeds := NewHandlerListWebFeeds(recordZone, cache)

	return App{
		CreateWebFeed:       NewHandlerCreateWebFeed(recordZone),
		RenameWebFeed:       NewHandlerRenameWebFeed(recordZone),
		RemoveWebFeed:       removeWebFeed,
		MoveWebFeed:         NewHandlerMoveWebFeed(recordZone),
		AddWebFeed:          NewHandlerAddWebFeed(recordZone),
		ListWebFeeds:        listWebFeeds,
		FindOrCreateAccount: NewHandlerFindOrCreateAccount(recordZone),
		CreateFolder:        NewHandlerCreateFolder(recordZone),
		RenameFolder:        NewHandlerRenameFolder(recordZone),
		RemoveFolder:        removeFolder,
		RemoveFolderCascade: NewHandlerRemoveFolderCascade(config.MaxWorkers, recordZone, removeWebFeed, removeFolder),
		SweepOrphanedFeeds:  NewHandlerSweepOrphanedFeeds(config.MaxWorkers, recordZone),
		OnZoneChanged:       NewHandlerOnZoneChanged(cache),
	}
}

// ErrInvalidParameter is returned before any store call when a handle lacks
// the external ID the operation needs.
var ErrInvalidParameter = errors.New("invalid parameter")

// RemoteOperationError carries a record store failure unchanged.
type RemoteOperationError struct {
	Operation string
	Err       error
}

func (e *RemoteOperationError) Error() string {
	return fmt.Sprintf("remote %s failed: %s", e.Operation, e.Err)
}

func (e *RemoteOperationError) Unwrap() error {
	return e.Err
}

const (
	operationFetch  = "fetch"
	operationSave   = "save"
	operationDelete = "delete"
	operationQuery  = "query"
)

func remoteError(operation string, err error) error {
	return &RemoteOperationError{Operation: operation, Err: err}
}

func invalidParameter(reason string) error {
	return errors.Wrap(ErrInvalidParameter, reason)
}
