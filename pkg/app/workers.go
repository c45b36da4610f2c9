package app

import (
	"context"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

const defaultMaxWorkers = 10

type recordWork func(ctx context.Context, externalID string) error

type externalIDWithError struct {
	ExternalID string
	Err        error
}

// forEachRecord runs work for every ID on a bounded pool of workers and
// returns the number of successes together with every failure.
func forEachRecord(ctx context.Context, numWorkers int, externalIDs []string, work recordWork) (int, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if numWorkers <= 0 {
		numWorkers = defaultMaxWorkers
	}

	chIn := make(chan string)
	chOut := make(chan externalIDWithError)

	go func() {
		for _, externalID := range externalIDs {
			select {
			case chIn <- externalID:
				continue
			case <-ctx.Done():
				return
			}
		}
	}()

	for i := 0; i < numWorkers; i++ {
		go startWorker(ctx, work, chIn, chOut)
	}

	counterSuccess := 0

	var resultErr error
	for i := 0; i < len(externalIDs); i++ {
		select {
		case result := <-chOut:
			if result.Err != nil {
				resultErr = multierror.Append(resultErr, errors.Wrapf(result.Err, "record '%s'", result.ExternalID))
			} else {
				counterSuccess++
			}
		case <-ctx.Done():
			return counterSuccess, ctx.Err()
		}
	}

	return counterSuccess, resultErr
}

func startWorker(ctx context.Context, work recordWork, chIn <-chan string, chOut chan<- externalIDWithError) {
	for {
		select {
		case externalID := <-chIn:
			err := work(ctx, externalID)
			select {
			case chOut <- externalIDWithError{
				ExternalID: externalID,
				Err:        err,
			}:
			case <-ctx.Done():
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
