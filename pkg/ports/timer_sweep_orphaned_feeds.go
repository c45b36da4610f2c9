package ports

import (
	"context"
	"log"
	"time"

	"github.com/piraces/feedzone/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

type HandlerSweepOrphanedFeeds interface {
	Handle(ctx context.Context) (int, error)
}

type SweepOrphanedFeedsTimer struct {
	handler  HandlerSweepOrphanedFeeds
	interval time.Duration
}

func NewSweepOrphanedFeedsTimer(handler HandlerSweepOrphanedFeeds, interval time.Duration) *SweepOrphanedFeedsTimer {
	return &SweepOrphanedFeedsTimer{handler: handler, interval: interval}
}

func (h *SweepOrphanedFeedsTimer) Run(ctx context.Context) {
	for {
		deleted, err := h.handler.Handle(ctx)
		if err != nil {
			log.Printf("[ERROR] error sweeping orphaned web feeds %s", err)
			metrics.SweepResults.With(prometheus.Labels{"result": "error"}).Set(1)
		} else {
			metrics.SweepResults.With(prometheus.Labels{"result": "error"}).Set(0)
		}
		metrics.SweepResults.With(prometheus.Labels{"result": "deleted"}).Set(float64(deleted))

		select {
		case <-time.After(h.interval):
			continue
		case <-ctx.Done():
			return
		}
	}
}
