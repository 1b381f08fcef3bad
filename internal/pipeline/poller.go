package pipeline

import (
	"context"
	"time"

	"github.com/apex/log"

	"github.com/saicode/bombalarm/internal/biwapp"
	"github.com/saicode/bombalarm/internal/store"
)

// Fetcher retrieves the current batch of feed records.
type Fetcher interface {
	FetchNews(ctx context.Context) ([]biwapp.Record, error)
}

// Poller runs the fetch/process cycle on a fixed interval.
type Poller struct {
	Feed      Fetcher
	Processor *Processor
	State     *store.StateStore
	Interval  time.Duration
}

// Run polls once immediately, then on every interval tick until the
// context is cancelled.
func (p *Poller) Run(ctx context.Context) {
	log.Infof("polling feed every %s", p.Interval)

	p.runOnce(ctx)

	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("poller stopped")
			return
		case <-ticker.C:
			p.runOnce(ctx)
		}
	}
}

func (p *Poller) runOnce(ctx context.Context) {
	pollCycles.Inc()
	if err := p.State.SaveLastPoll(time.Now()); err != nil {
		log.Warnf("failed to save poll state: %v", err)
	}

	records, err := p.Feed.FetchNews(ctx)
	if err != nil {
		p.handlePollError(err)
		return
	}

	if _, err := p.Processor.ProcessRecords(ctx, records); err != nil {
		if ctx.Err() != nil {
			return
		}
		p.handlePollError(err)
		return
	}

	if err := p.State.SaveLastSuccess(time.Now()); err != nil {
		log.Warnf("failed to save poll state: %v", err)
	}
	if err := p.State.ResetFailures(); err != nil {
		log.Warnf("failed to save poll state: %v", err)
	}
	if err := p.State.SaveLastError(""); err != nil {
		log.Warnf("failed to save poll state: %v", err)
	}
}

func (p *Poller) handlePollError(err error) {
	pollErrors.Inc()
	log.Errorf("poll failed: %v", err)

	if saveErr := p.State.SaveLastError(err.Error()); saveErr != nil {
		log.Warnf("failed to save poll state: %v", saveErr)
	}
	if _, incErr := p.State.IncrementFailures(); incErr != nil {
		log.Warnf("failed to save poll state: %v", incErr)
	}
}
