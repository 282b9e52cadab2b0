package validation

import (
	"context"
	"sync"

	"github.com/enzymatix/mechvalid/internal/domain/reaction"
	"github.com/enzymatix/mechvalid/internal/infrastructure/monitoring/logging"
)

// Outcome is the per-reaction result of a batch run.  Exactly one of Ranking
// and Err is set; a non-nil Ranking may still be empty when no rule matched.
type Outcome struct {
	ReactionID string
	Ranking    *reaction.ScoreRanking
	Err        error
}

// BatchRunner validates a list of reactions with a bounded worker pool.  One
// failed reaction never aborts the batch: its Outcome carries the error and
// the remaining reactions proceed.  The shared composition cache means
// duplicate compositions across the batch are scored once.
type BatchRunner struct {
	validator *Validator
	workers   int
	logger    logging.Logger
}

// NewBatchRunner wraps a Validator.  workers below 1 falls back to 1.
func NewBatchRunner(v *Validator, workers int, logger logging.Logger) *BatchRunner {
	if workers < 1 {
		workers = 1
	}
	return &BatchRunner{validator: v, workers: workers, logger: logger}
}

// Run validates the reactions by id and returns outcomes in input order.
// Cancellation of ctx stops dispatching new reactions; reactions not reached
// are reported with the context error.
func (b *BatchRunner) Run(ctx context.Context, ids []string) []Outcome {
	outcomes := make([]Outcome, len(ids))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < b.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				outcomes[i] = b.one(ctx, ids[i])
			}
		}()
	}

	for i := range ids {
		if err := ctx.Err(); err != nil {
			for j := i; j < len(ids); j++ {
				outcomes[j] = Outcome{ReactionID: ids[j], Err: err}
			}
			break
		}
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	b.validator.LogSummary()
	return outcomes
}

func (b *BatchRunner) one(ctx context.Context, id string) Outcome {
	ranking, err := b.validator.ValidateByID(ctx, id)
	if err != nil {
		b.logger.Warn("reaction validation failed",
			logging.String("reaction", id),
			logging.Err(err))
		return Outcome{ReactionID: id, Err: err}
	}
	return Outcome{ReactionID: id, Ranking: ranking}
}
