package classify

import (
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Vijay-1289/opportune/internal/models"
)

// Options tunes ClassifyAll.
type Options struct {
	// Workers above one fans classification out; the output order is unchanged.
	Workers int
	// Logger receives one Debug event per skipped message. Nil disables it.
	Logger *zerolog.Logger
}

// Batch is the outcome of classifying a slice of messages.
type Batch struct {
	Opportunities []models.Opportunity
	Skipped       []SkipError
}

// Total is the number of input messages.
func (b Batch) Total() int {
	return len(b.Opportunities) + len(b.Skipped)
}

type indexedResult struct {
	index int
	opp   models.Opportunity
	err   error
}

// ClassifyAll classifies messages and returns the records in input order with
// skipped messages left out and counted.
func ClassifyAll(messages []models.RawMessage, opts Options) Batch {
	results := make([]indexedResult, len(messages))

	workers := opts.Workers
	if workers > len(messages) {
		workers = len(messages)
	}
	if workers <= 1 {
		for idx, message := range messages {
			opp, err := Classify(message)
			results[idx] = indexedResult{index: idx, opp: opp, err: err}
		}
	} else {
		jobs := make(chan int)
		out := make(chan indexedResult, len(messages))
		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for idx := range jobs {
					opp, err := Classify(messages[idx])
					out <- indexedResult{index: idx, opp: opp, err: err}
				}
			}()
		}
		for idx := range messages {
			jobs <- idx
		}
		close(jobs)
		wg.Wait()
		close(out)

		for result := range out {
			results[result.index] = result
		}
	}

	batch := Batch{Opportunities: make([]models.Opportunity, 0, len(messages))}
	for _, result := range results {
		if result.err == nil {
			batch.Opportunities = append(batch.Opportunities, result.opp)
			continue
		}
		skip := SkipError{ID: messages[result.index].ID, Reason: result.err}
		var se *SkipError
		if errors.As(result.err, &se) {
			skip = *se
		}
		batch.Skipped = append(batch.Skipped, skip)
		if opts.Logger != nil {
			opts.Logger.Debug().Str("message_id", skip.ID).Err(skip.Reason).Msg("message skipped")
		}
	}
	return batch
}
