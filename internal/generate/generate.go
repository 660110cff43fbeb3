package generate

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/sourcegraph/conc/pool"
	"golang.org/x/time/rate"

	"github.com/julianshen/helpgen/internal/knowledge"
	"github.com/julianshen/helpgen/internal/provider"
)

// Runner drives the per-topic generation calls.
type Runner struct {
	LLM         provider.LLMProvider
	Model       string
	MaxTokens   int
	Concurrency int
	Timeout     time.Duration
	Limiter     *rate.Limiter
	CodeVersion string
	DryRun      bool

	// now is swapped in tests for deterministic timestamps.
	now func() time.Time
}

// TopicError records one topic whose generation failed.
type TopicError struct {
	Topic string
	Err   error
}

// Summary is the outcome of one generation run.
type Summary struct {
	Created  int
	Updated  int
	Skipped  int
	Failed   int
	Usage    provider.Usage
	Failures []TopicError
}

// Run executes the planner's decisions. Skips are counted without touching
// the base; create and update decisions each cost one LLM call, issued
// concurrently under the rate limiter. A failed topic is logged and counted
// but never aborts the rest of the batch.
func (r *Runner) Run(ctx context.Context, decisions []knowledge.Decision, base *knowledge.Base) Summary {
	if r.now == nil {
		r.now = time.Now
	}
	concurrency := r.Concurrency
	if concurrency <= 0 {
		concurrency = 3
	}

	var mu sync.Mutex
	var summary Summary

	p := pool.New().WithMaxGoroutines(concurrency)
	for _, d := range decisions {
		d := d
		switch d.Action {
		case knowledge.ActionSkipPinned, knowledge.ActionSkipUnchanged:
			summary.Skipped++
			continue
		case knowledge.ActionCreate, knowledge.ActionUpdate:
		default:
			continue
		}

		if r.DryRun {
			if d.Action == knowledge.ActionCreate {
				summary.Created++
			} else {
				summary.Updated++
			}
			continue
		}

		p.Go(func() {
			item, usage, err := r.generateTopic(ctx, d)
			mu.Lock()
			defer mu.Unlock()
			summary.Usage.Add(usage)
			if err != nil {
				log.Printf("WARNING: topic %q generation failed: %v", d.Feature.ID, err)
				summary.Failed++
				summary.Failures = append(summary.Failures, TopicError{Topic: d.Feature.ID, Err: err})
				return
			}
			base.Upsert(item)
			if d.Action == knowledge.ActionCreate {
				summary.Created++
			} else {
				summary.Updated++
			}
		})
	}
	p.Wait()
	return summary
}

// generateTopic issues one LLM call for a single topic and folds the parsed
// response into a knowledge item.
func (r *Runner) generateTopic(ctx context.Context, d knowledge.Decision) (knowledge.Item, provider.Usage, error) {
	var usage provider.Usage

	if r.Limiter != nil {
		if err := r.Limiter.Wait(ctx); err != nil {
			return knowledge.Item{}, usage, err
		}
	}

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	prompt, err := RenderPrompt(d.Context)
	if err != nil {
		return knowledge.Item{}, usage, err
	}

	comp, err := r.LLM.Complete(ctx, provider.CompletionRequest{
		Model:     r.Model,
		System:    systemPrompt,
		Prompt:    prompt,
		MaxTokens: r.MaxTokens,
	})
	if err != nil {
		return knowledge.Item{}, usage, fmt.Errorf("LLM completion: %w", err)
	}
	usage = comp.Usage

	res := ParseResponse(d.Context.TopicName, comp.Text)
	item := knowledge.ApplyGeneration(d.Existing, d.Feature, res, r.CodeVersion, r.now())
	return item, usage, nil
}
