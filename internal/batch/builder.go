package batch

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/davissontiago/Mateco/internal/domain"
	"github.com/google/uuid"
)

// CartSelector fills a target amount with concrete product lines. The
// selection algorithm itself lives in the remote catalog service; the
// builder only consumes its result.
type CartSelector interface {
	SimulateCart(ctx context.Context, targetAmount float64) ([]domain.LineItem, float64, error)
}

// Builder assembles a batch of draft invoices from a total and a count
type Builder struct {
	selector    CartSelector
	partitioner *Partitioner
	maxSize     int
}

// NewBuilder creates a draft builder. maxSize caps the number of
// drafts per batch; values below 1 fall back to 20.
func NewBuilder(selector CartSelector, partitioner *Partitioner, maxSize int) *Builder {
	if maxSize < 1 {
		maxSize = 20
	}
	if partitioner == nil {
		partitioner = NewPartitioner()
	}

	return &Builder{
		selector:    selector,
		partitioner: partitioner,
		maxSize:     maxSize,
	}
}

// Build partitions total into count target amounts, asks the selection
// service to fill each one concurrently, and returns a batch of count
// pending drafts in partition order.
//
// A partition whose selection call fails is kept as an empty draft so
// the operator sees a visibly incomplete invoice instead of a silently
// shrunken batch. Only when every partition fails does the build fail
// as a whole, leaving no batch behind.
func (b *Builder) Build(ctx context.Context, total float64, count int) (*domain.Batch, error) {
	if count > b.maxSize {
		return nil, fmt.Errorf("%w: count %d exceeds batch limit of %d", ErrInvalidInput, count, b.maxSize)
	}

	targets, err := b.partitioner.Partition(total, count)
	if err != nil {
		return nil, err
	}

	type selectionResult struct {
		items    []domain.LineItem
		realized float64
		err      error
	}

	results := make([]selectionResult, len(targets))

	var wg sync.WaitGroup
	for i, target := range targets {
		wg.Add(1)
		go func(idx int, amount float64) {
			defer wg.Done()
			items, realized, err := b.selector.SimulateCart(ctx, amount)
			results[idx] = selectionResult{items: items, realized: realized, err: err}
		}(i, target)
	}
	wg.Wait()

	failures := 0
	drafts := make([]domain.DraftInvoice, len(targets))
	for i, target := range targets {
		draft := domain.DraftInvoice{
			SequenceNumber: i + 1,
			TargetAmount:   target,
			Status:         domain.StatusPending,
			Items:          []domain.LineItem{},
		}

		if results[i].err != nil {
			failures++
			log.Printf("Selection failed for partition %d (%.2f): %v", i+1, target, results[i].err)
		} else {
			draft.Items = AggregateItems(results[i].items)
			draft.ActualAmount = domain.RoundCurrency(results[i].realized)
		}

		drafts[i] = draft
	}

	if failures == len(targets) {
		return nil, fmt.Errorf("selection service unavailable: all %d partitions failed", len(targets))
	}

	return &domain.Batch{
		ID:             uuid.NewString(),
		RequestedTotal: domain.RoundCurrency(total),
		RequestedCount: count,
		Drafts:         drafts,
		CreatedAt:      time.Now().UTC(),
	}, nil
}
