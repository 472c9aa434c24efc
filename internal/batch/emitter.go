package batch

import (
	"context"
	"log"
	"sync"

	"github.com/davissontiago/Mateco/internal/domain"
)

// InvoiceIssuer submits one aggregated draft to the fiscal backend and
// returns the remote document identifier on success. Errors whose
// Error() text is operator-readable (backend rejections) are surfaced
// verbatim on the draft.
type InvoiceIssuer interface {
	IssueInvoice(ctx context.Context, batchID string, draft domain.DraftInvoice, paymentMethod, customerID string) (string, error)
}

// Emitter walks a batch strictly in sequence order, issuing one
// invoice at a time. Every mutation of the live batch happens under
// mu, so readers holding the same lock always see a consistent batch.
type Emitter struct {
	issuer InvoiceIssuer
	mu     sync.Locker
}

// NewEmitter creates a sequential emitter backed by the given issuer.
// mu guards the batches handed to Emit; callers that read those
// batches while a pass runs must hold the same lock. A nil mu gets a
// private mutex.
func NewEmitter(issuer InvoiceIssuer, mu sync.Locker) *Emitter {
	if mu == nil {
		mu = &sync.Mutex{}
	}
	return &Emitter{issuer: issuer, mu: mu}
}

// Emit runs one emission pass over the batch and returns a channel of
// batch snapshots, one per status transition, closed when the pass
// ends. Drafts already succeeded are skipped without any network call,
// so re-invoking Emit after a partial failure only retries the failed
// drafts and can never produce a duplicate fiscal document. A single
// draft's failure never aborts the pass; every remaining draft is
// still attempted.
//
// The channel is buffered for the worst-case number of snapshots, so
// the pass makes progress even when the caller stops observing.
func (e *Emitter) Emit(ctx context.Context, b *domain.Batch, paymentMethod, customerID string) <-chan *domain.Batch {
	snapshots := make(chan *domain.Batch, 2*len(b.Drafts))

	go func() {
		defer close(snapshots)

		for i := range b.Drafts {
			e.mu.Lock()
			seq := b.Drafts[i].SequenceNumber
			if b.Drafts[i].Status == domain.StatusSucceeded {
				e.mu.Unlock()
				continue
			}

			if err := b.Transition(seq, domain.StatusEmitting); err != nil {
				e.mu.Unlock()
				log.Printf("Skipping draft %d: %v", seq, err)
				continue
			}
			draft := b.Drafts[i]
			snap := b.Clone()
			e.mu.Unlock()

			snapshots <- snap

			// The fiscal call runs outside the lock; it can take seconds
			remoteID, err := e.issuer.IssueInvoice(ctx, b.ID, draft, paymentMethod, customerID)

			e.mu.Lock()
			if err != nil {
				b.Drafts[i].StatusMessage = err.Error()
				if terr := b.Transition(seq, domain.StatusFailed); terr != nil {
					log.Printf("Failed to mark draft %d as failed: %v", seq, terr)
				}
			} else {
				b.Drafts[i].RemoteID = remoteID
				b.Drafts[i].StatusMessage = ""
				if terr := b.Transition(seq, domain.StatusSucceeded); terr != nil {
					log.Printf("Failed to mark draft %d as succeeded: %v", seq, terr)
				}
			}
			snap = b.Clone()
			e.mu.Unlock()

			snapshots <- snap
		}
	}()

	return snapshots
}
