package batch

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/davissontiago/Mateco/internal/domain"
)

type fakeIssuer struct {
	results map[int]error
	calls   []int
	delay   time.Duration
}

func (f *fakeIssuer) IssueInvoice(_ context.Context, _ string, draft domain.DraftInvoice, _, _ string) (string, error) {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	f.calls = append(f.calls, draft.SequenceNumber)
	if err, ok := f.results[draft.SequenceNumber]; ok && err != nil {
		return "", err
	}
	return fmt.Sprintf("nfce-%d", draft.SequenceNumber), nil
}

func pendingBatch(count int) *domain.Batch {
	drafts := make([]domain.DraftInvoice, count)
	for i := range drafts {
		drafts[i] = domain.DraftInvoice{
			SequenceNumber: i + 1,
			TargetAmount:   10,
			ActualAmount:   10,
			Status:         domain.StatusPending,
			Items:          []domain.LineItem{{ProductID: int64(i + 1), UnitPrice: 10, Quantity: 1, LineTotal: 10}},
		}
	}
	return &domain.Batch{ID: "batch-1", RequestedTotal: float64(count) * 10, RequestedCount: count, Drafts: drafts}
}

func drain(ch <-chan *domain.Batch) []*domain.Batch {
	var snapshots []*domain.Batch
	for snap := range ch {
		snapshots = append(snapshots, snap)
	}
	return snapshots
}

func TestEmitAllSucceed(t *testing.T) {
	issuer := &fakeIssuer{}
	b := pendingBatch(3)

	snapshots := drain(NewEmitter(issuer, nil).Emit(context.Background(), b, "dinheiro", ""))

	if len(snapshots) != 6 {
		t.Fatalf("expected 6 snapshots (two per draft), got %d", len(snapshots))
	}
	if !b.Completed() {
		t.Fatalf("batch should be completed, got %+v", b.Drafts)
	}
	for i, draft := range b.Drafts {
		if draft.RemoteID == "" {
			t.Fatalf("draft %d missing remote ID", i+1)
		}
	}
	if len(issuer.calls) != 3 {
		t.Fatalf("expected 3 issuer calls, got %v", issuer.calls)
	}
}

func TestEmitOrderIsSequential(t *testing.T) {
	issuer := &fakeIssuer{}
	b := pendingBatch(4)

	drain(NewEmitter(issuer, nil).Emit(context.Background(), b, "dinheiro", ""))

	for i, seq := range issuer.calls {
		if seq != i+1 {
			t.Fatalf("expected sequential issue order, got %v", issuer.calls)
		}
	}
}

func TestEmitFailureDoesNotAbortPass(t *testing.T) {
	issuer := &fakeIssuer{results: map[int]error{2: fmt.Errorf("Estoque insuficiente")}}
	b := pendingBatch(3)

	drain(NewEmitter(issuer, nil).Emit(context.Background(), b, "dinheiro", ""))

	if b.Drafts[0].Status != domain.StatusSucceeded || b.Drafts[2].Status != domain.StatusSucceeded {
		t.Fatalf("surrounding drafts should still succeed: %+v", b.Drafts)
	}
	if b.Drafts[1].Status != domain.StatusFailed {
		t.Fatalf("expected draft 2 failed, got %s", b.Drafts[1].Status)
	}
	if b.Drafts[1].StatusMessage != "Estoque insuficiente" {
		t.Fatalf("expected backend message on the draft, got %q", b.Drafts[1].StatusMessage)
	}
	if !b.HasPendingWork() {
		t.Fatalf("batch with a failed draft should still have pending work")
	}
}

func TestEmitRetrySkipsSucceededDrafts(t *testing.T) {
	issuer := &fakeIssuer{results: map[int]error{2: fmt.Errorf("CNPJ do emitente irregular")}}
	b := pendingBatch(3)

	drain(NewEmitter(issuer, nil).Emit(context.Background(), b, "dinheiro", ""))

	// Second pass: the backend recovered
	retry := &fakeIssuer{}
	drain(NewEmitter(retry, nil).Emit(context.Background(), b, "dinheiro", ""))

	if len(retry.calls) != 1 || retry.calls[0] != 2 {
		t.Fatalf("retry should only touch the failed draft, got calls %v", retry.calls)
	}
	if !b.Completed() {
		t.Fatalf("batch should be completed after retry")
	}
	if b.Drafts[1].StatusMessage != "" {
		t.Fatalf("status message should be cleared on success, got %q", b.Drafts[1].StatusMessage)
	}
}

func TestEmitSnapshotsAreIsolated(t *testing.T) {
	issuer := &fakeIssuer{}
	b := pendingBatch(1)

	snapshots := drain(NewEmitter(issuer, nil).Emit(context.Background(), b, "dinheiro", ""))

	if snapshots[0].Drafts[0].Status != domain.StatusEmitting {
		t.Fatalf("first snapshot should show the emitting draft, got %s", snapshots[0].Drafts[0].Status)
	}
	if snapshots[1].Drafts[0].Status != domain.StatusSucceeded {
		t.Fatalf("second snapshot should show the outcome, got %s", snapshots[1].Drafts[0].Status)
	}

	// Mutating a snapshot must not leak into the live batch
	snapshots[1].Drafts[0].Status = domain.StatusFailed
	if b.Drafts[0].Status != domain.StatusSucceeded {
		t.Fatalf("snapshot mutation leaked into the batch")
	}
}

func TestEmitConcurrentReaderUnderSharedLock(t *testing.T) {
	issuer := &fakeIssuer{delay: time.Millisecond}
	b := pendingBatch(5)

	var mu sync.Mutex
	snapshots := NewEmitter(issuer, &mu).Emit(context.Background(), b, "dinheiro", "")

	// A reader cloning the live batch under the shared lock must never
	// observe a torn state while the pass mutates it
	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-stop:
				return
			default:
			}

			mu.Lock()
			clone := b.Clone()
			mu.Unlock()

			for _, draft := range clone.Drafts {
				if draft.Status == domain.StatusSucceeded && draft.RemoteID == "" {
					t.Errorf("clone shows a succeeded draft without a remote ID: %+v", draft)
					return
				}
			}
		}
	}()

	drain(snapshots)
	close(stop)
	<-done

	if !b.Completed() {
		t.Fatalf("batch should be completed, got %+v", b.Drafts)
	}
}
