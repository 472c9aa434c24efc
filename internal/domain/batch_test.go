package domain

import (
	"errors"
	"testing"
)

func twoDraftBatch() *Batch {
	return &Batch{
		ID:             "batch-1",
		RequestedTotal: 100,
		RequestedCount: 2,
		Drafts: []DraftInvoice{
			{SequenceNumber: 1, TargetAmount: 60, ActualAmount: 59.90, Status: StatusPending},
			{SequenceNumber: 2, TargetAmount: 40, ActualAmount: 40.05, Status: StatusPending},
		},
	}
}

func TestTransitionLifecycle(t *testing.T) {
	b := twoDraftBatch()

	if err := b.Transition(1, StatusEmitting); err != nil {
		t.Fatalf("pending -> emitting failed: %v", err)
	}
	if err := b.Transition(1, StatusFailed); err != nil {
		t.Fatalf("emitting -> failed failed: %v", err)
	}
	if err := b.Transition(1, StatusEmitting); err != nil {
		t.Fatalf("failed -> emitting (retry) failed: %v", err)
	}
	if err := b.Transition(1, StatusSucceeded); err != nil {
		t.Fatalf("emitting -> succeeded failed: %v", err)
	}
}

func TestSucceededIsTerminal(t *testing.T) {
	b := twoDraftBatch()
	b.Drafts[0].Status = StatusSucceeded

	err := b.Transition(1, StatusEmitting)
	if !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("expected ErrIllegalTransition, got %v", err)
	}
}

func TestOnlyOneDraftEmitting(t *testing.T) {
	b := twoDraftBatch()

	if err := b.Transition(1, StatusEmitting); err != nil {
		t.Fatalf("first transition failed: %v", err)
	}
	err := b.Transition(2, StatusEmitting)
	if !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("expected second emitting draft to be rejected, got %v", err)
	}
}

func TestDirectSuccessFromPendingRejected(t *testing.T) {
	b := twoDraftBatch()

	err := b.Transition(1, StatusSucceeded)
	if !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("expected pending -> succeeded to be rejected, got %v", err)
	}
}

func TestHasPendingWork(t *testing.T) {
	b := twoDraftBatch()
	if !b.HasPendingWork() {
		t.Fatalf("fresh batch should have pending work")
	}

	b.Drafts[0].Status = StatusSucceeded
	b.Drafts[1].Status = StatusFailed
	if !b.HasPendingWork() {
		t.Fatalf("failed drafts count as pending work")
	}

	b.Drafts[1].Status = StatusSucceeded
	if b.HasPendingWork() {
		t.Fatalf("fully succeeded batch should have no pending work")
	}
	if !b.Completed() {
		t.Fatalf("fully succeeded batch should be completed")
	}
}

func TestRealizedTotal(t *testing.T) {
	b := twoDraftBatch()
	if got := b.RealizedTotal(); got != 99.95 {
		t.Fatalf("expected realized total 99.95, got %v", got)
	}
}

func TestCloneIsIsolated(t *testing.T) {
	b := twoDraftBatch()
	b.Drafts[0].Items = []LineItem{{ProductID: 1, Name: "Cimento", UnitPrice: 29.95, Quantity: 2, LineTotal: 59.90}}

	clone := b.Clone()
	clone.Drafts[0].Status = StatusSucceeded
	clone.Drafts[0].Items[0].Quantity = 99

	if b.Drafts[0].Status != StatusPending {
		t.Fatalf("clone mutation leaked into the original status")
	}
	if b.Drafts[0].Items[0].Quantity != 2 {
		t.Fatalf("clone mutation leaked into the original items")
	}
}

func TestCloneNil(t *testing.T) {
	var b *Batch
	if b.Clone() != nil {
		t.Fatalf("nil batch should clone to nil")
	}
}

func TestCurrencyHelpers(t *testing.T) {
	if got := RoundCurrency(10.005); got != 10.01 {
		t.Fatalf("RoundCurrency(10.005) = %v", got)
	}
	if got := TruncateCurrency(10.019); got != 10.01 {
		t.Fatalf("TruncateCurrency(10.019) = %v", got)
	}
}

func TestLineItemRecompute(t *testing.T) {
	item := LineItem{UnitPrice: 3.33, Quantity: 3, LineTotal: 1}
	item.Recompute()
	if item.LineTotal != 9.99 {
		t.Fatalf("expected 9.99, got %v", item.LineTotal)
	}
}
