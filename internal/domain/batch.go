package domain

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// DraftStatus represents the lifecycle state of a draft invoice
type DraftStatus string

const (
	StatusPending   DraftStatus = "pending"
	StatusEmitting  DraftStatus = "emitting"
	StatusSucceeded DraftStatus = "succeeded"
	StatusFailed    DraftStatus = "failed"
)

// ErrIllegalTransition is returned when a draft status change is not allowed
var ErrIllegalTransition = errors.New("illegal draft status transition")

// LineItem represents a single product line inside a draft invoice
type LineItem struct {
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	NCM       string  `json:"ncm,omitempty"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  float64 `json:"quantity"`
	LineTotal float64 `json:"line_total"`
}

// Recompute refreshes LineTotal from UnitPrice and Quantity.
// LineTotal is never trusted after a mutation.
func (li *LineItem) Recompute() {
	li.LineTotal = RoundCurrency(li.UnitPrice * li.Quantity)
}

// DraftInvoice is an unsubmitted invoice awaiting backend issuance.
// It belongs to exactly one Batch and is identified within it by its
// 1-based SequenceNumber.
type DraftInvoice struct {
	SequenceNumber int         `json:"sequence_number"`
	TargetAmount   float64     `json:"target_amount"`
	Items          []LineItem  `json:"items"`
	ActualAmount   float64     `json:"actual_amount"`
	Status         DraftStatus `json:"status"`
	StatusMessage  string      `json:"status_message,omitempty"`
	RemoteID       string      `json:"remote_id,omitempty"`
}

// ItemCount returns the number of distinct product lines
func (d *DraftInvoice) ItemCount() int {
	return len(d.Items)
}

// UnitCount sums the quantities across all lines
func (d *DraftInvoice) UnitCount() float64 {
	var total float64
	for _, item := range d.Items {
		total += item.Quantity
	}
	return total
}

// Batch is an ordered collection of draft invoices generated together
// from one total/count request. The batch exclusively owns its drafts.
type Batch struct {
	ID             string         `json:"id"`
	RequestedTotal float64        `json:"requested_total"`
	RequestedCount int            `json:"requested_count"`
	Drafts         []DraftInvoice `json:"drafts"`
	CreatedAt      time.Time      `json:"created_at"`
}

// RealizedTotal sums the actual amounts of all drafts
func (b *Batch) RealizedTotal() float64 {
	var total float64
	for i := range b.Drafts {
		total += b.Drafts[i].ActualAmount
	}
	return RoundCurrency(total)
}

// HasPendingWork reports whether any draft still needs emission
func (b *Batch) HasPendingWork() bool {
	for i := range b.Drafts {
		if b.Drafts[i].Status == StatusPending || b.Drafts[i].Status == StatusFailed {
			return true
		}
	}
	return false
}

// Completed reports whether every draft has been issued
func (b *Batch) Completed() bool {
	for i := range b.Drafts {
		if b.Drafts[i].Status != StatusSucceeded {
			return false
		}
	}
	return len(b.Drafts) > 0
}

// Draft returns the draft with the given 1-based sequence number
func (b *Batch) Draft(sequenceNumber int) (*DraftInvoice, error) {
	if sequenceNumber < 1 || sequenceNumber > len(b.Drafts) {
		return nil, fmt.Errorf("draft %d not found in batch of %d", sequenceNumber, len(b.Drafts))
	}
	return &b.Drafts[sequenceNumber-1], nil
}

// Transition moves a draft to a new status, enforcing the lifecycle:
// pending -> emitting -> succeeded | failed, failed -> emitting.
// At most one draft may be emitting at a time, batch-wide.
func (b *Batch) Transition(sequenceNumber int, to DraftStatus) error {
	draft, err := b.Draft(sequenceNumber)
	if err != nil {
		return err
	}

	switch to {
	case StatusEmitting:
		if draft.Status != StatusPending && draft.Status != StatusFailed {
			return fmt.Errorf("%w: %s -> %s (draft %d)", ErrIllegalTransition, draft.Status, to, sequenceNumber)
		}
		for i := range b.Drafts {
			if b.Drafts[i].Status == StatusEmitting {
				return fmt.Errorf("%w: draft %d is already emitting", ErrIllegalTransition, b.Drafts[i].SequenceNumber)
			}
		}
	case StatusSucceeded, StatusFailed:
		if draft.Status != StatusEmitting {
			return fmt.Errorf("%w: %s -> %s (draft %d)", ErrIllegalTransition, draft.Status, to, sequenceNumber)
		}
	default:
		return fmt.Errorf("%w: %s -> %s (draft %d)", ErrIllegalTransition, draft.Status, to, sequenceNumber)
	}

	draft.Status = to
	return nil
}

// Clone returns a deep copy of the batch. Snapshots handed to
// observers must never alias the live drafts.
func (b *Batch) Clone() *Batch {
	if b == nil {
		return nil
	}

	clone := *b
	clone.Drafts = make([]DraftInvoice, len(b.Drafts))
	for i, draft := range b.Drafts {
		copied := draft
		copied.Items = make([]LineItem, len(draft.Items))
		copy(copied.Items, draft.Items)
		clone.Drafts[i] = copied
	}
	return &clone
}

// RoundCurrency rounds a value to the nearest cent
func RoundCurrency(value float64) float64 {
	return math.Round(value*100) / 100
}

// TruncateCurrency truncates a value toward zero at cent precision
func TruncateCurrency(value float64) float64 {
	return math.Floor(value*100) / 100
}
