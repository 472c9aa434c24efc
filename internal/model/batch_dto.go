package model

import (
	"github.com/davissontiago/Mateco/internal/domain"
	"github.com/davissontiago/Mateco/internal/service"
)

// LineItemDTO represents a single product line for data transfer
type LineItemDTO struct {
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	NCM       string  `json:"ncm,omitempty"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  float64 `json:"quantity"`
	LineTotal float64 `json:"line_total"`
}

// DraftInvoiceDTO represents one draft invoice for data transfer
type DraftInvoiceDTO struct {
	SequenceNumber int           `json:"sequence_number"`
	TargetAmount   float64       `json:"target_amount"`
	ActualAmount   float64       `json:"actual_amount"`
	Status         string        `json:"status"`
	StatusMessage  string        `json:"status_message,omitempty"`
	RemoteID       string        `json:"remote_id,omitempty"`
	ItemCount      int           `json:"item_count"`
	UnitCount      float64       `json:"unit_count"`
	Items          []LineItemDTO `json:"items"`
}

// BatchSnapshotDTO is the read-only projection of a batch plus the
// derived fields the POS screen renders directly
type BatchSnapshotDTO struct {
	ID             string            `json:"id,omitempty"`
	RequestedTotal float64           `json:"requested_total"`
	RequestedCount int               `json:"requested_count"`
	RealizedTotal  float64           `json:"realized_total"`
	HasPendingWork bool              `json:"has_pending_work"`
	Completed      bool              `json:"completed"`
	Drafts         []DraftInvoiceDTO `json:"drafts"`
	ViewMode       string            `json:"view_mode"`
	SelectedIndex  int               `json:"selected_index"`
}

// DraftRequest is the body of a draft-build request
type DraftRequest struct {
	Total float64 `json:"total" binding:"required"`
	Count int     `json:"count" binding:"required"`
}

// EmissionRequest is the body of an emission request
type EmissionRequest struct {
	PaymentMethod string `json:"payment_method" binding:"required"`
	CustomerID    string `json:"customer_id"`
}

// NavigationRequest is the body of a view-navigation request
type NavigationRequest struct {
	Mode  string `json:"mode" binding:"required"`
	Index int    `json:"index"`
}

// ErrorDetail provides field-level error information
type ErrorDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorResponse is the standardized error envelope
type ErrorResponse struct {
	Status  string        `json:"status"`
	Message string        `json:"message"`
	Details []ErrorDetail `json:"details,omitempty"`
}

// FromSnapshot converts a service snapshot to a DTO
func (dto *BatchSnapshotDTO) FromSnapshot(snapshot *service.Snapshot) {
	dto.ViewMode = string(snapshot.View.Mode)
	dto.SelectedIndex = snapshot.View.SelectedIndex
	dto.Drafts = []DraftInvoiceDTO{}

	b := snapshot.Batch
	if b == nil {
		return
	}

	dto.ID = b.ID
	dto.RequestedTotal = b.RequestedTotal
	dto.RequestedCount = b.RequestedCount
	dto.RealizedTotal = b.RealizedTotal()
	dto.HasPendingWork = b.HasPendingWork()
	dto.Completed = b.Completed()

	dto.Drafts = make([]DraftInvoiceDTO, len(b.Drafts))
	for i := range b.Drafts {
		dto.Drafts[i] = newDraftDTO(&b.Drafts[i])
	}
}

func newDraftDTO(draft *domain.DraftInvoice) DraftInvoiceDTO {
	items := make([]LineItemDTO, len(draft.Items))
	for i, item := range draft.Items {
		items[i] = LineItemDTO{
			ProductID: item.ProductID,
			Name:      item.Name,
			NCM:       item.NCM,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			LineTotal: item.LineTotal,
		}
	}

	return DraftInvoiceDTO{
		SequenceNumber: draft.SequenceNumber,
		TargetAmount:   draft.TargetAmount,
		ActualAmount:   draft.ActualAmount,
		Status:         string(draft.Status),
		StatusMessage:  draft.StatusMessage,
		RemoteID:       draft.RemoteID,
		ItemCount:      draft.ItemCount(),
		UnitCount:      draft.UnitCount(),
		Items:          items,
	}
}
