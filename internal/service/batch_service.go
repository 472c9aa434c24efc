package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/davissontiago/Mateco/internal/batch"
	"github.com/davissontiago/Mateco/internal/domain"
	"github.com/davissontiago/Mateco/internal/fiscal"
	"github.com/davissontiago/Mateco/internal/repository"
)

// ViewMode selects between the batch overview and a single draft
type ViewMode string

const (
	ViewModeList   ViewMode = "list"
	ViewModeDetail ViewMode = "detail"
)

var (
	// ErrBatchBusy is returned when a build or emission pass is already running
	ErrBatchBusy = errors.New("batch is busy")
	// ErrNoBatch is returned when no draft batch exists for the session
	ErrNoBatch = errors.New("no draft batch")
	// ErrNothingToEmit is returned when every draft already succeeded
	ErrNothingToEmit = errors.New("nothing left to emit")
)

// ViewState mirrors what the POS screen is currently showing
type ViewState struct {
	Mode          ViewMode `json:"mode"`
	SelectedIndex int      `json:"selected_index"`
}

// Snapshot is the read-only projection handed to the UI. The batch it
// carries never aliases the live one.
type Snapshot struct {
	Batch *domain.Batch `json:"batch,omitempty"`
	View  ViewState     `json:"view"`
}

// FiscalIssuer is the slice of the fiscal client the service needs
type FiscalIssuer interface {
	IssueInvoice(ctx context.Context, items []domain.LineItem, paymentMethod, customerID string) (*fiscal.IssuedResult, error)
	DownloadPDF(ctx context.Context, remoteID string) ([]byte, error)
}

// PDFArchiver uploads rendered documents to long-term storage
type PDFArchiver interface {
	UploadPDF(pdfData []byte, filename string) (string, error)
}

// BatchService owns the session's draft batch and view state. Draft
// building and emission are mutually exclusive, enforced by an
// explicit busy guard rather than caller discipline.
type BatchService struct {
	builder *batch.Builder
	emitter *batch.Emitter
	issuer  FiscalIssuer

	documents repository.DocumentRepository
	archiver  PDFArchiver

	mu      sync.Mutex
	busy    bool
	current *domain.Batch
	view    ViewState
}

// NewBatchService creates the batch controller. documents and archiver
// are optional; when nil the corresponding best-effort step is skipped.
func NewBatchService(builder *batch.Builder, issuer FiscalIssuer) *BatchService {
	s := &BatchService{
		builder: builder,
		issuer:  issuer,
		view:    ViewState{Mode: ViewModeList},
	}
	// The emitter shares the service mutex so snapshot reads stay
	// consistent while a pass mutates the live batch
	s.emitter = batch.NewEmitter(s, &s.mu)
	return s
}

// SetDocumentRepository enables the issued-document ledger
func (s *BatchService) SetDocumentRepository(repo repository.DocumentRepository) {
	s.documents = repo
}

// SetArchiver enables DANFE archiving after successful emissions
func (s *BatchService) SetArchiver(archiver PDFArchiver) {
	s.archiver = archiver
}

// BuildDraft partitions total into count target amounts, fills each
// one through the selection service and replaces the session batch
// wholesale. The previous batch survives only if the build fails.
func (s *BatchService) BuildDraft(ctx context.Context, total float64, count int) (*Snapshot, error) {
	if err := s.acquire(); err != nil {
		return nil, err
	}
	defer s.release()

	built, err := s.builder.Build(ctx, total, count)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.current = built
	s.view = ViewState{Mode: ViewModeList}
	s.mu.Unlock()

	log.Printf("Draft batch %s built: %d drafts targeting %.2f", built.ID, count, total)
	return s.Snapshot(), nil
}

// Emit starts a sequential emission pass over the current batch and
// returns a snapshot channel, one snapshot per status transition. The
// batch stays busy until the pass finishes; drafts already succeeded
// are never re-submitted.
func (s *BatchService) Emit(ctx context.Context, paymentMethod, customerID string) (<-chan *Snapshot, error) {
	if err := s.acquire(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		s.release()
		return nil, ErrNoBatch
	}
	if !s.current.HasPendingWork() {
		s.mu.Unlock()
		s.release()
		return nil, ErrNothingToEmit
	}
	// Emission is followed from the overview
	s.view = ViewState{Mode: ViewModeList}
	target := s.current
	s.mu.Unlock()

	out := make(chan *Snapshot)
	go func() {
		// Release before the channel closes so a caller that watched
		// the stream end can immediately start the next operation
		defer close(out)
		defer s.release()

		for snap := range s.emitter.Emit(ctx, target, paymentMethod, customerID) {
			// Read the view per snapshot so navigation during the pass
			// shows up in the stream
			s.mu.Lock()
			view := s.view
			s.mu.Unlock()

			select {
			case out <- &Snapshot{Batch: snap, View: view}:
			case <-ctx.Done():
				// Observer is gone. Keep draining so the pass still
				// finishes; issued invoices are not undone.
			}
		}
	}()

	return out, nil
}

// IssueInvoice implements batch.InvoiceIssuer. It submits one draft to
// the fiscal backend and, on success, records the issued document and
// archives its DANFE. Ledger and archive failures are logged and never
// fail the draft; the fiscal document already exists at that point.
func (s *BatchService) IssueInvoice(ctx context.Context, batchID string, draft domain.DraftInvoice, paymentMethod, customerID string) (string, error) {
	result, err := s.issuer.IssueInvoice(ctx, draft.Items, paymentMethod, customerID)
	if err != nil {
		return "", err
	}

	doc := &domain.IssuedDocument{
		ID:        uuid.NewString(),
		RemoteID:  result.RemoteID,
		BatchID:   batchID,
		Number:    result.Number,
		Series:    result.Series,
		AccessKey: result.AccessKey,
		Total:     draft.ActualAmount,
		PDFURL:    result.PDFURL,
		XMLURL:    result.XMLURL,
		Status:    "AUTORIZADA",
		IssuedAt:  time.Now().UTC(),
	}

	if s.archiver != nil {
		if pdfData, err := s.issuer.DownloadPDF(ctx, result.RemoteID); err != nil {
			log.Printf("Error downloading DANFE for %s: %v", result.RemoteID, err)
		} else if archiveURL, err := s.archiver.UploadPDF(pdfData, fmt.Sprintf("danfe/%s.pdf", doc.ID)); err != nil {
			log.Printf("Error archiving DANFE for %s: %v", result.RemoteID, err)
		} else {
			doc.ArchiveURL = archiveURL
		}
	}

	if s.documents != nil {
		if err := s.documents.StoreDocument(ctx, doc); err != nil {
			log.Printf("Error recording issued document %s: %v", result.RemoteID, err)
		}
	}

	return result.RemoteID, nil
}

// Discard drops the current batch and resets the view state
func (s *BatchService) Discard() error {
	if err := s.acquire(); err != nil {
		return err
	}
	defer s.release()

	s.mu.Lock()
	s.current = nil
	s.view = ViewState{Mode: ViewModeList}
	s.mu.Unlock()

	return nil
}

// NavigateTo switches the view projection. index is the 0-based draft
// index and only consulted in detail mode.
func (s *BatchService) NavigateTo(mode ViewMode, index int) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if mode != ViewModeList && mode != ViewModeDetail {
		return nil, fmt.Errorf("unknown view mode %q", mode)
	}
	if mode == ViewModeDetail {
		if s.current == nil || index < 0 || index >= len(s.current.Drafts) {
			return nil, fmt.Errorf("draft index %d out of range", index)
		}
	}

	s.view = ViewState{Mode: mode, SelectedIndex: index}
	return &Snapshot{Batch: s.current.Clone(), View: s.view}, nil
}

// Snapshot returns a read-only copy of the current batch and view state
func (s *BatchService) Snapshot() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return &Snapshot{Batch: s.current.Clone(), View: s.view}
}

// ListDocuments returns the issued-document ledger, newest first
func (s *BatchService) ListDocuments(ctx context.Context, offset, limit int) ([]*domain.IssuedDocument, error) {
	if s.documents == nil {
		return []*domain.IssuedDocument{}, nil
	}
	return s.documents.ListDocuments(ctx, offset, limit)
}

// DocumentPDF fetches the DANFE for an issued document by its local ID
func (s *BatchService) DocumentPDF(ctx context.Context, id string) ([]byte, error) {
	if s.documents == nil {
		return nil, fmt.Errorf("document ledger is not configured")
	}

	doc, err := s.documents.GetDocumentByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return s.issuer.DownloadPDF(ctx, doc.RemoteID)
}

func (s *BatchService) acquire() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.busy {
		return ErrBatchBusy
	}
	s.busy = true
	return nil
}

func (s *BatchService) release() {
	s.mu.Lock()
	s.busy = false
	s.mu.Unlock()
}
