package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davissontiago/Mateco/internal/batch"
	"github.com/davissontiago/Mateco/internal/domain"
	"github.com/davissontiago/Mateco/internal/fiscal"
	"github.com/davissontiago/Mateco/internal/model"
	"github.com/davissontiago/Mateco/internal/service"
)

type stubSelector struct{}

func (stubSelector) SimulateCart(_ context.Context, targetAmount float64) ([]domain.LineItem, float64, error) {
	item := domain.LineItem{ProductID: 1, Name: "Cimento", UnitPrice: targetAmount, Quantity: 1, LineTotal: targetAmount}
	return []domain.LineItem{item}, targetAmount, nil
}

type stubIssuer struct {
	issued int
	reject map[int]string
}

func (f *stubIssuer) IssueInvoice(_ context.Context, _ []domain.LineItem, _, _ string) (*fiscal.IssuedResult, error) {
	f.issued++
	if reason, ok := f.reject[f.issued]; ok {
		return nil, &fiscal.RejectionError{Message: reason}
	}
	return &fiscal.IssuedResult{RemoteID: fmt.Sprintf("nfc-%d", f.issued), Status: "autorizado"}, nil
}

func (f *stubIssuer) DownloadPDF(_ context.Context, _ string) ([]byte, error) {
	return []byte("%PDF-1.4"), nil
}

func newTestRouter(issuer service.FiscalIssuer) *gin.Engine {
	gin.SetMode(gin.TestMode)

	builder := batch.NewBuilder(stubSelector{}, batch.NewPartitionerWithSource(rand.NewSource(11)), 20)
	batches := service.NewBatchService(builder, issuer)

	router := gin.New()
	NewBatchHandler(batches).RegisterRoutes(router)
	return router
}

func doJSON(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewBuffer(data)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestBuildDraftEndpoint(t *testing.T) {
	router := newTestRouter(&stubIssuer{})

	w := doJSON(router, http.MethodPost, "/v1/batches/draft", model.DraftRequest{Total: 100.00, Count: 3})
	require.Equal(t, http.StatusOK, w.Code)

	var snapshot model.BatchSnapshotDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snapshot))

	assert.NotEmpty(t, snapshot.ID)
	assert.Equal(t, 100.00, snapshot.RequestedTotal)
	assert.Len(t, snapshot.Drafts, 3)
	assert.Equal(t, "list", snapshot.ViewMode)
	assert.True(t, snapshot.HasPendingWork)
	for i, draft := range snapshot.Drafts {
		assert.Equal(t, i+1, draft.SequenceNumber)
		assert.Equal(t, "pending", draft.Status)
	}
}

func TestBuildDraftValidation(t *testing.T) {
	router := newTestRouter(&stubIssuer{})

	w := doJSON(router, http.MethodPost, "/v1/batches/draft", map[string]any{"total": 100.00})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodPost, "/v1/batches/draft", model.DraftRequest{Total: -5, Count: 2})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodPost, "/v1/batches/draft", model.DraftRequest{Total: 100, Count: 21})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCurrentBatchEndpoint(t *testing.T) {
	router := newTestRouter(&stubIssuer{})

	w := doJSON(router, http.MethodGet, "/v1/batches/current", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	doJSON(router, http.MethodPost, "/v1/batches/draft", model.DraftRequest{Total: 100.00, Count: 2})

	w = doJSON(router, http.MethodGet, "/v1/batches/current", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var snapshot model.BatchSnapshotDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snapshot))
	assert.Len(t, snapshot.Drafts, 2)
}

func TestDiscardBatchEndpoint(t *testing.T) {
	router := newTestRouter(&stubIssuer{})

	doJSON(router, http.MethodPost, "/v1/batches/draft", model.DraftRequest{Total: 100.00, Count: 2})

	w := doJSON(router, http.MethodDelete, "/v1/batches/current", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(router, http.MethodGet, "/v1/batches/current", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNavigateEndpoint(t *testing.T) {
	router := newTestRouter(&stubIssuer{})

	doJSON(router, http.MethodPost, "/v1/batches/draft", model.DraftRequest{Total: 100.00, Count: 2})

	w := doJSON(router, http.MethodPost, "/v1/batches/view", model.NavigationRequest{Mode: "detail", Index: 1})
	require.Equal(t, http.StatusOK, w.Code)

	var snapshot model.BatchSnapshotDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snapshot))
	assert.Equal(t, "detail", snapshot.ViewMode)
	assert.Equal(t, 1, snapshot.SelectedIndex)

	w = doJSON(router, http.MethodPost, "/v1/batches/view", model.NavigationRequest{Mode: "grid"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodPost, "/v1/batches/view", model.NavigationRequest{Mode: "detail", Index: 9})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEmitEndpointStreamsSnapshots(t *testing.T) {
	router := newTestRouter(&stubIssuer{})

	doJSON(router, http.MethodPost, "/v1/batches/draft", model.DraftRequest{Total: 100.00, Count: 2})

	w := doJSON(router, http.MethodPost, "/v1/batches/emissions", model.EmissionRequest{PaymentMethod: "01"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/x-ndjson", w.Header().Get("Content-Type"))

	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	require.Len(t, lines, 4, "two snapshots per draft")

	var last model.BatchSnapshotDTO
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &last))
	assert.True(t, last.Completed)
	for _, draft := range last.Drafts {
		assert.Equal(t, "succeeded", draft.Status)
		assert.NotEmpty(t, draft.RemoteID)
	}
}

func TestEmitEndpointSurfacesRejections(t *testing.T) {
	router := newTestRouter(&stubIssuer{reject: map[int]string{1: "Rejeicao: valor total invalido"}})

	doJSON(router, http.MethodPost, "/v1/batches/draft", model.DraftRequest{Total: 100.00, Count: 2})

	w := doJSON(router, http.MethodPost, "/v1/batches/emissions", model.EmissionRequest{PaymentMethod: "01"})
	require.Equal(t, http.StatusOK, w.Code)

	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	var last model.BatchSnapshotDTO
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &last))

	assert.True(t, last.HasPendingWork)
	assert.Equal(t, "failed", last.Drafts[0].Status)
	assert.Equal(t, "Rejeicao: valor total invalido", last.Drafts[0].StatusMessage)
	assert.Equal(t, "succeeded", last.Drafts[1].Status)
}

func TestEmitEndpointGuards(t *testing.T) {
	router := newTestRouter(&stubIssuer{})

	w := doJSON(router, http.MethodPost, "/v1/batches/emissions", model.EmissionRequest{PaymentMethod: "01"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(router, http.MethodPost, "/v1/batches/emissions", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	doJSON(router, http.MethodPost, "/v1/batches/draft", model.DraftRequest{Total: 100.00, Count: 1})
	doJSON(router, http.MethodPost, "/v1/batches/emissions", model.EmissionRequest{PaymentMethod: "01"})

	w = doJSON(router, http.MethodPost, "/v1/batches/emissions", model.EmissionRequest{PaymentMethod: "01"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
