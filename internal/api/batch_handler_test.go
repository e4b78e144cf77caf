package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/taskdeck-api/internal/domain"
	"github.com/taskdeck/taskdeck-api/internal/service"
	"github.com/taskdeck/taskdeck-api/internal/store"
)

// mockBatchService is a mock implementation of service.BatchService for testing
type mockBatchService struct {
	createBatchFn    func(ctx context.Context, input service.CreateBatchInput) (*domain.TaskBatch, error)
	getBatchFn       func(ctx context.Context, batchID uuid.UUID) (*domain.TaskBatch, error)
	listBatchesFn    func(ctx context.Context, params store.BatchListParams) ([]*domain.TaskBatch, int64, error)
	getLatestBatchFn func(ctx context.Context, sessionID *uuid.UUID) (*domain.TaskBatch, error)
}

func (m *mockBatchService) CreateBatch(
	ctx context.Context,
	input service.CreateBatchInput,
) (*domain.TaskBatch, error) {
	if m.createBatchFn != nil {
		return m.createBatchFn(ctx, input)
	}
	return nil, nil
}

func (m *mockBatchService) GetBatch(
	ctx context.Context,
	batchID uuid.UUID,
) (*domain.TaskBatch, error) {
	if m.getBatchFn != nil {
		return m.getBatchFn(ctx, batchID)
	}
	return nil, nil
}

func (m *mockBatchService) ListBatches(
	ctx context.Context,
	params store.BatchListParams,
) ([]*domain.TaskBatch, int64, error) {
	if m.listBatchesFn != nil {
		return m.listBatchesFn(ctx, params)
	}
	return nil, 0, nil
}

func (m *mockBatchService) GetLatestBatch(
	ctx context.Context,
	sessionID *uuid.UUID,
) (*domain.TaskBatch, error) {
	if m.getLatestBatchFn != nil {
		return m.getLatestBatchFn(ctx, sessionID)
	}
	return nil, nil
}

// batchFixture builds a batch whose tasks already carry the batch's
// session and ID, the shape the service hands back.
func batchFixture(t *testing.T, sessionID *uuid.UUID, titles ...string) *domain.TaskBatch {
	t.Helper()

	now := time.Now().UTC()
	batch := &domain.TaskBatch{
		ID:        uuid.New(),
		SessionID: sessionID,
		CreatedAt: now,
		Tasks:     make([]*domain.Task, 0, len(titles)),
	}
	for _, title := range titles {
		batch.Tasks = append(batch.Tasks, &domain.Task{
			ID:        uuid.New(),
			SessionID: sessionID,
			BatchID:   &batch.ID,
			Title:     title,
			Status:    domain.TaskStatusPending,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	return batch
}

func TestNewBatchHandler(t *testing.T) {
	mockService := &mockBatchService{}

	t.Run("with logger", func(t *testing.T) {
		handler := NewBatchHandler(mockService, discardLogger())

		assert.NotNil(t, handler)
		assert.Equal(t, mockService, handler.batchService)
		assert.NotNil(t, handler.logger)
	})

	t.Run("without logger", func(t *testing.T) {
		assert.Panics(t, func() {
			NewBatchHandler(mockService, nil)
		})
	})
}

func TestBatchHandler_CreateBatch(t *testing.T) {
	sessionID := uuid.New()

	t.Run("creates batch with tasks", func(t *testing.T) {
		var captured service.CreateBatchInput
		mockService := &mockBatchService{
			createBatchFn: func(ctx context.Context, input service.CreateBatchInput) (*domain.TaskBatch, error) {
				captured = input
				batch := batchFixture(t, input.SessionID, "Plan sprint", "Groom backlog")
				batch.Reason = input.Reason
				return batch, nil
			},
		}
		handler := NewBatchHandler(mockService, discardLogger())

		body := `{
			"session_id": "` + sessionID.String() + `",
			"reason": "sprint planning",
			"tasks": [
				{"title": "Plan sprint", "priority": "high"},
				{"title": "Groom backlog"}
			]
		}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/batches", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		handler.CreateBatch(w, req)

		require.Equal(t, http.StatusCreated, w.Code)

		// The service received the full input
		require.NotNil(t, captured.SessionID)
		assert.Equal(t, sessionID, *captured.SessionID)
		require.NotNil(t, captured.Reason)
		assert.Equal(t, "sprint planning", *captured.Reason)
		require.Len(t, captured.Tasks, 2)
		assert.Equal(t, "Plan sprint", captured.Tasks[0].Title)
		require.NotNil(t, captured.Tasks[0].Priority)
		assert.Equal(t, domain.TaskPriorityHigh, *captured.Tasks[0].Priority)

		// Every task in the response carries the batch's session and ID
		var resp BatchResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.SessionID)
		assert.Equal(t, sessionID, *resp.SessionID)
		require.Len(t, resp.Tasks, 2)
		for _, task := range resp.Tasks {
			require.NotNil(t, task.SessionID)
			assert.Equal(t, sessionID, *task.SessionID)
			require.NotNil(t, task.BatchID)
			assert.Equal(t, resp.ID, task.BatchID.String())
		}
	})

	t.Run("invalid request format", func(t *testing.T) {
		handler := NewBatchHandler(&mockBatchService{}, discardLogger())

		req := httptest.NewRequest(
			http.MethodPost, "/api/v1/batches", strings.NewReader(`{"tasks": [`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		handler.CreateBatch(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid request format")
	})

	t.Run("empty task list", func(t *testing.T) {
		handler := NewBatchHandler(&mockBatchService{}, discardLogger())

		req := httptest.NewRequest(
			http.MethodPost, "/api/v1/batches", strings.NewReader(`{"tasks": []}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		handler.CreateBatch(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid Tasks")
	})

	t.Run("task inside the batch fails validation", func(t *testing.T) {
		handler := NewBatchHandler(&mockBatchService{}, discardLogger())

		body := `{"tasks": [{"title": "Valid"}, {"title": "Bad", "status": "done"}]}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/batches", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		handler.CreateBatch(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid Status: invalid value")
	})

	t.Run("service error", func(t *testing.T) {
		mockService := &mockBatchService{
			createBatchFn: func(ctx context.Context, input service.CreateBatchInput) (*domain.TaskBatch, error) {
				return nil, errors.New("transaction aborted")
			},
		}
		handler := NewBatchHandler(mockService, discardLogger())

		req := httptest.NewRequest(
			http.MethodPost, "/api/v1/batches",
			strings.NewReader(`{"tasks": [{"title": "Plan sprint"}]}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		handler.CreateBatch(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "Failed to create batch")
	})
}

func TestBatchHandler_GetBatch(t *testing.T) {
	batchID := uuid.New()

	t.Run("successful retrieval", func(t *testing.T) {
		mockService := &mockBatchService{
			getBatchFn: func(ctx context.Context, id uuid.UUID) (*domain.TaskBatch, error) {
				assert.Equal(t, batchID, id)
				batch := batchFixture(t, nil, "Only task")
				batch.ID = id
				return batch, nil
			},
		}
		handler := NewBatchHandler(mockService, discardLogger())

		req := httptest.NewRequest(http.MethodGet, "/api/v1/batches/"+batchID.String(), nil)
		req = withPathID(req, batchID.String())
		w := httptest.NewRecorder()

		handler.GetBatch(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp BatchResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, batchID.String(), resp.ID)
		require.Len(t, resp.Tasks, 1)
		assert.Equal(t, "Only task", resp.Tasks[0].Title)
	})

	t.Run("malformed batch ID", func(t *testing.T) {
		handler := NewBatchHandler(&mockBatchService{}, discardLogger())

		req := httptest.NewRequest(http.MethodGet, "/api/v1/batches/nope", nil)
		req = withPathID(req, "nope")
		w := httptest.NewRecorder()

		handler.GetBatch(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid id")
	})

	t.Run("batch not found", func(t *testing.T) {
		mockService := &mockBatchService{
			getBatchFn: func(ctx context.Context, id uuid.UUID) (*domain.TaskBatch, error) {
				return nil, service.NewBatchServiceError(
					"get_batch", "batch not found", store.ErrBatchNotFound)
			},
		}
		handler := NewBatchHandler(mockService, discardLogger())

		req := httptest.NewRequest(http.MethodGet, "/api/v1/batches/"+batchID.String(), nil)
		req = withPathID(req, batchID.String())
		w := httptest.NewRecorder()

		handler.GetBatch(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "Batch not found")
	})
}

func TestBatchHandler_ListBatches(t *testing.T) {
	t.Run("returns pagination envelope newest first", func(t *testing.T) {
		sessionID := uuid.New()
		newest := batchFixture(t, &sessionID, "Newest task")
		oldest := batchFixture(t, nil)

		mockService := &mockBatchService{
			listBatchesFn: func(ctx context.Context, params store.BatchListParams) ([]*domain.TaskBatch, int64, error) {
				assert.Equal(t, 1, params.Page)
				return []*domain.TaskBatch{newest, oldest}, 2, nil
			},
		}
		handler := NewBatchHandler(mockService, discardLogger())

		req := httptest.NewRequest(http.MethodGet, "/api/v1/batches", nil)
		w := httptest.NewRecorder()

		handler.ListBatches(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp BatchListResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Items, 2)
		assert.Equal(t, newest.ID.String(), resp.Items[0].ID)
		assert.Equal(t, oldest.ID.String(), resp.Items[1].ID)
		assert.Equal(t, int64(2), resp.Total)
		assert.Equal(t, 1, resp.TotalPages)

		// Batches without tasks still serialize an empty array
		assert.NotNil(t, resp.Items[1].Tasks)
	})

	t.Run("passes session filter to the service", func(t *testing.T) {
		sessionID := uuid.New()

		var captured store.BatchListParams
		mockService := &mockBatchService{
			listBatchesFn: func(ctx context.Context, params store.BatchListParams) ([]*domain.TaskBatch, int64, error) {
				captured = params
				return nil, 0, nil
			},
		}
		handler := NewBatchHandler(mockService, discardLogger())

		req := httptest.NewRequest(
			http.MethodGet, "/api/v1/batches?page=2&session_id="+sessionID.String(), nil)
		w := httptest.NewRecorder()

		handler.ListBatches(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 2, captured.Page)
		require.NotNil(t, captured.SessionID)
		assert.Equal(t, sessionID, *captured.SessionID)
	})

	t.Run("rejects invalid page", func(t *testing.T) {
		handler := NewBatchHandler(&mockBatchService{}, discardLogger())

		req := httptest.NewRequest(http.MethodGet, "/api/v1/batches?page=first", nil)
		w := httptest.NewRecorder()

		handler.ListBatches(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid page")
	})

	t.Run("service error", func(t *testing.T) {
		mockService := &mockBatchService{
			listBatchesFn: func(ctx context.Context, params store.BatchListParams) ([]*domain.TaskBatch, int64, error) {
				return nil, 0, errors.New("query timeout")
			},
		}
		handler := NewBatchHandler(mockService, discardLogger())

		req := httptest.NewRequest(http.MethodGet, "/api/v1/batches", nil)
		w := httptest.NewRecorder()

		handler.ListBatches(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "Failed to list batches")
	})
}

func TestBatchHandler_GetLatestBatch(t *testing.T) {
	t.Run("returns the latest batch", func(t *testing.T) {
		latest := batchFixture(t, nil, "Latest task")

		mockService := &mockBatchService{
			getLatestBatchFn: func(ctx context.Context, sessionID *uuid.UUID) (*domain.TaskBatch, error) {
				assert.Nil(t, sessionID)
				return latest, nil
			},
		}
		handler := NewBatchHandler(mockService, discardLogger())

		req := httptest.NewRequest(http.MethodGet, "/api/v1/batches/latest", nil)
		w := httptest.NewRecorder()

		handler.GetLatestBatch(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp BatchResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, latest.ID.String(), resp.ID)
	})

	t.Run("restricts to a session when given", func(t *testing.T) {
		sessionID := uuid.New()

		var captured *uuid.UUID
		mockService := &mockBatchService{
			getLatestBatchFn: func(ctx context.Context, sid *uuid.UUID) (*domain.TaskBatch, error) {
				captured = sid
				return batchFixture(t, sid), nil
			},
		}
		handler := NewBatchHandler(mockService, discardLogger())

		req := httptest.NewRequest(
			http.MethodGet, "/api/v1/batches/latest?session_id="+sessionID.String(), nil)
		w := httptest.NewRecorder()

		handler.GetLatestBatch(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, captured)
		assert.Equal(t, sessionID, *captured)
	})

	t.Run("no batches yields 200 with null body", func(t *testing.T) {
		mockService := &mockBatchService{
			getLatestBatchFn: func(ctx context.Context, sessionID *uuid.UUID) (*domain.TaskBatch, error) {
				return nil, nil
			},
		}
		handler := NewBatchHandler(mockService, discardLogger())

		req := httptest.NewRequest(http.MethodGet, "/api/v1/batches/latest", nil)
		w := httptest.NewRecorder()

		handler.GetLatestBatch(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "null\n", w.Body.String())
	})

	t.Run("malformed session filter", func(t *testing.T) {
		handler := NewBatchHandler(&mockBatchService{}, discardLogger())

		req := httptest.NewRequest(http.MethodGet, "/api/v1/batches/latest?session_id=xyz", nil)
		w := httptest.NewRecorder()

		handler.GetLatestBatch(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid session_id")
	})

	t.Run("service error", func(t *testing.T) {
		mockService := &mockBatchService{
			getLatestBatchFn: func(ctx context.Context, sessionID *uuid.UUID) (*domain.TaskBatch, error) {
				return nil, errors.New("connection refused")
			},
		}
		handler := NewBatchHandler(mockService, discardLogger())

		req := httptest.NewRequest(http.MethodGet, "/api/v1/batches/latest", nil)
		w := httptest.NewRecorder()

		handler.GetLatestBatch(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "Failed to retrieve latest batch")
	})
}
