package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/taskdeck-api/internal/domain"
	"github.com/taskdeck/taskdeck-api/internal/store"
)

func TestGetPathUUID(t *testing.T) {
	validUUID := uuid.New()

	tests := []struct {
		name        string
		routePath   string
		requestPath string
		paramName   string
		expectedID  uuid.UUID
		expectedErr error
	}{
		{
			name:        "valid UUID parameter",
			routePath:   "/tasks/{id}",
			requestPath: "/tasks/" + validUUID.String(),
			paramName:   "id",
			expectedID:  validUUID,
		},
		{
			name:        "missing parameter",
			routePath:   "/tasks",
			requestPath: "/tasks",
			paramName:   "id",
			expectedID:  uuid.Nil,
			expectedErr: domain.ErrValidation,
		},
		{
			name:        "invalid UUID format",
			routePath:   "/tasks/{id}",
			requestPath: "/tasks/not-a-uuid",
			paramName:   "id",
			expectedID:  uuid.Nil,
			expectedErr: domain.ErrInvalidID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Route through a real chi router so URL parameters are
			// populated the way they are in production
			var capturedReq *http.Request
			router := chi.NewRouter()
			router.Get(tt.routePath, func(w http.ResponseWriter, r *http.Request) {
				capturedReq = r
			})

			req := httptest.NewRequest(http.MethodGet, tt.requestPath, nil)
			router.ServeHTTP(httptest.NewRecorder(), req)
			require.NotNil(t, capturedReq, "route should have matched")

			id, err := getPathUUID(capturedReq, tt.paramName)

			assert.Equal(t, tt.expectedID, id)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParsePage(t *testing.T) {
	tests := []struct {
		name         string
		query        string
		expectedPage int
		expectError  bool
	}{
		{
			name:         "absent page defaults to 1",
			query:        "",
			expectedPage: 1,
		},
		{
			name:         "explicit page",
			query:        "page=3",
			expectedPage: 3,
		},
		{
			name:        "non-numeric page",
			query:       "page=abc",
			expectError: true,
		},
		{
			name:        "page zero",
			query:       "page=0",
			expectError: true,
		},
		{
			name:        "negative page",
			query:       "page=-2",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks?"+tt.query, nil)

			page, err := parsePage(req)

			if tt.expectError {
				assert.ErrorIs(t, err, domain.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedPage, page)
		})
	}
}

func TestParseSessionID(t *testing.T) {
	sessionID := uuid.New()

	t.Run("absent parameter yields nil without error", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks", nil)

		id, err := parseSessionID(req)

		require.NoError(t, err)
		assert.Nil(t, id)
	})

	t.Run("valid session ID", func(t *testing.T) {
		req := httptest.NewRequest(
			http.MethodGet, "/api/v1/tasks?session_id="+sessionID.String(), nil)

		id, err := parseSessionID(req)

		require.NoError(t, err)
		require.NotNil(t, id)
		assert.Equal(t, sessionID, *id)
	})

	t.Run("malformed session ID", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks?session_id=not-a-uuid", nil)

		id, err := parseSessionID(req)

		assert.ErrorIs(t, err, domain.ErrInvalidID)
		assert.Nil(t, id)

		var fieldErr *domain.ValidationError
		require.True(t, errors.As(err, &fieldErr))
		assert.Equal(t, "session_id", fieldErr.Field)
	})
}

func TestParseTaskListParams(t *testing.T) {
	sessionID := uuid.New()

	tests := []struct {
		name           string
		query          string
		expectedParams store.TaskListParams
		expectedErr    error
	}{
		{
			name:  "defaults without query parameters",
			query: "",
			expectedParams: store.TaskListParams{
				Page:   1,
				SortBy: store.TaskSortUpdatedAt,
				Order:  store.SortDesc,
			},
		},
		{
			name:  "all parameters set",
			query: "page=2&status=in_progress&session_id=" + sessionID.String() + "&sort_by=due_date&order=asc",
			expectedParams: store.TaskListParams{
				Page:      2,
				Status:    taskStatusPtr(domain.TaskStatusInProgress),
				SessionID: &sessionID,
				SortBy:    store.TaskSortDueDate,
				Order:     store.SortAsc,
			},
		},
		{
			name:  "sort by priority",
			query: "sort_by=priority",
			expectedParams: store.TaskListParams{
				Page:   1,
				SortBy: store.TaskSortPriority,
				Order:  store.SortDesc,
			},
		},
		{
			name:        "unknown status",
			query:       "status=done",
			expectedErr: domain.ErrValidation,
		},
		{
			name:        "unknown sort field",
			query:       "sort_by=title",
			expectedErr: domain.ErrValidation,
		},
		{
			name:        "unknown sort order",
			query:       "order=upward",
			expectedErr: domain.ErrValidation,
		},
		{
			name:        "invalid page",
			query:       "page=0",
			expectedErr: domain.ErrValidation,
		},
		{
			name:        "invalid session ID",
			query:       "session_id=nope",
			expectedErr: domain.ErrInvalidID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks?"+tt.query, nil)

			params, err := parseTaskListParams(req)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedParams, params)
		})
	}
}

func TestParseBatchListParams(t *testing.T) {
	sessionID := uuid.New()

	t.Run("defaults without query parameters", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/batches", nil)

		params, err := parseBatchListParams(req)

		require.NoError(t, err)
		assert.Equal(t, store.BatchListParams{Page: 1}, params)
	})

	t.Run("page and session filter", func(t *testing.T) {
		req := httptest.NewRequest(
			http.MethodGet, "/api/v1/batches?page=2&session_id="+sessionID.String(), nil)

		params, err := parseBatchListParams(req)

		require.NoError(t, err)
		assert.Equal(t, store.BatchListParams{Page: 2, SessionID: &sessionID}, params)
	})

	t.Run("invalid page", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/batches?page=last", nil)

		_, err := parseBatchListParams(req)

		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func taskStatusPtr(s domain.TaskStatus) *domain.TaskStatus {
	return &s
}
