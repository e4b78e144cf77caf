package postgres

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskdeck/taskdeck-api/internal/store"
)

func TestNewPostgresTaskStore(t *testing.T) {
	t.Run("valid_db", func(t *testing.T) {
		s := NewPostgresTaskStore(&sql.DB{}, nil)
		require.NotNil(t, s)
		assert.NotNil(t, s.db)
		assert.NotNil(t, s.logger)
	})

	t.Run("nil_db_panics", func(t *testing.T) {
		assert.Panics(t, func() {
			NewPostgresTaskStore(nil, nil)
		})
	})
}

func TestNewPostgresBatchStore(t *testing.T) {
	t.Run("valid_db", func(t *testing.T) {
		s := NewPostgresBatchStore(&sql.DB{}, nil)
		require.NotNil(t, s)
		assert.NotNil(t, s.db)
		assert.NotNil(t, s.logger)
	})

	t.Run("nil_db_panics", func(t *testing.T) {
		assert.Panics(t, func() {
			NewPostgresBatchStore(nil, nil)
		})
	})
}

func TestTaskStoreWithTx(t *testing.T) {
	original := NewPostgresTaskStore(&sql.DB{}, nil)

	tx := &sql.Tx{}
	bound := original.WithTx(tx)

	require.NotNil(t, bound)
	assert.NotSame(t, store.TaskStore(original), bound)

	// The transactional copy must use the transaction while the original
	// keeps its connection.
	boundStore, ok := bound.(*PostgresTaskStore)
	require.True(t, ok)
	assert.Equal(t, store.DBTX(tx), boundStore.db)
	assert.NotEqual(t, store.DBTX(tx), original.db)
}

func TestBatchStoreWithTx(t *testing.T) {
	original := NewPostgresBatchStore(&sql.DB{}, nil)

	tx := &sql.Tx{}
	bound := original.WithTx(tx)

	require.NotNil(t, bound)

	boundStore, ok := bound.(*PostgresBatchStore)
	require.True(t, ok)
	assert.Equal(t, store.DBTX(tx), boundStore.db)
	assert.NotEqual(t, store.DBTX(tx), original.db)
}
