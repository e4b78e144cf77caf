package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestLogBufferWriteAndReset(t *testing.T) {
	buffer := &TestLogBuffer{}

	n, err := buffer.Write([]byte("test log message"))
	require.NoError(t, err)
	assert.Equal(t, 16, n)
	assert.Equal(t, "test log message", buffer.String())

	buffer.Reset()
	assert.Equal(t, "", buffer.String())
}

func TestGetLogEntries(t *testing.T) {
	t.Run("parses one entry per line and skips blanks", func(t *testing.T) {
		buffer := &TestLogBuffer{}
		_, err := buffer.Write([]byte(
			`{"level":"INFO","msg":"first"}` + "\n\n" + `{"level":"ERROR","msg":"second"}` + "\n",
		))
		require.NoError(t, err)

		entries, err := buffer.GetLogEntries()
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "first", entries[0]["msg"])
		assert.Equal(t, "ERROR", entries[1]["level"])
	})

	t.Run("reports malformed lines", func(t *testing.T) {
		buffer := &TestLogBuffer{}
		_, err := buffer.Write([]byte("not json\n"))
		require.NoError(t, err)

		_, err = buffer.GetLogEntries()
		assert.Error(t, err)
	})
}

func TestGetTestLogger(t *testing.T) {
	log, logBuf := GetTestLogger(t)

	// Debug must be enabled so tests can assert on verbose output
	log.Debug("captured at debug", "key", "value")

	entries, err := logBuf.GetLogEntries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "captured at debug", entries[0]["msg"])
	assert.Equal(t, "value", entries[0]["key"])

	AssertLogContains(t, logBuf, "captured at debug")
}
