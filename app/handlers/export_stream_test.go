package handlers

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportStream(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.csv")
	require.NoError(t, os.WriteFile(path, []byte("Metric;Value\nGRP;42\n"), 0o600))

	f, err := os.Open(path)
	require.NoError(t, err)

	cleaned := false
	stream := &exportStream{file: f, cleanup: func() {
		cleaned = true
		os.Remove(path)
	}}

	payload, err := io.ReadAll(stream)
	require.NoError(t, err)
	assert.Equal(t, "Metric;Value\nGRP;42\n", string(payload))

	// Cleanup must not run before the transport closes the stream
	assert.False(t, cleaned)

	require.NoError(t, stream.Close())
	assert.True(t, cleaned)
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestExportContentType(t *testing.T) {
	assert.Equal(t, "text/csv", exportContentType("csv"))
	assert.Equal(t,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		exportContentType("xlsx"))
}
