package monitor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpoolFetchConsumesMessages(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "msg-1.json"),
		[]byte(`{"ID":"msg-1","From":"a@corp.example","Subject":"hi","Body":"text"}`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"),
		[]byte("not a message"), 0o600))

	src := NewSpoolSource(dir, zerolog.Nop())
	messages, err := src.FetchRecent(context.Background())
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "msg-1", messages[0].ID)
	assert.Equal(t, "hi", messages[0].Subject)

	// The file was renamed, so a second fetch sees nothing.
	messages, err = src.FetchRecent(context.Background())
	require.NoError(t, err)
	assert.Empty(t, messages)

	_, err = os.Stat(filepath.Join(dir, "msg-1.json.done"))
	assert.NoError(t, err)
}

func TestSpoolSkipsMalformedFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "good.json"),
		[]byte(`{"Body":"hello"}`), 0o600))

	src := NewSpoolSource(dir, zerolog.Nop())
	messages, err := src.FetchRecent(context.Background())
	require.NoError(t, err)
	require.Len(t, messages, 1)
	// ID defaults to the file name.
	assert.Equal(t, "good", messages[0].ID)
}

func TestSpoolMissingDir(t *testing.T) {
	src := NewSpoolSource(filepath.Join(t.TempDir(), "nope"), zerolog.Nop())
	_, err := src.FetchRecent(context.Background())
	assert.Error(t, err)
}
