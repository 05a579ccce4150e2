package knowledge

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bejo-chatbot-be/pkg/knowledge/converter"
	"bejo-chatbot-be/pkg/vectorstore"
)

func newTestPipeline(t *testing.T) (*IngestionPipeline, IStore, string) {
	t.Helper()
	client, err := vectorstore.NewClient("", testDims)
	require.NoError(t, err)
	store := NewStore(client, stubEmbedder{}, nopLogger{})

	uploadDir := t.TempDir()
	p := NewIngestionPipeline(
		store,
		converter.NewDocumentConverter(),
		uploadDir,
		"http://localhost:3000",
		1000,
		nopLogger{},
	)
	return p, store, uploadDir
}

func collectEvents(t *testing.T, ch <-chan ProgressEvent) []ProgressEvent {
	t.Helper()
	var events []ProgressEvent
	for ev := range ch {
		events = append(events, ev)
	}
	require.NotEmpty(t, events)
	return events
}

func TestIngestionRunCompletes(t *testing.T) {
	p, store, uploadDir := newTestPipeline(t)
	content := []byte(strings.Repeat("a", 3000))

	events := collectEvents(t, p.Run(context.Background(), content, "laporan.txt", 2))

	final := events[len(events)-1]
	require.Equal(t, "completed", final.Step)
	assert.Equal(t, 100, final.Progress)
	assert.False(t, final.Error)
	assert.Equal(t, 3, final.Data["chunks_count"])
	assert.Equal(t, "knowledge-level-2", final.Data["collection_name"])
	assert.Equal(t, "laporan.txt", final.Data["filename"])
	assert.Equal(t, 2, final.Data["category_level"])
	assert.Equal(t, "http://localhost:3000/uploads/laporan.txt", final.Data["url"])

	// Progress never decreases across the stream.
	last := -1
	for _, ev := range events {
		assert.GreaterOrEqual(t, ev.Progress, last, "step %s went backwards", ev.Step)
		last = ev.Progress
	}

	// A collection was created on the fly and holds the chunks.
	assert.True(t, store.HasCollection("knowledge-level-2"))
	hash, ok := final.Data["file_hash"].(string)
	require.True(t, ok)
	assert.True(t, store.Exists(context.Background(), "knowledge-level-2", hash))

	// The file stays on disk.
	_, err := os.Stat(filepath.Join(uploadDir, "laporan.txt"))
	assert.NoError(t, err)
}

func TestIngestionRunFileExistsStops(t *testing.T) {
	p, _, uploadDir := newTestPipeline(t)
	require.NoError(t, os.WriteFile(filepath.Join(uploadDir, "dupe.txt"), []byte("old"), 0o644))

	events := collectEvents(t, p.Run(context.Background(), []byte("new content"), "dupe.txt", 1))

	require.Len(t, events, 1)
	assert.Equal(t, "file_exists", events[0].Step)
	assert.Equal(t, 100, events[0].Progress)
	assert.True(t, events[0].Stopped)
	assert.False(t, events[0].Error)

	// The original file is untouched.
	data, err := os.ReadFile(filepath.Join(uploadDir, "dupe.txt"))
	require.NoError(t, err)
	assert.Equal(t, "old", string(data))
}

func TestIngestionRunEmptyFileFails(t *testing.T) {
	p, _, _ := newTestPipeline(t)

	events := collectEvents(t, p.Run(context.Background(), nil, "empty.txt", 1))

	final := events[len(events)-1]
	assert.True(t, final.Error)
	assert.Less(t, final.Progress, 100)
}

func TestIngestionRunDuplicateHashFails(t *testing.T) {
	p, _, _ := newTestPipeline(t)
	content := []byte("the same document body")

	first := collectEvents(t, p.Run(context.Background(), content, "first.txt", 1))
	require.Equal(t, "completed", first[len(first)-1].Step)

	// Same bytes under a different name hit the content hash check.
	second := collectEvents(t, p.Run(context.Background(), content, "second.txt", 1))
	final := second[len(second)-1]
	assert.True(t, final.Error)
	assert.Contains(t, final.Message, "already exists")
	assert.Less(t, final.Progress, 100)
}

func TestIngestionRunUnsupportedFormatFails(t *testing.T) {
	p, _, uploadDir := newTestPipeline(t)

	// PNG magic bytes, nothing text-like.
	content := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x01}
	events := collectEvents(t, p.Run(context.Background(), content, "image.png", 1))

	final := events[len(events)-1]
	assert.True(t, final.Error)
	assert.Contains(t, final.Message, "unsupported file format")

	// The saved file is kept for inspection.
	_, err := os.Stat(filepath.Join(uploadDir, "image.png"))
	assert.NoError(t, err)
}

func TestIngestionRunEmitsExactlyOneTerminalEvent(t *testing.T) {
	p, _, _ := newTestPipeline(t)

	events := collectEvents(t, p.Run(context.Background(), []byte("some text"), "one.txt", 1))

	terminal := 0
	for _, ev := range events {
		if ev.Step == "completed" || ev.Error || ev.Stopped {
			terminal++
		}
	}
	assert.Equal(t, 1, terminal)
	last := events[len(events)-1]
	assert.True(t, last.Step == "completed" || last.Error || last.Stopped)
}

func TestIngestionRunClosesStreamOnCancelledContext(t *testing.T) {
	p, _, _ := newTestPipeline(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// The stream must terminate instead of leaking the producer goroutine.
	ch := p.Run(ctx, []byte(strings.Repeat("b", 3000)), "gone.txt", 1)
	for range ch {
	}
}
