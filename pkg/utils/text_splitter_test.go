package utils

import (
	"strings"
	"testing"
)

func TestSplitText(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		chunkSize  int
		overlap    int
		wantChunks int
	}{
		{
			name:       "short text fits one chunk",
			text:       "hello world",
			chunkSize:  1000,
			overlap:    0,
			wantChunks: 1,
		},
		{
			name:       "exact chunk size stays one chunk",
			text:       strings.Repeat("a", 1000),
			chunkSize:  1000,
			overlap:    0,
			wantChunks: 1,
		},
		{
			name:       "3000 chars without overlap",
			text:       strings.Repeat("a", 3000),
			chunkSize:  1000,
			overlap:    0,
			wantChunks: 3,
		},
		{
			name:       "uneven remainder gets its own chunk",
			text:       strings.Repeat("a", 2500),
			chunkSize:  1000,
			overlap:    0,
			wantChunks: 3,
		},
		{
			name:       "overlap produces more chunks",
			text:       strings.Repeat("a", 3000),
			chunkSize:  1000,
			overlap:    200,
			wantChunks: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := SplitText(tt.text, tt.chunkSize, tt.overlap)
			if len(chunks) != tt.wantChunks {
				t.Errorf("SplitText() produced %d chunks, want %d", len(chunks), tt.wantChunks)
			}
			for i, chunk := range chunks {
				if len([]rune(chunk)) > tt.chunkSize {
					t.Errorf("chunk %d exceeds chunk size: %d", i, len(chunk))
				}
			}
		})
	}
}

func TestSplitTextPreservesContent(t *testing.T) {
	text := strings.Repeat("abcdefghij", 300)
	chunks := SplitText(text, 1000, 0)

	if got := strings.Join(chunks, ""); got != text {
		t.Errorf("concatenated chunks differ from original text (len %d vs %d)", len(got), len(text))
	}
}
