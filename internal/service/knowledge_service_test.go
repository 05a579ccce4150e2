package service

import "testing"

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     string
	}{
		{
			name:     "already safe",
			filename: "laporan_2024.pdf",
			want:     "laporan_2024.pdf",
		},
		{
			name:     "spaces become underscores",
			filename: "laporan tahunan 2024.pdf",
			want:     "laporan_tahunan_2024.pdf",
		},
		{
			name:     "path separators are neutralized",
			filename: "../../etc/passwd",
			want:     ".._.._etc_passwd",
		},
		{
			name:     "unicode and symbols",
			filename: "résumé (final)!.docx",
			want:     "r_sum___final__.docx",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeFilename(tt.filename); got != tt.want {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.filename, got, tt.want)
			}
		})
	}
}
