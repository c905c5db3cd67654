package utils

import (
	"strings"
	"testing"
)

func TestSplitText(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		chunkSize int
		overlap   int
		want      int
	}{
		{
			name:      "short text stays whole",
			text:      "short",
			chunkSize: 100,
			overlap:   10,
			want:      1,
		},
		{
			name:      "even split with overlap",
			text:      strings.Repeat("a", 100),
			chunkSize: 40,
			overlap:   10,
			want:      4, // steps of 30: 0, 30, 60, 90
		},
		{
			name:      "overlap larger than chunk falls back to chunk step",
			text:      strings.Repeat("a", 100),
			chunkSize: 40,
			overlap:   50,
			want:      3, // steps of 40: 0, 40, 80
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := SplitText(tt.text, tt.chunkSize, tt.overlap)
			if len(chunks) != tt.want {
				t.Fatalf("len(chunks) = %d, want %d", len(chunks), tt.want)
			}
			for i, c := range chunks {
				if len([]rune(c)) > tt.chunkSize {
					t.Errorf("chunk %d has %d runes, over the %d limit", i, len([]rune(c)), tt.chunkSize)
				}
			}
		})
	}
}

func TestSplitTextOverlapPreservesContext(t *testing.T) {
	text := strings.Repeat("abcdefghij", 10) // 100 runes
	chunks := SplitText(text, 40, 10)

	for i := 1; i < len(chunks); i++ {
		prevTail := chunks[i-1][len(chunks[i-1])-10:]
		if !strings.HasPrefix(chunks[i], prevTail) {
			t.Errorf("chunk %d does not start with the previous chunk's tail", i)
		}
	}
}

func TestSplitTextMultibyte(t *testing.T) {
	text := strings.Repeat("ü", 50)
	chunks := SplitText(text, 20, 5)

	if got := strings.Join(dedupOverlap(chunks, 5), ""); got != text {
		t.Errorf("rejoined text differs from input (len %d vs %d)", len(got), len(text))
	}
}

func dedupOverlap(chunks []string, overlap int) []string {
	out := make([]string, len(chunks))
	for i, c := range chunks {
		if i == 0 {
			out[i] = c
			continue
		}
		runes := []rune(c)
		if len(runes) > overlap {
			out[i] = string(runes[overlap:])
		}
	}
	return out
}
