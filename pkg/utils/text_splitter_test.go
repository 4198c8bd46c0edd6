package utils

import (
	"strings"
	"testing"
)

func TestSplitTextShortInput(t *testing.T) {
	chunks := SplitText("short text", 100, 20)
	if len(chunks) != 1 || chunks[0] != "short text" {
		t.Errorf("SplitText(short) = %v, want the input as a single chunk", chunks)
	}
}

func TestSplitTextOverlap(t *testing.T) {
	text := strings.Repeat("abcdefghij", 5) // 50 chars
	chunkSize, overlap := 20, 5

	chunks := SplitText(text, chunkSize, overlap)
	if len(chunks) < 2 {
		t.Fatalf("SplitText() = %d chunks, want several", len(chunks))
	}

	for i := 1; i < len(chunks); i++ {
		prev := []rune(chunks[i-1])
		tail := string(prev[len(prev)-overlap:])
		if !strings.HasPrefix(chunks[i], tail) {
			t.Errorf("chunk %d does not start with the %d-rune tail of chunk %d: %q vs %q",
				i, overlap, i-1, chunks[i][:overlap], tail)
		}
	}
}

func TestSplitTextCoversEverything(t *testing.T) {
	text := strings.Repeat("policy coverage deductible ", 40)
	chunkSize, overlap := 100, 25

	chunks := SplitText(text, chunkSize, overlap)

	// Dropping each chunk's overlap prefix (except the first) must
	// reassemble the original text with nothing lost at boundaries.
	var rebuilt strings.Builder
	rebuilt.WriteString(chunks[0])
	for i := 1; i < len(chunks); i++ {
		runes := []rune(chunks[i])
		if len(runes) > overlap {
			rebuilt.WriteString(string(runes[overlap:]))
		} else {
			// A trailing chunk shorter than the overlap is pure repeat.
			continue
		}
	}
	if rebuilt.String() != text {
		t.Errorf("reassembled text differs from input (len %d vs %d)", rebuilt.Len(), len(text))
	}

	if got := len(chunks[0]); got != chunkSize {
		t.Errorf("first chunk length = %d, want %d", got, chunkSize)
	}
}

func TestSplitTextOverlapAtLeastChunkSize(t *testing.T) {
	text := strings.Repeat("x", 30)
	chunks := SplitText(text, 10, 10)
	if len(chunks) != 3 {
		t.Errorf("SplitText(overlap==size) = %d chunks, want 3 full steps", len(chunks))
	}
}

func TestSplitTextRuneBoundaries(t *testing.T) {
	text := strings.Repeat("héllo wörld ", 20)
	for _, chunk := range SplitText(text, 25, 5) {
		if !strings.ContainsRune("héllo wörld ", []rune(chunk)[0]) {
			t.Errorf("chunk starts mid-rune: %q", chunk)
		}
	}
}
