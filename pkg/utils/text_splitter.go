package utils

// SplitText cuts document text into chunks of roughly chunkSize runes,
// with the last 'overlap' runes of each chunk repeated at the start of the
// next one. Coverage tables and exclusion lists in policy wording often
// straddle chunk boundaries; the overlap keeps both sides retrievable.
// Splitting is rune-based, so multibyte characters never tear.
func SplitText(text string, chunkSize int, overlap int) []string {
	if len(text) <= chunkSize {
		return []string{text}
	}

	runes := []rune(text)
	totalLen := len(runes)

	step := chunkSize - overlap
	if step <= 0 {
		// An overlap that swallows the whole chunk would loop forever.
		step = chunkSize
	}

	var chunks []string
	for i := 0; i < totalLen; i += step {
		end := i + chunkSize
		if end > totalLen {
			end = totalLen
		}

		chunks = append(chunks, string(runes[i:end]))

		if end == totalLen {
			break
		}
	}

	return chunks
}
