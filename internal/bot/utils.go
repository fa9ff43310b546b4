package bot

import (
	"strings"
	"unicode/utf8"

	"github.com/esabouraud/steamscordbot/pkg/constants"
)

// maskSecret masks sensitive information for logging
func maskSecret(s string) string {
	if len(s) <= constants.MinSecretLengthForMasking {
		return "***"
	}
	return s[:constants.SecretMaskPrefixLength] + "***" + s[len(s)-constants.SecretMaskSuffixLength:]
}

// splitMessage cuts message into chunks of at most limit bytes, preferring
// line boundaries. A single line longer than limit is cut on a rune boundary.
func splitMessage(message string, limit int) []string {
	if len(message) <= limit {
		return []string{message}
	}

	var (
		chunks  []string
		current strings.Builder
	)
	flush := func() {
		if chunk := strings.TrimRight(current.String(), "\n"); chunk != "" {
			chunks = append(chunks, chunk)
		}
		current.Reset()
	}

	for _, line := range strings.SplitAfter(message, "\n") {
		for len(line) > limit {
			flush()
			cut := limit
			for cut > 0 && !utf8.RuneStart(line[cut]) {
				cut--
			}
			if cut == 0 {
				cut = limit
			}
			chunks = append(chunks, line[:cut])
			line = line[cut:]
		}
		if current.Len()+len(line) > limit {
			flush()
		}
		current.WriteString(line)
	}
	flush()
	return chunks
}
