package tts

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var tagPattern = regexp.MustCompile(`<[^>]+>`)

// CleanText normalizes plain-text input before synthesis: whitespace runs
// collapse to single spaces and stray markup tags are stripped. SSML input
// must not pass through here.
func CleanText(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	text = tagPattern.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// SplitChunks splits text into chunks of at most maxLen characters,
// breaking at sentence boundaries so the speech flow stays natural.
// A single sentence longer than maxLen becomes its own chunk.
func SplitChunks(text string, maxLen int) []string {
	if utf8.RuneCountInString(text) <= maxLen {
		return []string{text}
	}

	normalized := strings.NewReplacer("!", ".", "?", ".").Replace(text)

	var chunks []string
	var current strings.Builder
	currentLen := 0
	for _, sentence := range strings.Split(normalized, ".") {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}
		candidate := sentence + ". "
		candidateLen := utf8.RuneCountInString(candidate)
		if currentLen+candidateLen <= maxLen {
			current.WriteString(candidate)
			currentLen += candidateLen
			continue
		}
		if current.Len() > 0 {
			chunks = append(chunks, strings.TrimSpace(current.String()))
			current.Reset()
		}
		current.WriteString(candidate)
		currentLen = candidateLen
	}
	if current.Len() > 0 {
		chunks = append(chunks, strings.TrimSpace(current.String()))
	}
	return chunks
}
