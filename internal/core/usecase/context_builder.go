package usecase

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kirillkom/study-assistant/internal/core/domain"
)

const (
	DefaultMaxDocumentChars = 20000
	DefaultMaxContextChars  = 50000

	TruncationMarker = "\n[Content truncated...]"

	missingTextPlaceholder = "[No text extracted yet]"
)

// ContextLimits are rune ceilings. A zero PerDocument leaves documents uncut.
type ContextLimits struct {
	PerDocument int
	Total       int
}

func (l ContextLimits) normalize() ContextLimits {
	out := l
	if out.Total <= utf8.RuneCountInString(TruncationMarker) {
		out.Total = DefaultMaxContextChars
	}
	return out
}

// AssembledContext is the bounded text block handed to the prompt builders.
type AssembledContext struct {
	Text      string
	Documents int
	Truncated bool
}

// BuildChatContext renders the uploaded-documents block of the chat preamble.
// An empty document set yields an empty block.
func BuildChatContext(docs []domain.Document, limits ContextLimits) AssembledContext {
	limits = limits.normalize()
	if len(docs) == 0 {
		return AssembledContext{}
	}

	var b strings.Builder
	b.WriteString("\n\n---UPLOADED DOCUMENTS---\n")
	for idx, doc := range docs {
		text := doc.ExtractedText
		if text == "" {
			text = missingTextPlaceholder
		}
		text, _ = truncateRunes(text, limits.PerDocument)
		fmt.Fprintf(&b, "\n[Document %d: %s]\n", idx+1, doc.Filename)
		b.WriteString(text)
		b.WriteString("\n")
	}
	b.WriteString("\n---END OF DOCUMENTS---\n")

	text, truncated := capTotal(b.String(), limits.Total)
	return AssembledContext{Text: text, Documents: len(docs), Truncated: truncated}
}

// BuildAnalysisContext concatenates question papers for the PYQ analysis.
func BuildAnalysisContext(docs []domain.Document, limits ContextLimits) AssembledContext {
	limits = limits.normalize()

	parts := make([]string, 0, len(docs))
	for idx, doc := range docs {
		text, _ := truncateRunes(doc.ExtractedText, limits.PerDocument)
		parts = append(parts, fmt.Sprintf("[Question Paper %d: %s]\n%s", idx+1, doc.Filename, text))
	}

	text, truncated := capTotal(strings.Join(parts, "\n\n"), limits.Total)
	return AssembledContext{Text: text, Documents: len(docs), Truncated: truncated}
}

// capTotal keeps the result within total runes, marker included.
func capTotal(text string, total int) (string, bool) {
	if utf8.RuneCountInString(text) <= total {
		return text, false
	}
	keep := total - utf8.RuneCountInString(TruncationMarker)
	cut, _ := truncateRunes(text, keep)
	return cut + TruncationMarker, true
}

func truncateRunes(text string, limit int) (string, bool) {
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return text, false
	}
	count := 0
	for idx := range text {
		if count == limit {
			return text[:idx], true
		}
		count++
	}
	return text, false
}
