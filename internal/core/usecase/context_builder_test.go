package usecase

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/kirillkom/study-assistant/internal/core/domain"
)

func TestBuildAnalysisContextNeverExceedsTotal(t *testing.T) {
	cases := []struct {
		name string
		docs []domain.Document
	}{
		{"empty", nil},
		{"small", []domain.Document{{Filename: "a.pdf", ExtractedText: "short"}}},
		{"one huge", []domain.Document{{Filename: "a.pdf", ExtractedText: strings.Repeat("x", 90000)}}},
		{"many medium", manyDocs(7, 15000)},
		{"multibyte", []domain.Document{{Filename: "ü.pdf", ExtractedText: strings.Repeat("ж", 60000)}, {Filename: "b", ExtractedText: strings.Repeat("日本", 30000)}}},
	}

	limits := ContextLimits{PerDocument: DefaultMaxDocumentChars, Total: DefaultMaxContextChars}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := BuildAnalysisContext(tc.docs, limits)
			if n := utf8.RuneCountInString(got.Text); n > DefaultMaxContextChars {
				t.Fatalf("context has %d runes, limit %d", n, DefaultMaxContextChars)
			}
			if got.Truncated && !strings.HasSuffix(got.Text, TruncationMarker) {
				t.Fatalf("truncated context must end with marker")
			}
			if !utf8.ValidString(got.Text) {
				t.Fatalf("context is not valid utf-8")
			}
		})
	}
}

func TestBuildAnalysisContextCutsEachDocument(t *testing.T) {
	docs := []domain.Document{{Filename: "paper.pdf", ExtractedText: strings.Repeat("a", 25000)}}

	got := BuildAnalysisContext(docs, ContextLimits{PerDocument: 20000, Total: 50000})
	want := "[Question Paper 1: paper.pdf]\n" + strings.Repeat("a", 20000)
	if got.Text != want {
		t.Fatalf("unexpected context length %d", len(got.Text))
	}
	if got.Truncated {
		t.Fatalf("per-document cut alone must not set the truncation flag")
	}
}

func TestBuildAnalysisContextMarksGlobalCut(t *testing.T) {
	got := BuildAnalysisContext(manyDocs(4, 20000), ContextLimits{PerDocument: 20000, Total: 50000})
	if !got.Truncated {
		t.Fatalf("expected truncation")
	}
	if utf8.RuneCountInString(got.Text) != 50000 {
		t.Fatalf("expected context filled to the ceiling, got %d", utf8.RuneCountInString(got.Text))
	}
	if got.Documents != 4 {
		t.Fatalf("expected 4 documents, got %d", got.Documents)
	}
}

func TestBuildChatContextFormatsDocuments(t *testing.T) {
	got := BuildChatContext([]domain.Document{
		{Filename: "notes.txt", ExtractedText: "cell biology"},
		{Filename: "scan.pdf"},
	}, ContextLimits{Total: DefaultMaxContextChars})

	want := "\n\n---UPLOADED DOCUMENTS---\n" +
		"\n[Document 1: notes.txt]\ncell biology\n" +
		"\n[Document 2: scan.pdf]\n[No text extracted yet]\n" +
		"\n---END OF DOCUMENTS---\n"
	if got.Text != want {
		t.Fatalf("unexpected chat context:\n%q\nwant\n%q", got.Text, want)
	}
}

func TestBuildChatContextEmptyForNoDocuments(t *testing.T) {
	if got := BuildChatContext(nil, ContextLimits{}); got.Text != "" || got.Documents != 0 {
		t.Fatalf("expected empty context, got %+v", got)
	}
}

func TestBuildChatContextRespectsTotal(t *testing.T) {
	got := BuildChatContext(manyDocs(5, 30000), ContextLimits{Total: 50000})
	if utf8.RuneCountInString(got.Text) > 50000 || !strings.HasSuffix(got.Text, TruncationMarker) {
		t.Fatalf("expected bounded, marked chat context")
	}
}

func manyDocs(n, size int) []domain.Document {
	docs := make([]domain.Document, 0, n)
	for i := 0; i < n; i++ {
		docs = append(docs, domain.Document{
			Filename:      fmt.Sprintf("paper-%d.pdf", i+1),
			ExtractedText: strings.Repeat("q", size),
			Category:      domain.CategoryPYQ,
		})
	}
	return docs
}
