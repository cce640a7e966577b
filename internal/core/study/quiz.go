package study

import (
	"fmt"
	"strings"
)

type QuestionKind string

const (
	KindMCQ   QuestionKind = "mcq"
	KindShort QuestionKind = "short"
)

type Question struct {
	ID            string       `json:"id"`
	Prompt        string       `json:"question"`
	Kind          QuestionKind `json:"type"`
	Options       []string     `json:"options,omitempty"`
	CorrectAnswer string       `json:"correctAnswer"`
}

// AnswerRecord is appended once per checked question.
type AnswerRecord struct {
	Correct     bool   `json:"correct"`
	GivenAnswer string `json:"answer"`
}

type QuizState struct {
	questions    []Question
	currentIndex int
	revealed     bool
	score        int
	history      []AnswerRecord

	selected    string
	hasSelected bool
	shortAnswer string
}

func NewQuiz(questions []Question) QuizState {
	return QuizState{questions: append([]Question(nil), questions...)}
}

func (s QuizState) Len() int          { return len(s.questions) }
func (s QuizState) CurrentIndex() int { return s.currentIndex }
func (s QuizState) Revealed() bool    { return s.revealed }
func (s QuizState) Score() int        { return s.score }

// Completed is true once every question has been passed, and immediately for
// an empty set.
func (s QuizState) Completed() bool { return s.currentIndex >= len(s.questions) }

func (s QuizState) History() []AnswerRecord {
	return append([]AnswerRecord(nil), s.history...)
}

// Current returns the active question; ok is false when completed.
func (s QuizState) Current() (Question, bool) {
	if s.Completed() {
		return Question{}, false
	}
	return s.questions[s.currentIndex], true
}

// Answer is the buffered answer for the active question.
func (s QuizState) Answer() string {
	q, ok := s.Current()
	if !ok {
		return ""
	}
	if q.Kind == KindMCQ {
		return s.selected
	}
	return s.shortAnswer
}

// CanCheck reports whether CheckAnswer would score the active question.
func (s QuizState) CanCheck() bool {
	q, ok := s.Current()
	if !ok || s.revealed {
		return false
	}
	if q.Kind == KindMCQ {
		return s.hasSelected && s.selected != ""
	}
	return strings.TrimSpace(s.shortAnswer) != ""
}

// SelectAnswer buffers a choice (mcq) or the typed text (short).
func (s QuizState) SelectAnswer(value string) QuizState {
	q, ok := s.Current()
	if !ok || s.revealed {
		return s
	}
	next := s
	if q.Kind == KindMCQ {
		next.selected = value
		next.hasSelected = true
		return next
	}
	next.shortAnswer = value
	return next
}

func (s QuizState) CheckAnswer() QuizState {
	if !s.CanCheck() {
		return s
	}
	q, _ := s.Current()
	given := s.Answer()
	correct := normalizeAnswer(given) == normalizeAnswer(q.CorrectAnswer)

	next := s
	if correct {
		next.score++
	}
	next.history = append(s.History(), AnswerRecord{Correct: correct, GivenAnswer: given})
	next.revealed = true
	return next
}

func (s QuizState) Next() QuizState {
	if s.Completed() || !s.revealed {
		return s
	}
	next := s
	next.currentIndex++
	next.revealed = false
	next.selected = ""
	next.hasSelected = false
	next.shortAnswer = ""
	return next
}

// Reset keeps the question set and clears all progress.
func (s QuizState) Reset() QuizState {
	return QuizState{questions: s.questions}
}

// Progress is the fraction shown by the progress bar. Zero questions yield 0.
func (s QuizState) Progress() float64 {
	if len(s.questions) == 0 {
		return 0
	}
	done := s.currentIndex
	if s.revealed {
		done++
	}
	return float64(done) / float64(len(s.questions))
}

// ScoreLine renders "score / total"; an empty quiz reads "0 / 0".
func (s QuizState) ScoreLine() string {
	return fmt.Sprintf("%d / %d", s.score, len(s.questions))
}

func normalizeAnswer(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}
