package study

type Flashcard struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type FlashcardState struct {
	cards        []Flashcard
	currentIndex int
	flipped      bool
}

func NewFlashcards(cards []Flashcard) FlashcardState {
	return FlashcardState{cards: append([]Flashcard(nil), cards...)}
}

func (s FlashcardState) Len() int          { return len(s.cards) }
func (s FlashcardState) CurrentIndex() int { return s.currentIndex }
func (s FlashcardState) Flipped() bool     { return s.flipped }

// Empty decks render a "no cards" view and ignore every transition.
func (s FlashcardState) Empty() bool { return len(s.cards) == 0 }

func (s FlashcardState) Current() (Flashcard, bool) {
	if s.Empty() {
		return Flashcard{}, false
	}
	return s.cards[s.currentIndex], true
}

// Face is the text currently shown: the question, or the answer when flipped.
func (s FlashcardState) Face() string {
	card, ok := s.Current()
	if !ok {
		return ""
	}
	if s.flipped {
		return card.Answer
	}
	return card.Question
}

func (s FlashcardState) Flip() FlashcardState {
	if s.Empty() {
		return s
	}
	next := s
	next.flipped = !s.flipped
	return next
}

func (s FlashcardState) Previous() FlashcardState {
	if s.Empty() {
		return s
	}
	idx := s.currentIndex - 1
	if idx < 0 {
		idx = len(s.cards) - 1
	}
	return s.at(idx)
}

func (s FlashcardState) Next() FlashcardState {
	if s.Empty() {
		return s
	}
	idx := s.currentIndex + 1
	if idx >= len(s.cards) {
		idx = 0
	}
	return s.at(idx)
}

// JumpTo ignores indexes outside [0, Len()).
func (s FlashcardState) JumpTo(i int) FlashcardState {
	if s.Empty() || i < 0 || i >= len(s.cards) {
		return s
	}
	return s.at(i)
}

func (s FlashcardState) at(idx int) FlashcardState {
	next := s
	next.currentIndex = idx
	next.flipped = false
	return next
}
