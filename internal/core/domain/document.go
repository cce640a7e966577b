package domain

// Category tags an uploaded document and selects the chat preamble.
type Category string

const (
	CategoryResearch Category = "research"
	CategoryNotes    Category = "notes"
	CategoryPYQ      Category = "pyq"
	CategoryGeneral  Category = "general"
)

// ParseCategory maps a client tag onto the closed set. Unknown or empty tags
// become CategoryGeneral and report ok=false.
func ParseCategory(raw string) (Category, bool) {
	switch Category(raw) {
	case CategoryResearch, CategoryNotes, CategoryPYQ, CategoryGeneral:
		return Category(raw), true
	default:
		return CategoryGeneral, false
	}
}

// Restricts reports whether document reads are narrowed to this category.
func (c Category) Restricts() bool {
	switch c {
	case CategoryResearch, CategoryNotes, CategoryPYQ:
		return true
	default:
		return false
	}
}

type Document struct {
	Filename      string   `json:"filename"`
	ExtractedText string   `json:"extracted_text,omitempty"`
	FileType      string   `json:"file_type"`
	Category      Category `json:"category"`
	OwnerID       string   `json:"owner_id"`
}

// DocumentFilter scopes a document read. OwnerID is always the verified
// caller; an empty Category means no category restriction.
type DocumentFilter struct {
	OwnerID  string
	Category Category
}

// Identity is the verified caller.
type Identity struct {
	UserID string
}
