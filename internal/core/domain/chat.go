package domain

type ChatRole string

const (
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
	RoleSystem    ChatRole = "system"
)

type ChatTurn struct {
	Role    ChatRole `json:"role"`
	Content string   `json:"content"`
}

type ChatRequest struct {
	Messages []ChatTurn `json:"messages"`
	Category string     `json:"category,omitempty"`
}

// ChatLimits bounds the history forwarded to the model.
type ChatLimits struct {
	MaxMessages     int
	MaxMessageChars int
}
