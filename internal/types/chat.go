package types

type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

type ChatSession struct {
	ID           int       `json:"id"`
	Title        string    `json:"title"`
	CreatedAt    Timestamp `json:"created_at"`
	MessageCount int       `json:"message_count"`
}

// Citation points at the document passage an answer was grounded on. Page is
// nil for sources without page structure (URL ingests). Content carries the
// backend's short excerpt of the matched chunk.
type Citation struct {
	Source  string `json:"source"`
	Page    *int   `json:"page,omitempty"`
	Content string `json:"content,omitempty"`
}

// Message is append-only once placed in a conversation buffer. Citations is
// populated only on assistant messages, and only when the backend returned
// at least one.
type Message struct {
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	CreatedAt Timestamp   `json:"created_at"`
	Citations []Citation  `json:"citations,omitempty"`
}

func (m Message) HasCitations() bool {
	return len(m.Citations) > 0
}
