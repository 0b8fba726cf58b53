package chat

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// NotConfiguredMessage is returned in place of an answer when no API key is set.
const NotConfiguredMessage = "Chat is not configured. Set OPENROUTER_API_KEY to enable the assistant."

// Roles accepted in history and stored in the transcript.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleModel     = "model"
)

// Transcript modes.
const (
	ModeSingle = "single"
	ModeStream = "stream"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is the body of both chat endpoints.
type Request struct {
	Message string    `json:"message"`
	History []Message `json:"history,omitempty"`
}

func (r Request) validate() error {
	if strings.TrimSpace(r.Message) == "" {
		return ErrMessageRequired
	}
	return nil
}

// Citation is a source backing an answer.
type Citation struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	URL        string `json:"url"`
	Snippet    string `json:"snippet"`
	SourceType string `json:"source_type"`
}

type Response struct {
	Answer    string     `json:"answer"`
	Citations []Citation `json:"citations"`
}

// Chunk is one frame of a streamed answer. Data is the raw upstream event
// payload; Err is set on the final chunk when the stream failed.
type Chunk struct {
	Data []byte
	Err  error
}

// Entry is a persisted transcript message.
type Entry struct {
	ID        uuid.UUID `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Mode      string    `json:"mode"`
	CreatedAt time.Time `json:"created_at"`
}

// normalizeRole maps client history roles onto the two upstream roles.
func normalizeRole(role string) string {
	switch role {
	case RoleModel, RoleAssistant:
		return RoleAssistant
	default:
		return RoleUser
	}
}
