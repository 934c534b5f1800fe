package types

import "time"

// Conversation is the in-memory buffer of the chat session currently on
// screen. SessionID stays nil until the backend assigns one on the first
// successful query; messages are appended in send order and never reordered.
type Conversation struct {
	SessionID *int
	Messages  []Message
}

// Bound reports whether the buffer is backed by a persisted server session.
func (c *Conversation) Bound() bool {
	return c.SessionID != nil
}

// Bind records the session id returned by the backend. The backend echoes the
// id on every query response, so binding also tracks a server-side redirect
// to a different session.
func (c *Conversation) Bind(sessionID int) {
	c.SessionID = &sessionID
}

func (c *Conversation) AppendUser(content string, at time.Time) Message {
	msg := Message{Role: RoleUser, Content: content, CreatedAt: NewTimestamp(at)}
	c.Messages = append(c.Messages, msg)
	return msg
}

func (c *Conversation) AppendAssistant(content string, citations []Citation, at time.Time) Message {
	msg := Message{Role: RoleAssistant, Content: content, CreatedAt: NewTimestamp(at)}
	if len(citations) > 0 {
		msg.Citations = append([]Citation{}, citations...)
	}
	c.Messages = append(c.Messages, msg)
	return msg
}

// Replace swaps the buffer for a session's server-side history.
func (c *Conversation) Replace(sessionID int, messages []Message) {
	c.SessionID = &sessionID
	c.Messages = append([]Message{}, messages...)
}

// Reset returns the buffer to the new-chat state without any network call.
func (c *Conversation) Reset() {
	c.SessionID = nil
	c.Messages = nil
}

func (c *Conversation) LastAssistant() (Message, bool) {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].Role == RoleAssistant {
			return c.Messages[i], true
		}
	}
	return Message{}, false
}
