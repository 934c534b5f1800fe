package app

import (
	"strings"
	"time"

	"ragchat/internal/logging"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// startSend runs the optimistic half of a question/answer exchange: the user
// message goes into the transcript immediately and the input clears before
// the network round trip starts. Only one exchange may be in flight.
func (m *Model) startSend() tea.Cmd {
	if m.sending {
		return nil
	}
	question := strings.TrimSpace(m.input.Value())
	if question == "" {
		return nil
	}
	if strings.TrimSpace(m.apiKey) == "" {
		m.status = "set your Groq API key first (ctrl+e)"
		m.keyEditing = true
		m.input.Blur()
		m.keyInput.Focus()
		return textinput.Blink
	}
	m.conversation.AppendUser(question, time.Now())
	m.input.Reset()
	m.sending = true
	m.status = "waiting for answer"
	m.refreshTranscript()
	m.viewport.GotoBottom()
	var sessionID *int
	if m.conversation.SessionID != nil {
		id := *m.conversation.SessionID
		sessionID = &id
	}
	return tea.Batch(queryCmd(m.chat, question, sessionID, m.apiKey), m.loader.Tick)
}

// finishSend applies the backend's answer. On failure the user message stays
// in the transcript untouched; only the status line reports the error.
func (m *Model) finishSend(msg queryMsg) tea.Cmd {
	m.sending = false
	if msg.err != nil {
		m.logger.Warn("query failed", logging.F("err", msg.err))
		m.status = "query error: " + errorStatus(msg.err)
		m.refreshTranscript()
		return nil
	}
	m.conversation.AppendAssistant(msg.answer, msg.citations, time.Now())
	m.conversation.Bind(msg.sessionID)
	m.status = ""
	m.refreshTranscript()
	m.viewport.GotoBottom()
	// the first answer creates the session server-side and the key has
	// proven valid, so refresh the sidebar and persist the key
	return tea.Batch(fetchSessionsCmd(m.chat), saveAPIKeyCmd(m.creds, m.apiKey))
}
