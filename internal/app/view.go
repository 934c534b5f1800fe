package app

import (
	"fmt"
	"strings"

	"ragchat/internal/types"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

const (
	sidebarWidth = 28
	chromeHeight = 4
)

func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "loading"
	}
	if m.mode == uiModeAuth {
		return m.viewAuth()
	}
	var body string
	switch m.mode {
	case uiModeChat:
		body = m.viewChat()
	case uiModeDocuments:
		body = m.viewDocuments()
	}
	if m.confirm.IsOpen() {
		body = lipgloss.Place(m.width, m.bodyHeight(), lipgloss.Center, lipgloss.Center,
			m.confirm.View(m.width-4))
	}
	return strings.Join([]string{
		m.viewHeader(),
		body,
		m.viewStatus(),
		m.viewInput(),
		m.viewHints(),
	}, "\n")
}

func (m *Model) bodyHeight() int {
	h := m.height - chromeHeight - 1
	if h < 1 {
		h = 1
	}
	return h
}

func (m *Model) viewAuth() string {
	form := formBorderStyle.Render(m.authForm.View(m.width - 8))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, form)
}

func (m *Model) viewHeader() string {
	title := "ragchat"
	if m.user != nil {
		title += " · " + m.user.Username
	}
	switch m.mode {
	case uiModeDocuments:
		title += " · documents"
	default:
		if s := m.selectedSession(); s != nil {
			title += " · " + s.Title
		} else {
			title += " · new chat"
		}
	}
	return headerStyle.Render(truncateToWidth(title, m.width-2))
}

func (m *Model) viewStatus() string {
	status := m.status
	if m.sending || m.uploading {
		status = m.loader.View() + " " + status
	}
	return statusStyle.Render(truncateToWidth(status, m.width))
}

func (m *Model) viewInput() string {
	switch {
	case m.mode == uiModeDocuments:
		return m.docInput.View()
	case m.keyEditing:
		return m.keyInput.View()
	default:
		return m.input.View()
	}
}

func (m *Model) viewHints() string {
	var hint string
	switch m.mode {
	case uiModeDocuments:
		hint = "enter upload · ctrl+d delete · esc back · ctrl+g logout"
	default:
		if m.keyEditing {
			hint = "enter save key · esc cancel"
		} else {
			hint = "enter send · ctrl+n new · ctrl+j/k chats · ctrl+t docs · ctrl+e key · ctrl+y copy · ctrl+g logout"
		}
	}
	return hintStyle.Render(truncateToWidth(hint, m.width))
}

func (m *Model) viewChat() string {
	sidebar := sidebarStyle.Height(m.bodyHeight()).Render(m.viewSidebar())
	return lipgloss.JoinHorizontal(lipgloss.Top, sidebar, m.viewport.View())
}

func (m *Model) viewSidebar() string {
	innerWidth := sidebarWidth - 2
	lines := []string{hintStyle.Render(padToWidth("chats", innerWidth))}
	if len(m.sessions) == 0 {
		lines = append(lines, statusStyle.Render(padToWidth("(none yet)", innerWidth)))
	}
	visible := m.bodyHeight() - 1
	for i, s := range m.sessions {
		if i >= visible {
			break
		}
		label := fmt.Sprintf("%s (%d)", s.Title, s.MessageCount)
		label = padToWidth(truncateToWidth(label, innerWidth), innerWidth)
		if i == m.sessionCursor {
			label = selectedItemStyle.Render(label)
		}
		lines = append(lines, label)
	}
	return strings.Join(lines, "\n")
}

func (m *Model) viewDocuments() string {
	width := m.width - 2
	lines := []string{hintStyle.Render("indexed documents")}
	if len(m.documents) == 0 {
		lines = append(lines, statusStyle.Render("nothing indexed yet; upload a PDF path or URL below"))
	}
	for i, d := range m.documents {
		label := fmt.Sprintf("%-6s %s (%d chunks)", d.SourceType, d.Filename, d.ChunkCount)
		if !d.UploadedAt.IsZero() {
			label += " · " + d.UploadedAt.Format("2006-01-02")
		}
		label = padToWidth(truncateToWidth(label, width), width)
		if i == m.documentCursor {
			label = selectedItemStyle.Render(label)
		}
		lines = append(lines, label)
	}
	body := strings.Join(lines, "\n")
	return lipgloss.NewStyle().Height(m.bodyHeight()).MaxHeight(m.bodyHeight()).Render(body)
}

// refreshTranscript rebuilds the viewport content from the conversation.
func (m *Model) refreshTranscript() {
	if !m.ready {
		return
	}
	width := m.viewport.Width
	if width < 10 {
		width = 10
	}
	var b strings.Builder
	if len(m.conversation.Messages) == 0 && !m.sending {
		b.WriteString(hintStyle.Render("ask a question to start a chat"))
	}
	for i, msg := range m.conversation.Messages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(m.renderMessage(msg, width))
	}
	if m.sending {
		b.WriteString("\n\n")
		b.WriteString(assistantLabelStyle.Render("assistant"))
		b.WriteString("\n")
		b.WriteString(m.loader.View() + " thinking")
	}
	m.viewport.SetContent(b.String())
}

func (m *Model) renderMessage(msg types.Message, width int) string {
	var b strings.Builder
	label := "you"
	style := userLabelStyle
	if msg.Role == types.RoleAssistant {
		label = "assistant"
		style = assistantLabelStyle
	}
	if !msg.CreatedAt.IsZero() {
		label += " " + msg.CreatedAt.Local().Format("15:04")
	}
	b.WriteString(style.Render(label))
	b.WriteString("\n")
	if msg.Role == types.RoleAssistant && m.markdown {
		b.WriteString(renderMarkdown(msg.Content, width))
	} else {
		b.WriteString(xansi.Hardwrap(msg.Content, width, true))
	}
	if msg.HasCitations() {
		b.WriteString("\n")
		b.WriteString(citationStyle.Render("sources:"))
		for _, c := range msg.Citations {
			line := "  • " + c.Source
			if c.Page != nil {
				line += fmt.Sprintf(" (p.%d)", *c.Page)
			}
			b.WriteString("\n")
			b.WriteString(citationStyle.Render(truncateToWidth(line, width)))
		}
	}
	return b.String()
}

func truncateToWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if xansi.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}

func padToWidth(s string, width int) string {
	gap := width - xansi.StringWidth(s)
	if gap <= 0 {
		return s
	}
	return s + strings.Repeat(" ", gap)
}
