package app

import (
	"fmt"
	"strings"

	"ragchat/internal/client"
	"ragchat/internal/logging"
	"ragchat/internal/store"
	"ragchat/internal/types"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

type uiMode int

const (
	uiModeAuth uiMode = iota
	uiModeChat
	uiModeDocuments
)

type pendingDeleteKind int

const (
	pendingDeleteNone pendingDeleteKind = iota
	pendingDeleteSession
	pendingDeleteDocument
)

type pendingDelete struct {
	kind pendingDeleteKind
	id   int
}

type Options struct {
	Auth        AuthAPI
	Documents   DocumentAPI
	Chat        ChatAPI
	Credentials store.CredentialStore
	Logger      logging.Logger
	Markdown    bool
}

type Model struct {
	auth     AuthAPI
	docs     DocumentAPI
	chat     ChatAPI
	creds    store.CredentialStore
	logger   logging.Logger
	markdown bool

	mode   uiMode
	width  int
	height int
	ready  bool

	token        string
	apiKey       string
	user         *types.User
	documents    []*types.Document
	sessions     []*types.ChatSession
	conversation types.Conversation

	authForm   *AuthForm
	input      textinput.Model
	keyInput   textinput.Model
	docInput   textinput.Model
	keyEditing bool
	viewport   viewport.Model
	loader     spinner.Model
	confirm    *ConfirmController
	pending    pendingDelete

	sending   bool
	uploading bool
	status    string

	sessionCursor  int
	documentCursor int
}

func NewModel(opts Options) Model {
	input := textinput.New()
	input.Placeholder = "ask a question about your documents"
	input.Prompt = "> "
	input.CharLimit = 2000

	keyInput := textinput.New()
	keyInput.Placeholder = "Groq API key"
	keyInput.Prompt = "key> "
	keyInput.CharLimit = 200
	keyInput.EchoMode = textinput.EchoPassword
	keyInput.EchoCharacter = '*'

	docInput := textinput.New()
	docInput.Placeholder = "https://example.com/page or /path/to/file.pdf"
	docInput.Prompt = "> "
	docInput.CharLimit = 2000

	loader := spinner.New()
	loader.Spinner = spinner.Dot

	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	return Model{
		auth:          opts.Auth,
		docs:          opts.Documents,
		chat:          opts.Chat,
		creds:         opts.Credentials,
		logger:        logger,
		markdown:      opts.Markdown,
		mode:          uiModeAuth,
		authForm:      NewAuthForm(),
		input:         input,
		keyInput:      keyInput,
		docInput:      docInput,
		loader:        loader,
		confirm:       NewConfirmController(),
		sessionCursor: -1,
	}
}

// Run starts the interactive program against a configured backend client.
func Run(c *client.Client, creds store.CredentialStore, logger logging.Logger, markdown bool) error {
	api := NewClientAPI(c)
	model := NewModel(Options{
		Auth:        api,
		Documents:   api,
		Chat:        api,
		Credentials: creds,
		Logger:      logger,
		Markdown:    markdown,
	})
	p := tea.NewProgram(&model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(loadCredentialsCmd(m.creds), textinput.Blink)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case spinner.TickMsg:
		if !m.sending && !m.uploading {
			return m, nil
		}
		var cmd tea.Cmd
		m.loader, cmd = m.loader.Update(msg)
		m.refreshTranscript()
		return m, cmd
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}
	if cmd, handled := m.handleAsync(msg); handled {
		return m, cmd
	}
	// cursor blink and other component ticks
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.keyInput, cmd = m.keyInput.Update(msg)
	cmds = append(cmds, cmd)
	m.docInput, cmd = m.docInput.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *Model) handleAsync(msg tea.Msg) (tea.Cmd, bool) {
	switch msg := msg.(type) {
	case credentialsLoadedMsg:
		return m.onCredentialsLoaded(msg), true
	case loginMsg:
		return m.onLogin(msg), true
	case signupMsg:
		return m.onSignup(msg), true
	case currentUserMsg:
		return m.onCurrentUser(msg), true
	case loggedOutMsg:
		if msg.err != nil {
			m.status = "logout error: " + msg.err.Error()
		}
		return nil, true
	case documentsMsg:
		return m.onDocuments(msg), true
	case pdfUploadedMsg:
		return m.onPDFUploaded(msg), true
	case urlsUploadedMsg:
		return m.onURLsUploaded(msg), true
	case documentDeletedMsg:
		return m.onDocumentDeleted(msg), true
	case sessionsMsg:
		return m.onSessions(msg), true
	case historyMsg:
		return m.onHistory(msg), true
	case queryMsg:
		return m.finishSend(msg), true
	case sessionDeletedMsg:
		return m.onSessionDeleted(msg), true
	case tokenSavedMsg:
		if msg.err != nil {
			m.status = "credential store error: " + msg.err.Error()
		}
		return nil, true
	case apiKeySavedMsg:
		if msg.err != nil {
			m.status = "credential store error: " + msg.err.Error()
		}
		return nil, true
	}
	return nil, false
}

func (m *Model) onCredentialsLoaded(msg credentialsLoadedMsg) tea.Cmd {
	if msg.err != nil {
		m.status = "credential store error: " + msg.err.Error()
		return nil
	}
	m.apiKey = msg.apiKey
	m.keyInput.SetValue(msg.apiKey)
	if msg.token == "" {
		return nil
	}
	m.token = msg.token
	m.auth.SetToken(msg.token)
	m.status = "checking stored session"
	return currentUserCmd(m.auth)
}

func (m *Model) onLogin(msg loginMsg) tea.Cmd {
	if msg.err != nil {
		m.authForm.SetError(errorDetail(msg.err))
		return nil
	}
	m.token = msg.token
	m.auth.SetToken(msg.token)
	m.status = "signing in"
	return tea.Batch(saveTokenCmd(m.creds, msg.token), currentUserCmd(m.auth))
}

/// onSignup never authenticates: the account exists, but the user signs in
// themselves from the login form.
func (m *Model) onSignup(msg signupMsg) tea.Cmd {
	if msg.err != nil {
		m.authForm.SetError(errorDetail(msg.err))
		return nil
	}
	m.status = "account created for " + msg.email
	m.authForm.SwitchToLogin("account created, sign in")
	return nil
}

func (m *Model) onCurrentUser(msg currentUserMsg) tea.Cmd {
	if msg.err != nil {
		m.logger.Warn("stored session rejected", logging.F("err", msg.err))
		m.status = "session expired, sign in again"
		return m.logout()
	}
	m.user = msg.user
	m.mode = uiModeChat
	m.status = "signed in as " + msg.user.Username
	m.authForm.Reset()
	m.focusChatInput()
	return tea.Batch(fetchDocumentsCmd(m.docs), fetchSessionsCmd(m.chat))
}

// logout drops every piece of server-derived state and returns to the login
// form. The stored token and API key are wiped as well.
func (m *Model) logout() tea.Cmd {
	m.token = ""
	m.apiKey = ""
	m.user = nil
	m.documents = nil
	m.sessions = nil
	m.conversation.Reset()
	m.sending = false
	m.uploading = false
	m.pending = pendingDelete{}
	m.confirm.Close()
	m.sessionCursor = -1
	m.documentCursor = 0
	m.input.Reset()
	m.keyInput.Reset()
	m.docInput.Reset()
	m.keyEditing = false
	m.auth.ClearToken()
	m.mode = uiModeAuth
	m.authForm.Reset()
	m.refreshTranscript()
	return clearCredentialsCmd(m.creds)
}

func (m *Model) onDocuments(msg documentsMsg) tea.Cmd {
	if msg.err != nil {
		m.status = "documents error: " + errorStatus(msg.err)
		return nil
	}
	m.documents = msg.documents
	if m.documentCursor >= len(m.documents) {
		m.documentCursor = len(m.documents) - 1
	}
	if m.documentCursor < 0 {
		m.documentCursor = 0
	}
	return nil
}

func (m *Model) onPDFUploaded(msg pdfUploadedMsg) tea.Cmd {
	m.uploading = false
	if msg.err != nil {
		m.status = "upload error: " + errorStatus(msg.err)
		return nil
	}
	m.status = fmt.Sprintf("indexed %s (%d chunks)", msg.filename, msg.chunks)
	m.docInput.Reset()
	return fetchDocumentsCmd(m.docs)
}

func (m *Model) onURLsUploaded(msg urlsUploadedMsg) tea.Cmd {
	m.uploading = false
	if msg.err != nil {
		m.status = "upload error: " + errorStatus(msg.err)
		return nil
	}
	added, failed := 0, 0
	for _, r := range msg.results {
		if r.Status == "success" {
			added++
		} else {
			failed++
		}
	}
	m.status = fmt.Sprintf("indexed %d url(s)", added)
	if failed > 0 {
		m.status += fmt.Sprintf(", %d failed", failed)
	}
	m.docInput.Reset()
	return fetchDocumentsCmd(m.docs)
}

func (m *Model) onDocumentDeleted(msg documentDeletedMsg) tea.Cmd {
	if msg.err != nil {
		m.status = "delete error: " + errorStatus(msg.err)
		return fetchDocumentsCmd(m.docs)
	}
	m.status = "document deleted"
	return fetchDocumentsCmd(m.docs)
}

func (m *Model) onSessions(msg sessionsMsg) tea.Cmd {
	if msg.err != nil {
		m.status = "sessions error: " + errorStatus(msg.err)
		return nil
	}
	m.sessions = msg.sessions
	m.reconcileSessionCursor()
	return nil
}

func (m *Model) onHistory(msg historyMsg) tea.Cmd {
	if msg.err != nil {
		m.status = "history error: " + errorStatus(msg.err)
		return nil
	}
	m.conversation.Replace(msg.sessionID, msg.messages)
	m.reconcileSessionCursor()
	m.status = ""
	m.refreshTranscript()
	m.viewport.GotoBottom()
	return nil
}

func (m *Model) onSessionDeleted(msg sessionDeletedMsg) tea.Cmd {
	if msg.err != nil {
		m.status = "delete error: " + errorStatus(msg.err)
		return fetchSessionsCmd(m.chat)
	}
	if m.conversation.SessionID != nil && *m.conversation.SessionID == msg.id {
		m.conversation.Reset()
		m.sessionCursor = -1
		m.refreshTranscript()
	}
	m.status = "chat deleted"
	return fetchSessionsCmd(m.chat)
}

// reconcileSessionCursor points the sidebar cursor at the session the
// conversation is bound to, if it appears in the list.
func (m *Model) reconcileSessionCursor() {
	if m.conversation.SessionID == nil {
		m.sessionCursor = -1
		return
	}
	for i, s := range m.sessions {
		if s.ID == *m.conversation.SessionID {
			m.sessionCursor = i
			return
		}
	}
	m.sessionCursor = -1
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		return tea.Quit
	}
	if m.confirm.IsOpen() {
		handled, choice := m.confirm.HandleKey(msg)
		if !handled {
			return nil
		}
		switch choice {
		case confirmChoiceConfirm:
			m.confirm.Close()
			return m.runPendingDelete()
		case confirmChoiceCancel:
			m.confirm.Close()
			m.pending = pendingDelete{}
		}
		return nil
	}
	switch m.mode {
	case uiModeAuth:
		return m.handleAuthKey(msg)
	case uiModeChat:
		return m.handleChatKey(msg)
	case uiModeDocuments:
		return m.handleDocumentsKey(msg)
	}
	return nil
}

func (m *Model) handleAuthKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+s":
		m.authForm.ToggleMode()
		return nil
	case "esc":
		return tea.Quit
	}
	cmd, submitted := m.authForm.HandleKey(msg)
	if !submitted {
		return cmd
	}
	email, username, password := m.authForm.Values()
	if m.authForm.Mode() == authFormSignup {
		m.status = "creating account"
		return signupCmd(m.auth, client.SignupRequest{
			Email:    email,
			Username: username,
			Password: password,
		})
	}
	m.status = "signing in"
	return loginCmd(m.auth, email, password)
}

func (m *Model) handleChatKey(msg tea.KeyMsg) tea.Cmd {
	if m.keyEditing {
		switch msg.String() {
		case "enter":
			m.apiKey = strings.TrimSpace(m.keyInput.Value())
			m.keyEditing = false
			m.focusChatInput()
			if m.apiKey == "" {
				m.status = "a Groq API key is required to send questions"
			} else {
				m.status = "API key set"
			}
			return nil
		case "esc":
			m.keyInput.SetValue(m.apiKey)
			m.keyEditing = false
			m.focusChatInput()
			return nil
		}
		var cmd tea.Cmd
		m.keyInput, cmd = m.keyInput.Update(msg)
		return cmd
	}
	switch msg.String() {
	case "enter":
		return m.startSend()
	case "ctrl+n":
		m.conversation.Reset()
		m.sessionCursor = -1
		m.status = "new chat"
		m.refreshTranscript()
		return nil
	case "ctrl+j":
		return m.selectSession(m.sessionCursor + 1)
	case "ctrl+k":
		return m.selectSession(m.sessionCursor - 1)
	case "ctrl+d":
		return m.confirmDeleteSession()
	case "ctrl+t":
		m.mode = uiModeDocuments
		m.input.Blur()
		m.docInput.Focus()
		return textinput.Blink
	case "ctrl+e":
		m.keyEditing = true
		m.input.Blur()
		m.keyInput.Focus()
		return textinput.Blink
	case "ctrl+y":
		return m.copyLastAnswer()
	case "ctrl+g":
		return m.logout()
	case "pgup":
		m.viewport.HalfViewUp()
		return nil
	case "pgdown":
		m.viewport.HalfViewDown()
		return nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *Model) handleDocumentsKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc", "ctrl+t":
		m.mode = uiModeChat
		m.docInput.Blur()
		m.focusChatInput()
		return textinput.Blink
	case "up":
		if m.documentCursor > 0 {
			m.documentCursor--
		}
		return nil
	case "down":
		if m.documentCursor < len(m.documents)-1 {
			m.documentCursor++
		}
		return nil
	case "enter":
		return m.startUpload()
	case "ctrl+d":
		return m.confirmDeleteDocument()
	case "ctrl+r":
		return fetchDocumentsCmd(m.docs)
	case "ctrl+g":
		return m.logout()
	}
	var cmd tea.Cmd
	m.docInput, cmd = m.docInput.Update(msg)
	return cmd
}

// startUpload routes the document input either to the PDF endpoint or the
// URL endpoint based on its shape.
func (m *Model) startUpload() tea.Cmd {
	if m.uploading {
		return nil
	}
	value := strings.TrimSpace(m.docInput.Value())
	if value == "" {
		m.status = "enter a URL or a path to a PDF file"
		return nil
	}
	m.uploading = true
	if strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://") {
		m.status = "fetching and indexing"
		return tea.Batch(uploadURLsCmd(m.docs, strings.Fields(value)), m.loader.Tick)
	}
	m.status = "uploading " + value
	return tea.Batch(uploadPDFCmd(m.docs, value), m.loader.Tick)
}

func (m *Model) confirmDeleteSession() tea.Cmd {
	s := m.selectedSession()
	if s == nil {
		m.status = "no chat selected"
		return nil
	}
	m.pending = pendingDelete{kind: pendingDeleteSession, id: s.ID}
	m.confirm.Open("Delete chat", fmt.Sprintf("Delete %q and its history?", s.Title), "Delete", "Keep")
	return nil
}

func (m *Model) confirmDeleteDocument() tea.Cmd {
	d := m.selectedDocument()
	if d == nil {
		m.status = "no document selected"
		return nil
	}
	m.pending = pendingDelete{kind: pendingDeleteDocument, id: d.ID}
	m.confirm.Open("Delete document", fmt.Sprintf("Remove %q from the index?", d.Filename), "Delete", "Keep")
	return nil
}

func (m *Model) runPendingDelete() tea.Cmd {
	pending := m.pending
	m.pending = pendingDelete{}
	switch pending.kind {
	case pendingDeleteSession:
		return deleteSessionCmd(m.chat, pending.id)
	case pendingDeleteDocument:
		return deleteDocumentCmd(m.docs, pending.id)
	}
	return nil
}

func (m *Model) selectedSession() *types.ChatSession {
	if m.sessionCursor < 0 || m.sessionCursor >= len(m.sessions) {
		return nil
	}
	return m.sessions[m.sessionCursor]
}

func (m *Model) selectedDocument() *types.Document {
	if m.documentCursor < 0 || m.documentCursor >= len(m.documents) {
		return nil
	}
	return m.documents[m.documentCursor]
}

// selectSession moves the sidebar cursor and loads the history of the
// newly selected session.
func (m *Model) selectSession(index int) tea.Cmd {
	if len(m.sessions) == 0 {
		return nil
	}
	if index < 0 {
		index = 0
	}
	if index >= len(m.sessions) {
		index = len(m.sessions) - 1
	}
	if index == m.sessionCursor {
		return nil
	}
	m.sessionCursor = index
	m.status = "loading history"
	return fetchHistoryCmd(m.chat, m.sessions[index].ID)
}

func (m *Model) copyLastAnswer() tea.Cmd {
	answer, ok := m.conversation.LastAssistant()
	if !ok {
		m.status = "nothing to copy yet"
		return nil
	}
	if err := copyTextToClipboard(answer.Content); err != nil {
		m.status = "copy failed: " + err.Error()
		return nil
	}
	m.status = "answer copied"
	return nil
}

func (m *Model) focusChatInput() {
	m.keyInput.Blur()
	m.docInput.Blur()
	m.input.Focus()
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	bodyHeight := m.bodyHeight()
	transcriptWidth := width - sidebarWidth - 1
	if transcriptWidth < 20 {
		transcriptWidth = 20
	}
	if !m.ready {
		m.viewport = viewport.New(transcriptWidth, bodyHeight)
		m.ready = true
	} else {
		m.viewport.Width = transcriptWidth
		m.viewport.Height = bodyHeight
	}
	m.input.Width = width - 4
	m.keyInput.Width = width - 8
	m.docInput.Width = width - 4
	m.refreshTranscript()
}

// errorDetail prefers the backend's detail string over Go error chains so
// status lines stay readable.
func errorDetail(err error) string {
	if err == nil {
		return ""
	}
	if apiErr := client.AsAPIError(err); apiErr != nil {
		return apiErr.Detail
	}
	return err.Error()
}

// errorStatus formats err for the status line. Only a rejected profile check
// signs the user out, so a 401 anywhere else just gets a hint appended.
func errorStatus(err error) string {
	detail := errorDetail(err)
	if client.IsAuthFailure(err) {
		return detail + " (session may have expired, ctrl+g to sign out)"
	}
	return detail
}
