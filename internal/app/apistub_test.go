package app

import (
	"context"
	"io"
	"sync"
	"testing"

	"ragchat/internal/client"
	"ragchat/internal/types"

	tea "github.com/charmbracelet/bubbletea"
)

// stubAPI implements AuthAPI, DocumentAPI and ChatAPI with scripted
// responses, recording every call it receives.
type stubAPI struct {
	mu sync.Mutex

	loginToken string
	loginErr   error
	signupErr  error
	user       *types.User
	userErr    error

	documents      []*types.Document
	documentsErr   error
	uploadPDFResp  *client.UploadPDFResponse
	uploadPDFErr   error
	uploadURLsResp *client.UploadURLsResponse
	uploadURLsErr  error
	deleteDocErr   error

	sessions         []*types.ChatSession
	sessionsErr      error
	historyResp      *client.HistoryResponse
	historyErr       error
	queryResp        *client.QueryResponse
	queryErr         error
	deleteSessionErr error

	token     string
	calls     []string
	queryReqs []client.QueryRequest
}

func (s *stubAPI) record(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, name)
}

func (s *stubAPI) callCount(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (s *stubAPI) Signup(ctx context.Context, req client.SignupRequest) error {
	s.record("Signup")
	return s.signupErr
}

func (s *stubAPI) Login(ctx context.Context, email, password string) (string, error) {
	s.record("Login")
	return s.loginToken, s.loginErr
}

func (s *stubAPI) CurrentUser(ctx context.Context) (*types.User, error) {
	s.record("CurrentUser")
	return s.user, s.userErr
}

func (s *stubAPI) SetToken(token string) {
	s.record("SetToken")
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

func (s *stubAPI) ClearToken() {
	s.record("ClearToken")
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
}

func (s *stubAPI) ListDocuments(ctx context.Context) ([]*types.Document, error) {
	s.record("ListDocuments")
	return s.documents, s.documentsErr
}

func (s *stubAPI) UploadPDF(ctx context.Context, filename string, contents io.Reader) (*client.UploadPDFResponse, error) {
	s.record("UploadPDF")
	return s.uploadPDFResp, s.uploadPDFErr
}

func (s *stubAPI) UploadURLs(ctx context.Context, urls []string) (*client.UploadURLsResponse, error) {
	s.record("UploadURLs")
	return s.uploadURLsResp, s.uploadURLsErr
}

func (s *stubAPI) DeleteDocument(ctx context.Context, id int) error {
	s.record("DeleteDocument")
	return s.deleteDocErr
}

func (s *stubAPI) ListSessions(ctx context.Context) ([]*types.ChatSession, error) {
	s.record("ListSessions")
	return s.sessions, s.sessionsErr
}

func (s *stubAPI) History(ctx context.Context, sessionID int) (*client.HistoryResponse, error) {
	s.record("History")
	return s.historyResp, s.historyErr
}

func (s *stubAPI) Query(ctx context.Context, req client.QueryRequest) (*client.QueryResponse, error) {
	s.record("Query")
	s.mu.Lock()
	s.queryReqs = append(s.queryReqs, req)
	s.mu.Unlock()
	return s.queryResp, s.queryErr
}

func (s *stubAPI) DeleteSession(ctx context.Context, id int) error {
	s.record("DeleteSession")
	return s.deleteSessionErr
}

// memCreds is an in-memory store.CredentialStore for model tests.
type memCreds struct {
	mu     sync.Mutex
	token  string
	apiKey string
}

func (s *memCreds) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *memCreds) SetToken(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *memCreds) APIKey(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apiKey, nil
}

func (s *memCreds) SetAPIKey(ctx context.Context, apiKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apiKey = apiKey
	return nil
}

func (s *memCreds) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.apiKey = ""
	return nil
}

func (s *memCreds) Close() error {
	return nil
}

func newTestModel(t *testing.T, api *stubAPI) (*Model, *memCreds) {
	t.Helper()
	creds := &memCreds{}
	model := NewModel(Options{
		Auth:        api,
		Documents:   api,
		Chat:        api,
		Credentials: creds,
	})
	m := &model
	m.resize(100, 30)
	return m, creds
}

// signIn shortcuts the model into the chat mode the way a successful
// login/profile round trip would.
func signIn(t *testing.T, m *Model, api *stubAPI) {
	t.Helper()
	m.token = "tok-1"
	api.SetToken("tok-1")
	m.handleAsync(currentUserMsg{user: &types.User{ID: 1, Username: "dana", Email: "dana@example.com"}})
	if m.mode != uiModeChat {
		t.Fatalf("expected chat mode after sign in, got %d", m.mode)
	}
}

// collectMsgs runs a command tree synchronously and flattens the results.
func collectMsgs(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collectMsgs(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func keyMsg(key tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: key}
}
