package app

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"ragchat/internal/client"
	"ragchat/internal/types"

	tea "github.com/charmbracelet/bubbletea"
)

func TestCredentialsLoadedWithTokenChecksProfile(t *testing.T) {
	api := &stubAPI{user: &types.User{ID: 1, Username: "dana"}}
	m, _ := newTestModel(t, api)

	cmd, _ := m.handleAsync(credentialsLoadedMsg{token: "tok-1", apiKey: "gsk_saved"})

	if api.token != "tok-1" {
		t.Fatalf("expected token forwarded to the client, got %q", api.token)
	}
	if m.apiKey != "gsk_saved" {
		t.Fatalf("expected stored api key restored, got %q", m.apiKey)
	}
	msgs := collectMsgs(cmd)
	if api.callCount("CurrentUser") != 1 {
		t.Fatal("expected a profile check for the stored token")
	}
	for _, msg := range msgs {
		if um, ok := msg.(currentUserMsg); ok {
			m.handleAsync(um)
		}
	}
	if m.mode != uiModeChat {
		t.Fatal("expected chat mode after a valid stored token")
	}
}

func TestCredentialsLoadedWithoutTokenStaysOnLogin(t *testing.T) {
	api := &stubAPI{}
	m, _ := newTestModel(t, api)

	cmd, _ := m.handleAsync(credentialsLoadedMsg{})

	if cmd != nil {
		t.Fatal("expected no network work without a stored token")
	}
	if m.mode != uiModeAuth {
		t.Fatal("expected the login form")
	}
}

func TestLoginSuccessPersistsTokenAndLoadsProfile(t *testing.T) {
	api := &stubAPI{user: &types.User{ID: 1, Username: "dana"}}
	m, creds := newTestModel(t, api)

	msgs := collectMsgs(m.onLogin(loginMsg{token: "tok-9"}))

	if api.token != "tok-9" {
		t.Fatalf("expected token on the client, got %q", api.token)
	}
	if tok, _ := creds.Token(context.Background()); tok != "tok-9" {
		t.Fatalf("expected token persisted, got %q", tok)
	}
	seen := false
	for _, msg := range msgs {
		if _, ok := msg.(currentUserMsg); ok {
			seen = true
		}
	}
	if !seen {
		t.Fatal("expected a profile fetch after login")
	}
}

func TestLoginFailureStaysOnForm(t *testing.T) {
	api := &stubAPI{}
	m, _ := newTestModel(t, api)

	cmd := m.onLogin(loginMsg{err: errors.New("Incorrect email or password")})

	if cmd != nil {
		t.Fatal("expected no follow-up work after a failed login")
	}
	if m.mode != uiModeAuth {
		t.Fatal("expected to stay on the auth form")
	}
	if m.authForm.Error() == "" {
		t.Fatal("expected the form to show the error")
	}
}

func TestSignupSuccessReturnsToLoginWithoutAuthenticating(t *testing.T) {
	api := &stubAPI{loginToken: "tok-new"}
	m, creds := newTestModel(t, api)
	m.authForm.ToggleMode()
	m.authForm.email.SetValue("new@example.com")
	m.authForm.username.SetValue("newuser")
	m.authForm.password.SetValue("longenough")

	cmd := m.onSignup(signupMsg{email: "new@example.com"})
	collectMsgs(cmd)

	if cmd != nil {
		t.Fatal("expected no follow-up work after signup")
	}
	if api.callCount("Login") != 0 {
		t.Fatal("signup must not log the user in")
	}
	if m.token != "" || api.token != "" {
		t.Fatal("signup must not produce a session token")
	}
	if tok, _ := creds.Token(context.Background()); tok != "" {
		t.Fatal("signup must not persist a token")
	}
	if m.mode != uiModeAuth {
		t.Fatal("expected to stay on the auth screen")
	}
	if m.authForm.Mode() != authFormLogin {
		t.Fatal("expected the form back in login mode")
	}
	if m.authForm.Notice() == "" {
		t.Fatal("expected a sign-in notice on the form")
	}
	email, _, password := m.authForm.Values()
	if email != "new@example.com" {
		t.Fatalf("expected the email kept for the login attempt, got %q", email)
	}
	if password != "" {
		t.Fatal("expected the password cleared")
	}
}

func TestProfileFailureForcesLogout(t *testing.T) {
	api := &stubAPI{}
	m, creds := newTestModel(t, api)
	signIn(t, m, api)
	m.apiKey = "gsk_test"
	creds.SetToken(context.Background(), "tok-1")
	creds.SetAPIKey(context.Background(), "gsk_test")
	m.sessions = []*types.ChatSession{{ID: 1, Title: "old"}}
	m.documents = []*types.Document{{ID: 1, Filename: "a.pdf"}}

	cmd, _ := m.handleAsync(currentUserMsg{err: errors.New("Could not validate credentials")})
	collectMsgs(cmd)

	if m.mode != uiModeAuth {
		t.Fatal("expected the login form after a rejected token")
	}
	if m.token != "" || m.apiKey != "" {
		t.Fatal("expected in-memory credentials cleared")
	}
	if m.user != nil || m.sessions != nil || m.documents != nil {
		t.Fatal("expected server-derived state cleared")
	}
	if len(m.conversation.Messages) != 0 {
		t.Fatal("expected the conversation cleared")
	}
	if api.token != "" {
		t.Fatal("expected the client token cleared")
	}
	if tok, _ := creds.Token(context.Background()); tok != "" {
		t.Fatal("expected the stored token cleared")
	}
	if key, _ := creds.APIKey(context.Background()); key != "" {
		t.Fatal("expected the stored api key cleared")
	}
}

func TestLogoutKeyClearsEverything(t *testing.T) {
	api := &stubAPI{}
	m, creds := newTestModel(t, api)
	signIn(t, m, api)
	m.apiKey = "gsk_test"
	creds.SetToken(context.Background(), "tok-1")

	cmd := m.handleKey(keyMsg(tea.KeyCtrlG))
	collectMsgs(cmd)

	if m.mode != uiModeAuth {
		t.Fatal("expected the login form after logout")
	}
	if tok, _ := creds.Token(context.Background()); tok != "" {
		t.Fatal("expected the stored token cleared")
	}
	if api.callCount("ClearToken") == 0 {
		t.Fatal("expected the client token cleared")
	}
}

func TestRejectedListCallDoesNotForceLogout(t *testing.T) {
	api := &stubAPI{}
	m, creds := newTestModel(t, api)
	signIn(t, m, api)
	creds.SetToken(context.Background(), "tok-1")

	denied := &client.APIError{StatusCode: http.StatusUnauthorized, Detail: "Not authenticated"}
	m.handleAsync(documentsMsg{err: denied})

	if m.mode != uiModeChat {
		t.Fatal("a rejected list call must not sign the user out")
	}
	if m.token == "" {
		t.Fatal("expected the session token kept")
	}
	if tok, _ := creds.Token(context.Background()); tok != "tok-1" {
		t.Fatalf("expected the stored token kept, got %q", tok)
	}
	if !strings.Contains(m.status, "Not authenticated") || !strings.Contains(m.status, "expired") {
		t.Fatalf("expected a status hint instead of a logout, got %q", m.status)
	}
}
