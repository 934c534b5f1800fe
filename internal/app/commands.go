package app

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"ragchat/internal/client"
	"ragchat/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

// queryTimeout is long because answer generation waits on the language model.
const (
	requestTimeout = 10 * time.Second
	uploadTimeout  = 120 * time.Second
	queryTimeout   = 120 * time.Second
	storeTimeout   = 2 * time.Second
)

func loadCredentialsCmd(creds store.CredentialStore) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		token, err := creds.Token(ctx)
		if err != nil {
			return credentialsLoadedMsg{err: err}
		}
		apiKey, err := creds.APIKey(ctx)
		if err != nil {
			return credentialsLoadedMsg{err: err}
		}
		return credentialsLoadedMsg{token: token, apiKey: apiKey}
	}
}

func saveTokenCmd(creds store.CredentialStore, token string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		return tokenSavedMsg{err: creds.SetToken(ctx, token)}
	}
}

func saveAPIKeyCmd(creds store.CredentialStore, apiKey string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		return apiKeySavedMsg{err: creds.SetAPIKey(ctx, apiKey)}
	}
}

func clearCredentialsCmd(creds store.CredentialStore) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		return loggedOutMsg{err: creds.Clear(ctx)}
	}
}

func loginCmd(api AuthAPI, email, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		token, err := api.Login(ctx, email, password)
		return loginMsg{token: token, err: err}
	}
}

func signupCmd(api AuthAPI, req client.SignupRequest) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		err := api.Signup(ctx, req)
		return signupMsg{email: req.Email, err: err}
	}
}

func currentUserCmd(api AuthAPI) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		user, err := api.CurrentUser(ctx)
		return currentUserMsg{user: user, err: err}
	}
}

func fetchDocumentsCmd(api DocumentAPI) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		documents, err := api.ListDocuments(ctx)
		return documentsMsg{documents: documents, err: err}
	}
}

func uploadPDFCmd(api DocumentAPI, path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return pdfUploadedMsg{filename: filepath.Base(path), err: err}
		}
		defer f.Close()
		ctx, cancel := context.WithTimeout(context.Background(), uploadTimeout)
		defer cancel()
		resp, err := api.UploadPDF(ctx, filepath.Base(path), f)
		if err != nil {
			return pdfUploadedMsg{filename: filepath.Base(path), err: err}
		}
		return pdfUploadedMsg{filename: resp.Filename, chunks: resp.Chunks}
	}
}

func uploadURLsCmd(api DocumentAPI, urls []string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), uploadTimeout)
		defer cancel()
		resp, err := api.UploadURLs(ctx, urls)
		if err != nil {
			return urlsUploadedMsg{err: err}
		}
		return urlsUploadedMsg{results: resp.Results}
	}
}

func deleteDocumentCmd(api DocumentAPI, id int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return documentDeletedMsg{id: id, err: api.DeleteDocument(ctx, id)}
	}
}

func fetchSessionsCmd(api ChatAPI) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		sessions, err := api.ListSessions(ctx)
		return sessionsMsg{sessions: sessions, err: err}
	}
}

func fetchHistoryCmd(api ChatAPI, sessionID int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		resp, err := api.History(ctx, sessionID)
		if err != nil {
			return historyMsg{sessionID: sessionID, err: err}
		}
		return historyMsg{sessionID: resp.SessionID, messages: resp.Messages}
	}
}

func queryCmd(api ChatAPI, question string, sessionID *int, apiKey string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
		defer cancel()
		resp, err := api.Query(ctx, client.QueryRequest{
			Question:   question,
			SessionID:  sessionID,
			GroqAPIKey: apiKey,
		})
		if err != nil {
			return queryMsg{err: err}
		}
		return queryMsg{answer: resp.Answer, sessionID: resp.SessionID, citations: resp.Citations}
	}
}

func deleteSessionCmd(api ChatAPI, id int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return sessionDeletedMsg{id: id, err: api.DeleteSession(ctx, id)}
	}
}
