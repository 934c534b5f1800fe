package app

import (
	"ragchat/internal/client"
	"ragchat/internal/types"
)

type credentialsLoadedMsg struct {
	token  string
	apiKey string
	err    error
}

type loginMsg struct {
	token string
	err   error
}

type signupMsg struct {
	email string
	err   error
}

type currentUserMsg struct {
	user *types.User
	err  error
}

type loggedOutMsg struct {
	err error
}

type documentsMsg struct {
	documents []*types.Document
	err       error
}

type pdfUploadedMsg struct {
	filename string
	chunks   int
	err      error
}

type urlsUploadedMsg struct {
	results []client.URLUploadResult
	err     error
}

type documentDeletedMsg struct {
	id  int
	err error
}

type sessionsMsg struct {
	sessions []*types.ChatSession
	err      error
}

type historyMsg struct {
	sessionID int
	messages  []types.Message
	err       error
}

type queryMsg struct {
	answer    string
	sessionID int
	citations []types.Citation
	err       error
}

type sessionDeletedMsg struct {
	id  int
	err error
}

type tokenSavedMsg struct {
	err error
}

type apiKeySavedMsg struct {
	err error
}
