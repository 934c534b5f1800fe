package app

import (
	"context"
	"io"

	"ragchat/internal/client"
	"ragchat/internal/types"
)

type AuthAPI interface {
	Signup(ctx context.Context, req client.SignupRequest) error
	Login(ctx context.Context, email, password string) (string, error)
	CurrentUser(ctx context.Context) (*types.User, error)
	SetToken(token string)
	ClearToken()
}

type DocumentAPI interface {
	ListDocuments(ctx context.Context) ([]*types.Document, error)
	UploadPDF(ctx context.Context, filename string, contents io.Reader) (*client.UploadPDFResponse, error)
	UploadURLs(ctx context.Context, urls []string) (*client.UploadURLsResponse, error)
	DeleteDocument(ctx context.Context, id int) error
}

type ChatAPI interface {
	ListSessions(ctx context.Context) ([]*types.ChatSession, error)
	History(ctx context.Context, sessionID int) (*client.HistoryResponse, error)
	Query(ctx context.Context, req client.QueryRequest) (*client.QueryResponse, error)
	DeleteSession(ctx context.Context, id int) error
}

type ClientAPI struct {
	client *client.Client
}

func NewClientAPI(client *client.Client) *ClientAPI {
	return &ClientAPI{client: client}
}

func (a *ClientAPI) Signup(ctx context.Context, req client.SignupRequest) error {
	return a.client.Signup(ctx, req)
}

func (a *ClientAPI) Login(ctx context.Context, email, password string) (string, error) {
	return a.client.Login(ctx, email, password)
}

func (a *ClientAPI) CurrentUser(ctx context.Context) (*types.User, error) {
	return a.client.CurrentUser(ctx)
}

func (a *ClientAPI) SetToken(token string) {
	a.client.SetToken(token)
}

func (a *ClientAPI) ClearToken() {
	a.client.ClearToken()
}

func (a *ClientAPI) ListDocuments(ctx context.Context) ([]*types.Document, error) {
	return a.client.ListDocuments(ctx)
}

func (a *ClientAPI) UploadPDF(ctx context.Context, filename string, contents io.Reader) (*client.UploadPDFResponse, error) {
	return a.client.UploadPDF(ctx, filename, contents)
}

func (a *ClientAPI) UploadURLs(ctx context.Context, urls []string) (*client.UploadURLsResponse, error) {
	return a.client.UploadURLs(ctx, urls)
}

func (a *ClientAPI) DeleteDocument(ctx context.Context, id int) error {
	return a.client.DeleteDocument(ctx, id)
}

func (a *ClientAPI) ListSessions(ctx context.Context) ([]*types.ChatSession, error) {
	return a.client.ListSessions(ctx)
}

func (a *ClientAPI) History(ctx context.Context, sessionID int) (*client.HistoryResponse, error) {
	return a.client.History(ctx, sessionID)
}

func (a *ClientAPI) Query(ctx context.Context, req client.QueryRequest) (*client.QueryResponse, error) {
	return a.client.Query(ctx, req)
}

func (a *ClientAPI) DeleteSession(ctx context.Context, id int) error {
	return a.client.DeleteSession(ctx, id)
}
