package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"ragchat/internal/app"
	"ragchat/internal/client"
	"ragchat/internal/config"
	"ragchat/internal/logging"
	"ragchat/internal/store"
	"ragchat/internal/types"
)

type clientFactory func() (commandClient, error)

type commandClient interface {
	Signup(ctx context.Context, req client.SignupRequest) error
	Login(ctx context.Context, email, password string) (string, error)
	Authenticated() bool
	CurrentUser(ctx context.Context) (*types.User, error)
	ListDocuments(ctx context.Context) ([]*types.Document, error)
	UploadPDF(ctx context.Context, filename string, contents io.Reader) (*client.UploadPDFResponse, error)
	UploadURLs(ctx context.Context, urls []string) (*client.UploadURLsResponse, error)
	DeleteDocument(ctx context.Context, id int) error
	ListSessions(ctx context.Context) ([]*types.ChatSession, error)
	DeleteSession(ctx context.Context, id int) error
	SaveToken(ctx context.Context, token string) error
	ClearCredentials(ctx context.Context) error
	RunUI() error
	Close() error
}

type ragchatClientAdapter struct {
	client   *client.Client
	creds    store.CredentialStore
	logger   logging.Logger
	markdown bool
}

func newRagchatClient() (commandClient, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	credsPath, err := config.CredentialsPath()
	if err != nil {
		return nil, err
	}
	creds, err := store.NewBboltCredentialStore(credsPath)
	if err != nil {
		return nil, fmt.Errorf("open credential store: %w", err)
	}
	token, err := creds.Token(context.Background())
	if err != nil {
		creds.Close()
		return nil, err
	}
	logger := logging.New(os.Stderr, logging.ParseLevel(cfg.LogLevel()))
	c := client.New(cfg.BaseURL(), token).WithLogger(logger)
	return &ragchatClientAdapter{
		client:   c,
		creds:    creds,
		logger:   logger,
		markdown: cfg.MarkdownEnabled(),
	}, nil
}

func (a *ragchatClientAdapter) Signup(ctx context.Context, req client.SignupRequest) error {
	return a.client.Signup(ctx, req)
}

func (a *ragchatClientAdapter) Login(ctx context.Context, email, password string) (string, error) {
	token, err := a.client.Login(ctx, email, password)
	if err != nil {
		return "", err
	}
	a.client.SetToken(token)
	return token, nil
}

func (a *ragchatClientAdapter) Authenticated() bool {
	return a.client.Authenticated()
}

func (a *ragchatClientAdapter) CurrentUser(ctx context.Context) (*types.User, error) {
	return a.client.CurrentUser(ctx)
}

func (a *ragchatClientAdapter) ListDocuments(ctx context.Context) ([]*types.Document, error) {
	return a.client.ListDocuments(ctx)
}

func (a *ragchatClientAdapter) UploadPDF(ctx context.Context, filename string, contents io.Reader) (*client.UploadPDFResponse, error) {
	return a.client.UploadPDF(ctx, filename, contents)
}

func (a *ragchatClientAdapter) UploadURLs(ctx context.Context, urls []string) (*client.UploadURLsResponse, error) {
	return a.client.UploadURLs(ctx, urls)
}

func (a *ragchatClientAdapter) DeleteDocument(ctx context.Context, id int) error {
	return a.client.DeleteDocument(ctx, id)
}

func (a *ragchatClientAdapter) ListSessions(ctx context.Context) ([]*types.ChatSession, error) {
	return a.client.ListSessions(ctx)
}

func (a *ragchatClientAdapter) DeleteSession(ctx context.Context, id int) error {
	return a.client.DeleteSession(ctx, id)
}

func (a *ragchatClientAdapter) SaveToken(ctx context.Context, token string) error {
	return a.creds.SetToken(ctx, token)
}

func (a *ragchatClientAdapter) ClearCredentials(ctx context.Context) error {
	return a.creds.Clear(ctx)
}

func (a *ragchatClientAdapter) RunUI() error {
	logger := a.logger
	if path, err := config.UILogPath(); err == nil {
		if f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600); err == nil {
			// the terminal belongs to the UI while it runs
			logger = logging.New(f, logging.Debug)
			defer f.Close()
		}
	}
	return app.Run(a.client.WithLogger(logger), a.creds, logger, a.markdown)
}

func (a *ragchatClientAdapter) Close() error {
	return a.creds.Close()
}
