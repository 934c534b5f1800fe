package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"ragchat/internal/logging"
	"ragchat/internal/types"
)

const defaultBaseURL = "http://127.0.0.1:8000"

// ErrNotAuthenticated is returned when a protected endpoint is called without
// a stored bearer token. No request is issued in that case.
var ErrNotAuthenticated = errors.New("not logged in")

type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  logging.Logger
}

func New(baseURL, token string) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		// deadlines come from the per-call contexts; a client-wide cap
		// would cut off long indexing and answer-generation requests
		http:   &http.Client{},
		logger: logging.Nop(),
	}
}

func (c *Client) WithLogger(logger logging.Logger) *Client {
	if logger == nil {
		logger = logging.Nop()
	}
	c.logger = logger
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) SetToken(token string) {
	c.token = strings.TrimSpace(token)
}

func (c *Client) ClearToken() {
	c.token = ""
}

func (c *Client) Authenticated() bool {
	return c.token != ""
}

func (c *Client) Signup(ctx context.Context, req SignupRequest) error {
	return c.doJSON(ctx, http.MethodPost, "/api/auth/signup", req, false, nil)
}

func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var resp LoginResponse
	req := LoginRequest{Email: email, Password: password}
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", req, false, &resp); err != nil {
		return "", err
	}
	if strings.TrimSpace(resp.AccessToken) == "" {
		return "", errors.New("login response carried no access token")
	}
	return resp.AccessToken, nil
}

func (c *Client) CurrentUser(ctx context.Context) (*types.User, error) {
	var user types.User
	if err := c.doJSON(ctx, http.MethodGet, "/api/auth/me", nil, true, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) ListDocuments(ctx context.Context) ([]*types.Document, error) {
	var resp DocumentsResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/documents/list", nil, true, &resp); err != nil {
		return nil, err
	}
	return resp.Documents, nil
}

// UploadPDF streams a PDF as a multipart body under the field name "file".
// The backend rejects anything that is not a .pdf, so the extension is
// checked here before any bytes move.
func (c *Client) UploadPDF(ctx context.Context, filename string, contents io.Reader) (*UploadPDFResponse, error) {
	if !strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return nil, fmt.Errorf("only PDF files can be uploaded: %s", filename)
	}
	if err := c.ensureToken(); err != nil {
		return nil, err
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, contents); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/documents/upload-pdf", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.token)

	var resp UploadPDFResponse
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) UploadURLs(ctx context.Context, urls []string) (*UploadURLsResponse, error) {
	if len(urls) == 0 {
		return nil, errors.New("at least one url is required")
	}
	var resp UploadURLsResponse
	req := UploadURLsRequest{URLs: urls}
	if err := c.doJSON(ctx, http.MethodPost, "/api/documents/upload-urls", req, true, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) DeleteDocument(ctx context.Context, id int) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/api/documents/%d", id), nil, true, nil)
}

func (c *Client) ListSessions(ctx context.Context) ([]*types.ChatSession, error) {
	var resp SessionsResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/chat/sessions", nil, true, &resp); err != nil {
		return nil, err
	}
	return resp.Sessions, nil
}

func (c *Client) History(ctx context.Context, sessionID int) (*HistoryResponse, error) {
	var resp HistoryResponse
	path := fmt.Sprintf("/api/chat/history/%d", sessionID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, true, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Query(ctx context.Context, req QueryRequest) (*QueryResponse, error) {
	if strings.TrimSpace(req.Question) == "" {
		return nil, errors.New("question is required")
	}
	if strings.TrimSpace(req.GroqAPIKey) == "" {
		return nil, errors.New("api key is required")
	}
	var resp QueryResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/chat/query", req, true, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) DeleteSession(ctx context.Context, id int) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/api/chat/sessions/%d", id), nil, true, nil)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body any, requireAuth bool, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if requireAuth {
		if err := c.ensureToken(); err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("request failed",
			logging.F("method", req.Method),
			logging.F("path", req.URL.Path),
			logging.F("err", err))
		return fmt.Errorf("backend unreachable at %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("request",
		logging.F("method", req.Method),
		logging.F("path", req.URL.Path),
		logging.F("status", resp.StatusCode),
		logging.F("duration", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) ensureToken() error {
	if strings.TrimSpace(c.token) == "" {
		return ErrNotAuthenticated
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	type errorPayload struct {
		Detail string `json:"detail"`
	}
	var payload errorPayload
	_ = json.NewDecoder(resp.Body).Decode(&payload)
	if payload.Detail != "" {
		return &APIError{StatusCode: resp.StatusCode, Detail: payload.Detail}
	}
	return &APIError{StatusCode: resp.StatusCode, Detail: resp.Status}
}

// APIError is a non-2xx backend response, carrying the `detail` string when
// the backend provided one.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("api error (%d): %s", e.StatusCode, e.Detail)
}

func AsAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return nil
}

// IsAuthFailure reports whether err is a backend rejection of the bearer
// token or credentials. Only the current-user fetch escalates this to a
// logout; other endpoints report it and leave session state intact.
func IsAuthFailure(err error) bool {
	if apiErr := AsAPIError(err); apiErr != nil {
		return apiErr.StatusCode == http.StatusUnauthorized
	}
	return false
}
