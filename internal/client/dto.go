package client

import "ragchat/internal/types"

type SignupRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
}

type DocumentsResponse struct {
	Documents []*types.Document `json:"documents"`
}

type UploadPDFResponse struct {
	Status     string `json:"status"`
	DocumentID int    `json:"document_id"`
	Filename   string `json:"filename"`
	Chunks     int    `json:"chunks"`
}

type UploadURLsRequest struct {
	URLs []string `json:"urls"`
}

type URLUploadResult struct {
	URL        string `json:"url"`
	Status     string `json:"status"`
	DocumentID int    `json:"document_id,omitempty"`
	Chunks     int    `json:"chunks,omitempty"`
	Error      string `json:"error,omitempty"`
}

type UploadURLsResponse struct {
	Results []URLUploadResult `json:"results"`
}

type SessionsResponse struct {
	Sessions []*types.ChatSession `json:"sessions"`
}

type HistoryResponse struct {
	SessionID int             `json:"session_id"`
	Messages  []types.Message `json:"messages"`
}

// QueryRequest carries a nil SessionID for a conversation that has not been
// created server-side yet; the backend creates one and returns its id.
type QueryRequest struct {
	Question   string `json:"question"`
	SessionID  *int   `json:"session_id"`
	GroqAPIKey string `json:"groq_api_key"`
}

type QueryResponse struct {
	Answer    string           `json:"answer"`
	SessionID int              `json:"session_id"`
	Citations []types.Citation `json:"citations,omitempty"`
}
