package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestClientLoginStoresNothingButReturnsToken(t *testing.T) {
	var seenBody LoginRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/auth/login" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Authorization") != "" {
			t.Fatal("login must not carry a bearer token")
		}
		if err := json.NewDecoder(r.Body).Decode(&seenBody); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok-123","token_type":"bearer"}`))
	}))
	defer server.Close()

	c := New(server.URL, "")
	token, err := c.Login(context.Background(), "a@b.c", "hunter22")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token != "tok-123" {
		t.Fatalf("unexpected token: %q", token)
	}
	if seenBody.Email != "a@b.c" || seenBody.Password != "hunter22" {
		t.Fatalf("unexpected body: %#v", seenBody)
	}
	if c.Authenticated() {
		t.Fatal("Login must not mutate the client token")
	}
}

func TestClientLoginSurfacesDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"Incorrect email or password"}`))
	}))
	defer server.Close()

	c := New(server.URL, "")
	_, err := c.Login(context.Background(), "a@b.c", "wrong")
	apiErr := AsAPIError(err)
	if apiErr == nil {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized || apiErr.Detail != "Incorrect email or password" {
		t.Fatalf("unexpected error: %#v", apiErr)
	}
	if !IsAuthFailure(err) {
		t.Fatal("401 should classify as auth failure")
	}
}

func TestClientSignupSendsAllFields(t *testing.T) {
	var seen SignupRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/signup" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&seen)
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	c := New(server.URL, "")
	err := c.Signup(context.Background(), SignupRequest{Email: "a@b.c", Username: "alice", Password: "longenough"})
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if seen.Username != "alice" || seen.Email != "a@b.c" {
		t.Fatalf("unexpected body: %#v", seen)
	}
}

func TestClientCurrentUserRequiresToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request should reach the backend without a token")
	}))
	defer server.Close()

	c := New(server.URL, "")
	_, err := c.CurrentUser(context.Background())
	if !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestClientCurrentUserCarriesBearer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-9" {
			t.Fatalf("unexpected auth header: %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":7,"email":"a@b.c","username":"alice","is_active":true,"created_at":"2025-01-02T03:04:05"}`))
	}))
	defer server.Close()

	c := New(server.URL, "tok-9")
	user, err := c.CurrentUser(context.Background())
	if err != nil {
		t.Fatalf("CurrentUser: %v", err)
	}
	if user.ID != 7 || user.Username != "alice" {
		t.Fatalf("unexpected user: %#v", user)
	}
}

func TestClientNetworkFailureNamesBackend(t *testing.T) {
	c := New("http://127.0.0.1:1", "tok")
	_, err := c.CurrentUser(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if AsAPIError(err) != nil {
		t.Fatal("network failure should not classify as APIError")
	}
	if want := "backend unreachable at http://127.0.0.1:1"; !strings.Contains(err.Error(), want) {
		t.Fatalf("error should name the backend address: %v", err)
	}
}

func TestClientLeavesDeadlinesToCallers(t *testing.T) {
	c := New("", "")
	if c.http.Timeout != 0 {
		t.Fatalf("a client-wide timeout would undercut long query and indexing calls, got %v", c.http.Timeout)
	}
}
