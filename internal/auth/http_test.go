package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	NewHTTPHandler(NewManager()).RegisterRoutes(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func postCredentials(t *testing.T, srv *httptest.Server, path, username, password string) (*http.Response, sessionResponse) {
	t.Helper()
	body := `{"username":"` + username + `","password":"` + password + `"}`
	resp, err := http.Post(srv.URL+path, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	defer resp.Body.Close()
	var out sessionResponse
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func sessionRequest(t *testing.T, srv *httptest.Server, method, token string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+"/api/auth/session", nil)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s /api/auth/session: %v", method, err)
	}
	return resp
}

func TestRegisterThenSessionLifecycle(t *testing.T) {
	srv := newTestServer(t)

	resp, minted := postCredentials(t, srv, "/api/auth/register", "alice", "secret123")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("register status = %d, want 200", resp.StatusCode)
	}
	if minted.AccountID == "" || minted.SessionToken == "" {
		t.Fatalf("register must mint an account and a token: %+v", minted)
	}

	resp = sessionRequest(t, srv, http.MethodGet, minted.SessionToken)
	var who sessionResponse
	_ = json.NewDecoder(resp.Body).Decode(&who)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("session lookup status = %d, want 200", resp.StatusCode)
	}
	if who.AccountID != minted.AccountID || who.Username != "alice" {
		t.Fatalf("session lookup = %+v, want account %s / alice", who, minted.AccountID)
	}
	if who.SessionToken != "" {
		t.Fatalf("session lookup must not echo the token")
	}

	resp = sessionRequest(t, srv, http.MethodDelete, minted.SessionToken)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("logout status = %d, want 204", resp.StatusCode)
	}

	resp = sessionRequest(t, srv, http.MethodGet, minted.SessionToken)
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("revoked token status = %d, want 401", resp.StatusCode)
	}
}

func TestCredentialEndpointErrorMapping(t *testing.T) {
	srv := newTestServer(t)

	if resp, _ := postCredentials(t, srv, "/api/auth/register", "bob", "secret123"); resp.StatusCode != http.StatusOK {
		t.Fatalf("register status = %d, want 200", resp.StatusCode)
	}

	cases := []struct {
		name     string
		path     string
		username string
		password string
		want     int
	}{
		{"duplicate username", "/api/auth/register", "bob", "secret123", http.StatusConflict},
		{"bad username", "/api/auth/register", "x", "secret123", http.StatusBadRequest},
		{"short password", "/api/auth/register", "carol", "abc", http.StatusBadRequest},
		{"wrong password", "/api/auth/login", "bob", "wrong-password", http.StatusUnauthorized},
		{"unknown account", "/api/auth/login", "nobody", "secret123", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		resp, _ := postCredentials(t, srv, tc.path, tc.username, tc.password)
		if resp.StatusCode != tc.want {
			t.Fatalf("%s: status = %d, want %d", tc.name, resp.StatusCode, tc.want)
		}
	}
}

func TestSessionRequiresBearerToken(t *testing.T) {
	srv := newTestServer(t)

	resp := sessionRequest(t, srv, http.MethodGet, "")
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("missing token status = %d, want 401", resp.StatusCode)
	}

	resp, err := http.Post(srv.URL+"/api/auth/session", "application/json", nil)
	if err != nil {
		t.Fatalf("POST session: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("tokenless POST status = %d, want 401", resp.StatusCode)
	}
}
