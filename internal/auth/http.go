package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// HTTPHandler exposes the account API. Register and login mint a
// session token; /api/auth/session reads the current identity with GET
// and revokes the token with DELETE.
type HTTPHandler struct {
	service Service
}

func NewHTTPHandler(service Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

func (h *HTTPHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/auth/register", h.credentialHandler(h.service.Register))
	mux.HandleFunc("/api/auth/login", h.credentialHandler(h.service.Login))
	mux.HandleFunc("/api/auth/session", h.handleSession)
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type sessionResponse struct {
	AccountID    string `json:"account_id"`
	Username     string `json:"username,omitempty"`
	SessionToken string `json:"session_token,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// credentialHandler serves register and login, which differ only in
// the service call that mints the session.
func (h *HTTPHandler) credentialHandler(mint func(username, password string) (string, string, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		var creds credentials
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&creds); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		accountID, token, err := mint(creds.Username, creds.Password)
		if err != nil {
			writeError(w, statusFor(err), publicMessage(err))
			return
		}
		writeJSON(w, http.StatusOK, sessionResponse{
			AccountID:    accountID,
			SessionToken: token,
		})
	}
}

func (h *HTTPHandler) handleSession(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r.Header.Get("Authorization"))
	if token == "" {
		writeError(w, http.StatusUnauthorized, "missing session token")
		return
	}

	switch r.Method {
	case http.MethodGet:
		accountID, username, ok := h.service.ResolveSession(token)
		if !ok {
			writeError(w, http.StatusUnauthorized, "invalid session token")
			return
		}
		writeJSON(w, http.StatusOK, sessionResponse{
			AccountID: accountID,
			Username:  username,
		})
	case http.MethodDelete:
		h.service.Logout(token)
		w.WriteHeader(http.StatusNoContent)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrInvalidUsername), errors.Is(err, ErrInvalidPassword):
		return http.StatusBadRequest
	case errors.Is(err, ErrUsernameTaken):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage hides backend failures behind a generic line; the
// validation errors are safe to echo as-is.
func publicMessage(err error) string {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return "invalid username or password"
	case errors.Is(err, ErrInvalidUsername),
		errors.Is(err, ErrInvalidPassword),
		errors.Is(err, ErrUsernameTaken):
		return err.Error()
	default:
		return "authentication backend failure"
	}
}

func bearerToken(raw string) string {
	if !strings.HasPrefix(raw, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(raw, "Bearer "))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
