package api

import (
	"net/http"
	"strings"

	"onlinemart-be/internal/apperr"
	"onlinemart-be/internal/auth"
	"onlinemart-be/internal/httputil"
	"onlinemart-be/internal/user"
)

type AuthHandler struct {
	users  user.Service
	tokens *auth.TokenService
}

func NewAuthHandler(users user.Service, tokens *auth.TokenService) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail"`
	Password        string `json:"password"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeBody(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	var details []string
	if strings.TrimSpace(req.Username) == "" {
		details = append(details, "username: must not be blank")
	}
	if !strings.Contains(req.Email, "@") {
		details = append(details, "email: must be a valid email address")
	}
	if len(req.Password) < 8 {
		details = append(details, "password: must be at least 8 characters")
	}
	if len(details) > 0 {
		httputil.WriteError(w, apperr.Validation("Validation failed", details))
		return
	}

	u, err := h.users.RegisterBuyer(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.respondWithToken(w, u, http.StatusCreated)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	if req.UsernameOrEmail == "" || req.Password == "" {
		httputil.WriteError(w, apperr.Validation("Validation failed",
			[]string{"usernameOrEmail and password are required"}))
		return
	}

	u, err := h.users.Authenticate(r.Context(), req.UsernameOrEmail, req.Password)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.respondWithToken(w, u, http.StatusOK)
}

func (h *AuthHandler) respondWithToken(w http.ResponseWriter, u user.User, status int) {
	token, err := h.tokens.Issue(u.ID, u.Username, string(u.Role))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, status, authResponse{
		Token:    token,
		Role:     string(u.Role),
		Username: u.Username,
		UserID:   u.ID,
	})
}
