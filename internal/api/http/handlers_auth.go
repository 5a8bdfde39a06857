package http

import (
	"net/http"

	"github.com/claritas-learn/claritas-backend/internal/auth"
)

// POST /auth/signup  {email, password, displayName}
func SignupHandler(users *auth.UserStore, svc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email       string `json:"email"`
			Password    string `json:"password"`
			DisplayName string `json:"displayName"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.Email == "" || len(req.Password) < 8 {
			validationError(w, "email and a password of at least 8 characters are required")
			return
		}
		u, err := users.Create(r.Context(), req.Email, req.Password, req.DisplayName)
		if err != nil {
			writeError(w, err)
			return
		}
		tok, err := svc.IssueJWT(u.ID, u.Email, u.DisplayName)
		if err != nil {
			writeError(w, err)
			return
		}
		svc.SetCookie(w, tok)
		writeJSON(w, http.StatusCreated, map[string]any{"user": u, "access_token": tok})
	}
}

// POST /auth/login  {email, password}
func LoginHandler(users *auth.UserStore, svc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		u, err := users.Authenticate(r.Context(), req.Email, req.Password)
		if err != nil {
			writeError(w, err)
			return
		}
		tok, err := svc.IssueJWT(u.ID, u.Email, u.DisplayName)
		if err != nil {
			writeError(w, err)
			return
		}
		svc.SetCookie(w, tok)
		writeJSON(w, http.StatusOK, map[string]any{"user": u, "access_token": tok})
	}
}

// POST /auth/logout
func LogoutHandler(svc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc.ClearCookie(w)
		writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
	}
}

// GET /auth/me
func MeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := auth.FromContext(r.Context())
		if c == nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"id":    c.Subject,
			"email": c.Email,
			"name":  c.Name,
		})
	}
}
