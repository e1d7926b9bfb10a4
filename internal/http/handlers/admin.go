package handlers

import (
	"encoding/json"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"fundflow/internal/domain"
	"fundflow/internal/infra"
	"fundflow/internal/middleware"
	"fundflow/internal/sqlinline"
)

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AdminLogin checks the credentials against the stored bcrypt hash and, on a
// match, issues the signed admin-session cookie. Unknown email and wrong
// password produce the same answer so the endpoint cannot be used to probe
// which admin accounts exist.
func (a *App) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req loginPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Email == "" || req.Password == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "email and password are required")
		return
	}

	row := a.SQL.QueryRow(r.Context(), sqlinline.QSelectAdminByEmail, req.Email)
	var id, email, passwordHash string
	if err := row.Scan(&id, &email, &passwordHash); err != nil {
		if !infra.IsNoRows(err) {
			a.Logger.Error().Err(err).Msg("admin lookup failed")
		}
		a.json(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(req.Password)); err != nil {
		a.json(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
		return
	}

	session := domain.AdminSession{ID: id, Email: email, Admin: true}
	cookie, err := middleware.IssueSessionCookie(a.Cfg.SessionSecret, session, a.Cfg.IsProduction())
	if err != nil {
		a.Logger.Error().Err(err).Msg("issue session cookie failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to create session")
		return
	}
	http.SetCookie(w, cookie)
	a.json(w, http.StatusOK, session)
}

func (a *App) AdminLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, middleware.ClearSessionCookie())
	w.WriteHeader(http.StatusNoContent)
}

// AdminMe echoes the session the gate middleware attached to the request.
func (a *App) AdminMe(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())
	if session == nil {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}
	a.json(w, http.StatusOK, session)
}
