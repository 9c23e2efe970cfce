package handlers

import (
	"encoding/json"
	"net/http"
	"time"
)

const sessionCookie = "ibg_session"

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login checks the supplied credentials against the configured admin
// identity and issues a session cookie on success. The error never
// reveals which field was wrong.
func (h *DashboardHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	if !h.creds.Verify(req.Username, req.Password) {
		h.log.WithField("username", req.Username).Warn("Login rejected")
		writeError(w, http.StatusUnauthorized, "Invalid credentials", nil)
		return
	}

	sess := h.sessions.Create(req.Username)
	h.setSessionCookie(w, r, sess.Token, sess.ExpiresAt)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user": map[string]interface{}{
			"username":  sess.Username,
			"loginTime": sess.LoginTime,
		},
	})
}

// CheckAuth is a pure read of the caller's session state.
func (h *DashboardHandler) CheckAuth(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.sessionFromRequest(r)
	if !ok {
		writeJSON(w, http.StatusOK, map[string]interface{}{"isLoggedIn": false})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"isLoggedIn": true,
		"username":   sess.Username,
		"loginTime":  sess.LoginTime,
	})
}

// Logout destroys the caller's session unconditionally. Logging out
// twice is not an error.
func (h *DashboardHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		if token, ok := h.sessions.VerifyCookie(cookie.Value); ok {
			h.sessions.Destroy(token)
		}
	}
	h.clearSessionCookie(w, r)
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func (h *DashboardHandler) sessionFromRequest(r *http.Request) (sess *sessionState, ok bool) {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return nil, false
	}
	token, ok := h.sessions.VerifyCookie(cookie.Value)
	if !ok {
		return nil, false
	}
	s, ok := h.sessions.Get(token)
	if !ok {
		return nil, false
	}
	return &sessionState{Username: s.Username, LoginTime: s.LoginTime}, true
}

type sessionState struct {
	Username  string
	LoginTime time.Time
}

func (h *DashboardHandler) setSessionCookie(w http.ResponseWriter, r *http.Request, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    h.sessions.SignToken(token),
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *DashboardHandler) clearSessionCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}
