package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/example/herbal-backoffice/internal/api/middleware"
	"github.com/example/herbal-backoffice/internal/auth"
	"github.com/example/herbal-backoffice/internal/command"
	"github.com/example/herbal-backoffice/internal/domain/employee"
	"github.com/example/herbal-backoffice/internal/session"
	"github.com/google/uuid"
)

const (
	refreshTokenCookie = "refresh_token"
	sessionCookie      = "session_id"
	refreshPath        = "/api/auth/refresh"
)

// AuthHandlers handles authentication-related HTTP requests
type AuthHandlers struct {
	cmdHandler *command.Handler
	jwtService *auth.JWTService
	sessions   session.Store
}

// NewAuthHandlers creates a new AuthHandlers instance
func NewAuthHandlers(cmdHandler *command.Handler, jwtService *auth.JWTService, sessions session.Store) *AuthHandlers {
	return &AuthHandlers{
		cmdHandler: cmdHandler,
		jwtService: jwtService,
		sessions:   sessions,
	}
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse represents the authentication response. The access token is
// also set as a cookie; API clients send it back as a Bearer token.
type AuthResponse struct {
	User        *employee.Employee `json:"user"`
	AccessToken string             `json:"access_token,omitempty"`
	ExpiresAt   *time.Time         `json:"expires_at,omitempty"`
	Message     string             `json:"message,omitempty"`
}

// Login handles employee login
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	e, err := h.cmdHandler.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, employee.ErrInvalidCredentials):
			respondJSONError(w, "Invalid email or password", http.StatusUnauthorized)
		case errors.Is(err, employee.ErrEmployeeInactive):
			respondJSONError(w, "Account is inactive", http.StatusForbidden)
		default:
			respondError(w, err)
		}
		return
	}

	accessToken, expiresAt, sessionID, err := h.setAuthCookies(w, r, e)
	if err != nil {
		respondError(w, err)
		return
	}

	// Best-effort: a failed audit event does not fail the login
	if err := h.cmdHandler.RecordLogin(r.Context(), e.ID, sessionID, r.RemoteAddr, r.UserAgent()); err != nil {
		log.Printf("[API] Failed to record login for %s: %v", e.ID, err)
	}

	respondJSON(w, http.StatusOK, AuthResponse{
		User:        employeeResponse(e),
		AccessToken: accessToken,
		ExpiresAt:   &expiresAt,
		Message:     "Login successful",
	})
}

// Logout drops every session of the employee. It works with an expired
// access token as long as the session cookie is still present.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sessionID := ""
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		sessionID = cookie.Value
	}

	if employeeID := h.logoutSubject(ctx, r, sessionID); employeeID != "" {
		if err := h.sessions.DeleteByEmployee(ctx, employeeID); err != nil {
			log.Printf("[API] Failed to delete sessions for %s: %v", employeeID, err)
		}
		_ = h.cmdHandler.RecordLogout(ctx, employeeID, sessionID)
	}

	h.clearAuthCookies(w)
	respondMessage(w, "Logout successful")
}

func (h *AuthHandlers) logoutSubject(ctx context.Context, r *http.Request, sessionID string) string {
	if token := middleware.ExtractToken(r); token != "" {
		if claims, err := h.jwtService.ValidateAccessToken(token); err == nil {
			return claims.UserID
		}
	}
	if sessionID == "" {
		return ""
	}
	s, err := h.sessions.Get(ctx, sessionID)
	if err != nil {
		return ""
	}
	return s.EmployeeID
}

// Refresh rotates the refresh token and its session
func (h *AuthHandlers) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	refreshCookie, err := r.Cookie(refreshTokenCookie)
	if err != nil {
		respondJSONError(w, "No refresh token", http.StatusUnauthorized)
		return
	}

	sessCookie, err := r.Cookie(sessionCookie)
	if err != nil {
		h.clearAuthCookies(w)
		respondJSONError(w, "No session", http.StatusUnauthorized)
		return
	}

	employeeID, err := h.jwtService.ValidateRefreshToken(refreshCookie.Value)
	if err != nil {
		h.clearAuthCookies(w)
		respondJSONError(w, "Invalid refresh token", http.StatusUnauthorized)
		return
	}

	sess, err := h.sessions.Get(ctx, sessCookie.Value)
	if err != nil {
		h.clearAuthCookies(w)
		if errors.Is(err, session.ErrSessionNotFound) {
			respondJSONError(w, "Session not found", http.StatusUnauthorized)
			return
		}
		respondError(w, err)
		return
	}

	if sess.EmployeeID != employeeID || session.HashToken(refreshCookie.Value) != sess.RefreshTokenHash {
		h.clearAuthCookies(w)
		respondJSONError(w, "Invalid refresh token", http.StatusUnauthorized)
		return
	}

	e, err := h.cmdHandler.Employee(ctx, employeeID)
	if err != nil {
		h.clearAuthCookies(w)
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			respondJSONError(w, "Employee not found", http.StatusUnauthorized)
			return
		}
		respondError(w, err)
		return
	}
	if e.Status != employee.StatusActive {
		if err := h.sessions.DeleteByEmployee(ctx, e.ID); err != nil {
			log.Printf("[Auth] Failed to drop sessions of inactive employee %s: %v", e.ID, err)
		}
		h.clearAuthCookies(w)
		respondJSONError(w, "Account is inactive", http.StatusForbidden)
		return
	}

	// the old refresh token must stop working before a new one is issued
	if err := h.sessions.Delete(ctx, sess.ID); err != nil {
		log.Printf("[Auth] Failed to revoke session %s during refresh: %v", sess.ID, err)
		respondJSONError(w, "Failed to refresh session", http.StatusInternalServerError)
		return
	}

	accessToken, expiresAt, _, err := h.setAuthCookies(w, r, e)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, AuthResponse{
		AccessToken: accessToken,
		ExpiresAt:   &expiresAt,
		Message:     "Token refreshed",
	})
}

// Me returns the signed-in employee
func (h *AuthHandlers) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		respondJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	e, err := h.cmdHandler.Employee(r.Context(), claims.UserID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, employeeResponse(e))
}

// Helper methods

// setAuthCookies issues a token pair, stores a session holding the hash of
// the refresh token and sets the three auth cookies.
func (h *AuthHandlers) setAuthCookies(w http.ResponseWriter, r *http.Request, e *employee.Employee) (string, time.Time, string, error) {
	accessToken, accessExpiry, err := h.jwtService.GenerateAccessToken(e.ID, e.Email, e.Role, e.Permissions)
	if err != nil {
		return "", time.Time{}, "", err
	}

	refreshToken, refreshExpiry, err := h.jwtService.GenerateRefreshToken(e.ID)
	if err != nil {
		return "", time.Time{}, "", err
	}

	sessionID := uuid.New().String()
	err = h.sessions.Save(r.Context(), &session.Session{
		ID:               sessionID,
		EmployeeID:       e.ID,
		RefreshTokenHash: session.HashToken(refreshToken),
		ExpiresAt:        refreshExpiry,
		CreatedAt:        time.Now(),
		IPAddress:        r.RemoteAddr,
		UserAgent:        r.UserAgent(),
	})
	if err != nil {
		return "", time.Time{}, "", err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    accessToken,
		Path:     "/",
		Expires:  accessExpiry,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
	})

	http.SetCookie(w, &http.Cookie{
		Name:     refreshTokenCookie,
		Value:    refreshToken,
		Path:     refreshPath,
		Expires:  refreshExpiry,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
	})

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sessionID,
		Path:     "/",
		Expires:  refreshExpiry,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
	})

	return accessToken, accessExpiry, sessionID, nil
}

func (h *AuthHandlers) clearAuthCookies(w http.ResponseWriter) {
	for _, c := range []struct{ name, path string }{
		{middleware.AccessTokenCookie, "/"},
		{refreshTokenCookie, refreshPath},
		{sessionCookie, "/"},
	} {
		http.SetCookie(w, &http.Cookie{
			Name:     c.name,
			Value:    "",
			Path:     c.path,
			MaxAge:   -1,
			HttpOnly: true,
		})
	}
}
