// Package auth implements the gateway's authentication endpoints. Login
// exchanges credentials with the document backend for a bearer token and
// wraps it, together with the user's identity and role, into the encrypted
// session cookie. The gateway itself stores nothing.
package auth

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"floragate/internal/proxy"
	"floragate/internal/session"

	"github.com/gin-gonic/gin"
)

// Handler handles authentication-related HTTP requests
type Handler struct {
	client        *proxy.Client
	codec         *session.Codec
	secureCookies bool
}

// NewHandler creates a new authentication handler. secureCookies should be
// true in production so the session cookie is HTTPS-only.
func NewHandler(client *proxy.Client, codec *session.Codec, secureCookies bool) *Handler {
	return &Handler{
		client:        client,
		codec:         codec,
		secureCookies: secureCookies,
	}
}

// Login handles POST /auth/login. On backend success it establishes the
// session cookie and relays the user profile; backend failures are relayed
// with the backend's status and a {message} body.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	resp, err := h.client.JSON(c.Request.Context(), http.MethodPost, "/auth/login", "", req)
	if err != nil {
		proxy.RelayError(c, err)
		return
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"message": "failed to read backend response"})
		return
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.JSON(resp.StatusCode, gin.H{"message": proxy.ErrorMessage(body, resp.StatusCode)})
		return
	}

	var authResp backendAuthResponse
	if err := json.Unmarshal(body, &authResp); err != nil || authResp.AccessToken == "" {
		slog.Warn("Malformed login response from backend", "error", errString(err))
		c.JSON(http.StatusBadGateway, gin.H{"message": "malformed backend response"})
		return
	}

	var user backendUser
	if err := json.Unmarshal(authResp.User, &user); err != nil || user.ID.String() == "" {
		slog.Warn("Malformed user profile in login response", "error", errString(err))
		c.JSON(http.StatusBadGateway, gin.H{"message": "malformed backend response"})
		return
	}

	role := user.Role
	if role == "" {
		role = session.RoleUser
	}

	value, err := h.codec.Encode(session.Session{
		SubjectID: user.ID.String(),
		Email:     user.Email,
		Role:      role,
		Token:     authResp.AccessToken,
	})
	if err != nil {
		slog.Error("Failed to encode session", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to create session"})
		return
	}

	maxAge := int(h.codec.MaxAge().Seconds())
	c.SetCookie(session.CookieName, value, maxAge, "/", "", h.secureCookies, true)

	// Relay the backend status and profile unchanged; the bearer token
	// stays inside the cookie.
	c.JSON(resp.StatusCode, gin.H{"user": authResp.User})
}

// Signup handles POST /auth/signup. Pure passthrough; no session is
// established until the user logs in.
func (h *Handler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	resp, err := h.client.JSON(c.Request.Context(), http.MethodPost, "/auth/signup", "", req)
	if err != nil {
		proxy.RelayError(c, err)
		return
	}
	proxy.Relay(c, resp)
}

// Logout handles POST /auth/logout. Sessions live only in the cookie, so
// clearing it is the whole logout.
func (h *Handler) Logout(c *gin.Context) {
	c.SetCookie(session.CookieName, "", -1, "/", "", h.secureCookies, true)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Me handles GET /auth/me, echoing the decoded session identity. The
// bearer token is never included.
func (h *Handler) Me(c *gin.Context) {
	value, exists := c.Get(session.ContextKey)
	sess, ok := value.(*session.Session)
	if !exists || !ok || sess == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": sess})
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
