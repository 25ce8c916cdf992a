package gateway

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"floragate/internal/session"

	"github.com/gin-gonic/gin"
)

func newAuthRouter(codec *session.Codec) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(SessionAuthMiddleware(codec))
	r.GET("/protected", func(c *gin.Context) {
		value, _ := c.Get(session.ContextKey)
		sess, ok := value.(*session.Session)
		if !ok || sess == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "session missing from context"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"subject_id": sess.SubjectID,
			"role":       sess.Role,
			"token":      sess.Token,
		})
	})
	return r
}

func TestSessionAuthMiddleware_NoCookie(t *testing.T) {
	codec := newGuardCodec(t)
	r := newAuthRouter(codec)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("Expected status 401, got %d", w.Code)
	}

	var response map[string]string
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if response["message"] != "unauthorized" {
		t.Errorf("Expected message to be unauthorized, got %q", response["message"])
	}
}

func TestSessionAuthMiddleware_InvalidCookie(t *testing.T) {
	codec := newGuardCodec(t)
	r := newAuthRouter(codec)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "tampered-value"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", w.Code)
	}
}

func TestSessionAuthMiddleware_ValidCookie(t *testing.T) {
	codec := newGuardCodec(t)
	r := newAuthRouter(codec)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{
		Name:  session.CookieName,
		Value: encodeSession(t, codec, session.RoleAdmin),
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var response map[string]string
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if response["subject_id"] != "7" {
		t.Errorf("Expected subject_id 7, got %q", response["subject_id"])
	}
	if response["role"] != session.RoleAdmin {
		t.Errorf("Expected admin role, got %q", response["role"])
	}
	if response["token"] != "bearer-token" {
		t.Errorf("Expected token bearer-token, got %q", response["token"])
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/test", func(c *gin.Context) {
		if c.GetString("request_id") == "" {
			t.Error("Expected request_id in context")
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Header().Get("X-Request-ID") == "" {
		t.Error("Expected X-Request-ID response header")
	}
}

func TestLoggingMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(LoggingMiddleware())
	r.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
}
