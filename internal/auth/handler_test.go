package auth

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"floragate/internal/proxy"
	"floragate/internal/session"

	"github.com/gin-gonic/gin"
)

func newAuthTestHandler(t *testing.T, backendURL string) (*Handler, *session.Codec) {
	t.Helper()
	codec, err := session.NewCodec("auth-test-secret", time.Hour)
	if err != nil {
		t.Fatalf("Failed to create codec: %v", err)
	}
	return NewHandler(proxy.NewClient(backendURL), codec, false), codec
}

func newAuthRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.POST("/auth/signup", h.Signup)
	r.POST("/auth/logout", h.Logout)
	return r
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLogin_Success(t *testing.T) {
	var seenBody []byte
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" || r.Method != http.MethodPost {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		seenBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"t1","user":{"id":1,"name":"Ada","email":"a@b.com","role":"user"}}`))
	}))
	defer backend.Close()

	h, codec := newAuthTestHandler(t, backend.URL)
	r := newAuthRouter(h)

	w := postJSON(r, "/auth/login", `{"email":"a@b.com","password":"x"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	// Credentials were forwarded as JSON.
	var forwarded LoginRequest
	if err := json.Unmarshal(seenBody, &forwarded); err != nil {
		t.Fatalf("Backend body was not JSON: %v", err)
	}
	if forwarded.Email != "a@b.com" || forwarded.Password != "x" {
		t.Errorf("Unexpected forwarded credentials: %+v", forwarded)
	}

	// Cookie decodes back to the backend token and subject.
	var sessionValue string
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == session.CookieName {
			sessionValue = cookie.Value
		}
	}
	if sessionValue == "" {
		t.Fatal("Expected session cookie")
	}
	sess, err := codec.Decode(sessionValue)
	if err != nil {
		t.Fatalf("Failed to decode session cookie: %v", err)
	}
	if ses := *sess; ses.Token != "t1" || ses.SubjectID != "1" || ses.Role != session.RoleUser {
		t.Errorf("Unexpected session: %+v", ses)
	}

	// Profile relayed, token withheld.
	if strings.Contains(w.Body.String(), "t1") {
		t.Error("Access token must not appear in the login response body")
	}
	if !strings.Contains(w.Body.String(), `"Ada"`) {
		t.Errorf("Expected user profile in response, got %s", w.Body.String())
	}
}

func TestLogin_RelaysBackendSuccessStatus(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"access_token":"t1","user":{"id":1,"email":"a@b.com"}}`))
	}))
	defer backend.Close()

	h, _ := newAuthTestHandler(t, backend.URL)
	r := newAuthRouter(h)

	w := postJSON(r, "/auth/login", `{"email":"a@b.com","password":"x"}`)
	if w.Code != http.StatusCreated {
		t.Errorf("Expected backend status 201 relayed, got %d", w.Code)
	}
}

func TestLogin_BackendRejection(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"bad credentials"}`))
	}))
	defer backend.Close()

	h, _ := newAuthTestHandler(t, backend.URL)
	r := newAuthRouter(h)

	w := postJSON(r, "/auth/login", `{"email":"a@b.com","password":"wrong"}`)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("Expected status 401, got %d", w.Code)
	}

	var payload map[string]string
	if err := json.NewDecoder(w.Body).Decode(&payload); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if payload["message"] != "bad credentials" {
		t.Errorf("Expected backend message relayed, got %q", payload["message"])
	}
	if len(w.Result().Cookies()) != 0 {
		t.Error("No session cookie must be set on failed login")
	}
}

func TestLogin_MissingAccessToken(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"user":{"id":1}}`))
	}))
	defer backend.Close()

	h, _ := newAuthTestHandler(t, backend.URL)
	r := newAuthRouter(h)

	w := postJSON(r, "/auth/login", `{"email":"a@b.com","password":"x"}`)
	if w.Code != http.StatusBadGateway {
		t.Errorf("Expected status 502 for malformed backend response, got %d", w.Code)
	}
}

func TestLogin_InvalidPayload(t *testing.T) {
	h, _ := newAuthTestHandler(t, "http://invalid.localhost")
	r := newAuthRouter(h)

	w := postJSON(r, "/auth/login", `{"email":"not-an-email"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestLogin_BackendUnreachable(t *testing.T) {
	backend := httptest.NewServer(http.NotFoundHandler())
	backend.Close()

	h, _ := newAuthTestHandler(t, backend.URL)
	r := newAuthRouter(h)

	w := postJSON(r, "/auth/login", `{"email":"a@b.com","password":"x"}`)
	if w.Code != http.StatusBadGateway {
		t.Errorf("Expected status 502, got %d", w.Code)
	}
}

func TestSignup_Forwards(t *testing.T) {
	var seenPath string
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":2,"email":"new@b.com"}`))
	}))
	defer backend.Close()

	h, _ := newAuthTestHandler(t, backend.URL)
	r := newAuthRouter(h)

	w := postJSON(r, "/auth/signup",
		`{"name":"New User","email":"new@b.com","password":"longenough","departmentIds":[1,2]}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	if seenPath != "/auth/signup" {
		t.Errorf("Expected /auth/signup forwarded, got %s", seenPath)
	}
	if len(w.Result().Cookies()) != 0 {
		t.Error("Signup must not establish a session")
	}
}

func TestLogout_ClearsCookie(t *testing.T) {
	h, _ := newAuthTestHandler(t, "http://invalid.localhost")
	r := newAuthRouter(h)

	w := postJSON(r, "/auth/logout", ``)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != session.CookieName {
		t.Fatalf("Expected cleared session cookie, got %v", cookies)
	}
	if cookies[0].Value != "" || cookies[0].MaxAge >= 0 {
		t.Errorf("Expected empty expired cookie, got value %q max-age %d",
			cookies[0].Value, cookies[0].MaxAge)
	}
}

func TestMe_WithoutSessionContext(t *testing.T) {
	h, _ := newAuthTestHandler(t, "http://invalid.localhost")

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/auth/me", h.Me)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", w.Code)
	}
}
