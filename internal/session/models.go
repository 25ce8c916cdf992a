package session

// Role values recognised by the route guard and the dashboard.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// CookieName is the cookie carrying the encoded session payload.
const CookieName = "session"

// ContextKey is the gin context key under which the auth middleware stores
// the decoded *Session for downstream handlers.
const ContextKey = "session"

// Session is the authenticated identity carried by the session cookie.
// The browser holds the only copy; the gateway never persists it.
type Session struct {
	SubjectID string `json:"subject_id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Token     string `json:"-"`
}

// IsAdmin reports whether the session carries the admin role.
func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == RoleAdmin
}
