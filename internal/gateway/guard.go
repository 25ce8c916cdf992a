package gateway

import (
	"net/http"
	"strings"

	"floragate/internal/session"

	"github.com/gin-gonic/gin"
)

// Page paths known to the route guard.
const (
	loginPath     = "/login"
	signupPath    = "/signup"
	dashboardPath = "/dashboard"
)

// adminOnlyPrefixes are dashboard subsections restricted to the admin role.
var adminOnlyPrefixes = []string{
	"/dashboard/users",
	"/dashboard/departments",
}

// RouteGuard gates page rendering by path. It either redirects or passes
// the request through unmodified; it never renders content and never
// fails with an error. Rules are evaluated first match wins:
//
//  1. protected path, no session        -> redirect to login
//  2. protected path, admin-only, !admin -> redirect to dashboard
//  3. auth page, valid session          -> redirect to dashboard
//  4. otherwise                          -> pass through
func RouteGuard(codec *session.Codec) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		sess := guardSession(c, codec)

		switch {
		case isProtectedPath(path) && sess == nil:
			c.Redirect(http.StatusFound, loginPath)
			c.Abort()
		case isProtectedPath(path) && isAdminOnlyPath(path) && !sess.IsAdmin():
			c.Redirect(http.StatusFound, dashboardPath)
			c.Abort()
		case isAuthPage(path) && sess != nil:
			c.Redirect(http.StatusFound, dashboardPath)
			c.Abort()
		default:
			c.Next()
		}
	}
}

// guardSession returns the decoded session or nil. Every decode failure,
// whatever its cause, is treated as "no session".
func guardSession(c *gin.Context, codec *session.Codec) *session.Session {
	value, err := c.Cookie(session.CookieName)
	if err != nil {
		return nil
	}
	sess, err := codec.Decode(value)
	if err != nil {
		return nil
	}
	return sess
}

func isProtectedPath(path string) bool {
	return path == dashboardPath || strings.HasPrefix(path, dashboardPath+"/")
}

func isAdminOnlyPath(path string) bool {
	for _, prefix := range adminOnlyPrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

func isAuthPage(path string) bool {
	return path == loginPath || path == signupPath
}
