package gateway

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
)

// placeholderPage keeps page routes alive when no dashboard bundle is
// deployed alongside the gateway (local development).
const placeholderPage = `<!doctype html>
<html>
<head><title>floragate</title></head>
<body><div id="root">floragate dashboard bundle is not deployed</div></body>
</html>`

// ServePage serves the dashboard single-page bundle entrypoint for page
// routes that survived the route guard. Non-page paths fall through to a
// JSON 404 so unknown API calls are not answered with HTML.
func ServePage(staticDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !isPagePath(c.Request.URL.Path) {
			c.JSON(http.StatusNotFound, gin.H{"message": "not found"})
			return
		}

		if staticDir != "" {
			c.File(filepath.Join(staticDir, "index.html"))
			return
		}

		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, placeholderPage)
	}
}

func isPagePath(path string) bool {
	return path == "/" || isAuthPage(path) || isProtectedPath(path)
}
