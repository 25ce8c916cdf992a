package proxy

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"floragate/internal/session"

	"github.com/gin-gonic/gin"
)

// Handler exposes the proxied resource endpoints (users, documents,
// categories, departments) against the document backend.
type Handler struct {
	client *Client
}

// NewHandler creates a new proxy handler
func NewHandler(client *Client) *Handler {
	return &Handler{client: client}
}

// sessionFrom extracts the decoded session placed in the context by the
// auth middleware.
func sessionFrom(c *gin.Context) (*session.Session, bool) {
	value, exists := c.Get(session.ContextKey)
	if !exists {
		return nil, false
	}
	sess, ok := value.(*session.Session)
	return sess, ok && sess != nil
}

// unauthorized rejects the request without contacting the backend.
func unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
}

// ListUsers handles GET /api/users with query passthrough (pagination,
// search).
func (h *Handler) ListUsers(c *gin.Context) {
	sess, ok := sessionFrom(c)
	if !ok {
		unauthorized(c)
		return
	}

	resp, err := h.client.Get(c.Request.Context(), "/api/users", c.Request.URL.RawQuery, sess.Token)
	if err != nil {
		RelayError(c, err)
		return
	}
	Relay(c, resp)
}

// AssignDepartments handles PUT /api/users/:id/assign-departments with a
// JSON array of department ids.
func (h *Handler) AssignDepartments(c *gin.Context) {
	sess, ok := sessionFrom(c)
	if !ok {
		unauthorized(c)
		return
	}

	var departmentIDs []int64
	if err := c.ShouldBindJSON(&departmentIDs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "expected a JSON array of department ids"})
		return
	}

	path := "/api/users/" + url.PathEscape(c.Param("id")) + "/assign-departments"
	resp, err := h.client.JSON(c.Request.Context(), http.MethodPut, path, sess.Token, departmentIDs)
	if err != nil {
		RelayError(c, err)
		return
	}
	Relay(c, resp)
}

// DeleteUser handles DELETE /api/users/:id. The route parameter holds the
// user's email, which is how the backend addresses users on delete.
func (h *Handler) DeleteUser(c *gin.Context) {
	sess, ok := sessionFrom(c)
	if !ok {
		unauthorized(c)
		return
	}

	path := "/api/users/" + url.PathEscape(c.Param("id"))
	resp, err := h.client.Do(c.Request.Context(), http.MethodDelete, path, "", sess.Token, "", nil)
	if err != nil {
		RelayError(c, err)
		return
	}
	Relay(c, resp)
}

// ListDepartments handles GET /api/departments
func (h *Handler) ListDepartments(c *gin.Context) {
	h.forwardGet(c, "/api/departments")
}

// CreateDepartment handles POST /api/departments
func (h *Handler) CreateDepartment(c *gin.Context) {
	var req CreateDepartmentRequest
	h.forwardJSON(c, http.MethodPost, "/api/departments", &req)
}

// UpdateDepartment handles PUT /api/departments/:id
func (h *Handler) UpdateDepartment(c *gin.Context) {
	var req UpdateDepartmentRequest
	h.forwardJSON(c, http.MethodPut, "/api/departments/"+url.PathEscape(c.Param("id")), &req)
}

// DeleteDepartment handles DELETE /api/departments/:id
func (h *Handler) DeleteDepartment(c *gin.Context) {
	h.forwardDelete(c, "/api/departments/"+url.PathEscape(c.Param("id")))
}

// ListCategories handles GET /api/categories
func (h *Handler) ListCategories(c *gin.Context) {
	h.forwardGet(c, "/api/categories")
}

// CreateCategory handles POST /api/categories
func (h *Handler) CreateCategory(c *gin.Context) {
	var req CreateCategoryRequest
	h.forwardJSON(c, http.MethodPost, "/api/categories", &req)
}

// UpdateCategory handles PUT /api/categories/:id
func (h *Handler) UpdateCategory(c *gin.Context) {
	var req UpdateCategoryRequest
	h.forwardJSON(c, http.MethodPut, "/api/categories/"+url.PathEscape(c.Param("id")), &req)
}

// DeleteCategory handles DELETE /api/categories/:id
func (h *Handler) DeleteCategory(c *gin.Context) {
	h.forwardDelete(c, "/api/categories/"+url.PathEscape(c.Param("id")))
}

// ListDocuments handles GET /api/documents with query passthrough
func (h *Handler) ListDocuments(c *gin.Context) {
	sess, ok := sessionFrom(c)
	if !ok {
		unauthorized(c)
		return
	}

	resp, err := h.client.Get(c.Request.Context(), "/api/documents", c.Request.URL.RawQuery, sess.Token)
	if err != nil {
		RelayError(c, err)
		return
	}
	Relay(c, resp)
}

// UploadDocument handles POST /api/documents. The incoming multipart form
// is rebuilt field for field and forwarded with the writer's own boundary
// content type; a JSON content type must never be attached here.
func (h *Handler) UploadDocument(c *gin.Context) {
	sess, ok := sessionFrom(c)
	if !ok {
		unauthorized(c)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "file is required"})
		return
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", fileHeader.Filename)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to build upload body"})
		return
	}
	src, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "failed to read uploaded file"})
		return
	}
	defer src.Close()
	if _, err := io.Copy(part, src); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to build upload body"})
		return
	}

	// Metadata fields travel alongside the file, verbatim.
	for _, field := range []string{"title", "categoryId", "departmentId"} {
		if value := c.PostForm(field); value != "" {
			if err := writer.WriteField(field, value); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to build upload body"})
				return
			}
		}
	}

	if err := writer.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to build upload body"})
		return
	}

	resp, err := h.client.Do(c.Request.Context(), http.MethodPost, "/api/documents", "",
		sess.Token, writer.FormDataContentType(), &buf)
	if err != nil {
		RelayError(c, err)
		return
	}
	Relay(c, resp)
}

// DeleteDocument handles DELETE /api/documents/:id
func (h *Handler) DeleteDocument(c *gin.Context) {
	h.forwardDelete(c, "/api/documents/"+url.PathEscape(c.Param("id")))
}

func (h *Handler) forwardGet(c *gin.Context, path string) {
	sess, ok := sessionFrom(c)
	if !ok {
		unauthorized(c)
		return
	}

	resp, err := h.client.Get(c.Request.Context(), path, "", sess.Token)
	if err != nil {
		RelayError(c, err)
		return
	}
	Relay(c, resp)
}

func (h *Handler) forwardJSON(c *gin.Context, method, path string, req any) {
	sess, ok := sessionFrom(c)
	if !ok {
		unauthorized(c)
		return
	}

	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	resp, err := h.client.JSON(c.Request.Context(), method, path, sess.Token, req)
	if err != nil {
		RelayError(c, err)
		return
	}
	Relay(c, resp)
}

func (h *Handler) forwardDelete(c *gin.Context, path string) {
	sess, ok := sessionFrom(c)
	if !ok {
		unauthorized(c)
		return
	}

	resp, err := h.client.Do(c.Request.Context(), http.MethodDelete, path, "", sess.Token, "", nil)
	if err != nil {
		RelayError(c, err)
		return
	}
	Relay(c, resp)
}
