package proxy

// Request payloads validated at the proxy boundary before forwarding.
// Response payloads are owned by the backend and relayed opaquely.

// CreateDepartmentRequest is the payload for creating a department
type CreateDepartmentRequest struct {
	Name string `json:"name" binding:"required"`
}

// UpdateDepartmentRequest is the payload for renaming a department
type UpdateDepartmentRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateCategoryRequest is the payload for creating a document category
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

// UpdateCategoryRequest is the payload for renaming a document category
type UpdateCategoryRequest struct {
	Name string `json:"name" binding:"required"`
}
