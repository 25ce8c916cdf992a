package auth

import "encoding/json"

// LoginRequest is the request payload for logging in
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// SignupRequest is the request payload for registering a new account
type SignupRequest struct {
	Name          string  `json:"name" binding:"required"`
	Email         string  `json:"email" binding:"required,email"`
	Password      string  `json:"password" binding:"required,min=8"`
	DepartmentIDs []int64 `json:"departmentIds"`
}

// backendAuthResponse is the backend's login payload. The user profile is
// kept raw so it can be relayed to the caller unchanged in shape.
type backendAuthResponse struct {
	AccessToken string          `json:"access_token"`
	User        json.RawMessage `json:"user"`
}

// backendUser carries the profile fields the session needs.
type backendUser struct {
	ID    json.Number `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  string      `json:"role"`
}
