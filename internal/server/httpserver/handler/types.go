package handler

import "time"

// Response is the standard API response envelope.
// All JSON responses use this format (except /metrics which uses Prometheus format).
type Response struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
	Timestamp int64  `json:"timestamp"`
	Data      any    `json:"data,omitempty"`
	Details   string `json:"details,omitempty"`
}

// NewResponse creates a success response.
func NewResponse(requestID string, data any) *Response {
	return &Response{
		Code:      "OK",
		Message:   "Success",
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
		Data:      data,
	}
}

// NewErrorResponse creates an error response.
func NewErrorResponse(requestID, code, message, details string) *Response {
	return &Response{
		Code:      code,
		Message:   message,
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
		Details:   details,
	}
}

// LoginRequest is the request body for POST /v1/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is the response body for POST /v1/login.
type LoginResponse struct {
	UserID      string    `json:"user_id"`
	AccessToken string    `json:"access_token"`
	Role        string    `json:"role"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// LogoutRequest is the request body for POST /v1/logout.
type LogoutRequest struct {
	UserID string `json:"user_id"`
}

// VerifySessionRequest is the request body for POST /v1/sessions/verify.
type VerifySessionRequest struct {
	Permissions []string `json:"permissions"`
}

// VerifySessionResponse is the response body for POST /v1/sessions/verify.
type VerifySessionResponse struct {
	UserID string `json:"user_id"`
}

// UserInfoResponse is the response body for GET /v1/users/{user_id}/info.
type UserInfoResponse struct {
	UserID      string    `json:"user_id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
}

// SubmissionsResponse is the response body for GET /v1/submissions.
type SubmissionsResponse struct {
	Submissions []string `json:"submissions"`
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status         string `json:"status"`
	Time           string `json:"time"`
	ActiveSessions int    `json:"active_sessions"`
	Version        string `json:"version"`
}
