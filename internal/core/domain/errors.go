package domain

import (
	"errors"
	"fmt"
)

// DomainError is an error with a stable code clients can branch on.
//
// Codes follow RG-{AREA}-{NNNN}; the four digits start with the HTTP-like
// class (4010 unauthorized, 4030 forbidden, 5xxx internal). Error() renders
// code, message and details only. Cause stays reachable through Unwrap for
// logs but is never shown to callers.
type DomainError struct {
	Code    string
	Message string
	Details string
	Cause   error
}

func (e *DomainError) Error() string {
	if e.Details == "" {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is matches any DomainError with the same code, so copies made by
// WithDetails and WithCause still match their sentinel.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && e.Code == t.Code
}

// NewDomainError creates a sentinel error.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

// WithDetails returns a copy carrying details.
func (e *DomainError) WithDetails(details string) *DomainError {
	c := *e
	c.Details = details
	return &c
}

// WithCause returns a copy wrapping cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	c := *e
	c.Cause = cause
	return &c
}

// ErrorCode returns the code of the first DomainError in err's chain, or ""
// if there is none.
func ErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// ============================================================================
// Session store errors (SESS)
//
// These never leave the controller; they are mapped to the per-operation
// errors below.
// ============================================================================

var (
	// ErrSessionNotFound indicates no session is bound to the token.
	ErrSessionNotFound = NewDomainError("RG-SESS-4040", "session not found")

	// ErrSessionExpired indicates the session was expired and has been evicted.
	ErrSessionExpired = NewDomainError("RG-SESS-4041", "session expired")

	// ErrSessionOwnerMismatch indicates the session belongs to another user.
	ErrSessionOwnerMismatch = NewDomainError("RG-SESS-4030", "session owned by another user")

	// ErrTokenCollision indicates a freshly generated token is already live.
	ErrTokenCollision = NewDomainError("RG-SESS-4090", "access token collision")
)

// ============================================================================
// Login errors
// ============================================================================

var (
	// ErrInvalidCredentials indicates the account service rejected the credentials.
	ErrInvalidCredentials = NewDomainError("RG-AUTH-4010", "invalid credentials")

	// ErrExternalService indicates the account service failed or timed out.
	ErrExternalService = NewDomainError("RG-SYS-5020", "account service unavailable")

	// ErrInternal indicates an internal failure (token collision).
	ErrInternal = NewDomainError("RG-SYS-5000", "internal server error")
)

// ============================================================================
// Token errors (Invalidate, VerifySession, GetSubmissionsByUser)
// ============================================================================

var (
	// ErrInvalidAccessToken indicates the token is unknown.
	ErrInvalidAccessToken = NewDomainError("RG-TOKN-4010", "invalid access token")

	// ErrTokenTimedOut indicates the token was valid but has expired.
	ErrTokenTimedOut = NewDomainError("RG-TOKN-4011", "access token timed out")

	// ErrInvalidUserID indicates the token is bound to a different user.
	ErrInvalidUserID = NewDomainError("RG-TOKN-4030", "access token belongs to another user")

	// ErrInvalidPermissions indicates the session lacks a required permission.
	ErrInvalidPermissions = NewDomainError("RG-AUTH-4030", "insufficient permissions")
)

// ============================================================================
// GetUserInfo errors
// ============================================================================

var (
	// ErrTokenInvalid is the collapsed verification failure of GetUserInfo.
	ErrTokenInvalid = NewDomainError("RG-TOKN-4012", "token invalid")

	// ErrProfileService indicates the profile service failed or timed out.
	ErrProfileService = NewDomainError("RG-SYS-5021", "profile service unavailable")
)

// ============================================================================
// Submission listing errors
// ============================================================================

var (
	// ErrDatabase indicates the submission query failed.
	ErrDatabase = NewDomainError("RG-SYS-5010", "database error")
)

// ============================================================================
// Argument errors (ARG)
// ============================================================================

var (
	// ErrBadRequest indicates a malformed request at the transport boundary.
	ErrBadRequest = NewDomainError("RG-ARG-4000", "bad request")

	// ErrRateLimited indicates too many requests.
	ErrRateLimited = NewDomainError("RG-SYS-4290", "too many requests")
)
