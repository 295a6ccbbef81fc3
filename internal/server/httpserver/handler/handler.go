package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/yndnr/reviewgate/internal/core/domain"
	"github.com/yndnr/reviewgate/internal/core/service"
	"github.com/yndnr/reviewgate/internal/telemetry/logger"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 64 << 10

// Controller is the subset of the session controller served over HTTP.
type Controller interface {
	Login(ctx context.Context, username, password string) (*service.LoginResult, error)
	Invalidate(ctx context.Context, userID domain.UserID, tok domain.AccessToken) error
	VerifySession(ctx context.Context, tok domain.AccessToken, required []domain.Permission) (domain.UserID, error)
	GetUserInfo(ctx context.Context, userID domain.UserID, tok domain.AccessToken) (domain.UserInfo, error)
	GetSubmissionsByUser(ctx context.Context, tok domain.AccessToken) ([]domain.SubID, error)
	ActiveSessions() int
}

// Handler routes API requests to the controller.
type Handler struct {
	ctrl    Controller
	logger  logger.Logger
	version string
	mux     *http.ServeMux
}

// New creates a new Handler.
func New(ctrl Controller, l logger.Logger, version string) *Handler {
	if l == nil {
		l = logger.NewNop()
	}
	h := &Handler{
		ctrl:    ctrl,
		logger:  l,
		version: version,
		mux:     http.NewServeMux(),
	}

	h.registerRoutes()
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// Login returns the login endpoint on its own, for routers that wrap it
// in additional middleware.
func (h *Handler) Login() http.Handler {
	return http.HandlerFunc(h.handleLogin)
}

func (h *Handler) registerRoutes() {
	h.mux.HandleFunc("GET /health", h.handleHealth)

	h.mux.HandleFunc("POST /v1/login", h.handleLogin)
	h.mux.HandleFunc("POST /v1/logout", h.handleLogout)
	h.mux.HandleFunc("POST /v1/sessions/verify", h.handleVerifySession)
	h.mux.HandleFunc("GET /v1/users/{user_id}/info", h.handleUserInfo)
	h.mux.HandleFunc("GET /v1/submissions", h.handleSubmissions)
}

// writeJSON writes a JSON response with standard envelope format.
func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	requestID := logger.RequestIDFromContext(r.Context())

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(NewResponse(requestID, data)); err != nil {
		h.logger.WithContext(r.Context()).Error("failed to encode response", "error", err)
	}
}

// writeError writes an error response with standard envelope format.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, code, message, details string) {
	requestID := logger.RequestIDFromContext(r.Context())

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Error-Code", code)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(NewErrorResponse(requestID, code, message, details)); err != nil {
		h.logger.WithContext(r.Context()).Error("failed to encode error response", "code", code, "error", err)
	}
}

// handleServiceError converts controller errors to HTTP responses.
func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var de *domain.DomainError
	if errors.As(err, &de) {
		status := ErrorCodeToHTTPStatus(de.Code)
		if status == http.StatusUnauthorized {
			w.Header().Set("WWW-Authenticate", `Bearer realm="reviewgate"`)
		}
		h.writeError(w, r, status, de.Code, de.Message, de.Details)
		return
	}

	h.logger.WithContext(r.Context()).Error("internal error", "error", err)
	h.writeError(w, r, http.StatusInternalServerError, domain.ErrInternal.Code, domain.ErrInternal.Message, "")
}

// ErrorCodeToHTTPStatus maps error codes to HTTP status codes by their
// four-digit class suffix.
func ErrorCodeToHTTPStatus(code string) int {
	i := strings.LastIndexByte(code, '-')
	if i < 0 || len(code)-i-1 != 4 {
		return http.StatusInternalServerError
	}
	class := code[i+1:]

	switch {
	case strings.HasPrefix(class, "400"):
		return http.StatusBadRequest
	case strings.HasPrefix(class, "401"):
		return http.StatusUnauthorized
	case strings.HasPrefix(class, "403"):
		return http.StatusForbidden
	case strings.HasPrefix(class, "404"):
		return http.StatusNotFound
	case strings.HasPrefix(class, "409"):
		return http.StatusConflict
	case strings.HasPrefix(class, "429"):
		return http.StatusTooManyRequests
	case strings.HasPrefix(class, "502"):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// decodeBody decodes a bounded JSON body into dst.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// bearerToken extracts the access token from the Authorization header.
func bearerToken(r *http.Request) domain.AccessToken {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(auth) < len(prefix) || !strings.EqualFold(auth[:len(prefix)], prefix) {
		return ""
	}
	return domain.AccessToken(strings.TrimSpace(auth[len(prefix):]))
}
