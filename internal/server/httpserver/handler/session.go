package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/yndnr/reviewgate/internal/core/domain"
)

// handleLogin handles POST /v1/login.
func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, domain.ErrBadRequest.Code, "invalid request body", "")
		return
	}

	res, err := h.ctrl.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	h.writeJSON(w, r, http.StatusOK, LoginResponse{
		UserID:      res.UserID.String(),
		AccessToken: res.AccessToken.String(),
		Role:        string(res.Role),
		ExpiresAt:   res.ExpiresAt.UTC(),
	})
}

// handleLogout handles POST /v1/logout.
func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	var req LogoutRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, domain.ErrBadRequest.Code, "invalid request body", "")
		return
	}

	if err := h.ctrl.Invalidate(r.Context(), domain.UserID(req.UserID), bearerToken(r)); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, nil)
}

// handleVerifySession handles POST /v1/sessions/verify.
// An empty body verifies the token without a permission requirement.
func (h *Handler) handleVerifySession(w http.ResponseWriter, r *http.Request) {
	var req VerifySessionRequest
	if err := decodeBody(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.writeError(w, r, http.StatusBadRequest, domain.ErrBadRequest.Code, "invalid request body", "")
		return
	}

	userID, err := h.ctrl.VerifySession(r.Context(), bearerToken(r), domain.ParsePermissions(req.Permissions))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, VerifySessionResponse{UserID: userID.String()})
}
