package handler

import (
	"net/http"

	"github.com/yndnr/reviewgate/internal/core/domain"
)

// handleUserInfo handles GET /v1/users/{user_id}/info.
func (h *Handler) handleUserInfo(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("user_id")
	if userID == "" || len(userID) > domain.MaxUserIDLength {
		h.writeError(w, r, http.StatusBadRequest, domain.ErrBadRequest.Code, "invalid user_id", "")
		return
	}

	info, err := h.ctrl.GetUserInfo(r.Context(), domain.UserID(userID), bearerToken(r))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, UserInfoResponse{
		UserID:      info.UserID.String(),
		Username:    info.Username,
		DisplayName: info.DisplayName,
		Email:       info.Email,
		Role:        string(info.Role),
		CreatedAt:   info.CreatedAt.UTC(),
	})
}

// handleSubmissions handles GET /v1/submissions.
func (h *Handler) handleSubmissions(w http.ResponseWriter, r *http.Request) {
	ids, err := h.ctrl.GetSubmissionsByUser(r.Context(), bearerToken(r))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	h.writeJSON(w, r, http.StatusOK, SubmissionsResponse{Submissions: out})
}
