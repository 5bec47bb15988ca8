package http

import (
	"net/http"

	"swapcircle-backend/internal/domain"
	"swapcircle-backend/internal/security"

	"github.com/gorilla/mux"
)

func (h *handler) getMe(w http.ResponseWriter, r *http.Request) {
	user, err := h.Users.GetUser(r.Context(), callerID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *handler) updateMe(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	id, _ := security.IdentityFromContext(r.Context())
	user, err := h.Users.RegisterProfile(r.Context(), id.UserID, req.DisplayName, id.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// publicUser hides the e-mail address and block list of other users.
type publicUser struct {
	ID          string  `json:"id"`
	DisplayName string  `json:"display_name"`
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"review_count"`
}

func (h *handler) getUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.Users.GetUser(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, publicUser{ID: user.ID, DisplayName: user.Name(), Rating: user.Rating, ReviewCount: user.ReviewCount})
}

func (h *handler) listReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.Reviews.ListReviews(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse[domain.Review]{Items: reviews, Total: int32(len(reviews))})
}

func (h *handler) blockUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.Users.BlockUser(r.Context(), callerID(r), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *handler) unblockUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.Users.UnblockUser(r.Context(), callerID(r), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *handler) listNotifications(w http.ResponseWriter, r *http.Request) {
	page, size := pageParams(r)
	notes, total, err := h.Notifications.ListNotifications(r.Context(), callerID(r), page, size)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse[domain.Notification]{Items: notes, Total: total})
}

func (h *handler) markNotificationRead(w http.ResponseWriter, r *http.Request) {
	if err := h.Notifications.MarkNotificationRead(r.Context(), callerID(r), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
