// Package http exposes the marketplace as a JSON API under /api/v1.
package http

import (
	"net/http"

	"swapcircle-backend/internal/security"
	"swapcircle-backend/internal/service"
	"swapcircle-backend/internal/storage"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

const defaultMaxUploadBytes = 5 << 20

// Deps are the collaborators the REST handlers need. Images is optional and
// only set when images are stored on the local filesystem.
type Deps struct {
	Verifier       security.IdentityVerifier
	Users          service.UserService
	Items          service.ItemService
	Trades         service.TradeService
	Messages       service.MessageService
	Reviews        service.ReviewService
	Reports        service.ReportService
	Notifications  service.NotificationService
	Images         *storage.LocalStore
	MaxUploadBytes int64
}

type handler struct {
	Deps
	validate *validator.Validate
}

// NewRouter builds the REST router.
func NewRouter(d Deps) *mux.Router {
	if d.MaxUploadBytes <= 0 {
		d.MaxUploadBytes = defaultMaxUploadBytes
	}
	h := &handler{Deps: d, validate: newValidator()}

	r := mux.NewRouter()
	r.Use(recoverer, requestLogger)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	if d.Images != nil {
		RegisterLocalImageRoutes(r, d.Images)
	}

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(h.authenticate)

	api.HandleFunc("/me", h.getMe).Methods(http.MethodGet)
	api.HandleFunc("/me", h.updateMe).Methods(http.MethodPut)
	api.HandleFunc("/users/{id}", h.getUser).Methods(http.MethodGet)
	api.HandleFunc("/users/{id}/reviews", h.listReviews).Methods(http.MethodGet)
	api.HandleFunc("/users/{id}/block", h.blockUser).Methods(http.MethodPost)
	api.HandleFunc("/users/{id}/block", h.unblockUser).Methods(http.MethodDelete)

	api.HandleFunc("/items", h.listItems).Methods(http.MethodGet)
	api.HandleFunc("/items", h.createItem).Methods(http.MethodPost)
	api.HandleFunc("/items/mine", h.listMyItems).Methods(http.MethodGet)
	api.HandleFunc("/items/{id}", h.getItem).Methods(http.MethodGet)
	api.HandleFunc("/items/{id}", h.updateItem).Methods(http.MethodPut)
	api.HandleFunc("/items/{id}", h.deleteItem).Methods(http.MethodDelete)
	api.HandleFunc("/items/{id}/relist", h.relistItem).Methods(http.MethodPost)
	api.HandleFunc("/items/{id}/image", h.uploadItemImage).Methods(http.MethodPost)

	api.HandleFunc("/trades", h.listTrades).Methods(http.MethodGet)
	api.HandleFunc("/trades", h.proposeTrade).Methods(http.MethodPost)
	api.HandleFunc("/trades/{id}", h.getTrade).Methods(http.MethodGet)
	api.HandleFunc("/trades/{id}/messages", h.listMessages).Methods(http.MethodGet)
	api.HandleFunc("/trades/{id}/messages", h.sendMessage).Methods(http.MethodPost)
	api.HandleFunc("/trades/{id}/reviews", h.createReview).Methods(http.MethodPost)
	api.HandleFunc("/trades/{id}/reports", h.createReport).Methods(http.MethodPost)
	api.HandleFunc("/trades/{id}/{action}", h.transitionTrade).Methods(http.MethodPost)

	api.HandleFunc("/notifications", h.listNotifications).Methods(http.MethodGet)
	api.HandleFunc("/notifications/{id}/read", h.markNotificationRead).Methods(http.MethodPost)

	return r
}
