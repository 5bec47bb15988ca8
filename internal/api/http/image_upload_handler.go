package http

import (
	"io"
	"net/http"
	"path/filepath"

	"swapcircle-backend/internal/domain"
	"swapcircle-backend/internal/service"
	"swapcircle-backend/internal/storage"

	"github.com/gorilla/mux"
)

// uploadItemImage handles multipart POST /items/{id}/image with the file in
// the "image" field.
func (h *handler) uploadItemImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.MaxUploadBytes); err != nil {
		writeError(w, domain.Validation("images must be smaller than %d MB", h.MaxUploadBytes>>20))
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, domain.Validation("attach the image in the \"image\" field"))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		sniff := make([]byte, 512)
		n, _ := io.ReadFull(file, sniff)
		contentType = http.DetectContentType(sniff[:n])
		if _, err := file.Seek(0, io.SeekStart); err != nil {
			writeError(w, domain.Dependency(err, "the image could not be read, please try again"))
			return
		}
	}

	item, err := h.Items.AttachImage(r.Context(), callerID(r), mux.Vars(r)["id"], service.ImageUpload{
		Filename:    header.Filename,
		ContentType: contentType,
		Body:        file,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toItem(item))
}

// LocalImageHandler serves images kept by the local blob store.
type LocalImageHandler struct {
	store *storage.LocalStore
}

func NewLocalImageHandler(store *storage.LocalStore) *LocalImageHandler {
	return &LocalImageHandler{store: store}
}

// HandleDownload handles GET requests for stored images
func (h *LocalImageHandler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	file, err := h.store.Open(key)
	if err != nil {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}
	defer file.Close()

	// Determine content type from file extension
	contentType := "application/octet-stream"
	for ct, ext := range storage.AllowedContentTypes {
		if filepath.Ext(key) == ext {
			contentType = ct
		}
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	io.Copy(w, file)
}

// RegisterLocalImageRoutes registers the local image download endpoint
func RegisterLocalImageRoutes(router *mux.Router, store *storage.LocalStore) {
	handler := NewLocalImageHandler(store)
	router.HandleFunc("/images/{key:.+}", handler.HandleDownload).Methods(http.MethodGet)
}
