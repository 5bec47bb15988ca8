package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

func (h *handler) listItems(w http.ResponseWriter, r *http.Request) {
	page, size := pageParams(r)
	items, total, err := h.Items.ListAvailableItems(r.Context(), callerID(r), r.URL.Query().Get("category"), page, size)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse[itemResponse]{Items: toItems(items), Total: total})
}

func (h *handler) listMyItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.Items.ListMyItems(r.Context(), callerID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse[itemResponse]{Items: toItems(items), Total: int32(len(items))})
}

func (h *handler) createItem(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	item, err := h.Items.CreateItem(r.Context(), callerID(r), req.input())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toItem(item))
}

func (h *handler) getItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.Items.GetItem(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toItem(item))
}

func (h *handler) updateItem(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	item, err := h.Items.UpdateItem(r.Context(), callerID(r), mux.Vars(r)["id"], req.input())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toItem(item))
}

func (h *handler) deleteItem(w http.ResponseWriter, r *http.Request) {
	if err := h.Items.DeleteItem(r.Context(), callerID(r), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) relistItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.Items.RelistItem(r.Context(), callerID(r), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toItem(item))
}
