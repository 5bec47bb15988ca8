package http

import (
	"net/http"

	"swapcircle-backend/internal/domain"
	"swapcircle-backend/internal/service"

	"github.com/gorilla/mux"
)

func (h *handler) proposeTrade(w http.ResponseWriter, r *http.Request) {
	var req proposeRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	trade, err := h.Trades.ProposeTrade(r.Context(), callerID(r), service.ProposeInput{
		ProposerItemID: req.ProposerItemID,
		ReceiverItemID: req.ReceiverItemID,
		Message:        req.Message,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTrade(trade))
}

func (h *handler) listTrades(w http.ResponseWriter, r *http.Request) {
	inbox, err := h.Trades.ListTrades(r.Context(), callerID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, inboxResponse{
		Invitations: toTrades(inbox.Invitations),
		Sent:        toTrades(inbox.Sent),
		Active:      toTrades(inbox.Active),
		History:     toTrades(inbox.History),
	})
}

func (h *handler) getTrade(w http.ResponseWriter, r *http.Request) {
	trade, err := h.Trades.GetTrade(r.Context(), callerID(r), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTrade(trade))
}

// transitionTrade handles POST /trades/{id}/{action} for accept, reject,
// cancel, confirm-start and confirm-return.
func (h *handler) transitionTrade(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	action := domain.TradeAction(vars["action"])
	if !action.Valid() {
		writeError(w, domain.NotFound("unknown trade action %q", vars["action"]))
		return
	}
	trade, err := h.Trades.Transition(r.Context(), callerID(r), vars["id"], action)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTrade(trade))
}

func (h *handler) listMessages(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.Messages.ListMessages(r.Context(), callerID(r), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse[domain.Message]{Items: msgs, Total: int32(len(msgs))})
}

func (h *handler) sendMessage(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	msg, err := h.Messages.SendMessage(r.Context(), callerID(r), mux.Vars(r)["id"], req.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

func (h *handler) createReview(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	review, err := h.Reviews.CreateReview(r.Context(), callerID(r), mux.Vars(r)["id"], req.Rating, req.Comment)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, review)
}

func (h *handler) createReport(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	report, err := h.Reports.CreateReport(r.Context(), callerID(r), mux.Vars(r)["id"], req.Reason, req.Comment)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, report)
}
