package opportunity

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/dealdesk/internal/opportunity"
)

func (h *Handler) changeStage(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	var req changeStageRequest
	if !h.decode(w, r, &req) {
		return
	}

	in, err := req.input()
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	o, err := h.svc.ChangeStage(r.Context(), id, in, actor)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, toResponse(o))
}

func (h *Handler) closeWon(w http.ResponseWriter, r *http.Request) {
	h.close(w, r, h.svc.CloseWon)
}

func (h *Handler) closeLost(w http.ResponseWriter, r *http.Request) {
	h.close(w, r, h.svc.CloseLost)
}

type closeFunc func(ctx context.Context, id uuid.UUID, in opportunity.CloseInput, actor opportunity.Actor) (*opportunity.Opportunity, error)

func (h *Handler) close(w http.ResponseWriter, r *http.Request, fn closeFunc) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	var req closeRequest
	if !h.decodeOptional(w, r, &req) {
		return
	}

	o, err := fn(r.Context(), id, req.input(), actor)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, toResponse(o))
}

func (h *Handler) reopen(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	var req reopenRequest
	if !h.decode(w, r, &req) {
		return
	}

	o, err := h.svc.Reopen(r.Context(), id, opportunity.ReopenInput{
		StageID:     req.StageID,
		Reason:      req.Reason,
		Probability: req.Probability,
	}, actor)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, toResponse(o))
}

func (h *Handler) history(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	entries, err := h.svc.StageHistory(r.Context(), id, actor)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, toHistoryResponse(entries))
}
