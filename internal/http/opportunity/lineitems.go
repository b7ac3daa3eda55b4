package opportunity

import (
	"net/http"
)

func (h *Handler) listLineItems(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	items, err := h.svc.ListLineItems(r.Context(), id, actor)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, toLineItemList(items))
}

func (h *Handler) addLineItem(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	var req addLineItemRequest
	if !h.decode(w, r, &req) {
		return
	}

	change, err := h.svc.AddLineItem(r.Context(), id, req.input(), actor)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, toLineItemChange(change))
}

func (h *Handler) updateLineItem(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	itemID, ok := h.pathID(w, r, "itemId")
	if !ok {
		return
	}

	var req updateLineItemRequest
	if !h.decode(w, r, &req) {
		return
	}

	change, err := h.svc.UpdateLineItem(r.Context(), id, itemID, req.update(), actor)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, toLineItemChange(change))
}

func (h *Handler) removeLineItem(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	itemID, ok := h.pathID(w, r, "itemId")
	if !ok {
		return
	}

	change, err := h.svc.RemoveLineItem(r.Context(), id, itemID, actor)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, toLineItemChange(change))
}
