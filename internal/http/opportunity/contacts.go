package opportunity

import (
	"net/http"

	"github.com/MrJamesThe3rd/dealdesk/internal/opportunity"
)

func (h *Handler) listContactRoles(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	roles, err := h.svc.ListContactRoles(r.Context(), id, actor)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	out := make([]contactRoleResponse, 0, len(roles))
	for _, role := range roles {
		out = append(out, toContactRoleResponse(role))
	}

	h.writeJSON(w, http.StatusOK, out)
}

type contactRoleRequest struct {
	Role      string `json:"role"`
	IsPrimary bool   `json:"is_primary"`
	Notes     string `json:"notes"`
}

func (h *Handler) addContactRole(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	contactID, ok := h.pathID(w, r, "contactId")
	if !ok {
		return
	}

	var req contactRoleRequest
	if !h.decodeOptional(w, r, &req) {
		return
	}

	role, err := h.svc.AddContactRole(r.Context(), id, opportunity.AddContactRoleInput{
		ContactID: contactID,
		Role:      req.Role,
		IsPrimary: req.IsPrimary,
		Notes:     req.Notes,
	}, actor)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, toContactRoleResponse(role))
}

func (h *Handler) removeContactRole(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	contactID, ok := h.pathID(w, r, "contactId")
	if !ok {
		return
	}

	if err := h.svc.RemoveContactRole(r.Context(), id, contactID, actor); err != nil {
		h.handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
