package opportunity

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/dealdesk/internal/opportunity"
	"github.com/MrJamesThe3rd/dealdesk/internal/pipeline"
)

type errorResponse struct {
	Error       string                   `json:"error"`
	UnmetFields []pipeline.RequiredField `json:"unmet_fields,omitempty"`
	Fields      map[string]string        `json:"fields,omitempty"`
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}

	return true
}

// decodeStrict is decode that rejects keys v does not declare, so that
// fields which cannot be set on an endpoint are not silently dropped.
func (h *Handler) decodeStrict(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}

	return true
}

// decodeOptional is decode for endpoints whose body may be omitted.
func (h *Handler) decodeOptional(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}

	h.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())

	return false
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("encoding response", zap.Error(err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, errorResponse{Error: msg})
}

func (h *Handler) handleServiceError(w http.ResponseWriter, err error) {
	var (
		validation *opportunity.ValidationError
		notFound   *opportunity.NotFoundError
	)

	switch {
	case errors.As(err, &validation):
		h.writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error:       validation.Error(),
			UnmetFields: validation.Unmet,
			Fields:      validation.Fields,
		})
	case errors.As(err, &notFound):
		h.writeError(w, http.StatusNotFound, notFound.Error())
	case errors.Is(err, opportunity.ErrInvalidState), errors.Is(err, opportunity.ErrConflict):
		h.writeError(w, http.StatusConflict, err.Error())
	default:
		h.logger.Error("request failed", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "internal error")
	}
}
