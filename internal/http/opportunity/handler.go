package opportunity

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/dealdesk/internal/auth"
	"github.com/MrJamesThe3rd/dealdesk/internal/opportunity"
	"github.com/MrJamesThe3rd/dealdesk/internal/pricing"
)

//go:generate mockgen -source=handler.go -destination=service_mock.go -package=opportunity
type Service interface {
	Create(ctx context.Context, params opportunity.CreateParams, actor opportunity.Actor) (*opportunity.Opportunity, error)
	List(ctx context.Context, filter opportunity.ListFilter, page opportunity.Page, sort opportunity.Sort, actor opportunity.Actor) (*opportunity.ListResult, error)
	Get(ctx context.Context, id uuid.UUID, actor opportunity.Actor) (*opportunity.Detail, error)
	Update(ctx context.Context, id uuid.UUID, patch opportunity.Patch, actor opportunity.Actor) (*opportunity.Opportunity, error)
	SoftDelete(ctx context.Context, id uuid.UUID, actor opportunity.Actor) error

	ChangeStage(ctx context.Context, id uuid.UUID, in opportunity.ChangeStageInput, actor opportunity.Actor) (*opportunity.Opportunity, error)
	CloseWon(ctx context.Context, id uuid.UUID, in opportunity.CloseInput, actor opportunity.Actor) (*opportunity.Opportunity, error)
	CloseLost(ctx context.Context, id uuid.UUID, in opportunity.CloseInput, actor opportunity.Actor) (*opportunity.Opportunity, error)
	Reopen(ctx context.Context, id uuid.UUID, in opportunity.ReopenInput, actor opportunity.Actor) (*opportunity.Opportunity, error)
	StageHistory(ctx context.Context, id uuid.UUID, actor opportunity.Actor) ([]*opportunity.StageHistoryEntry, error)

	ForecastSummary(ctx context.Context, pipelineID *uuid.UUID, actor opportunity.Actor) ([]opportunity.ForecastRow, error)
	FindDuplicates(ctx context.Context, q opportunity.DuplicateQuery, actor opportunity.Actor) ([]*opportunity.Opportunity, error)

	ListLineItems(ctx context.Context, id uuid.UUID, actor opportunity.Actor) ([]*pricing.LineItem, error)
	AddLineItem(ctx context.Context, id uuid.UUID, in pricing.AddInput, actor opportunity.Actor) (*opportunity.LineItemChange, error)
	UpdateLineItem(ctx context.Context, id, itemID uuid.UUID, u pricing.LineItemUpdate, actor opportunity.Actor) (*opportunity.LineItemChange, error)
	RemoveLineItem(ctx context.Context, id, itemID uuid.UUID, actor opportunity.Actor) (*opportunity.LineItemChange, error)

	ListContactRoles(ctx context.Context, id uuid.UUID, actor opportunity.Actor) ([]*opportunity.ContactRole, error)
	AddContactRole(ctx context.Context, id uuid.UUID, in opportunity.AddContactRoleInput, actor opportunity.Actor) (*opportunity.ContactRole, error)
	RemoveContactRole(ctx context.Context, id, contactID uuid.UUID, actor opportunity.Actor) error
}

type Handler struct {
	svc    Service
	logger *zap.Logger
}

func NewHandler(svc Service, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

func (h *Handler) Routes(r chi.Router) {
	r.With(middleware.AllowContentType("application/json")).Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/duplicates", h.duplicates)
	r.Get("/forecast", h.forecast)

	r.Route("/{id}", func(r chi.Router) {
		r.Use(middleware.AllowContentType("application/json"))

		r.Get("/", h.get)
		r.Patch("/", h.update)
		r.Delete("/", h.delete)

		r.Post("/stage", h.changeStage)
		r.Post("/close-won", h.closeWon)
		r.Post("/close-lost", h.closeLost)
		r.Post("/reopen", h.reopen)
		r.Get("/history", h.history)

		r.Get("/line-items", h.listLineItems)
		r.Post("/line-items", h.addLineItem)
		r.Patch("/line-items/{itemId}", h.updateLineItem)
		r.Delete("/line-items/{itemId}", h.removeLineItem)

		r.Get("/contacts", h.listContactRoles)
		r.Put("/contacts/{contactId}", h.addContactRole)
		r.Delete("/contacts/{contactId}", h.removeContactRole)
	})
}

// actor resolves the caller from the verified principal. It writes a 401 and
// returns false when the request carries none.
func (h *Handler) actor(w http.ResponseWriter, r *http.Request) (opportunity.Actor, bool) {
	p, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, auth.ErrMissingToken.Error())
		return opportunity.Actor{}, false
	}

	return opportunity.Actor{ID: p.ActorID, VisibleOwners: p.VisibleOwners()}, true
}

// pathID parses a uuid URL parameter, writing a 400 on failure.
func (h *Handler) pathID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid "+name)
		return uuid.Nil, false
	}

	return id, true
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	var req createRequest
	if !h.decode(w, r, &req) {
		return
	}

	o, err := h.svc.Create(r.Context(), req.params(), actor)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, toResponse(o))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	filter, page, sort, err := parseListQuery(r.URL.Query())
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.svc.List(r.Context(), filter, page, sort, actor)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, listResponse{
		Items:    toResponseList(res.Items),
		Total:    res.Total,
		Page:     res.Page,
		PageSize: res.PageSize,
	})
}

func (h *Handler) duplicates(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	query := opportunity.DuplicateQuery{Name: q.Get("name")}

	var err error
	if query.AccountID, err = optionalUUID(q, "account_id"); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if query.ExcludeID, err = optionalUUID(q, "exclude_id"); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	matches, err := h.svc.FindDuplicates(r.Context(), query, actor)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, toResponseList(matches))
}

func (h *Handler) forecast(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	pipelineID, err := optionalUUID(r.URL.Query(), "pipeline_id")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rows, err := h.svc.ForecastSummary(r.Context(), pipelineID, actor)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	out := make([]forecastRowResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, forecastRowResponse{
			Category:       row.Category,
			Count:          row.Count,
			Amount:         row.Amount,
			WeightedAmount: row.WeightedAmount,
		})
	}

	h.writeJSON(w, http.StatusOK, out)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	d, err := h.svc.Get(r.Context(), id, actor)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, toDetailResponse(d))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	// Stage and won/lost state change only through the transition endpoints.
	var req patchRequest
	if !h.decodeStrict(w, r, &req) {
		return
	}

	patch := req.patch()
	if patch.IsEmpty() {
		h.writeError(w, http.StatusBadRequest, "no fields to update")
		return
	}

	o, err := h.svc.Update(r.Context(), id, patch, actor)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, toResponse(o))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.svc.SoftDelete(r.Context(), id, actor); err != nil {
		h.handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
