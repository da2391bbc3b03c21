package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/vedantkasargod/walmart-x1/internal/cart"
	"github.com/vedantkasargod/walmart-x1/internal/checkout"
	"github.com/vedantkasargod/walmart-x1/internal/command"
	"github.com/vedantkasargod/walmart-x1/internal/dispatch"
	"github.com/vedantkasargod/walmart-x1/internal/domain"
	"github.com/vedantkasargod/walmart-x1/internal/review"
)

// QueryDispatcher routes a free-text shopping query.
type QueryDispatcher interface {
	PlanQuery(ctx context.Context, userID, query string) (*dispatch.Result, error)
	DirectAdd(ctx context.Context, userID, query string) (*dispatch.Result, error)
}

// CommandApplier interprets a follow-up command against the review session.
type CommandApplier interface {
	Apply(ctx context.Context, userID, command string) (*command.Outcome, error)
}

// CheckoutRunner converts a cart into a durable order.
type CheckoutRunner interface {
	Checkout(ctx context.Context, userID string) (*domain.Order, error)
}

type Handler struct {
	dispatcher QueryDispatcher
	commands   CommandApplier
	carts      cart.Manager
	reviews    review.Manager
	checkouts  CheckoutRunner
	log        *zap.Logger
}

func NewHandler(
	dispatcher QueryDispatcher,
	commands CommandApplier,
	carts cart.Manager,
	reviews review.Manager,
	checkouts CheckoutRunner,
	log *zap.Logger,
) *Handler {
	return &Handler{
		dispatcher: dispatcher,
		commands:   commands,
		carts:      carts,
		reviews:    reviews,
		checkouts:  checkouts,
		log:        log,
	}
}

type QueryRequestDTO struct {
	UserID string `json:"user_id"`
	Query  string `json:"query"`
	Mode   string `json:"mode"`
}

type CommandRequestDTO struct {
	Command string `json:"command"`
}

type CommandResponseDTO struct {
	Action     string                 `json:"action"`
	Message    string                 `json:"message"`
	Items      []domain.CandidateItem `json:"items"`
	AddedItems []domain.CartEntry     `json:"added_items,omitempty"`
}

// Query is the main conversational entry point. Mode picks the pipeline:
// "add_to_cart" commits straight to the cart, everything else goes through
// the planner and ends in a review session.
func (h *Handler) Query(w http.ResponseWriter, r *http.Request) {
	var req QueryRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.UserID == "" {
		respondError(w, http.StatusBadRequest, "missing_user_id", "user_id is required")
		return
	}
	if req.Query == "" {
		respondError(w, http.StatusBadRequest, "missing_query", "query is required")
		return
	}

	var (
		result *dispatch.Result
		err    error
	)
	switch req.Mode {
	case "add_to_cart":
		result, err = h.dispatcher.DirectAdd(r.Context(), req.UserID, req.Query)
	case "", "build_cart", "recommend":
		result, err = h.dispatcher.PlanQuery(r.Context(), req.UserID, req.Query)
	default:
		respondError(w, http.StatusBadRequest, "invalid_mode", "mode must be build_cart, recommend or add_to_cart")
		return
	}
	if err != nil {
		h.respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "missing_user_id", "user id is required")
		return
	}

	entries, err := h.carts.List(r.Context(), userID)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}
	if entries == nil {
		entries = []domain.CartEntry{}
	}
	respondJSON(w, http.StatusOK, entries)
}

func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	entryID := chi.URLParam(r, "entryID")
	if userID == "" || entryID == "" {
		respondError(w, http.StatusBadRequest, "missing_parameter", "user id and entry id are required")
		return
	}

	removed, err := h.carts.Remove(r.Context(), userID, entryID)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}
	if !removed {
		respondError(w, http.StatusNotFound, "not_found", "no such entry in the cart")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"removed": true})
}

func (h *Handler) GetReviewSession(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "missing_user_id", "user id is required")
		return
	}

	items, err := h.reviews.Get(r.Context(), userID)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

// SessionCommand applies one follow-up command to the review session. A
// confirm action is where the provisional list becomes real: each item is
// added to the cart and the session is cleared.
func (h *Handler) SessionCommand(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "missing_user_id", "user id is required")
		return
	}

	var req CommandRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Command == "" {
		respondError(w, http.StatusBadRequest, "missing_command", "command is required")
		return
	}

	outcome, err := h.commands.Apply(r.Context(), userID, req.Command)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}

	resp := CommandResponseDTO{
		Action:  string(outcome.Action),
		Message: outcome.Message,
		Items:   outcome.Items,
	}
	if resp.Items == nil {
		resp.Items = []domain.CandidateItem{}
	}

	if outcome.Action == domain.ActionConfirmAdd {
		added, err := h.confirmToCart(r.Context(), userID, outcome.Items)
		if err != nil {
			h.respondDomainError(w, err)
			return
		}
		resp.AddedItems = added
		resp.Items = []domain.CandidateItem{}
	}

	respondJSON(w, http.StatusOK, resp)
}

// confirmToCart moves the reviewed items into the cart and clears the
// session. Entries already written stay in the cart if a later add fails;
// the session is left alone so the user can retry the confirm.
func (h *Handler) confirmToCart(ctx context.Context, userID string, items []domain.CandidateItem) ([]domain.CartEntry, error) {
	var added []domain.CartEntry
	for _, item := range items {
		entry, err := h.carts.Add(ctx, userID, domain.Product{
			ID:       item.ID,
			Name:     item.Name,
			Price:    item.Price,
			ImageURL: item.ImageURL,
		}, item.Quantity)
		if err != nil {
			return nil, err
		}
		added = append(added, *entry)
	}

	if err := h.reviews.Clear(ctx, userID); err != nil {
		// The items are in the cart; a stale session is the lesser evil and
		// expires on its own.
		h.log.Error("failed to clear review session after confirm",
			zap.String("user_id", userID),
			zap.Error(err))
	}
	return added, nil
}

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "missing_user_id", "user id is required")
		return
	}

	order, err := h.checkouts.Checkout(r.Context(), userID)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, order)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// respondDomainError maps error kinds onto HTTP statuses.
func (h *Handler) respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrBadRequest):
		respondError(w, http.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, checkout.ErrEmptyCart):
		respondError(w, http.StatusBadRequest, "empty_cart", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		respondError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, review.ErrNoSession):
		respondError(w, http.StatusNotFound, "no_session", err.Error())
	case errors.Is(err, domain.ErrExternalService):
		respondError(w, http.StatusBadGateway, "upstream_failure", err.Error())
	case errors.Is(err, domain.ErrStoreUnavailable):
		respondError(w, http.StatusServiceUnavailable, "store_unavailable", err.Error())
	default:
		h.log.Error("unhandled error", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
