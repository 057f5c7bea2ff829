package quotes

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/hkale/quotes-api/internal/api"
	"github.com/hkale/quotes-api/internal/models"
	"github.com/hkale/quotes-api/internal/store"
)

// QuoteStore defines the interface for quote persistence.
type QuoteStore interface {
	List(ctx context.Context, category string) ([]models.Quote, error)
	Random(ctx context.Context, category string) (*models.Quote, error)
	FindByText(ctx context.Context, text, author string) (*models.Quote, error)
	Insert(ctx context.Context, q *models.Quote) (string, error)
	Update(ctx context.Context, id string, fields bson.M) (*models.Quote, error)
	Delete(ctx context.Context, id string) (*models.Quote, error)
}

// Handler holds quote HTTP handlers.
type Handler struct {
	quotes QuoteStore
	log    *zap.Logger
}

func NewHandler(quotes QuoteStore, log *zap.Logger) *Handler {
	return &Handler{quotes: quotes, log: log}
}

type listResponse struct {
	Success bool           `json:"success"`
	Quotes  []models.Quote `json:"quotes"`
}

type quoteResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message,omitempty"`
	Quote   *models.Quote `json:"quote"`
}

// List returns all quotes, optionally filtered by ?category=.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category != "" && !models.ValidCategory(category) {
		api.WriteError(w, api.BadRequest("Invalid category"))
		return
	}

	quotes, err := h.quotes.List(r.Context(), category)
	if err != nil {
		h.log.Error("list quotes", zap.Error(err))
		api.WriteError(w, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, listResponse{Success: true, Quotes: quotes})
}

// Random returns one uniformly-sampled quote, optionally filtered by ?category=.
func (h *Handler) Random(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category != "" && !models.ValidCategory(category) {
		api.WriteError(w, api.BadRequest("Invalid category"))
		return
	}

	quote, err := h.quotes.Random(r.Context(), category)
	if errors.Is(err, store.ErrNotFound) {
		api.WriteError(w, api.NotFound("No quotes found"))
		return
	}
	if err != nil {
		h.log.Error("random quote", zap.Error(err))
		api.WriteError(w, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, quoteResponse{Success: true, Quote: quote})
}

// Create stores a new quote owned by the authenticated caller.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateQuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Quote == "" || req.Author == "" {
		api.WriteError(w, api.BadRequest("Missing quote or author"))
		return
	}
	if req.Category != "" && !models.ValidCategory(req.Category) {
		api.WriteError(w, api.BadRequest("Invalid category"))
		return
	}
	if len(req.Quote) > models.MaxQuoteLen {
		api.WriteError(w, api.BadRequest("Quote cannot be longer than 200 characters"))
		return
	}
	if len(req.Author) > models.MaxAuthorLen {
		api.WriteError(w, api.BadRequest("Author name cannot be longer than 100 characters"))
		return
	}
	if req.Category == "" {
		req.Category = models.CategoryGeneral
	}

	if _, err := h.quotes.FindByText(r.Context(), req.Quote, req.Author); err == nil {
		api.WriteError(w, api.Conflict("This quote already exists"))
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		h.log.Error("duplicate check", zap.Error(err))
		api.WriteError(w, err)
		return
	}

	userID, _ := r.Context().Value("user_id").(string)
	quote := &models.Quote{
		Quote:     req.Quote,
		Author:    req.Author,
		Category:  req.Category,
		CreatedBy: userID,
	}
	if _, err := h.quotes.Insert(r.Context(), quote); err != nil {
		h.log.Error("insert quote", zap.Error(err))
		api.WriteError(w, err)
		return
	}

	api.WriteJSON(w, http.StatusCreated, quoteResponse{
		Success: true,
		Message: "Quote added successfully",
		Quote:   quote,
	})
}

// Update applies a partial update to the quote addressed by {id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		api.WriteError(w, api.BadRequest("Invalid ID"))
		return
	}

	var req models.UpdateQuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, api.BadRequest("No valid fields to update"))
		return
	}
	if req.Category != "" && !models.ValidCategory(req.Category) {
		api.WriteError(w, api.BadRequest("Invalid category"))
		return
	}
	if len(req.Quote) > models.MaxQuoteLen {
		api.WriteError(w, api.BadRequest("Quote cannot be longer than 200 characters"))
		return
	}
	if len(req.Author) > models.MaxAuthorLen {
		api.WriteError(w, api.BadRequest("Author name cannot be longer than 100 characters"))
		return
	}

	fields := bson.M{}
	if req.Quote != "" {
		fields["quote"] = req.Quote
	}
	if req.Author != "" {
		fields["author"] = req.Author
	}
	if req.Category != "" {
		fields["category"] = req.Category
	}
	if len(fields) == 0 {
		api.WriteError(w, api.BadRequest("No valid fields to update"))
		return
	}

	quote, err := h.quotes.Update(r.Context(), id, fields)
	if errors.Is(err, store.ErrNotFound) {
		api.WriteError(w, api.NotFound("Quote not found"))
		return
	}
	if err != nil {
		h.log.Error("update quote", zap.Error(err))
		api.WriteError(w, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, quoteResponse{
		Success: true,
		Message: "Quote updated successfully",
		Quote:   quote,
	})
}

// Delete removes the quote addressed by {id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		api.WriteError(w, api.BadRequest("Invalid ID"))
		return
	}

	quote, err := h.quotes.Delete(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		api.WriteError(w, api.NotFound("Quote not found"))
		return
	}
	if err != nil {
		h.log.Error("delete quote", zap.Error(err))
		api.WriteError(w, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, quoteResponse{
		Success: true,
		Message: "Quote deleted successfully",
		Quote:   quote,
	})
}
