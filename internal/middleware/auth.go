package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/hkale/quotes-api/internal/api"
	"github.com/hkale/quotes-api/internal/models"
	"github.com/hkale/quotes-api/internal/store"
	"github.com/hkale/quotes-api/internal/token"
)

// RequireAuth validates the bearer token and injects the caller's id and
// role into the request context.
func RequireAuth(tokens *token.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
				api.WriteError(w, api.Unauthorized("Unauthorized"))
				return
			}

			claims, err := tokens.VerifyAccess(strings.TrimPrefix(authHeader, "Bearer "))
			if err != nil {
				api.WriteError(w, api.Forbidden("Token expired or invalid"))
				return
			}

			ctx := context.WithValue(r.Context(), "user_id", claims.UserID)
			ctx = context.WithValue(ctx, "user_role", claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// QuoteLoader is the slice of the quote store the ownership gate needs.
type QuoteLoader interface {
	GetByID(ctx context.Context, id string) (*models.Quote, error)
}

// RequireQuoteOwner loads the quote addressed by the {id} URL parameter and
// rejects callers that did not create it. Admins get no override: the check
// compares the creator to the caller regardless of role.
func RequireQuoteOwner(quotes QuoteLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := chi.URLParam(r, "id")
			if _, err := primitive.ObjectIDFromHex(id); err != nil {
				api.WriteError(w, api.BadRequest("Invalid ID"))
				return
			}

			quote, err := quotes.GetByID(r.Context(), id)
			if errors.Is(err, store.ErrNotFound) {
				api.WriteError(w, api.NotFound("Quote not found"))
				return
			}
			if err != nil {
				api.WriteError(w, err)
				return
			}

			userID, _ := r.Context().Value("user_id").(string)
			if quote.CreatedBy != userID {
				api.WriteError(w, api.Forbidden("Forbidden"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
