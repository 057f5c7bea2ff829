package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/hkale/quotes-api/internal/api"
	"github.com/hkale/quotes-api/internal/models"
	"github.com/hkale/quotes-api/internal/store"
	"github.com/hkale/quotes-api/internal/token"
)

// UserStore defines the interface for user persistence.
type UserStore interface {
	CreateUser(ctx context.Context, email, hashedPassword, role string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	DeleteUser(ctx context.Context, id string) error
}

// QuoteStore is the slice of the quote store the account-deletion cascade needs.
type QuoteStore interface {
	DeleteByOwner(ctx context.Context, userID string) (int64, error)
}

// TokenRegistry tracks which refresh tokens are still live.
type TokenRegistry interface {
	Save(ctx context.Context, jti, userID string, ttl time.Duration) error
	UserID(ctx context.Context, jti string) (string, error)
	Revoke(ctx context.Context, jti string) error
}

// Handler holds auth-related HTTP handlers.
type Handler struct {
	users    UserStore
	quotes   QuoteStore
	registry TokenRegistry
	tokens   *token.Service
	log      *zap.Logger
}

func NewHandler(users UserStore, quotes QuoteStore, registry TokenRegistry, tokens *token.Service, log *zap.Logger) *Handler {
	return &Handler{users: users, quotes: quotes, registry: registry, tokens: tokens, log: log}
}

type authData struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// SignUp creates a new user and signs it in.
func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req models.SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Password == "" {
		api.WriteError(w, api.BadRequest("Missing email or password"))
		return
	}
	if len(req.Password) < 6 {
		api.WriteError(w, api.BadRequest("Password must be at least 6 characters long"))
		return
	}

	if _, err := h.users.GetUserByEmail(r.Context(), req.Email); err == nil {
		api.WriteError(w, api.Conflict("The email address already exists"))
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		h.log.Error("lookup user", zap.Error(err))
		api.WriteError(w, err)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.log.Error("hash password", zap.Error(err))
		api.WriteError(w, err)
		return
	}

	user, err := h.users.CreateUser(r.Context(), req.Email, string(hashed), models.RoleUser)
	if errors.Is(err, store.ErrDuplicate) {
		api.WriteError(w, api.Conflict("The email address already exists"))
		return
	}
	if err != nil {
		h.log.Error("create user", zap.Error(err))
		api.WriteError(w, err)
		return
	}

	accessToken, err := h.issuePair(w, r, user)
	if err != nil {
		h.log.Error("issue tokens", zap.Error(err))
		api.WriteError(w, err)
		return
	}

	h.log.Info("user signed up", zap.String("user_id", user.ID))
	api.WriteJSON(w, http.StatusCreated, api.Response{
		Success: true,
		Message: "Signed up successfully",
		Data:    authData{Token: accessToken, User: user},
	})
}

// SignIn verifies credentials and issues a fresh token pair.
func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req models.SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Password == "" {
		api.WriteError(w, api.BadRequest("Missing email or password"))
		return
	}

	user, err := h.users.GetUserByEmail(r.Context(), req.Email)
	if errors.Is(err, store.ErrNotFound) {
		api.WriteError(w, api.NotFound("Invalid email address"))
		return
	}
	if err != nil {
		h.log.Error("lookup user", zap.Error(err))
		api.WriteError(w, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		api.WriteError(w, api.Unauthorized("Invalid password"))
		return
	}

	accessToken, err := h.issuePair(w, r, user)
	if err != nil {
		h.log.Error("issue tokens", zap.Error(err))
		api.WriteError(w, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, api.Response{
		Success: true,
		Message: "Signed in successfully",
		Data:    authData{Token: accessToken, User: user},
	})
}

// SignOut revokes the refresh token and clears its cookie. Always succeeds.
func (h *Handler) SignOut(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(RefreshCookie); err == nil {
		if claims, err := h.tokens.VerifyRefresh(cookie.Value); err == nil {
			if err := h.registry.Revoke(r.Context(), claims.ID); err != nil {
				h.log.Warn("revoke refresh token", zap.Error(err))
			}
		}
	}
	h.clearRefreshCookie(w)

	api.WriteJSON(w, http.StatusOK, api.Response{Success: true, Message: "Signed out successfully"})
}

type refreshResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}

// Refresh exchanges a live refresh-token cookie for a new access token,
// rotating the refresh token in the process. A rotated-away or revoked
// refresh token is rejected.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(RefreshCookie)
	if err != nil {
		api.WriteError(w, api.BadRequest("Missing refresh token"))
		return
	}

	claims, err := h.tokens.VerifyRefresh(cookie.Value)
	if err != nil {
		api.WriteError(w, api.Forbidden("Invalid refresh token"))
		return
	}

	owner, err := h.registry.UserID(r.Context(), claims.ID)
	if err != nil {
		h.log.Error("refresh registry lookup", zap.Error(err))
		api.WriteError(w, err)
		return
	}
	if owner == "" {
		api.WriteError(w, api.Forbidden("Invalid refresh token"))
		return
	}

	if err := h.registry.Revoke(r.Context(), claims.ID); err != nil {
		h.log.Error("revoke refresh token", zap.Error(err))
		api.WriteError(w, err)
		return
	}

	accessToken, err := h.issuePair(w, r, &models.User{ID: claims.UserID, Role: claims.Role})
	if err != nil {
		h.log.Error("issue tokens", zap.Error(err))
		api.WriteError(w, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, refreshResponse{Success: true, Token: accessToken})
}

// DeleteAccount removes the caller's user record and cascades deletion of
// every quote it owns. Admin accounts are exempt.
func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("user_id").(string)
	if !ok || userID == "" {
		api.WriteError(w, api.Unauthorized("Unauthorized"))
		return
	}
	if role, _ := r.Context().Value("user_role").(string); role == models.RoleAdmin {
		api.WriteError(w, api.Forbidden("Admin accounts cannot be deleted"))
		return
	}

	if _, err := h.users.GetUserByID(r.Context(), userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			api.WriteError(w, api.NotFound("User not found"))
			return
		}
		h.log.Error("lookup user", zap.Error(err))
		api.WriteError(w, err)
		return
	}

	// Quotes first: a crash between the two steps leaves a user that can
	// simply retry, never orphaned quotes.
	deleted, err := h.quotes.DeleteByOwner(r.Context(), userID)
	if err != nil {
		h.log.Error("cascade delete quotes", zap.Error(err))
		api.WriteError(w, err)
		return
	}
	if err := h.users.DeleteUser(r.Context(), userID); err != nil {
		h.log.Error("delete user", zap.Error(err))
		api.WriteError(w, err)
		return
	}

	h.clearRefreshCookie(w)
	h.log.Info("account deleted", zap.String("user_id", userID), zap.Int64("quotes_deleted", deleted))
	api.WriteJSON(w, http.StatusOK, api.Response{Success: true, Message: "Account deleted successfully"})
}

// issuePair issues an access/refresh pair, registers the refresh jti, and
// sets the refresh cookie.
func (h *Handler) issuePair(w http.ResponseWriter, r *http.Request, user *models.User) (string, error) {
	accessToken, err := h.tokens.IssueAccess(user.ID, user.Role)
	if err != nil {
		return "", err
	}
	refreshToken, jti, err := h.tokens.IssueRefresh(user.ID, user.Role)
	if err != nil {
		return "", err
	}
	if err := h.registry.Save(r.Context(), jti, user.ID, h.tokens.RefreshTTL()); err != nil {
		return "", err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookie,
		Value:    refreshToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(h.tokens.RefreshTTL() / time.Second),
	})
	return accessToken, nil
}

func (h *Handler) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   -1,
	})
}
