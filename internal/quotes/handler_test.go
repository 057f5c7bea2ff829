package quotes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/hkale/quotes-api/internal/models"
	"github.com/hkale/quotes-api/internal/store"
)

type fakeQuoteStore struct {
	quotes []models.Quote
}

func (f *fakeQuoteStore) List(_ context.Context, category string) ([]models.Quote, error) {
	out := []models.Quote{}
	for _, q := range f.quotes {
		if category == "" || q.Category == category {
			out = append(out, q)
		}
	}
	return out, nil
}

func (f *fakeQuoteStore) Random(_ context.Context, category string) (*models.Quote, error) {
	for _, q := range f.quotes {
		if category == "" || q.Category == category {
			return &q, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeQuoteStore) FindByText(_ context.Context, text, author string) (*models.Quote, error) {
	for _, q := range f.quotes {
		if q.Quote == text && q.Author == author {
			return &q, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeQuoteStore) Insert(_ context.Context, q *models.Quote) (string, error) {
	q.ID = primitive.NewObjectID()
	f.quotes = append(f.quotes, *q)
	return q.ID.Hex(), nil
}

func (f *fakeQuoteStore) Update(_ context.Context, id string, fields bson.M) (*models.Quote, error) {
	for i, q := range f.quotes {
		if q.ID.Hex() == id {
			if v, ok := fields["quote"].(string); ok {
				f.quotes[i].Quote = v
			}
			if v, ok := fields["author"].(string); ok {
				f.quotes[i].Author = v
			}
			if v, ok := fields["category"].(string); ok {
				f.quotes[i].Category = v
			}
			return &f.quotes[i], nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeQuoteStore) Delete(_ context.Context, id string) (*models.Quote, error) {
	for i, q := range f.quotes {
		if q.ID.Hex() == id {
			f.quotes = append(f.quotes[:i], f.quotes[i+1:]...)
			return &q, nil
		}
	}
	return nil, store.ErrNotFound
}

func newTestHandler(seed ...models.Quote) (*Handler, *fakeQuoteStore) {
	fs := &fakeQuoteStore{}
	for _, q := range seed {
		q.ID = primitive.NewObjectID()
		fs.quotes = append(fs.quotes, q)
	}
	return NewHandler(fs, zap.NewNop()), fs
}

// newTestRouter mounts the handler the way main does, minus authentication:
// the caller identity is injected directly.
func newTestRouter(h *Handler, userID string) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(context.WithValue(req.Context(), "user_id", userID)))
		})
	})
	r.Get("/quotes", h.List)
	r.Get("/quotes/random", h.Random)
	r.Post("/quotes", h.Create)
	r.Put("/quotes/{id}", h.Update)
	r.Patch("/quotes/{id}", h.Update)
	r.Delete("/quotes/{id}", h.Delete)
	return r
}

func do(t *testing.T, router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestListInvalidCategory(t *testing.T) {
	h, _ := newTestHandler()
	router := newTestRouter(h, "user-1")

	rec := do(t, router, http.MethodGet, "/quotes?category=bogus", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestListFiltersByCategory(t *testing.T) {
	h, _ := newTestHandler(
		models.Quote{Quote: "Q1", Author: "A", Category: models.CategoryLove},
		models.Quote{Quote: "Q2", Author: "B", Category: models.CategoryGeneral},
	)
	router := newTestRouter(h, "user-1")

	rec := do(t, router, http.MethodGet, "/quotes?category=love", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp listResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Quotes) != 1 || resp.Quotes[0].Category != models.CategoryLove {
		t.Fatalf("expected exactly the love quote, got %+v", resp.Quotes)
	}
}

func TestListEmptyIsNotNull(t *testing.T) {
	h, _ := newTestHandler()
	router := newTestRouter(h, "user-1")

	rec := do(t, router, http.MethodGet, "/quotes", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"quotes":[]`) {
		t.Fatalf("expected empty quotes array, got %s", rec.Body.String())
	}
}

func TestRandomEmpty(t *testing.T) {
	h, _ := newTestHandler()
	router := newTestRouter(h, "user-1")

	rec := do(t, router, http.MethodGet, "/quotes/random", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestRandomByCategory(t *testing.T) {
	h, _ := newTestHandler(
		models.Quote{Quote: "Q1", Author: "A", Category: models.CategoryLove},
		models.Quote{Quote: "Q2", Author: "B", Category: models.CategoryGeneral},
	)
	router := newTestRouter(h, "user-1")

	rec := do(t, router, http.MethodGet, "/quotes/random?category=general", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp quoteResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Quote == nil || resp.Quote.Category != models.CategoryGeneral {
		t.Fatalf("expected a general quote, got %+v", resp.Quote)
	}
}

func TestCreateMissingFields(t *testing.T) {
	h, _ := newTestHandler()
	router := newTestRouter(h, "user-1")

	for _, body := range []string{`{}`, `{"quote":"Q1"}`, `{"author":"A"}`} {
		rec := do(t, router, http.MethodPost, "/quotes", body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %q: expected 400, got %d", body, rec.Code)
		}
	}
}

func TestCreateInvalidCategory(t *testing.T) {
	h, _ := newTestHandler()
	router := newTestRouter(h, "user-1")

	rec := do(t, router, http.MethodPost, "/quotes", `{"quote":"Q1","author":"A","category":"bogus"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCreateTooLong(t *testing.T) {
	h, _ := newTestHandler()
	router := newTestRouter(h, "user-1")

	long := strings.Repeat("x", models.MaxQuoteLen+1)
	rec := do(t, router, http.MethodPost, "/quotes", `{"quote":"`+long+`","author":"A"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCreateSetsOwnerAndDefaultCategory(t *testing.T) {
	h, fs := newTestHandler()
	router := newTestRouter(h, "user-1")

	rec := do(t, router, http.MethodPost, "/quotes", `{"quote":"Q1","author":"A"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if len(fs.quotes) != 1 {
		t.Fatalf("expected one stored quote, got %d", len(fs.quotes))
	}
	if got := fs.quotes[0]; got.CreatedBy != "user-1" || got.Category != models.CategoryGeneral {
		t.Fatalf("unexpected stored quote %+v", got)
	}
}

func TestCreateDuplicate(t *testing.T) {
	h, _ := newTestHandler()
	router := newTestRouter(h, "user-1")

	if rec := do(t, router, http.MethodPost, "/quotes", `{"quote":"Q1","author":"X"}`); rec.Code != http.StatusCreated {
		t.Fatalf("first create: expected 201, got %d", rec.Code)
	}
	if rec := do(t, router, http.MethodPost, "/quotes", `{"quote":"Q1","author":"X"}`); rec.Code != http.StatusConflict {
		t.Fatalf("duplicate create: expected 409, got %d", rec.Code)
	}
	// Same text under a different author is a different quote.
	if rec := do(t, router, http.MethodPost, "/quotes", `{"quote":"Q1","author":"Y"}`); rec.Code != http.StatusCreated {
		t.Fatalf("different author: expected 201, got %d", rec.Code)
	}
}

func TestUpdateInvalidID(t *testing.T) {
	h, _ := newTestHandler()
	router := newTestRouter(h, "user-1")

	rec := do(t, router, http.MethodPut, "/quotes/not-hex", `{"quote":"new"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestUpdateEmptyFieldSet(t *testing.T) {
	h, fs := newTestHandler(models.Quote{Quote: "Q1", Author: "A", Category: models.CategoryGeneral})
	router := newTestRouter(h, "user-1")

	rec := do(t, router, http.MethodPut, "/quotes/"+fs.quotes[0].ID.Hex(), `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestUpdateNotFound(t *testing.T) {
	h, _ := newTestHandler()
	router := newTestRouter(h, "user-1")

	rec := do(t, router, http.MethodPut, "/quotes/"+primitive.NewObjectID().Hex(), `{"quote":"new"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestUpdatePartial(t *testing.T) {
	h, fs := newTestHandler(models.Quote{Quote: "Q1", Author: "A", Category: models.CategoryGeneral})
	router := newTestRouter(h, "user-1")

	rec := do(t, router, http.MethodPatch, "/quotes/"+fs.quotes[0].ID.Hex(), `{"author":"B"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := fs.quotes[0]; got.Author != "B" || got.Quote != "Q1" {
		t.Fatalf("expected only the author to change, got %+v", got)
	}
}

func TestDeleteInvalidID(t *testing.T) {
	h, _ := newTestHandler()
	router := newTestRouter(h, "user-1")

	rec := do(t, router, http.MethodDelete, "/quotes/not-hex", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestDelete(t *testing.T) {
	h, fs := newTestHandler(models.Quote{Quote: "Q1", Author: "A", Category: models.CategoryGeneral})
	router := newTestRouter(h, "user-1")

	rec := do(t, router, http.MethodDelete, "/quotes/"+fs.quotes[0].ID.Hex(), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(fs.quotes) != 0 {
		t.Fatal("expected quote to be deleted")
	}

	rec = do(t, router, http.MethodDelete, "/quotes/"+primitive.NewObjectID().Hex(), "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
