package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/hkale/quotes-api/internal/models"
	"github.com/hkale/quotes-api/internal/store"
)

// Credentials of the seeded admin account.
const (
	AdminEmail    = "admin@gmail.com"
	adminPassword = "123456"
)

// UserStore is the slice of the user store seeding needs.
type UserStore interface {
	GetAdmin(ctx context.Context) (*models.User, error)
	CreateUser(ctx context.Context, email, hashedPassword, role string) (*models.User, error)
}

// QuoteStore is the slice of the quote store seeding needs.
type QuoteStore interface {
	Count(ctx context.Context) (int64, error)
	InsertMany(ctx context.Context, quotes []models.Quote) error
}

// Seed creates the admin account and the default quote set on first run.
// It is idempotent: both steps are guarded by existence checks, so calling
// it on every start is safe.
func Seed(ctx context.Context, users UserStore, quotes QuoteStore, log *zap.Logger) error {
	admin, err := users.GetAdmin(ctx)
	switch {
	case errors.Is(err, store.ErrNotFound):
		hashed, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash admin password: %w", err)
		}
		admin, err = users.CreateUser(ctx, AdminEmail, string(hashed), models.RoleAdmin)
		if err != nil {
			return fmt.Errorf("create admin: %w", err)
		}
		log.Info("admin user created", zap.String("email", AdminEmail))
	case err != nil:
		return fmt.Errorf("lookup admin: %w", err)
	default:
		log.Info("admin user already exists")
	}

	count, err := quotes.Count(ctx)
	if err != nil {
		return fmt.Errorf("count quotes: %w", err)
	}
	if count > 0 {
		log.Info("quotes already exist, skipping insertion")
		return nil
	}

	seed := make([]models.Quote, len(defaultQuotes))
	copy(seed, defaultQuotes)
	for i := range seed {
		seed[i].CreatedBy = admin.ID
	}
	if err := quotes.InsertMany(ctx, seed); err != nil {
		return fmt.Errorf("insert default quotes: %w", err)
	}
	log.Info("default quotes added", zap.Int("count", len(seed)))
	return nil
}

var defaultQuotes = []models.Quote{
	// motivation
	{Quote: "Success is not final, failure is not fatal: It is the courage to continue that counts.", Author: "Winston Churchill", Category: models.CategoryMotivation},
	{Quote: "Your time is limited, so don't waste it living someone else's life.", Author: "Steve Jobs", Category: models.CategoryMotivation},
	{Quote: "The only limit to our realization of tomorrow is our doubts of today.", Author: "Franklin D. Roosevelt", Category: models.CategoryMotivation},
	{Quote: "What you get by achieving your goals is not as important as what you become by achieving your goals.", Author: "Zig Ziglar", Category: models.CategoryMotivation},
	{Quote: "It does not matter how slowly you go as long as you do not stop.", Author: "Confucius", Category: models.CategoryMotivation},

	// love
	{Quote: "To love and be loved is to feel the sun from both sides.", Author: "David Viscott", Category: models.CategoryLove},
	{Quote: "The best thing to hold onto in life is each other.", Author: "Audrey Hepburn", Category: models.CategoryLove},
	{Quote: "In the end, the love you take is equal to the love you make.", Author: "Paul McCartney", Category: models.CategoryLove},
	{Quote: "We loved with a love that was more than love.", Author: "Edgar Allan Poe", Category: models.CategoryLove},
	{Quote: "The greatest thing you'll ever learn is just to love and be loved in return.", Author: "Eden Ahbez", Category: models.CategoryLove},

	// success
	{Quote: "Success usually comes to those who are too busy to be looking for it.", Author: "Henry David Thoreau", Category: models.CategorySuccess},
	{Quote: "The only place where success comes before work is in the dictionary.", Author: "Vidal Sassoon", Category: models.CategorySuccess},
	{Quote: "Success is not how high you have climbed, but how you make a positive difference to the world.", Author: "Roy T. Bennett", Category: models.CategorySuccess},
	{Quote: "Opportunities don't happen, you create them.", Author: "Chris Grosser", Category: models.CategorySuccess},
	{Quote: "Success is walking from failure to failure with no loss of enthusiasm.", Author: "Winston Churchill", Category: models.CategorySuccess},

	// inspiration
	{Quote: "You miss 100% of the shots you don't take.", Author: "Wayne Gretzky", Category: models.CategoryInspiration},
	{Quote: "It always seems impossible until it's done.", Author: "Nelson Mandela", Category: models.CategoryInspiration},
	{Quote: "The only way to do great work is to love what you do.", Author: "Steve Jobs", Category: models.CategoryInspiration},
	{Quote: "Act as if what you do makes a difference. It does.", Author: "William James", Category: models.CategoryInspiration},
	{Quote: "The best way to predict the future is to create it.", Author: "Abraham Lincoln", Category: models.CategoryInspiration},

	// general
	{Quote: "The purpose of life is not to be happy. It is to be useful, to be honorable, to be compassionate, to have it make some difference that you have lived and lived well.", Author: "Ralph Waldo Emerson", Category: models.CategoryGeneral},
	{Quote: "Success is not how high you have climbed, but how you make a positive difference to the world.", Author: "Roy T. Bennett", Category: models.CategoryGeneral},
	{Quote: "You only live once, but if you do it right, once is enough.", Author: "Mae West", Category: models.CategoryGeneral},
	{Quote: "You have within you right now, everything you need to deal with whatever the world can throw at you.", Author: "Brian Tracy", Category: models.CategoryGeneral},
	{Quote: "It is never too late to be what you might have been.", Author: "George Eliot", Category: models.CategoryGeneral},
}
