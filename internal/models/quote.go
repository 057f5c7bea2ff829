package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Quote categories. A quote created without a category defaults to general.
const (
	CategoryMotivation  = "motivation"
	CategoryLove        = "love"
	CategorySuccess     = "success"
	CategoryInspiration = "inspiration"
	CategoryGeneral     = "general"
)

// Categories lists every accepted quote category.
var Categories = []string{
	CategoryMotivation,
	CategoryLove,
	CategorySuccess,
	CategoryInspiration,
	CategoryGeneral,
}

// ValidCategory reports whether c is one of the fixed categories.
func ValidCategory(c string) bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

// Limits enforced on quote fields.
const (
	MaxQuoteLen  = 200
	MaxAuthorLen = 100
)

// Quote is a single quote stored in MongoDB, owned by the user that created it.
type Quote struct {
	ID        primitive.ObjectID `json:"id"         bson:"_id,omitempty"`
	Quote     string             `json:"quote"      bson:"quote"`
	Author    string             `json:"author"     bson:"author"`
	Category  string             `json:"category"   bson:"category"`
	CreatedBy string             `json:"created_by" bson:"created_by"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

// CreateQuoteRequest is the JSON body for POST /api/v1/quotes.
type CreateQuoteRequest struct {
	Quote    string `json:"quote"`
	Author   string `json:"author"`
	Category string `json:"category"`
}

// UpdateQuoteRequest is the JSON body for PUT/PATCH /api/v1/quotes/{id}.
// Empty fields are left untouched.
type UpdateQuoteRequest struct {
	Quote    string `json:"quote"`
	Author   string `json:"author"`
	Category string `json:"category"`
}
