package model

import (
	"time"
)

// TechProduct is keyed by productId, derived as "<category-slug>-<unix ms>".
// Category is duplicated into a secondary index for category-scoped listing.
type TechProduct struct {
	ProductID     string    `json:"productId" dynamodbav:"productId"`
	Name          string    `json:"name" dynamodbav:"name"`
	Brand         string    `json:"brand" dynamodbav:"brand"`
	Category      string    `json:"category" dynamodbav:"category"`
	Price         float64   `json:"price" dynamodbav:"price"`
	Rating        float64   `json:"rating" dynamodbav:"rating"`
	Specs         []string  `json:"specs" dynamodbav:"specs"`
	Description   string    `json:"description" dynamodbav:"description"`
	AffiliateLink string    `json:"affiliateLink" dynamodbav:"affiliateLink"`
	ImageURL      string    `json:"imageUrl" dynamodbav:"imageUrl"`
	CreatedAt     time.Time `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt" dynamodbav:"updatedAt"`
}

// ProductPage is one forward page of a paginated product scan. LastEvaluatedKey
// is opaque to clients; passing it back verbatim continues the scan.
type ProductPage struct {
	Items            []TechProduct `json:"items"`
	LastEvaluatedKey string        `json:"lastEvaluatedKey,omitempty"`
	HasMore          bool          `json:"hasMore"`
}
