package model

import (
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is keyed by email in the document store. Exactly one refresh token is
// live per user; issuing a new pair overwrites the previous value.
type User struct {
	Email        string    `json:"email" dynamodbav:"email"`
	UserID       string    `json:"userId" dynamodbav:"userId"`
	Name         string    `json:"name" dynamodbav:"name"`
	Password     string    `json:"-" dynamodbav:"password"`
	Role         string    `json:"role" dynamodbav:"role"`
	RefreshToken string    `json:"-" dynamodbav:"refreshToken"`
	CreatedAt    time.Time `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" dynamodbav:"updatedAt"`
}
