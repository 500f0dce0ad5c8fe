package domain

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role type to distinguish between user roles
type Role string

const (
	RoleTrainer Role = "Trainer"
	RoleClient  Role = "Client"
)

// ParseRole accepts the canonical role names case-insensitively.
func ParseRole(s string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trainer":
		return RoleTrainer, true
	case "client":
		return RoleClient, true
	}
	return "", false
}

// User is an authenticated account (either a Trainer or a Client).
// It is distinct from the Client business record a trainer manages.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`    // Stored lowercased, unique
	PasswordHash string             `bson:"passwordHash" json:"-"` // Never expose this via JSON
	Role         Role               `bson:"role" json:"role"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}


// HomePath is the authenticated landing route for the user's role.
func (r Role) HomePath() string {
	if r == RoleClient {
		return "/dashboard"
	}
	return "/clients"
}
