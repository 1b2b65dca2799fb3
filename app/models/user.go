package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Roles lists every assignable role.
var Roles = []string{RoleAdmin, RoleUser}

// User is an account. Password holds the bcrypt hash and is never serialised.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Email     string             `bson:"email"         json:"email"`
	Password  string             `bson:"password"      json:"-"`
	FirstName string             `bson:"firstName,omitempty" json:"firstName,omitempty"`
	LastName  string             `bson:"lastName,omitempty"  json:"lastName,omitempty"`
	Phone     string             `bson:"phone,omitempty"     json:"phone,omitempty"`
	Address   string             `bson:"address,omitempty"   json:"address,omitempty"`
	Roles     []string           `bson:"role"          json:"role"`
	CreatedAt time.Time          `bson:"createdAt"     json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"     json:"updatedAt"`
}

// Profile is the public projection returned on sign-in.
type Profile struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

func (u User) Profile() Profile {
	return Profile{FirstName: u.FirstName, LastName: u.LastName, Email: u.Email}
}

// IsAdmin reports whether u holds the admin role.
func (u User) IsAdmin() bool {
	for _, r := range u.Roles {
		if r == RoleAdmin {
			return true
		}
	}
	return false
}
