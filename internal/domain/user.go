package domain

import (
	"time"
)

// Role type to distinguish between account kinds
type Role string

// Define constants for roles
const (
	RoleTrainer Role = "trainer"
	RoleStudent Role = "student"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleTrainer || r == RoleStudent
}

// User holds the fields shared by every account (Student or Trainer).
type User struct {
	ID           string    `bson:"_id" json:"id"`
	Name         string    `bson:"name" json:"name"`
	Email        string    `bson:"email" json:"email"`
	Phone        string    `bson:"phone" json:"phone"`
	Photo        string    `bson:"photo,omitempty" json:"photo,omitempty"`
	PasswordHash string    `bson:"passwordHash,omitempty" json:"-"` // Never expose this via JSON
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
}

// Account is either a Student or a Trainer. Dispatch with a type switch:
//
//	switch a := acc.(type) {
//	case Student: ...
//	case Trainer: ...
//	}
type Account interface {
	Profile() User
	Role() Role
	isAccount()
}

// Profile edits the user-facing fields of an account.
type Profile struct {
	Name  string
	Email string
	Phone string
	Photo string
}

func (u User) withProfile(p Profile) User {
	u.Name = p.Name
	u.Email = p.Email
	u.Phone = p.Phone
	u.Photo = p.Photo
	return u
}

// AccountID is a shortcut for acc.Profile().ID that tolerates a nil account.
func AccountID(acc Account) string {
	if acc == nil {
		return ""
	}
	return acc.Profile().ID
}
