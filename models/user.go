package models

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleUser    Role = "user"
)

// ParseRole rejects anything outside the three known roles.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleManager, RoleUser:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role: %q", s)
}

func ParseRoles(ss []string) ([]Role, error) {
	roles := make([]Role, 0, len(ss))
	for _, s := range ss {
		role, err := ParseRole(s)
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, nil
}

func RolesToStrings(roles []Role) []string {
	ss := make([]string, 0, len(roles))
	for _, r := range roles {
		ss = append(ss, string(r))
	}
	return ss
}

type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name     string             `bson:"name" json:"name"`
	LastName string             `bson:"lastName" json:"lastName"`
	Username string             `bson:"username" json:"username"`
	Password string             `bson:"password" json:"-"`
	Email    string             `bson:"email" json:"email"`
	Roles    []Role             `bson:"roles" json:"roles"`
}

// Member is the public projection of a user, embedded in tasks and
// returned wherever the password hash must not leak.
type Member struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username string             `bson:"username" json:"username"`
	Name     string             `bson:"name" json:"name"`
	LastName string             `bson:"lastName" json:"lastName"`
	Email    string             `bson:"email" json:"email"`
}

func (u User) Public() Member {
	return Member{
		ID:       u.ID,
		Username: u.Username,
		Name:     u.Name,
		LastName: u.LastName,
		Email:    u.Email,
	}
}

// Actor is the authenticated caller, reconstructed from JWT claims.
type Actor struct {
	ID    primitive.ObjectID
	Email string
	Roles []Role
}

type RegisterRequest struct {
	Name     string   `json:"name"`
	LastName string   `json:"lastName"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Roles    []string `json:"roles"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
