package models

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles stored in User.UserRole.
const (
	RoleUser  = "user"
	RoleTutor = "tutor"
	RoleAdmin = "admin"

	// NoRoleFound is reported by the role lookup for unknown emails.
	NoRoleFound = "norolefound"
)

// User is a registered account. Email is unique.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Email     string             `bson:"email" json:"email"`
	Name      string             `bson:"name,omitempty" json:"name,omitempty"`
	PhotoURL  string             `bson:"photoURL,omitempty" json:"photoURL,omitempty"`
	Phone     string             `bson:"phone,omitempty" json:"phone,omitempty"`
	UserRole  string             `bson:"userRole" json:"userRole"`
	IsAdmin   bool               `bson:"isAdmin" json:"isAdmin"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// UserInput is the registration payload. Admin cannot be self-assigned.
type UserInput struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	PhotoURL string `json:"photoURL"`
	Phone    string `json:"phone"`
	UserRole string `json:"userRole"`
}

func (in UserInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Email, validation.Required, is.Email),
		validation.Field(&in.Name, validation.Length(0, 120)),
		validation.Field(&in.PhotoURL, is.URL),
		validation.Field(&in.UserRole, validation.In(RoleUser, RoleTutor)),
	)
}

// User builds the record to insert.
func (in UserInput) User(now time.Time) User {
	role := in.UserRole
	if role == "" {
		role = RoleUser
	}
	return User{
		Email:     strings.TrimSpace(in.Email),
		Name:      in.Name,
		PhotoURL:  in.PhotoURL,
		Phone:     in.Phone,
		UserRole:  role,
		IsAdmin:   false,
		CreatedAt: now,
	}
}

// UserSelfEditable are the fields a user may change on their own record.
var UserSelfEditable = FieldSet{
	"name":     String,
	"photoURL": String,
	"phone":    String,
}

// UserAdminEditable are the fields an admin may change on any user.
var UserAdminEditable = FieldSet{
	"name":     String,
	"photoURL": String,
	"phone":    String,
	"userRole": String,
	"isAdmin":  Bool,
}
