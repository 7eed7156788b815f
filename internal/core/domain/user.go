package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is the authorization level of an identity.
type Role string

const (
	RoleUser      Role = "user"
	RoleGuide     Role = "guide"
	RoleLeadGuide Role = "lead-guide"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleGuide, RoleLeadGuide, RoleAdmin:
		return true
	}
	return false
}

// User is an authenticated principal. Credential fields never leave the
// process in JSON.
type User struct {
	ID                   primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name                 string             `json:"name" bson:"name"`
	Email                string             `json:"email" bson:"email"`
	Photo                string             `json:"photo,omitempty" bson:"photo,omitempty"`
	Role                 Role               `json:"role" bson:"role"`
	Password             string             `json:"-" bson:"password"`
	PasswordChangedAt    *time.Time         `json:"-" bson:"passwordChangedAt,omitempty"`
	PasswordResetToken   string             `json:"-" bson:"passwordResetToken,omitempty"`
	PasswordResetExpires *time.Time         `json:"-" bson:"passwordResetExpires,omitempty"`
	Active               bool               `json:"-" bson:"active"`
	CreatedAt            time.Time          `json:"createdAt" bson:"createdAt"`
}

// PrepareInsert resets the server-owned fields of a new user.
func (u *User) PrepareInsert(at time.Time) {
	u.ID = primitive.NilObjectID
	u.CreatedAt = at
}

// ChangedPasswordAfter reports whether the password was changed after a token
// issued at issuedAt. Comparison is done at second resolution, the precision
// of JWT timestamps.
func (u *User) ChangedPasswordAfter(issuedAt time.Time) bool {
	if u.PasswordChangedAt == nil {
		return false
	}
	return u.PasswordChangedAt.Unix() > issuedAt.Unix()
}

// Session is the result of a successful authentication.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *User
}
