package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role values stored on User.Role.
const (
	RoleCustomer = 0
	RoleAdmin    = 1
)

// User is a registered shopper or administrator.
// Password holds the bcrypt hash and, like Answer, is never sent to clients.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Password  string             `bson:"password" json:"-"`
	Phone     string             `bson:"phone" json:"phone"`
	Address   string             `bson:"address" json:"address"`
	Answer    string             `bson:"answer" json:"-"`
	Role      int                `bson:"role" json:"role"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ProfileUpdate carries the optional fields of a profile edit. Nil means unchanged.
type ProfileUpdate struct {
	Name     *string
	Password *string
	Phone    *string
	Address  *string
}
