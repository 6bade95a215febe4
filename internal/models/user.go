package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserModel represents a registered account.
type UserModel struct {
	ID        primitive.ObjectID `json:"id"        bson:"_id,omitempty"`
	Username  string             `json:"username"  bson:"username"`
	Email     string             `json:"email"     bson:"email"`
	Purpose   string             `json:"purpose"   bson:"purpose"`
	Password  string             `json:"-"         bson:"password"`
	FullName  string             `json:"fullName"  bson:"fullName,omitempty"`
	Phone     string             `json:"phone"     bson:"phone,omitempty"`
	DOB       *time.Time         `json:"dob"       bson:"dob,omitempty"`
	LastLogin *time.Time         `json:"lastLogin" bson:"lastLogin,omitempty"`
	CreatedAt time.Time          `json:"created"   bson:"createdAt"`
	UpdatedAt time.Time          `json:"modified"  bson:"updatedAt"`
}

func (UserModel) CollectionName() string { return "users" }
