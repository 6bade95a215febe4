package user

import "errors"

type RegisterDTO struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email"    binding:"required"`
	Purpose  string `json:"purpose"  binding:"required"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	DOB      string `json:"dob"` // YYYY-MM-DD, optional
}

type LoginDTO struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

var (
	errUserNotFound  = errors.New("user not found")
	errWrongPassword = errors.New("wrong password")
)
