package domain

import "errors"

var (
	ErrUsernameRequired  = errors.New("username is required")
	ErrMalformedEmail    = errors.New("invalid email format")
	ErrMalformedPassword = errors.New("password must contain at least 8 characters, one letter and one number")
	ErrUnknownRole       = errors.New("unknown role")
	ErrInvalidCredential = errors.New("invalid password")
	ErrUserNotFound      = errors.New("user not found")
	ErrUsernameExists    = errors.New("username already exists")
)
