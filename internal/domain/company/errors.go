package company

import "errors"

var (
	ErrCompanyNotFound       = errors.New("company not found")
	ErrCompanyUsernameExists = errors.New("company username already exists")
	ErrNoFieldsToUpdate      = errors.New("no updatable fields provided")
	ErrFileSizeExceeds       = errors.New("file size exceeds the 5MB limit")
	ErrFileTypeNotAllowed    = errors.New("file type not allowed")
	ErrInvalidImage          = errors.New("logo is not a valid jpeg or png image")
)
