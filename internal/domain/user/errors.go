package user

import "errors"

var (
	ErrUserNotFound            = errors.New("user not found")
	ErrUserEmailExists         = errors.New("email already registered")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
	ErrCompanyIDRequired       = errors.New("company ID is required")
	ErrCompanyAccessDenied     = errors.New("access to this company is not allowed")
	ErrCannotDeleteSelf        = errors.New("users cannot delete their own account")
)
