package user

import (
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/pkg/validator"
)

// UserResponse represents user data in API responses
type UserResponse struct {
	ID            string  `json:"id"`
	CompanyID     *string `json:"company_id,omitempty"`
	Email         string  `json:"email"`
	Name          string  `json:"name"`
	Role          string  `json:"role"`
	OAuthProvider *string `json:"oauth_provider,omitempty"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

// CreateUserRequest represents request to create a new user
type CreateUserRequest struct {
	CompanyID *string `json:"company_id,omitempty"`
	Email     string  `json:"email"`
	Name      string  `json:"name"`
	Password  string  `json:"password"`
	Role      string  `json:"role"`
}

func (r *CreateUserRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Email) {
		errs.Add("email", "email is required")
	} else if !validator.IsValidEmail(r.Email) {
		errs.Add("email", "invalid email format")
	}

	if validator.IsEmpty(r.Name) {
		errs.Add("name", "name is required")
	} else if validator.ExceedsLength(r.Name, 255) {
		errs.Add("name", "name must not exceed 255 characters")
	}

	if validator.IsEmpty(r.Password) {
		errs.Add("password", "password is required")
	} else if len(r.Password) < 8 {
		errs.Add("password", "password must be at least 8 characters")
	}

	if validator.IsEmpty(r.Role) {
		errs.Add("role", "role is required")
	} else if !IsValidRole(r.Role) {
		errs.Add("role", "invalid role")
	} else if Role(r.Role) != RoleAdmin && (r.CompanyID == nil || validator.IsEmpty(*r.CompanyID)) {
		errs.Add("company_id", "company_id is required for non-admin users")
	}

	return errs.Err()
}

// UpdateUserRequest represents request to update user
type UpdateUserRequest struct {
	ID        string  `json:"-"`
	Name      *string `json:"name,omitempty"`
	Password  *string `json:"password,omitempty"`
	Role      *string `json:"role,omitempty"`
	CompanyID *string `json:"company_id,omitempty"`
}

func (r *UpdateUserRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}

	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs.Add("name", "name must not be empty")
	}

	if r.Password != nil {
		if validator.IsEmpty(*r.Password) {
			errs.Add("password", "password must not be empty")
		} else if len(*r.Password) < 8 {
			errs.Add("password", "password must be at least 8 characters")
		}
	}

	if r.Role != nil && !IsValidRole(*r.Role) {
		errs.Add("role", "invalid role")
	}

	if r.CompanyID != nil && validator.IsEmpty(*r.CompanyID) {
		errs.Add("company_id", "company_id must not be empty")
	}

	return errs.Err()
}

// ListUsersFilter narrows a user listing to one company when CompanyID is set.
type ListUsersFilter struct {
	CompanyID *string
}
