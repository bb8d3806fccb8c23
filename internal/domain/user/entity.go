package user

import "time"

type Role string

const (
	RoleAdmin   Role = "admin"   // Platform administrator - every company
	RoleManager Role = "manager" // Maintains payroll data of one company
	RoleViewer  Role = "viewer"  // Read-only access to one company
)

// Roles lists the assignable roles in descending privilege.
var Roles = []Role{RoleAdmin, RoleManager, RoleViewer}

type User struct {
	ID              string
	CompanyID       *string
	Email           string
	Name            string
	PasswordHash    *string
	Role            Role
	OAuthProvider   *string
	OAuthProviderID *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsAdmin checks if user is a platform administrator
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanAccessCompany reports whether the user may read data of companyID.
func (u *User) CanAccessCompany(companyID string) bool {
	if u.IsAdmin() {
		return true
	}
	return u.CompanyID != nil && *u.CompanyID == companyID
}

func IsValidRole(role string) bool {
	for _, r := range Roles {
		if string(r) == role {
			return true
		}
	}
	return false
}
