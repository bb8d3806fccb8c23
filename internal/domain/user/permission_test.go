package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasPermission(t *testing.T) {
	tests := []struct {
		role       Role
		permission Permission
		want       bool
	}{
		{RoleAdmin, PermissionUserManage, true},
		{RoleAdmin, PermissionCompanyManage, true},
		{RoleManager, PermissionPayrollManage, true},
		{RoleManager, PermissionReportGenerate, true},
		{RoleManager, PermissionCompanyManage, false},
		{RoleManager, PermissionUserManage, false},
		{RoleViewer, PermissionPayrollView, true},
		{RoleViewer, PermissionExportCreate, true},
		{RoleViewer, PermissionPayrollManage, false},
		{RoleViewer, PermissionReportGenerate, false},
		{Role("pending"), PermissionPayrollView, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role)+"/"+string(tt.permission), func(t *testing.T) {
			assert.Equal(t, tt.want, HasPermission(tt.role, tt.permission))
		})
	}
}

func TestUser_CanAccessCompany(t *testing.T) {
	companyID := "0190b2a0-0000-7000-8000-000000000001"
	other := "0190b2a0-0000-7000-8000-000000000002"

	admin := User{Role: RoleAdmin}
	assert.True(t, admin.CanAccessCompany(other))

	manager := User{Role: RoleManager, CompanyID: &companyID}
	assert.True(t, manager.CanAccessCompany(companyID))
	assert.False(t, manager.CanAccessCompany(other))

	orphan := User{Role: RoleViewer}
	assert.False(t, orphan.CanAccessCompany(companyID))
}

func TestCreateUserRequest_Validate(t *testing.T) {
	companyID := "0190b2a0-0000-7000-8000-000000000001"

	valid := CreateUserRequest{Email: "viewer@example.com", Name: "Viewer", Password: "password123", Role: "viewer", CompanyID: &companyID}
	assert.NoError(t, valid.Validate())

	admin := CreateUserRequest{Email: "root@example.com", Name: "Root", Password: "password123", Role: "admin"}
	assert.NoError(t, admin.Validate())

	missingCompany := CreateUserRequest{Email: "m@example.com", Name: "M", Password: "password123", Role: "manager"}
	assert.Error(t, missingCompany.Validate())

	badRole := CreateUserRequest{Email: "x@example.com", Name: "X", Password: "password123", Role: "owner", CompanyID: &companyID}
	err := badRole.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "role")
}
