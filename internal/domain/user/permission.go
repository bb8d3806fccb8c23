package user

import "slices"

type Permission string

const (
	// Self Management
	PermissionViewOwnProfile Permission = "profile.view_own"

	// Payroll records
	PermissionPayrollView   Permission = "payroll.view"
	PermissionPayrollManage Permission = "payroll.manage"

	// Analytics and exports
	PermissionAnalyticsView Permission = "analytics.view"
	PermissionExportCreate  Permission = "export.create"

	// Narrative reports
	PermissionReportView     Permission = "report.view"
	PermissionReportGenerate Permission = "report.generate"

	// Company Management
	PermissionCompanyView         Permission = "company.view"
	PermissionCompanyManage       Permission = "company.manage"
	PermissionCompanyBrandingEdit Permission = "company.branding_edit"

	// User Management
	PermissionUserManage Permission = "user.manage"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermissionViewOwnProfile,
		PermissionPayrollView,
		PermissionPayrollManage,
		PermissionAnalyticsView,
		PermissionExportCreate,
		PermissionReportView,
		PermissionReportGenerate,
		PermissionCompanyView,
		PermissionCompanyManage,
		PermissionCompanyBrandingEdit,
		PermissionUserManage,
	},
	RoleManager: {
		PermissionViewOwnProfile,
		PermissionPayrollView,
		PermissionPayrollManage,
		PermissionAnalyticsView,
		PermissionExportCreate,
		PermissionReportView,
		PermissionReportGenerate,
		PermissionCompanyView,
		PermissionCompanyBrandingEdit,
	},
	RoleViewer: {
		PermissionViewOwnProfile,
		PermissionPayrollView,
		PermissionAnalyticsView,
		PermissionExportCreate,
		PermissionReportView,
		PermissionCompanyView,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}
	return slices.Contains(permissions, permission)
}
