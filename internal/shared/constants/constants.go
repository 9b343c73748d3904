package constants

const (
	// Default pagination
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	// Context keys
	ContextKeyUserID   = "user_id"
	ContextKeyUserRole = "user_role"

	// Admin operator roles (casbin subjects)
	RoleUtilityAdmin  = "utility-admin"
	RoleUtilityViewer = "utility-viewer"
)
