package model

import "time"

// Permission codes embedded in admin JWTs and checked per route.
type Permission string

const (
	PermissionExamsRead     Permission = "exams:read"
	PermissionExamsWrite    Permission = "exams:write"
	PermissionExamsPublish  Permission = "exams:publish"
	PermissionResultsRead   Permission = "results:read"
	PermissionStudentsWrite Permission = "students:write"
)

// AdminRole maps to a fixed permission set.
type AdminRole string

const (
	RoleSuperAdmin AdminRole = "superadmin"
	RoleExaminer   AdminRole = "examiner"
)

// PermissionsForRole returns the permission codes granted to a role.
func PermissionsForRole(role AdminRole) []string {
	switch role {
	case RoleSuperAdmin:
		return []string{
			string(PermissionExamsRead),
			string(PermissionExamsWrite),
			string(PermissionExamsPublish),
			string(PermissionResultsRead),
			string(PermissionStudentsWrite),
		}
	case RoleExaminer:
		return []string{
			string(PermissionExamsRead),
			string(PermissionExamsWrite),
			string(PermissionResultsRead),
		}
	default:
		return nil
	}
}

// Admin is a back-office user who authors and publishes exams.
type Admin struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         AdminRole `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// AdminLoginRequest is the payload for admin login.
type AdminLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}
