package ports

import "github.com/learnhub/course-marketplace/internal/core/domain"

// Identity is the request-scoped caller identity attached by the auth
// middleware. It is passed explicitly into every core operation; the core
// never reads ambient or global auth state.
type Identity struct {
	UserID   string
	Username string
	Role     string
}

// IsTeacher reports whether the caller holds the teacher role.
func (i Identity) IsTeacher() bool { return i.Role == domain.RoleTeacher }

// IsStudent reports whether the caller holds the student role.
func (i Identity) IsStudent() bool { return i.Role == domain.RoleStudent }

// IsAdmin reports whether the caller holds the admin role.
func (i Identity) IsAdmin() bool { return i.Role == domain.RoleAdmin }
