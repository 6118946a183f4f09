package ports

import (
	"context"

	"github.com/learnhub/course-marketplace/internal/core/domain"
)

// RegisterInput carries the data needed to create an account.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     string // defaults to student when empty
}

// UpdateProfileInput carries optional profile fields. Nil or empty values
// leave the existing field untouched (merge-if-present).
type UpdateProfileInput struct {
	FirstName *string
	LastName  *string
	Bio       *string
	Phone     *string
	Avatar    *FileUpload // replaces the previous avatar file when set
}

// AuthService implements registration, login and account management.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (string, *domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	// ForgotPassword issues a short-lived reset token for the account.
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token, newPassword string) error
	Profile(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*domain.User, error)
	DashboardStats(ctx context.Context) (*UserStats, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
}
