package ports

import (
	"context"

	"github.com/learnhub/course-marketplace/internal/core/domain"
)

// UserStats aggregates account counts for the admin dashboard.
type UserStats struct {
	TotalUsers  int64
	ActiveUsers int64
	Teachers    int64
	Students    int64
}

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	// Create inserts a new user. Returns domain.ErrUserExists when the email
	// or username is already taken (unique indexes).
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindByEmailOrUsername returns the first user matching either value.
	FindByEmailOrUsername(ctx context.Context, email, username string) (*domain.User, error)
	// FindByIDs returns the users for the given ids, keyed by id. Missing ids
	// are simply absent from the map.
	FindByIDs(ctx context.Context, ids []string) (map[string]*domain.User, error)
	// FindByResetToken resolves an unexpired password-reset token.
	FindByResetToken(ctx context.Context, token string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	List(ctx context.Context) ([]*domain.User, error)
	Stats(ctx context.Context) (*UserStats, error)
}
