package ports

import (
	"context"

	"github.com/learnhub/course-marketplace/internal/core/domain"
)

// CourseFilter carries the composed query the repository executes. The
// service layer is responsible for role scoping: exactly one of OwnerID or
// PublishedOnly is set for listing.
type CourseFilter struct {
	OwnerID       string  // non-empty = restrict to courses owned by this user
	PublishedOnly bool    // restrict to is_published = true
	Category      string  // exact match; empty = skip
	Level         string  // exact match; empty = skip
	Search        string  // case-insensitive substring on title, description or tags
	MinPrice      float64 // discounted_price >= MinPrice when HasPrice
	MaxPrice      float64 // discounted_price <= MaxPrice when > 0
	HasPrice      bool
	MinRating     float64 // rating >= MinRating when > 0
	SortBy        string  // single field, default created_at
	SortDesc      bool
	Page          int // 1-based
	Limit         int
}

// CourseRepository defines persistence operations for courses.
type CourseRepository interface {
	Create(ctx context.Context, course *domain.Course) (*domain.Course, error)
	FindByID(ctx context.Context, id string) (*domain.Course, error)
	// Update replaces the mutable course fields and bumps last_updated.
	Update(ctx context.Context, course *domain.Course) error
	Delete(ctx context.Context, id string) error
	// List returns a page of courses matching filter plus the total count.
	List(ctx context.Context, filter CourseFilter) ([]*domain.Course, int64, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Course, error)
	// ListEnrolled returns published courses whose enrollment set contains studentID.
	ListEnrolled(ctx context.Context, studentID string) ([]*domain.Course, error)
	// ListFeatured returns published courses with rating >= minRating, best first.
	ListFeatured(ctx context.Context, minRating float64, limit int) ([]*domain.Course, error)
	// DistinctCategories returns the distinct categories among published courses.
	DistinctCategories(ctx context.Context) ([]string, error)
	SetPublished(ctx context.Context, id string, published bool) error

	// AddEnrollment appends studentID to the enrollment set with set
	// semantics: the id appears at most once regardless of concurrent calls.
	// Returns false when the student was already enrolled.
	AddEnrollment(ctx context.Context, courseID, studentID string) (bool, error)
	// UpsertReview overwrites the author's existing review in place or appends
	// a new one, and recomputes the derived rating in the same atomic update.
	// Returns true when an existing review was updated.
	UpsertReview(ctx context.Context, courseID string, review domain.Review) (bool, error)
	AppendPDF(ctx context.Context, courseID string, pdf domain.PDFAttachment) (*domain.Course, error)
	AppendVideo(ctx context.Context, courseID string, video domain.VideoAttachment) (*domain.Course, error)
}
