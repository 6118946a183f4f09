package ports

import (
	"context"

	"github.com/learnhub/course-marketplace/internal/core/domain"
)

// CreateCourseInput carries all data needed to create a course. Fields left
// at their zero value fall back to schema defaults.
type CreateCourseInput struct {
	Title           string
	Description     string
	PricingPlan     string
	TotalPrice      float64
	DiscountedPrice float64
	Category        string
	Level           string
	Duration        int
	Language        string
	Tags            string // comma-separated
	Cover           *FileUpload
}

// UpdateCourseInput carries optional course fields. Nil pointers, empty
// strings and zero numbers leave the existing field untouched
// (merge-if-present); price fields are re-derived from the effective
// pricing plan regardless.
type UpdateCourseInput struct {
	Title           *string
	Description     *string
	PricingPlan     *string
	TotalPrice      *float64
	DiscountedPrice *float64
	Category        *string
	Level           *string
	Duration        *int
	Language        *string
	Tags            *string // comma-separated; replaces the tag list when set
	Cover           *FileUpload
}

// ListCoursesInput carries the raw listing criteria from the transport layer.
type ListCoursesInput struct {
	Page       int
	Limit      int
	Category   string // sentinel "all" or empty = skip
	Level      string // sentinel "all" or empty = skip
	Search     string
	SortBy     string // default created_at
	SortOrder  string // "asc" or "desc", default desc
	PriceRange string // "min-max" or "min-"
	Rating     float64
}

// CreatorRef is the denormalized creator identity embedded in list items.
type CreatorRef struct {
	ID       string
	Username string
	Email    string
}

// CourseListItem is a course plus its denormalized creator.
type CourseListItem struct {
	Course  *domain.Course
	Creator CreatorRef
}

// ListCoursesResult is returned by ListCourses.
type ListCoursesResult struct {
	Items      []CourseListItem
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// ReviewView is a review with the author's username denormalized in.
type ReviewView struct {
	Review   domain.Review
	Username string
}

// CourseDetail is the full single-course view: the course, its creator,
// reviewer usernames, and whether the requesting student is enrolled.
type CourseDetail struct {
	Course     *domain.Course
	Creator    CreatorRef
	Reviews    []ReviewView
	IsEnrolled bool
}

// CourseStat is one row of the per-course analytics breakdown.
type CourseStat struct {
	ID          string
	Title       string
	Students    int
	Rating      float64
	Revenue     float64
	IsPublished bool
}

// AnalyticsResult aggregates a teacher's courses. TotalRevenue is a gross
// billing estimate (discounted price times enrollment count), not settled
// revenue.
type AnalyticsResult struct {
	TotalCourses     int
	PublishedCourses int
	TotalStudents    int
	AverageRating    float64
	TotalRevenue     float64
	CourseStats      []CourseStat
}

// CourseService defines the course query engine and lifecycle use cases.
type CourseService interface {
	CreateCourse(ctx context.Context, ident Identity, input CreateCourseInput) (*domain.Course, error)
	UpdateCourse(ctx context.Context, ident Identity, courseID string, input UpdateCourseInput) (*domain.Course, error)
	DeleteCourse(ctx context.Context, ident Identity, courseID string) error
	TogglePublish(ctx context.Context, ident Identity, courseID string) (bool, error)
	GetCourse(ctx context.Context, ident Identity, courseID string) (*CourseDetail, error)
	ListCourses(ctx context.Context, ident Identity, input ListCoursesInput) (*ListCoursesResult, error)
	FeaturedCourses(ctx context.Context) ([]CourseListItem, error)
	EnrolledCourses(ctx context.Context, ident Identity) ([]CourseListItem, error)
	Categories(ctx context.Context) ([]string, error)
	Analytics(ctx context.Context, ident Identity) (*AnalyticsResult, error)
}
