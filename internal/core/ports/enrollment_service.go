package ports

import "context"

// ReviewInput carries a review submission from an enrolled student.
type ReviewInput struct {
	Rating  int // 1..5
	Comment string
}

// ReviewResult reports the outcome of a review submission and the course's
// recomputed rating.
type ReviewResult struct {
	Updated   bool // true when an existing review was overwritten
	NewRating float64
}

// EnrollmentService mutates a course's enrollment set and review collection
// under ownership and idempotency constraints.
type EnrollmentService interface {
	// Enroll adds the calling student to the course's enrollment set.
	// Returns domain.ErrAlreadyEnrolled on a duplicate attempt and
	// domain.ErrNotPublished when the course is not visible to students.
	Enroll(ctx context.Context, ident Identity, courseID string) error
	// AddReview upserts the caller's review and recomputes the course rating.
	// Requires prior enrollment (domain.ErrNotEnrolled otherwise).
	AddReview(ctx context.Context, ident Identity, courseID string, input ReviewInput) (*ReviewResult, error)
}
