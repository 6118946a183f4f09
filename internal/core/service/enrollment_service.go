package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/learnhub/course-marketplace/internal/core/domain"
	"github.com/learnhub/course-marketplace/internal/core/ports"
)

// EnrollGuard is the fast-path duplicate-enrollment check (Redis). It is an
// optimisation only; set semantics are guaranteed by the store's atomic
// guarded update regardless of what the guard answers.
type EnrollGuard interface {
	IsEnrolled(ctx context.Context, courseID, studentID string) (bool, error)
	Mark(ctx context.Context, courseID, studentID string) error
}

// EnrollmentService mutates enrollment sets and review collections.
type EnrollmentService struct {
	courses ports.CourseRepository
	guard   EnrollGuard
	logger  zerolog.Logger
}

func NewEnrollmentService(courses ports.CourseRepository, guard EnrollGuard, logger zerolog.Logger) *EnrollmentService {
	return &EnrollmentService{courses: courses, guard: guard, logger: logger}
}

// Enroll adds the calling student to the course's enrollment set. Duplicate
// attempts surface as domain.ErrAlreadyEnrolled, never as a crash; the
// store-side guarded update guarantees a student id appears at most once
// even under concurrent calls.
func (s *EnrollmentService) Enroll(ctx context.Context, ident ports.Identity, courseID string) error {
	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		return err
	}
	if !course.IsPublished {
		return domain.ErrNotPublished
	}

	isDup, err := s.guard.IsEnrolled(ctx, courseID, ident.UserID)
	if err != nil {
		s.logger.Warn().Err(err).Str("course_id", courseID).Msg("enroll guard check failed, proceeding")
	} else if isDup {
		return domain.ErrAlreadyEnrolled
	}

	added, err := s.courses.AddEnrollment(ctx, courseID, ident.UserID)
	if err != nil {
		return err
	}
	if !added {
		return domain.ErrAlreadyEnrolled
	}

	if markErr := s.guard.Mark(ctx, courseID, ident.UserID); markErr != nil {
		s.logger.Warn().Err(markErr).Str("course_id", courseID).Msg("failed to mark enrollment in guard")
	}

	s.logger.Info().Str("course_id", courseID).Str("student_id", ident.UserID).Msg("student enrolled")
	return nil
}

// AddReview upserts the caller's review (one live review per author) and
// recomputes the course rating as the arithmetic mean of all review ratings.
// The upsert and the rating recompute happen in a single atomic store update.
func (s *EnrollmentService) AddReview(ctx context.Context, ident ports.Identity, courseID string, input ports.ReviewInput) (*ports.ReviewResult, error) {
	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if !course.IsEnrolled(ident.UserID) {
		return nil, domain.ErrNotEnrolled
	}

	now := time.Now().UTC()
	review := domain.Review{
		UserID:    ident.UserID,
		Rating:    input.Rating,
		Comment:   input.Comment,
		CreatedAt: now,
		UpdatedAt: now,
	}

	updated, err := s.courses.UpsertReview(ctx, courseID, review)
	if err != nil {
		return nil, err
	}

	refreshed, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("course_id", courseID).
		Str("user_id", ident.UserID).
		Int("rating", input.Rating).
		Bool("updated", updated).
		Msg("review recorded")

	return &ports.ReviewResult{Updated: updated, NewRating: refreshed.Rating}, nil
}
