package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const enrollTTL = 24 * time.Hour

// EnrollGuard provides a fast-path duplicate-enrollment check backed by
// Redis. Key format: enroll:<course_id>:<student_id>. The guard is advisory:
// set semantics on the enrollment array are enforced by the document store,
// the guard only short-circuits obvious repeats.
type EnrollGuard struct {
	client *redis.Client
}

// NewEnrollGuard creates an EnrollGuard wrapping the given Redis client.
func NewEnrollGuard(client *redis.Client) *EnrollGuard {
	return &EnrollGuard{client: client}
}

// IsEnrolled reports whether this (course, student) pair was recently marked.
func (g *EnrollGuard) IsEnrolled(ctx context.Context, courseID, studentID string) (bool, error) {
	n, err := g.client.Exists(ctx, g.key(courseID, studentID)).Result()
	if err != nil {
		return false, fmt.Errorf("enroll guard check: %w", err)
	}
	return n > 0, nil
}

// Mark records a successful enrollment.
func (g *EnrollGuard) Mark(ctx context.Context, courseID, studentID string) error {
	if err := g.client.Set(ctx, g.key(courseID, studentID), 1, enrollTTL).Err(); err != nil {
		return fmt.Errorf("enroll guard mark: %w", err)
	}
	return nil
}

func (g *EnrollGuard) key(courseID, studentID string) string {
	return fmt.Sprintf("enroll:%s:%s", courseID, studentID)
}
