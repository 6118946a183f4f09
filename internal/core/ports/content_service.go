package ports

import (
	"context"

	"github.com/learnhub/course-marketplace/internal/core/domain"
)

// AttachPDFInput carries an uploaded PDF destined for a course. Title
// defaults to the uploaded file's original name when empty.
type AttachPDFInput struct {
	CourseID string
	File     FileUpload
	Title    string
}

// AttachVideoInput carries an uploaded video destined for a course.
// Duration is in seconds and defaults to 0 when not supplied.
type AttachVideoInput struct {
	CourseID string
	File     FileUpload
	Title    string
	Duration int
}

// ContentService appends uploaded-content descriptors to a course's nested
// collections, gated by ownership.
type ContentService interface {
	AttachPDF(ctx context.Context, ident Identity, input AttachPDFInput) (*domain.Course, error)
	AttachVideo(ctx context.Context, ident Identity, input AttachVideoInput) (*domain.Course, error)
}
