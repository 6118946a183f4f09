package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/learnhub/course-marketplace/internal/core/domain"
	"github.com/learnhub/course-marketplace/internal/core/ports"
)

// ContentService appends uploaded-content descriptors to a course's nested
// collections. All operations are gated by ownership (id equality).
type ContentService struct {
	courses ports.CourseRepository
	files   ports.FileStore
	logger  zerolog.Logger
}

func NewContentService(courses ports.CourseRepository, files ports.FileStore, logger zerolog.Logger) *ContentService {
	return &ContentService{courses: courses, files: files, logger: logger}
}

// AttachPDF stores the uploaded PDF and appends its descriptor to the
// course. The title defaults to the uploaded file's original name.
func (s *ContentService) AttachPDF(ctx context.Context, ident ports.Identity, input ports.AttachPDFInput) (*domain.Course, error) {
	course, err := s.courses.FindByID(ctx, input.CourseID)
	if err != nil {
		return nil, err
	}
	if !course.IsOwnedBy(ident.UserID) {
		return nil, domain.ErrForbidden
	}

	path, err := s.files.Save(ctx, ports.FileKindPDF, input.File.Filename, input.File.Content)
	if err != nil {
		return nil, err
	}

	title := input.Title
	if title == "" {
		title = input.File.Filename
	}

	pdf := domain.PDFAttachment{
		Title:      title,
		URL:        path,
		UploadedAt: time.Now().UTC(),
	}

	updated, err := s.courses.AppendPDF(ctx, input.CourseID, pdf)
	if err != nil {
		// The file is already on disk; a failed record write leaves it
		// orphaned. Remove it best-effort.
		if delErr := s.files.Delete(ctx, path); delErr != nil {
			s.logger.Warn().Err(delErr).Str("path", path).Msg("failed to remove orphaned pdf")
		}
		return nil, err
	}

	s.logger.Info().Str("course_id", input.CourseID).Str("title", title).Msg("pdf attached")
	return updated, nil
}

// AttachVideo stores the uploaded video and appends its descriptor to the
// course. Duration defaults to 0 when not supplied; the declared duration is
// not validated against the actual media.
func (s *ContentService) AttachVideo(ctx context.Context, ident ports.Identity, input ports.AttachVideoInput) (*domain.Course, error) {
	course, err := s.courses.FindByID(ctx, input.CourseID)
	if err != nil {
		return nil, err
	}
	if !course.IsOwnedBy(ident.UserID) {
		return nil, domain.ErrForbidden
	}

	path, err := s.files.Save(ctx, ports.FileKindVideo, input.File.Filename, input.File.Content)
	if err != nil {
		return nil, err
	}

	title := input.Title
	if title == "" {
		title = input.File.Filename
	}

	video := domain.VideoAttachment{
		Title:      title,
		URL:        path,
		Duration:   input.Duration,
		UploadedAt: time.Now().UTC(),
	}

	updated, err := s.courses.AppendVideo(ctx, input.CourseID, video)
	if err != nil {
		if delErr := s.files.Delete(ctx, path); delErr != nil {
			s.logger.Warn().Err(delErr).Str("path", path).Msg("failed to remove orphaned video")
		}
		return nil, err
	}

	s.logger.Info().Str("course_id", input.CourseID).Str("title", title).Msg("video attached")
	return updated, nil
}
