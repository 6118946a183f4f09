package service

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/learnhub/course-marketplace/internal/core/domain"
	"github.com/learnhub/course-marketplace/internal/core/ports"
)

const (
	defaultPageSize   = 12
	featuredMinRating = 4.0
	featuredLimit     = 6
)

// FileCleaner removes a deleted course's media files off the request path.
// Cleanup failures never block record deletion.
type FileCleaner interface {
	EnqueueCleanup(courseID string, paths []string)
}

// CourseService implements the course query engine and lifecycle use cases.
type CourseService struct {
	courses ports.CourseRepository
	users   ports.UserRepository
	files   ports.FileStore
	cleaner FileCleaner
	logger  zerolog.Logger
}

func NewCourseService(
	courses ports.CourseRepository,
	users ports.UserRepository,
	files ports.FileStore,
	cleaner FileCleaner,
	logger zerolog.Logger,
) *CourseService {
	return &CourseService{courses: courses, users: users, files: files, cleaner: cleaner, logger: logger}
}

// CreateCourse creates a course owned by the caller. Courses are never
// published at creation; the owner must publish explicitly.
func (s *CourseService) CreateCourse(ctx context.Context, ident ports.Identity, input ports.CreateCourseInput) (*domain.Course, error) {
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Description) == "" {
		return nil, domain.ErrMissingFields
	}

	plan := domain.PricingPlan(input.PricingPlan)
	if plan == "" {
		plan = domain.PlanFree
	}
	totalPrice, discountedPrice := derivePrices(plan, input.TotalPrice, input.DiscountedPrice)
	if plan == domain.PlanOneTime && totalPrice <= 0 {
		return nil, domain.ErrInvalidPricing
	}

	level := domain.CourseLevel(input.Level)
	if !domain.ValidLevel(level) {
		level = domain.LevelBeginner
	}
	category := input.Category
	if category == "" {
		category = "General"
	}
	language := input.Language
	if language == "" {
		language = "English"
	}

	coverPath := ""
	if input.Cover != nil {
		path, err := s.files.Save(ctx, ports.FileKindImage, input.Cover.Filename, input.Cover.Content)
		if err != nil {
			return nil, err
		}
		coverPath = path
	}

	now := time.Now().UTC()
	course := &domain.Course{
		Title:            strings.TrimSpace(input.Title),
		Description:      input.Description,
		PricingPlan:      plan,
		TotalPrice:       totalPrice,
		DiscountedPrice:  discountedPrice,
		CoverImage:       coverPath,
		Category:         category,
		Level:            level,
		Duration:         input.Duration,
		Language:         language,
		Tags:             splitTags(input.Tags),
		IsPublished:      false,
		EnrolledStudents: []string{},
		Rating:           0,
		Reviews:          []domain.Review{},
		PDFs:             []domain.PDFAttachment{},
		Videos:           []domain.VideoAttachment{},
		Quizzes:          []domain.Quiz{},
		Assignments:      []domain.Assignment{},
		CreatedBy:        ident.UserID,
		CreatedAt:        now,
		LastUpdated:      now,
	}

	created, err := s.courses.Create(ctx, course)
	if err != nil {
		s.logger.Error().Err(err).Str("owner", ident.UserID).Msg("failed to create course")
		return nil, err
	}

	s.logger.Info().Str("course_id", created.ID).Str("owner", ident.UserID).Msg("course created")
	return created, nil
}

// UpdateCourse merges the supplied fields into the course. Absent or empty
// values leave existing fields untouched; price fields are re-derived from
// the effective pricing plan.
func (s *CourseService) UpdateCourse(ctx context.Context, ident ports.Identity, courseID string, input ports.UpdateCourseInput) (*domain.Course, error) {
	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if !course.IsOwnedBy(ident.UserID) {
		return nil, domain.ErrForbidden
	}

	if input.Title != nil && *input.Title != "" {
		course.Title = *input.Title
	}
	if input.Description != nil && *input.Description != "" {
		course.Description = *input.Description
	}
	if input.PricingPlan != nil && *input.PricingPlan != "" {
		course.PricingPlan = domain.PricingPlan(*input.PricingPlan)
	}
	if input.Category != nil && *input.Category != "" {
		course.Category = *input.Category
	}
	if input.Level != nil && domain.ValidLevel(domain.CourseLevel(*input.Level)) {
		course.Level = domain.CourseLevel(*input.Level)
	}
	if input.Duration != nil && *input.Duration != 0 {
		course.Duration = *input.Duration
	}
	if input.Language != nil && *input.Language != "" {
		course.Language = *input.Language
	}
	if input.Tags != nil && *input.Tags != "" {
		course.Tags = splitTags(*input.Tags)
	}

	if course.PricingPlan == domain.PlanOneTime {
		if input.TotalPrice != nil {
			course.TotalPrice = *input.TotalPrice
		}
		if input.DiscountedPrice != nil {
			course.DiscountedPrice = *input.DiscountedPrice
		}
		if course.TotalPrice <= 0 {
			return nil, domain.ErrInvalidPricing
		}
	} else {
		course.TotalPrice = 0
		course.DiscountedPrice = 0
	}

	if input.Cover != nil {
		path, err := s.files.Save(ctx, ports.FileKindImage, input.Cover.Filename, input.Cover.Content)
		if err != nil {
			return nil, err
		}
		if old := course.CoverImage; old != "" {
			if err := s.files.Delete(ctx, old); err != nil {
				s.logger.Warn().Err(err).Str("path", old).Msg("failed to remove previous cover image")
			}
		}
		course.CoverImage = path
	}

	course.LastUpdated = time.Now().UTC()
	if err := s.courses.Update(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

// DeleteCourse removes the course record and schedules deletion of all
// attached media (cover image, PDFs and videos). File cleanup is
// best-effort; record deletion proceeds regardless of cleanup outcome.
func (s *CourseService) DeleteCourse(ctx context.Context, ident ports.Identity, courseID string) error {
	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		return err
	}
	if !course.IsOwnedBy(ident.UserID) {
		return domain.ErrForbidden
	}

	paths := make([]string, 0, 1+len(course.PDFs)+len(course.Videos))
	if course.CoverImage != "" {
		paths = append(paths, course.CoverImage)
	}
	for _, pdf := range course.PDFs {
		paths = append(paths, pdf.URL)
	}
	for _, video := range course.Videos {
		paths = append(paths, video.URL)
	}
	if len(paths) > 0 {
		s.cleaner.EnqueueCleanup(course.ID, paths)
	}

	if err := s.courses.Delete(ctx, courseID); err != nil {
		return err
	}

	s.logger.Info().Str("course_id", courseID).Int("files", len(paths)).Msg("course deleted")
	return nil
}

// TogglePublish flips the publish gate and returns the new state.
func (s *CourseService) TogglePublish(ctx context.Context, ident ports.Identity, courseID string) (bool, error) {
	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		return false, err
	}
	if !course.IsOwnedBy(ident.UserID) {
		return false, domain.ErrForbidden
	}

	next := !course.IsPublished
	if err := s.courses.SetPublished(ctx, courseID, next); err != nil {
		return false, err
	}
	return next, nil
}

// GetCourse returns the full course with the creator and reviewer usernames
// denormalized in, plus whether the requesting student is enrolled.
func (s *CourseService) GetCourse(ctx context.Context, ident ports.Identity, courseID string) (*ports.CourseDetail, error) {
	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(course.Reviews)+1)
	ids = append(ids, course.CreatedBy)
	for _, r := range course.Reviews {
		ids = append(ids, r.UserID)
	}
	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	reviews := make([]ports.ReviewView, 0, len(course.Reviews))
	for _, r := range course.Reviews {
		view := ports.ReviewView{Review: r}
		if u, ok := users[r.UserID]; ok {
			view.Username = u.Username
		}
		reviews = append(reviews, view)
	}

	detail := &ports.CourseDetail{
		Course:  course,
		Creator: creatorRef(course.CreatedBy, users),
		Reviews: reviews,
	}
	if ident.IsStudent() {
		detail.IsEnrolled = course.IsEnrolled(ident.UserID)
	}
	return detail, nil
}

// ListCourses composes the role-scoped filter and returns a paginated,
// sorted result set with denormalized creator identity.
func (s *CourseService) ListCourses(ctx context.Context, ident ports.Identity, input ports.ListCoursesInput) (*ports.ListCoursesResult, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	limit := input.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}

	filter := ports.CourseFilter{
		Search:    input.Search,
		MinRating: input.Rating,
		SortBy:    sortField(input.SortBy),
		SortDesc:  input.SortOrder != "asc",
		Page:      page,
		Limit:     limit,
	}

	// Teachers see only their own courses, published or not. Everyone else
	// sees only published courses.
	if ident.IsTeacher() {
		filter.OwnerID = ident.UserID
	} else {
		filter.PublishedOnly = true
	}

	if input.Category != "" && input.Category != "all" {
		filter.Category = input.Category
	}
	if input.Level != "" && input.Level != "all" {
		filter.Level = input.Level
	}
	if input.PriceRange != "" {
		min, max, ok := parsePriceRange(input.PriceRange)
		if ok {
			filter.HasPrice = true
			filter.MinPrice = min
			filter.MaxPrice = max
		}
	}

	courses, total, err := s.courses.List(ctx, filter)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list courses")
		return nil, err
	}

	items, err := s.attachCreators(ctx, courses)
	if err != nil {
		return nil, err
	}

	return &ports.ListCoursesResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: int(math.Ceil(float64(total) / float64(limit))),
	}, nil
}

// FeaturedCourses returns the best-rated published courses.
func (s *CourseService) FeaturedCourses(ctx context.Context) ([]ports.CourseListItem, error) {
	courses, err := s.courses.ListFeatured(ctx, featuredMinRating, featuredLimit)
	if err != nil {
		return nil, err
	}
	return s.attachCreators(ctx, courses)
}

// EnrolledCourses returns the published courses the calling student is
// enrolled in.
func (s *CourseService) EnrolledCourses(ctx context.Context, ident ports.Identity) ([]ports.CourseListItem, error) {
	courses, err := s.courses.ListEnrolled(ctx, ident.UserID)
	if err != nil {
		return nil, err
	}
	return s.attachCreators(ctx, courses)
}

// Categories returns the distinct categories among published courses.
func (s *CourseService) Categories(ctx context.Context) ([]string, error) {
	return s.courses.DistinctCategories(ctx)
}

// Analytics aggregates the calling teacher's courses: counts, summed
// enrollments, mean rating and a gross revenue estimate.
func (s *CourseService) Analytics(ctx context.Context, ident ports.Identity) (*ports.AnalyticsResult, error) {
	courses, err := s.courses.ListByOwner(ctx, ident.UserID)
	if err != nil {
		return nil, err
	}

	result := &ports.AnalyticsResult{
		TotalCourses: len(courses),
		CourseStats:  make([]ports.CourseStat, 0, len(courses)),
	}

	ratingSum := 0.0
	for _, c := range courses {
		students := len(c.EnrolledStudents)
		revenue := c.DiscountedPrice * float64(students)

		if c.IsPublished {
			result.PublishedCourses++
		}
		result.TotalStudents += students
		result.TotalRevenue += revenue
		ratingSum += c.Rating

		result.CourseStats = append(result.CourseStats, ports.CourseStat{
			ID:          c.ID,
			Title:       c.Title,
			Students:    students,
			Rating:      c.Rating,
			Revenue:     revenue,
			IsPublished: c.IsPublished,
		})
	}

	if len(courses) > 0 {
		result.AverageRating = ratingSum / float64(len(courses))
	}
	return result, nil
}

// attachCreators denormalizes creator username/email into each list item.
func (s *CourseService) attachCreators(ctx context.Context, courses []*domain.Course) ([]ports.CourseListItem, error) {
	ids := make([]string, 0, len(courses))
	for _, c := range courses {
		ids = append(ids, c.CreatedBy)
	}
	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]ports.CourseListItem, 0, len(courses))
	for _, c := range courses {
		items = append(items, ports.CourseListItem{
			Course:  c,
			Creator: creatorRef(c.CreatedBy, users),
		})
	}
	return items, nil
}

func creatorRef(id string, users map[string]*domain.User) ports.CreatorRef {
	ref := ports.CreatorRef{ID: id}
	if u, ok := users[id]; ok {
		ref.Username = u.Username
		ref.Email = u.Email
	}
	return ref
}

// derivePrices enforces the pricing invariant: prices only exist under the
// one-time plan.
func derivePrices(plan domain.PricingPlan, total, discounted float64) (float64, float64) {
	if plan != domain.PlanOneTime {
		return 0, 0
	}
	return total, discounted
}

// parsePriceRange parses "min-max" or "min-". A missing or zero max means
// no upper bound.
func parsePriceRange(s string) (min, max float64, ok bool) {
	parts := strings.SplitN(s, "-", 2)
	min, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, false
	}
	if len(parts) == 2 && strings.TrimSpace(parts[1]) != "" {
		if v, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64); err == nil {
			max = v
		}
	}
	return min, max, true
}

// sortField maps the API sort key to its stored field name. Unknown keys
// fall back to creation time.
func sortField(key string) string {
	switch key {
	case "title":
		return "title"
	case "rating":
		return "rating"
	case "price", "discountedPrice":
		return "discounted_price"
	case "duration":
		return "duration"
	case "lastUpdated":
		return "last_updated"
	default:
		return "created_at"
	}
}

// splitTags turns a comma-separated tag string into a trimmed list.
func splitTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
