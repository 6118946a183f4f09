package service

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/learnhub/course-marketplace/internal/core/domain"
	"github.com/learnhub/course-marketplace/internal/core/ports"
)

// stubCourseRepo is an in-memory CourseRepository. It mirrors the store's
// set semantics for enrollments and the in-place review upsert so service
// tests exercise the same contract the Mongo implementation provides.
type stubCourseRepo struct {
	courses   map[string]*domain.Course
	nextID    int
	appendErr error
}

func newStubCourseRepo() *stubCourseRepo {
	return &stubCourseRepo{courses: make(map[string]*domain.Course)}
}

func (r *stubCourseRepo) add(course *domain.Course) *domain.Course {
	if course.ID == "" {
		r.nextID++
		course.ID = fmt.Sprintf("course-%d", r.nextID)
	}
	r.courses[course.ID] = course
	return course
}

func (r *stubCourseRepo) Create(_ context.Context, course *domain.Course) (*domain.Course, error) {
	c := *course
	r.add(&c)
	return cloneCourse(&c), nil
}

func (r *stubCourseRepo) FindByID(_ context.Context, id string) (*domain.Course, error) {
	c, ok := r.courses[id]
	if !ok {
		return nil, domain.ErrCourseNotFound
	}
	return cloneCourse(c), nil
}

func (r *stubCourseRepo) Update(_ context.Context, course *domain.Course) error {
	if _, ok := r.courses[course.ID]; !ok {
		return domain.ErrCourseNotFound
	}
	c := *course
	r.courses[c.ID] = &c
	return nil
}

func (r *stubCourseRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.courses[id]; !ok {
		return domain.ErrCourseNotFound
	}
	delete(r.courses, id)
	return nil
}

func (r *stubCourseRepo) List(_ context.Context, filter ports.CourseFilter) ([]*domain.Course, int64, error) {
	matched := make([]*domain.Course, 0)
	for _, c := range r.courses {
		if filter.OwnerID != "" && c.CreatedBy != filter.OwnerID {
			continue
		}
		if filter.PublishedOnly && !c.IsPublished {
			continue
		}
		if filter.Category != "" && c.Category != filter.Category {
			continue
		}
		if filter.Level != "" && string(c.Level) != filter.Level {
			continue
		}
		if filter.Search != "" && !matchesSearch(c, filter.Search) {
			continue
		}
		if filter.HasPrice {
			if c.DiscountedPrice < filter.MinPrice {
				continue
			}
			if filter.MaxPrice > 0 && c.DiscountedPrice > filter.MaxPrice {
				continue
			}
		}
		if filter.MinRating > 0 && c.Rating < filter.MinRating {
			continue
		}
		matched = append(matched, cloneCourse(c))
	}

	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := int64(len(matched))
	start := (filter.Page - 1) * filter.Limit
	if start >= len(matched) {
		return []*domain.Course{}, total, nil
	}
	end := start + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func matchesSearch(c *domain.Course, search string) bool {
	needle := strings.ToLower(search)
	if strings.Contains(strings.ToLower(c.Title), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(c.Description), needle) {
		return true
	}
	for _, tag := range c.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

func (r *stubCourseRepo) ListByOwner(_ context.Context, ownerID string) ([]*domain.Course, error) {
	out := make([]*domain.Course, 0)
	for _, c := range r.courses {
		if c.CreatedBy == ownerID {
			out = append(out, cloneCourse(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubCourseRepo) ListEnrolled(_ context.Context, studentID string) ([]*domain.Course, error) {
	out := make([]*domain.Course, 0)
	for _, c := range r.courses {
		if c.IsPublished && c.IsEnrolled(studentID) {
			out = append(out, cloneCourse(c))
		}
	}
	return out, nil
}

func (r *stubCourseRepo) ListFeatured(_ context.Context, minRating float64, limit int) ([]*domain.Course, error) {
	out := make([]*domain.Course, 0)
	for _, c := range r.courses {
		if c.IsPublished && c.Rating >= minRating {
			out = append(out, cloneCourse(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubCourseRepo) DistinctCategories(_ context.Context) ([]string, error) {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, c := range r.courses {
		if !c.IsPublished {
			continue
		}
		if _, ok := seen[c.Category]; ok {
			continue
		}
		seen[c.Category] = struct{}{}
		out = append(out, c.Category)
	}
	sort.Strings(out)
	return out, nil
}

func (r *stubCourseRepo) SetPublished(_ context.Context, id string, published bool) error {
	c, ok := r.courses[id]
	if !ok {
		return domain.ErrCourseNotFound
	}
	c.IsPublished = published
	return nil
}

func (r *stubCourseRepo) AddEnrollment(_ context.Context, courseID, studentID string) (bool, error) {
	c, ok := r.courses[courseID]
	if !ok {
		return false, domain.ErrCourseNotFound
	}
	if c.IsEnrolled(studentID) {
		return false, nil
	}
	c.EnrolledStudents = append(c.EnrolledStudents, studentID)
	return true, nil
}

func (r *stubCourseRepo) UpsertReview(_ context.Context, courseID string, review domain.Review) (bool, error) {
	c, ok := r.courses[courseID]
	if !ok {
		return false, domain.ErrCourseNotFound
	}

	updated := false
	if i := c.ReviewBy(review.UserID); i >= 0 {
		review.CreatedAt = c.Reviews[i].CreatedAt
		c.Reviews[i] = review
		updated = true
	} else {
		c.Reviews = append(c.Reviews, review)
	}
	c.Rating = domain.AverageRating(c.Reviews)
	return updated, nil
}

func (r *stubCourseRepo) AppendPDF(_ context.Context, courseID string, pdf domain.PDFAttachment) (*domain.Course, error) {
	if r.appendErr != nil {
		return nil, r.appendErr
	}
	c, ok := r.courses[courseID]
	if !ok {
		return nil, domain.ErrCourseNotFound
	}
	c.PDFs = append(c.PDFs, pdf)
	return cloneCourse(c), nil
}

func (r *stubCourseRepo) AppendVideo(_ context.Context, courseID string, video domain.VideoAttachment) (*domain.Course, error) {
	if r.appendErr != nil {
		return nil, r.appendErr
	}
	c, ok := r.courses[courseID]
	if !ok {
		return nil, domain.ErrCourseNotFound
	}
	c.Videos = append(c.Videos, video)
	return cloneCourse(c), nil
}

func cloneCourse(c *domain.Course) *domain.Course {
	out := *c
	out.EnrolledStudents = copySlice(c.EnrolledStudents)
	out.Reviews = copySlice(c.Reviews)
	out.PDFs = copySlice(c.PDFs)
	out.Videos = copySlice(c.Videos)
	out.Tags = copySlice(c.Tags)
	return &out
}

// copySlice keeps nil and empty distinct so a clone looks exactly like the
// stored document.
func copySlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}

// stubUserRepo is an in-memory UserRepository with the same uniqueness
// contract as the Mongo implementation.
type stubUserRepo struct {
	users  map[string]*domain.User
	nextID int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func (r *stubUserRepo) add(user *domain.User) *domain.User {
	if user.ID == "" {
		r.nextID++
		user.ID = fmt.Sprintf("user-%d", r.nextID)
	}
	r.users[user.ID] = user
	return user
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email || u.Username == user.Username {
			return nil, domain.ErrUserExists
		}
	}
	u := *user
	r.add(&u)
	copied := u
	return &copied, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByEmailOrUsername(_ context.Context, email, username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email || u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByIDs(_ context.Context, ids []string) (map[string]*domain.User, error) {
	out := make(map[string]*domain.User, len(ids))
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			copied := *u
			out[id] = &copied
		}
	}
	return out, nil
}

func (r *stubUserRepo) FindByResetToken(_ context.Context, token string) (*domain.User, error) {
	now := time.Now().UTC()
	for _, u := range r.users {
		if u.ResetToken == token && u.ResetTokenExpiry != nil && u.ResetTokenExpiry.After(now) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	u := *user
	r.users[u.ID] = &u
	return nil
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		copied := *u
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubUserRepo) Stats(_ context.Context) (*ports.UserStats, error) {
	stats := &ports.UserStats{}
	for _, u := range r.users {
		stats.TotalUsers++
		if u.IsActive {
			stats.ActiveUsers++
		}
		switch u.Role {
		case domain.RoleTeacher:
			stats.Teachers++
		case domain.RoleStudent:
			stats.Students++
		}
	}
	return stats, nil
}

// stubFileStore records saves and deletes without touching disk.
type stubFileStore struct {
	saved   []string
	deleted []string
	saveErr error
}

func (s *stubFileStore) Save(_ context.Context, kind ports.FileKind, filename string, r io.Reader) (string, error) {
	if s.saveErr != nil {
		return "", s.saveErr
	}
	if r != nil {
		_, _ = io.Copy(io.Discard, r)
	}
	path := "/uploads/" + string(kind) + "/" + filename
	s.saved = append(s.saved, path)
	return path, nil
}

func (s *stubFileStore) Delete(_ context.Context, path string) error {
	s.deleted = append(s.deleted, path)
	return nil
}

// stubCleaner records cleanup requests.
type stubCleaner struct {
	courseID string
	paths    []string
	calls    int
}

func (s *stubCleaner) EnqueueCleanup(courseID string, paths []string) {
	s.courseID = courseID
	s.paths = paths
	s.calls++
}

// stubGuard is an in-memory EnrollGuard.
type stubGuard struct {
	marked   map[string]bool
	checkErr error
}

func newStubGuard() *stubGuard {
	return &stubGuard{marked: make(map[string]bool)}
}

func (g *stubGuard) key(courseID, studentID string) string {
	return courseID + ":" + studentID
}

func (g *stubGuard) IsEnrolled(_ context.Context, courseID, studentID string) (bool, error) {
	if g.checkErr != nil {
		return false, g.checkErr
	}
	return g.marked[g.key(courseID, studentID)], nil
}

func (g *stubGuard) Mark(_ context.Context, courseID, studentID string) error {
	g.marked[g.key(courseID, studentID)] = true
	return nil
}
