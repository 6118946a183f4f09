package domain

import (
	"errors"
	"time"
)

// PricingPlan is the billing mode of a course.
type PricingPlan string

const (
	PlanFree    PricingPlan = "free"
	PlanOneTime PricingPlan = "one-time"
)

// CourseLevel is the declared difficulty of a course.
type CourseLevel string

const (
	LevelBeginner     CourseLevel = "Beginner"
	LevelIntermediate CourseLevel = "Intermediate"
	LevelAdvanced     CourseLevel = "Advanced"
)

var ErrCourseNotFound = errors.New("course not found")
var ErrForbidden = errors.New("access forbidden")
var ErrNotPublished = errors.New("course is not published")
var ErrAlreadyEnrolled = errors.New("already enrolled in this course")
var ErrNotEnrolled = errors.New("must be enrolled to review")
var ErrInvalidPricing = errors.New("total price is required for one-time pricing")
var ErrMissingFields = errors.New("title and description are required")

// ValidLevel reports whether level is a known course level.
func ValidLevel(level CourseLevel) bool {
	return level == LevelBeginner || level == LevelIntermediate || level == LevelAdvanced
}

// Review is a rating+comment authored by an enrolled student. At most one
// review per (course, author) pair exists; resubmission overwrites in place.
type Review struct {
	UserID    string    `json:"user_id" bson:"user_id"`
	Rating    int       `json:"rating" bson:"rating"`
	Comment   string    `json:"comment" bson:"comment"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// PDFAttachment describes an uploaded PDF document.
type PDFAttachment struct {
	Title      string    `json:"title" bson:"title"`
	URL        string    `json:"url" bson:"url"`
	UploadedAt time.Time `json:"uploaded_at" bson:"uploaded_at"`
}

// VideoAttachment describes an uploaded video. Duration is in seconds.
type VideoAttachment struct {
	Title      string    `json:"title" bson:"title"`
	URL        string    `json:"url" bson:"url"`
	Duration   int       `json:"duration" bson:"duration"`
	UploadedAt time.Time `json:"uploaded_at" bson:"uploaded_at"`
}

// QuizQuestion is a single multiple-choice question inside a quiz.
type QuizQuestion struct {
	Question      string   `json:"question" bson:"question"`
	Options       []string `json:"options" bson:"options"`
	CorrectAnswer int      `json:"correct_answer" bson:"correct_answer"`
	Explanation   string   `json:"explanation,omitempty" bson:"explanation,omitempty"`
}

// Quiz is an embedded assessment with a passing score (default 70).
type Quiz struct {
	Title        string         `json:"title" bson:"title"`
	Questions    []QuizQuestion `json:"questions" bson:"questions"`
	PassingScore int            `json:"passing_score" bson:"passing_score"`
	CreatedAt    time.Time      `json:"created_at" bson:"created_at"`
}

// Assignment is an embedded graded task with a max score (default 100).
type Assignment struct {
	Title       string     `json:"title" bson:"title"`
	Description string     `json:"description" bson:"description"`
	DueDate     *time.Time `json:"due_date,omitempty" bson:"due_date,omitempty"`
	MaxScore    int        `json:"max_score" bson:"max_score"`
	CreatedAt   time.Time  `json:"created_at" bson:"created_at"`
}

// Course is the central content aggregate, owned by exactly one teacher.
// Reviews, attachments, quizzes, assignments and the enrollment set are
// embedded rather than stored as separate relations.
type Course struct {
	ID               string            `json:"id" bson:"_id,omitempty"`
	Title            string            `json:"title" bson:"title"`
	Description      string            `json:"description" bson:"description"`
	PricingPlan      PricingPlan       `json:"pricing_plan" bson:"pricing_plan"`
	TotalPrice       float64           `json:"total_price" bson:"total_price"`
	DiscountedPrice  float64           `json:"discounted_price" bson:"discounted_price"`
	CoverImage       string            `json:"cover_image,omitempty" bson:"cover_image,omitempty"`
	Category         string            `json:"category" bson:"category"`
	Level            CourseLevel       `json:"level" bson:"level"`
	Duration         int               `json:"duration" bson:"duration"` // minutes
	Language         string            `json:"language" bson:"language"`
	Tags             []string          `json:"tags" bson:"tags"`
	IsPublished      bool              `json:"is_published" bson:"is_published"`
	EnrolledStudents []string          `json:"enrolled_students" bson:"enrolled_students"`
	Rating           float64           `json:"rating" bson:"rating"`
	Reviews          []Review          `json:"reviews" bson:"reviews"`
	PDFs             []PDFAttachment   `json:"pdfs" bson:"pdfs"`
	Videos           []VideoAttachment `json:"videos" bson:"videos"`
	Quizzes          []Quiz            `json:"quizzes" bson:"quizzes"`
	Assignments      []Assignment      `json:"assignments" bson:"assignments"`
	CreatedBy        string            `json:"created_by" bson:"created_by"`
	CreatedAt        time.Time         `json:"created_at" bson:"created_at"`
	LastUpdated      time.Time         `json:"last_updated" bson:"last_updated"`
}

// IsOwnedBy reports whether userID owns the course. Ownership is compared by
// id equality, never by role.
func (c *Course) IsOwnedBy(userID string) bool {
	return c.CreatedBy == userID
}

// IsEnrolled reports whether userID is in the enrollment set.
func (c *Course) IsEnrolled(userID string) bool {
	for _, id := range c.EnrolledStudents {
		if id == userID {
			return true
		}
	}
	return false
}

// ReviewBy returns the index of the review authored by userID, or -1.
func (c *Course) ReviewBy(userID string) int {
	for i, r := range c.Reviews {
		if r.UserID == userID {
			return i
		}
	}
	return -1
}

// AverageRating is the arithmetic mean of all review ratings, 0 when the
// course has no reviews.
func AverageRating(reviews []Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	return float64(sum) / float64(len(reviews))
}
