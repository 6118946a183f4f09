package handler

import (
	"time"

	"github.com/learnhub/course-marketplace/internal/core/domain"
)

// messageResponse is the envelope for operations that only confirm an outcome.
type messageResponse struct {
	Message string `json:"message"`
}

// --- Request types ---

// listCoursesQuery binds the listing criteria from query parameters.
type listCoursesQuery struct {
	Page       int     `query:"page"`
	Limit      int     `query:"limit"`
	Category   string  `query:"category"`
	Level      string  `query:"level"`
	Search     string  `query:"search"`
	SortBy     string  `query:"sortBy"`
	SortOrder  string  `query:"sortOrder"`
	PriceRange string  `query:"priceRange"`
	Rating     float64 `query:"rating"`
}

type reviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// --- Response types ---

// creatorResponse is the denormalized course creator.
type creatorResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// reviewResponse is a review with the author's username resolved.
type reviewResponse struct {
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// courseItemResponse is a course plus its creator, used in list responses.
// The embedded course supplies the bulk of the JSON contract.
type courseItemResponse struct {
	*domain.Course
	Creator creatorResponse `json:"creator"`
}

// courseDetailResponse is the single-course view. The outer Reviews field
// shadows the embedded course's review array with username-resolved entries,
// and IsEnrolled is relative to the requesting student.
type courseDetailResponse struct {
	*domain.Course
	Creator    creatorResponse  `json:"creator"`
	Reviews    []reviewResponse `json:"reviews"`
	IsEnrolled bool             `json:"is_enrolled"`
}

type listCoursesResponse struct {
	Courses     []courseItemResponse `json:"courses"`
	TotalPages  int                  `json:"total_pages"`
	CurrentPage int                  `json:"current_page"`
	Total       int64                `json:"total"`
}

type publishResponse struct {
	Message     string `json:"message"`
	IsPublished bool   `json:"is_published"`
}

type reviewResultResponse struct {
	Message string  `json:"message"`
	Rating  float64 `json:"rating"`
}

type courseStatResponse struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Students    int     `json:"students"`
	Rating      float64 `json:"rating"`
	Revenue     float64 `json:"revenue"`
	IsPublished bool    `json:"is_published"`
}

type analyticsResponse struct {
	TotalCourses     int                  `json:"total_courses"`
	PublishedCourses int                  `json:"published_courses"`
	TotalStudents    int                  `json:"total_students"`
	AverageRating    float64              `json:"average_rating"`
	TotalRevenue     float64              `json:"total_revenue"`
	CourseStats      []courseStatResponse `json:"course_stats"`
}
