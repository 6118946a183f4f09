package handler

import (
	"github.com/learnhub/course-marketplace/internal/core/ports"
)

// --- Service result → HTTP response ---

func toCourseItems(items []ports.CourseListItem) []courseItemResponse {
	out := make([]courseItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, courseItemResponse{
			Course:  item.Course,
			Creator: toCreator(item.Creator),
		})
	}
	return out
}

func toListResponse(result *ports.ListCoursesResult) listCoursesResponse {
	return listCoursesResponse{
		Courses:     toCourseItems(result.Items),
		TotalPages:  result.TotalPages,
		CurrentPage: result.Page,
		Total:       result.Total,
	}
}

func toDetailResponse(detail *ports.CourseDetail) courseDetailResponse {
	reviews := make([]reviewResponse, 0, len(detail.Reviews))
	for _, r := range detail.Reviews {
		reviews = append(reviews, reviewResponse{
			UserID:    r.Review.UserID,
			Username:  r.Username,
			Rating:    r.Review.Rating,
			Comment:   r.Review.Comment,
			CreatedAt: r.Review.CreatedAt,
			UpdatedAt: r.Review.UpdatedAt,
		})
	}

	return courseDetailResponse{
		Course:     detail.Course,
		Creator:    toCreator(detail.Creator),
		Reviews:    reviews,
		IsEnrolled: detail.IsEnrolled,
	}
}

func toCreator(ref ports.CreatorRef) creatorResponse {
	return creatorResponse{ID: ref.ID, Username: ref.Username, Email: ref.Email}
}

func toAnalyticsResponse(a *ports.AnalyticsResult) analyticsResponse {
	stats := make([]courseStatResponse, 0, len(a.CourseStats))
	for _, s := range a.CourseStats {
		stats = append(stats, courseStatResponse{
			ID:          s.ID,
			Title:       s.Title,
			Students:    s.Students,
			Rating:      s.Rating,
			Revenue:     s.Revenue,
			IsPublished: s.IsPublished,
		})
	}

	return analyticsResponse{
		TotalCourses:     a.TotalCourses,
		PublishedCourses: a.PublishedCourses,
		TotalStudents:    a.TotalStudents,
		AverageRating:    a.AverageRating,
		TotalRevenue:     a.TotalRevenue,
		CourseStats:      stats,
	}
}
