package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/learnhub/course-marketplace/internal/api/metrics"
	"github.com/learnhub/course-marketplace/internal/core/domain"
	"github.com/learnhub/course-marketplace/internal/core/ports"
)

// EnrollmentHandler handles enrollment and review submissions.
type EnrollmentHandler struct {
	service ports.EnrollmentService
}

func NewEnrollmentHandler(service ports.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{service: service}
}

// Enroll handles POST /api/courses/:id/enroll. A repeat attempt is a
// conflict outcome with a message, not a server failure.
func (h *EnrollmentHandler) Enroll(c echo.Context) error {
	ident, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.service.Enroll(c.Request().Context(), ident, c.Param("id")); err != nil {
		if errors.Is(err, domain.ErrAlreadyEnrolled) {
			metrics.EnrollmentsTotal.WithLabelValues("duplicate").Inc()
		}
		return err
	}

	metrics.EnrollmentsTotal.WithLabelValues("enrolled").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "successfully enrolled in course"})
}

// AddReview handles POST /api/courses/:id/reviews — upserts the caller's
// review and returns the recomputed course rating.
func (h *EnrollmentHandler) AddReview(c echo.Context) error {
	ident, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req reviewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	result, err := h.service.AddReview(c.Request().Context(), ident, c.Param("id"), ports.ReviewInput{
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		return err
	}

	kind := "created"
	msg := "review added successfully"
	if result.Updated {
		kind = "updated"
		msg = "review updated successfully"
	}
	metrics.ReviewsSubmittedTotal.WithLabelValues(kind).Inc()

	return c.JSON(http.StatusOK, reviewResultResponse{Message: msg, Rating: result.NewRating})
}
