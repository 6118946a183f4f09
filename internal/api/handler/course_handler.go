package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/learnhub/course-marketplace/internal/api/metrics"
	"github.com/learnhub/course-marketplace/internal/core/ports"
)

// CourseHandler handles HTTP requests for course listing and lifecycle.
type CourseHandler struct {
	service   ports.CourseService
	maxUpload int64
}

func NewCourseHandler(service ports.CourseService, maxUpload int64) *CourseHandler {
	return &CourseHandler{service: service, maxUpload: maxUpload}
}

// List handles GET /api/courses — filtered, sorted, paginated listing.
//
// @Summary      List courses with filters and pagination
// @Tags         courses
// @Produce      json
// @Security     BearerAuth
// @Param        page        query     int     false  "1-based page number"
// @Param        limit       query     int     false  "page size (default 12)"
// @Param        category    query     string  false  "category filter ('all' = no filter)"
// @Param        level       query     string  false  "level filter ('all' = no filter)"
// @Param        search      query     string  false  "substring match on title, description or tags"
// @Param        sortBy      query     string  false  "sort field (default createdAt)"
// @Param        sortOrder   query     string  false  "asc or desc (default desc)"
// @Param        priceRange  query     string  false  "min-max or min-"
// @Param        rating      query     number  false  "minimum rating"
// @Success      200         {object}  listCoursesResponse
// @Failure      500         {object}  map[string]string
// @Router       /api/courses [get]
func (h *CourseHandler) List(c echo.Context) error {
	var q listCoursesQuery
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}

	start := time.Now()
	result, err := h.service.ListCourses(c.Request().Context(), optionalIdentity(c), ports.ListCoursesInput{
		Page:       q.Page,
		Limit:      q.Limit,
		Category:   q.Category,
		Level:      q.Level,
		Search:     q.Search,
		SortBy:     q.SortBy,
		SortOrder:  q.SortOrder,
		PriceRange: q.PriceRange,
		Rating:     q.Rating,
	})
	if err != nil {
		return err
	}
	metrics.CourseListDuration.Observe(time.Since(start).Seconds())

	return c.JSON(http.StatusOK, toListResponse(result))
}

// Get handles GET /api/courses/:id — full course with creator, reviewer
// usernames and the caller-relative enrollment flag.
func (h *CourseHandler) Get(c echo.Context) error {
	detail, err := h.service.GetCourse(c.Request().Context(), optionalIdentity(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toDetailResponse(detail))
}

// Create handles POST /api/courses — multipart form with course fields and
// an optional cover image.
func (h *CourseHandler) Create(c echo.Context) error {
	ident, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	totalPrice, err := formFloat(c, "totalPrice")
	if err != nil {
		return err
	}
	discountedPrice, err := formFloat(c, "discountedPrice")
	if err != nil {
		return err
	}
	duration, err := formInt(c, "duration")
	if err != nil {
		return err
	}

	input := ports.CreateCourseInput{
		Title:           c.FormValue("title"),
		Description:     c.FormValue("description"),
		PricingPlan:     c.FormValue("pricingPlan"),
		TotalPrice:      totalPrice,
		DiscountedPrice: discountedPrice,
		Category:        c.FormValue("category"),
		Level:           c.FormValue("level"),
		Duration:        duration,
		Language:        c.FormValue("language"),
		Tags:            c.FormValue("tags"),
	}

	if fh, err := c.FormFile("coverImage"); err == nil {
		upload, closeFn, err := openUpload(fh, h.maxUpload, imageTypes)
		if err != nil {
			return err
		}
		defer closeFn()
		input.Cover = upload
	}

	course, err := h.service.CreateCourse(c.Request().Context(), ident, input)
	if err != nil {
		return err
	}

	metrics.CoursesCreatedTotal.WithLabelValues(course.Category).Inc()
	return c.JSON(http.StatusCreated, course)
}

// Update handles PUT /api/courses/:id — merge-if-present update of the
// mutable fields, with optional cover replacement.
func (h *CourseHandler) Update(c echo.Context) error {
	ident, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	totalPrice, err := formFloatPtr(c, "totalPrice")
	if err != nil {
		return err
	}
	discountedPrice, err := formFloatPtr(c, "discountedPrice")
	if err != nil {
		return err
	}
	duration, err := formIntPtr(c, "duration")
	if err != nil {
		return err
	}

	input := ports.UpdateCourseInput{
		Title:           formString(c, "title"),
		Description:     formString(c, "description"),
		PricingPlan:     formString(c, "pricingPlan"),
		TotalPrice:      totalPrice,
		DiscountedPrice: discountedPrice,
		Category:        formString(c, "category"),
		Level:           formString(c, "level"),
		Duration:        duration,
		Language:        formString(c, "language"),
		Tags:            formString(c, "tags"),
	}

	if fh, err := c.FormFile("coverImage"); err == nil {
		upload, closeFn, err := openUpload(fh, h.maxUpload, imageTypes)
		if err != nil {
			return err
		}
		defer closeFn()
		input.Cover = upload
	}

	course, err := h.service.UpdateCourse(c.Request().Context(), ident, c.Param("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, course)
}

// Delete handles DELETE /api/courses/:id. Attached media is cleaned up
// asynchronously after the record is removed.
func (h *CourseHandler) Delete(c echo.Context) error {
	ident, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteCourse(c.Request().Context(), ident, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "course deleted successfully"})
}

// TogglePublish handles PATCH /api/courses/:id/publish — flips the publish
// gate and returns the new state.
func (h *CourseHandler) TogglePublish(c echo.Context) error {
	ident, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	published, err := h.service.TogglePublish(c.Request().Context(), ident, c.Param("id"))
	if err != nil {
		return err
	}

	msg := "course unpublished successfully"
	if published {
		msg = "course published successfully"
	}
	return c.JSON(http.StatusOK, publishResponse{Message: msg, IsPublished: published})
}

// Featured handles GET /api/courses/featured — best-rated published courses.
func (h *CourseHandler) Featured(c echo.Context) error {
	items, err := h.service.FeaturedCourses(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCourseItems(items))
}

// Enrolled handles GET /api/courses/enrolled — the calling student's courses.
func (h *CourseHandler) Enrolled(c echo.Context) error {
	ident, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	items, err := h.service.EnrolledCourses(c.Request().Context(), ident)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCourseItems(items))
}

// Categories handles GET /api/courses/categories — distinct categories of
// published courses.
func (h *CourseHandler) Categories(c echo.Context) error {
	categories, err := h.service.Categories(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, categories)
}

// Analytics handles GET /api/analytics/courses — teacher-only aggregate view.
func (h *CourseHandler) Analytics(c echo.Context) error {
	ident, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	result, err := h.service.Analytics(c.Request().Context(), ident)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAnalyticsResponse(result))
}

// --- Multipart form helpers ---

// formString returns a pointer when the field is present and non-empty, so
// absent fields keep their stored value (merge-if-present).
func formString(c echo.Context, name string) *string {
	v := c.FormValue(name)
	if v == "" {
		return nil
	}
	return &v
}

// The numeric helpers treat an absent field as its zero value but reject a
// malformed one: a mistyped number is a client error, never a silent zero.

func formFloat(c echo.Context, name string) (float64, error) {
	raw := c.FormValue(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, name+" must be a number")
	}
	return v, nil
}

func formFloatPtr(c echo.Context, name string) (*float64, error) {
	raw := c.FormValue(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, name+" must be a number")
	}
	return &v, nil
}

func formInt(c echo.Context, name string) (int, error) {
	raw := c.FormValue(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, name+" must be an integer")
	}
	return v, nil
}

func formIntPtr(c echo.Context, name string) (*int, error) {
	raw := c.FormValue(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, name+" must be an integer")
	}
	return &v, nil
}
