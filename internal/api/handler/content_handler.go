package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/learnhub/course-marketplace/internal/api/metrics"
	"github.com/learnhub/course-marketplace/internal/core/ports"
)

// ContentHandler handles media uploads attached to courses.
type ContentHandler struct {
	service   ports.ContentService
	maxUpload int64
}

func NewContentHandler(service ports.ContentService, maxUpload int64) *ContentHandler {
	return &ContentHandler{service: service, maxUpload: maxUpload}
}

// UploadPDF handles POST /api/courses/:id/pdfs — multipart field "pdf" plus
// an optional title (defaults to the original filename).
func (h *ContentHandler) UploadPDF(c echo.Context) error {
	ident, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	fh, err := c.FormFile("pdf")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "pdf file is missing")
	}
	upload, closeFn, err := openUpload(fh, h.maxUpload, pdfTypes)
	if err != nil {
		return err
	}
	defer closeFn()

	course, err := h.service.AttachPDF(c.Request().Context(), ident, ports.AttachPDFInput{
		CourseID: c.Param("id"),
		File:     *upload,
		Title:    c.FormValue("title"),
	})
	if err != nil {
		return err
	}

	metrics.ContentUploadsTotal.WithLabelValues("pdf").Inc()
	return c.JSON(http.StatusOK, course)
}

// UploadVideo handles POST /api/courses/:id/videos — multipart field
// "video" plus optional title and duration (seconds, defaults to 0).
func (h *ContentHandler) UploadVideo(c echo.Context) error {
	ident, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	duration, err := formInt(c, "duration")
	if err != nil {
		return err
	}

	fh, err := c.FormFile("video")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "video file is missing")
	}
	upload, closeFn, err := openUpload(fh, h.maxUpload, videoTypes)
	if err != nil {
		return err
	}
	defer closeFn()

	course, err := h.service.AttachVideo(c.Request().Context(), ident, ports.AttachVideoInput{
		CourseID: c.Param("id"),
		File:     *upload,
		Title:    c.FormValue("title"),
		Duration: duration,
	})
	if err != nil {
		return err
	}

	metrics.ContentUploadsTotal.WithLabelValues("video").Inc()
	return c.JSON(http.StatusOK, course)
}
