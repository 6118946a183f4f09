package handler

import (
	"mime/multipart"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/learnhub/course-marketplace/internal/core/ports"
)

var imageTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/gif":  {},
	"image/webp": {},
}

var pdfTypes = map[string]struct{}{
	"application/pdf": {},
}

var videoTypes = map[string]struct{}{
	"video/mp4":  {},
	"video/webm": {},
	"video/ogg":  {},
}

// openUpload validates an uploaded file against the size limit and content
// type allow-list, and turns it into the transport-free DTO. The returned
// close func must be called once the service is done reading.
func openUpload(fh *multipart.FileHeader, maxSize int64, allowed map[string]struct{}) (*ports.FileUpload, func(), error) {
	if fh.Size > maxSize {
		return nil, nil, echo.NewHTTPError(http.StatusBadRequest, "file exceeds the maximum allowed size")
	}

	contentType := fh.Header.Get("Content-Type")
	if _, ok := allowed[contentType]; !ok {
		return nil, nil, echo.NewHTTPError(http.StatusBadRequest, "unsupported content type "+contentType)
	}

	src, err := fh.Open()
	if err != nil {
		return nil, nil, err
	}

	upload := &ports.FileUpload{
		Filename:    fh.Filename,
		ContentType: contentType,
		Size:        fh.Size,
		Content:     src,
	}
	return upload, func() { _ = src.Close() }, nil
}
