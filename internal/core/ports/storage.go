package ports

import (
	"context"
	"io"
)

// FileKind selects the storage bucket for an uploaded blob.
type FileKind string

const (
	FileKindImage FileKind = "images"
	FileKindPDF   FileKind = "pdfs"
	FileKindVideo FileKind = "videos"
)

// FileUpload carries an uploaded blob from the transport layer into the core.
type FileUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// FileStore abstracts the file-storage collaborator. Save returns the
// relative path under which the blob is served; the path is stored verbatim
// on the owning record.
type FileStore interface {
	Save(ctx context.Context, kind FileKind, filename string, r io.Reader) (string, error)
	Delete(ctx context.Context, path string) error
}
