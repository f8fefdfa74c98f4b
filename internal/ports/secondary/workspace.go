// Package secondary defines the secondary ports (driven adapters) for the application.
package secondary

import (
	"context"
	"errors"
)

// ErrImportFailed wraps every failure to read or fetch image bytes.
var ErrImportFailed = errors.New("image import failed")

// DocumentFileStore defines the secondary port for reading and writing
// assessment files.
type DocumentFileStore interface {
	Read(ctx context.Context, path string) ([]byte, error)
	Write(ctx context.Context, path string, data []byte) error
	Exists(ctx context.Context, path string) (bool, error)
}

// ImageSource defines the secondary port for image ingestion. Both methods
// return decoded image data; neither touches the document.
type ImageSource interface {
	FromFile(ctx context.Context, path string) (*ImageData, error)
	FromURL(ctx context.Context, url string) (*ImageData, error)
}

// ImageData is an ingested image ready to be applied to a document.
type ImageData struct {
	DataURL string // data:<mime>;base64,<bytes>
	Format  string // png, jpeg, gif, bmp, tiff, webp
	Width   int
	Height  int
}
