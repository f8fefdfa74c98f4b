// Package imageio ingests machine images from local files and remote URLs.
// Bytes are kept as-is in a data URL; only the header is decoded to learn the
// natural size.
package imageio

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"time"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/example/riskmap/internal/ports/secondary"
)

// DefaultMaxBytes caps the size of an ingested image.
const DefaultMaxBytes = 32 << 20

// DefaultTimeout bounds a remote fetch.
const DefaultTimeout = 30 * time.Second

var mimeTypes = map[string]string{
	"png":  "image/png",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"bmp":  "image/bmp",
	"tiff": "image/tiff",
	"webp": "image/webp",
}

// Source implements secondary.ImageSource.
type Source struct {
	client   *http.Client
	maxBytes int64
}

// NewSource creates an image source. A nil client gets DefaultTimeout.
func NewSource(client *http.Client) *Source {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	return &Source{client: client, maxBytes: DefaultMaxBytes}
}

// SetMaxBytes changes the size cap.
func (s *Source) SetMaxBytes(n int64) *Source {
	s.maxBytes = n
	return s
}

// FromFile reads and decodes a local image.
func (s *Source) FromFile(ctx context.Context, path string) (*secondary.ImageData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", secondary.ErrImportFailed, err)
	}
	defer f.Close()

	data, err := s.readAll(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", secondary.ErrImportFailed, path, err)
	}
	return decode(data)
}

// FromURL fetches and decodes a remote image.
func (s *Source) FromURL(ctx context.Context, url string) (*secondary.ImageData, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", secondary.ErrImportFailed, err)
	}
	req.Header.Set("Accept", "image/*")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", secondary.ErrImportFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s returned %s", secondary.ErrImportFailed, url, resp.Status)
	}

	data, err := s.readAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", secondary.ErrImportFailed, url, err)
	}
	return decode(data)
}

func (s *Source) readAll(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > s.maxBytes {
		return nil, fmt.Errorf("image larger than %d bytes", s.maxBytes)
	}
	return data, nil
}

// decode reads the image header and wraps the bytes in a data URL.
func decode(data []byte) (*secondary.ImageData, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: unsupported image: %w", secondary.ErrImportFailed, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: image has no pixels", secondary.ErrImportFailed)
	}

	return &secondary.ImageData{
		DataURL: "data:" + mimeTypes[format] + ";base64," + base64.StdEncoding.EncodeToString(data),
		Format:  format,
		Width:   cfg.Width,
		Height:  cfg.Height,
	}, nil
}

// Ensure Source implements the interface
var _ secondary.ImageSource = (*Source)(nil)
