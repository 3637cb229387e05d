package media

import (
	"errors"
	"mime"
	"path/filepath"
	"strings"
)

// MaxImageSize is the largest accepted upload, 5 MiB.
const MaxImageSize = 5 << 20

// DefaultFolder is the media-store namespace for project images.
const DefaultFolder = "portfolio_projects"

var (
	ErrNoFile           = errors.New("no file uploaded")
	ErrUnsupportedImage = errors.New("only images are allowed")
	ErrImageTooLarge    = errors.New("file too large")
)

var allowedExtensions = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
}

var allowedContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
}

// CheckImage rejects uploads by declared metadata before any bytes are read.
func CheckImage(filename, contentType string, size int64) error {
	if size > MaxImageSize {
		return ErrImageTooLarge
	}
	if !allowedExtensions[strings.ToLower(filepath.Ext(filename))] {
		return ErrUnsupportedImage
	}
	if !AllowedContentType(contentType) {
		return ErrUnsupportedImage
	}
	return nil
}

// AllowedContentType reports whether a MIME type (parameters ignored) is an
// accepted image type.
func AllowedContentType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return allowedContentTypes[strings.ToLower(mediaType)]
}
