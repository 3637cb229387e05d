package project

import (
	"context"
	"fmt"
	"io"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"github.com/portfolio/projects-api/internal/domain/media"
	portmedia "github.com/portfolio/projects-api/internal/port/media"
)

// ImageUpload is a single file attachment as received from the client.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// UploadImage filters the attachment by declared type, size and sniffed
// content, then hands the buffered bytes to the media store. Nothing reaches
// the media store unless every check passes.
func (s *Service) UploadImage(ctx context.Context, up *ImageUpload) (string, error) {
	if up == nil || up.Body == nil {
		return "", media.ErrNoFile
	}
	if err := media.CheckImage(up.Filename, up.ContentType, up.Size); err != nil {
		return "", err
	}

	data, err := io.ReadAll(io.LimitReader(up.Body, media.MaxImageSize+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if len(data) > media.MaxImageSize {
		return "", media.ErrImageTooLarge
	}
	if len(data) == 0 {
		return "", media.ErrNoFile
	}

	sniffed := mimetype.Detect(data)
	if !media.AllowedContentType(sniffed.String()) {
		s.log.Info("upload rejected by content sniffing",
			zap.String("filename", up.Filename),
			zap.String("declared", up.ContentType),
			zap.String("detected", sniffed.String()),
		)
		return "", media.ErrUnsupportedImage
	}

	url, err := s.media.Upload(ctx, portmedia.Object{
		Folder:      s.mediaFolder,
		Filename:    up.Filename,
		ContentType: sniffed.String(),
		Data:        data,
	})
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}

	s.log.Info("image uploaded", zap.String("filename", up.Filename), zap.String("url", url))
	return url, nil
}
