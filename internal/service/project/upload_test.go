package project_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainmedia "github.com/portfolio/projects-api/internal/domain/media"
	portmedia "github.com/portfolio/projects-api/internal/port/media"
	projectsvc "github.com/portfolio/projects-api/internal/service/project"
)

var pngSignature = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

// pngOfSize returns size bytes that sniff as image/png.
func pngOfSize(size int) []byte {
	data := make([]byte, size)
	copy(data, pngSignature)
	return data
}

func TestUploadImage_AcceptsPNG(t *testing.T) {
	svc, d := newProjectSvc(t)
	data := pngOfSize(1 << 20)

	d.media.EXPECT().Upload(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, obj portmedia.Object) (string, error) {
		assert.Equal(t, domainmedia.DefaultFolder, obj.Folder)
		assert.Equal(t, "shot.png", obj.Filename)
		assert.Equal(t, "image/png", obj.ContentType)
		assert.Len(t, obj.Data, 1<<20)
		return "https://res.cloudinary.com/demo/image/upload/v1/portfolio_projects/shot.png", nil
	})

	url, err := svc.UploadImage(context.Background(), &projectsvc.ImageUpload{
		Filename:    "shot.png",
		ContentType: "image/png",
		Size:        int64(len(data)),
		Body:        bytes.NewReader(data),
	})
	require.NoError(t, err)
	assert.Equal(t, "https://res.cloudinary.com/demo/image/upload/v1/portfolio_projects/shot.png", url)
}

func TestUploadImage_RejectsBeforeMediaStore(t *testing.T) {
	tests := []struct {
		name    string
		upload  *projectsvc.ImageUpload
		wantErr error
	}{
		{name: "no file", upload: nil, wantErr: domainmedia.ErrNoFile},
		{
			name:    "6 MiB file",
			upload:  &projectsvc.ImageUpload{Filename: "big.png", ContentType: "image/png", Size: 6 << 20, Body: bytes.NewReader(pngOfSize(6 << 20))},
			wantErr: domainmedia.ErrImageTooLarge,
		},
		{
			name:    "understated size",
			upload:  &projectsvc.ImageUpload{Filename: "big.png", ContentType: "image/png", Size: 10, Body: bytes.NewReader(pngOfSize(6 << 20))},
			wantErr: domainmedia.ErrImageTooLarge,
		},
		{
			name:    "gif",
			upload:  &projectsvc.ImageUpload{Filename: "anim.gif", ContentType: "image/gif", Size: 16, Body: bytes.NewReader([]byte("GIF89a........."))},
			wantErr: domainmedia.ErrUnsupportedImage,
		},
		{
			name:    "png name with non-image content",
			upload:  &projectsvc.ImageUpload{Filename: "fake.png", ContentType: "image/png", Size: 11, Body: bytes.NewReader([]byte("hello world"))},
			wantErr: domainmedia.ErrUnsupportedImage,
		},
		{
			name:    "empty body",
			upload:  &projectsvc.ImageUpload{Filename: "empty.png", ContentType: "image/png", Size: 0, Body: bytes.NewReader(nil)},
			wantErr: domainmedia.ErrNoFile,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// No EXPECT on the media store: reaching it fails the test.
			svc, _ := newProjectSvc(t)
			_, err := svc.UploadImage(context.Background(), tt.upload)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestUploadImage_ProviderError(t *testing.T) {
	svc, d := newProjectSvc(t)
	data := pngOfSize(1024)
	d.media.EXPECT().Upload(gomock.Any(), gomock.Any()).Return("", errors.New("invalid api key"))

	_, err := svc.UploadImage(context.Background(), &projectsvc.ImageUpload{
		Filename:    "shot.png",
		ContentType: "image/png",
		Size:        int64(len(data)),
		Body:        bytes.NewReader(data),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upload image")
}
