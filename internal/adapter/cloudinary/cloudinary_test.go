package cloudinary

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	portmedia "github.com/portfolio/projects-api/internal/port/media"
)

type fakeUploader struct {
	gotParams uploader.UploadParams
	gotData   []byte
	calls     []uploader.UploadParams
	result    *uploader.UploadResult
	// results, when set, is consumed one entry per call.
	results []*uploader.UploadResult
	err     error
}

func (f *fakeUploader) Upload(_ context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error) {
	f.gotParams = params
	f.calls = append(f.calls, params)
	if r, ok := file.(io.Reader); ok {
		f.gotData, _ = io.ReadAll(r)
	}
	if len(f.results) > 0 {
		res := f.results[0]
		f.results = f.results[1:]
		return res, f.err
	}
	return f.result, f.err
}

func TestStore_Upload(t *testing.T) {
	fake := &fakeUploader{result: &uploader.UploadResult{
		SecureURL: "https://res.cloudinary.com/demo/image/upload/v1/portfolio_projects/shot.png",
	}}
	s := newWithAPI(fake)

	url, err := s.Upload(context.Background(), portmedia.Object{
		Folder:   "portfolio_projects",
		Filename: "shot.png",
		Data:     []byte("png-bytes"),
	})
	require.NoError(t, err)
	assert.Equal(t, "https://res.cloudinary.com/demo/image/upload/v1/portfolio_projects/shot.png", url)
	assert.Equal(t, "portfolio_projects", fake.gotParams.Folder)
	assert.Empty(t, fake.gotParams.PublicID)
	assert.Equal(t, []byte("png-bytes"), fake.gotData)
}

func TestStore_UploadSameFilenameDoesNotOverwrite(t *testing.T) {
	fake := &fakeUploader{results: []*uploader.UploadResult{
		{SecureURL: "https://res.cloudinary.com/demo/image/upload/v1/portfolio_projects/a1b2c3.png"},
		{SecureURL: "https://res.cloudinary.com/demo/image/upload/v1/portfolio_projects/d4e5f6.png"},
	}}
	s := newWithAPI(fake)
	obj := portmedia.Object{Folder: "portfolio_projects", Filename: "photo.png", Data: []byte("png-bytes")}

	first, err := s.Upload(context.Background(), obj)
	require.NoError(t, err)
	second, err := s.Upload(context.Background(), obj)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	require.Len(t, fake.calls, 2)
	for _, params := range fake.calls {
		assert.Empty(t, params.PublicID)
		require.NotNil(t, params.Overwrite)
		assert.False(t, *params.Overwrite)
		require.NotNil(t, params.UniqueFilename)
		assert.True(t, *params.UniqueFilename)
	}
}

func TestStore_UploadErrors(t *testing.T) {
	tests := []struct {
		name string
		fake *fakeUploader
	}{
		{name: "transport error", fake: &fakeUploader{err: errors.New("dial tcp: timeout")}},
		{name: "api error", fake: &fakeUploader{result: &uploader.UploadResult{Error: api.ErrorResp{Message: "Invalid Signature"}}}},
		{name: "nil result", fake: &fakeUploader{}},
		{name: "no url", fake: &fakeUploader{result: &uploader.UploadResult{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newWithAPI(tt.fake).Upload(context.Background(), portmedia.Object{Filename: "a.png", Data: []byte("x")})
			assert.Error(t, err)
		})
	}
}
