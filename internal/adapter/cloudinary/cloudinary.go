package cloudinary

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	portmedia "github.com/portfolio/projects-api/internal/port/media"
)

var _ portmedia.Store = (*Store)(nil)

// uploadAPI is the subset of the Cloudinary upload API the store needs.
type uploadAPI interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
}

type Store struct {
	api uploadAPI
}

func New(cloudName, apiKey, apiSecret string) (*Store, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary client: %w", err)
	}
	return &Store{api: &cld.Upload}, nil
}

func newWithAPI(api uploadAPI) *Store {
	return &Store{api: api}
}

// Upload stores obj under obj.Folder and returns its HTTPS delivery URL.
// Cloudinary assigns the public id, so uploads never replace an existing
// asset even when two clients send the same filename.
func (s *Store) Upload(ctx context.Context, obj portmedia.Object) (string, error) {
	res, err := s.api.Upload(ctx, bytes.NewReader(obj.Data), uploader.UploadParams{
		Folder:         obj.Folder,
		UniqueFilename: api.Bool(true),
		Overwrite:      api.Bool(false),
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}
	if res == nil {
		return "", errors.New("cloudinary upload: empty response")
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("cloudinary upload: %s", res.Error.Message)
	}
	if res.SecureURL == "" {
		return "", errors.New("cloudinary upload: no secure url in response")
	}
	return res.SecureURL, nil
}
