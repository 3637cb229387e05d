package s3

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	portmedia "github.com/portfolio/projects-api/internal/port/media"
)

var _ portmedia.Store = (*Store)(nil)

type putObjectAPI interface {
	PutObject(ctx context.Context, params *awss3.PutObjectInput, optFns ...func(*awss3.Options)) (*awss3.PutObjectOutput, error)
}

// Store writes images to an S3 bucket and returns their public URL.
type Store struct {
	client  putObjectAPI
	bucket  string
	baseURL string
	newKey  func() string
}

// New loads credentials from the default AWS chain. When publicBaseURL is
// empty the virtual-hosted bucket URL is used.
func New(ctx context.Context, bucket, region, publicBaseURL string) (*Store, error) {
	cfg, err := awscfg.LoadDefaultConfig(ctx, awscfg.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}
	if publicBaseURL == "" {
		publicBaseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
	}
	return newWithClient(awss3.NewFromConfig(cfg), bucket, publicBaseURL), nil
}

func newWithClient(client putObjectAPI, bucket, baseURL string) *Store {
	return &Store{
		client:  client,
		bucket:  bucket,
		baseURL: strings.TrimRight(baseURL, "/"),
		newKey:  func() string { return uuid.New().String() },
	}
}

func (s *Store) Upload(ctx context.Context, obj portmedia.Object) (string, error) {
	key := path.Join(obj.Folder, s.newKey()+strings.ToLower(path.Ext(obj.Filename)))

	_, err := s.client.PutObject(ctx, &awss3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(obj.Data),
		ContentType: aws.String(obj.ContentType),
	})
	if err != nil {
		return "", fmt.Errorf("s3 put %s: %w", key, err)
	}
	return s.baseURL + "/" + key, nil
}
