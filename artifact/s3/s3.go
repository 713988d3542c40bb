// Package s3 provides a core.ArtifactStore backed by AWS S3 or any
// S3-compatible object store. Objects are stored as <prefix>/<runID>/<name>.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/hupe1980/eventcrew/artifact"
)

// API is the subset of the S3 client used by Store.
type API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// Config holds the connection settings of a Store.
type Config struct {
	Bucket       string
	Prefix       string
	Region       string
	Endpoint     string
	AccessKey    string
	SecretKey    string
	UsePathStyle bool
}

// Store persists artifacts as S3 objects.
type Store struct {
	client API
	bucket string
	prefix string
}

// New creates a Store with static credentials from cfg.
func New(cfg Config) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3 bucket is required")
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}

	opts := s3.Options{
		Region:       cfg.Region,
		UsePathStyle: cfg.UsePathStyle,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	if cfg.AccessKey != "" {
		opts.Credentials = credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")
	}

	return NewFromClient(s3.New(opts), cfg.Bucket, cfg.Prefix), nil
}

// NewFromClient creates a Store from an existing client.
func NewFromClient(client API, bucket, prefix string) *Store {
	return &Store{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}
}

func (s *Store) key(runID, name string) string {
	return path.Join(s.prefix, runID, name)
}

func (s *Store) runPrefix(runID string) string {
	return path.Join(s.prefix, runID) + "/"
}

// Save implements core.ArtifactStore.
func (s *Store) Save(ctx context.Context, runID, name string, data []byte) error {
	if err := artifact.ValidateKey(runID, name); err != nil {
		return err
	}

	key := s.key(runID, name)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType(name)),
	})
	if err != nil {
		return fmt.Errorf("put object %s: %w", key, err)
	}

	return nil
}

// Get implements core.ArtifactStore.
func (s *Store) Get(ctx context.Context, runID, name string) ([]byte, error) {
	if err := artifact.ValidateKey(runID, name); err != nil {
		return nil, err
	}

	key := s.key(runID, name)

	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, artifact.ErrNotFound
		}
		return nil, fmt.Errorf("get object %s: %w", key, err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("read object %s: %w", key, err)
	}

	return data, nil
}

// List implements core.ArtifactStore.
func (s *Store) List(ctx context.Context, runID string) ([]string, error) {
	prefix := s.runPrefix(runID)

	var (
		names []string
		token *string
	)

	for {
		result, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(s.bucket),
			Prefix:            aws.String(prefix),
			ContinuationToken: token,
		})
		if err != nil {
			return nil, fmt.Errorf("list objects with prefix %s: %w", prefix, err)
		}

		for _, obj := range result.Contents {
			if obj.Key == nil || len(*obj.Key) <= len(prefix) {
				continue
			}
			name := (*obj.Key)[len(prefix):]
			if !strings.Contains(name, "/") {
				names = append(names, name)
			}
		}

		if result.IsTruncated == nil || !*result.IsTruncated {
			break
		}
		token = result.NextContinuationToken
	}

	sort.Strings(names)
	if names == nil {
		names = []string{}
	}

	return names, nil
}

// Delete implements core.ArtifactStore. S3 deletes are idempotent, so a
// missing artifact is not reported.
func (s *Store) Delete(ctx context.Context, runID, name string) error {
	if err := artifact.ValidateKey(runID, name); err != nil {
		return err
	}

	key := s.key(runID, name)

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}

	return nil
}

func contentType(name string) string {
	switch path.Ext(name) {
	case ".json":
		return "application/json"
	case ".md":
		return "text/markdown; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}
