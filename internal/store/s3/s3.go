// Package s3 stores the virtual filesystem on an S3-compatible bucket.
//
// Files are objects keyed by their path (without the leading slash) under an
// optional prefix. Directories are empty marker objects whose key ends in "/".
package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/3rg0n/termfolio/internal/pathutil"
	"github.com/3rg0n/termfolio/internal/store"
)

// Config holds S3 connection settings
type Config struct {
	Endpoint  string // empty for AWS, set for MinIO and friends
	Bucket    string
	Prefix    string // key prefix acting as the volume root, e.g. "termfolio/"
	Region    string
	AccessKey string
	SecretKey string
}

// objectAPI is the subset of the S3 client the store uses
type objectAPI interface {
	HeadBucket(ctx context.Context, in *s3.HeadBucketInput, opts ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	CreateBucket(ctx context.Context, in *s3.CreateBucketInput, opts ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, opts ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, opts ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// Store is a store.Backend on top of an S3 bucket
type Store struct {
	client objectAPI
	bucket string
	prefix string
}

// New connects to the bucket described by cfg, creating it if it is missing
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3: bucket not configured")
	}

	opts := []func(*config.LoadOptions) error{}
	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true // MinIO needs path-style addressing
		}
	})

	s := newWithClient(client, cfg.Bucket, cfg.Prefix)
	if err := s.ensureBucket(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func newWithClient(client objectAPI, bucket, prefix string) *Store {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &Store{client: client, bucket: bucket, prefix: prefix}
}

func (s *Store) ensureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err == nil {
		return nil
	}
	if _, createErr := s.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(s.bucket)}); createErr != nil {
		return fmt.Errorf("bucket %s does not exist and cannot create: %w", s.bucket, createErr)
	}
	return nil
}

func (s *Store) Kind() string { return "s3" }

func (s *Store) Close() error { return nil }

func (s *Store) fileKey(path string) string {
	return s.prefix + strings.TrimPrefix(path, "/")
}

// dirPrefix is the listing prefix for a directory; the root maps to the bare prefix
func (s *Store) dirPrefix(path string) string {
	if path == pathutil.Root {
		return s.prefix
	}
	return s.fileKey(path) + "/"
}

func isNotFound(err error) bool {
	var nf *types.NotFound
	var nsk *types.NoSuchKey
	return errors.As(err, &nf) || errors.As(err, &nsk)
}

func (s *Store) head(ctx context.Context, key string) (*s3.HeadObjectOutput, bool, error) {
	out, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return out, true, nil
}

func (s *Store) Stat(ctx context.Context, path string) (store.Info, error) {
	if path == pathutil.Root {
		return store.Info{Path: path, IsDir: true}, nil
	}

	out, ok, err := s.head(ctx, s.fileKey(path))
	if err != nil {
		return store.Info{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if ok {
		return store.Info{Path: path, Size: aws.ToInt64(out.ContentLength)}, nil
	}

	_, ok, err = s.head(ctx, s.dirPrefix(path))
	if err != nil {
		return store.Info{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if ok {
		return store.Info{Path: path, IsDir: true}, nil
	}
	return store.Info{}, fmt.Errorf("stat %s: %w", path, store.ErrNotExist)
}

func (s *Store) ReadDir(ctx context.Context, path string) ([]string, error) {
	info, err := s.Stat(ctx, path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir {
		return nil, fmt.Errorf("readdir %s: %w", path, store.ErrNotDir)
	}

	prefix := s.dirPrefix(path)
	names := []string{}
	var token *string
	for {
		out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(s.bucket),
			Prefix:            aws.String(prefix),
			Delimiter:         aws.String("/"),
			ContinuationToken: token,
		})
		if err != nil {
			return nil, fmt.Errorf("readdir %s: %w", path, err)
		}
		for _, cp := range out.CommonPrefixes {
			name := strings.TrimSuffix(strings.TrimPrefix(aws.ToString(cp.Prefix), prefix), "/")
			if name != "" {
				names = append(names, name)
			}
		}
		for _, obj := range out.Contents {
			name := strings.TrimPrefix(aws.ToString(obj.Key), prefix)
			if name != "" {
				names = append(names, name)
			}
		}
		if !aws.ToBool(out.IsTruncated) {
			break
		}
		token = out.NextContinuationToken
	}
	return names, nil
}

func (s *Store) ReadFile(ctx context.Context, path string) (string, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.fileKey(path)),
	})
	if err != nil {
		if !isNotFound(err) {
			return "", fmt.Errorf("open %s: %w", path, err)
		}
		if info, statErr := s.Stat(ctx, path); statErr == nil && info.IsDir {
			return "", fmt.Errorf("open %s: %w", path, store.ErrIsDir)
		}
		return "", fmt.Errorf("open %s: %w", path, store.ErrNotExist)
	}
	defer func() { _ = out.Body.Close() }()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

func (s *Store) WriteFile(ctx context.Context, path, content string) error {
	info, err := s.Stat(ctx, path)
	switch {
	case err == nil && info.IsDir:
		return fmt.Errorf("write %s: %w", path, store.ErrIsDir)
	case err != nil && !errors.Is(err, store.ErrNotExist):
		return err
	case err != nil:
		if err := s.checkParent(ctx, path); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return s.put(ctx, s.fileKey(path), content)
}

func (s *Store) Mkdir(ctx context.Context, path string) error {
	_, err := s.Stat(ctx, path)
	if err == nil {
		return fmt.Errorf("mkdir %s: %w", path, store.ErrExist)
	}
	if !errors.Is(err, store.ErrNotExist) {
		return err
	}
	if err := s.checkParent(ctx, path); err != nil {
		return fmt.Errorf("mkdir %s: %w", path, err)
	}
	return s.put(ctx, s.dirPrefix(path), "")
}

func (s *Store) put(ctx context.Context, key, content string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        strings.NewReader(content),
		ContentType: aws.String("text/plain; charset=utf-8"),
	})
	if err != nil {
		return fmt.Errorf("put object %s: %w", key, err)
	}
	return nil
}

func (s *Store) checkParent(ctx context.Context, path string) error {
	info, err := s.Stat(ctx, pathutil.Parent(path))
	if err != nil {
		return store.ErrNotExist
	}
	if !info.IsDir {
		return store.ErrNotDir
	}
	return nil
}
