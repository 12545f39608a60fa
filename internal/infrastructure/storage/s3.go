package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/wb-go/wbf/zlog"
	"github.com/yokitheyo/mediacatalog/internal/config"
	"github.com/yokitheyo/mediacatalog/internal/domain"
)

type s3Storage struct {
	client        *minio.Client
	bucket        string
	folder        string
	publicBaseURL string
}

func NewS3Storage(cfg *config.StorageConfig) (domain.BlobStore, error) {
	if cfg.S3Endpoint == "" {
		return nil, fmt.Errorf("s3 endpoint is required")
	}
	if cfg.S3Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	if cfg.S3AccessKey == "" || cfg.S3SecretKey == "" {
		return nil, fmt.Errorf("s3 access key and secret key are required")
	}

	creds := credentials.NewStaticV4(cfg.S3AccessKey, cfg.S3SecretKey, "")
	client, err := minio.New(cfg.S3Endpoint, &minio.Options{
		Creds:  creds,
		Secure: cfg.S3UseSSL,
		Region: cfg.S3Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize s3 client: %w", err)
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, cfg.S3Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check s3 bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.S3Bucket, minio.MakeBucketOptions{Region: cfg.S3Region}); err != nil {
			zlog.Logger.Warn().Err(err).Str("bucket", cfg.S3Bucket).Msg("unable to create bucket, ensure it exists and credentials are correct")
		} else {
			zlog.Logger.Info().Str("bucket", cfg.S3Bucket).Msg("created s3 bucket")
		}
	}

	return &s3Storage{
		client:        client,
		bucket:        cfg.S3Bucket,
		folder:        cfg.Folder,
		publicBaseURL: cfg.PublicBaseURL,
	}, nil
}

func (s *s3Storage) Put(ctx context.Context, name, contentType string, size int64, reader io.Reader) (*domain.StoredBlob, error) {
	if reader == nil {
		zlog.Logger.Error().Str("name", name).Msg("reader is nil")
		return nil, fmt.Errorf("reader is nil")
	}
	if size == 0 {
		return nil, fmt.Errorf("put %s: %w", name, ErrEmptyPayload)
	}

	key := objectKey(s.folder, name)

	info, err := s.client.PutObject(ctx, s.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		zlog.Logger.Error().Err(err).Str("object", key).Msg("failed to put object to s3")
		return nil, fmt.Errorf("put object %s: %w", key, err)
	}

	zlog.Logger.Info().Str("path", key).Int64("bytes", info.Size).Msg("object saved to s3")
	return &domain.StoredBlob{
		URL:      publicURL(s.publicBaseURL, key),
		PublicID: key,
	}, nil
}

func (s *s3Storage) Delete(ctx context.Context, publicID string) error {
	if publicID == "" {
		return nil
	}
	if err := s.client.RemoveObject(ctx, s.bucket, publicID, minio.RemoveObjectOptions{}); err != nil {
		zlog.Logger.Error().Err(err).Str("path", publicID).Msg("failed to delete object from s3")
		return fmt.Errorf("remove object %s: %w", publicID, err)
	}
	zlog.Logger.Info().Str("path", publicID).Msg("object deleted from s3")
	return nil
}
