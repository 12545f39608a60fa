package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/wb-go/wbf/zlog"
	"github.com/yokitheyo/mediacatalog/internal/config"
	"github.com/yokitheyo/mediacatalog/internal/domain"
)

// localStorage keeps blobs on disk; the API serves LocalPath as static files.
type localStorage struct {
	basePath      string
	folder        string
	publicBaseURL string
}

func NewLocalStorage(cfg *config.StorageConfig) (domain.BlobStore, error) {
	if cfg.LocalPath == "" {
		return nil, fmt.Errorf("LocalPath is empty, set storage.local_path in config or env")
	}

	storage := &localStorage{
		basePath:      cfg.LocalPath,
		folder:        cfg.Folder,
		publicBaseURL: cfg.PublicBaseURL,
	}

	if err := os.MkdirAll(filepath.Join(storage.basePath, storage.folder), 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return storage, nil
}

func (s *localStorage) Put(ctx context.Context, name, contentType string, size int64, reader io.Reader) (*domain.StoredBlob, error) {
	if reader == nil {
		zlog.Logger.Error().Str("name", name).Msg("reader is nil")
		return nil, fmt.Errorf("reader is nil")
	}

	key := objectKey(s.folder, name)
	fullPath := filepath.Join(s.basePath, filepath.FromSlash(key))

	file, err := os.OpenFile(fullPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		zlog.Logger.Error().Err(err).Str("path", fullPath).Msg("failed to create file")
		return nil, fmt.Errorf("create file %s: %w", fullPath, err)
	}

	written, err := io.Copy(file, reader)
	closeErr := file.Close()
	if err == nil && written == 0 {
		err = ErrEmptyPayload
	}
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(fullPath)
		zlog.Logger.Error().Err(err).Str("path", fullPath).Msg("failed to write file")
		return nil, fmt.Errorf("write file %s: %w", fullPath, err)
	}

	zlog.Logger.Info().
		Str("path", key).
		Str("content_type", contentType).
		Int64("bytes", written).
		Msg("file saved successfully")

	return &domain.StoredBlob{
		URL:      publicURL(s.publicBaseURL, key),
		PublicID: key,
	}, nil
}

func (s *localStorage) Delete(ctx context.Context, publicID string) error {
	if publicID == "" {
		return nil
	}

	fullPath := filepath.Join(s.basePath, filepath.FromSlash(filepath.Clean("/"+publicID)))

	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			zlog.Logger.Warn().Str("path", fullPath).Msg("file not found, skipping delete")
			return nil
		}
		zlog.Logger.Error().Err(err).Str("path", fullPath).Msg("failed to delete file")
		return fmt.Errorf("delete file %s: %w", fullPath, err)
	}

	zlog.Logger.Info().Str("path", publicID).Msg("file deleted successfully")
	return nil
}
