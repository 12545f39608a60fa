package storage

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/wb-go/wbf/zlog"
	"github.com/yokitheyo/mediacatalog/internal/config"
	"github.com/yokitheyo/mediacatalog/internal/domain"
)

var ErrEmptyPayload = errors.New("empty payload")

func New(cfg *config.StorageConfig) (domain.BlobStore, error) {
	switch cfg.Type {
	case "local":
		zlog.Logger.Info().Msg("Initializing local storage")
		return NewLocalStorage(cfg)
	case "s3":
		zlog.Logger.Info().Msg("Initializing S3 storage")
		return NewS3Storage(cfg)
	default:
		zlog.Logger.Error().Str("type", cfg.Type).Msg("Unsupported storage type, use 'local' or 's3'")
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}

// objectKey places name inside folder; the key doubles as the public id.
func objectKey(folder, name string) string {
	return path.Join(folder, path.Base(name))
}

func publicURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + key
}
