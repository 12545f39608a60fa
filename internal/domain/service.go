package domain

import (
	"context"
	"io"
)

type UploadFile struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

type UploadInput struct {
	Title    string
	Category string
	File     *UploadFile
}

type ImageQuery struct {
	Page     int
	Limit    int
	Category string
	Search   string
}

type ImageService interface {
	UploadImage(ctx context.Context, identity *Identity, in UploadInput) (*Image, error)
	DeleteImage(ctx context.Context, identity *Identity, id string) error
}

type CatalogService interface {
	ListImages(ctx context.Context, q ImageQuery) ([]*Image, error)
	ListCategories(ctx context.Context) ([]Category, error)
	CreateCategory(ctx context.Context, name string) (*Category, error)
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (string, error)
	Verify(ctx context.Context, token string) (*Identity, error)
	CreateAdmin(ctx context.Context, email, password string) (*User, error)
}

type CleanupService interface {
	RemoveOrphan(ctx context.Context, publicID string) error
}

// BlobStore owns binary payloads. Put returns the public URL and the
// host-assigned identifier used later for Delete.
type BlobStore interface {
	Put(ctx context.Context, name, contentType string, size int64, reader io.Reader) (*StoredBlob, error)
	Delete(ctx context.Context, publicID string) error
}

// Cache is a TTL key-value cache. Entries are recomputable so concurrent
// writers on one key may race.
type Cache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
	Delete(key string)
}

type TokenService interface {
	Issue(userID string) (string, error)
	Parse(token string) (*Identity, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// UploadPreparer checks an incoming payload before it reaches the blob store.
type UploadPreparer interface {
	Prepare(file *UploadFile) (*UploadFile, error)
}

type CleanupQueue interface {
	PublishBlobCleanup(ctx context.Context, publicID, reason string) error
	Close() error
}
