package domain

import (
	"strings"
	"time"
)

const (
	CacheKeyCategories = "categories"
	CacheKeyImages     = "images"
)

type Image struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Category     string    `json:"category"`
	ImageURL     string    `json:"imageUrl"`
	PublicID     string    `json:"publicId"`
	OriginalName string    `json:"originalName,omitempty"`
	UploadedAt   time.Time `json:"uploadedAt"`
}

type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Identity is the subject of a verified credential.
type Identity struct {
	UserID string
}

// ImageFilter is a catalog query. Empty Category and Search match everything.
type ImageFilter struct {
	Category string
	Search   string
	Limit    int
	Offset   int
}

// StoredBlob is what the blob host hands back for a successful write.
type StoredBlob struct {
	URL      string
	PublicID string
}

// NormalizeName trims and lowercases category names and emails.
func NormalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
