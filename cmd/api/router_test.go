package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yokitheyo/mediacatalog/internal/config"
	"github.com/yokitheyo/mediacatalog/internal/domain"
	httpHandler "github.com/yokitheyo/mediacatalog/internal/handler/http"
)

type denyAuth struct{}

func (denyAuth) Login(context.Context, string, string) (string, error) {
	return "", domain.ErrInvalidCredentials
}

func (denyAuth) Verify(context.Context, string) (*domain.Identity, error) {
	return nil, domain.ErrUnauthorized
}

func (denyAuth) CreateAdmin(context.Context, string, string) (*domain.User, error) {
	return nil, domain.ErrUnauthorized
}

type emptyCatalog struct{}

func (emptyCatalog) ListImages(context.Context, domain.ImageQuery) ([]*domain.Image, error) {
	return nil, nil
}

func (emptyCatalog) ListCategories(context.Context) ([]domain.Category, error) {
	return []domain.Category{{Name: "nature"}}, nil
}

func (emptyCatalog) CreateCategory(context.Context, string) (*domain.Category, error) {
	return nil, domain.ErrCategoryExists
}

type noImages struct {
	calls int
}

func (s *noImages) UploadImage(context.Context, *domain.Identity, domain.UploadInput) (*domain.Image, error) {
	s.calls++
	return nil, domain.ErrUpstream
}

func (s *noImages) DeleteImage(context.Context, *domain.Identity, string) error {
	s.calls++
	return domain.ErrUpstream
}

func newTestRouter(t *testing.T, images *noImages) (http.Handler, string) {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		Storage: config.StorageConfig{Type: "local", LocalPath: dir},
		CORS:    config.CORSConfig{FrontendOrigin: "https://app.example.com"},
	}
	engine := newRouter("release", cfg, denyAuth{}, httpHandler.Handlers{
		Auth:       httpHandler.NewAuthHandler(denyAuth{}),
		Categories: httpHandler.NewCategoryHandler(emptyCatalog{}),
		Images:     httpHandler.NewImageHandler(images, emptyCatalog{}, 1<<20),
	})
	return engine, dir
}

func serve(h http.Handler, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestNewRouter_MountsHealthAndAPI(t *testing.T) {
	images := &noImages{}
	h, _ := newTestRouter(t, images)

	rec := serve(h, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = serve(h, http.MethodGet, "/api/categories")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "nature")

	rec = serve(h, http.MethodGet, "/api/images")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNewRouter_PrivateRoutesNeedToken(t *testing.T) {
	images := &noImages{}
	h, _ := newTestRouter(t, images)

	rec := serve(h, http.MethodPost, "/api/images/upload")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(h, http.MethodDelete, "/api/images/abc")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	assert.Zero(t, images.calls)
}

func TestNewRouter_ServesLocalUploads(t *testing.T) {
	h, dir := newTestRouter(t, &noImages{})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("blob"), 0o644))

	rec := serve(h, http.MethodGet, "/uploads/a.txt")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "blob", rec.Body.String())
}
