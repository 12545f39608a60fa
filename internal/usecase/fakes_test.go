package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/yokitheyo/mediacatalog/internal/domain"
)

var errBoom = errors.New("boom")

type fakeImageRepo struct {
	mu        sync.Mutex
	items     map[string]*domain.Image
	createErr error
	deleteErr error
	listCalls int
}

func newFakeImageRepo() *fakeImageRepo {
	return &fakeImageRepo{items: map[string]*domain.Image{}}
}

func (r *fakeImageRepo) Create(_ context.Context, image *domain.Image) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	for _, existing := range r.items {
		if existing.ImageURL == image.ImageURL || existing.PublicID == image.PublicID {
			return domain.ErrDuplicateImage
		}
	}
	cp := *image
	r.items[image.ID] = &cp
	return nil
}

func (r *fakeImageRepo) FindByID(_ context.Context, id string) (*domain.Image, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	img, ok := r.items[id]
	if !ok {
		return nil, domain.ErrImageNotFound
	}
	cp := *img
	return &cp, nil
}

func (r *fakeImageRepo) ExistsByURL(_ context.Context, imageURL string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, img := range r.items {
		if img.ImageURL == imageURL {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeImageRepo) ExistsByPublicID(_ context.Context, publicID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, img := range r.items {
		if img.PublicID == publicID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeImageRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleteErr != nil {
		return r.deleteErr
	}
	if _, ok := r.items[id]; !ok {
		return domain.ErrImageNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *fakeImageRepo) List(_ context.Context, filter domain.ImageFilter) ([]*domain.Image, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listCalls++

	var matched []*domain.Image
	for _, img := range r.items {
		if filter.Category != "" && img.Category != filter.Category {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(img.Title), strings.ToLower(filter.Search)) {
			continue
		}
		cp := *img
		matched = append(matched, &cp)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].UploadedAt.After(matched[j].UploadedAt)
	})

	if filter.Offset >= len(matched) {
		return []*domain.Image{}, nil
	}
	end := filter.Offset + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[filter.Offset:end], nil
}

func (r *fakeImageRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

func (r *fakeImageRepo) only() *domain.Image {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, img := range r.items {
		return img
	}
	return nil
}

type fakeCategoryRepo struct {
	mu        sync.Mutex
	names     map[string]domain.Category
	listCalls int
	err       error
}

func newFakeCategoryRepo(names ...string) *fakeCategoryRepo {
	r := &fakeCategoryRepo{names: map[string]domain.Category{}}
	for _, n := range names {
		r.names[n] = domain.Category{ID: n, Name: n}
	}
	return r
}

func (r *fakeCategoryRepo) Create(_ context.Context, category *domain.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.names[category.Name]; ok {
		return domain.ErrCategoryExists
	}
	r.names[category.Name] = *category
	return nil
}

func (r *fakeCategoryRepo) Exists(_ context.Context, name string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return false, r.err
	}
	_, ok := r.names[name]
	return ok, nil
}

func (r *fakeCategoryRepo) List(_ context.Context) ([]domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listCalls++
	if r.err != nil {
		return nil, r.err
	}
	out := make([]domain.Category, 0, len(r.names))
	for _, c := range r.names {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type fakeBlobStore struct {
	mu        sync.Mutex
	objects   map[string][]byte
	puts      int
	deleted   []string
	putErr    error
	deleteErr error
	// failDeletes makes the next n deletes fail before deleteErr applies.
	failDeletes int
	fixedURL    string
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{objects: map[string][]byte{}}
}

func (s *fakeBlobStore) Put(_ context.Context, name, _ string, _ int64, reader io.Reader) (*domain.StoredBlob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.puts++
	if s.putErr != nil {
		return nil, s.putErr
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	key := "images-website/" + name
	s.objects[key] = data
	url := "https://cdn.example.com/" + key
	if s.fixedURL != "" {
		url = s.fixedURL
	}
	return &domain.StoredBlob{URL: url, PublicID: key}, nil
}

func (s *fakeBlobStore) Delete(_ context.Context, publicID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, publicID)
	if s.failDeletes > 0 {
		s.failDeletes--
		return errBoom
	}
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.objects, publicID)
	return nil
}

func (s *fakeBlobStore) stored() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

type passthroughPreparer struct {
	err error
}

func (p passthroughPreparer) Prepare(file *domain.UploadFile) (*domain.UploadFile, error) {
	if p.err != nil {
		return nil, p.err
	}
	data, err := io.ReadAll(file.Reader)
	if err != nil {
		return nil, err
	}
	return &domain.UploadFile{
		Filename:    file.Filename,
		ContentType: "image/jpeg",
		Size:        int64(len(data)),
		Reader:      bytes.NewReader(data),
	}, nil
}

type fakeCache struct {
	mu      sync.Mutex
	entries map[string]any
	deletes []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string]any{}}
}

func (c *fakeCache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	return v, ok
}

func (c *fakeCache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
}

func (c *fakeCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deletes = append(c.deletes, key)
	delete(c.entries, key)
}

type fakeQueue struct {
	mu        sync.Mutex
	tasks     []string
	contexts  []context.Context
	onPublish func(ctx context.Context, publicID string)
}

func (q *fakeQueue) PublishBlobCleanup(ctx context.Context, publicID, reason string) error {
	q.mu.Lock()
	q.tasks = append(q.tasks, fmt.Sprintf("%s|%s", publicID, reason))
	q.contexts = append(q.contexts, ctx)
	hook := q.onPublish
	q.mu.Unlock()

	if hook != nil {
		hook(ctx, publicID)
	}
	return nil
}

func (q *fakeQueue) Close() error { return nil }

type fakeUserRepo struct {
	users map[string]*domain.User
	err   error
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.Email]; ok {
		return domain.ErrUserExists
	}
	r.users[user.Email] = user
	return nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.users[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

type fakeTokens struct{}

func (fakeTokens) Issue(userID string) (string, error) {
	return "token-for-" + userID, nil
}

func (fakeTokens) Parse(token string) (*domain.Identity, error) {
	id, ok := strings.CutPrefix(token, "token-for-")
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	return &domain.Identity{UserID: id}, nil
}
