package domain

import "context"

type ImageRepository interface {
	Create(ctx context.Context, image *Image) error
	FindByID(ctx context.Context, id string) (*Image, error)
	ExistsByURL(ctx context.Context, imageURL string) (bool, error)
	ExistsByPublicID(ctx context.Context, publicID string) (bool, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ImageFilter) ([]*Image, error)
}

type CategoryRepository interface {
	Create(ctx context.Context, category *Category) error
	Exists(ctx context.Context, name string) (bool, error)
	List(ctx context.Context) ([]Category, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
}
