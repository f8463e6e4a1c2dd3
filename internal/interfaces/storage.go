// Package interfaces declares the storage contracts the rest of the
// service programs against. Implementations live under internal/storage.
package interfaces

import (
	"context"
	"errors"

	"github.com/digestcode/digest/internal/models"
)

// ErrNotFound is returned by every store when the requested record does
// not exist.
var ErrNotFound = errors.New("record not found")

// StorageManager owns the database connection and hands out stores.
type StorageManager interface {
	Users() UserStore
	Clients() ClientStore
	Memberships() MembershipStore
	Courses() CourseStore
	Posts() PostStore
	Ping(ctx context.Context) error
	Close() error
}

// UserStore persists user accounts.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, username string) error
	List(ctx context.Context) ([]*models.User, error)
}

// ClientStore persists registered OAuth2 clients.
type ClientStore interface {
	Create(ctx context.Context, client *models.Client) error
	Get(ctx context.Context, id string) (*models.Client, error)
	Update(ctx context.Context, client *models.Client) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*models.Client, error)
}

// MembershipStore persists named membership roles.
type MembershipStore interface {
	Upsert(ctx context.Context, membership *models.Membership) error
	Get(ctx context.Context, name string) (*models.Membership, error)
	List(ctx context.Context) ([]*models.Membership, error)
}

// CourseStore persists courses and their attached notes and comments.
type CourseStore interface {
	Create(ctx context.Context, course *models.Course) error
	Get(ctx context.Context, id string) (*models.Course, error)
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*models.Course, error)

	AddNote(ctx context.Context, note *models.CourseNote) error
	ListNotes(ctx context.Context, courseID, author string) ([]*models.CourseNote, error)
	AddComment(ctx context.Context, comment *models.CourseComment) error
	ListComments(ctx context.Context, courseID string) ([]*models.CourseComment, error)
}

// PostStore persists posts and their comments.
type PostStore interface {
	Create(ctx context.Context, post *models.Post) error
	Get(ctx context.Context, id string) (*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*models.Post, error)

	AddComment(ctx context.Context, comment *models.PostComment) error
	ListComments(ctx context.Context, postID string) ([]*models.PostComment, error)
}
