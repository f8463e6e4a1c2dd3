package surrealdb

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/digestcode/digest/internal/common"
	"github.com/digestcode/digest/internal/interfaces"
	"github.com/digestcode/digest/internal/models"
)

// postRow is the DB-level representation of a post.
type postRow struct {
	PostID    string    `json:"post_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Author    string    `json:"author"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const postFields = "post_id, title, body, author, published, created_at, updated_at"

func (r postRow) toModel() *models.Post {
	return &models.Post{
		ID:        r.PostID,
		Title:     r.Title,
		Body:      r.Body,
		Author:    r.Author,
		Published: r.Published,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

type postCommentRow struct {
	CommentID string    `json:"comment_id"`
	PostID    string    `json:"post_id"`
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// PostStore implements interfaces.PostStore using SurrealDB.
type PostStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

var _ interfaces.PostStore = (*PostStore)(nil)

// NewPostStore creates a new PostStore.
func NewPostStore(db *surrealdb.DB, logger *common.Logger) *PostStore {
	return &PostStore{db: db, logger: logger}
}

func (s *PostStore) upsert(ctx context.Context, post *models.Post) error {
	sql := `UPSERT $rid SET
		post_id = $post_id, title = $title, body = $body, author = $author,
		published = $published, created_at = $created_at, updated_at = $updated_at`
	vars := map[string]any{
		"rid":        surrealmodels.NewRecordID("post", post.ID),
		"post_id":    post.ID,
		"title":      post.Title,
		"body":       post.Body,
		"author":     post.Author,
		"published":  post.Published,
		"created_at": post.CreatedAt,
		"updated_at": post.UpdatedAt,
	}
	if _, err := surrealdb.Query[any](ctx, s.db, sql, vars); err != nil {
		return fmt.Errorf("failed to save post: %w", err)
	}
	return nil
}

func (s *PostStore) Create(ctx context.Context, post *models.Post) error {
	if post.ID == "" {
		post.ID = uuid.NewString()
	}
	now := time.Now()
	if post.CreatedAt.IsZero() {
		post.CreatedAt = now
	}
	post.UpdatedAt = now
	return s.upsert(ctx, post)
}

func (s *PostStore) Get(ctx context.Context, id string) (*models.Post, error) {
	sql := fmt.Sprintf("SELECT %s FROM $rid", postFields)
	vars := map[string]any{
		"rid": surrealmodels.NewRecordID("post", id),
	}
	results, err := surrealdb.Query[[]postRow](ctx, s.db, sql, vars)
	if err != nil {
		if isNotFoundError(err) {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, interfaces.ErrNotFound
	}
	return (*results)[0].Result[0].toModel(), nil
}

func (s *PostStore) Update(ctx context.Context, post *models.Post) error {
	if _, err := s.Get(ctx, post.ID); err != nil {
		return err
	}
	post.UpdatedAt = time.Now()
	return s.upsert(ctx, post)
}

func (s *PostStore) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	rid := surrealmodels.NewRecordID("post", id)
	if _, err := surrealdb.Delete[postRow](ctx, s.db, rid); err != nil && !isNotFoundError(err) {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return nil
}

func (s *PostStore) List(ctx context.Context) ([]*models.Post, error) {
	sql := fmt.Sprintf("SELECT %s FROM post ORDER BY created_at", postFields)
	results, err := surrealdb.Query[[]postRow](ctx, s.db, sql, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	if results == nil || len(*results) == 0 {
		return nil, nil
	}
	posts := make([]*models.Post, 0, len((*results)[0].Result))
	for _, row := range (*results)[0].Result {
		posts = append(posts, row.toModel())
	}
	return posts, nil
}

func (s *PostStore) AddComment(ctx context.Context, comment *models.PostComment) error {
	if comment.ID == "" {
		comment.ID = uuid.NewString()
	}
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}
	sql := `UPSERT $rid SET
		comment_id = $comment_id, post_id = $post_id, author = $author,
		body = $body, created_at = $created_at`
	vars := map[string]any{
		"rid":        surrealmodels.NewRecordID("post_comment", comment.ID),
		"comment_id": comment.ID,
		"post_id":    comment.PostID,
		"author":     comment.Author,
		"body":       comment.Body,
		"created_at": comment.CreatedAt,
	}
	if _, err := surrealdb.Query[any](ctx, s.db, sql, vars); err != nil {
		return fmt.Errorf("failed to save post comment: %w", err)
	}
	return nil
}

func (s *PostStore) ListComments(ctx context.Context, postID string) ([]*models.PostComment, error) {
	sql := `SELECT comment_id, post_id, author, body, created_at FROM post_comment
		WHERE post_id = $post_id ORDER BY created_at`
	vars := map[string]any{
		"post_id": postID,
	}
	results, err := surrealdb.Query[[]postCommentRow](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to list post comments: %w", err)
	}
	if results == nil || len(*results) == 0 {
		return nil, nil
	}
	comments := make([]*models.PostComment, 0, len((*results)[0].Result))
	for _, row := range (*results)[0].Result {
		comments = append(comments, &models.PostComment{
			ID:        row.CommentID,
			PostID:    row.PostID,
			Author:    row.Author,
			Body:      row.Body,
			CreatedAt: row.CreatedAt,
		})
	}
	return comments, nil
}
