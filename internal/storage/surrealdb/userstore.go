package surrealdb

import (
	"context"
	"fmt"
	"time"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/digestcode/digest/internal/common"
	"github.com/digestcode/digest/internal/interfaces"
	"github.com/digestcode/digest/internal/models"
)

// userRow is the DB-level representation of a user account.
type userRow struct {
	Username     string         `json:"username"`
	Email        string         `json:"email"`
	PasswordHash string         `json:"password_hash"`
	Membership   string         `json:"membership"`
	Profile      models.Profile `json:"profile"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

const userFields = "username, email, password_hash, membership, profile, created_at, updated_at"

func (r userRow) toModel() *models.User {
	return &models.User{
		ID:           r.Username,
		Username:     r.Username,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		Membership:   r.Membership,
		Profile:      r.Profile,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

// UserStore implements interfaces.UserStore using SurrealDB. Usernames
// are the record keys, so uniqueness comes from the database.
type UserStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

var _ interfaces.UserStore = (*UserStore)(nil)

// NewUserStore creates a new UserStore.
func NewUserStore(db *surrealdb.DB, logger *common.Logger) *UserStore {
	return &UserStore{db: db, logger: logger}
}

func (s *UserStore) upsert(ctx context.Context, user *models.User) error {
	sql := `UPSERT $rid SET
		username = $username, email = $email, password_hash = $password_hash,
		membership = $membership, profile = $profile,
		created_at = $created_at, updated_at = $updated_at`
	vars := map[string]any{
		"rid":           surrealmodels.NewRecordID("user", user.Username),
		"username":      user.Username,
		"email":         user.Email,
		"password_hash": user.PasswordHash,
		"membership":    user.Membership,
		"profile":       user.Profile,
		"created_at":    user.CreatedAt,
		"updated_at":    user.UpdatedAt,
	}
	if _, err := surrealdb.Query[any](ctx, s.db, sql, vars); err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	return s.upsert(ctx, user)
}

func (s *UserStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	sql := fmt.Sprintf("SELECT %s FROM $rid", userFields)
	vars := map[string]any{
		"rid": surrealmodels.NewRecordID("user", username),
	}
	results, err := surrealdb.Query[[]userRow](ctx, s.db, sql, vars)
	if err != nil {
		if isNotFoundError(err) {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, interfaces.ErrNotFound
	}
	return (*results)[0].Result[0].toModel(), nil
}

func (s *UserStore) Update(ctx context.Context, user *models.User) error {
	if _, err := s.GetByUsername(ctx, user.Username); err != nil {
		return err
	}
	user.UpdatedAt = time.Now()
	return s.upsert(ctx, user)
}

func (s *UserStore) Delete(ctx context.Context, username string) error {
	if _, err := s.GetByUsername(ctx, username); err != nil {
		return err
	}
	rid := surrealmodels.NewRecordID("user", username)
	if _, err := surrealdb.Delete[userRow](ctx, s.db, rid); err != nil && !isNotFoundError(err) {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

func (s *UserStore) List(ctx context.Context) ([]*models.User, error) {
	sql := fmt.Sprintf("SELECT %s FROM user ORDER BY username", userFields)
	results, err := surrealdb.Query[[]userRow](ctx, s.db, sql, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	if results == nil || len(*results) == 0 {
		return nil, nil
	}
	users := make([]*models.User, 0, len((*results)[0].Result))
	for _, row := range (*results)[0].Result {
		users = append(users, row.toModel())
	}
	return users, nil
}
