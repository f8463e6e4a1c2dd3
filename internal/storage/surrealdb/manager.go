// Package surrealdb implements the storage interfaces against SurrealDB.
package surrealdb

import (
	"context"
	"fmt"
	"strings"

	"github.com/surrealdb/surrealdb.go"

	"github.com/digestcode/digest/internal/common"
	"github.com/digestcode/digest/internal/interfaces"
)

// Manager implements interfaces.StorageManager using SurrealDB.
type Manager struct {
	db     *surrealdb.DB
	logger *common.Logger

	userStore       *UserStore
	clientStore     *ClientStore
	membershipStore *MembershipStore
	courseStore     *CourseStore
	postStore       *PostStore
}

var _ interfaces.StorageManager = (*Manager)(nil)

// NewManager connects to SurrealDB and prepares the stores.
func NewManager(logger *common.Logger, config *common.Config) (*Manager, error) {
	ctx := context.Background()

	db, err := surrealdb.New(config.Storage.Address)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SurrealDB: %w", err)
	}

	if _, err := db.SignIn(ctx, map[string]interface{}{
		"user": config.Storage.Username,
		"pass": config.Storage.Password,
	}); err != nil {
		return nil, fmt.Errorf("failed to sign in to SurrealDB: %w", err)
	}

	if err := db.Use(ctx, config.Storage.Namespace, config.Storage.Database); err != nil {
		return nil, fmt.Errorf("failed to select namespace/database: %w", err)
	}

	// Define tables up front; SurrealDB v3 errors on querying tables
	// that do not exist yet.
	tables := []string{"user", "client", "membership", "course", "course_note", "course_comment", "post", "post_comment"}
	for _, table := range tables {
		sql := fmt.Sprintf("DEFINE TABLE IF NOT EXISTS %s SCHEMALESS", table)
		if _, err := surrealdb.Query[any](ctx, db, sql, nil); err != nil {
			return nil, fmt.Errorf("failed to define table %s: %w", table, err)
		}
	}

	m := &Manager{
		db:     db,
		logger: logger,
	}

	m.userStore = NewUserStore(db, logger)
	m.clientStore = NewClientStore(db, logger)
	m.membershipStore = NewMembershipStore(db, logger)
	m.courseStore = NewCourseStore(db, logger)
	m.postStore = NewPostStore(db, logger)

	logger.Info().
		Str("address", config.Storage.Address).
		Str("namespace", config.Storage.Namespace).
		Str("database", config.Storage.Database).
		Msg("SurrealDB storage manager initialized")

	return m, nil
}

func (m *Manager) Users() interfaces.UserStore {
	return m.userStore
}

func (m *Manager) Clients() interfaces.ClientStore {
	return m.clientStore
}

func (m *Manager) Memberships() interfaces.MembershipStore {
	return m.membershipStore
}

func (m *Manager) Courses() interfaces.CourseStore {
	return m.courseStore
}

func (m *Manager) Posts() interfaces.PostStore {
	return m.postStore
}

// Ping checks the database connection.
func (m *Manager) Ping(ctx context.Context) error {
	if _, err := surrealdb.Query[any](ctx, m.db, "RETURN 1", nil); err != nil {
		return fmt.Errorf("storage ping failed: %w", err)
	}
	return nil
}

// Close shuts down the database connection.
func (m *Manager) Close() error {
	m.db.Close(context.Background())
	return nil
}

func isNotFoundError(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "not found")
}
