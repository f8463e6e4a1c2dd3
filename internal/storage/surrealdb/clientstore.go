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

// clientRow is the DB-level representation of a registered client.
type clientRow struct {
	ClientID     string              `json:"client_id"`
	Name         string              `json:"name"`
	Secret       string              `json:"secret"`
	Description  string              `json:"description"`
	RedirectURI  string              `json:"redirect_uri"`
	Permissions  []models.Permission `json:"permissions"`
	ExpiryDate   time.Time           `json:"expiry_date"`
	RegisteredAt time.Time           `json:"registered_at"`
	RegisteredBy string              `json:"registered_by"`
}

const clientFields = "client_id, name, secret, description, redirect_uri, permissions, expiry_date, registered_at, registered_by"

func (r clientRow) toModel() *models.Client {
	return &models.Client{
		ID:           r.ClientID,
		Name:         r.Name,
		Secret:       r.Secret,
		Description:  r.Description,
		RedirectURI:  r.RedirectURI,
		Permissions:  r.Permissions,
		ExpiryDate:   r.ExpiryDate,
		RegisteredAt: r.RegisteredAt,
		RegisteredBy: r.RegisteredBy,
	}
}

// ClientStore implements interfaces.ClientStore using SurrealDB.
type ClientStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

var _ interfaces.ClientStore = (*ClientStore)(nil)

// NewClientStore creates a new ClientStore.
func NewClientStore(db *surrealdb.DB, logger *common.Logger) *ClientStore {
	return &ClientStore{db: db, logger: logger}
}

func (s *ClientStore) upsert(ctx context.Context, client *models.Client) error {
	sql := `UPSERT $rid SET
		client_id = $client_id, name = $name, secret = $secret,
		description = $description, redirect_uri = $redirect_uri,
		permissions = $permissions, expiry_date = $expiry_date,
		registered_at = $registered_at, registered_by = $registered_by`
	vars := map[string]any{
		"rid":           surrealmodels.NewRecordID("client", client.ID),
		"client_id":     client.ID,
		"name":          client.Name,
		"secret":        client.Secret,
		"description":   client.Description,
		"redirect_uri":  client.RedirectURI,
		"permissions":   client.Permissions,
		"expiry_date":   client.ExpiryDate,
		"registered_at": client.RegisteredAt,
		"registered_by": client.RegisteredBy,
	}
	if _, err := surrealdb.Query[any](ctx, s.db, sql, vars); err != nil {
		return fmt.Errorf("failed to save client: %w", err)
	}
	return nil
}

func (s *ClientStore) Create(ctx context.Context, client *models.Client) error {
	if client.RegisteredAt.IsZero() {
		client.RegisteredAt = time.Now()
	}
	return s.upsert(ctx, client)
}

func (s *ClientStore) Get(ctx context.Context, id string) (*models.Client, error) {
	sql := fmt.Sprintf("SELECT %s FROM $rid", clientFields)
	vars := map[string]any{
		"rid": surrealmodels.NewRecordID("client", id),
	}
	results, err := surrealdb.Query[[]clientRow](ctx, s.db, sql, vars)
	if err != nil {
		if isNotFoundError(err) {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, interfaces.ErrNotFound
	}
	return (*results)[0].Result[0].toModel(), nil
}

func (s *ClientStore) Update(ctx context.Context, client *models.Client) error {
	if _, err := s.Get(ctx, client.ID); err != nil {
		return err
	}
	return s.upsert(ctx, client)
}

func (s *ClientStore) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	rid := surrealmodels.NewRecordID("client", id)
	if _, err := surrealdb.Delete[clientRow](ctx, s.db, rid); err != nil && !isNotFoundError(err) {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	return nil
}

func (s *ClientStore) List(ctx context.Context) ([]*models.Client, error) {
	sql := fmt.Sprintf("SELECT %s FROM client ORDER BY registered_at", clientFields)
	results, err := surrealdb.Query[[]clientRow](ctx, s.db, sql, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	if results == nil || len(*results) == 0 {
		return nil, nil
	}
	clients := make([]*models.Client, 0, len((*results)[0].Result))
	for _, row := range (*results)[0].Result {
		clients = append(clients, row.toModel())
	}
	return clients, nil
}
