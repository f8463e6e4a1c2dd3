package surrealdb

import (
	"context"
	"fmt"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/digestcode/digest/internal/common"
	"github.com/digestcode/digest/internal/interfaces"
	"github.com/digestcode/digest/internal/models"
)

// membershipRow is the DB-level representation of a membership role.
// The grid is stored as a plain nested object keyed by resource type.
type membershipRow struct {
	Name string                                    `json:"name"`
	Grid map[models.ResourceType]models.ActionGrid `json:"grid"`
}

func (r membershipRow) toModel() *models.Membership {
	return &models.Membership{ID: r.Name, Name: r.Name, Grid: r.Grid}
}

// MembershipStore implements interfaces.MembershipStore using SurrealDB.
type MembershipStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

var _ interfaces.MembershipStore = (*MembershipStore)(nil)

// NewMembershipStore creates a new MembershipStore.
func NewMembershipStore(db *surrealdb.DB, logger *common.Logger) *MembershipStore {
	return &MembershipStore{db: db, logger: logger}
}

func (s *MembershipStore) Upsert(ctx context.Context, membership *models.Membership) error {
	sql := "UPSERT $rid SET name = $name, grid = $grid"
	vars := map[string]any{
		"rid":  surrealmodels.NewRecordID("membership", membership.Name),
		"name": membership.Name,
		"grid": membership.Grid,
	}
	if _, err := surrealdb.Query[any](ctx, s.db, sql, vars); err != nil {
		return fmt.Errorf("failed to save membership: %w", err)
	}
	return nil
}

func (s *MembershipStore) Get(ctx context.Context, name string) (*models.Membership, error) {
	sql := "SELECT name, grid FROM $rid"
	vars := map[string]any{
		"rid": surrealmodels.NewRecordID("membership", name),
	}
	results, err := surrealdb.Query[[]membershipRow](ctx, s.db, sql, vars)
	if err != nil {
		if isNotFoundError(err) {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}
	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, interfaces.ErrNotFound
	}
	return (*results)[0].Result[0].toModel(), nil
}

func (s *MembershipStore) List(ctx context.Context) ([]*models.Membership, error) {
	sql := "SELECT name, grid FROM membership ORDER BY name"
	results, err := surrealdb.Query[[]membershipRow](ctx, s.db, sql, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	if results == nil || len(*results) == 0 {
		return nil, nil
	}
	memberships := make([]*models.Membership, 0, len((*results)[0].Result))
	for _, row := range (*results)[0].Result {
		memberships = append(memberships, row.toModel())
	}
	return memberships, nil
}
