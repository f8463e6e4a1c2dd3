package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMembershipRequiresFullGrid(t *testing.T) {
	grid := uniformGrid(LimitedAccess)
	delete(grid, ResourceSandbox)

	_, err := NewMembership("partial", grid)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sandbox")
}

func TestNewMembershipRejectsUnknownLevel(t *testing.T) {
	grid := uniformGrid(LimitedAccess)
	row := grid[ResourcePost]
	row.Delete = AccessLevel("total-access")
	grid[ResourcePost] = row

	_, err := NewMembership("broken", grid)
	require.Error(t, err)
}

func TestMembershipLevelDefaultsToNoAccess(t *testing.T) {
	m := &Membership{Name: "sparse", Grid: map[ResourceType]ActionGrid{
		ResourceCourse: {View: FullAccess},
	}}

	assert.Equal(t, FullAccess, m.Level(ResourceCourse, ActionView))
	assert.Equal(t, NoAccess, m.Level(ResourceCourse, ActionDelete))
	assert.Equal(t, NoAccess, m.Level(ResourcePost, ActionView))
	assert.Equal(t, NoAccess, m.Level(ResourceCourse, Action("update")))

	var nilMembership *Membership
	assert.Equal(t, NoAccess, nilMembership.Level(ResourceCourse, ActionView))
}

func TestDefaultMembershipShape(t *testing.T) {
	m := DefaultMembership()

	assert.Equal(t, LimitedAccess, m.Level(ResourceCourse, ActionView))
	assert.Equal(t, LimitedAccess, m.Level(ResourcePostComment, ActionCreate))
	assert.Equal(t, NoAccess, m.Level(ResourceClient, ActionView))
	assert.Equal(t, NoAccess, m.Level(ResourceUserPayment, ActionDelete))
}

func TestAdminMembershipIsFullEverywhere(t *testing.T) {
	m := AdminMembership()
	for _, rt := range ResourceTypes() {
		for _, action := range Actions() {
			assert.Equal(t, FullAccess, m.Level(rt, action), "%s %s", rt, action)
		}
	}
}

func TestMembershipPermissionsCoversEverySlot(t *testing.T) {
	perms := AdminMembership().Permissions()
	require.Len(t, perms, len(ResourceTypes())*len(Actions()))

	seen := make(map[Permission]bool, len(perms))
	for _, p := range perms {
		key := Permission{Resource: p.Resource, Action: p.Action}
		assert.False(t, seen[key], "duplicate slot %s %s", p.Resource, p.Action)
		seen[key] = true
	}
}
