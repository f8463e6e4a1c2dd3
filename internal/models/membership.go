package models

import "fmt"

// ActionGrid holds one access level per action for a single resource type.
type ActionGrid struct {
	View   AccessLevel `json:"view"`
	Create AccessLevel `json:"create"`
	Modify AccessLevel `json:"modify"`
	Delete AccessLevel `json:"delete"`
}

// Level returns the grid cell for an action. Unknown actions read as NoAccess.
func (g ActionGrid) Level(action Action) AccessLevel {
	var level AccessLevel
	switch action {
	case ActionView:
		level = g.View
	case ActionCreate:
		level = g.Create
	case ActionModify:
		level = g.Modify
	case ActionDelete:
		level = g.Delete
	default:
		return NoAccess
	}
	if !level.Known() {
		return NoAccess
	}
	return level
}

// Membership is a named role carrying a complete permission grid: one
// access level for every (resource type, action) pair. Missing rows read
// as NoAccess so a partially stored membership can only narrow access.
type Membership struct {
	ID   string                      `json:"id,omitempty"`
	Name string                      `json:"name"`
	Grid map[ResourceType]ActionGrid `json:"grid"`
}

// NewMembership builds a membership from a full grid. Every resource type
// must have a row and every cell must hold a known level.
func NewMembership(name string, grid map[ResourceType]ActionGrid) (*Membership, error) {
	for _, rt := range ResourceTypes() {
		row, ok := grid[rt]
		if !ok {
			return nil, fmt.Errorf("membership %s: missing grid row for %s", name, rt)
		}
		for _, action := range Actions() {
			if !row.Level(action).Known() {
				return nil, fmt.Errorf("membership %s: unknown level for %s %s", name, rt, action)
			}
		}
	}
	return &Membership{Name: name, Grid: grid}, nil
}

// Level returns the access level this membership grants for a resource
// type and action. Absent rows and unknown inputs read as NoAccess.
func (m *Membership) Level(resource ResourceType, action Action) AccessLevel {
	if m == nil || m.Grid == nil {
		return NoAccess
	}
	row, ok := m.Grid[resource]
	if !ok {
		return NoAccess
	}
	return row.Level(action)
}

// Permissions flattens the grid into permission triples in canonical
// resource-type then action order, including NoAccess cells.
func (m *Membership) Permissions() []Permission {
	perms := make([]Permission, 0, len(ResourceTypes())*len(Actions()))
	for _, rt := range ResourceTypes() {
		for _, action := range Actions() {
			perms = append(perms, Permission{Resource: rt, Action: action, Level: m.Level(rt, action)})
		}
	}
	return perms
}

func uniformGrid(level AccessLevel) map[ResourceType]ActionGrid {
	grid := make(map[ResourceType]ActionGrid, len(ResourceTypes()))
	for _, rt := range ResourceTypes() {
		grid[rt] = ActionGrid{View: level, Create: level, Modify: level, Delete: level}
	}
	return grid
}

// DefaultMembership is the role assigned to newly registered users:
// limited access to everything except the client registry.
func DefaultMembership() *Membership {
	grid := uniformGrid(LimitedAccess)
	grid[ResourceClient] = ActionGrid{View: NoAccess, Create: NoAccess, Modify: NoAccess, Delete: NoAccess}
	grid[ResourceUserPayment] = ActionGrid{View: LimitedAccess, Create: LimitedAccess, Modify: LimitedAccess, Delete: NoAccess}
	return &Membership{Name: "default", Grid: grid}
}

// AdminMembership grants full access across every resource type.
func AdminMembership() *Membership {
	return &Membership{Name: "admin", Grid: uniformGrid(FullAccess)}
}
