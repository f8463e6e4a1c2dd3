// Package models defines the domain types stored in Digest.
package models

// AccessLevel is the three-level ordered access enum. The order
// NoAccess < LimitedAccess < FullAccess is total; no other dimension of
// magnitude exists.
type AccessLevel string

const (
	NoAccess      AccessLevel = "no-access"
	LimitedAccess AccessLevel = "limited-access"
	FullAccess    AccessLevel = "full-access"
)

// rank maps an access level onto the total order. Unknown levels rank
// below NoAccess so a corrupted value can never satisfy a requirement.
func (a AccessLevel) rank() int {
	switch a {
	case NoAccess:
		return 0
	case LimitedAccess:
		return 1
	case FullAccess:
		return 2
	default:
		return -1
	}
}

// Known reports whether a is one of the three defined levels.
func (a AccessLevel) Known() bool {
	return a.rank() >= 0
}

// GT reports whether a is strictly above b in the access order.
func (a AccessLevel) GT(b AccessLevel) bool { return a.rank() > b.rank() }

// GE reports whether a is at or above b in the access order.
func (a AccessLevel) GE(b AccessLevel) bool { return a.rank() >= b.rank() }

// LT reports whether a is strictly below b in the access order.
func (a AccessLevel) LT(b AccessLevel) bool { return a.rank() < b.rank() }

// LE reports whether a is at or below b in the access order.
func (a AccessLevel) LE(b AccessLevel) bool { return a.rank() <= b.rank() }

// Action is one axis of a permission slot, orthogonal to the resource type.
type Action string

const (
	ActionView   Action = "view"
	ActionCreate Action = "create"
	ActionModify Action = "modify"
	ActionDelete Action = "delete"
)

// Actions returns the four actions in their canonical order.
func Actions() []Action {
	return []Action{ActionView, ActionCreate, ActionModify, ActionDelete}
}

// Known reports whether a is one of the four defined actions.
func (a Action) Known() bool {
	switch a {
	case ActionView, ActionCreate, ActionModify, ActionDelete:
		return true
	}
	return false
}

// ResourceType identifies a protected resource class. The set is closed;
// the exact string values round-trip through scope tokens unchanged.
type ResourceType string

const (
	ResourceUser        ResourceType = "user"
	ResourceUserProfile ResourceType = "user/profile"
	ResourceUserPayment ResourceType = "user/payment"

	ResourcePost        ResourceType = "post"
	ResourcePostComment ResourceType = "post/comment"

	ResourceCourse             ResourceType = "course"
	ResourceCourseDetail       ResourceType = "course/detail"
	ResourceCourseNote         ResourceType = "course/note"
	ResourceCourseComment      ResourceType = "course/comment"
	ResourceCourseVideoLecture ResourceType = "course/video-lecture"

	ResourceSandbox ResourceType = "sandbox"

	ResourceClient ResourceType = "client"
)

// ResourceTypes returns all twelve resource types in their canonical order.
func ResourceTypes() []ResourceType {
	return []ResourceType{
		ResourceUser,
		ResourceUserProfile,
		ResourceUserPayment,
		ResourcePost,
		ResourcePostComment,
		ResourceCourse,
		ResourceCourseDetail,
		ResourceCourseNote,
		ResourceCourseComment,
		ResourceCourseVideoLecture,
		ResourceSandbox,
		ResourceClient,
	}
}

// Known reports whether t is one of the defined resource types.
func (t ResourceType) Known() bool {
	for _, rt := range ResourceTypes() {
		if t == rt {
			return true
		}
	}
	return false
}

// Permission is an immutable (resourceType, action, accessLevel) triple.
// Two permissions address the same slot iff Resource and Action match.
type Permission struct {
	Resource ResourceType `json:"type"`
	Action   Action       `json:"prop"`
	Level    AccessLevel  `json:"value"`
}

// SameSlot reports whether p and q address the same (resource, action) slot.
func (p Permission) SameSlot(q Permission) bool {
	return p.Resource == q.Resource && p.Action == q.Action
}
