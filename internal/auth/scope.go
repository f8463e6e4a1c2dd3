package auth

import (
	"strings"

	"github.com/digestcode/digest/internal/models"
)

// Scope tokens carry one permission each as <level><action>:<resource>,
// where the level is a single letter: F for full, L for limited, N for no
// access. Lists join tokens with commas, e.g. "Fview:course,Lmodify:post".
const scopeSeparator = ","

var levelPrefix = map[models.AccessLevel]string{
	models.FullAccess:    "F",
	models.LimitedAccess: "L",
	models.NoAccess:      "N",
}

var prefixLevel = map[byte]models.AccessLevel{
	'F': models.FullAccess,
	'L': models.LimitedAccess,
	'N': models.NoAccess,
}

// EncodeScope renders a single permission as a scope token. It returns
// the empty string when any component of the permission is unknown.
func EncodeScope(p models.Permission) string {
	prefix, ok := levelPrefix[p.Level]
	if !ok || !p.Action.Known() || !p.Resource.Known() {
		return ""
	}
	return prefix + string(p.Action) + ":" + string(p.Resource)
}

// EncodeScopes renders a permission list as a comma-joined scope string.
// NoAccess slots and malformed permissions are omitted rather than
// encoded, so the resulting string names only effective grants.
func EncodeScopes(perms []models.Permission) string {
	tokens := make([]string, 0, len(perms))
	for _, p := range perms {
		if p.Level == models.NoAccess {
			continue
		}
		if token := EncodeScope(p); token != "" {
			tokens = append(tokens, token)
		}
	}
	return strings.Join(tokens, scopeSeparator)
}

// DecodeScope parses one scope token back into a permission. It returns
// nil when the token is malformed in any way: unknown level prefix,
// unknown action, unknown resource type, or missing separator.
func DecodeScope(token string) *models.Permission {
	if len(token) < 2 {
		return nil
	}
	level, ok := prefixLevel[token[0]]
	if !ok {
		return nil
	}
	rest := token[1:]
	sep := strings.Index(rest, ":")
	if sep <= 0 || sep == len(rest)-1 {
		return nil
	}
	action := models.Action(rest[:sep])
	resource := models.ResourceType(rest[sep+1:])
	if !action.Known() || !resource.Known() {
		return nil
	}
	return &models.Permission{Resource: resource, Action: action, Level: level}
}

// DecodeScopes parses a comma-joined scope string. Malformed tokens are
// dropped silently; the remaining permissions keep their input order.
func DecodeScopes(scope string) []models.Permission {
	if scope == "" {
		return nil
	}
	parts := strings.Split(scope, scopeSeparator)
	perms := make([]models.Permission, 0, len(parts))
	for _, part := range parts {
		if p := DecodeScope(strings.TrimSpace(part)); p != nil {
			perms = append(perms, *p)
		}
	}
	if len(perms) == 0 {
		return nil
	}
	return perms
}
