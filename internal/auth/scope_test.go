package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digestcode/digest/internal/models"
)

func TestEncodeScope(t *testing.T) {
	assert.Equal(t, "Fview:course/detail", EncodeScope(models.Permission{
		Resource: models.ResourceCourseDetail,
		Action:   models.ActionView,
		Level:    models.FullAccess,
	}))
	assert.Equal(t, "Lmodify:post", EncodeScope(models.Permission{
		Resource: models.ResourcePost,
		Action:   models.ActionModify,
		Level:    models.LimitedAccess,
	}))
	assert.Equal(t, "Ndelete:user/payment", EncodeScope(models.Permission{
		Resource: models.ResourceUserPayment,
		Action:   models.ActionDelete,
		Level:    models.NoAccess,
	}))
}

func TestEncodeScopeRejectsUnknownComponents(t *testing.T) {
	assert.Empty(t, EncodeScope(models.Permission{
		Resource: models.ResourceCourse,
		Action:   models.ActionView,
		Level:    models.AccessLevel("partial"),
	}))
	assert.Empty(t, EncodeScope(models.Permission{
		Resource: models.ResourceType("courses"),
		Action:   models.ActionView,
		Level:    models.FullAccess,
	}))
	assert.Empty(t, EncodeScope(models.Permission{
		Resource: models.ResourceCourse,
		Action:   models.Action("update"),
		Level:    models.FullAccess,
	}))
}

func TestScopeRoundTrip(t *testing.T) {
	for _, rt := range models.ResourceTypes() {
		for _, action := range models.Actions() {
			for _, level := range []models.AccessLevel{models.FullAccess, models.LimitedAccess, models.NoAccess} {
				p := models.Permission{Resource: rt, Action: action, Level: level}
				decoded := DecodeScope(EncodeScope(p))
				require.NotNil(t, decoded, "round trip failed for %s %s %s", rt, action, level)
				assert.Equal(t, p, *decoded)
			}
		}
	}
}

func TestDecodeScopeMalformed(t *testing.T) {
	cases := []string{
		"",
		"X",
		"Xview:course",
		"Fbogus:course",
		"Fview:courses",
		"Fview",
		"Fview:",
		"F:course",
		"view:course",
	}
	for _, token := range cases {
		assert.Nil(t, DecodeScope(token), "token %q should not decode", token)
	}
}

func TestEncodeScopesOmitsNoAccess(t *testing.T) {
	scope := EncodeScopes([]models.Permission{
		{Resource: models.ResourceCourse, Action: models.ActionView, Level: models.FullAccess},
		{Resource: models.ResourceCourse, Action: models.ActionDelete, Level: models.NoAccess},
		{Resource: models.ResourcePost, Action: models.ActionCreate, Level: models.LimitedAccess},
	})
	assert.Equal(t, "Fview:course,Lcreate:post", scope)
}

func TestDecodeScopesDropsMalformedEntries(t *testing.T) {
	perms := DecodeScopes("Fview:course,garbage,Lmodify:post/comment")
	require.Len(t, perms, 2)
	assert.Equal(t, models.ResourceCourse, perms[0].Resource)
	assert.Equal(t, models.ResourcePostComment, perms[1].Resource)

	assert.Nil(t, DecodeScopes(""))
	assert.Nil(t, DecodeScopes("garbage,more-garbage"))
}

func TestMembershipScopeOmitsNoAccessSlots(t *testing.T) {
	m := models.DefaultMembership()
	scope := EncodeScopes(m.Permissions())

	assert.NotContains(t, scope, ":client")
	assert.NotContains(t, scope, "N")
	assert.Contains(t, scope, "Lview:course")
}
