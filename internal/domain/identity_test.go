package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentity(t *testing.T) {
	anon := Identity{}
	user := Identity{UserID: 7}
	admin := Identity{UserID: 1, IsAdmin: true}

	assert.ErrorIs(t, anon.RequireUser(), ErrUnauthorized)
	assert.ErrorIs(t, anon.RequireAdmin(), ErrUnauthorized)
	assert.NoError(t, user.RequireUser())
	assert.ErrorIs(t, user.RequireAdmin(), ErrForbidden)
	assert.NoError(t, admin.RequireAdmin())

	assert.True(t, user.CanAccess(7))
	assert.False(t, user.CanAccess(8))
	assert.True(t, admin.CanAccess(8))
	assert.False(t, anon.CanAccess(0))
}
