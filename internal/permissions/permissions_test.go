package permissions

import (
	"testing"

	"reviewhub/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestRolePredicates(t *testing.T) {
	assert.True(t, IsAdmin(models.RoleAdmin))
	assert.False(t, IsAdmin(models.RoleModerator))
	assert.False(t, IsAdmin(models.RoleUser))
	assert.False(t, IsAdmin(""))

	assert.True(t, IsModerator(models.RoleModerator))
	assert.False(t, IsModerator(models.RoleAdmin))

	assert.True(t, CanManageUsers(models.RoleAdmin))
	assert.False(t, CanManageUsers(models.RoleModerator))

	assert.True(t, CanEditCatalog(models.RoleAdmin))
	assert.False(t, CanEditCatalog(models.RoleModerator))
	assert.False(t, CanEditCatalog(models.RoleUser))
}

func TestCanModify(t *testing.T) {
	tests := []struct {
		name     string
		role     string
		isAuthor bool
		want     bool
	}{
		{"author with user role", models.RoleUser, true, true},
		{"stranger with user role", models.RoleUser, false, false},
		{"moderator not author", models.RoleModerator, false, true},
		{"admin not author", models.RoleAdmin, false, true},
		{"unknown role not author", "guest", false, false},
		{"unknown role but author", "guest", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanModify(tt.role, tt.isAuthor))
		})
	}
}
