package permission_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/systemair-inventario/internal/domain/entity"
	"github.com/jhoicas/systemair-inventario/internal/domain/permission"
)

func user(role string) *entity.User {
	return &entity.User{ID: "u", Username: "u", Email: "u@x.com", Role: role}
}

func TestHasPermission_Admin(t *testing.T) {
	admin := user(entity.RoleAdmin)
	for _, s := range []string{
		permission.SectionDashboard, permission.SectionProducts, permission.SectionDelivery,
		permission.SectionStock, permission.SectionSettings,
	} {
		for _, a := range []string{permission.ActionView, permission.ActionAdd, permission.ActionEdit, permission.ActionDelete} {
			assert.True(t, permission.HasPermission(admin, s, a), "%s/%s", s, a)
		}
	}
}

func TestHasPermission_WarehouseManager(t *testing.T) {
	wm := user(entity.RoleWarehouseManager)

	assert.True(t, permission.HasPermission(wm, permission.SectionProducts, permission.ActionEdit))
	assert.False(t, permission.HasPermission(wm, permission.SectionProducts, permission.ActionDelete))
	assert.True(t, permission.HasPermission(wm, permission.SectionDelivery, permission.ActionAdd))
	assert.False(t, permission.HasPermission(wm, permission.SectionDelivery, permission.ActionDelete))
	assert.True(t, permission.HasPermission(wm, permission.SectionStock, permission.ActionDelete))
	assert.True(t, permission.HasPermission(wm, permission.SectionDashboard, permission.ActionView))
	assert.False(t, permission.HasPermission(wm, permission.SectionDashboard, permission.ActionAdd))
	assert.False(t, permission.HasPermission(wm, permission.SectionSettings, permission.ActionView))
}

func TestHasPermission_Commercial(t *testing.T) {
	c := user(entity.RoleCommercial)

	assert.True(t, permission.HasPermission(c, permission.SectionDelivery, permission.ActionView))
	assert.False(t, permission.HasPermission(c, permission.SectionDelivery, permission.ActionAdd))
	assert.False(t, permission.HasPermission(c, permission.SectionProducts, permission.ActionView))
	assert.True(t, permission.HasPermission(c, permission.SectionStock, permission.ActionView))
	assert.False(t, permission.HasPermission(c, permission.SectionStock, permission.ActionEdit))
	assert.False(t, permission.HasPermission(c, permission.SectionSettings, permission.ActionView))
}

func TestHasPermission_EntradasDesconocidas(t *testing.T) {
	assert.False(t, permission.HasPermission(nil, permission.SectionStock, permission.ActionView))
	assert.False(t, permission.HasPermission(user("guest"), permission.SectionStock, permission.ActionView))
	assert.False(t, permission.HasPermission(user(entity.RoleAdmin), "reports", permission.ActionView))
	assert.False(t, permission.HasPermission(user(entity.RoleAdmin), permission.SectionStock, "export"))
}

func TestForRole_DevuelveCopia(t *testing.T) {
	m, ok := permission.ForRole(entity.RoleCommercial)
	assert.True(t, ok)
	m[permission.SectionSettings] = permission.Actions{View: true}
	assert.False(t, permission.RoleHasPermission(entity.RoleCommercial, permission.SectionSettings, permission.ActionView))

	_, ok = permission.ForRole("guest")
	assert.False(t, ok)
}
