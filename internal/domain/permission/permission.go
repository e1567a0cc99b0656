// Package permission define la matriz estática rol × sección × acción.
package permission

import "github.com/jhoicas/systemair-inventario/internal/domain/entity"

// Secciones de la aplicación.
const (
	SectionDashboard = "dashboard"
	SectionProducts  = "products"
	SectionDelivery  = "delivery"
	SectionStock     = "stock"
	SectionSettings  = "settings"
)

// Acciones sobre una sección.
const (
	ActionView   = "view"
	ActionAdd    = "add"
	ActionEdit   = "edit"
	ActionDelete = "delete"
)

// Actions es el conjunto de acciones permitidas en una sección.
type Actions struct {
	View   bool `json:"view"`
	Add    bool `json:"add"`
	Edit   bool `json:"edit"`
	Delete bool `json:"delete"`
}

func (a Actions) allows(action string) bool {
	switch action {
	case ActionView:
		return a.View
	case ActionAdd:
		return a.Add
	case ActionEdit:
		return a.Edit
	case ActionDelete:
		return a.Delete
	default:
		return false
	}
}

var (
	all      = Actions{View: true, Add: true, Edit: true, Delete: true}
	viewOnly = Actions{View: true}
	noDelete = Actions{View: true, Add: true, Edit: true}
	none     = Actions{}
)

var matrix = map[string]map[string]Actions{
	entity.RoleAdmin: {
		SectionDashboard: all,
		SectionProducts:  all,
		SectionDelivery:  all,
		SectionStock:     all,
		SectionSettings:  all,
	},
	entity.RoleWarehouseManager: {
		SectionDashboard: viewOnly,
		SectionProducts:  noDelete,
		SectionDelivery:  noDelete,
		SectionStock:     all,
		SectionSettings:  none,
	},
	entity.RoleCommercial: {
		SectionDashboard: viewOnly,
		SectionProducts:  none,
		SectionDelivery:  viewOnly,
		SectionStock:     viewOnly,
		SectionSettings:  none,
	},
}

// HasPermission indica si user puede ejecutar action sobre section.
// Un usuario nil o un rol, sección o acción desconocidos nunca tienen permiso.
func HasPermission(user *entity.User, section, action string) bool {
	if user == nil {
		return false
	}
	return RoleHasPermission(user.Role, section, action)
}

// RoleHasPermission evalúa la matriz directamente por rol (usado por el middleware HTTP,
// que sólo conoce el rol del token).
func RoleHasPermission(role, section, action string) bool {
	sections, ok := matrix[role]
	if !ok {
		return false
	}
	acts, ok := sections[section]
	if !ok {
		return false
	}
	return acts.allows(action)
}

// ForRole devuelve la matriz de un rol; false si el rol no existe.
func ForRole(role string) (map[string]Actions, bool) {
	sections, ok := matrix[role]
	if !ok {
		return nil, false
	}
	out := make(map[string]Actions, len(sections))
	for k, v := range sections {
		out[k] = v
	}
	return out, true
}
