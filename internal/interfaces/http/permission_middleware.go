package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/systemair-inventario/internal/application/dto"
	"github.com/jhoicas/systemair-inventario/internal/domain/permission"
)

// RequirePermission devuelve un middleware que exige que el rol del token pueda
// ejecutar action sobre section. Debe usarse DESPUÉS de AuthMiddleware.
//
//   - 401 si no hay rol en el contexto.
//   - 403 si la matriz de permisos no lo permite.
func RequirePermission(section, action string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "MISSING_ROLE",
				Message: "rol no encontrado en el token",
			})
		}
		if !permission.RoleHasPermission(role, section, action) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "FORBIDDEN",
				Message: "el rol '" + role + "' no puede " + action + " en " + section,
			})
		}
		return c.Next()
	}
}
