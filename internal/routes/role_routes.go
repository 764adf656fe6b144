package routes

import (
	"iot-ledger-backend/internal/handler"
	"iot-ledger-backend/internal/middleware"
	"iot-ledger-backend/internal/model"
	"iot-ledger-backend/internal/repository"
	"iot-ledger-backend/internal/usecase"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoleRoutes(app *fiber.App, db *gorm.DB, access *usecase.AccessUsecase) {
	roles := repository.NewRoleRepository(db)
	hdl := handler.NewRoleHandler(access)

	// Which admin may grant which role is refined per-role in the usecase;
	// the group gate just keeps non-admins out.
	api := app.Group("/api/admin/roles",
		middleware.Auth,
		middleware.Role(roles, model.RoleDefaultAdmin, model.RoleGlobalAdmin))
	api.Post("/grant", hdl.Grant)
	api.Post("/revoke", hdl.Revoke)
	api.Get("/:role/members", hdl.Members)
	api.Get("/:role/members/:account", hdl.Has)
}
