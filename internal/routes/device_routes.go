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

func SetupDeviceRoutes(app *fiber.App, db *gorm.DB, registry *usecase.RegistryUsecase) {
	roles := repository.NewRoleRepository(db)
	hdl := handler.NewDeviceHandler(registry)

	api := app.Group("/api/devices")

	// Reads stay open even when the registry is paused.
	api.Get("/owner/:owner", hdl.ByOwner)
	api.Get("/type/:type/count", hdl.TypeCount)
	api.Get("/:hash", hdl.Get)

	api.Post("/", middleware.Auth, hdl.Register)
	api.Post("/:hash/transfer", middleware.Auth, hdl.Transfer)
	api.Post("/:hash/retire", middleware.Auth, hdl.Retire)

	manager := api.Group("", middleware.Auth, middleware.Role(roles, model.RoleDeviceManager))
	manager.Put("/:hash/status", hdl.UpdateStatus)
	manager.Put("/status/batch", hdl.BatchUpdateStatus)
}
