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

func SetupLedgerRoutes(app *fiber.App, db *gorm.DB, ledger *usecase.LedgerUsecase) {
	roles := repository.NewRoleRepository(db)
	hdl := handler.NewLedgerHandler(ledger)

	api := app.Group("/api/ledger")

	api.Get("/:hash/records", hdl.Records)
	api.Get("/:hash/validations", hdl.ValidationCount)

	api.Post("/:hash/records", middleware.Auth, hdl.Record)
	api.Post("/:hash/records/batch", middleware.Auth, hdl.BatchRecord)

	api.Post("/:hash/validate", middleware.Auth, middleware.Role(roles, model.RoleDataManager), hdl.Validate)
}
