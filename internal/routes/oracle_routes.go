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

func SetupOracleRoutes(app *fiber.App, db *gorm.DB, oracle *usecase.OracleUsecase) {
	roles := repository.NewRoleRepository(db)
	hdl := handler.NewOracleHandler(oracle)

	api := app.Group("/api/oracle")

	api.Get("/requests", hdl.Pending)
	api.Get("/requests/:hash", hdl.GetRequest)

	api.Post("/requests", middleware.Auth, hdl.RequestVerification)

	api.Post("/fulfill", middleware.Auth, middleware.Role(roles, model.RoleOracle), hdl.Fulfill)

	admin := api.Group("", middleware.Auth, middleware.Role(roles, model.RoleGlobalAdmin))
	admin.Post("/disputes/resolve", hdl.ResolveDispute)
	admin.Put("/config", hdl.SetConfig)
}
