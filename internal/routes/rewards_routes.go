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

func SetupRewardsRoutes(app *fiber.App, db *gorm.DB, rewards *usecase.RewardsUsecase) {
	roles := repository.NewRoleRepository(db)
	hdl := handler.NewRewardsHandler(rewards)

	api := app.Group("/api/rewards")

	api.Get("/balance/:account", hdl.Balance)
	api.Get("/claimed/:hash/:account", hdl.Claimed)
	api.Get("/config", hdl.Config)

	api.Post("/claim/:hash", middleware.Auth, hdl.Claim)
	api.Post("/transfer", middleware.Auth, hdl.Transfer)

	api.Post("/slash/:hash", middleware.Auth, middleware.Role(roles, model.RoleOracle), hdl.Slash)
}
