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

func SetupAdminRoutes(app *fiber.App, db *gorm.DB,
	registry *usecase.RegistryUsecase, ledger *usecase.LedgerUsecase, rewards *usecase.RewardsUsecase) {
	roles := repository.NewRoleRepository(db)
	hdl := handler.NewAdminHandler(registry, ledger, rewards)

	api := app.Group("/api/admin",
		middleware.Auth,
		middleware.Role(roles, model.RoleGlobalAdmin))
	api.Put("/rewards/rate", hdl.SetRewardRate)
	api.Put("/rewards/slash-percentage", hdl.SetSlashPercentage)
	api.Put("/registry/pause", hdl.PauseRegistry)
	api.Put("/ledger/pause", hdl.PauseLedger)
}
