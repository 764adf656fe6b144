package routes

import (
	"iot-ledger-backend/internal/handler"
	"iot-ledger-backend/internal/repository"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupEventRoutes(app *fiber.App, db *gorm.DB) {
	hdl := handler.NewEventHandler(repository.NewEventRepository(db))

	app.Get("/api/events", hdl.List)
}
