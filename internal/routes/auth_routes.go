package routes

import (
	"iot-ledger-backend/internal/handler"
	"iot-ledger-backend/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App, users *usecase.UserUsecase) {
	hdl := handler.NewAuthHandler(users)

	api := app.Group("/api/auth")
	api.Post("/register", hdl.Register)
	api.Post("/login", hdl.Login)
}
