package handler

import (
	"iot-ledger-backend/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	users *usecase.UserUsecase
}

func NewAuthHandler(users *usecase.UserUsecase) *AuthHandler {
	return &AuthHandler{users: users}
}

type RegisterRequest struct {
	Address  string `json:"address"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Malformed request body"})
	}
	if req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Password is required"})
	}

	user, err := h.users.Register(req.Address, req.Password)
	if err == usecase.ErrInvalidAddress {
		return respondError(c, err)
	}
	if err != nil {
		// Most likely the unique index: address already registered.
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Address already registered"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Account created",
		"data":    fiber.Map{"address": user.Address},
	})
}

type LoginRequest struct {
	Address  string `json:"address"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Malformed request body"})
	}

	token, err := h.users.Login(req.Address, req.Password)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid address or password"})
	}

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   token,
	})
}
