package handler

import (
	"iot-ledger-backend/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

type RoleHandler struct {
	access *usecase.AccessUsecase
}

func NewRoleHandler(access *usecase.AccessUsecase) *RoleHandler {
	return &RoleHandler{access: access}
}

type RoleRequest struct {
	Role    string `json:"role"`
	Account string `json:"account"`
}

func (h *RoleHandler) Grant(c *fiber.Ctx) error {
	var req RoleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Malformed request body"})
	}
	if err := h.access.GrantRole(caller(c), req.Role, req.Account); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Role granted"})
}

func (h *RoleHandler) Revoke(c *fiber.Ctx) error {
	var req RoleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Malformed request body"})
	}
	if err := h.access.RevokeRole(caller(c), req.Role, req.Account); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Role revoked"})
}

func (h *RoleHandler) Members(c *fiber.Ctx) error {
	members, err := h.access.Members(c.Params("role"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"role": c.Params("role"), "data": members})
}

func (h *RoleHandler) Has(c *fiber.Ctx) error {
	has, err := h.access.HasRole(c.Params("role"), c.Params("account"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"role": c.Params("role"), "account": c.Params("account"), "has_role": has})
}
