package handler

import (
	"iot-ledger-backend/internal/model"
	"iot-ledger-backend/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

type DeviceHandler struct {
	registry *usecase.RegistryUsecase
}

func NewDeviceHandler(registry *usecase.RegistryUsecase) *DeviceHandler {
	return &DeviceHandler{registry: registry}
}

func (h *DeviceHandler) Register(c *fiber.Ctx) error {
	var req usecase.RegisterInput
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Malformed request body"})
	}

	device, err := h.registry.Register(caller(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Device registered",
		"data":    device,
	})
}

type StatusUpdateRequest struct {
	Status model.DeviceStatus `json:"status"`
}

func (h *DeviceHandler) UpdateStatus(c *fiber.Ctx) error {
	var req StatusUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Malformed request body"})
	}
	if err := h.registry.UpdateStatus(caller(c), c.Params("hash"), req.Status); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Status updated"})
}

type BatchStatusRequest struct {
	DeviceHashes []string             `json:"device_hashes"`
	Statuses     []model.DeviceStatus `json:"statuses"`
}

func (h *DeviceHandler) BatchUpdateStatus(c *fiber.Ctx) error {
	var req BatchStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Malformed request body"})
	}
	if err := h.registry.BatchUpdateStatus(caller(c), req.DeviceHashes, req.Statuses); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Statuses updated", "count": len(req.DeviceHashes)})
}

type TransferRequest struct {
	NewOwner string `json:"new_owner"`
}

func (h *DeviceHandler) Transfer(c *fiber.Ctx) error {
	var req TransferRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Malformed request body"})
	}
	if err := h.registry.TransferOwnership(caller(c), c.Params("hash"), req.NewOwner); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Ownership transferred"})
}

func (h *DeviceHandler) Retire(c *fiber.Ctx) error {
	if err := h.registry.Retire(caller(c), c.Params("hash")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Device retired"})
}

func (h *DeviceHandler) Get(c *fiber.Ctx) error {
	device, err := h.registry.Get(c.Params("hash"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": device})
}

func (h *DeviceHandler) ByOwner(c *fiber.Ctx) error {
	page := c.QueryInt("page", 0)
	pageSize := c.QueryInt("page_size", 20)
	devices, err := h.registry.DevicesByOwner(c.Params("owner"), page, pageSize)
	if err != nil {
		return respondError(c, err)
	}
	total, err := h.registry.CountByOwner(c.Params("owner"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": devices, "page": page, "page_size": pageSize, "total": total})
}

func (h *DeviceHandler) TypeCount(c *fiber.Ctx) error {
	count, err := h.registry.TypeCount(c.Params("type"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"device_type": c.Params("type"), "count": count})
}
