package handler

import (
	"iot-ledger-backend/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

type LedgerHandler struct {
	ledger *usecase.LedgerUsecase
}

func NewLedgerHandler(ledger *usecase.LedgerUsecase) *LedgerHandler {
	return &LedgerHandler{ledger: ledger}
}

type RecordRequest struct {
	DataHash string `json:"data_hash"`
	DataType string `json:"data_type"`
}

func (h *LedgerHandler) Record(c *fiber.Ctx) error {
	var req RecordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Malformed request body"})
	}
	record, err := h.ledger.Record(caller(c), c.Params("hash"), req.DataHash, req.DataType)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Data recorded",
		"data":    record,
	})
}

type BatchRecordRequest struct {
	DataHashes []string `json:"data_hashes"`
	DataTypes  []string `json:"data_types"`
}

func (h *LedgerHandler) BatchRecord(c *fiber.Ctx) error {
	var req BatchRecordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Malformed request body"})
	}
	records, err := h.ledger.BatchRecord(caller(c), c.Params("hash"), req.DataHashes, req.DataTypes)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Data recorded",
		"data":    records,
	})
}

type ValidateRequest struct {
	Timestamp int64 `json:"timestamp"`
}

func (h *LedgerHandler) Validate(c *fiber.Ctx) error {
	var req ValidateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Malformed request body"})
	}
	record, err := h.ledger.Validate(caller(c), c.Params("hash"), req.Timestamp)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Data validated",
		"data":    record,
	})
}

func (h *LedgerHandler) Records(c *fiber.Ctx) error {
	start := c.QueryInt("start", 0)
	count := c.QueryInt("count", 20)
	records, err := h.ledger.Records(c.Params("hash"), start, count)
	if err != nil {
		return respondError(c, err)
	}
	total, err := h.ledger.RecordCount(c.Params("hash"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": records, "start": start, "count": count, "total": total})
}

func (h *LedgerHandler) ValidationCount(c *fiber.Ctx) error {
	count, err := h.ledger.ValidationCount(c.Params("hash"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"device_hash": c.Params("hash"), "validation_count": count})
}
