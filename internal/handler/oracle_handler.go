package handler

import (
	"time"

	"iot-ledger-backend/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

type OracleHandler struct {
	oracle *usecase.OracleUsecase
}

func NewOracleHandler(oracle *usecase.OracleUsecase) *OracleHandler {
	return &OracleHandler{oracle: oracle}
}

type VerificationRequestBody struct {
	DeviceHash  string `json:"device_hash"`
	RecordIndex uint64 `json:"record_index"`
	ExternalAPI string `json:"external_api"`
}

func (h *OracleHandler) RequestVerification(c *fiber.Ctx) error {
	var req VerificationRequestBody
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Malformed request body"})
	}
	request, err := h.oracle.RequestVerification(caller(c), req.DeviceHash, req.RecordIndex, req.ExternalAPI)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Verification requested",
		"data":    request,
	})
}

type FulfillRequest struct {
	RequestID string `json:"request_id"`
	IsValid   bool   `json:"is_valid"`
}

// Fulfill is the HTTP face of the oracle callback, for oracle operators that
// push results directly instead of going through the worker.
func (h *OracleHandler) Fulfill(c *fiber.Ctx) error {
	var req FulfillRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Malformed request body"})
	}
	if err := h.oracle.FulfillVerification(caller(c), req.RequestID, req.IsValid); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Verification fulfilled"})
}

type ResolveDisputeRequest struct {
	DeviceHash    string `json:"device_hash"`
	RecordIndex   uint64 `json:"record_index"`
	FinalValidity bool   `json:"final_validity"`
}

func (h *OracleHandler) ResolveDispute(c *fiber.Ctx) error {
	var req ResolveDisputeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Malformed request body"})
	}
	if err := h.oracle.ResolveDispute(caller(c), req.DeviceHash, req.RecordIndex, req.FinalValidity); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Dispute resolved"})
}

func (h *OracleHandler) GetRequest(c *fiber.Ctx) error {
	index := uint64(c.QueryInt("record_index", 0))
	request, err := h.oracle.Request(c.Params("hash"), index)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": request})
}

func (h *OracleHandler) Pending(c *fiber.Ctx) error {
	requests, err := h.oracle.Pending()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": requests})
}

type OracleConfigRequest struct {
	Method           string `json:"method"`
	JSONPath         string `json:"json_path"`
	DisputeTimeoutMS int64  `json:"dispute_timeout_ms"`
}

func (h *OracleHandler) SetConfig(c *fiber.Ctx) error {
	var req OracleConfigRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Malformed request body"})
	}
	cfg := usecase.JobConfig{
		Method:         req.Method,
		JSONPath:       req.JSONPath,
		DisputeTimeout: time.Duration(req.DisputeTimeoutMS) * time.Millisecond,
	}
	if err := h.oracle.SetConfig(caller(c), cfg); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Oracle config updated"})
}
