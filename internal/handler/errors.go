package handler

import (
	"errors"

	"iot-ledger-backend/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

// respondError maps the usecase sentinels onto HTTP statuses. Anything
// unrecognized is a 500.
func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, usecase.ErrNotAdmin),
		errors.Is(err, usecase.ErrNotRoleAdmin),
		errors.Is(err, usecase.ErrNotDeviceManager),
		errors.Is(err, usecase.ErrNotDataManager),
		errors.Is(err, usecase.ErrNotOracle),
		errors.Is(err, usecase.ErrUnauthorized),
		errors.Is(err, usecase.ErrUnauthorizedAccess):
		status = fiber.StatusForbidden
	case errors.Is(err, usecase.ErrDeviceNotFound),
		errors.Is(err, usecase.ErrRequestNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, usecase.ErrDeviceExists),
		errors.Is(err, usecase.ErrDuplicateRequest),
		errors.Is(err, usecase.ErrAlreadyValidated),
		errors.Is(err, usecase.ErrAlreadyResolved),
		errors.Is(err, usecase.ErrRecordAlreadyValid),
		errors.Is(err, usecase.ErrDeviceRetired),
		errors.Is(err, usecase.ErrDisputeActive),
		errors.Is(err, usecase.ErrPaused):
		status = fiber.StatusConflict
	case errors.Is(err, usecase.ErrUnknownRole),
		errors.Is(err, usecase.ErrInvalidDevice),
		errors.Is(err, usecase.ErrInvalidData),
		errors.Is(err, usecase.ErrInvalidDeviceType),
		errors.Is(err, usecase.ErrInvalidPercentage),
		errors.Is(err, usecase.ErrInvalidSignature),
		errors.Is(err, usecase.ErrArrayLengthMismatch),
		errors.Is(err, usecase.ErrNoRewardsAvailable),
		errors.Is(err, usecase.ErrAmountOverflow),
		errors.Is(err, usecase.ErrInsufficientBalance),
		errors.Is(err, usecase.ErrInvalidAddress):
		status = fiber.StatusBadRequest
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

// caller returns the authenticated address set by the Auth middleware.
func caller(c *fiber.Ctx) string {
	address, _ := c.Locals("address").(string)
	return address
}
