package handler

import (
	"iot-ledger-backend/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler groups the global-admin knobs: reward parameters and the
// registry/ledger kill-switches.
type AdminHandler struct {
	registry *usecase.RegistryUsecase
	ledger   *usecase.LedgerUsecase
	rewards  *usecase.RewardsUsecase
}

func NewAdminHandler(registry *usecase.RegistryUsecase, ledger *usecase.LedgerUsecase, rewards *usecase.RewardsUsecase) *AdminHandler {
	return &AdminHandler{registry: registry, ledger: ledger, rewards: rewards}
}

type RewardRateRequest struct {
	RewardRate uint64 `json:"reward_rate"`
}

func (h *AdminHandler) SetRewardRate(c *fiber.Ctx) error {
	var req RewardRateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Malformed request body"})
	}
	if err := h.rewards.SetRewardRate(caller(c), req.RewardRate); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Reward rate updated"})
}

type SlashPercentageRequest struct {
	SlashPercentage uint64 `json:"slash_percentage"`
}

func (h *AdminHandler) SetSlashPercentage(c *fiber.Ctx) error {
	var req SlashPercentageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Malformed request body"})
	}
	if err := h.rewards.SetSlashPercentage(caller(c), req.SlashPercentage); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Slash percentage updated"})
}

type PauseRequest struct {
	Paused bool `json:"paused"`
}

func (h *AdminHandler) PauseRegistry(c *fiber.Ctx) error {
	var req PauseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Malformed request body"})
	}
	if err := h.registry.SetPaused(caller(c), req.Paused); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Registry pause flag updated", "paused": req.Paused})
}

func (h *AdminHandler) PauseLedger(c *fiber.Ctx) error {
	var req PauseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Malformed request body"})
	}
	if err := h.ledger.SetPaused(caller(c), req.Paused); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Ledger pause flag updated", "paused": req.Paused})
}
