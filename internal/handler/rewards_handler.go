package handler

import (
	"iot-ledger-backend/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

type RewardsHandler struct {
	rewards *usecase.RewardsUsecase
}

func NewRewardsHandler(rewards *usecase.RewardsUsecase) *RewardsHandler {
	return &RewardsHandler{rewards: rewards}
}

func (h *RewardsHandler) Claim(c *fiber.Ctx) error {
	amount, err := h.rewards.Claim(caller(c), c.Params("hash"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Rewards claimed",
		"amount":  amount,
	})
}

type SlashRequest struct {
	Operator string `json:"operator"`
}

func (h *RewardsHandler) Slash(c *fiber.Ctx) error {
	var req SlashRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Malformed request body"})
	}
	amount, err := h.rewards.Slash(caller(c), c.Params("hash"), req.Operator)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Operator slashed",
		"amount":  amount,
	})
}

type TokenTransferRequest struct {
	To     string `json:"to"`
	Amount uint64 `json:"amount"`
}

func (h *RewardsHandler) Transfer(c *fiber.Ctx) error {
	var req TokenTransferRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Malformed request body"})
	}
	if err := h.rewards.Transfer(caller(c), req.To, req.Amount); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Transfer complete"})
}

func (h *RewardsHandler) Balance(c *fiber.Ctx) error {
	balance, err := h.rewards.BalanceOf(c.Params("account"))
	if err != nil {
		return respondError(c, err)
	}
	slashed, err := h.rewards.SlashedOf(c.Params("account"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"account": c.Params("account"),
		"balance": balance,
		"slashed": slashed,
	})
}

func (h *RewardsHandler) Claimed(c *fiber.Ctx) error {
	claimed, err := h.rewards.Claimed(c.Params("hash"), c.Params("account"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"claimed": claimed})
}

func (h *RewardsHandler) Config(c *fiber.Ctx) error {
	cfg, err := h.rewards.Config()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"reward_rate":      cfg.RewardRate,
		"slash_percentage": cfg.SlashPercentage,
	}})
}
