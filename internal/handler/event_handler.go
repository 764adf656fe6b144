package handler

import (
	"iot-ledger-backend/internal/repository"

	"github.com/gofiber/fiber/v2"
)

// EventHandler exposes the append-only audit log so indexers can replay
// state instead of polling the tables.
type EventHandler struct {
	events repository.EventRepository
}

func NewEventHandler(events repository.EventRepository) *EventHandler {
	return &EventHandler{events: events}
}

func (h *EventHandler) List(c *fiber.Ctx) error {
	offset := c.QueryInt("offset", 0)
	limit := c.QueryInt("limit", 50)
	device := c.Query("device")
	eventType := c.Query("type")

	var (
		events any
		err    error
	)
	switch {
	case device != "":
		events, err = h.events.ByDevice(device, offset, limit)
	case eventType != "":
		events, err = h.events.ByType(eventType, offset, limit)
	default:
		events, err = h.events.Recent(offset, limit)
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch events"})
	}
	return c.JSON(fiber.Map{"data": events})
}
