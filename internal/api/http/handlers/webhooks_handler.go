package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/intake"
	"github.com/spec-kit/helpdesk/internal/service"
)

// WebhooksHandler receives inbound email and SMS deliveries and turns them
// into tickets.
type WebhooksHandler struct {
	service *service.TicketService
	deduper intake.Deduper
	logger  *zap.Logger
}

// NewWebhooksHandler constructs handler.
func NewWebhooksHandler(ticketService *service.TicketService, deduper intake.Deduper, logger *zap.Logger) *WebhooksHandler {
	return &WebhooksHandler{service: ticketService, deduper: deduper, logger: logger}
}

// Email POST /webhooks/email. The provider posts JSON with subject, text
// and from fields.
func (h *WebhooksHandler) Email(c *fiber.Ctx) error {
	input, messageID, err := intake.Email(c.Body())
	if err != nil {
		return err
	}
	if h.seenBefore(c, messageID) {
		return c.JSON(fiber.Map{"message": "Duplicate delivery ignored"})
	}
	if _, err := h.service.CreateTicket(c.UserContext(), input); err != nil {
		return err
	}
	h.markSeen(c, messageID)
	return c.JSON(fiber.Map{"message": "Ticket created"})
}

// SMS POST /webhooks/sms. The provider posts form-encoded Body and From
// fields, plus a MessageSid delivery id.
func (h *WebhooksHandler) SMS(c *fiber.Ctx) error {
	input, err := intake.SMS(c.FormValue("Body"), c.FormValue("From"))
	if err != nil {
		return err
	}
	deliveryID := c.FormValue("MessageSid")
	if h.seenBefore(c, deliveryID) {
		return c.JSON(fiber.Map{"message": "Duplicate delivery ignored"})
	}
	if _, err := h.service.CreateTicket(c.UserContext(), input); err != nil {
		return err
	}
	h.markSeen(c, deliveryID)
	return c.JSON(fiber.Map{"message": "Ticket created"})
}

// seenBefore checks the delivery id against the dedup store. Deliveries
// without an id are never deduplicated, and a failing store never blocks
// intake.
func (h *WebhooksHandler) seenBefore(c *fiber.Ctx, deliveryID string) bool {
	if deliveryID == "" {
		return false
	}
	seen, err := h.deduper.Seen(c.UserContext(), deliveryID)
	if err != nil {
		h.logger.Warn("webhook dedup check failed", zap.Error(err))
		return false
	}
	if seen {
		h.logger.Info("duplicate webhook delivery", zap.String("delivery_id", deliveryID))
	}
	return seen
}

// markSeen records the delivery id once a ticket was created for it. A
// failed create leaves the id unmarked so the provider's retry is
// processed instead of swallowed.
func (h *WebhooksHandler) markSeen(c *fiber.Ctx, deliveryID string) {
	if deliveryID == "" {
		return
	}
	if err := h.deduper.Mark(c.UserContext(), deliveryID); err != nil {
		h.logger.Warn("webhook dedup mark failed", zap.Error(err))
	}
}
