package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/service"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// RepliesHandler manages staff replies to tickets.
type RepliesHandler struct {
	service *service.TicketService
}

// NewRepliesHandler constructs handler.
func NewRepliesHandler(ticketService *service.TicketService) *RepliesHandler {
	return &RepliesHandler{service: ticketService}
}

// CreateReply POST /replies. The comment is created even when the outbound
// reply cannot be delivered.
func (h *RepliesHandler) CreateReply(c *fiber.Ctx) error {
	var req dto.CreateReplyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}
	comment, err := h.service.AddReply(c.UserContext(), req.TicketID, req.Text, req.Author)
	if err != nil {
		return err
	}
	return c.JSON(commentResponse(comment))
}
