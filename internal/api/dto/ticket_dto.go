package dto

import (
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// UpdateTicketRequest payload. Only the allow-listed mutable fields are
// representable; a channel or sender key in the body is simply dropped by
// decoding.
type UpdateTicketRequest struct {
	Status     *domain.TicketStatus   `json:"status"`
	Priority   *domain.TicketPriority `json:"priority"`
	Category   *domain.TicketCategory `json:"category"`
	AssignedTo *string                `json:"assignedTo"`
}

// CreateReplyRequest payload.
type CreateReplyRequest struct {
	TicketID string `json:"ticketId"`
	Text     string `json:"text"`
	Author   string `json:"author"`
}

// TicketResponse is the wire shape of a ticket, comments embedded.
type TicketResponse struct {
	ID          string                `json:"id"`
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Status      domain.TicketStatus   `json:"status"`
	Priority    domain.TicketPriority `json:"priority"`
	Category    domain.TicketCategory `json:"category"`
	AssignedTo  *string               `json:"assignedTo"`
	Channel     domain.TicketChannel  `json:"channel"`
	Sender      SenderResponse        `json:"sender"`
	CreatedAt   time.Time             `json:"createdAt"`
	Comments    []CommentResponse     `json:"comments"`
}

// SenderResponse mirrors the requester contact record.
type SenderResponse struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// CommentResponse is the wire shape of a comment.
type CommentResponse struct {
	ID        string    `json:"id"`
	TicketID  string    `json:"ticketId"`
	Text      string    `json:"text"`
	Author    string    `json:"author"`
	Timestamp time.Time `json:"timestamp"`
}
