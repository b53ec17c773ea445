package events

import (
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated    EventType = "ticket_created"
	EventTicketUpdated    EventType = "ticket_updated"
	EventTicketClosed     EventType = "ticket_closed"
	EventTicketReplyAdded EventType = "ticket_reply_added"
)

// Event represents a domain event emitted by the ticket service. Payloads
// carry the full snapshot the notification templates need, so subscribers
// never have to read the store.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Status      domain.TicketStatus   `json:"status"`
	Priority    domain.TicketPriority `json:"priority"`
	Category    domain.TicketCategory `json:"category"`
	SenderEmail string                `json:"sender_email,omitempty"`
}

// TicketUpdatedPayload payload.
type TicketUpdatedPayload struct {
	Title       string                `json:"title"`
	Status      domain.TicketStatus   `json:"status"`
	Priority    domain.TicketPriority `json:"priority"`
	SenderEmail string                `json:"sender_email,omitempty"`
}

// TicketClosedPayload payload.
type TicketClosedPayload struct {
	Title       string `json:"title"`
	SenderEmail string `json:"sender_email,omitempty"`
}

// TicketReplyAddedPayload payload.
type TicketReplyAddedPayload struct {
	Title       string               `json:"title"`
	Channel     domain.TicketChannel `json:"channel"`
	SenderEmail string               `json:"sender_email,omitempty"`
	SenderPhone string               `json:"sender_phone,omitempty"`
	Text        string               `json:"text"`
	Author      string               `json:"author"`
}
