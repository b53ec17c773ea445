// Package intake translates channel-specific payloads into the canonical
// ticket-creation request consumed by the ticket service.
package intake

import (
	"encoding/json"
	"strings"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/service"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// smsTicketTitle is the placeholder title for tickets opened by text
// message; SMS payloads carry no subject line.
const smsTicketTitle = "SMS Ticket"

// FormPayload is the JSON body of a direct ticket submission (web form or
// API client).
type FormPayload struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Priority    domain.TicketPriority `json:"priority"`
	Category    domain.TicketCategory `json:"category"`
	AssignedTo  string                `json:"assignedTo"`
	Channel     domain.TicketChannel  `json:"channel"`
	Sender      SenderPayload         `json:"sender"`
}

// SenderPayload mirrors domain.Sender on the wire.
type SenderPayload struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// EmailPayload is the JSON body an inbound-email provider posts to the
// email webhook. MessageID, when present, is used for replay dedup.
type EmailPayload struct {
	Subject   string `json:"subject"`
	Text      string `json:"text"`
	From      string `json:"from"`
	MessageID string `json:"messageId"`
}

// Form maps a direct submission to the canonical creation request.
func Form(p FormPayload) service.CreateTicketInput {
	return service.CreateTicketInput{
		Title:       p.Title,
		Description: p.Description,
		Priority:    p.Priority,
		Category:    p.Category,
		AssignedTo:  p.AssignedTo,
		Channel:     p.Channel,
		Sender: domain.Sender{
			Email: p.Sender.Email,
			Phone: p.Sender.Phone,
		},
	}
}

// Email parses a raw inbound-email webhook body. It returns the canonical
// creation request plus the provider message id, or a bad-request error
// when the body is not parseable email JSON. Priority always defaults to
// medium on this path.
func Email(raw []byte) (service.CreateTicketInput, string, error) {
	var payload EmailPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return service.CreateTicketInput{}, "", apperrors.NewBadRequest("malformed email payload")
	}
	return service.CreateTicketInput{
		Title:       payload.Subject,
		Description: payload.Text,
		Priority:    domain.TicketPriorityMedium,
		Channel:     domain.ChannelEmail,
		Sender:      domain.Sender{Email: payload.From},
	}, payload.MessageID, nil
}

// SMS maps an inbound text message (form fields Body and From) to the
// canonical creation request. Both fields are required.
func SMS(body, from string) (service.CreateTicketInput, error) {
	if strings.TrimSpace(body) == "" || strings.TrimSpace(from) == "" {
		return service.CreateTicketInput{}, apperrors.NewBadRequest("sms payload requires Body and From")
	}
	return service.CreateTicketInput{
		Title:       smsTicketTitle,
		Description: body,
		Priority:    domain.TicketPriorityMedium,
		Channel:     domain.ChannelSMS,
		Sender:      domain.Sender{Phone: from},
	}, nil
}
